package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/erp-stock-api/internal/application/stock"
)

var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks con repositorios atados al schema de un tenant.
// Run usa una transacción con SET LOCAL search_path: el binding muere con la
// transacción y la conexión vuelve limpia al pool. RunRead usa una conexión
// dedicada y restaura el search_path antes de devolverla.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// newRepos construye el bundle de repositorios sobre un Querier (pool, conexión o tx).
func newRepos(q Querier) stock.Repos {
	return stock.Repos{
		Locations:    NewLocationRepository(q),
		Balances:     NewBalanceRepository(q),
		Movements:    NewMovementRepository(q),
		Reservations: NewReservationRepository(q),
		Forecasts:    NewForecastRepository(q),
		BranchGroups: NewBranchGroupRepository(q),
		Branches:     NewBranchRepository(q),
		Companies:    NewCompanyRepository(q),
	}
}

// Run inicia una transacción ligada al schema, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, schema string, fn func(r stock.Repos) error) error {
	if err := checkSchema(schema); err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// SET LOCAL: el search_path vuelve solo al cerrar la transacción
	if _, err := tx.Exec(ctx, `SET LOCAL search_path TO `+quoteIdent(schema)+`, public`); err != nil {
		return fmt.Errorf("bind schema %s: %w", schema, err)
	}

	if err := fn(newRepos(tx)); err != nil {
		return mapSchemaErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunRead ejecuta fn sin transacción sobre una conexión dedicada al schema.
func (r *TxRunner) RunRead(ctx context.Context, schema string, fn func(r stock.Repos) error) error {
	if err := checkSchema(schema); err != nil {
		return err
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `SET search_path TO `+quoteIdent(schema)+`, public`); err != nil {
		return fmt.Errorf("bind schema %s: %w", schema, err)
	}
	// La conexión vuelve al pool: restaurar el search_path en todo camino
	defer func() { _, _ = conn.Exec(context.Background(), `RESET search_path`) }()

	return mapSchemaErr(fn(newRepos(conn)))
}
