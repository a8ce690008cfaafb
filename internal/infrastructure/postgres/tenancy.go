package postgres

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/erp-stock-api/internal/domain"
)

// validSchema nombres de schema aceptados. Se valida antes de interpolar en
// SQL: el nombre de schema no puede ir como parámetro posicional.
var validSchema = regexp.MustCompile(`^[a-z][a-z0-9_]{2,62}$`)

// checkSchema valida el nombre del schema del tenant.
func checkSchema(schema string) error {
	if !validSchema.MatchString(schema) {
		return fmt.Errorf("%w: schema %q", domain.ErrTenantNotIdentified, schema)
	}
	return nil
}

// quoteIdent entrecomilla un identificador ya validado.
func quoteIdent(ident string) string {
	return `"` + ident + `"`
}

// Tenancy aprovisiona schemas de tenant y el schema public.
type Tenancy struct {
	pool *pgxpool.Pool
}

// NewTenancy construye el aprovisionador sobre el pool.
func NewTenancy(pool *pgxpool.Pool) *Tenancy {
	return &Tenancy{pool: pool}
}

// EnsureSchema crea el schema del tenant y sus tablas si no existen.
// Idempotente: se puede reejecutar sobre un tenant ya aprovisionado.
func (t *Tenancy) EnsureSchema(ctx context.Context, schemaName string) error {
	if err := checkSchema(schemaName); err != nil {
		return err
	}
	q := quoteIdent(schemaName)

	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin provision: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `CREATE SCHEMA IF NOT EXISTS `+q); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.Exec(ctx, `SET LOCAL search_path TO `+q); err != nil {
		return fmt.Errorf("set search_path: %w", err)
	}
	for _, stmt := range tenantDDL {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("provision %s: %w", schemaName, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit provision: %w", err)
	}
	return nil
}

// EnsurePublic crea las tablas globales del schema public si no existen.
func (t *Tenancy) EnsurePublic(ctx context.Context) error {
	for _, stmt := range publicDDL {
		if _, err := t.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("provision public: %w", err)
		}
	}
	return nil
}

// tenantDDL tablas por tenant. Cantidades NUMERIC(18,3); valores NUMERIC(18,2).
var tenantDDL = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		tax_id     TEXT NOT NULL DEFAULT '',
		address    TEXT NOT NULL DEFAULT '',
		city       TEXT NOT NULL DEFAULT '',
		phone      TEXT NOT NULL DEFAULT '',
		email      TEXT NOT NULL DEFAULT '',
		active     BOOLEAN NOT NULL DEFAULT TRUE,
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		deleted_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS branches (
		id         TEXT PRIMARY KEY,
		company_id TEXT NOT NULL REFERENCES companies(id),
		name       TEXT NOT NULL,
		code       TEXT NOT NULL,
		address    TEXT NOT NULL DEFAULT '',
		city       TEXT NOT NULL DEFAULT '',
		phone      TEXT NOT NULL DEFAULT '',
		email      TEXT NOT NULL DEFAULT '',
		is_main    BOOLEAN NOT NULL DEFAULT FALSE,
		active     BOOLEAN NOT NULL DEFAULT TRUE,
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		deleted_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id              TEXT PRIMARY KEY,
		company_id      TEXT NOT NULL REFERENCES companies(id),
		branch_id       TEXT REFERENCES branches(id),
		name            TEXT NOT NULL,
		code            TEXT NOT NULL UNIQUE,
		kind            TEXT NOT NULL,
		address         TEXT NOT NULL DEFAULT '',
		city            TEXT NOT NULL DEFAULT '',
		state           TEXT NOT NULL DEFAULT '',
		country         TEXT NOT NULL DEFAULT '',
		zip_code        TEXT NOT NULL DEFAULT '',
		latitude        DOUBLE PRECISION,
		longitude       DOUBLE PRECISION,
		allows_inbound  BOOLEAN NOT NULL DEFAULT TRUE,
		allows_outbound BOOLEAN NOT NULL DEFAULT TRUE,
		allows_transfer BOOLEAN NOT NULL DEFAULT TRUE,
		active          BOOLEAN NOT NULL DEFAULT TRUE,
		is_deleted      BOOLEAN NOT NULL DEFAULT FALSE,
		deleted_at      TIMESTAMPTZ,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS stock_balances (
		id                TEXT PRIMARY KEY,
		product_id        TEXT NOT NULL,
		location_id       TEXT NOT NULL REFERENCES locations(id),
		company_id        TEXT NOT NULL,
		on_hand           NUMERIC(18,3) NOT NULL DEFAULT 0,
		reserved          NUMERIC(18,3) NOT NULL DEFAULT 0,
		available         NUMERIC(18,3) NOT NULL DEFAULT 0,
		predicted_in      NUMERIC(18,3) NOT NULL DEFAULT 0,
		predicted_out     NUMERIC(18,3) NOT NULL DEFAULT 0,
		weighted_avg_cost NUMERIC(18,2) NOT NULL DEFAULT 0,
		total_value       NUMERIC(18,2) NOT NULL DEFAULT 0,
		min_level         NUMERIC(18,3) NOT NULL DEFAULT 0,
		max_level         NUMERIC(18,3) NOT NULL DEFAULT 0,
		internal_slot     TEXT NOT NULL DEFAULT '',
		is_deleted        BOOLEAN NOT NULL DEFAULT FALSE,
		deleted_at        TIMESTAMPTZ,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (product_id, location_id)
	)`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
		id                   TEXT PRIMARY KEY,
		balance_id           TEXT NOT NULL REFERENCES stock_balances(id),
		kind                 TEXT NOT NULL,
		origin               TEXT NOT NULL,
		status               TEXT NOT NULL,
		qty                  NUMERIC(18,3) NOT NULL,
		qty_before           NUMERIC(18,3) NOT NULL,
		qty_after            NUMERIC(18,3) NOT NULL,
		unit_value           NUMERIC(18,2) NOT NULL DEFAULT 0,
		total_value          NUMERIC(18,2) NOT NULL DEFAULT 0,
		location_from_id     TEXT,
		location_to_id       TEXT,
		doc_ref              TEXT NOT NULL DEFAULT '',
		nf_number            TEXT NOT NULL DEFAULT '',
		nf_series            TEXT NOT NULL DEFAULT '',
		notes                TEXT NOT NULL DEFAULT '',
		original_movement_id TEXT,
		reversal_reason      TEXT NOT NULL DEFAULT '',
		created_by           TEXT NOT NULL DEFAULT '',
		occurred_at          TIMESTAMPTZ NOT NULL,
		created_at           TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_movements_balance ON stock_movements (balance_id, occurred_at DESC)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id            TEXT PRIMARY KEY,
		balance_id    TEXT NOT NULL REFERENCES stock_balances(id),
		kind          TEXT NOT NULL,
		origin        TEXT NOT NULL,
		status        TEXT NOT NULL,
		qty           NUMERIC(18,3) NOT NULL,
		doc_ref       TEXT NOT NULL DEFAULT '',
		notes         TEXT NOT NULL DEFAULT '',
		cancel_reason TEXT NOT NULL DEFAULT '',
		expires_at    TIMESTAMPTZ,
		confirmed_at  TIMESTAMPTZ,
		created_by    TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_expiry ON reservations (status, kind, expires_at)`,
	`CREATE TABLE IF NOT EXISTS forecasts (
		id                    TEXT PRIMARY KEY,
		balance_id            TEXT NOT NULL REFERENCES stock_balances(id),
		kind                  TEXT NOT NULL,
		origin                TEXT NOT NULL DEFAULT '',
		status                TEXT NOT NULL,
		qty                   NUMERIC(18,3) NOT NULL,
		expected_at           TIMESTAMPTZ NOT NULL,
		expected_unit_value   NUMERIC(18,2),
		location_from_id      TEXT,
		location_to_id        TEXT,
		realizing_movement_id TEXT,
		notes                 TEXT NOT NULL DEFAULT '',
		created_by            TEXT NOT NULL DEFAULT '',
		created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS branch_groups (
		id                      TEXT PRIMARY KEY,
		company_id              TEXT NOT NULL REFERENCES companies(id),
		name                    TEXT NOT NULL,
		code                    TEXT NOT NULL UNIQUE,
		allocation_rule         TEXT NOT NULL,
		allow_cross_fulfillment BOOLEAN NOT NULL DEFAULT FALSE,
		active                  BOOLEAN NOT NULL DEFAULT TRUE,
		is_deleted              BOOLEAN NOT NULL DEFAULT FALSE,
		deleted_at              TIMESTAMPTZ,
		created_at              TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at              TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS branch_group_members (
		group_id  TEXT NOT NULL REFERENCES branch_groups(id),
		branch_id TEXT NOT NULL REFERENCES branches(id),
		PRIMARY KEY (group_id, branch_id)
	)`,
}

// publicDDL tablas globales (schema public).
var publicDDL = []string{
	`CREATE TABLE IF NOT EXISTS public.tenants (
		id          TEXT PRIMARY KEY,
		schema_name TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL,
		active      BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS public.domains (
		id         TEXT PRIMARY KEY,
		tenant_id  TEXT NOT NULL REFERENCES public.tenants(id),
		host       TEXT NOT NULL UNIQUE,
		is_primary BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS public.users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name          TEXT NOT NULL,
		status        TEXT NOT NULL DEFAULT 'active',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS public.memberships (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL REFERENCES public.users(id),
		tenant_id      TEXT NOT NULL REFERENCES public.tenants(id),
		role           TEXT NOT NULL,
		active         BOOLEAN NOT NULL DEFAULT TRUE,
		current_tenant BOOLEAN NOT NULL DEFAULT FALSE,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, tenant_id)
	)`,
	`CREATE TABLE IF NOT EXISTS public.custom_roles (
		id         TEXT PRIMARY KEY,
		tenant_id  TEXT NOT NULL REFERENCES public.tenants(id),
		code       TEXT NOT NULL,
		name       TEXT NOT NULL,
		active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (tenant_id, code)
	)`,
	`CREATE TABLE IF NOT EXISTS public.custom_role_permissions (
		role_id     TEXT NOT NULL REFERENCES public.custom_roles(id) ON DELETE CASCADE,
		module_code TEXT NOT NULL,
		actions     TEXT[] NOT NULL,
		PRIMARY KEY (role_id, module_code)
	)`,
	`CREATE TABLE IF NOT EXISTS public.subscriptions (
		id            TEXT PRIMARY KEY,
		tenant_id     TEXT NOT NULL UNIQUE REFERENCES public.tenants(id),
		plan          TEXT NOT NULL,
		max_companies INT NOT NULL DEFAULT 0,
		max_branches  INT NOT NULL DEFAULT 0,
		max_users     INT NOT NULL DEFAULT 0,
		active        BOOLEAN NOT NULL DEFAULT TRUE,
		expires_at    TIMESTAMPTZ,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}
