package stock_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-stock-api/internal/application/stock"
	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Base de datos en memoria para los tests de casos de uso: implementa los
// puertos de repositorio y el TxRunner sobre mapas, sin transacciones reales.
// ──────────────────────────────────────────────────────────────────────────────

type memDB struct {
	balances     map[string]*entity.StockBalance // por ID
	movements    []*entity.Movement
	reservations map[string]*entity.Reservation
	forecasts    map[string]*entity.Forecast
	locations    map[string]*entity.Location
	groups       map[string]*entity.BranchGroup
	branches     map[string]*entity.Branch
	companies    map[string]*entity.Company
}

func newMemDB() *memDB {
	return &memDB{
		balances:     make(map[string]*entity.StockBalance),
		reservations: make(map[string]*entity.Reservation),
		forecasts:    make(map[string]*entity.Forecast),
		locations:    make(map[string]*entity.Location),
		groups:       make(map[string]*entity.BranchGroup),
		branches:     make(map[string]*entity.Branch),
		companies:    make(map[string]*entity.Company),
	}
}

func (db *memDB) repos() stock.Repos {
	return stock.Repos{
		Locations:    &memLocationRepo{db},
		Balances:     &memBalanceRepo{db},
		Movements:    &memMovementRepo{db},
		Reservations: &memReservationRepo{db},
		Forecasts:    &memForecastRepo{db},
		BranchGroups: &memBranchGroupRepo{db},
		Branches:     &memBranchRepo{db},
		Companies:    &memCompanyRepo{db},
	}
}

// memTxRunner ejecuta fn directamente sobre la base en memoria.
type memTxRunner struct {
	db *memDB
}

func (t *memTxRunner) Run(_ context.Context, _ string, fn func(r stock.Repos) error) error {
	return fn(t.db.repos())
}

func (t *memTxRunner) RunRead(_ context.Context, _ string, fn func(r stock.Repos) error) error {
	return fn(t.db.repos())
}

// ── Balances ─────────────────────────────────────────────────────────────────

type memBalanceRepo struct{ db *memDB }

func (r *memBalanceRepo) Get(_ context.Context, productID, locationID string) (*entity.StockBalance, error) {
	for _, b := range r.db.balances {
		if b.ProductID == productID && b.LocationID == locationID && !b.IsDeleted {
			return b, nil
		}
	}
	return nil, nil
}

func (r *memBalanceRepo) GetByID(_ context.Context, id string) (*entity.StockBalance, error) {
	return r.db.balances[id], nil
}

func (r *memBalanceRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.StockBalance, error) {
	return r.Get(ctx, productID, locationID)
}

func (r *memBalanceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockBalance, error) {
	return r.GetByID(ctx, id)
}

func (r *memBalanceRepo) Save(_ context.Context, balance *entity.StockBalance) error {
	balance.Recompute()
	r.db.balances[balance.ID] = balance
	return nil
}

func (r *memBalanceRepo) List(_ context.Context, filter repository.BalanceFilter) ([]*entity.StockBalance, error) {
	var out []*entity.StockBalance
	for _, b := range r.db.balances {
		if b.IsDeleted && !filter.WithDeleted {
			continue
		}
		if filter.CompanyID != "" && b.CompanyID != filter.CompanyID {
			continue
		}
		if filter.LocationID != "" && b.LocationID != filter.LocationID {
			continue
		}
		if filter.ProductID != "" && b.ProductID != filter.ProductID {
			continue
		}
		if filter.BelowMin && !b.BelowMinLevel() {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memBalanceRepo) ListByLocations(_ context.Context, productID string, locationIDs []string) ([]*entity.StockBalance, error) {
	in := make(map[string]bool, len(locationIDs))
	for _, id := range locationIDs {
		in[id] = true
	}
	var out []*entity.StockBalance
	for _, b := range r.db.balances {
		if b.ProductID == productID && in[b.LocationID] && !b.IsDeleted {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memBalanceRepo) ListInconsistent(_ context.Context, limit int) ([]*entity.StockBalance, error) {
	var out []*entity.StockBalance
	for _, b := range r.db.balances {
		consistent := b.Available.Equal(b.OnHand.Sub(b.Reserved)) &&
			b.TotalValue.Equal(b.OnHand.Mul(b.WeightedAvgCost).Round(2)) &&
			!b.Reserved.IsNegative() &&
			!b.Reserved.GreaterThan(b.OnHand)
		if !consistent {
			out = append(out, b)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *memBalanceRepo) ListBelowMin(_ context.Context, limit int) ([]*entity.StockBalance, error) {
	var out []*entity.StockBalance
	for _, b := range r.db.balances {
		if b.BelowMinLevel() {
			out = append(out, b)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *memBalanceRepo) ListWithEntriesSince(_ context.Context, since time.Time) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, m := range r.db.movements {
		if m.Kind == entity.MovementKindEntry && m.Status == entity.MovementStatusConfirmed &&
			!m.OccurredAt.Before(since) && !seen[m.BalanceID] {
			seen[m.BalanceID] = true
			out = append(out, m.BalanceID)
		}
	}
	return out, nil
}

// ── Movements ────────────────────────────────────────────────────────────────

type memMovementRepo struct{ db *memDB }

func (r *memMovementRepo) Create(_ context.Context, movement *entity.Movement) error {
	r.db.movements = append(r.db.movements, movement)
	return nil
}

func (r *memMovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	for _, m := range r.db.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) MarkReversed(_ context.Context, id, reason string) error {
	for _, m := range r.db.movements {
		if m.ID == id {
			if m.Status != entity.MovementStatusConfirmed {
				return domain.ErrAlreadyReversed
			}
			m.Status = entity.MovementStatusReversed
			m.ReversalReason = reason
			return nil
		}
	}
	return domain.ErrAlreadyReversed
}

func (r *memMovementRepo) List(_ context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.db.movements {
		if filter.BalanceID != "" && m.BalanceID != filter.BalanceID {
			continue
		}
		if filter.Kind != "" && m.Kind != filter.Kind {
			continue
		}
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if filter.From != nil && m.OccurredAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.OccurredAt.After(*filter.To) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *memMovementRepo) LastConfirmedEntries(_ context.Context, balanceID string, since time.Time, limit int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.db.movements {
		if m.BalanceID == balanceID && m.Kind == entity.MovementKindEntry &&
			m.Status == entity.MovementStatusConfirmed && !m.OccurredAt.Before(since) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ── Reservations ─────────────────────────────────────────────────────────────

type memReservationRepo struct{ db *memDB }

func (r *memReservationRepo) Create(_ context.Context, reservation *entity.Reservation) error {
	r.db.reservations[reservation.ID] = reservation
	return nil
}

func (r *memReservationRepo) GetByID(_ context.Context, id string) (*entity.Reservation, error) {
	return r.db.reservations[id], nil
}

func (r *memReservationRepo) Update(_ context.Context, reservation *entity.Reservation) error {
	r.db.reservations[reservation.ID] = reservation
	return nil
}

func (r *memReservationRepo) List(_ context.Context, filter repository.ReservationFilter) ([]*entity.Reservation, error) {
	var out []*entity.Reservation
	for _, res := range r.db.reservations {
		if filter.BalanceID != "" && res.BalanceID != filter.BalanceID {
			continue
		}
		if filter.Kind != "" && res.Kind != filter.Kind {
			continue
		}
		if filter.Status != "" && res.Status != filter.Status {
			continue
		}
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memReservationRepo) ListExpired(_ context.Context, now time.Time, limit int) ([]*entity.Reservation, error) {
	var out []*entity.Reservation
	for _, res := range r.db.reservations {
		if res.Kind == entity.ReservationKindSoft && res.Status == entity.ReservationStatusActive &&
			res.ExpiresAt != nil && !res.ExpiresAt.After(now) {
			out = append(out, res)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// ── Forecasts ────────────────────────────────────────────────────────────────

type memForecastRepo struct{ db *memDB }

func (r *memForecastRepo) Create(_ context.Context, forecast *entity.Forecast) error {
	r.db.forecasts[forecast.ID] = forecast
	return nil
}

func (r *memForecastRepo) GetByID(_ context.Context, id string) (*entity.Forecast, error) {
	return r.db.forecasts[id], nil
}

func (r *memForecastRepo) Update(_ context.Context, forecast *entity.Forecast) error {
	r.db.forecasts[forecast.ID] = forecast
	return nil
}

func (r *memForecastRepo) List(_ context.Context, filter repository.ForecastFilter) ([]*entity.Forecast, error) {
	var out []*entity.Forecast
	for _, f := range r.db.forecasts {
		if filter.BalanceID != "" && f.BalanceID != filter.BalanceID {
			continue
		}
		if filter.Kind != "" && f.Kind != filter.Kind {
			continue
		}
		if filter.Status != "" && f.Status != filter.Status {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ── Locations ────────────────────────────────────────────────────────────────

type memLocationRepo struct{ db *memDB }

func (r *memLocationRepo) Create(_ context.Context, location *entity.Location) error {
	r.db.locations[location.ID] = location
	return nil
}

func (r *memLocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	return r.db.locations[id], nil
}

func (r *memLocationRepo) GetByCode(_ context.Context, code string) (*entity.Location, error) {
	for _, l := range r.db.locations {
		if l.Code == code && !l.IsDeleted {
			return l, nil
		}
	}
	return nil, nil
}

func (r *memLocationRepo) Update(_ context.Context, location *entity.Location) error {
	r.db.locations[location.ID] = location
	return nil
}

func (r *memLocationRepo) List(_ context.Context, filter repository.LocationFilter) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.db.locations {
		if l.IsDeleted && !filter.WithDeleted {
			continue
		}
		if filter.OnlyActive && !l.Active {
			continue
		}
		if filter.CompanyID != "" && l.CompanyID != filter.CompanyID {
			continue
		}
		if filter.Kind != "" && l.Kind != filter.Kind {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memLocationRepo) ListByBranches(_ context.Context, branchIDs []string) ([]*entity.Location, error) {
	in := make(map[string]bool, len(branchIDs))
	for _, id := range branchIDs {
		in[id] = true
	}
	var out []*entity.Location
	for _, l := range r.db.locations {
		if l.BranchID != nil && in[*l.BranchID] && l.Active && !l.IsDeleted {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memLocationRepo) SoftDelete(_ context.Context, id string) error {
	if l, ok := r.db.locations[id]; ok {
		l.IsDeleted = true
		l.Active = false
	}
	return nil
}

// ── Branch groups ────────────────────────────────────────────────────────────

type memBranchGroupRepo struct{ db *memDB }

func (r *memBranchGroupRepo) Create(_ context.Context, group *entity.BranchGroup) error {
	r.db.groups[group.ID] = group
	return nil
}

func (r *memBranchGroupRepo) GetByID(_ context.Context, id string) (*entity.BranchGroup, error) {
	return r.db.groups[id], nil
}

func (r *memBranchGroupRepo) GetByCode(_ context.Context, code string) (*entity.BranchGroup, error) {
	for _, g := range r.db.groups {
		if g.Code == code && !g.IsDeleted {
			return g, nil
		}
	}
	return nil, nil
}

func (r *memBranchGroupRepo) Update(_ context.Context, group *entity.BranchGroup) error {
	r.db.groups[group.ID] = group
	return nil
}

func (r *memBranchGroupRepo) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.BranchGroup, error) {
	var out []*entity.BranchGroup
	for _, g := range r.db.groups {
		if g.CompanyID == companyID && !g.IsDeleted {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memBranchGroupRepo) SetBranches(_ context.Context, groupID string, branchIDs []string) error {
	if g, ok := r.db.groups[groupID]; ok {
		g.BranchIDs = branchIDs
	}
	return nil
}

func (r *memBranchGroupRepo) SoftDelete(_ context.Context, id string) error {
	if g, ok := r.db.groups[id]; ok {
		g.IsDeleted = true
		g.Active = false
	}
	return nil
}

// ── Branches ─────────────────────────────────────────────────────────────────

type memBranchRepo struct{ db *memDB }

func (r *memBranchRepo) Create(_ context.Context, branch *entity.Branch) error {
	r.db.branches[branch.ID] = branch
	return nil
}

func (r *memBranchRepo) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	return r.db.branches[id], nil
}

func (r *memBranchRepo) Update(_ context.Context, branch *entity.Branch) error {
	r.db.branches[branch.ID] = branch
	return nil
}

func (r *memBranchRepo) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Branch, error) {
	var out []*entity.Branch
	for _, b := range r.db.branches {
		if b.CompanyID == companyID && !b.IsDeleted {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memBranchRepo) CountByCompany(_ context.Context, companyID string) (int, error) {
	n := 0
	for _, b := range r.db.branches {
		if b.CompanyID == companyID && !b.IsDeleted {
			n++
		}
	}
	return n, nil
}

func (r *memBranchRepo) SoftDelete(_ context.Context, id string) error {
	if b, ok := r.db.branches[id]; ok {
		b.IsDeleted = true
		b.Active = false
	}
	return nil
}

// ── Companies ────────────────────────────────────────────────────────────────

type memCompanyRepo struct{ db *memDB }

func (r *memCompanyRepo) Create(_ context.Context, company *entity.Company) error {
	r.db.companies[company.ID] = company
	return nil
}

func (r *memCompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return r.db.companies[id], nil
}

func (r *memCompanyRepo) Update(_ context.Context, company *entity.Company) error {
	r.db.companies[company.ID] = company
	return nil
}

func (r *memCompanyRepo) List(_ context.Context, _, _ int) ([]*entity.Company, error) {
	var out []*entity.Company
	for _, c := range r.db.companies {
		if !c.IsDeleted {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memCompanyRepo) Count(_ context.Context) (int, error) {
	n := 0
	for _, c := range r.db.companies {
		if !c.IsDeleted {
			n++
		}
	}
	return n, nil
}

func (r *memCompanyRepo) SoftDelete(_ context.Context, id string) error {
	if c, ok := r.db.companies[id]; ok {
		c.IsDeleted = true
		c.Active = false
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Seeds compartidos por los tests de casos de uso
// ──────────────────────────────────────────────────────────────────────────────

const (
	testSchema    = "acme"
	testCompanyID = "co-1"
	testProductID = "prod-1"
)

func seedLocation(db *memDB, id, companyID string, branchID *string) *entity.Location {
	loc := &entity.Location{
		ID:             id,
		CompanyID:      companyID,
		BranchID:       branchID,
		Name:           "Ubicación " + id,
		Code:           "LOC-" + id,
		Kind:           entity.LocationKindWarehouse,
		AllowsInbound:  true,
		AllowsOutbound: true,
		AllowsTransfer: true,
		Active:         true,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	db.locations[id] = loc
	return loc
}

func seedBalance(db *memDB, id, productID, locationID, onHand, cost string) *entity.StockBalance {
	b := &entity.StockBalance{
		ID:              id,
		ProductID:       productID,
		LocationID:      locationID,
		CompanyID:       testCompanyID,
		OnHand:          mustDec(onHand),
		WeightedAvgCost: mustDec(cost),
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	b.Recompute()
	db.balances[id] = b
	return b
}

func mustDec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
