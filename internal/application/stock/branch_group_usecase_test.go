package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-stock-api/internal/application/stock"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

func newGroupUC(db *memDB) *stock.BranchGroupUseCase {
	return stock.NewBranchGroupUseCase(&memTxRunner{db: db})
}

// seedGroup arma un grupo con una ubicación (y saldo) por sucursal.
func seedGroup(db *memDB, rule string, cross bool, stocks map[string]string) *entity.BranchGroup {
	group := &entity.BranchGroup{
		ID:                    "grp-1",
		CompanyID:             testCompanyID,
		Name:                  "Zona Norte",
		Code:                  "ZN",
		AllocationRule:        rule,
		AllowCrossFulfillment: cross,
		Active:                true,
		CreatedAt:             time.Now(),
		UpdatedAt:             time.Now(),
	}
	for branchID, onHand := range stocks {
		group.BranchIDs = append(group.BranchIDs, branchID)
		id := branchID
		seedLocation(db, "loc-"+branchID, testCompanyID, &id)
		seedBalance(db, "bal-"+branchID, testProductID, "loc-"+branchID, onHand, "10.00")
	}
	db.groups[group.ID] = group
	return group
}

// La vista consolidada suma los saldos del producto en todas las
// ubicaciones del grupo.
func TestConsolidated_SumaSaldosDelGrupo(t *testing.T) {
	db := newMemDB()
	seedGroup(db, entity.AllocationByMostStock, true, map[string]string{
		"br-1": "100",
		"br-2": "40",
		"br-3": "60",
	})
	db.balances["bal-br-2"].Reserved = mustDec("10")
	db.balances["bal-br-2"].Recompute()
	uc := newGroupUC(db)

	view, err := uc.Consolidated(context.Background(), testSchema, "grp-1", testProductID)
	require.NoError(t, err)

	assert.True(t, mustDec("200").Equal(view.OnHand))
	assert.True(t, mustDec("10").Equal(view.Reserved))
	assert.True(t, mustDec("190").Equal(view.Available))
	assert.True(t, mustDec("2000.00").Equal(view.TotalValue))
	assert.Equal(t, 3, view.LocationCount)
}

// Una ubicación fuera del grupo no entra en la consolidación.
func TestConsolidated_IgnoraUbicacionesAjenas(t *testing.T) {
	db := newMemDB()
	seedGroup(db, entity.AllocationByMostStock, true, map[string]string{"br-1": "50"})
	otra := "br-fuera"
	seedLocation(db, "loc-fuera", testCompanyID, &otra)
	seedBalance(db, "bal-fuera", testProductID, "loc-fuera", "999", "10.00")
	uc := newGroupUC(db)

	view, err := uc.Consolidated(context.Background(), testSchema, "grp-1", testProductID)
	require.NoError(t, err)
	assert.True(t, mustDec("50").Equal(view.OnHand))
	assert.Equal(t, 1, view.LocationCount)
}

// BY_MOST_STOCK elige la sucursal con más disponible.
func TestChooseBranch_PorMayorStock(t *testing.T) {
	db := newMemDB()
	seedGroup(db, entity.AllocationByMostStock, true, map[string]string{
		"br-1": "30",
		"br-2": "90",
		"br-3": "60",
	})
	uc := newGroupUC(db)

	choice, err := uc.ChooseBranch(context.Background(), testSchema, "grp-1", testProductID, mustDec("20"), "")
	require.NoError(t, err)

	assert.True(t, choice.Found)
	assert.Equal(t, "br-2", choice.BranchID)
	assert.Equal(t, "loc-br-2", choice.LocationID)
	assert.True(t, mustDec("90").Equal(choice.Available))
}

// BY_LOWEST_COST elige la sucursal con menor costo promedio.
func TestChooseBranch_PorMenorCosto(t *testing.T) {
	db := newMemDB()
	seedGroup(db, entity.AllocationByLowestCost, true, map[string]string{
		"br-1": "50",
		"br-2": "50",
	})
	db.balances["bal-br-1"].WeightedAvgCost = mustDec("12.00")
	db.balances["bal-br-1"].Recompute()
	db.balances["bal-br-2"].WeightedAvgCost = mustDec("8.50")
	db.balances["bal-br-2"].Recompute()
	uc := newGroupUC(db)

	choice, err := uc.ChooseBranch(context.Background(), testSchema, "grp-1", testProductID, mustDec("20"), "")
	require.NoError(t, err)

	assert.True(t, choice.Found)
	assert.Equal(t, "br-2", choice.BranchID)
	assert.True(t, mustDec("8.50").Equal(choice.UnitCost))
}

// BY_PROXIMITY prefiere la sucursal de origen cuando califica, aunque otra
// tenga más stock.
func TestChooseBranch_PorProximidadPrefiereOrigen(t *testing.T) {
	db := newMemDB()
	seedGroup(db, entity.AllocationByProximity, true, map[string]string{
		"br-1": "200",
		"br-2": "50",
	})
	uc := newGroupUC(db)

	choice, err := uc.ChooseBranch(context.Background(), testSchema, "grp-1", testProductID, mustDec("20"), "br-2")
	require.NoError(t, err)

	assert.True(t, choice.Found)
	assert.Equal(t, "br-2", choice.BranchID, "el origen califica y gana")
	assert.Equal(t, "loc-br-2", choice.LocationID)
}

// Si el origen no califica (o no se indica), BY_PROXIMITY cae a la primera
// sucursal elegible.
func TestChooseBranch_PorProximidadSinOrigenCalificado(t *testing.T) {
	db := newMemDB()
	seedGroup(db, entity.AllocationByProximity, true, map[string]string{
		"br-1": "100",
		"br-2": "5",
		"br-3": "100",
	})
	uc := newGroupUC(db)
	ctx := context.Background()

	// El origen no cubre la cantidad: despacha otra sucursal del grupo.
	choice, err := uc.ChooseBranch(ctx, testSchema, "grp-1", testProductID, mustDec("50"), "br-2")
	require.NoError(t, err)
	assert.True(t, choice.Found)
	assert.Equal(t, "br-1", choice.BranchID, "primera elegible cuando el origen no califica")

	// Sin origen indicado: también la primera elegible.
	choice, err = uc.ChooseBranch(ctx, testSchema, "grp-1", testProductID, mustDec("50"), "")
	require.NoError(t, err)
	assert.True(t, choice.Found)
	assert.Equal(t, "br-1", choice.BranchID)
}

// Sin cross-fulfillment solo despacha la sucursal de origen, aunque otra
// tenga más stock.
func TestChooseBranch_SinCrossFulfillment(t *testing.T) {
	db := newMemDB()
	seedGroup(db, entity.AllocationByMostStock, false, map[string]string{
		"br-1": "30",
		"br-2": "90",
	})
	uc := newGroupUC(db)
	ctx := context.Background()

	choice, err := uc.ChooseBranch(ctx, testSchema, "grp-1", testProductID, mustDec("20"), "br-1")
	require.NoError(t, err)
	assert.True(t, choice.Found)
	assert.Equal(t, "br-1", choice.BranchID, "solo el origen puede despachar")

	// Sin origen, o con origen fuera del grupo, no hay candidata.
	choice, err = uc.ChooseBranch(ctx, testSchema, "grp-1", testProductID, mustDec("20"), "")
	require.NoError(t, err)
	assert.False(t, choice.Found)

	choice, err = uc.ChooseBranch(ctx, testSchema, "grp-1", testProductID, mustDec("20"), "br-ajena")
	require.NoError(t, err)
	assert.False(t, choice.Found)
}

// Cuando ninguna sucursal cubre la cantidad el resultado es Found=false,
// no un error.
func TestChooseBranch_SinCandidata(t *testing.T) {
	db := newMemDB()
	seedGroup(db, entity.AllocationByMostStock, true, map[string]string{
		"br-1": "5",
		"br-2": "8",
	})
	uc := newGroupUC(db)

	choice, err := uc.ChooseBranch(context.Background(), testSchema, "grp-1", testProductID, mustDec("50"), "")
	require.NoError(t, err)
	assert.False(t, choice.Found)
	assert.Empty(t, choice.BranchID)
}

// Las reservas descuentan del disponible que ve la asignación.
func TestChooseBranch_DescuentaReservas(t *testing.T) {
	db := newMemDB()
	seedGroup(db, entity.AllocationByMostStock, true, map[string]string{
		"br-1": "100",
		"br-2": "80",
	})
	db.balances["bal-br-1"].Reserved = mustDec("70")
	db.balances["bal-br-1"].Recompute()
	uc := newGroupUC(db)

	choice, err := uc.ChooseBranch(context.Background(), testSchema, "grp-1", testProductID, mustDec("50"), "")
	require.NoError(t, err)
	assert.True(t, choice.Found)
	assert.Equal(t, "br-2", choice.BranchID, "br-1 solo tiene 30 disponibles")
}

// BY_ROTATION reparte round-robin entre las elegibles.
func TestChooseBranch_PorRotacion(t *testing.T) {
	db := newMemDB()
	seedGroup(db, entity.AllocationByRotation, true, map[string]string{
		"br-1": "100",
		"br-2": "100",
	})
	uc := newGroupUC(db)
	ctx := context.Background()

	seen := make(map[string]int)
	for i := 0; i < 4; i++ {
		choice, err := uc.ChooseBranch(ctx, testSchema, "grp-1", testProductID, mustDec("10"), "")
		require.NoError(t, err)
		require.True(t, choice.Found)
		seen[choice.BranchID]++
	}
	assert.Equal(t, 2, seen["br-1"], "cuatro pedidos se reparten dos y dos")
	assert.Equal(t, 2, seen["br-2"])
}
