package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests saldo acumulado y reproducción del diario
// ──────────────────────────────────────────────────────────────────────────────

// Corre una secuencia mixta de movimientos y verifica que el saldo acumulado
// del diario termina exactamente en el total reconciliado del artículo, con
// los transfers aportando cero.
func TestGetRunningBalance_TerminaEnElTotalReconciliado(t *testing.T) {
	store, uc, _ := newFixture(t)
	ctx := context.Background()

	secuencia := []inventory.MovementInput{
		{Type: entity.MovementTypeReceive, Quantity: dec("100"), ToLocationID: locA},
		{Type: entity.MovementTypeShip, Quantity: dec("-30"), FromLocationID: locA},
		{Type: entity.MovementTypeTransfer, Quantity: dec("20"), FromLocationID: locA, ToLocationID: locB},
		{Type: entity.MovementTypeAdjust, Quantity: dec("-5"), FromLocationID: locB},
		{Type: entity.MovementTypeCount, Quantity: dec("2"), ToLocationID: locA},
	}
	for _, in := range secuencia {
		in.TenantID = testTenant
		in.ItemID = itemWidget
		_, err := uc.RegisterMovement(ctx, in)
		require.NoError(t, err)
	}

	balanceUC := inventory.NewRunningBalanceUseCase(store.Movements())
	entries, err := balanceUC.GetRunningBalance(ctx, testTenant, itemWidget, inventory.BalanceFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 5)

	// 100, 70, 70 (transfer neto cero), 65, 67
	esperados := []string{"100", "70", "70", "65", "67"}
	for i, e := range entries {
		assert.True(t, dec(esperados[i]).Equal(e.Balance),
			"saldo en posición %d: esperado %s, obtenido %s", i, esperados[i], e.Balance)
	}

	item, err := store.Items().GetByID(ctx, testTenant, itemWidget)
	require.NoError(t, err)
	assert.True(t, item.Quantity.Equal(entries[len(entries)-1].Balance),
		"el saldo terminal debe coincidir con el total del artículo")
	requireConservation(t, store, itemWidget)
}

// Reproducir el diario desde cero produce las mismas cantidades por
// ubicación que los ledgers reconciliados.
func TestReplayLocations_ReproduceElEstadoDelLedger(t *testing.T) {
	store, uc, _ := newFixture(t)
	ctx := context.Background()

	secuencia := []inventory.MovementInput{
		{Type: entity.MovementTypeReceive, Quantity: dec("50"), ToLocationID: locA},
		{Type: entity.MovementTypeReceive, Quantity: dec("10"), ToLocationID: locB},
		{Type: entity.MovementTypeTransfer, Quantity: dec("15"), FromLocationID: locA, ToLocationID: locB},
		{Type: entity.MovementTypeShip, Quantity: dec("-8"), FromLocationID: locB},
		{Type: entity.MovementTypeAdjust, Quantity: dec("3"), ToLocationID: locA},
	}
	for _, in := range secuencia {
		in.TenantID = testTenant
		in.ItemID = itemWidget
		_, err := uc.RegisterMovement(ctx, in)
		require.NoError(t, err)
	}

	movements, err := store.Movements().ListByItemAsc(ctx, testTenant, itemWidget, nil, nil)
	require.NoError(t, err)
	replayed := inventory.ReplayLocations(movements)

	rows, err := store.LocationQuantities().ListByItem(ctx, testTenant, itemWidget)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	for _, lq := range rows {
		assert.True(t, replayed[lq.LocationID].Equal(lq.Quantity),
			"ubicación %s: replay %s vs ledger %s", lq.LocationID, replayed[lq.LocationID], lq.Quantity)
	}
}

// ListByItem pagina en orden descendente: el más reciente primero.
func TestListByItem_DescendenteYPaginado(t *testing.T) {
	store, uc, _ := newFixture(t)
	ctx := context.Background()

	for _, qty := range []string{"1", "2", "3"} {
		_, err := uc.RegisterMovement(ctx, inventory.MovementInput{
			TenantID:     testTenant,
			ItemID:       itemWidget,
			Type:         entity.MovementTypeReceive,
			Quantity:     dec(qty),
			ToLocationID: locA,
		})
		require.NoError(t, err)
	}

	page, err := store.Movements().ListByItem(ctx, testTenant, itemWidget, nil, nil, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.True(t, dec("3").Equal(page[0].Quantity), "el más reciente primero")

	rest, err := store.Movements().ListByItem(ctx, testTenant, itemWidget, nil, nil, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.True(t, dec("1").Equal(rest[0].Quantity))
}
