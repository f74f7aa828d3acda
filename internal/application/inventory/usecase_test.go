package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testTenant = "00000000-0000-0000-0000-0000000000t1"
	testActor  = "00000000-0000-0000-0000-0000000000u1"
	itemWidget = "item-widget"
	locA       = "loc-a"
	locB       = "loc-b"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// auditSpy captura las notificaciones post-commit.
type auditSpy struct {
	entries []inventory.AuditEntry
}

func (a *auditSpy) MovementCommitted(_ context.Context, _ string, entry inventory.AuditEntry) {
	a.entries = append(a.entries, entry)
}

// newFixture arma un store en memoria con un tenant, un artículo (reorden 10)
// y dos ubicaciones, más el caso de uso cableado contra ese store.
func newFixture(t *testing.T) (*memory.Store, *inventory.RegisterMovementUseCase, *auditSpy) {
	t.Helper()
	store := memory.NewStore()
	store.SeedItem(entity.InventoryItem{
		ID:           itemWidget,
		TenantID:     testTenant,
		SKU:          "WID-001",
		Name:         "Widget",
		ReorderPoint: dec("10"),
	})
	store.SeedLocation(entity.Location{ID: locA, TenantID: testTenant, Name: "Bodega A", Code: "A"})
	store.SeedLocation(entity.Location{ID: locB, TenantID: testTenant, Name: "Bodega B", Code: "B"})

	audit := &auditSpy{}
	uc := inventory.NewRegisterMovementUseCase(store, store.Items(), store.Locations(), audit, logger.NewNop())
	return store, uc, audit
}

// seedStock deja qty unidades del artículo en la ubicación indicada.
func seedStock(t *testing.T, store *memory.Store, locationID, qty string) {
	t.Helper()
	store.SeedLocationQuantity(entity.LocationQuantity{
		TenantID:   testTenant,
		ItemID:     itemWidget,
		LocationID: locationID,
		Quantity:   dec(qty),
	})
}

// requireConservation verifica el invariante: el total del artículo es la
// suma de todas sus filas de ubicación, y ninguna fila es negativa.
func requireConservation(t *testing.T, store *memory.Store, itemID string) {
	t.Helper()
	ctx := context.Background()
	item, err := store.Items().GetByID(ctx, testTenant, itemID)
	require.NoError(t, err)
	sum, err := store.LocationQuantities().SumByItem(ctx, testTenant, itemID)
	require.NoError(t, err)
	require.True(t, item.Quantity.Equal(sum),
		"total del artículo %s difiere de la suma por ubicación: %s != %s", itemID, item.Quantity, sum)

	rows, err := store.LocationQuantities().ListByItem(ctx, testTenant, itemID)
	require.NoError(t, err)
	for _, lq := range rows {
		require.False(t, lq.Quantity.IsNegative(),
			"fila negativa en %s: %s", lq.LocationID, lq.Quantity)
	}
}

func locQty(t *testing.T, store *memory.Store, locationID string) decimal.Decimal {
	t.Helper()
	lq, err := store.LocationQuantities().Get(context.Background(), testTenant, itemWidget, locationID)
	require.NoError(t, err)
	return lq.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RegisterMovement: flujos básicos
// ──────────────────────────────────────────────────────────────────────────────

// Escenario: artículo con 10 en A; receive de 5 → ubicación 15, total 15,
// estado recalculado contra el punto de reorden (15 > 10 → disponible).
func TestRegisterMovement_RecibeSumaStockYDerivaEstado(t *testing.T) {
	store, uc, _ := newFixture(t)
	seedStock(t, store, locA, "10")

	mov, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		TenantID:     testTenant,
		ActorID:      testActor,
		ItemID:       itemWidget,
		Type:         entity.MovementTypeReceive,
		Quantity:     dec("5"),
		ToLocationID: locA,
	})
	require.NoError(t, err)
	require.NotEmpty(t, mov.ID)

	assert.True(t, dec("15").Equal(locQty(t, store, locA)))

	item, err := store.Items().GetByID(context.Background(), testTenant, itemWidget)
	require.NoError(t, err)
	assert.True(t, dec("15").Equal(item.Quantity))
	assert.Equal(t, entity.StatusInStock, item.Status)
	requireConservation(t, store, itemWidget)
}

// El receive sobre una ubicación sin fila previa la materializa en cero antes
// de aplicar el delta.
func TestRegisterMovement_RecibeMaterializaFilaNueva(t *testing.T) {
	store, uc, _ := newFixture(t)

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		TenantID:     testTenant,
		ItemID:       itemWidget,
		Type:         entity.MovementTypeReceive,
		Quantity:     dec("7"),
		ToLocationID: locB,
	})
	require.NoError(t, err)

	assert.True(t, dec("7").Equal(locQty(t, store, locB)))
	requireConservation(t, store, itemWidget)
}

// Escenario: ship de -12 con 15 disponibles → ubicación 3 y el consumo del
// día acumula 12 con fuente sales_order.
func TestRegisterMovement_DespachoRegistraConsumo(t *testing.T) {
	store, uc, _ := newFixture(t)
	seedStock(t, store, locA, "15")

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		TenantID:       testTenant,
		ItemID:         itemWidget,
		Type:           entity.MovementTypeShip,
		Quantity:       dec("-12"),
		FromLocationID: locA,
	})
	require.NoError(t, err)

	assert.True(t, dec("3").Equal(locQty(t, store, locA)))

	hoy := time.Now().UTC().Truncate(24 * time.Hour)
	record, err := store.Consumption().Get(context.Background(), testTenant, itemWidget, hoy)
	require.NoError(t, err)
	assert.True(t, dec("12").Equal(record.Quantity))
	assert.Equal(t, entity.ConsumptionSourceSalesOrder, record.Source)

	item, err := store.Items().GetByID(context.Background(), testTenant, itemWidget)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusLowStock, item.Status, "3 <= reorden 10")
	requireConservation(t, store, itemWidget)
}

// Dos salidas el mismo día se acumulan en la misma fila de consumo, no en dos.
func TestRegisterMovement_ConsumoDelDiaEsAcumulativo(t *testing.T) {
	store, uc, _ := newFixture(t)
	seedStock(t, store, locA, "50")

	ctx := context.Background()
	for _, qty := range []string{"-12", "-8"} {
		_, err := uc.RegisterMovement(ctx, inventory.MovementInput{
			TenantID:       testTenant,
			ItemID:         itemWidget,
			Type:           entity.MovementTypeShip,
			Quantity:       dec(qty),
			FromLocationID: locA,
		})
		require.NoError(t, err)
	}

	hoy := time.Now().UTC().Truncate(24 * time.Hour)
	record, err := store.Consumption().Get(ctx, testTenant, itemWidget, hoy)
	require.NoError(t, err)
	assert.True(t, dec("20").Equal(record.Quantity), "12 + 8 en una sola fila")
}

// Un adjust negativo registra consumo con fuente adjustment; un receive no
// registra consumo (no es salida).
func TestRegisterMovement_FuenteDeConsumoPorTipo(t *testing.T) {
	store, uc, _ := newFixture(t)
	seedStock(t, store, locA, "20")
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, inventory.MovementInput{
		TenantID:       testTenant,
		ItemID:         itemWidget,
		Type:           entity.MovementTypeAdjust,
		Quantity:       dec("-4"),
		FromLocationID: locA,
	})
	require.NoError(t, err)

	hoy := time.Now().UTC().Truncate(24 * time.Hour)
	record, err := store.Consumption().Get(ctx, testTenant, itemWidget, hoy)
	require.NoError(t, err)
	assert.Equal(t, entity.ConsumptionSourceAdjustment, record.Source)
	assert.True(t, dec("4").Equal(record.Quantity))

	_, err = uc.RegisterMovement(ctx, inventory.MovementInput{
		TenantID:     testTenant,
		ItemID:       itemWidget,
		Type:         entity.MovementTypeReceive,
		Quantity:     dec("10"),
		ToLocationID: locA,
	})
	require.NoError(t, err)

	record, err = store.Consumption().Get(ctx, testTenant, itemWidget, hoy)
	require.NoError(t, err)
	assert.True(t, dec("4").Equal(record.Quantity), "el receive no debe sumar consumo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RegisterMovement: stock insuficiente y rollback
// ──────────────────────────────────────────────────────────────────────────────

// Escenario: ship de -20 con solo 3 disponibles → InsufficientStockError y la
// ubicación queda intacta en 3.
func TestRegisterMovement_DespachoInsuficienteNoMutaNada(t *testing.T) {
	store, uc, audit := newFixture(t)
	seedStock(t, store, locA, "3")
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, inventory.MovementInput{
		TenantID:       testTenant,
		ItemID:         itemWidget,
		Type:           entity.MovementTypeShip,
		Quantity:       dec("-20"),
		FromLocationID: locA,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var ins *domain.InsufficientStockError
	require.True(t, errors.As(err, &ins))
	assert.Equal(t, itemWidget, ins.ItemID)
	assert.Equal(t, locA, ins.LocationID)
	assert.True(t, dec("20").Equal(ins.Requested))
	assert.True(t, dec("3").Equal(ins.Available))

	// Nada quedó escrito: ni stock, ni diario, ni consumo, ni auditoría.
	assert.True(t, dec("3").Equal(locQty(t, store, locA)))
	movs, err := store.Movements().ListByItemAsc(ctx, testTenant, itemWidget, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, movs)
	_, err = store.Consumption().Get(ctx, testTenant, itemWidget, time.Now().UTC().Truncate(24*time.Hour))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, audit.entries)
	requireConservation(t, store, itemWidget)
}

// Un transfer cuyo destino falla revierte también el decremento del origen:
// los dos deltas son una sola unidad.
func TestRegisterMovement_TransferInsuficienteRevierteOrigen(t *testing.T) {
	store, uc, _ := newFixture(t)
	seedStock(t, store, locA, "3")

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		TenantID:       testTenant,
		ItemID:         itemWidget,
		Type:           entity.MovementTypeTransfer,
		Quantity:       dec("5"),
		FromLocationID: locA,
		ToLocationID:   locB,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, dec("3").Equal(locQty(t, store, locA)), "el origen no debe quedar tocado")
	assert.True(t, locQty(t, store, locB).IsZero())
	requireConservation(t, store, itemWidget)
}

// Artículo o ubicación inexistentes fallan antes de abrir la transacción.
func TestRegisterMovement_ReferenciasInexistentes(t *testing.T) {
	_, uc, _ := newFixture(t)
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, inventory.MovementInput{
		TenantID:     testTenant,
		ItemID:       "item-fantasma",
		Type:         entity.MovementTypeReceive,
		Quantity:     dec("1"),
		ToLocationID: locA,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.RegisterMovement(ctx, inventory.MovementInput{
		TenantID:     testTenant,
		ItemID:       itemWidget,
		Type:         entity.MovementTypeReceive,
		Quantity:     dec("1"),
		ToLocationID: "loc-fantasma",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// El aislamiento por tenant es absoluto: el mismo id de artículo bajo otro
// tenant no existe.
func TestRegisterMovement_AisladoPorTenant(t *testing.T) {
	_, uc, _ := newFixture(t)

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		TenantID:     "otro-tenant",
		ItemID:       itemWidget,
		Type:         entity.MovementTypeReceive,
		Quantity:     dec("1"),
		ToLocationID: locA,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RegisterMovement: transfer
// ──────────────────────────────────────────────────────────────────────────────

// Escenario: transfer de 4 de A (10) a B (0) → A=6, B=4, total intacto en 10.
func TestRegisterMovement_TransferSumaCero(t *testing.T) {
	store, uc, audit := newFixture(t)
	seedStock(t, store, locA, "10")

	mov, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		TenantID:       testTenant,
		ItemID:         itemWidget,
		Type:           entity.MovementTypeTransfer,
		Quantity:       dec("4"),
		FromLocationID: locA,
		ToLocationID:   locB,
	})
	require.NoError(t, err)
	assert.True(t, mov.IsTransfer())

	assert.True(t, dec("6").Equal(locQty(t, store, locA)))
	assert.True(t, dec("4").Equal(locQty(t, store, locB)))

	item, err := store.Items().GetByID(context.Background(), testTenant, itemWidget)
	require.NoError(t, err)
	assert.True(t, dec("10").Equal(item.Quantity), "el transfer no cambia el total")

	// La auditoría reporta el efecto neto cero sobre el total.
	require.Len(t, audit.entries, 1)
	assert.True(t, audit.entries[0].QuantityChange.IsZero())
	assert.True(t, audit.entries[0].OldQuantity.Equal(audit.entries[0].NewQuantity))
	requireConservation(t, store, itemWidget)
}

// Un transfer no es consumo: el stock no sale del sistema.
func TestRegisterMovement_TransferNoRegistraConsumo(t *testing.T) {
	store, uc, _ := newFixture(t)
	seedStock(t, store, locA, "10")
	ctx := context.Background()

	_, err := uc.RegisterMovement(ctx, inventory.MovementInput{
		TenantID:       testTenant,
		ItemID:         itemWidget,
		Type:           entity.MovementTypeTransfer,
		Quantity:       dec("4"),
		FromLocationID: locA,
		ToLocationID:   locB,
	})
	require.NoError(t, err)

	_, err = store.Consumption().Get(ctx, testTenant, itemWidget, time.Now().UTC().Truncate(24*time.Hour))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RegisterMovement: lotes
// ──────────────────────────────────────────────────────────────────────────────

func seedLot(t *testing.T, store *memory.Store, id, qty, locationID string) {
	t.Helper()
	store.SeedLot(entity.Lot{
		ID:         id,
		TenantID:   testTenant,
		ItemID:     itemWidget,
		LotNumber:  "LOT-" + id,
		Quantity:   dec(qty),
		LocationID: locationID,
	})
}

// Un receive contra un lote acumula en el lote además de la ubicación.
func TestRegisterMovement_RecibeConLote(t *testing.T) {
	store, uc, _ := newFixture(t)
	seedLot(t, store, "lote-1", "0", locA)

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		TenantID:     testTenant,
		ItemID:       itemWidget,
		Type:         entity.MovementTypeReceive,
		Quantity:     dec("25"),
		ToLocationID: locA,
		LotID:        "lote-1",
	})
	require.NoError(t, err)

	lot, err := store.Lots().GetByID(context.Background(), testTenant, "lote-1")
	require.NoError(t, err)
	assert.True(t, dec("25").Equal(lot.Quantity))
	assert.True(t, dec("25").Equal(locQty(t, store, locA)))
}

// El motor no crea lotes: referir uno inexistente falla y revierte el delta
// de ubicación ya aplicado.
func TestRegisterMovement_LoteInexistenteRevierteTodo(t *testing.T) {
	store, uc, _ := newFixture(t)
	seedStock(t, store, locA, "10")

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		TenantID:     testTenant,
		ItemID:       itemWidget,
		Type:         entity.MovementTypeReceive,
		Quantity:     dec("5"),
		ToLocationID: locA,
		LotID:        "lote-fantasma",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, dec("10").Equal(locQty(t, store, locA)), "el delta de ubicación debe revertirse")
}

// Un ship mayor al contenido del lote falla aunque la ubicación alcance.
func TestRegisterMovement_LoteInsuficiente(t *testing.T) {
	store, uc, _ := newFixture(t)
	seedStock(t, store, locA, "100")
	seedLot(t, store, "lote-1", "5", locA)

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		TenantID:       testTenant,
		ItemID:         itemWidget,
		Type:           entity.MovementTypeShip,
		Quantity:       dec("-8"),
		FromLocationID: locA,
		LotID:          "lote-1",
	})
	require.Error(t, err)

	var ins *domain.InsufficientStockError
	require.True(t, errors.As(err, &ins))
	assert.Equal(t, "lote-1", ins.LotID)

	assert.True(t, dec("100").Equal(locQty(t, store, locA)))
	lot, err := store.Lots().GetByID(context.Background(), testTenant, "lote-1")
	require.NoError(t, err)
	assert.True(t, dec("5").Equal(lot.Quantity))
}

// El transfer de un lote descuenta su contenido y lo reubica al destino.
func TestRegisterMovement_TransferReubicaLote(t *testing.T) {
	store, uc, _ := newFixture(t)
	seedStock(t, store, locA, "10")
	seedLot(t, store, "lote-1", "10", locA)

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		TenantID:       testTenant,
		ItemID:         itemWidget,
		Type:           entity.MovementTypeTransfer,
		Quantity:       dec("4"),
		FromLocationID: locA,
		ToLocationID:   locB,
		LotID:          "lote-1",
	})
	require.NoError(t, err)

	lot, err := store.Lots().GetByID(context.Background(), testTenant, "lote-1")
	require.NoError(t, err)
	assert.True(t, dec("6").Equal(lot.Quantity))
	assert.Equal(t, locB, lot.LocationID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests auditoría post-commit
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_NotificaAuditoriaTrasCommit(t *testing.T) {
	store, uc, audit := newFixture(t)
	seedStock(t, store, locA, "10")

	_, err := uc.RegisterMovement(context.Background(), inventory.MovementInput{
		TenantID:        testTenant,
		ItemID:          itemWidget,
		Type:            entity.MovementTypeShip,
		Quantity:        dec("-4"),
		FromLocationID:  locA,
		ReferenceNumber: "SO-123",
	})
	require.NoError(t, err)

	require.Len(t, audit.entries, 1)
	entry := audit.entries[0]
	assert.Equal(t, entity.MovementTypeShip, entry.MovementType)
	assert.Equal(t, itemWidget, entry.ItemID)
	assert.True(t, dec("-4").Equal(entry.QuantityChange))
	assert.True(t, dec("10").Equal(entry.OldQuantity))
	assert.True(t, dec("6").Equal(entry.NewQuantity))
	assert.Equal(t, "SO-123", entry.ReferenceNumber)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CheckAvailability
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckAvailability(t *testing.T) {
	store, uc, _ := newFixture(t)
	seedStock(t, store, locA, "10")
	ctx := context.Background()

	assert.NoError(t, uc.CheckAvailability(ctx, testTenant, itemWidget, dec("10")))

	err := uc.CheckAvailability(ctx, testTenant, itemWidget, dec("11"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}
