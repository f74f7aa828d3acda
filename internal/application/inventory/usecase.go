package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// RegisterMovementUseCase convierte eventos discretos de movimiento (receive,
// ship, transfer, adjust, count) en estado consistente por ubicación y por
// lote, con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
	audit        AuditLogger
	log          *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso. audit puede ser nil.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
	audit AuditLogger,
	log *logger.Logger,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		audit:        audit,
		log:          log,
	}
}

// MovementInput entrada para registrar un movimiento de inventario.
// Quantity va con signo: positiva para entradas, negativa para salidas;
// en transfer siempre positiva (la dirección es origen -> destino).
type MovementInput struct {
	TenantID        string
	ActorID         string
	ItemID          string
	Type            string
	Quantity        decimal.Decimal
	FromLocationID  string
	ToLocationID    string
	LotID           string
	ReferenceNumber string
	Notes           string
}

// RegisterMovement valida el movimiento, muta los ledgers de ubicación y
// (si aplica) de lote dentro de una transacción, agrega la entrada del
// diario, reconcilia total/estado del artículo y acumula el consumo del día
// para salidas. Devuelve el movimiento confirmado.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*entity.Movement, error) {
	if err := ValidateMovement(input); err != nil {
		return nil, err
	}

	// Validar que el artículo y las ubicaciones referidas existan.
	if _, err := uc.itemRepo.GetByID(ctx, input.TenantID, input.ItemID); err != nil {
		return nil, err
	}
	for _, locID := range []string{input.FromLocationID, input.ToLocationID} {
		if locID == "" {
			continue
		}
		if _, err := uc.locationRepo.GetByID(ctx, input.TenantID, locID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	mov := &entity.Movement{
		ID:              uuid.New().String(),
		TenantID:        input.TenantID,
		ItemID:          input.ItemID,
		Type:            input.Type,
		Quantity:        input.Quantity,
		FromLocationID:  input.FromLocationID,
		ToLocationID:    input.ToLocationID,
		LotID:           input.LotID,
		ReferenceNumber: input.ReferenceNumber,
		Notes:           input.Notes,
		ActorID:         input.ActorID,
		CreatedAt:       now,
	}

	var oldTotal, newTotal decimal.Decimal

	// Inicia transacción; Commit si todo ok, Rollback si algo falla (TxRunner.Run lo hace).
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		locRepo repository.LocationQuantityRepository,
		lotRepo repository.LotRepository,
		itemRepo repository.ItemRepository,
		consumptionRepo repository.ConsumptionRepository,
	) error {
		// Bloquea la fila del artículo primero: serializa la reconciliación
		// y fija un orden de locks estable (artículo -> ubicaciones -> lote).
		item, err := itemRepo.GetForUpdate(ctx, input.TenantID, input.ItemID)
		if err != nil {
			return err
		}
		oldTotal = item.Quantity

		if err := uc.applyLocationDeltas(ctx, locRepo, input); err != nil {
			return err
		}
		if input.LotID != "" {
			if err := uc.applyLotDelta(ctx, lotRepo, input); err != nil {
				return err
			}
		}

		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}

		newTotal, err = uc.reconcile(ctx, locRepo, itemRepo, item, itemDelta(mov))
		if err != nil {
			return err
		}

		return uc.recordConsumption(ctx, consumptionRepo, input, now)
	})
	if err != nil {
		return nil, err
	}

	// Notificación post-commit: un fallo al auditar no revierte el ledger.
	if uc.audit != nil {
		uc.audit.MovementCommitted(ctx, input.TenantID, AuditEntry{
			MovementType:    mov.Type,
			ItemID:          mov.ItemID,
			QuantityChange:  itemDelta(mov),
			OldQuantity:     oldTotal,
			NewQuantity:     newTotal,
			FromLocationID:  mov.FromLocationID,
			ToLocationID:    mov.ToLocationID,
			ReferenceNumber: mov.ReferenceNumber,
		})
	}
	return mov, nil
}

// applyLocationDeltas muta el ledger por ubicación según el tipo.
// Un transfer son dos deltas ligados (-q origen, +q destino) en la misma tx:
// si el decremento falla, el incremento jamás se aplica.
func (uc *RegisterMovementUseCase) applyLocationDeltas(
	ctx context.Context,
	locRepo repository.LocationQuantityRepository,
	input MovementInput,
) error {
	if input.Type == entity.MovementTypeTransfer {
		if _, err := locRepo.ApplyDelta(ctx, input.TenantID, input.ItemID, input.FromLocationID, input.Quantity.Neg()); err != nil {
			return err
		}
		_, err := locRepo.ApplyDelta(ctx, input.TenantID, input.ItemID, input.ToLocationID, input.Quantity)
		return err
	}
	_, err := locRepo.ApplyDelta(ctx, input.TenantID, input.ItemID, resolveLocation(input), input.Quantity)
	return err
}

// resolveLocation decide sobre qué fila cae el delta de un movimiento simple:
// receive/count sobre el destino, ship sobre el origen, adjust según el signo.
func resolveLocation(input MovementInput) string {
	switch input.Type {
	case entity.MovementTypeReceive, entity.MovementTypeCount:
		return input.ToLocationID
	case entity.MovementTypeShip:
		return input.FromLocationID
	default: // adjust
		if input.Quantity.GreaterThan(decimal.Zero) {
			return input.ToLocationID
		}
		return input.FromLocationID
	}
}

// applyLotDelta muta el ledger de lote en lockstep con el de ubicación.
// El lote debe existir (la creación es del flujo de recepción). En transfer
// se descuenta abs(q) del lote y se reubica al destino.
func (uc *RegisterMovementUseCase) applyLotDelta(
	ctx context.Context,
	lotRepo repository.LotRepository,
	input MovementInput,
) error {
	var delta decimal.Decimal
	switch input.Type {
	case entity.MovementTypeReceive:
		delta = input.Quantity
	case entity.MovementTypeShip, entity.MovementTypeTransfer:
		delta = input.Quantity.Abs().Neg()
	default: // adjust, count: delta con signo tal cual
		delta = input.Quantity
	}
	if _, err := lotRepo.ApplyDelta(ctx, input.TenantID, input.LotID, delta); err != nil {
		return err
	}
	if input.Type == entity.MovementTypeTransfer {
		return lotRepo.Relocate(ctx, input.TenantID, input.LotID, input.ToLocationID)
	}
	return nil
}

// reconcile recalcula el total del artículo sumando TODAS sus filas de
// ubicación (reconciliación completa, no suma incremental) y deriva el
// estado. Si el total difiere de lo esperado por el delta se registra una
// alerta, pero el valor reconciliado manda.
func (uc *RegisterMovementUseCase) reconcile(
	ctx context.Context,
	locRepo repository.LocationQuantityRepository,
	itemRepo repository.ItemRepository,
	item *entity.InventoryItem,
	delta decimal.Decimal,
) (decimal.Decimal, error) {
	total, err := locRepo.SumByItem(ctx, item.TenantID, item.ID)
	if err != nil {
		return decimal.Zero, err
	}
	if expected := item.Quantity.Add(delta); uc.log != nil && !expected.Equal(total) {
		uc.log.Warn().
			Str("item_id", item.ID).
			Str("esperado", expected.String()).
			Str("reconciliado", total.String()).
			Msg("total reconciliado difiere del incremental")
	}
	status := domaininv.DeriveStatus(total, item.ReorderPoint)
	if err := itemRepo.UpdateQuantityStatus(ctx, item.TenantID, item.ID, total, status); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// recordConsumption acumula la salida del día en (tenant, item, fecha).
// Solo cuentan cantidades negativas de ship/adjust/count: un transfer no es
// consumo, el stock no sale del sistema.
func (uc *RegisterMovementUseCase) recordConsumption(
	ctx context.Context,
	consumptionRepo repository.ConsumptionRepository,
	input MovementInput,
	now time.Time,
) error {
	if !input.Quantity.LessThan(decimal.Zero) {
		return nil
	}
	var source string
	switch input.Type {
	case entity.MovementTypeShip:
		source = entity.ConsumptionSourceSalesOrder
	case entity.MovementTypeAdjust, entity.MovementTypeCount:
		source = entity.ConsumptionSourceAdjustment
	default:
		return nil
	}
	return consumptionRepo.UpsertAdd(ctx, &entity.ConsumptionRecord{
		TenantID: input.TenantID,
		ItemID:   input.ItemID,
		Date:     now.Truncate(24 * time.Hour),
		Quantity: input.Quantity.Abs(),
		Source:   source,
	})
}

// itemDelta es el efecto del movimiento sobre el total del artículo:
// cero en transfer (suma cero entre dos ubicaciones), el signo tal cual en
// el resto. Lo usan la reconciliación y el saldo acumulado del diario.
func itemDelta(m *entity.Movement) decimal.Decimal {
	if m.IsTransfer() {
		return decimal.Zero
	}
	return m.Quantity
}

// Pre-chequeo de disponibilidad: usado por callers que quieren fallar
// temprano, el chequeo definitivo siempre ocurre bajo lock en ApplyDelta.
func (uc *RegisterMovementUseCase) CheckAvailability(ctx context.Context, tenantID, itemID string, required decimal.Decimal) error {
	item, err := uc.itemRepo.GetByID(ctx, tenantID, itemID)
	if err != nil {
		return err
	}
	if item.Quantity.LessThan(required) {
		return &domain.InsufficientStockError{
			ItemID:    itemID,
			Requested: required,
			Available: item.Quantity,
		}
	}
	return nil
}
