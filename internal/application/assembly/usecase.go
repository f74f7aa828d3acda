package assembly

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// UseCase orquesta el build/unbuild de lista de materiales sobre las mismas
// primitivas del ledger, con chequeo de disponibilidad previo y re-chequeo
// bajo locks al momento del commit (cierra la carrera check-then-act).
type UseCase struct {
	txRunner AssemblyTxRunner
	itemRepo repository.ItemRepository
	bomRepo  repository.BOMRepository
}

// NewUseCase construye el orquestador de ensambles.
func NewUseCase(txRunner AssemblyTxRunner, itemRepo repository.ItemRepository, bomRepo repository.BOMRepository) *UseCase {
	return &UseCase{txRunner: txRunner, itemRepo: itemRepo, bomRepo: bomRepo}
}

// Availability resultado de CalculateAvailability.
type Availability struct {
	ParentItemID string
	MaxBuildable decimal.Decimal
	PerComponent []domaininv.ComponentAvailability
}

// BuildInput entrada para Build/Unbuild. LocationID es la ubicación donde se
// consumen los componentes y se produce el padre (o al revés en unbuild).
type BuildInput struct {
	TenantID        string
	ActorID         string
	ParentItemID    string
	Quantity        decimal.Decimal // unidades enteras > 0
	LocationID      string
	ReferenceNumber string
}

// ComponentDelta delta aplicado a un componente durante build/unbuild.
type ComponentDelta struct {
	ComponentItemID string
	Delta           decimal.Decimal
}

// BuildResult resultado confirmado de un build o unbuild.
type BuildResult struct {
	ParentItemID    string
	ParentDelta     decimal.Decimal
	ComponentDeltas []ComponentDelta
	ReferenceNumber string
}

// CalculateAvailability calcula cuántas unidades del padre se pueden
// ensamblar: min(floor(disponible_c / requerido_c)) sobre los componentes,
// cero si la BOM está vacía. Marca el componente limitante.
func (uc *UseCase) CalculateAvailability(ctx context.Context, tenantID, parentItemID string) (*Availability, error) {
	if _, err := uc.itemRepo.GetByID(ctx, tenantID, parentItemID); err != nil {
		return nil, err
	}
	components, err := uc.bomRepo.ListComponents(ctx, tenantID, parentItemID)
	if err != nil {
		return nil, err
	}
	available, err := uc.availableByComponent(ctx, tenantID, components, uc.itemRepo)
	if err != nil {
		return nil, err
	}
	max, perComponent := domaininv.MaxBuildable(components, available)
	return &Availability{ParentItemID: parentItemID, MaxBuildable: max, PerComponent: perComponent}, nil
}

// Build consume los componentes y produce qty unidades del padre, todo o
// nada. La cota qty <= maxBuildable se re-verifica dentro de la transacción,
// con las filas de los artículos bloqueadas.
func (uc *UseCase) Build(ctx context.Context, input BuildInput) (*BuildResult, error) {
	return uc.run(ctx, input, false)
}

// Unbuild es el inverso exacto: desarma qty unidades del padre y devuelve
// los componentes, con la misma semántica todo-o-nada.
func (uc *UseCase) Unbuild(ctx context.Context, input BuildInput) (*BuildResult, error) {
	return uc.run(ctx, input, true)
}

func (uc *UseCase) run(ctx context.Context, input BuildInput, unbuild bool) (*BuildResult, error) {
	if err := validateBuildInput(input); err != nil {
		return nil, err
	}
	if _, err := uc.itemRepo.GetByID(ctx, input.TenantID, input.ParentItemID); err != nil {
		return nil, err
	}

	ref := input.ReferenceNumber
	if ref == "" {
		prefix := "BUILD-"
		if unbuild {
			prefix = "UNBUILD-"
		}
		ref = prefix + uuid.New().String()[:8]
	}

	now := time.Now().UTC()
	result := &BuildResult{ParentItemID: input.ParentItemID, ReferenceNumber: ref}

	err := uc.txRunner.RunAssembly(ctx, func(
		movRepo repository.MovementRepository,
		locRepo repository.LocationQuantityRepository,
		itemRepo repository.ItemRepository,
		bomRepo repository.BOMRepository,
		consumptionRepo repository.ConsumptionRepository,
	) error {
		components, err := bomRepo.ListComponents(ctx, input.TenantID, input.ParentItemID)
		if err != nil {
			return err
		}

		// Bloquear artículos en orden estable (padre primero, componentes por
		// id) para evitar interbloqueos entre builds concurrentes.
		sort.Slice(components, func(i, j int) bool {
			return components[i].ComponentItemID < components[j].ComponentItemID
		})
		if _, err := itemRepo.GetForUpdate(ctx, input.TenantID, input.ParentItemID); err != nil {
			return err
		}
		for _, c := range components {
			if _, err := itemRepo.GetForUpdate(ctx, input.TenantID, c.ComponentItemID); err != nil {
				return err
			}
		}

		if unbuild {
			return uc.doUnbuild(ctx, input, components, ref, now, result, movRepo, locRepo, itemRepo, consumptionRepo)
		}
		return uc.doBuild(ctx, input, components, ref, now, result, movRepo, locRepo, itemRepo, consumptionRepo)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// doBuild re-verifica la cota bajo locks, descuenta cada componente, suma el
// padre y agrega una entrada del diario por componente más una por el padre.
func (uc *UseCase) doBuild(
	ctx context.Context,
	input BuildInput,
	components []*entity.BOMComponent,
	ref string,
	now time.Time,
	result *BuildResult,
	movRepo repository.MovementRepository,
	locRepo repository.LocationQuantityRepository,
	itemRepo repository.ItemRepository,
	consumptionRepo repository.ConsumptionRepository,
) error {
	// Re-chequeo de la cota al momento del commit, no solo en una lectura
	// previa: las filas ya están bloqueadas.
	available, err := uc.availableByComponent(ctx, input.TenantID, components, itemRepo)
	if err != nil {
		return err
	}
	max, perComponent := domaininv.MaxBuildable(components, available)
	if input.Quantity.GreaterThan(max) {
		ins := &domain.InsufficientStockError{
			ItemID:    input.ParentItemID,
			Requested: input.Quantity,
			Available: max,
		}
		for _, pc := range perComponent {
			if pc.Limiting {
				ins.ItemID = pc.ComponentItemID
				ins.Available = pc.MaxFromComponent
				break
			}
		}
		return ins
	}

	for _, c := range components {
		consumed := c.QtyRequired.Mul(input.Quantity)
		if _, err := locRepo.ApplyDelta(ctx, input.TenantID, c.ComponentItemID, input.LocationID, consumed.Neg()); err != nil {
			return err
		}
		if err := movRepo.Create(ctx, &entity.Movement{
			ID:              uuid.New().String(),
			TenantID:        input.TenantID,
			ItemID:          c.ComponentItemID,
			Type:            entity.MovementTypeAdjust,
			Quantity:        consumed.Neg(),
			FromLocationID:  input.LocationID,
			ReferenceNumber: ref,
			Notes:           "consumo por ensamble de " + input.ParentItemID,
			ActorID:         input.ActorID,
			CreatedAt:       now,
		}); err != nil {
			return err
		}
		if err := consumptionRepo.UpsertAdd(ctx, &entity.ConsumptionRecord{
			TenantID: input.TenantID,
			ItemID:   c.ComponentItemID,
			Date:     now.Truncate(24 * time.Hour),
			Quantity: consumed,
			Source:   entity.ConsumptionSourceWorkOrder,
		}); err != nil {
			return err
		}
		if err := uc.reconcile(ctx, locRepo, itemRepo, input.TenantID, c.ComponentItemID); err != nil {
			return err
		}
		result.ComponentDeltas = append(result.ComponentDeltas, ComponentDelta{
			ComponentItemID: c.ComponentItemID,
			Delta:           consumed.Neg(),
		})
	}

	if _, err := locRepo.ApplyDelta(ctx, input.TenantID, input.ParentItemID, input.LocationID, input.Quantity); err != nil {
		return err
	}
	if err := movRepo.Create(ctx, &entity.Movement{
		ID:              uuid.New().String(),
		TenantID:        input.TenantID,
		ItemID:          input.ParentItemID,
		Type:            entity.MovementTypeAdjust,
		Quantity:        input.Quantity,
		ToLocationID:    input.LocationID,
		ReferenceNumber: ref,
		Notes:           "producción por ensamble",
		ActorID:         input.ActorID,
		CreatedAt:       now,
	}); err != nil {
		return err
	}
	if err := uc.reconcile(ctx, locRepo, itemRepo, input.TenantID, input.ParentItemID); err != nil {
		return err
	}
	result.ParentDelta = input.Quantity
	return nil
}

// doUnbuild descuenta el padre y devuelve los componentes: inverso exacto
// del build, simétrico y todo-o-nada.
func (uc *UseCase) doUnbuild(
	ctx context.Context,
	input BuildInput,
	components []*entity.BOMComponent,
	ref string,
	now time.Time,
	result *BuildResult,
	movRepo repository.MovementRepository,
	locRepo repository.LocationQuantityRepository,
	itemRepo repository.ItemRepository,
	consumptionRepo repository.ConsumptionRepository,
) error {
	if _, err := locRepo.ApplyDelta(ctx, input.TenantID, input.ParentItemID, input.LocationID, input.Quantity.Neg()); err != nil {
		return err
	}
	if err := movRepo.Create(ctx, &entity.Movement{
		ID:              uuid.New().String(),
		TenantID:        input.TenantID,
		ItemID:          input.ParentItemID,
		Type:            entity.MovementTypeAdjust,
		Quantity:        input.Quantity.Neg(),
		FromLocationID:  input.LocationID,
		ReferenceNumber: ref,
		Notes:           "desarme de ensamble",
		ActorID:         input.ActorID,
		CreatedAt:       now,
	}); err != nil {
		return err
	}
	if err := consumptionRepo.UpsertAdd(ctx, &entity.ConsumptionRecord{
		TenantID: input.TenantID,
		ItemID:   input.ParentItemID,
		Date:     now.Truncate(24 * time.Hour),
		Quantity: input.Quantity,
		Source:   entity.ConsumptionSourceWorkOrder,
	}); err != nil {
		return err
	}
	if err := uc.reconcile(ctx, locRepo, itemRepo, input.TenantID, input.ParentItemID); err != nil {
		return err
	}
	result.ParentDelta = input.Quantity.Neg()

	for _, c := range components {
		returned := c.QtyRequired.Mul(input.Quantity)
		if _, err := locRepo.ApplyDelta(ctx, input.TenantID, c.ComponentItemID, input.LocationID, returned); err != nil {
			return err
		}
		if err := movRepo.Create(ctx, &entity.Movement{
			ID:              uuid.New().String(),
			TenantID:        input.TenantID,
			ItemID:          c.ComponentItemID,
			Type:            entity.MovementTypeAdjust,
			Quantity:        returned,
			ToLocationID:    input.LocationID,
			ReferenceNumber: ref,
			Notes:           "retorno por desarme de " + input.ParentItemID,
			ActorID:         input.ActorID,
			CreatedAt:       now,
		}); err != nil {
			return err
		}
		if err := uc.reconcile(ctx, locRepo, itemRepo, input.TenantID, c.ComponentItemID); err != nil {
			return err
		}
		result.ComponentDeltas = append(result.ComponentDeltas, ComponentDelta{
			ComponentItemID: c.ComponentItemID,
			Delta:           returned,
		})
	}
	return nil
}

// reconcile recalcula total y estado del artículo desde sus filas de
// ubicación, igual que el pipeline de movimientos.
func (uc *UseCase) reconcile(
	ctx context.Context,
	locRepo repository.LocationQuantityRepository,
	itemRepo repository.ItemRepository,
	tenantID, itemID string,
) error {
	item, err := itemRepo.GetByID(ctx, tenantID, itemID)
	if err != nil {
		return err
	}
	total, err := locRepo.SumByItem(ctx, tenantID, itemID)
	if err != nil {
		return err
	}
	return itemRepo.UpdateQuantityStatus(ctx, tenantID, itemID, total, domaininv.DeriveStatus(total, item.ReorderPoint))
}

// availableByComponent arma el mapa componente -> total disponible usando el
// total reconciliado que mantiene el derivador de estado.
func (uc *UseCase) availableByComponent(
	ctx context.Context,
	tenantID string,
	components []*entity.BOMComponent,
	itemRepo repository.ItemRepository,
) (map[string]decimal.Decimal, error) {
	available := make(map[string]decimal.Decimal, len(components))
	for _, c := range components {
		item, err := itemRepo.GetByID(ctx, tenantID, c.ComponentItemID)
		if err != nil {
			return nil, err
		}
		available[c.ComponentItemID] = item.Quantity
	}
	return available, nil
}

func validateBuildInput(input BuildInput) error {
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return &domain.ValidationError{Field: "quantity", Reason: "debe ser positiva"}
	}
	if !input.Quantity.Equal(input.Quantity.Floor()) {
		return &domain.ValidationError{Field: "quantity", Reason: "debe ser un número entero de unidades"}
	}
	if input.LocationID == "" {
		return &domain.ValidationError{Field: "location_id", Reason: "requerido"}
	}
	return nil
}
