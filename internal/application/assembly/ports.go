package assembly

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// AssemblyTxRunner ejecuta un ensamble/desensamble completo dentro de una
// transacción de BD: los N deltas de componentes, el delta del padre y las
// entradas del diario se confirman o se revierten como una sola unidad.
type AssemblyTxRunner interface {
	RunAssembly(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		locRepo repository.LocationQuantityRepository,
		itemRepo repository.ItemRepository,
		bomRepo repository.BOMRepository,
		consumptionRepo repository.ConsumptionRepository,
	) error) error
}
