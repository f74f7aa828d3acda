package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ReorderSuggestion resume un artículo bajo punto de reorden con su consumo
// reciente, insumo para el colaborador de pronósticos.
type ReorderSuggestion struct {
	ItemID            string
	SKU               string
	Name              string
	CurrentQuantity   decimal.Decimal
	ReorderPoint      decimal.Decimal
	Deficit           decimal.Decimal
	ConsumedLast30Day decimal.Decimal
}

// ReorderUseCase genera la lista de reposición: artículos cuyo total
// reconciliado cayó bajo su punto de reorden, priorizados por déficit.
type ReorderUseCase struct {
	itemRepo        repository.ItemRepository
	consumptionRepo repository.ConsumptionRepository
}

// NewReorderUseCase construye el caso de uso de reposición.
func NewReorderUseCase(itemRepo repository.ItemRepository, consumptionRepo repository.ConsumptionRepository) *ReorderUseCase {
	return &ReorderUseCase{itemRepo: itemRepo, consumptionRepo: consumptionRepo}
}

// GenerateReorderList devuelve los artículos bajo reorden (mayor déficit
// primero, orden que ya entrega el repositorio) enriquecidos con el consumo
// acumulado de los últimos 30 días.
func (uc *ReorderUseCase) GenerateReorderList(ctx context.Context, tenantID string, limit int) ([]ReorderSuggestion, error) {
	items, err := uc.itemRepo.ListBelowReorderPoint(ctx, tenantID, limit)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []ReorderSuggestion{}, nil
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)

	suggestions := make([]ReorderSuggestion, 0, len(items))
	for _, item := range items {
		consumed := decimal.Zero
		records, err := uc.consumptionRepo.ListByItemRange(ctx, tenantID, item.ID, start, end)
		if err == nil {
			for _, r := range records {
				consumed = consumed.Add(r.Quantity)
			}
		}
		suggestions = append(suggestions, ReorderSuggestion{
			ItemID:            item.ID,
			SKU:               item.SKU,
			Name:              item.Name,
			CurrentQuantity:   item.Quantity,
			ReorderPoint:      item.ReorderPoint,
			Deficit:           item.ReorderPoint.Sub(item.Quantity),
			ConsumedLast30Day: consumed,
		})
	}
	return suggestions, nil
}

// GetConsumptionHistory expone el consumo diario de un artículo en un rango,
// tal como lo consume el módulo de pronósticos.
func (uc *ReorderUseCase) GetConsumptionHistory(ctx context.Context, tenantID, itemID string, from, to time.Time) ([]*entity.ConsumptionRecord, error) {
	return uc.consumptionRepo.ListByItemRange(ctx, tenantID, itemID, from, to)
}
