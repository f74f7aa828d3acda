package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ConsumptionRepository define el puerto del histórico diario de consumo.
type ConsumptionRepository interface {
	// UpsertAdd acumula record.Quantity sobre la fila (tenant, item, fecha)
	// si ya existe, o la inserta si no: agregado acumulativo, no bitácora.
	UpsertAdd(ctx context.Context, record *entity.ConsumptionRecord) error
	Get(ctx context.Context, tenantID, itemID string, date time.Time) (*entity.ConsumptionRecord, error)
	// ListByItemRange devuelve el consumo diario en un rango de fechas,
	// insumo para los pronósticos (colaborador externo).
	ListByItemRange(ctx context.Context, tenantID, itemID string, from, to time.Time) ([]*entity.ConsumptionRecord, error)
}
