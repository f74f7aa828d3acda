package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// LocationQuantityRepository define el puerto del ledger por ubicación.
// ApplyDelta es la única primitiva de mutación de stock: toda escritura de
// cantidad (movimientos, ensambles) debe pasar por ella dentro de una
// transacción, nunca por asignación directa.
type LocationQuantityRepository interface {
	Get(ctx context.Context, tenantID, itemID, locationID string) (*entity.LocationQuantity, error)
	// GetOrCreateForUpdate materializa la fila en cero si no existe (upsert
	// con constraint único) y la bloquea (SELECT FOR UPDATE).
	GetOrCreateForUpdate(ctx context.Context, tenantID, itemID, locationID string) (*entity.LocationQuantity, error)
	// ApplyDelta suma delta (con signo) bajo lock de fila. Si el resultado
	// sería negativo falla con InsufficientStockError reportando lo
	// disponible, sin escribir nada.
	ApplyDelta(ctx context.Context, tenantID, itemID, locationID string, delta decimal.Decimal) (*entity.LocationQuantity, error)
	// SumByItem reconcilia el total del artículo sumando todas sus filas.
	SumByItem(ctx context.Context, tenantID, itemID string) (decimal.Decimal, error)
	ListByItem(ctx context.Context, tenantID, itemID string) ([]*entity.LocationQuantity, error)
}
