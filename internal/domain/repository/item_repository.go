package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para InventoryItem (DIP).
// El total y el estado solo se escriben vía UpdateQuantityStatus, nunca por
// asignación directa desde la lógica de movimientos.
type ItemRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila del artículo (SELECT FOR UPDATE) para
	// serializar la reconciliación frente a escritores concurrentes.
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.InventoryItem, error)
	UpdateQuantityStatus(ctx context.Context, tenantID, id string, quantity decimal.Decimal, status string) error
	// ListBelowReorderPoint devuelve los artículos cuyo total está por debajo
	// de su punto de reorden, ordenados por mayor déficit primero.
	ListBelowReorderPoint(ctx context.Context, tenantID string, limit int) ([]*entity.InventoryItem, error)
}
