package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// LotRepository define el puerto del ledger por lote. La creación del lote
// pertenece al flujo de recepción; el motor de movimientos solo lo muta.
type LotRepository interface {
	// Create inserta un lote nuevo; número duplicado por tenant -> ErrDuplicate.
	Create(ctx context.Context, lot *entity.Lot) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Lot, error)
	GetByNumber(ctx context.Context, tenantID, lotNumber string) (*entity.Lot, error)
	// GetForUpdate bloquea la fila del lote; ErrNotFound si no existe.
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Lot, error)
	// ApplyDelta suma delta (con signo) bajo lock; resultado negativo falla
	// con InsufficientStockError sin escribir nada.
	ApplyDelta(ctx context.Context, tenantID, id string, delta decimal.Decimal) (*entity.Lot, error)
	// Relocate mueve el lote a otra ubicación (traslados).
	Relocate(ctx context.Context, tenantID, id, locationID string) error
}
