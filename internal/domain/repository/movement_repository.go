package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MovementRepository define el puerto del diario de movimientos.
// Solo inserta y lee: los movimientos confirmados nunca se editan ni borran.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Movement, error)
	// ListByItemAsc devuelve los movimientos de un artículo en orden
	// cronológico ascendente, para reconstruir el saldo acumulado.
	ListByItemAsc(ctx context.Context, tenantID, itemID string, from, to *time.Time) ([]*entity.Movement, error)
	// ListByItem lista paginado en orden descendente (consultas de historial).
	ListByItem(ctx context.Context, tenantID, itemID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
}
