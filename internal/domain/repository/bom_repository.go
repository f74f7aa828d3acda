package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// BOMRepository define el puerto de la lista de materiales.
type BOMRepository interface {
	ListComponents(ctx context.Context, tenantID, parentItemID string) ([]*entity.BOMComponent, error)
	// AddComponent inserta una línea; par padre-componente duplicado -> ErrDuplicate.
	AddComponent(ctx context.Context, component *entity.BOMComponent) error
	RemoveComponent(ctx context.Context, tenantID, parentItemID, componentItemID string) error
}
