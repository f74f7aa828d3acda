package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.BOMRepository = (*BOMRepo)(nil)

// BOMRepo implementación de la lista de materiales sobre PostgreSQL
// (usable con pool o tx).
type BOMRepo struct {
	q Querier
}

// NewBOMRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBOMRepository(q Querier) *BOMRepo {
	return &BOMRepo{q: q}
}

// ListComponents devuelve las líneas de la BOM de un artículo padre.
func (r *BOMRepo) ListComponents(ctx context.Context, tenantID, parentItemID string) ([]*entity.BOMComponent, error) {
	query := `
		SELECT id, tenant_id, parent_item_id, component_item_id, qty_required, created_at
		FROM bom_components
		WHERE tenant_id = $1 AND parent_item_id = $2
		ORDER BY component_item_id`
	rows, err := r.q.Query(ctx, query, tenantID, parentItemID)
	if err != nil {
		return nil, wrapPgErr("list bom components", err)
	}
	defer rows.Close()
	var list []*entity.BOMComponent
	for rows.Next() {
		var c entity.BOMComponent
		if err := rows.Scan(&c.ID, &c.TenantID, &c.ParentItemID, &c.ComponentItemID, &c.QtyRequired, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bom component: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// AddComponent inserta una línea; par padre-componente duplicado -> ErrDuplicate.
func (r *BOMRepo) AddComponent(ctx context.Context, component *entity.BOMComponent) error {
	if component.ID == "" {
		component.ID = uuid.New().String()
	}
	query := `
		INSERT INTO bom_components (id, tenant_id, parent_item_id, component_item_id, qty_required, created_at)
		VALUES ($1, $2, $3, $4, $5, now())`
	_, err := r.q.Exec(ctx, query,
		component.ID, component.TenantID, component.ParentItemID, component.ComponentItemID, component.QtyRequired,
	)
	if err != nil {
		return wrapPgErr("add bom component", err)
	}
	return nil
}

// RemoveComponent elimina una línea de la BOM.
func (r *BOMRepo) RemoveComponent(ctx context.Context, tenantID, parentItemID, componentItemID string) error {
	query := `
		DELETE FROM bom_components
		WHERE tenant_id = $1 AND parent_item_id = $2 AND component_item_id = $3`
	tag, err := r.q.Exec(ctx, query, tenantID, parentItemID, componentItemID)
	if err != nil {
		return wrapPgErr("remove bom component", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("remove bom component: %w", domain.ErrNotFound)
	}
	return nil
}
