package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, tenant_id, sku, name, quantity, reorder_point, status, created_at, updated_at`

// GetByID obtiene un artículo; ErrNotFound si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE tenant_id = $1 AND id = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, tenantID, id), "get item")
}

// GetForUpdate obtiene el artículo y bloquea la fila (SELECT FOR UPDATE)
// para serializar la reconciliación frente a escritores concurrentes.
func (r *ItemRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, tenantID, id), "get item for update")
}

// UpdateQuantityStatus persiste el total reconciliado y el estado derivado.
// Única vía de escritura del total denormalizado.
func (r *ItemRepo) UpdateQuantityStatus(ctx context.Context, tenantID, id string, quantity decimal.Decimal, status string) error {
	update := `
		UPDATE inventory_items
		SET quantity = $3, status = $4, updated_at = now()
		WHERE tenant_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, update, tenantID, id, quantity, status)
	if err != nil {
		return wrapPgErr("update item quantity/status", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update item %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListBelowReorderPoint devuelve artículos bajo su punto de reorden,
// mayor déficit primero.
func (r *ItemRepo) ListBelowReorderPoint(ctx context.Context, tenantID string, limit int) ([]*entity.InventoryItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE tenant_id = $1 AND quantity < reorder_point
		ORDER BY (reorder_point - quantity) DESC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, tenantID, limit)
	if err != nil {
		return nil, wrapPgErr("list items below reorder point", err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		var it entity.InventoryItem
		if err := rows.Scan(&it.ID, &it.TenantID, &it.SKU, &it.Name, &it.Quantity, &it.ReorderPoint, &it.Status, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

func (r *ItemRepo) scanOne(row pgx.Row, op string) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := row.Scan(&it.ID, &it.TenantID, &it.SKU, &it.Name, &it.Quantity, &it.ReorderPoint, &it.Status, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return nil, wrapPgErr(op, err)
	}
	return &it, nil
}
