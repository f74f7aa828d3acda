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

var _ repository.LocationQuantityRepository = (*LocationQuantityRepo)(nil)

// LocationQuantityRepo implementación del ledger por ubicación sobre
// PostgreSQL (usable con pool o tx).
type LocationQuantityRepo struct {
	q Querier
}

// NewLocationQuantityRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationQuantityRepository(q Querier) *LocationQuantityRepo {
	return &LocationQuantityRepo{q: q}
}

// Get obtiene la fila (item, ubicación); cantidad cero si aún no existe.
func (r *LocationQuantityRepo) Get(ctx context.Context, tenantID, itemID, locationID string) (*entity.LocationQuantity, error) {
	query := `
		SELECT tenant_id, item_id, location_id, quantity, updated_at
		FROM location_quantities
		WHERE tenant_id = $1 AND item_id = $2 AND location_id = $3`
	var lq entity.LocationQuantity
	err := r.q.QueryRow(ctx, query, tenantID, itemID, locationID).Scan(
		&lq.TenantID, &lq.ItemID, &lq.LocationID, &lq.Quantity, &lq.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.LocationQuantity{TenantID: tenantID, ItemID: itemID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, wrapPgErr("get location quantity", err)
	}
	return &lq, nil
}

// GetOrCreateForUpdate materializa la fila en cero si no existe (upsert sobre
// el constraint único) y la bloquea con SELECT FOR UPDATE.
func (r *LocationQuantityRepo) GetOrCreateForUpdate(ctx context.Context, tenantID, itemID, locationID string) (*entity.LocationQuantity, error) {
	insert := `
		INSERT INTO location_quantities (tenant_id, item_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, 0, now())
		ON CONFLICT (tenant_id, item_id, location_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, tenantID, itemID, locationID); err != nil {
		return nil, wrapPgErr("materialize location quantity", err)
	}

	query := `
		SELECT tenant_id, item_id, location_id, quantity, updated_at
		FROM location_quantities
		WHERE tenant_id = $1 AND item_id = $2 AND location_id = $3
		FOR UPDATE`
	var lq entity.LocationQuantity
	err := r.q.QueryRow(ctx, query, tenantID, itemID, locationID).Scan(
		&lq.TenantID, &lq.ItemID, &lq.LocationID, &lq.Quantity, &lq.UpdatedAt,
	)
	if err != nil {
		return nil, wrapPgErr("get location quantity for update", err)
	}
	return &lq, nil
}

// ApplyDelta suma delta bajo lock de fila. Un resultado negativo falla con
// InsufficientStockError reportando lo disponible, sin escribir nada.
func (r *LocationQuantityRepo) ApplyDelta(ctx context.Context, tenantID, itemID, locationID string, delta decimal.Decimal) (*entity.LocationQuantity, error) {
	lq, err := r.GetOrCreateForUpdate(ctx, tenantID, itemID, locationID)
	if err != nil {
		return nil, err
	}
	newQty := lq.Quantity.Add(delta)
	if newQty.IsNegative() {
		return nil, &domain.InsufficientStockError{
			ItemID:     itemID,
			LocationID: locationID,
			Requested:  delta.Abs(),
			Available:  lq.Quantity,
		}
	}

	update := `
		UPDATE location_quantities
		SET quantity = $4, updated_at = now()
		WHERE tenant_id = $1 AND item_id = $2 AND location_id = $3`
	if _, err := r.q.Exec(ctx, update, tenantID, itemID, locationID, newQty); err != nil {
		return nil, wrapPgErr("apply location delta", err)
	}
	lq.Quantity = newQty
	return lq, nil
}

// SumByItem reconcilia el total del artículo sumando todas sus filas.
func (r *LocationQuantityRepo) SumByItem(ctx context.Context, tenantID, itemID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM location_quantities
		WHERE tenant_id = $1 AND item_id = $2`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, tenantID, itemID).Scan(&total); err != nil {
		return decimal.Zero, wrapPgErr("sum location quantities", err)
	}
	return total, nil
}

// ListByItem lista las filas de un artículo (incluye las que quedaron en cero:
// nunca se borran).
func (r *LocationQuantityRepo) ListByItem(ctx context.Context, tenantID, itemID string) ([]*entity.LocationQuantity, error) {
	query := `
		SELECT tenant_id, item_id, location_id, quantity, updated_at
		FROM location_quantities
		WHERE tenant_id = $1 AND item_id = $2
		ORDER BY location_id`
	rows, err := r.q.Query(ctx, query, tenantID, itemID)
	if err != nil {
		return nil, wrapPgErr("list location quantities", err)
	}
	defer rows.Close()
	var list []*entity.LocationQuantity
	for rows.Next() {
		var lq entity.LocationQuantity
		if err := rows.Scan(&lq.TenantID, &lq.ItemID, &lq.LocationID, &lq.Quantity, &lq.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location quantity: %w", err)
		}
		list = append(list, &lq)
	}
	return list, rows.Err()
}
