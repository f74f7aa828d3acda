package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ConsumptionRepository = (*ConsumptionRepo)(nil)

// ConsumptionRepo implementación del histórico diario de consumo sobre
// PostgreSQL (usable con pool o tx).
type ConsumptionRepo struct {
	q Querier
}

// NewConsumptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConsumptionRepository(q Querier) *ConsumptionRepo {
	return &ConsumptionRepo{q: q}
}

// UpsertAdd acumula la cantidad sobre la fila (tenant, item, fecha): agregado
// acumulativo del día, no una fila por movimiento. El source de la primera
// salida del día se conserva.
func (r *ConsumptionRepo) UpsertAdd(ctx context.Context, record *entity.ConsumptionRecord) error {
	query := `
		INSERT INTO consumption_records (tenant_id, item_id, date, quantity, source, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (tenant_id, item_id, date)
		DO UPDATE SET quantity = consumption_records.quantity + EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		record.TenantID, record.ItemID, record.Date, record.Quantity, record.Source,
	)
	if err != nil {
		return wrapPgErr("upsert consumption", err)
	}
	return nil
}

// Get obtiene el acumulado de un día; ErrNotFound si no hubo salidas.
func (r *ConsumptionRepo) Get(ctx context.Context, tenantID, itemID string, date time.Time) (*entity.ConsumptionRecord, error) {
	query := `
		SELECT tenant_id, item_id, date, quantity, source, updated_at
		FROM consumption_records
		WHERE tenant_id = $1 AND item_id = $2 AND date = $3`
	var c entity.ConsumptionRecord
	err := r.q.QueryRow(ctx, query, tenantID, itemID, date).Scan(
		&c.TenantID, &c.ItemID, &c.Date, &c.Quantity, &c.Source, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get consumption: %w", domain.ErrNotFound)
		}
		return nil, wrapPgErr("get consumption", err)
	}
	return &c, nil
}

// ListByItemRange devuelve el consumo diario de un artículo en un rango de
// fechas, en orden cronológico.
func (r *ConsumptionRepo) ListByItemRange(ctx context.Context, tenantID, itemID string, from, to time.Time) ([]*entity.ConsumptionRecord, error) {
	query := `
		SELECT tenant_id, item_id, date, quantity, source, updated_at
		FROM consumption_records
		WHERE tenant_id = $1 AND item_id = $2 AND date >= $3 AND date <= $4
		ORDER BY date ASC`
	rows, err := r.q.Query(ctx, query, tenantID, itemID, from, to)
	if err != nil {
		return nil, wrapPgErr("list consumption", err)
	}
	defer rows.Close()
	var list []*entity.ConsumptionRecord
	for rows.Next() {
		var c entity.ConsumptionRecord
		if err := rows.Scan(&c.TenantID, &c.ItemID, &c.Date, &c.Quantity, &c.Source, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan consumption: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
