package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación del ledger por lote sobre PostgreSQL (usable con pool o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, tenant_id, item_id, lot_number, quantity, location_id, manufacture_at, expires_at, created_at, updated_at`

// Create inserta un lote nuevo; lot_number duplicado por tenant -> ErrDuplicate.
func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	if lot.ID == "" {
		lot.ID = uuid.New().String()
	}
	locationID := (*string)(nil)
	if lot.LocationID != "" {
		locationID = &lot.LocationID
	}
	query := `
		INSERT INTO lots (id, tenant_id, item_id, lot_number, quantity, location_id, manufacture_at, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`
	_, err := r.q.Exec(ctx, query,
		lot.ID, lot.TenantID, lot.ItemID, lot.LotNumber, lot.Quantity,
		locationID, lot.ManufactureAt, lot.ExpiresAt,
	)
	if err != nil {
		return wrapPgErr("create lot", err)
	}
	return nil
}

// GetByID obtiene un lote; ErrNotFound si no existe.
func (r *LotRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE tenant_id = $1 AND id = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, tenantID, id), "get lot")
}

// GetByNumber obtiene un lote por su número (único por tenant).
func (r *LotRepo) GetByNumber(ctx context.Context, tenantID, lotNumber string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE tenant_id = $1 AND lot_number = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, tenantID, lotNumber), "get lot by number")
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
// La creación del lote es del flujo de recepción: aquí no se materializa nada.
func (r *LotRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE tenant_id = $1 AND id = $2 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, tenantID, id), "get lot for update")
}

// ApplyDelta suma delta bajo lock; resultado negativo falla con
// InsufficientStockError sin escribir nada.
func (r *LotRepo) ApplyDelta(ctx context.Context, tenantID, id string, delta decimal.Decimal) (*entity.Lot, error) {
	lot, err := r.GetForUpdate(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	newQty := lot.Quantity.Add(delta)
	if newQty.IsNegative() {
		return nil, &domain.InsufficientStockError{
			ItemID:    lot.ItemID,
			LotID:     id,
			Requested: delta.Abs(),
			Available: lot.Quantity,
		}
	}
	update := `UPDATE lots SET quantity = $3, updated_at = now() WHERE tenant_id = $1 AND id = $2`
	if _, err := r.q.Exec(ctx, update, tenantID, id, newQty); err != nil {
		return nil, wrapPgErr("apply lot delta", err)
	}
	lot.Quantity = newQty
	return lot, nil
}

// Relocate mueve el lote a otra ubicación (paso final de un traslado).
func (r *LotRepo) Relocate(ctx context.Context, tenantID, id, locationID string) error {
	update := `UPDATE lots SET location_id = $3, updated_at = now() WHERE tenant_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, update, tenantID, id, locationID)
	if err != nil {
		return wrapPgErr("relocate lot", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("relocate lot %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *LotRepo) scanOne(row pgx.Row, op string) (*entity.Lot, error) {
	var l entity.Lot
	var locationID *string
	err := row.Scan(
		&l.ID, &l.TenantID, &l.ItemID, &l.LotNumber, &l.Quantity,
		&locationID, &l.ManufactureAt, &l.ExpiresAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return nil, wrapPgErr(op, err)
	}
	if locationID != nil {
		l.LocationID = *locationID
	}
	return &l, nil
}
