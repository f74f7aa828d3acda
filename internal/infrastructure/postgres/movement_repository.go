package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del diario de movimientos sobre PostgreSQL
// (usable con pool o tx). Solo INSERT y SELECT: el diario es append-only.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, tenant_id, item_id, type, quantity, from_location_id, to_location_id, lot_id, reference_number, notes, actor_id, created_at`

// Create persiste una entrada del diario.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (id, tenant_id, item_id, type, quantity, from_location_id, to_location_id, lot_id, reference_number, notes, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.TenantID, movement.ItemID, movement.Type, movement.Quantity,
		nullable(movement.FromLocationID), nullable(movement.ToLocationID), nullable(movement.LotID),
		nullable(movement.ReferenceNumber), nullable(movement.Notes), nullable(movement.ActorID),
		movement.CreatedAt,
	)
	if err != nil {
		return wrapPgErr("create movement", err)
	}
	return nil
}

// GetByID obtiene una entrada del diario; ErrNotFound si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE tenant_id = $1 AND id = $2`
	m, err := scanMovement(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get movement: %w", domain.ErrNotFound)
		}
		return nil, wrapPgErr("get movement", err)
	}
	return m, nil
}

// ListByItemAsc devuelve los movimientos de un artículo en orden cronológico
// ascendente (desempate por id), para reconstruir el saldo acumulado.
func (r *MovementRepo) ListByItemAsc(ctx context.Context, tenantID, itemID string, from, to *time.Time) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE tenant_id = $1 AND item_id = $2`
	args := []any{tenantID, itemID}
	pos := 3
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += " ORDER BY created_at ASC, id ASC"
	return r.list(ctx, query, args, "list movements asc")
}

// ListByItem lista paginado en orden descendente (historial).
func (r *MovementRepo) ListByItem(ctx context.Context, tenantID, itemID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE tenant_id = $1 AND item_id = $2`
	args := []any{tenantID, itemID}
	pos := 3
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)
	return r.list(ctx, query, args, "list movements")
}

func (r *MovementRepo) list(ctx context.Context, query string, args []any, op string) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapPgErr(op, err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var fromLoc, toLoc, lotID, ref, notes, actor *string
	err := row.Scan(
		&m.ID, &m.TenantID, &m.ItemID, &m.Type, &m.Quantity,
		&fromLoc, &toLoc, &lotID, &ref, &notes, &actor, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.FromLocationID = deref(fromLoc)
	m.ToLocationID = deref(toLoc)
	m.LotID = deref(lotID)
	m.ReferenceNumber = deref(ref)
	m.Notes = deref(notes)
	m.ActorID = deref(actor)
	return &m, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
