package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación de LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// GetByID obtiene una ubicación; ErrNotFound si no existe.
func (r *LocationRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Location, error) {
	query := `
		SELECT id, tenant_id, name, code, created_at
		FROM locations WHERE tenant_id = $1 AND id = $2`
	var l entity.Location
	err := r.q.QueryRow(ctx, query, tenantID, id).Scan(&l.ID, &l.TenantID, &l.Name, &l.Code, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get location: %w", domain.ErrNotFound)
		}
		return nil, wrapPgErr("get location", err)
	}
	return &l, nil
}
