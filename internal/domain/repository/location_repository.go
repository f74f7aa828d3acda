package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// LocationRepository define el puerto de lectura de ubicaciones (existencia).
type LocationRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (*entity.Location, error)
}
