package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot representa un lote o serie rastreada de un artículo, opcionalmente
// anclado a una ubicación. LotNumber es único por tenant. La creación del
// lote es responsabilidad del flujo de recepción (colaborador externo);
// el ledger solo lo muta.
type Lot struct {
	ID            string
	TenantID      string
	ItemID        string
	LotNumber     string
	Quantity      decimal.Decimal
	LocationID    string // vacío = sin ubicación fija
	ManufactureAt *time.Time
	ExpiresAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
