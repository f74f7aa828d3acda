package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BOMComponent representa una línea de la lista de materiales: el componente
// y la cantidad requerida para ensamblar una unidad del artículo padre.
// El par (ParentItemID, ComponentItemID) es único por tenant.
type BOMComponent struct {
	ID              string
	TenantID        string
	ParentItemID    string
	ComponentItemID string
	QtyRequired     decimal.Decimal // > 0
	CreatedAt       time.Time
}
