package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LocationQuantity representa el stock actual de un artículo en una ubicación.
// Clave (TenantID, ItemID, LocationID); Quantity nunca es negativa. La fila se
// crea de forma perezosa en la primera referencia y no se borra al llegar a
// cero, para mantener simple la auditoría.
type LocationQuantity struct {
	TenantID   string
	ItemID     string
	LocationID string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}
