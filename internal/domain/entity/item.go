package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de stock de un artículo, derivados del total reconciliado.
const (
	StatusInStock    = "in_stock"
	StatusLowStock   = "low_stock"
	StatusOutOfStock = "out_of_stock"
)

// InventoryItem representa un artículo o SKU del inventario (multi-ubicación).
// Quantity es el total denormalizado, derivado de LocationQuantity; solo lo
// escribe el derivador de estado tras un cambio de ledger, nunca la lógica
// de movimientos directamente.
type InventoryItem struct {
	ID           string
	TenantID     string
	SKU          string // código único por tenant
	Name         string
	Quantity     decimal.Decimal
	ReorderPoint decimal.Decimal
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
