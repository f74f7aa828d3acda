package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ErrorResponse cuerpo de error estándar de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RegisterMovementRequest body para POST /api/inventory/movements.
// Quantity va con signo: positiva entradas, negativa salidas.
type RegisterMovementRequest struct {
	ItemID          string          `json:"item_id"`
	Type            string          `json:"type"`
	Quantity        decimal.Decimal `json:"quantity"`
	FromLocationID  string          `json:"from_location_id,omitempty"`
	ToLocationID    string          `json:"to_location_id,omitempty"`
	LotID           string          `json:"lot_id,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// MovementResponse representa un movimiento confirmado del diario.
type MovementResponse struct {
	ID              string          `json:"id"`
	ItemID          string          `json:"item_id"`
	Type            string          `json:"type"`
	Quantity        decimal.Decimal `json:"quantity"`
	FromLocationID  string          `json:"from_location_id,omitempty"`
	ToLocationID    string          `json:"to_location_id,omitempty"`
	LotID           string          `json:"lot_id,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// BalanceEntryDTO un movimiento con su saldo acumulado.
type BalanceEntryDTO struct {
	Movement MovementResponse `json:"movement"`
	Balance  decimal.Decimal  `json:"balance"`
}

// BuildRequest body para POST /api/assembly/{build,unbuild}.
type BuildRequest struct {
	ParentItemID    string          `json:"parent_item_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	LocationID      string          `json:"location_id"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
}

// ComponentDeltaDTO delta aplicado a un componente en build/unbuild.
type ComponentDeltaDTO struct {
	ComponentItemID string          `json:"component_item_id"`
	Delta           decimal.Decimal `json:"delta"`
}

// BuildResponse resultado de un build/unbuild confirmado.
type BuildResponse struct {
	ParentItemID    string              `json:"parent_item_id"`
	ParentDelta     decimal.Decimal     `json:"parent_delta"`
	ComponentDeltas []ComponentDeltaDTO `json:"component_deltas"`
	ReferenceNumber string              `json:"reference_number"`
}

// AvailabilityComponentDTO desglose por componente de la disponibilidad.
type AvailabilityComponentDTO struct {
	ComponentItemID  string          `json:"component_item_id"`
	QtyRequired      decimal.Decimal `json:"qty_required"`
	Available        decimal.Decimal `json:"available"`
	MaxFromComponent decimal.Decimal `json:"max_from_component"`
	Limiting         bool            `json:"limiting"`
}

// AvailabilityResponse resultado de GET /api/assembly/:itemId/availability.
type AvailabilityResponse struct {
	ParentItemID string                     `json:"parent_item_id"`
	MaxBuildable decimal.Decimal            `json:"max_buildable"`
	PerComponent []AvailabilityComponentDTO `json:"per_component"`
}

// ReorderSuggestionDTO artículo bajo punto de reorden con su consumo reciente.
type ReorderSuggestionDTO struct {
	ItemID            string          `json:"item_id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	CurrentQuantity   decimal.Decimal `json:"current_quantity"`
	ReorderPoint      decimal.Decimal `json:"reorder_point"`
	Deficit           decimal.Decimal `json:"deficit"`
	ConsumedLast30Day decimal.Decimal `json:"consumed_last_30d"`
}
