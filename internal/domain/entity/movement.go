package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeReceive  = "receive"  // entrada
	MovementTypeShip     = "ship"     // salida
	MovementTypeTransfer = "transfer" // traslado entre ubicaciones
	MovementTypeAdjust   = "adjust"   // ajuste
	MovementTypeCount    = "count"    // conteo cíclico
)

// Movement representa una entrada inmutable del diario de movimientos.
// Una vez confirmada nunca se edita ni se borra; las correcciones se hacen
// con nuevos movimientos de tipo adjust.
type Movement struct {
	ID              string
	TenantID        string
	ItemID          string
	Type            string
	Quantity        decimal.Decimal // con signo: positivo entrada, negativo salida
	FromLocationID  string          // vacío si no aplica
	ToLocationID    string          // vacío si no aplica
	LotID           string          // vacío si el movimiento no toca lote
	ReferenceNumber string
	Notes           string
	ActorID         string
	CreatedAt       time.Time
}

// IsTransfer indica si el movimiento es un traslado (dos ubicaciones,
// efecto neto cero sobre el total del artículo).
func (m *Movement) IsTransfer() bool { return m.Type == MovementTypeTransfer }
