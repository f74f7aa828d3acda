package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrConcurrency       = errors.New("conflicto de concurrencia, reintentar")
)

// ValidationError indica un movimiento mal formado; Field señala el campo ofensor.
// Unwrap devuelve ErrInvalidInput para que errors.Is siga funcionando.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("movimiento inválido: campo %q: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// InsufficientStockError indica que una fila de stock o de lote quedaría negativa.
// Available reporta la cantidad disponible al momento del chequeo (bajo lock).
type InsufficientStockError struct {
	ItemID     string
	LocationID string
	LotID      string
	Requested  decimal.Decimal
	Available  decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	if e.LotID != "" {
		return fmt.Sprintf("stock insuficiente en lote %s: solicitado %s, disponible %s",
			e.LotID, e.Requested, e.Available)
	}
	return fmt.Sprintf("stock insuficiente de %s en ubicación %s: solicitado %s, disponible %s",
		e.ItemID, e.LocationID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
