package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ValidateMovement aplica las precondiciones de forma por tipo de movimiento.
// Es puro y sin estado: se evalúa antes de tocar cualquier fila, y un fallo
// devuelve ValidationError con el campo ofensor.
func ValidateMovement(in MovementInput) error {
	if in.Quantity.IsZero() {
		return &domain.ValidationError{Field: "quantity", Reason: "debe ser distinta de cero"}
	}

	switch in.Type {
	case entity.MovementTypeTransfer:
		if in.FromLocationID == "" {
			return &domain.ValidationError{Field: "from_location_id", Reason: "requerido para transfer"}
		}
		if in.ToLocationID == "" {
			return &domain.ValidationError{Field: "to_location_id", Reason: "requerido para transfer"}
		}
		// La dirección es implícita (origen -> destino): la cantidad debe ser positiva.
		if !in.Quantity.GreaterThan(decimal.Zero) {
			return &domain.ValidationError{Field: "quantity", Reason: "debe ser positiva en transfer"}
		}
	case entity.MovementTypeReceive, entity.MovementTypeCount:
		if in.ToLocationID == "" {
			return &domain.ValidationError{Field: "to_location_id", Reason: "requerido para " + in.Type}
		}
	case entity.MovementTypeShip:
		if in.FromLocationID == "" {
			return &domain.ValidationError{Field: "from_location_id", Reason: "requerido para ship"}
		}
	case entity.MovementTypeAdjust:
		if in.Quantity.GreaterThan(decimal.Zero) && in.ToLocationID == "" {
			return &domain.ValidationError{Field: "to_location_id", Reason: "requerido para adjust positivo"}
		}
		if in.Quantity.LessThan(decimal.Zero) && in.FromLocationID == "" {
			return &domain.ValidationError{Field: "from_location_id", Reason: "requerido para adjust negativo"}
		}
	default:
		return &domain.ValidationError{Field: "type", Reason: "tipo de movimiento desconocido"}
	}
	return nil
}
