package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ComponentAvailability detalla cuántos ensambles permite un componente.
type ComponentAvailability struct {
	ComponentItemID  string
	QtyRequired      decimal.Decimal
	Available        decimal.Decimal
	MaxFromComponent decimal.Decimal // floor(Available / QtyRequired)
	Limiting         bool            // componente con la menor razón
}

// MaxBuildable calcula el máximo de unidades ensamblables del padre:
// min(floor(disponible_c / requerido_c)) sobre todos los componentes.
// Una BOM vacía permite cero ensambles. available entrega el stock
// disponible por componente (normalmente el total del artículo).
func MaxBuildable(components []*entity.BOMComponent, available map[string]decimal.Decimal) (decimal.Decimal, []ComponentAvailability) {
	if len(components) == 0 {
		return decimal.Zero, nil
	}

	perComponent := make([]ComponentAvailability, 0, len(components))
	min := decimal.Zero
	minIdx := -1
	for i, c := range components {
		avail := available[c.ComponentItemID]
		maxFrom := decimal.Zero
		if c.QtyRequired.GreaterThan(decimal.Zero) {
			maxFrom = avail.Div(c.QtyRequired).Floor()
		}
		perComponent = append(perComponent, ComponentAvailability{
			ComponentItemID:  c.ComponentItemID,
			QtyRequired:      c.QtyRequired,
			Available:        avail,
			MaxFromComponent: maxFrom,
		})
		if minIdx == -1 || maxFrom.LessThan(min) {
			min = maxFrom
			minIdx = i
		}
	}
	perComponent[minIdx].Limiting = true
	return min, perComponent
}
