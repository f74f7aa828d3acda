package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// DeriveStatus implementa la regla de estado de stock (servicio de dominio).
// Se evalúa siempre contra el total reconciliado desde las filas de ubicación:
//
//	total <= 0            -> out_of_stock
//	0 < total <= reorden  -> low_stock
//	total > reorden       -> in_stock
func DeriveStatus(total, reorderPoint decimal.Decimal) string {
	if total.LessThanOrEqual(decimal.Zero) {
		return entity.StatusOutOfStock
	}
	if total.LessThanOrEqual(reorderPoint) {
		return entity.StatusLowStock
	}
	return entity.StatusInStock
}
