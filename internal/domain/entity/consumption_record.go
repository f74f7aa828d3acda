package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fuentes de consumo para el histórico diario.
const (
	ConsumptionSourceSalesOrder = "sales_order"
	ConsumptionSourceWorkOrder  = "work_order"
	ConsumptionSourceAdjustment = "adjustment"
	ConsumptionSourceTransfer   = "transfer"
	ConsumptionSourceOther      = "other"
)

// ConsumptionRecord acumula la magnitud de salidas de un artículo en un día.
// Clave (TenantID, ItemID, Date): varias salidas el mismo día se suman en la
// misma fila (upsert aditivo), no una fila por movimiento.
type ConsumptionRecord struct {
	TenantID  string
	ItemID    string
	Date      time.Time // truncada a día, UTC
	Quantity  decimal.Decimal
	Source    string
	UpdatedAt time.Time
}
