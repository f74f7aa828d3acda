package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor del
// ledger: o se confirma todo (filas de ubicación, lote, diario, consumo,
// estado del artículo) o no se confirma nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		locRepo repository.LocationQuantityRepository,
		lotRepo repository.LotRepository,
		itemRepo repository.ItemRepository,
		consumptionRepo repository.ConsumptionRepository,
	) error) error
}

// AuditEntry es la notificación post-commit que recibe el log de auditoría.
type AuditEntry struct {
	MovementType    string
	ItemID          string
	QuantityChange  decimal.Decimal
	OldQuantity     decimal.Decimal
	NewQuantity     decimal.Decimal
	FromLocationID  string
	ToLocationID    string
	ReferenceNumber string
}

// AuditLogger recibe la notificación después del commit. Un fallo al
// auditar nunca revierte la transacción del ledger: la implementación
// registra el error y continúa.
type AuditLogger interface {
	MovementCommitted(ctx context.Context, tenantID string, entry AuditEntry)
}
