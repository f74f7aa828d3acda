package audit

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

var _ inventory.AuditLogger = (*Logger)(nil)

// Logger adaptador de auditoría sobre zerolog. Recibe la notificación
// post-commit de cada movimiento: si el evento no puede registrarse, el
// ledger ya quedó confirmado y nada se revierte.
type Logger struct {
	log *logger.Logger
}

// New construye el adaptador.
func New(log *logger.Logger) *Logger {
	return &Logger{log: log}
}

// MovementCommitted registra el movimiento confirmado con el antes/después
// del total del artículo.
func (a *Logger) MovementCommitted(ctx context.Context, tenantID string, e inventory.AuditEntry) {
	a.log.Info().
		Str("tenant_id", tenantID).
		Str("movement_type", e.MovementType).
		Str("item_id", e.ItemID).
		Str("quantity_change", e.QuantityChange.String()).
		Str("old_quantity", e.OldQuantity.String()).
		Str("new_quantity", e.NewQuantity.String()).
		Str("from_location", e.FromLocationID).
		Str("to_location", e.ToLocationID).
		Str("reference", e.ReferenceNumber).
		Msg("movimiento confirmado")
}
