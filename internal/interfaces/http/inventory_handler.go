package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP del motor de movimientos.
type InventoryHandler struct {
	movements *inventory.RegisterMovementUseCase
	balance   *inventory.RunningBalanceUseCase
	reorder   *inventory.ReorderUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	movements *inventory.RegisterMovementUseCase,
	balance *inventory.RunningBalanceUseCase,
	reorder *inventory.ReorderUseCase,
) *InventoryHandler {
	return &InventoryHandler{movements: movements, balance: balance, reorder: reorder}
}

// RegisterMovement registra un movimiento de inventario (receive, ship,
// transfer, adjust, count) y devuelve la entrada confirmada del diario.
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.movements.RegisterMovement(c.Context(), inventory.MovementInput{
		TenantID:        GetTenantID(c),
		ActorID:         GetActorID(c),
		ItemID:          in.ItemID,
		Type:            in.Type,
		Quantity:        in.Quantity,
		FromLocationID:  in.FromLocationID,
		ToLocationID:    in.ToLocationID,
		LotID:           in.LotID,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// GetRunningBalance devuelve los movimientos de un artículo en orden
// cronológico con el saldo acumulado.
func (h *InventoryHandler) GetRunningBalance(c *fiber.Ctx) error {
	itemID := c.Params("itemId")
	filter := inventory.BalanceFilter{}
	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		filter.To = &to
	}
	entries, err := h.balance.GetRunningBalance(c.Context(), GetTenantID(c), itemID, filter)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.BalanceEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.BalanceEntryDTO{Movement: toMovementResponse(e.Movement), Balance: e.Balance})
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// GetReorderList devuelve los artículos bajo punto de reorden con su consumo
// reciente (insumo de reposición/pronóstico).
func (h *InventoryHandler) GetReorderList(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	list, err := h.reorder.GenerateReorderList(c.Context(), GetTenantID(c), limit)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ReorderSuggestionDTO, 0, len(list))
	for _, s := range list {
		out = append(out, dto.ReorderSuggestionDTO{
			ItemID:            s.ItemID,
			SKU:               s.SKU,
			Name:              s.Name,
			CurrentQuantity:   s.CurrentQuantity,
			ReorderPoint:      s.ReorderPoint,
			Deficit:           s.Deficit,
			ConsumedLast30Day: s.ConsumedLast30Day,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "suggestions": out})
}

// GetConsumptionHistory devuelve el consumo diario de un artículo en un rango.
func (h *InventoryHandler) GetConsumptionHistory(c *fiber.Ctx) error {
	itemID := c.Params("itemId")
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -90)
	if v, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		from = v
	}
	if v, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		to = v
	}
	records, err := h.reorder.GetConsumptionHistory(c.Context(), GetTenantID(c), itemID, from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(records), "consumption": records})
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:              m.ID,
		ItemID:          m.ItemID,
		Type:            m.Type,
		Quantity:        m.Quantity,
		FromLocationID:  m.FromLocationID,
		ToLocationID:    m.ToLocationID,
		LotID:           m.LotID,
		ReferenceNumber: m.ReferenceNumber,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
	}
}
