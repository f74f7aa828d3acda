package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/assembly"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

// AssemblyHandler maneja las peticiones HTTP de build/unbuild de BOM.
type AssemblyHandler struct {
	uc *assembly.UseCase
}

// NewAssemblyHandler construye el handler.
func NewAssemblyHandler(uc *assembly.UseCase) *AssemblyHandler {
	return &AssemblyHandler{uc: uc}
}

// GetAvailability devuelve cuántas unidades del padre se pueden ensamblar y
// el desglose por componente con el limitante marcado.
func (h *AssemblyHandler) GetAvailability(c *fiber.Ctx) error {
	avail, err := h.uc.CalculateAvailability(c.Context(), GetTenantID(c), c.Params("itemId"))
	if err != nil {
		return respondError(c, err)
	}
	out := dto.AvailabilityResponse{
		ParentItemID: avail.ParentItemID,
		MaxBuildable: avail.MaxBuildable,
		PerComponent: make([]dto.AvailabilityComponentDTO, 0, len(avail.PerComponent)),
	}
	for _, pc := range avail.PerComponent {
		out.PerComponent = append(out.PerComponent, dto.AvailabilityComponentDTO{
			ComponentItemID:  pc.ComponentItemID,
			QtyRequired:      pc.QtyRequired,
			Available:        pc.Available,
			MaxFromComponent: pc.MaxFromComponent,
			Limiting:         pc.Limiting,
		})
	}
	return c.JSON(out)
}

// Build ensambla unidades del padre consumiendo sus componentes.
func (h *AssemblyHandler) Build(c *fiber.Ctx) error {
	return h.run(c, false)
}

// Unbuild desarma unidades del padre devolviendo sus componentes.
func (h *AssemblyHandler) Unbuild(c *fiber.Ctx) error {
	return h.run(c, true)
}

func (h *AssemblyHandler) run(c *fiber.Ctx, unbuild bool) error {
	var in dto.BuildRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := assembly.BuildInput{
		TenantID:        GetTenantID(c),
		ActorID:         GetActorID(c),
		ParentItemID:    in.ParentItemID,
		Quantity:        in.Quantity,
		LocationID:      in.LocationID,
		ReferenceNumber: in.ReferenceNumber,
	}
	var result *assembly.BuildResult
	var err error
	if unbuild {
		result, err = h.uc.Unbuild(c.Context(), input)
	} else {
		result, err = h.uc.Build(c.Context(), input)
	}
	if err != nil {
		return respondError(c, err)
	}
	out := dto.BuildResponse{
		ParentItemID:    result.ParentItemID,
		ParentDelta:     result.ParentDelta,
		ReferenceNumber: result.ReferenceNumber,
		ComponentDeltas: make([]dto.ComponentDeltaDTO, 0, len(result.ComponentDeltas)),
	}
	for _, cd := range result.ComponentDeltas {
		out.ComponentDeltas = append(out.ComponentDeltas, dto.ComponentDeltaDTO{
			ComponentItemID: cd.ComponentItemID,
			Delta:           cd.Delta,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
