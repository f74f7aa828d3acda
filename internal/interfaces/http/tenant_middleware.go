package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

// Claves en locals del contexto fiber.
const (
	localTenantID = "tenant_id"
	localActorID  = "actor_id"
)

// TenantMiddleware lee el contexto de tenant que inyecta el gateway externo
// (resolución de tenant y RLS son colaboradores externos: aquí solo se exige
// su presencia). X-Actor-ID es opcional.
func TenantMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID := c.Get("X-Tenant-ID")
		if tenantID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "NO_TENANT", Message: "falta contexto de tenant"})
		}
		c.Locals(localTenantID, tenantID)
		c.Locals(localActorID, c.Get("X-Actor-ID"))
		return c.Next()
	}
}

// GetTenantID devuelve el tenant del request.
func GetTenantID(c *fiber.Ctx) string {
	if v, ok := c.Locals(localTenantID).(string); ok {
		return v
	}
	return ""
}

// GetActorID devuelve el actor del request (puede ser vacío).
func GetActorID(c *fiber.Ctx) string {
	if v, ok := c.Locals(localActorID).(string); ok {
		return v
	}
	return ""
}
