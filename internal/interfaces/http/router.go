package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/assembly"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegisterMovement *inventory.RegisterMovementUseCase
	RunningBalance   *inventory.RunningBalanceUseCase
	Reorder          *inventory.ReorderUseCase
	Assembly         *assembly.UseCase
}

// Router registra las rutas de la API. Todas exigen contexto de tenant
// (lo inyecta el gateway externo vía X-Tenant-ID).
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", TenantMiddleware())

	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.RunningBalance, deps.Reorder)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/items/:itemId/balance", inventoryHandler.GetRunningBalance)
	invGroup.Get("/items/:itemId/consumption", inventoryHandler.GetConsumptionHistory)
	invGroup.Get("/reorder-list", inventoryHandler.GetReorderList)

	asmGroup := api.Group("/assembly")
	assemblyHandler := NewAssemblyHandler(deps.Assembly)
	asmGroup.Get("/:itemId/availability", assemblyHandler.GetAvailability)
	asmGroup.Post("/build", assemblyHandler.Build)
	asmGroup.Post("/unbuild", assemblyHandler.Unbuild)
}
