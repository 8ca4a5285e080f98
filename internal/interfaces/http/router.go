package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/instock-api/internal/application/auth"
	"github.com/jhoicas/instock-api/internal/domain/entity"
)

// Pinger comprueba la disponibilidad de la base de datos.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Guard         *auth.Guard
	AuthUC        AuthService
	UserUC        UserService
	ProductUC     ProductService
	Ledger        LedgerService
	Replenishment ReplenishmentService
	DB            Pinger
}

// Router registra las rutas de la API bajo /api.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC)
	userHandler := NewUserHandler(deps.UserUC)
	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Replenishment)

	// Públicas
	api.Post("/auth/login", authHandler.Login)
	api.Get("/status", statusHandler(deps.DB))

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.Guard))

	supervisor := RequireRole(entity.RoleSupervisor)
	anyRole := RequireRole(entity.Roles()...)

	users := protected.Group("/users")
	users.Get("/me", anyRole, authHandler.Me)
	users.Get("/", supervisor, userHandler.List)
	users.Post("/", supervisor, userHandler.Create)
	users.Get("/:id", anyRole, userHandler.GetByID)
	users.Put("/:id/password", anyRole, authHandler.ChangePassword)
	users.Put("/:id", anyRole, userHandler.Update)
	users.Delete("/:id", supervisor, userHandler.Delete)

	products := protected.Group("/products")
	products.Get("/", anyRole, productHandler.List)
	products.Get("/low-stock", anyRole, productHandler.LowStock)
	products.Get("/replenishment", RequireRole(entity.RoleSupervisor, entity.RoleUser), inventoryHandler.GetReplenishmentList)
	products.Post("/", RequireRole(entity.RoleSupervisor, entity.RoleUser), productHandler.Create)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Put("/:id", supervisor, productHandler.Update)
	products.Delete("/:id", supervisor, productHandler.Delete)
	products.Post("/:id/sale", RequireRole(entity.RoleCashier, entity.RoleSupervisor), inventoryHandler.RegisterSale)
	products.Post("/:id/entry", RequireRole(entity.RoleSupervisor, entity.RoleUser), inventoryHandler.RegisterEntry)
	products.Get("/:id/movements", supervisor, inventoryHandler.ListMovements)
	products.Get("/:id/reconciliation", supervisor, inventoryHandler.Reconcile)
}

// statusHandler godoc
// @Summary      Estado de la API y de la base de datos
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/status [get]
func statusHandler(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db == nil {
			return c.JSON(fiber.Map{"status": "ok", "database": "unknown"})
		}
		if err := db.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "database": "down"})
		}
		return c.JSON(fiber.Map{"status": "ok", "database": "up"})
	}
}
