package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/instock-api/internal/application/dto"
	"github.com/jhoicas/instock-api/internal/application/inventory"
	"github.com/jhoicas/instock-api/internal/application/usecase"
	"github.com/jhoicas/instock-api/internal/domain"
	"github.com/jhoicas/instock-api/internal/domain/entity"
)

// LedgerService operaciones del libro de stock (implementado por *inventory.LedgerUseCase).
type LedgerService interface {
	RegisterSale(ctx context.Context, in inventory.SaleInput) (*entity.Product, error)
	RegisterEntry(ctx context.Context, in inventory.EntryInput) (*entity.Product, error)
	ListMovements(ctx context.Context, productID string, kind entity.MovementKind, limit, offset int) ([]*entity.StockMovement, error)
	Reconcile(ctx context.Context, productID string) (*inventory.Reconciliation, error)
}

// ReplenishmentService lista de reposición (implementado por *inventory.ReplenishmentUseCase).
type ReplenishmentService interface {
	GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error)
}

// InventoryHandler maneja ventas, entradas, historial y conciliación (protegido).
type InventoryHandler struct {
	ledger        LedgerService
	replenishment ReplenishmentService
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger LedgerService, replenishment ReplenishmentService) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, replenishment: replenishment}
}

// RegisterSale godoc
// @Summary      Registrar venta
// @Description  Descuenta quantity del stock. Nunca deja stock negativo, aun con ventas concurrentes.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del producto"
// @Param        body  body  dto.RegisterSaleRequest  true  "quantity"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/sale [post]
func (h *InventoryHandler) RegisterSale(c *fiber.Ctx) error {
	var in dto.RegisterSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(err)
	}
	p, err := h.ledger.RegisterSale(c.Context(), inventory.SaleInput{
		ProductID: c.Params("id"),
		Quantity:  in.Quantity,
		UserID:    GetUserID(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(usecase.ToProductResponse(p))
}

// RegisterEntry godoc
// @Summary      Registrar entrada de stock
// @Description  Suma quantity al stock y actualiza el costo promedio ponderado.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.RegisterEntryRequest  true  "quantity, cost"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/entry [post]
func (h *InventoryHandler) RegisterEntry(c *fiber.Ctx) error {
	var in dto.RegisterEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(err)
	}
	p, err := h.ledger.RegisterEntry(c.Context(), inventory.EntryInput{
		ProductID: c.Params("id"),
		Quantity:  in.Quantity,
		UnitCost:  in.Cost,
		UserID:    GetUserID(c),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(usecase.ToProductResponse(p))
}

// ListMovements godoc
// @Summary      Historial de movimientos del producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        kind    query  string  false  "entry | sale (vacío = ambos)"
// @Param        limit   query  int     false  "Límite (default 20, máx 100)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	kind, ok := entity.ParseMovementKind(c.Query("kind"))
	if !ok {
		return domain.ErrInvalidInput
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidBody(err)
	}
	page.DefaultPage()
	list, err := h.ledger.ListMovements(c.Context(), c.Params("id"), kind, page.Limit, page.Offset)
	if err != nil {
		return err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.MovementResponse{
			ID:        m.ID,
			ProductID: m.ProductID,
			Kind:      string(m.Kind),
			Quantity:  m.Quantity,
			UnitCost:  m.UnitCost,
			Name:      m.ProductName,
			Date:      m.MovedAt,
			CreatedBy: m.CreatedBy,
		})
	}
	return c.JSON(dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// Reconcile godoc
// @Summary      Conciliar stock
// @Description  Compara stock con initial_stock + entradas - ventas.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/reconciliation [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	rec, err := h.ledger.Reconcile(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.ReconciliationResponse{
		ProductID:    rec.ProductID,
		InitialStock: rec.InitialStock,
		Entries:      rec.Entries,
		Sales:        rec.Sales,
		Expected:     rec.Expected,
		Actual:       rec.Actual,
		Balanced:     rec.Balanced(),
	})
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Productos en o por debajo del mínimo con la cantidad sugerida para llegar a 1.5x el mínimo.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/products/replenishment [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(list)
}
