package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/instock-api/internal/application/dto"
)

// ProductService CRUD de productos (implementado por *usecase.ProductUseCase).
type ProductService interface {
	Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ProductResponse, error)
	Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error)
	List(ctx context.Context, search string, page dto.PageRequest) (*dto.ProductListResponse, error)
	LowStock(ctx context.Context) ([]dto.ProductResponse, error)
	Delete(ctx context.Context, id string) error
}

// ProductHandler maneja las peticiones HTTP de productos.
type ProductHandler struct {
	uc ProductService
}

// NewProductHandler construye el handler.
func NewProductHandler(uc ProductService) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto
// @Description  El stock inicial queda registrado para la conciliación.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "name, price, stock, min_stock"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Búsqueda parcial por nombre"
// @Param        limit   query  int     false  "Límite (default 20, máx 100)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.ProductListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidBody(err)
	}
	out, err := h.uc.List(c.Context(), c.Query("search"), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos con stock en o por debajo del mínimo
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ProductResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/products/low-stock [get]
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Description  Cambia name, price y min_stock. El stock solo cambia con ventas y entradas.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(err)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
