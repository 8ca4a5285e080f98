package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jhoicas/instock-api/internal/application/dto"
	"github.com/jhoicas/instock-api/internal/domain"
	"github.com/jhoicas/instock-api/internal/domain/entity"
	"github.com/jhoicas/instock-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Límites de validación de producto.
const (
	ProductNameMin = 3
	ProductNameMax = 50
)

// ProductUseCase casos de uso CRUD para productos. Stock se maneja vía el libro de stock.
type ProductUseCase struct {
	repo repository.ProductRepository
	now  func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, now: time.Now}
}

// Create crea un nuevo producto. El stock recibido queda como stock inicial.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(in.Price); err != nil {
		return nil, err
	}
	if in.Stock < 0 {
		return nil, fmt.Errorf("%w: stock no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.MinStock < 0 {
		return nil, fmt.Errorf("%w: min_stock no puede ser negativo", domain.ErrInvalidInput)
	}
	now := uc.now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         name,
		Price:        in.Price,
		Stock:        in.Stock,
		MinStock:     in.MinStock,
		InitialStock: in.Stock,
		AvgCost:      decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return ToProductResponse(product), nil
}

// Update actualiza nombre, precio y stock mínimo. Stock no se modifica por esta vía.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validateProductName(name); err != nil {
			return nil, err
		}
		product.Name = name
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return nil, err
		}
		product.Price = *in.Price
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, fmt.Errorf("%w: min_stock no puede ser negativo", domain.ErrInvalidInput)
		}
		product.MinStock = *in.MinStock
	}
	product.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List lista productos con búsqueda opcional por nombre y paginación.
func (uc *ProductUseCase) List(ctx context.Context, search string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Search: strings.TrimSpace(search),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Items: toProductResponses(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// LowStock productos con stock <= min_stock.
func (uc *ProductUseCase) LowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// Delete elimina un producto. Un producto con historial de movimientos devuelve ErrConflict.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

func validateProductName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < ProductNameMin || n > ProductNameMax {
		return fmt.Errorf("%w: el nombre debe tener entre %d y %d caracteres", domain.ErrInvalidInput, ProductNameMin, ProductNameMax)
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return fmt.Errorf("%w: el precio debe ser positivo", domain.ErrInvalidInput)
	}
	return nil
}

// ToProductResponse convierte la entidad en su representación HTTP.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		Stock:        p.Stock,
		MinStock:     p.MinStock,
		InitialStock: p.InitialStock,
		AvgCost:      p.AvgCost,
		LowStock:     p.BelowMinimum(),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return items
}
