package repository

//go:generate mockgen -source=product_repository.go -destination=../../mock/product_repository_mock.go -package=mock

import (
	"context"

	"github.com/jhoicas/instock-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	Search string // coincidencia parcial por nombre, sin distinguir mayúsculas
	Limit  int
	Offset int
}

// ProductRepository define el puerto de persistencia para Product.
// GetForUpdate y UpdateStock solo tienen sentido dentro de una transacción (TxRunner).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateStock(ctx context.Context, id string, stock int64, avgCost decimal.Decimal) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	ListBelowMinimum(ctx context.Context) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
