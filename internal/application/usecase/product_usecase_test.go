package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/jhoicas/instock-api/internal/application/dto"
	"github.com/jhoicas/instock-api/internal/domain"
	"github.com/jhoicas/instock-api/internal/domain/entity"
	"github.com/jhoicas/instock-api/internal/domain/repository"
	"github.com/jhoicas/instock-api/internal/mock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestProductCreate_StockInicial(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockProductRepository(ctrl)
	uc := NewProductUseCase(repo)
	ctx := context.Background()

	repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, p *entity.Product) error {
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, "Feijão", p.Name)
		assert.Equal(t, int64(12), p.InitialStock)
		assert.True(t, p.AvgCost.IsZero())
		return nil
	})

	resp, err := uc.Create(ctx, dto.CreateProductRequest{
		Name:     "  Feijão ",
		Price:    decimal.RequireFromString("7.49"),
		Stock:    12,
		MinStock: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), resp.Stock)
	assert.Equal(t, int64(12), resp.InitialStock)
	assert.False(t, resp.LowStock)
}

func TestProductCreate_Validaciones(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := NewProductUseCase(mock.NewMockProductRepository(ctrl))
	valid := dto.CreateProductRequest{Name: "Leite", Price: decimal.NewFromInt(5), Stock: 1, MinStock: 0}

	cases := map[string]func(*dto.CreateProductRequest){
		"nombre corto":     func(r *dto.CreateProductRequest) { r.Name = "ab" },
		"nombre largo":     func(r *dto.CreateProductRequest) { r.Name = strings.Repeat("x", 51) },
		"precio cero":      func(r *dto.CreateProductRequest) { r.Price = decimal.Zero },
		"precio negativo":  func(r *dto.CreateProductRequest) { r.Price = decimal.NewFromInt(-1) },
		"stock negativo":   func(r *dto.CreateProductRequest) { r.Stock = -1 },
		"mínimo negativo":  func(r *dto.CreateProductRequest) { r.MinStock = -1 },
		"nombre en blanco": func(r *dto.CreateProductRequest) { r.Name = "     " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := valid
			mutate(&in)
			_, err := uc.Create(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestProductUpdate_NoTocaStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockProductRepository(ctrl)
	uc := NewProductUseCase(repo)
	ctx := context.Background()

	existing := &entity.Product{ID: "p1", Name: "Café", Price: decimal.NewFromInt(10), Stock: 9, MinStock: 2, InitialStock: 4}
	repo.EXPECT().GetByID(ctx, "p1").Return(existing, nil)
	repo.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, p *entity.Product) error {
		assert.Equal(t, int64(9), p.Stock)
		assert.Equal(t, int64(4), p.InitialStock)
		return nil
	})

	price := decimal.NewFromInt(12)
	minStock := int64(10)
	resp, err := uc.Update(ctx, "p1", dto.UpdateProductRequest{Price: &price, MinStock: &minStock})
	require.NoError(t, err)
	assert.True(t, resp.Price.Equal(price))
	assert.True(t, resp.LowStock)
}

func TestProductUpdate_Inexistente(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockProductRepository(ctrl)
	uc := NewProductUseCase(repo)

	repo.EXPECT().GetByID(gomock.Any(), "x").Return(nil, nil)
	_, err := uc.Update(context.Background(), "x", dto.UpdateProductRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductList_PaginaPorDefecto(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockProductRepository(ctrl)
	uc := NewProductUseCase(repo)

	repo.EXPECT().List(gomock.Any(), repository.ProductFilter{Search: "arroz", Limit: 100, Offset: 0}).
		Return([]*entity.Product{{ID: "a", Name: "Arroz"}}, nil)

	resp, err := uc.List(context.Background(), " arroz ", dto.PageRequest{Limit: 500, Offset: -3})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 100, resp.Page.Limit)
}

func TestProductDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockProductRepository(ctrl)
	uc := NewProductUseCase(repo)
	ctx := context.Background()

	repo.EXPECT().GetByID(ctx, "p1").Return(&entity.Product{ID: "p1"}, nil)
	repo.EXPECT().Delete(ctx, "p1").Return(domain.ErrConflict)
	assert.ErrorIs(t, uc.Delete(ctx, "p1"), domain.ErrConflict)

	repo.EXPECT().GetByID(ctx, "p2").Return(nil, nil)
	assert.ErrorIs(t, uc.Delete(ctx, "p2"), domain.ErrNotFound)
}

func TestProductLowStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockProductRepository(ctrl)
	uc := NewProductUseCase(repo)

	repo.EXPECT().ListBelowMinimum(gomock.Any()).Return([]*entity.Product{
		{ID: "a", Stock: 1, MinStock: 5},
		{ID: "b", Stock: 5, MinStock: 5},
	}, nil)
	items, err := uc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.True(t, it.LowStock)
	}
}
