package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/instock-api/internal/application/dto"
	"github.com/jhoicas/instock-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReplenishmentUseCase genera la lista de reposición a partir del stock mínimo de cada producto.
type ReplenishmentUseCase struct {
	products repository.ProductRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(products repository.ProductRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{products: products}
}

// GenerateReplenishmentList devuelve los productos con stock <= min_stock, con la cantidad sugerida
// para llegar a 1.5 veces el mínimo, ordenados por cobertura (stock/mínimo) ascendente.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	items, err := uc.products.ListBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(items))
	for _, p := range items {
		ideal := (p.MinStock*3 + 1) / 2
		qty := ideal - p.Stock
		if qty < 0 {
			qty = 0
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          p.ID,
			ProductName:        p.Name,
			CurrentStock:       p.Stock,
			MinStock:           p.MinStock,
			IdealStock:         ideal,
			SuggestedOrderQty:  qty,
			UnitCost:           p.AvgCost,
			EstimatedOrderCost: decimal.NewFromInt(qty).Mul(p.AvgCost),
		})
	}

	// Menor cobertura primero; sin mínimo definido (0) va al final.
	sort.SliceStable(suggestions, func(i, j int) bool {
		return coverage(suggestions[i]) < coverage(suggestions[j])
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

func coverage(s dto.ReplenishmentSuggestionDTO) float64 {
	if s.MinStock <= 0 {
		return float64(s.CurrentStock) + 1e9
	}
	return float64(s.CurrentStock) / float64(s.MinStock)
}
