package inventory

import (
	"math"

	"github.com/jhoicas/instock-api/internal/domain"
	"github.com/shopspring/decimal"
)

// ApplySale calcula el stock resultante de una venta. Nunca devuelve un valor negativo.
func ApplySale(current, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, domain.ErrInvalidQuantity
	}
	if current < quantity {
		return 0, domain.ErrInsufficientStock
	}
	return current - quantity, nil
}

// ApplyEntry calcula el stock resultante de una entrada.
func ApplyEntry(current, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, domain.ErrInvalidQuantity
	}
	if current > math.MaxInt64-quantity {
		return 0, domain.ErrInvalidQuantity
	}
	return current + quantity, nil
}

// WeightedAverageCost costo promedio ponderado tras una entrada (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func WeightedAverageCost(stock int64, currentCost decimal.Decimal, quantity int64, unitCost decimal.Decimal) decimal.Decimal {
	sum := stock + quantity
	if sum <= 0 {
		return decimal.Zero
	}
	num := decimal.NewFromInt(stock).Mul(currentCost).Add(decimal.NewFromInt(quantity).Mul(unitCost))
	return num.DivRound(decimal.NewFromInt(sum), 4)
}

// Expected stock que debería tener un producto según su historial de movimientos.
func Expected(initial, entries, sales int64) int64 {
	return initial + entries - sales
}
