package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// Stock solo cambia a través del libro de stock; InitialStock queda fijo desde la creación.
type Product struct {
	ID           string
	Name         string
	Price        decimal.Decimal // precio de venta
	Stock        int64
	MinStock     int64           // umbral de alerta, no se aplica como restricción
	InitialStock int64           // ancla para la conciliación
	AvgCost      decimal.Decimal // costo promedio ponderado de las entradas
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BelowMinimum indica si el producto debe aparecer en la alerta de reposición.
func (p *Product) BelowMinimum() bool {
	return p.Stock <= p.MinStock
}
