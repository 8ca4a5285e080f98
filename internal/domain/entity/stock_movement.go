package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind dirección del movimiento; cada tipo vive en su propia tabla.
type MovementKind string

// Tipos de movimiento de stock.
const (
	MovementEntry MovementKind = "entry" // product_entries
	MovementSale  MovementKind = "sale"  // product_sales
)

// ParseMovementKind acepta "entry", "sale" o vacío (ambos).
func ParseMovementKind(s string) (MovementKind, bool) {
	switch MovementKind(s) {
	case MovementEntry, MovementSale, "":
		return MovementKind(s), true
	default:
		return "", false
	}
}

// StockMovement registro de auditoría inmutable de una entrada o venta.
// Quantity siempre es positiva; la dirección la da Kind.
type StockMovement struct {
	ID          string
	ProductID   string
	Kind        MovementKind
	Quantity    int64
	UnitCost    decimal.Decimal // entradas: costo; ventas: precio vigente
	ProductName string          // nombre del producto al momento del movimiento
	MovedAt     time.Time
	CreatedBy   string // opcional
}

// Delta efecto firmado sobre el stock.
func (m *StockMovement) Delta() int64 {
	if m.Kind == MovementSale {
		return -m.Quantity
	}
	return m.Quantity
}
