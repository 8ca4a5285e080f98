package repository

import (
	"context"

	"github.com/jhoicas/instock-api/internal/domain/entity"
)

// MovementTotals suma de cantidades por dirección para un producto.
type MovementTotals struct {
	Entries int64
	Sales   int64
}

// StockMovementRepository puerto del almacén de auditoría (solo inserción).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string, kind entity.MovementKind, limit, offset int) ([]*entity.StockMovement, error)
	TotalsByProduct(ctx context.Context, productID string) (MovementTotals, error)
}
