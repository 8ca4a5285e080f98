package inventory

import (
	"context"

	"github.com/jhoicas/instock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error (o el contexto se cancela antes del Commit) se hace Rollback de todo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		movements repository.StockMovementRepository,
	) error) error
}
