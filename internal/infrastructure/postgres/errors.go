package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/instock-api/internal/domain"
)

// classify traduce violaciones de constraint a errores de dominio; el resto se envuelve con op.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, domain.ErrConflict)
		case pgerrcode.CheckViolation:
			// stock >= 0 es la última defensa si una escritura evade el libro
			if pgErr.ConstraintName == "products_stock_check" {
				return fmt.Errorf("%s: %w", op, domain.ErrInsufficientStock)
			}
			return fmt.Errorf("%s: %w", op, domain.ErrInvalidInput)
		case pgerrcode.InvalidTextRepresentation:
			// uuid mal formado en un parámetro de ruta
			return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func notFound(op string) error {
	return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
}
