package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/instock-api/internal/domain/entity"
	"github.com/jhoicas/instock-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo registros de auditoría en product_entries y product_sales (solo inserción).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta el registro en la tabla que corresponde a su tipo.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	var query string
	switch m.Kind {
	case entity.MovementEntry:
		query = `
			INSERT INTO product_entries (id, product_id, quantity, unit_cost, name, moved_at, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
	case entity.MovementSale:
		query = `
			INSERT INTO product_sales (id, product_id, quantity, unit_price, name, moved_at, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
	default:
		return fmt.Errorf("insert movement: tipo desconocido %q", m.Kind)
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.Quantity, m.UnitCost, m.ProductName, m.MovedAt, nullable(m.CreatedBy),
	)
	return classify(err, "insert "+string(m.Kind))
}

// ListByProduct historial paginado de un producto; kind vacío une entradas y ventas.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, kind entity.MovementKind, limit, offset int) ([]*entity.StockMovement, error) {
	query, args, err := buildMovementListQuery(productID, kind, limit, offset)
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "list movements")
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var (
			m         entity.StockMovement
			kindText  string
			createdBy *string
		)
		if err := rows.Scan(&m.ID, &m.ProductID, &kindText, &m.Quantity, &m.UnitCost, &m.ProductName, &m.MovedAt, &createdBy); err != nil {
			return nil, classify(err, "list movements")
		}
		m.Kind = entity.MovementKind(kindText)
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, classify(rows.Err(), "list movements")
}

// TotalsByProduct suma de cantidades de entradas y ventas del producto.
func (r *StockMovementRepo) TotalsByProduct(ctx context.Context, productID string) (repository.MovementTotals, error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(quantity), 0)::bigint FROM product_entries WHERE product_id = $1),
			(SELECT COALESCE(SUM(quantity), 0)::bigint FROM product_sales WHERE product_id = $1)`
	var t repository.MovementTotals
	if err := r.q.QueryRow(ctx, query, productID).Scan(&t.Entries, &t.Sales); err != nil {
		return t, classify(err, "movement totals")
	}
	return t, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
