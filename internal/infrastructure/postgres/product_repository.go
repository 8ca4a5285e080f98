package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/instock-api/internal/domain/entity"
	"github.com/jhoicas/instock-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Price, p.Stock, p.MinStock, p.InitialStock, p.AvgCost, p.CreatedAt, p.UpdatedAt,
	)
	return classify(err, "insert product")
}

// GetByID obtiene un producto por ID. (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.getOne(ctx, query, id, "get product")
}

// GetForUpdate obtiene el producto y bloquea la fila hasta el fin de la tx (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id, "get product for update")
}

// Update actualiza los datos descriptivos. Stock, initial_stock y avg_cost no se tocan aquí.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, price = $3, min_stock = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, p.ID, p.Name, p.Price, p.MinStock, p.UpdatedAt)
	if err != nil {
		return classify(err, "update product")
	}
	if tag.RowsAffected() == 0 {
		return notFound("update product")
	}
	return nil
}

// UpdateStock escribe stock y costo promedio; se usa solo bajo el bloqueo de GetForUpdate.
func (r *ProductRepo) UpdateStock(ctx context.Context, id string, stock int64, avgCost decimal.Decimal) (*entity.Product, error) {
	query := `
		UPDATE products SET stock = $2, avg_cost = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns
	return r.getOne(ctx, query, id, "update stock", stock, avgCost)
}

// List lista productos con filtro por nombre y paginación.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	query, args, err := buildProductListQuery(f)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, query, args, "list products")
}

// ListBelowMinimum productos con stock <= min_stock, los más críticos primero.
func (r *ProductRepo) ListBelowMinimum(ctx context.Context) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products WHERE stock <= min_stock
		ORDER BY (min_stock - stock) DESC, name`
	return r.list(ctx, query, nil, "list low stock")
}

// Delete elimina un producto. Con historial de movimientos la FK devuelve ErrConflict.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return classify(err, "delete product")
	}
	if tag.RowsAffected() == 0 {
		return notFound("delete product")
	}
	return nil
}

func (r *ProductRepo) getOne(ctx context.Context, query, id, op string, extra ...any) (*entity.Product, error) {
	args := append([]any{id}, extra...)
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(err, op)
	}
	return p, nil
}

func (r *ProductRepo) list(ctx context.Context, query string, args []any, op string) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err, op)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, classify(err, op)
		}
		list = append(list, p)
	}
	return list, classify(rows.Err(), op)
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.Stock, &p.MinStock, &p.InitialStock, &p.AvgCost, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
