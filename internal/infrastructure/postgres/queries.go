package postgres

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jhoicas/instock-api/internal/domain/entity"
	"github.com/jhoicas/instock-api/internal/domain/repository"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const productColumns = "id, name, price, stock, min_stock, initial_stock, avg_cost, created_at, updated_at"

const userColumns = "id, nome, matricula, senha_hash, nivel, last_login, created_at, updated_at"

var movementColumns = []string{"id", "product_id", "kind", "quantity", "unit_cost", "name", "moved_at", "created_by"}

// buildProductListQuery listado de productos por nombre; Search filtra con ILIKE.
func buildProductListQuery(f repository.ProductFilter) (string, []any, error) {
	b := psql.Select(productColumns).From("products").OrderBy("name", "id")
	if f.Search != "" {
		b = b.Where(sq.ILike{"name": "%" + escapeLike(f.Search) + "%"})
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		b = b.Offset(uint64(f.Offset))
	}
	return b.ToSql()
}

// buildUserListQuery listado de usuarios ordenado por nombre.
func buildUserListQuery(limit, offset int) (string, []any, error) {
	b := psql.Select(userColumns).From("users").OrderBy("nome", "id")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	if offset > 0 {
		b = b.Offset(uint64(offset))
	}
	return b.ToSql()
}

// buildMovementListQuery historial unificado de product_entries y product_sales, más reciente primero.
func buildMovementListQuery(productID string, kind entity.MovementKind, limit, offset int) (string, []any, error) {
	entries := sq.Select("id", "product_id", "'entry' AS kind", "quantity", "unit_cost", "name", "moved_at", "created_by").
		From("product_entries").
		Where(sq.Eq{"product_id": productID})
	sales := sq.Select("id", "product_id", "'sale' AS kind", "quantity", "unit_price AS unit_cost", "name", "moved_at", "created_by").
		From("product_sales").
		Where(sq.Eq{"product_id": productID})

	var inner sq.SelectBuilder
	switch kind {
	case entity.MovementEntry:
		inner = entries
	case entity.MovementSale:
		inner = sales
	default:
		salesSQL, salesArgs, err := sales.ToSql()
		if err != nil {
			return "", nil, err
		}
		inner = entries.Suffix("UNION ALL "+salesSQL, salesArgs...)
	}

	b := psql.Select(movementColumns...).
		FromSelect(inner, "m").
		OrderBy("moved_at DESC", "id DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	if offset > 0 {
		b = b.Offset(uint64(offset))
	}
	return b.ToSql()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
