package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/instock-api/internal/domain/entity"
	"github.com/jhoicas/instock-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario. Matrícula repetida → ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (id, nome, matricula, senha_hash, nivel, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, u.ID, u.Name, u.Login, u.PasswordHash, string(u.Role), u.CreatedAt, u.UpdatedAt)
	return classify(err, "insert user")
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id, "get user")
}

// GetByLogin obtiene un usuario por matrícula (login).
func (r *UserRepo) GetByLogin(ctx context.Context, login string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE matricula = $1`, login, "get user by login")
}

// Update persiste nombre, matrícula, rol y hash.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	query := `
		UPDATE users SET nome = $2, matricula = $3, senha_hash = $4, nivel = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, u.ID, u.Name, u.Login, u.PasswordHash, string(u.Role), u.UpdatedAt)
	if err != nil {
		return classify(err, "update user")
	}
	if tag.RowsAffected() == 0 {
		return notFound("update user")
	}
	return nil
}

// UpdateLastLogin registra el último ingreso exitoso.
func (r *UserRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.q.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
	return classify(err, "update last_login")
}

// UpdatePassword reemplaza el hash de la contraseña.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET senha_hash = $2, updated_at = now() WHERE id = $1`, id, hash)
	if err != nil {
		return classify(err, "update password")
	}
	if tag.RowsAffected() == 0 {
		return notFound("update password")
	}
	return nil
}

// List lista usuarios con paginación.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	query, args, err := buildUserListQuery(limit, offset)
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "list users")
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, classify(err, "list users")
		}
		list = append(list, u)
	}
	return list, classify(rows.Err(), "list users")
}

// Delete elimina un usuario. Los movimientos que registró quedan con created_by NULL.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return classify(err, "delete user")
	}
	if tag.RowsAffected() == 0 {
		return notFound("delete user")
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, query, arg, op string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(err, op)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u    entity.User
		role string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Login, &u.PasswordHash, &role, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	return &u, nil
}
