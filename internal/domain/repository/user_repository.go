package repository

//go:generate mockgen -source=user_repository.go -destination=../../mock/user_repository_mock.go -package=mock

import (
	"context"
	"time"

	"github.com/jhoicas/instock-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (almacén de credenciales).
// Los Get devuelven (nil, nil) cuando el registro no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByLogin(ctx context.Context, login string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdatePassword(ctx context.Context, id, hash string) error
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	Delete(ctx context.Context, id string) error
}
