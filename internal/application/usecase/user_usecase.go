package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/instock-api/internal/application/auth"
	"github.com/jhoicas/instock-api/internal/application/dto"
	"github.com/jhoicas/instock-api/internal/domain"
	"github.com/jhoicas/instock-api/internal/domain/entity"
	"github.com/jhoicas/instock-api/internal/domain/repository"
	"github.com/jhoicas/instock-api/pkg/logger"
)

// UserUseCase administración de usuarios. Las reglas de quién puede hacer qué viven aquí;
// el router solo filtra por rol.
type UserUseCase struct {
	repo   repository.UserRepository
	hasher auth.PasswordHasher
	log    *logger.Logger
	now    func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, hasher auth.PasswordHasher, log *logger.Logger) *UserUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{repo: repo, hasher: hasher, log: log.Component("users"), now: time.Now}
}

// Register crea un usuario. La matrícula es única.
func (uc *UserUseCase) Register(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	name := strings.TrimSpace(in.Name)
	login := strings.TrimSpace(in.Login)
	if name == "" || login == "" {
		return nil, fmt.Errorf("%w: nome y matricula son obligatorios", domain.ErrInvalidInput)
	}
	role, err := entity.ParseRole(in.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	hash, err := uc.hashNew(in.Password)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         name,
		Login:        login,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("usuario creado")
	return ToUserResponse(user), nil
}

// List lista usuarios ordenados por nombre.
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *ToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// GetByID obtiene un usuario. Solo el propio usuario o un Supervisor.
func (uc *UserUseCase) GetByID(ctx context.Context, actor *auth.Identity, id string) (*dto.UserResponse, error) {
	if !canManage(actor, id) {
		return nil, domain.ErrForbidden
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return ToUserResponse(user), nil
}

// Update el propio usuario solo cambia su nombre; un Supervisor cambia cualquier campo.
func (uc *UserUseCase) Update(ctx context.Context, actor *auth.Identity, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !canManage(actor, id) {
		return nil, domain.ErrForbidden
	}
	privileged := actor.Role.Privileged()
	if !privileged && (in.Login != nil || in.Password != nil || in.Role != nil) {
		return nil, domain.ErrForbidden
	}

	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: nome es obligatorio", domain.ErrInvalidInput)
		}
		user.Name = name
	} else if !privileged {
		return nil, fmt.Errorf("%w: nome es obligatorio", domain.ErrInvalidInput)
	}
	if in.Login != nil {
		login := strings.TrimSpace(*in.Login)
		if login == "" {
			return nil, fmt.Errorf("%w: matricula vacía", domain.ErrInvalidInput)
		}
		if login != user.Login {
			other, err := uc.repo.GetByLogin(ctx, login)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, domain.ErrDuplicate
			}
		}
		user.Login = login
	}
	if in.Role != nil {
		role, err := entity.ParseRole(*in.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		user.Role = role
	}
	if in.Password != nil {
		hash, err := uc.hashNew(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Delete elimina un usuario. Un Supervisor no puede eliminarse a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, actor *auth.Identity, id string) error {
	if actor == nil || !actor.Role.Privileged() {
		return domain.ErrForbidden
	}
	if actor.UserID == id {
		return fmt.Errorf("%w: no puede eliminar su propio usuario", domain.ErrConflict)
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", id).Str("by", actor.UserID).Msg("usuario eliminado")
	return nil
}

func (uc *UserUseCase) hashNew(plain string) (string, error) {
	if len(plain) < auth.MinPasswordLength {
		return "", fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, auth.MinPasswordLength)
	}
	hash, err := uc.hasher.Hash(plain)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return hash, nil
}

func canManage(actor *auth.Identity, id string) bool {
	if actor == nil {
		return false
	}
	return actor.UserID == id || actor.Role.Privileged()
}

// ToUserResponse convierte la entidad en su representación HTTP (sin hash).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Login:     u.Login,
		Role:      string(u.Role),
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
