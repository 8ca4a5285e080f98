package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/instock-api/internal/application/dto"
	"github.com/jhoicas/instock-api/internal/domain"
	"github.com/jhoicas/instock-api/internal/domain/repository"
	"github.com/jhoicas/instock-api/pkg/logger"
)

// MinPasswordLength largo mínimo de una contraseña nueva.
const MinPasswordLength = 8

// PasswordHasher hashea y verifica contraseñas (implementado por *password.Hasher).
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// TokenIssuer emite tokens de sesión (implementado por *jwt.Codec).
type TokenIssuer interface {
	Issue(userID, login, role string) (string, error)
	TTL() time.Duration
}

// AuthUseCase casos de uso de autenticación: login y cambio de contraseña.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	log    *logger.Logger
	now    func() time.Time

	// dummyHash se compara cuando la matrícula no existe, para igualar el tiempo de respuesta.
	dummyOnce sync.Once
	dummyHash string
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		log:    log.Component("auth"),
		now:    time.Now,
	}
}

// Login verifica matrícula/contraseña y emite un token. Matrícula desconocida y contraseña
// incorrecta devuelven el mismo ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Login == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := uc.users.GetByLogin(ctx, in.Login)
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil {
		uc.hasher.Verify(in.Password, uc.dummy())
		return nil, domain.ErrInvalidCredentials
	}
	if !uc.hasher.Verify(in.Password, user.PasswordHash) {
		uc.log.Info().Str("login", in.Login).Msg("login rechazado")
		return nil, domain.ErrInvalidCredentials
	}

	issuedAt := uc.now()
	token, err := uc.tokens.Issue(user.ID, user.Login, string(user.Role))
	if err != nil {
		return nil, err
	}
	if err := uc.users.UpdateLastLogin(ctx, user.ID, issuedAt); err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("no se pudo actualizar last_login")
	}
	return &dto.LoginResponse{
		Token:     token,
		Name:      user.Name,
		ExpiresAt: issuedAt.Add(uc.tokens.TTL()).UTC(),
	}, nil
}

func (uc *AuthUseCase) dummy() string {
	uc.dummyOnce.Do(func() {
		uc.dummyHash, _ = uc.hasher.Hash("instock-dummy-password")
	})
	return uc.dummyHash
}

// ChangePassword cambia la contraseña del propio usuario tras verificar la actual.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, id *Identity, in dto.ChangePasswordRequest) error {
	if id == nil {
		return domain.ErrMissingToken
	}
	user, err := uc.users.GetByID(ctx, id.UserID)
	if err != nil {
		return fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil {
		return domain.ErrNotFound
	}
	if !uc.hasher.Verify(in.CurrentPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}
	if len(in.NewPassword) < MinPasswordLength {
		return fmt.Errorf("%w: la nueva contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, MinPasswordLength)
	}
	hash, err := uc.hasher.Hash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := uc.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("guardar contraseña: %w", err)
	}
	uc.log.Info().Str("user_id", user.ID).Msg("contraseña actualizada")
	return nil
}
