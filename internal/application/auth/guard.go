package auth

import (
	"errors"
	"strings"

	"github.com/jhoicas/instock-api/internal/domain"
	"github.com/jhoicas/instock-api/internal/domain/entity"
	"github.com/jhoicas/instock-api/pkg/jwt"
)

// TokenVerifier verifica un token firmado (implementado por *jwt.Codec).
type TokenVerifier interface {
	Verify(token string) (*jwt.Claims, error)
}

// Identity identidad autenticada de la petición.
type Identity struct {
	UserID string
	Login  string
	Role   entity.Role
}

// Guard aplica las dos compuertas de acceso: autenticación (token) y autorización (rol).
type Guard struct {
	verifier TokenVerifier
}

// NewGuard construye el guard sobre el verificador de tokens.
func NewGuard(verifier TokenVerifier) *Guard {
	return &Guard{verifier: verifier}
}

// Authenticate valida el header Authorization "Bearer <token>" y devuelve la identidad.
// Sin header, esquema distinto o token vacío → ErrMissingToken.
func (g *Guard) Authenticate(header string) (*Identity, error) {
	token, err := bearerToken(header)
	if err != nil {
		return nil, err
	}
	claims, err := g.verifier.Verify(token)
	if err != nil {
		return nil, mapTokenError(err)
	}
	role, err := entity.ParseRole(claims.Role)
	if err != nil {
		return nil, domain.ErrMalformedToken
	}
	return &Identity{UserID: claims.UserID, Login: claims.Login, Role: role}, nil
}

// AuthorizeToken compone ambas compuertas para llamadores fuera de HTTP.
func (g *Guard) AuthorizeToken(header string, roles ...entity.Role) (*Identity, error) {
	id, err := g.Authenticate(header)
	if err != nil {
		return nil, err
	}
	if err := Authorize(id, roles...); err != nil {
		return nil, err
	}
	return id, nil
}

// Authorize exige que la identidad tenga uno de los roles indicados.
func Authorize(id *Identity, roles ...entity.Role) error {
	if id == nil {
		return domain.ErrMissingToken
	}
	if !id.Role.In(roles...) {
		return domain.ErrInsufficientRole
	}
	return nil
}

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", domain.ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", domain.ErrMissingToken
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", domain.ErrMissingToken
	}
	return token, nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrBadSignature):
		return domain.ErrBadSignature
	case errors.Is(err, jwt.ErrExpired):
		return domain.ErrTokenExpired
	default:
		return domain.ErrMalformedToken
	}
}
