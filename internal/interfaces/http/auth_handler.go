package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/instock-api/internal/application/auth"
	"github.com/jhoicas/instock-api/internal/application/dto"
	"github.com/jhoicas/instock-api/internal/domain"
)

// AuthService casos de uso que expone AuthHandler (implementado por *auth.AuthUseCase).
type AuthService interface {
	Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error)
	ChangePassword(ctx context.Context, id *auth.Identity, in dto.ChangePasswordRequest) error
}

// AuthHandler maneja login, identidad actual y cambio de contraseña.
type AuthHandler struct {
	uc AuthService
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc AuthService) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "matricula, senha"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(err)
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Identidad del token
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.IdentityResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	id := GetIdentity(c)
	if id == nil {
		return domain.ErrMissingToken
	}
	return c.JSON(dto.IdentityResponse{UserID: id.UserID, Login: id.Login, Role: string(id.Role)})
}

// ChangePassword godoc
// @Summary      Cambiar la propia contraseña
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del usuario (debe ser el propio)"
// @Param        body  body  dto.ChangePasswordRequest  true  "senhaAtual, novaSenha"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/password [put]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	id := GetIdentity(c)
	if id == nil {
		return domain.ErrMissingToken
	}
	if c.Params("id") != id.UserID {
		return domain.ErrForbidden
	}
	var in dto.ChangePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(err)
	}
	if err := h.uc.ChangePassword(c.Context(), id, in); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "contraseña actualizada"})
}
