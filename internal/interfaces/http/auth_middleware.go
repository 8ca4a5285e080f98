package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/instock-api/internal/application/auth"
	"github.com/jhoicas/instock-api/internal/domain/entity"
)

// LocalIdentity clave de Locals con la *auth.Identity de la petición.
const LocalIdentity = "identity"

// AuthMiddleware valida el Bearer Token y guarda la identidad en c.Locals.
// Los rechazos se devuelven como error para que ErrorHandler escriba la respuesta.
func AuthMiddleware(guard *auth.Guard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := guard.Authenticate(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}
		c.Locals(LocalIdentity, id)
		return c.Next()
	}
}

// RequireRole exige que la identidad autenticada tenga uno de los roles indicados.
// Debe ir después de AuthMiddleware; sin identidad responde 403 MISSING_TOKEN.
func RequireRole(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := auth.Authorize(GetIdentity(c), roles...); err != nil {
			return err
		}
		return c.Next()
	}
}

// GetIdentity devuelve la identidad del contexto (después del middleware de auth).
func GetIdentity(c *fiber.Ctx) *auth.Identity {
	id, _ := c.Locals(LocalIdentity).(*auth.Identity)
	return id
}

// GetUserID devuelve el UserID del contexto.
func GetUserID(c *fiber.Ctx) string {
	if id := GetIdentity(c); id != nil {
		return id.UserID
	}
	return ""
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) entity.Role {
	if id := GetIdentity(c); id != nil {
		return id.Role
	}
	return ""
}
