package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/instock-api/internal/application/dto"
	"github.com/jhoicas/instock-api/internal/domain"
	"github.com/jhoicas/instock-api/pkg/logger"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorMappings el orden importa: la primera coincidencia con errors.Is gana.
var errorMappings = []errorMapping{
	{domain.ErrMissingToken, fiber.StatusForbidden, "MISSING_TOKEN"},
	{domain.ErrMalformedToken, fiber.StatusUnauthorized, "INVALID_TOKEN"},
	{domain.ErrBadSignature, fiber.StatusUnauthorized, "INVALID_SIGNATURE"},
	{domain.ErrTokenExpired, fiber.StatusUnauthorized, "TOKEN_EXPIRED"},
	{domain.ErrInsufficientRole, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{domain.ErrInvalidCost, fiber.StatusBadRequest, "INVALID_COST"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
}

// ErrorHandler escribe la única respuesta de error de la petición. Los errores no clasificados
// se registran y salen como 500 INTERNAL; el detalle solo se expone en development.
func ErrorHandler(log *logger.Logger, dev bool) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	return func(c *fiber.Ctx, err error) error {
		status, body := resolveError(err, dev)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("error interno")
		}
		return c.Status(status).JSON(body)
	}
}

func resolveError(err error, dev bool) (int, dto.ErrorResponse) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, dto.ErrorResponse{Code: m.code, Message: publicMessage(err, m.err)}
		}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, dto.ErrorResponse{Code: codeForStatus(fe.Code), Message: fe.Message}
	}
	msg := "error interno"
	if dev {
		msg = err.Error()
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: msg}
}

// publicMessage usa el texto completo solo cuando el sentinel es el error externo
// ("entrada inválida: detalle"); si viene envuelto por la capa de almacenamiento, solo el sentinel.
func publicMessage(err, sentinel error) string {
	if strings.HasPrefix(err.Error(), sentinel.Error()) {
		return err.Error()
	}
	return sentinel.Error()
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return "VALIDATION"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	default:
		if status >= fiber.StatusInternalServerError {
			return "INTERNAL"
		}
		return "ERROR"
	}
}

// invalidBody error de parseo del cuerpo JSON.
func invalidBody(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido: "+err.Error())
}
