package domain

import "errors"

// Errores de autenticación y autorización.
var (
	ErrMissingToken       = errors.New("token no proporcionado")
	ErrMalformedToken     = errors.New("token malformado")
	ErrBadSignature       = errors.New("firma del token inválida")
	ErrTokenExpired       = errors.New("token expirado")
	ErrInsufficientRole   = errors.New("permiso insuficiente")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrForbidden          = errors.New("acceso denegado")
)

// Errores del libro de stock.
var (
	ErrInvalidQuantity   = errors.New("la cantidad debe ser un entero positivo")
	ErrInvalidCost       = errors.New("el costo unitario no puede ser negativo")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// Errores genéricos de dominio (sin dependencias externas).
var (
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// IsStockError indica si err es un rechazo del libro de stock (no un fallo de almacenamiento).
func IsStockError(err error) bool {
	for _, target := range []error{ErrInvalidQuantity, ErrInvalidCost, ErrNotFound, ErrInsufficientStock} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
