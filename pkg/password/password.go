// Package password hashea y verifica contraseñas con bcrypt.
// Ningún otro paquete debe comparar contraseñas en texto plano.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrTooLong bcrypt solo usa los primeros 72 bytes; se rechaza en lugar de truncar en silencio.
var ErrTooLong = errors.New("password: excede 72 bytes")

// Hasher encapsula el costo de bcrypt.
type Hasher struct {
	cost int
}

// NewHasher construye el hasher; un costo fuera de rango cae en bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash genera un hash con sal aleatoria embebida en la salida.
func (h *Hasher) Hash(plain string) (string, error) {
	if len(plain) > 72 {
		return "", ErrTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify compara en tiempo constante. Acepta cualquier prefijo bcrypt ($2a$, $2b$, $2y$) y costo.
func (h *Hasher) Verify(plain, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
