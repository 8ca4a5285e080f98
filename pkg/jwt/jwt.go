package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Errores de verificación. La firma se evalúa antes que la expiración, de modo que un token
// vencido y además adulterado se reporta como ErrBadSignature.
var (
	ErrMalformed    = errors.New("jwt: token malformado")
	ErrBadSignature = errors.New("jwt: firma inválida")
	ErrExpired      = errors.New("jwt: token expirado")
	ErrNoSecret     = errors.New("jwt: secret vacío")
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Role viaja en el token para que el middleware RBAC decida sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Login  string `json:"login,omitempty"` // matrícula
	Role   string `json:"role"`
}

// Codec emite y verifica tokens HS256 con un TTL fijo.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// Option configura el Codec.
type Option func(*Codec)

// WithClock reemplaza el reloj (tests de expiración y desfase).
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec construye el codec. Un secret vacío o un TTL no positivo son errores de configuración.
func NewCodec(secret, issuer string, ttl time.Duration, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("jwt: ttl debe ser positivo, recibido %s", ttl)
	}
	c := &Codec{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL duración de los tokens emitidos.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue genera un token firmado con identidad, rol, iat y exp = iat + TTL.
func (c *Codec) Issue(userID, login, role string) (string, error) {
	now := c.now().Truncate(jwt.TimePrecision)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		UserID: userID,
		Login:  login,
		Role:   role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: firmar token: %w", err)
	}
	return signed, nil
}

// Verify valida firma y expiración y devuelve los claims sin tocar. No hace autorización.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, c.keyFunc, opts...)
	if err != nil {
		return nil, classify(err)
	}
	if claims.UserID == "" || claims.Role == "" {
		return nil, fmt.Errorf("%w: faltan user_id o role", ErrMalformed)
	}
	return claims, nil
}

func (c *Codec) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
	}
	return c.secret, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	default:
		// iat en el futuro, exp ausente, claims ilegibles
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
