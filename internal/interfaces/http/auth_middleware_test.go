package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/instock-api/internal/application/auth"
	"github.com/jhoicas/instock-api/internal/domain/entity"
	apphttp "github.com/jhoicas/instock-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/instock-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "instock-test"
)

func newCodec(t *testing.T) *pkgjwt.Codec {
	t.Helper()
	c, err := pkgjwt.NewCodec(testJWTSecret, testIssuer, time.Hour)
	require.NoError(t, err)
	return c
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para validar el JWT y cargar la identidad
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(t *testing.T, allowedRoles ...entity.Role) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(nil, false)})
	app.Get("/protected",
		apphttp.AuthMiddleware(auth.NewGuard(newCodec(t))),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":      true,
				"role":    apphttp.GetRole(c),
				"user_id": apphttp.GetUserID(c),
			})
		},
	)
	return app
}

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := newCodec(t).Issue(testUserID, "123456", role)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body), "cuerpo: %s", raw)
	return body.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: El usuario tiene el rol requerido → debe pasar (HTTP 200).
func TestRequireRole_SupervisorAccedeRutaSupervisor(t *testing.T) {
	app := buildTestApp(t, entity.RoleSupervisor)
	resp := doRequest(t, app, tokenForRole(t, "Supervisor"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"Supervisor debe poder acceder a ruta restringida a Supervisor")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "Supervisor", body["role"])
	assert.Equal(t, testUserID, body["user_id"])
}

// Caso 1b: El usuario tiene uno de los roles permitidos (multi-rol) → HTTP 200.
func TestRequireRole_CashierAccedeRutaCashierOSupervisor(t *testing.T) {
	app := buildTestApp(t, entity.RoleCashier, entity.RoleSupervisor)
	resp := doRequest(t, app, tokenForRole(t, "Cashier"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Caso 2: El usuario tiene un rol diferente al requerido → HTTP 403 Forbidden.
func TestRequireRole_UserBloqueadoEnRutaVenta(t *testing.T) {
	app := buildTestApp(t, entity.RoleCashier, entity.RoleSupervisor)
	resp := doRequest(t, app, tokenForRole(t, "User"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, resp))
}

// Caso 3: Token con rol fuera del conjunto → HTTP 401 (token malformado).
func TestRequireRole_RolDesconocido_Retorna401(t *testing.T) {
	app := buildTestApp(t, entity.RoleSupervisor)
	resp := doRequest(t, app, tokenForRole(t, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, resp))
}

// Caso 4: Sin header Authorization → HTTP 403 MISSING_TOKEN.
func TestRequireRole_SinAuthHeader_Retorna403(t *testing.T) {
	app := buildTestApp(t, entity.RoleSupervisor)
	for _, h := range []string{"", "Basic abc", "Bearer "} {
		resp := doRequest(t, app, h)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, "header %q", h)
		assert.Equal(t, "MISSING_TOKEN", errorCode(t, resp))
		resp.Body.Close()
	}
}

// Caso 5: Token inválido / malformado → HTTP 401 INVALID_TOKEN.
func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(t, entity.RoleSupervisor)
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, resp))
}

// Caso 6: Firma de otro secret → HTTP 401 INVALID_SIGNATURE.
func TestRequireRole_FirmaInvalida_Retorna401(t *testing.T) {
	app := buildTestApp(t, entity.RoleSupervisor)
	other, err := pkgjwt.NewCodec("otro-secret-completamente-distinto", testIssuer, time.Hour)
	require.NoError(t, err)
	tok, err := other.Issue(testUserID, "1", "Supervisor")
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_SIGNATURE", errorCode(t, resp))
}

// Caso 7: Token vencido → HTTP 401 TOKEN_EXPIRED.
func TestRequireRole_TokenExpirado_Retorna401(t *testing.T) {
	app := buildTestApp(t, entity.RoleSupervisor)
	past := time.Now().Add(-2 * time.Hour)
	old, err := pkgjwt.NewCodec(testJWTSecret, testIssuer, time.Hour, pkgjwt.WithClock(func() time.Time { return past }))
	require.NoError(t, err)
	tok, err := old.Issue(testUserID, "1", "Supervisor")
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "TOKEN_EXPIRED", errorCode(t, resp))
}

// Caso 8: RequireRole sin AuthMiddleware previo → 403 MISSING_TOKEN.
func TestRequireRole_SinIdentidad_Retorna403(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(nil, false)})
	app.Get("/protected", apphttp.RequireRole(entity.Roles()...), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp := doRequest(t, app, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, resp))
}
