package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/instock-api/internal/application/auth"
	"github.com/jhoicas/instock-api/internal/application/dto"
	"github.com/jhoicas/instock-api/internal/application/inventory"
	"github.com/jhoicas/instock-api/internal/domain"
	"github.com/jhoicas/instock-api/internal/domain/entity"
	apphttp "github.com/jhoicas/instock-api/internal/interfaces/http"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Stubs de servicios
// ──────────────────────────────────────────────────────────────────────────────

type stubAuth struct {
	changed *auth.Identity
}

func (s *stubAuth) Login(_ context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Password != "correcta123" {
		return nil, domain.ErrInvalidCredentials
	}
	return &dto.LoginResponse{Token: "tok", Name: "María"}, nil
}

func (s *stubAuth) ChangePassword(_ context.Context, id *auth.Identity, _ dto.ChangePasswordRequest) error {
	s.changed = id
	return nil
}

type stubUsers struct{}

func (stubUsers) Register(context.Context, dto.CreateUserRequest) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: "nuevo"}, nil
}
func (stubUsers) List(context.Context, dto.PageRequest) (*dto.UserListResponse, error) {
	return &dto.UserListResponse{}, nil
}
func (stubUsers) GetByID(_ context.Context, _ *auth.Identity, id string) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: id}, nil
}
func (stubUsers) Update(_ context.Context, _ *auth.Identity, id string, _ dto.UpdateUserRequest) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: id}, nil
}
func (stubUsers) Delete(context.Context, *auth.Identity, string) error { return nil }

type stubProducts struct{}

func (stubProducts) Create(_ context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	return &dto.ProductResponse{ID: "p1", Name: in.Name}, nil
}
func (stubProducts) GetByID(_ context.Context, id string) (*dto.ProductResponse, error) {
	if id == "inexistente" {
		return nil, domain.ErrNotFound
	}
	return &dto.ProductResponse{ID: id}, nil
}
func (stubProducts) Update(_ context.Context, id string, _ dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	return &dto.ProductResponse{ID: id}, nil
}
func (stubProducts) List(context.Context, string, dto.PageRequest) (*dto.ProductListResponse, error) {
	return &dto.ProductListResponse{}, nil
}
func (stubProducts) LowStock(context.Context) ([]dto.ProductResponse, error) {
	return []dto.ProductResponse{}, nil
}
func (stubProducts) Delete(context.Context, string) error { return nil }

type stubLedger struct {
	lastSale  inventory.SaleInput
	lastEntry inventory.EntryInput
	lastKind  entity.MovementKind
}

func (s *stubLedger) RegisterSale(_ context.Context, in inventory.SaleInput) (*entity.Product, error) {
	s.lastSale = in
	if in.Quantity > 5 {
		return nil, domain.ErrInsufficientStock
	}
	return &entity.Product{ID: in.ProductID, Stock: 5 - in.Quantity}, nil
}

func (s *stubLedger) RegisterEntry(_ context.Context, in inventory.EntryInput) (*entity.Product, error) {
	s.lastEntry = in
	return &entity.Product{ID: in.ProductID, Stock: in.Quantity, AvgCost: in.UnitCost}, nil
}

func (s *stubLedger) ListMovements(_ context.Context, _ string, kind entity.MovementKind, _, _ int) ([]*entity.StockMovement, error) {
	s.lastKind = kind
	return nil, nil
}

func (s *stubLedger) Reconcile(_ context.Context, id string) (*inventory.Reconciliation, error) {
	return &inventory.Reconciliation{ProductID: id, InitialStock: 5, Entries: 2, Sales: 1, Expected: 6, Actual: 6}, nil
}

type stubReplenishment struct{}

func (stubReplenishment) GenerateReplenishmentList(context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	return []dto.ReplenishmentSuggestionDTO{}, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func buildRouterApp(t *testing.T, db apphttp.Pinger) (*fiber.App, *stubAuth, *stubLedger) {
	t.Helper()
	authSvc := &stubAuth{}
	ledger := &stubLedger{}
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(nil, false)})
	apphttp.Router(app, apphttp.RouterDeps{
		Guard:         auth.NewGuard(newCodec(t)),
		AuthUC:        authSvc,
		UserUC:        stubUsers{},
		ProductUC:     stubProducts{},
		Ledger:        ledger,
		Replenishment: stubReplenishment{},
		DB:            db,
	})
	return app, authSvc, ledger
}

func call(t *testing.T, app *fiber.App, method, path, token, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de rutas
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_LoginPublico(t *testing.T) {
	app, _, _ := buildRouterApp(t, nil)

	resp := call(t, app, http.MethodPost, "/api/auth/login", "", `{"matricula":"1","senha":"correcta123"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/auth/login", "", `{"matricula":"1","senha":"mala"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, resp))
	resp.Body.Close()
}

func TestRouter_CuerpoInvalido_Retorna400(t *testing.T) {
	app, _, _ := buildRouterApp(t, nil)

	resp := call(t, app, http.MethodPost, "/api/products/p1/sale", tokenForRole(t, "Cashier"), `{"quantity":`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))
}

func TestRouter_Venta(t *testing.T) {
	app, _, ledger := buildRouterApp(t, nil)

	resp := call(t, app, http.MethodPost, "/api/products/p1/sale", tokenForRole(t, "Cashier"), `{"quantity":2}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "p1", ledger.lastSale.ProductID)
	assert.Equal(t, testUserID, ledger.lastSale.UserID, "la venta queda atribuida al usuario del token")

	resp = call(t, app, http.MethodPost, "/api/products/p1/sale", tokenForRole(t, "Cashier"), `{"quantity":9}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, resp))
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/products/p1/sale", tokenForRole(t, "User"), `{"quantity":1}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "User no registra ventas")
}

func TestRouter_Entrada(t *testing.T) {
	app, _, ledger := buildRouterApp(t, nil)

	resp := call(t, app, http.MethodPost, "/api/products/p1/entry", tokenForRole(t, "User"), `{"quantity":4,"cost":"12.50"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, int64(4), ledger.lastEntry.Quantity)
	assert.True(t, ledger.lastEntry.UnitCost.Equal(decimal.RequireFromString("12.5")))

	resp = call(t, app, http.MethodPost, "/api/products/p1/entry", tokenForRole(t, "Cashier"), `{"quantity":4,"cost":"1"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_Movimientos(t *testing.T) {
	app, _, ledger := buildRouterApp(t, nil)
	sup := tokenForRole(t, "Supervisor")

	resp := call(t, app, http.MethodGet, "/api/products/p1/movements?kind=sale", sup, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.MovementSale, ledger.lastKind)

	resp = call(t, app, http.MethodGet, "/api/products/p1/movements?kind=otro", sup, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/products/p1/reconciliation", sup, "")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_RutasEstaticasAntesDeID(t *testing.T) {
	app, _, _ := buildRouterApp(t, nil)

	resp := call(t, app, http.MethodGet, "/api/products/low-stock", tokenForRole(t, "Cashier"), "")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/products/replenishment", tokenForRole(t, "Cashier"), "")
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/products/inexistente", tokenForRole(t, "Cashier"), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
	resp.Body.Close()
}

func TestRouter_CambioDeContrasena(t *testing.T) {
	app, authSvc, _ := buildRouterApp(t, nil)
	tok := tokenForRole(t, "Cashier")
	body := `{"senhaAtual":"actual1234","novaSenha":"nueva12345"}`

	resp := call(t, app, http.MethodPut, "/api/users/otro-id/password", tok, body)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "solo la propia contraseña")
	assert.Nil(t, authSvc.changed)

	resp = call(t, app, http.MethodPut, "/api/users/"+testUserID+"/password", tok, body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, authSvc.changed)
	assert.Equal(t, testUserID, authSvc.changed.UserID)
}

func TestRouter_UsuariosSoloSupervisor(t *testing.T) {
	app, _, _ := buildRouterApp(t, nil)

	resp := call(t, app, http.MethodGet, "/api/users", tokenForRole(t, "Cashier"), "")
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodDelete, "/api/users/x", tokenForRole(t, "Supervisor"), "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/users/me", tokenForRole(t, "User"), "")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/users", "", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_Status(t *testing.T) {
	app, _, _ := buildRouterApp(t, stubPinger{})
	resp := call(t, app, http.MethodGet, "/api/status", "", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	app, _, _ = buildRouterApp(t, stubPinger{err: errors.New("conexión rechazada")})
	resp = call(t, app, http.MethodGet, "/api/status", "", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
