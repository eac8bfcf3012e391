package devserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/storefront/internal/dto"
	"github.com/flicky/storefront/internal/model"
)

func init() { gin.SetMode(gin.TestMode) }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv := New(Config{JWTSecret: "test-secret"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := srv.Store().CreateUser("Admin", "admin@example.com", "admin123", model.RoleAdmin)
	require.NoError(t, err)
	_, err = srv.Store().CreateUser("Bob", "bob@example.com", "secret", model.RoleUser)
	require.NoError(t, err)
	srv.Store().AddProduct(model.Product{Name: "Mug", Price: decimal.RequireFromString("10.00"), Stock: 5})
	return srv
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, h http.Handler, email, password string) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/users/login", "", dto.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func TestServer_Register_Duplicate(t *testing.T) {
	h := newTestServer(t).Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/users/register", "", dto.RegisterRequest{Name: "Eve", Email: "eve@example.com", Password: "pw"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/users/register", "", dto.RegisterRequest{Name: "Eve", Email: "eve@example.com", Password: "pw"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User already exists")
}

func TestServer_Login_WrongPassword(t *testing.T) {
	h := newTestServer(t).Handler()
	rec := doJSON(t, h, http.MethodPost, "/api/users/login", "", dto.LoginRequest{Email: "bob@example.com", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")
}

func TestServer_Products_RequireToken(t *testing.T) {
	h := newTestServer(t).Handler()
	rec := doJSON(t, h, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_CreateOrder_DecrementsStock(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()
	token := login(t, h, "bob@example.com", "secret")

	rec := doJSON(t, h, http.MethodPost, "/api/orders", token, dto.CreateOrderRequest{
		UserEmail: "bob@example.com",
		Products:  []dto.OrderProductRequest{{ProductName: "Mug", Quantity: 2, Price: decimal.RequireFromString("10.00")}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Order dto.OrderResponse `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "pending", body.Order.Status)
	assert.True(t, decimal.RequireFromString("20").Equal(body.Order.TotalAmount))
	assert.Equal(t, 3, srv.Store().Products()[0].Stock)

	rec = doJSON(t, h, http.MethodPost, "/api/orders", token, dto.CreateOrderRequest{
		UserEmail: "bob@example.com",
		Products:  []dto.OrderProductRequest{{ProductName: "Mug", Quantity: 4}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient stock")
}

func TestServer_AdminRoutes(t *testing.T) {
	h := newTestServer(t).Handler()
	userToken := login(t, h, "bob@example.com", "secret")
	adminToken := login(t, h, "admin@example.com", "admin123")

	rec := doJSON(t, h, http.MethodGet, "/api/orders", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not authorized as an admin")

	rec = doJSON(t, h, http.MethodGet, "/api/orders", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPut, "/api/orders/missing", adminToken, dto.UpdateOrderStatusRequest{Status: "shipped"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodPut, "/api/orders/missing", adminToken, dto.UpdateOrderStatusRequest{Status: "lost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
