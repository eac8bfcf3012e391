package repository

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/storefront/internal/client"
	"github.com/flicky/storefront/internal/devserver"
	"github.com/flicky/storefront/internal/model"
)

func init() { gin.SetMode(gin.TestMode) }

type tokenHolder struct{ token string }

func (h *tokenHolder) Token(context.Context) (string, error) { return h.token, nil }

type env struct {
	server *devserver.Server
	tokens *tokenHolder
	users  UserRepository
	prods  ProductRepository
	orders OrderRepository
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := devserver.New(devserver.Config{JWTSecret: "test-secret"}, log)
	_, err := srv.Store().CreateUser("Admin", "admin@example.com", "admin123", model.RoleAdmin)
	require.NoError(t, err)
	srv.Store().AddProduct(model.Product{Name: "Mug", Category: "Kitchen", Price: decimal.RequireFromString("10.00"), Stock: 5})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	tokens := &tokenHolder{}
	c := client.New(ts.URL, 5*time.Second, tokens, log)
	return &env{
		server: srv,
		tokens: tokens,
		users:  NewUserRepository(c),
		prods:  NewProductRepository(c),
		orders: NewOrderRepository(c),
	}
}

func (e *env) login(t *testing.T, email, password string) *model.User {
	t.Helper()
	token, user, err := e.users.Login(context.Background(), email, password)
	require.NoError(t, err)
	e.tokens.token = token
	return user
}

func TestUserRepository_RegisterAndLogin(t *testing.T) {
	e := newEnv(t)

	created, err := e.users.Register(context.Background(), "Bob", "bob@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Bob", created.Name)
	assert.Equal(t, model.RoleUser, created.Role)

	user := e.login(t, "bob@example.com", "secret")
	assert.Equal(t, created.ID, user.ID)
	assert.NotEmpty(t, e.tokens.token)
}

func TestProductRepository_ListAndCreate(t *testing.T) {
	e := newEnv(t)
	e.login(t, "admin@example.com", "admin123")

	p := &model.Product{Name: "Lamp", Description: "Desk", Category: "Home", Price: decimal.RequireFromString("40"), Stock: 2, Image: "https://img/lamp"}
	require.NoError(t, e.prods.Create(context.Background(), p))
	assert.NotEmpty(t, p.ID)

	products, err := e.prods.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Mug", products[0].Name)
	assert.True(t, decimal.RequireFromString("10").Equal(products[0].Price))
}

func TestProductRepository_NegativeStockClamped(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"_id":"p1","name":"Odd","price":1,"stock":-4}]`))
	}))
	defer ts.Close()

	c := client.New(ts.URL, time.Second, &tokenHolder{token: "t"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	products, err := NewProductRepository(c).List(context.Background())
	require.NoError(t, err)
	assert.Zero(t, products[0].Stock)
}

func TestOrderRepository_Lifecycle(t *testing.T) {
	e := newEnv(t)
	_, err := e.users.Register(context.Background(), "Bob", "bob@example.com", "secret")
	require.NoError(t, err)
	bob := e.login(t, "bob@example.com", "secret")

	draft := model.OrderDraft{
		UserEmail: bob.Email,
		Items:     []model.LineItem{{ProductName: "Mug", Quantity: 2, Price: decimal.RequireFromString("10.00")}},
		Total:     decimal.RequireFromString("20.00"),
	}
	order, err := e.orders.Create(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.True(t, decimal.RequireFromString("20").Equal(order.TotalAmount))

	mine, err := e.orders.ListMine(context.Background())
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mug", mine[0].Items[0].ProductName)
	assert.Equal(t, 2, mine[0].Items[0].Quantity)

	_, err = e.orders.ListAll(context.Background())
	assert.Equal(t, "Not authorized as an admin", client.UserMessage(err))

	e.login(t, "admin@example.com", "admin123")
	all, err := e.orders.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Bob", all[0].User.Name)

	updated, err := e.orders.UpdateStatus(context.Background(), order.ID, model.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, updated.Status)
}
