package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flicky/storefront/internal/client"
	"github.com/flicky/storefront/internal/model"
	"github.com/flicky/storefront/internal/session"
)

func newTestSessions(t *testing.T) *session.Store {
	t.Helper()
	return session.NewStore(session.NewMemoryBackend(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func saveSession(t *testing.T, s *session.Store, user model.User) {
	t.Helper()
	require.NoError(t, s.Save(context.Background(), "token-"+user.Email, user))
}

type mockUserRepo struct {
	passwords map[string]string
	users     map[string]*model.User
	calls     int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{passwords: make(map[string]string), users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Register(_ context.Context, name, email, password string) (*model.User, error) {
	m.calls++
	if _, ok := m.users[email]; ok {
		return nil, &client.Error{Op: "register", Kind: client.KindAPI, Status: 400, Message: "User already exists", Err: client.ErrAPI}
	}
	u := &model.User{ID: "u-" + email, Name: name, Email: email, Role: model.RoleUser}
	m.users[email] = u
	m.passwords[email] = password
	return u, nil
}

func (m *mockUserRepo) Login(_ context.Context, email, password string) (string, *model.User, error) {
	m.calls++
	u, ok := m.users[email]
	if !ok || m.passwords[email] != password {
		return "", nil, &client.Error{Op: "login", Kind: client.KindAPI, Status: 401, Message: "Invalid email or password", Err: client.ErrAPI}
	}
	return "token-" + email, u, nil
}

type mockProductRepo struct {
	products []model.Product
	created  []model.Product
	err      error
}

func (m *mockProductRepo) List(context.Context) ([]model.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func (m *mockProductRepo) Create(_ context.Context, p *model.Product) error {
	if m.err != nil {
		return m.err
	}
	p.ID = "p-" + p.Name
	m.created = append(m.created, *p)
	return nil
}

type mockOrderRepo struct {
	orders map[string]*model.Order
	drafts []model.OrderDraft
	calls  int
	err    error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[string]*model.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, draft model.OrderDraft) (*model.Order, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	m.drafts = append(m.drafts, draft)
	o := &model.Order{ID: "order-1234567890", TotalAmount: draft.Total, Status: model.OrderStatusPending}
	m.orders[o.ID] = o
	return o, nil
}

func (m *mockOrderRepo) ListMine(context.Context) ([]model.Order, error) {
	m.calls++
	return m.list(), m.err
}

func (m *mockOrderRepo) ListAll(context.Context) ([]model.Order, error) {
	m.calls++
	return m.list(), m.err
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, &client.Error{Op: "update order status", Kind: client.KindAPI, Status: 404, Message: "Order not found", Err: client.ErrAPI}
	}
	o.Status = status
	return o, nil
}

func (m *mockOrderRepo) list() []model.Order {
	var out []model.Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out
}
