package devserver

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/flicky/storefront/internal/dto"
	"github.com/flicky/storefront/internal/model"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrProductNotFound    = errors.New("product not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrOrderNotFound      = errors.New("order not found")
)

type user struct {
	id           string
	name         string
	email        string
	passwordHash []byte
	role         model.Role
}

type orderLine struct {
	productID   string
	productName string
	quantity    int
}

type order struct {
	id        string
	userID    string
	lines     []orderLine
	total     decimal.Decimal
	status    model.OrderStatus
	createdAt time.Time
}

// Store is the in-memory state behind the dev server.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*user // by lower-cased email
	byID     map[string]*user
	products []*model.Product
	orders   []*order
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]*user),
		byID:  make(map[string]*user),
		now:   time.Now,
	}
}

// newID returns a 24 hex character identifier like the ones the production API emits.
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

func (s *Store) CreateUser(name, email, password string, role model.Role) (dto.UserResponse, error) {
	key := strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[key]; ok {
		return dto.UserResponse{}, ErrUserAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("hash password: %w", err)
	}
	u := &user{id: newID(), name: name, email: strings.TrimSpace(email), passwordHash: hashed, role: role}
	s.users[key] = u
	s.byID[u.id] = u
	return toUserResponse(u), nil
}

func (s *Store) Authenticate(email, password string) (dto.UserResponse, error) {
	s.mu.RLock()
	u, ok := s.users[strings.ToLower(strings.TrimSpace(email))]
	s.mu.RUnlock()
	if !ok {
		return dto.UserResponse{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return dto.UserResponse{}, ErrInvalidCredentials
	}
	return toUserResponse(u), nil
}

func (s *Store) AddProduct(p model.Product) dto.ProductResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = newID()
	s.products = append(s.products, &p)
	return toProductResponse(&p)
}

func (s *Store) Products() []dto.ProductResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp := make([]dto.ProductResponse, 0, len(s.products))
	for _, p := range s.products {
		resp = append(resp, toProductResponse(p))
	}
	return resp
}

// PlaceOrder resolves each line by product name, checks stock for the whole order
// first, then decrements it. Totals use the stored price, not the client's.
func (s *Store) PlaceOrder(userID string, items []dto.OrderProductRequest) (dto.OrderResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[*model.Product]int)
	lines := make([]orderLine, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		p := s.productByName(item.ProductName)
		if p == nil {
			return dto.OrderResponse{}, fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductName)
		}
		wanted[p] += item.Quantity
		if wanted[p] > p.Stock {
			return dto.OrderResponse{}, fmt.Errorf("%w: %s", ErrInsufficientStock, p.Name)
		}
		lines = append(lines, orderLine{productID: p.ID, productName: p.Name, quantity: item.Quantity})
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	for p, qty := range wanted {
		p.Stock -= qty
	}

	o := &order{
		id:        newID(),
		userID:    userID,
		lines:     lines,
		total:     total,
		status:    model.OrderStatusPending,
		createdAt: s.now().UTC(),
	}
	s.orders = append(s.orders, o)
	return s.toOrderResponse(o), nil
}

// Orders returns every order, newest first; a non-empty userID restricts the result.
func (s *Store) Orders(userID string) []dto.OrderResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var selected []*order
	for _, o := range s.orders {
		if userID == "" || o.userID == userID {
			selected = append(selected, o)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].createdAt.After(selected[j].createdAt)
	})

	resp := make([]dto.OrderResponse, 0, len(selected))
	for _, o := range selected {
		resp = append(resp, s.toOrderResponse(o))
	}
	return resp
}

func (s *Store) UpdateOrderStatus(id string, status model.OrderStatus) (dto.OrderResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.id == id {
			o.status = status
			return s.toOrderResponse(o), nil
		}
	}
	return dto.OrderResponse{}, ErrOrderNotFound
}

func (s *Store) productByName(name string) *model.Product {
	for _, p := range s.products {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (s *Store) productByID(id string) *model.Product {
	for _, p := range s.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Store) toOrderResponse(o *order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:          o.id,
		TotalAmount: o.total,
		Status:      string(o.status),
		CreatedAt:   o.createdAt,
		Products:    make([]dto.OrderItemResponse, 0, len(o.lines)),
	}
	if u, ok := s.byID[o.userID]; ok {
		resp.User = &dto.Ref{ID: u.id, Name: u.name, Email: u.email}
	} else {
		resp.User = &dto.Ref{ID: o.userID}
	}
	for _, line := range o.lines {
		ref := &dto.Ref{ID: line.productID, Name: line.productName}
		if p := s.productByID(line.productID); p != nil {
			ref.Name = p.Name
		}
		resp.Products = append(resp.Products, dto.OrderItemResponse{Product: ref, Quantity: line.quantity})
	}
	return resp
}

func toUserResponse(u *user) dto.UserResponse {
	return dto.UserResponse{ID: u.id, Name: u.name, Email: u.email, Role: string(u.role)}
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Stock:       p.Stock,
		Image:       p.Image,
	}
}
