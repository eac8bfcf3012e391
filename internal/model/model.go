package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

type Product struct {
	ID          string
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Stock       int
	Image       string
}

func (p Product) InStock() bool { return p.Stock > 0 }

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// OrderStatuses lists every status an admin may assign, in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

type Order struct {
	ID          string
	User        User
	Items       []OrderItem
	TotalAmount decimal.Decimal
	Status      OrderStatus
	CreatedAt   time.Time
}

// ShortID is the truncated identifier shown in order lists and messages.
func (o Order) ShortID() string {
	if len(o.ID) <= 8 {
		return o.ID
	}
	return o.ID[:8]
}

type OrderItem struct {
	ProductName string
	Quantity    int
}

// LineItem is one row of an order draft, priced at the catalog's unit price.
type LineItem struct {
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

func (l LineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderDraft is the checkout payload assembled from the cart before submission.
type OrderDraft struct {
	UserEmail string
	Items     []LineItem
	Total     decimal.Decimal
}
