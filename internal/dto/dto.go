package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The API speaks plain JSON numbers for money.
	decimal.MarshalJSONWithoutQuotes = true
}

// --- Auth ---

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type RegisterResponse struct {
	Message string       `json:"message,omitempty"`
	User    UserResponse `json:"user"`
}

// --- Product ---

type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" binding:"required"`
	Stock       int             `json:"stock" binding:"min=0"`
	Image       string          `json:"image" binding:"required"`
}

type ProductResponse struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category,omitempty"`
	Stock       int             `json:"stock"`
	Image       string          `json:"image,omitempty"`
}

// --- Order ---

type OrderProductRequest struct {
	ProductName string          `json:"productName" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required,min=1"`
	Price       decimal.Decimal `json:"price"`
}

type CreateOrderRequest struct {
	UserEmail string                `json:"userEmail" binding:"required"`
	Products  []OrderProductRequest `json:"products" binding:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Ref is a server reference that arrives either populated as an object or as a bare ID string.
type Ref struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}
	type plain Ref
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Ref(p)
	return nil
}

type OrderItemResponse struct {
	Product  *Ref `json:"product"`
	Quantity int  `json:"quantity"`
}

type OrderResponse struct {
	ID          string              `json:"_id"`
	User        *Ref                `json:"user,omitempty"`
	Products    []OrderItemResponse `json:"products"`
	TotalAmount decimal.Decimal     `json:"totalAmount"`
	Status      string              `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// --- Errors ---

type ErrorResponse struct {
	Message string `json:"message"`
}
