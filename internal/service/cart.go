package service

import (
	"errors"
	"maps"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/flicky/storefront/internal/client"
	"github.com/flicky/storefront/internal/model"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrMissingIdentity = errors.New("user email unknown")
)

// Cart is the transient quantity selection over one fetched product list.
type Cart struct {
	products   []model.Product
	index      map[string]int
	quantities map[string]int
}

func NewCart(products []model.Product) *Cart {
	c := &Cart{
		products:   products,
		index:      make(map[string]int, len(products)),
		quantities: make(map[string]int),
	}
	for i, p := range products {
		c.index[p.ID] = i
	}
	return c
}

func (c *Cart) Products() []model.Product { return c.products }

func (c *Cart) Product(id string) (model.Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return model.Product{}, false
	}
	return c.products[i], true
}

func (c *Cart) Quantity(productID string) int { return c.quantities[productID] }

// Quantities returns a copy of every quantity set so far, including zeros.
func (c *Cart) Quantities() map[string]int {
	return maps.Clone(c.quantities)
}

// SetQuantity stores the requested quantity clamped into [0, stock] and returns it.
// Unknown products are ignored.
func (c *Cart) SetQuantity(productID string, requested int) (int, bool) {
	p, ok := c.Product(productID)
	if !ok {
		return 0, false
	}
	q := ClampQuantity(requested, p.Stock)
	c.quantities[productID] = q
	return q, true
}

// SetQuantityText is SetQuantity for raw form input; non-numeric text counts as 0.
func (c *Cart) SetQuantityText(productID, text string) (int, bool) {
	return c.SetQuantity(productID, ParseQuantity(text))
}

func (c *Cart) Increment(productID string) (int, bool) {
	return c.SetQuantity(productID, c.Quantity(productID)+1)
}

func (c *Cart) Decrement(productID string) (int, bool) {
	return c.SetQuantity(productID, c.Quantity(productID)-1)
}

// BuildOrderDraft collects every product with a positive quantity, in catalog order.
func (c *Cart) BuildOrderDraft(userEmail string) (*model.OrderDraft, error) {
	draft := &model.OrderDraft{UserEmail: userEmail, Total: decimal.Zero}
	for _, p := range c.products {
		q := c.quantities[p.ID]
		if q <= 0 {
			continue
		}
		item := model.LineItem{ProductName: p.Name, Quantity: q, Price: p.Price}
		draft.Items = append(draft.Items, item)
		draft.Total = draft.Total.Add(item.Subtotal())
	}

	if len(draft.Items) == 0 {
		return nil, client.Invalid("build order draft", ErrEmptyCart, "Your cart is empty. Please add products before proceeding to checkout.")
	}
	if strings.TrimSpace(userEmail) == "" {
		return nil, client.Invalid("build order draft", ErrMissingIdentity, "User email not found. Please log in again.")
	}
	return draft, nil
}

func ClampQuantity(requested, stock int) int {
	if stock < 0 {
		stock = 0
	}
	return max(0, min(requested, stock))
}

// ParseQuantity reads a leading, optionally signed, decimal integer and ignores the rest,
// so "3 boxes" is 3 and "abc" is 0. Out-of-range values saturate.
func ParseQuantity(text string) int {
	s := strings.TrimSpace(text)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		if s[0] == '-' {
			return math.MinInt
		}
		return math.MaxInt
	}
	if n > math.MaxInt {
		return math.MaxInt
	}
	if n < math.MinInt {
		return math.MinInt
	}
	return int(n)
}
