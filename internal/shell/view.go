// Package shell holds the top-level navigation state machine of the storefront client.
package shell

import (
	"strings"

	"github.com/flicky/storefront/internal/model"
)

type View string

const (
	ViewLogin      View = "login"
	ViewRegister   View = "register"
	ViewDashboard  View = "dashboard"
	ViewCatalog    View = "catalog"
	ViewAddProduct View = "addProduct"
	ViewCheckout   View = "checkout"
	ViewMyOrders   View = "myOrders"
	ViewAllOrders  View = "allOrders"
)

var viewAliases = map[string]View{
	"login":       ViewLogin,
	"register":    ViewRegister,
	"signup":      ViewRegister,
	"dashboard":   ViewDashboard,
	"home":        ViewDashboard,
	"catalog":     ViewCatalog,
	"products":    ViewCatalog,
	"addproduct":  ViewAddProduct,
	"add-product": ViewAddProduct,
	"checkout":    ViewCheckout,
	"myorders":    ViewMyOrders,
	"my-orders":   ViewMyOrders,
	"orders":      ViewMyOrders,
	"allorders":   ViewAllOrders,
	"all-orders":  ViewAllOrders,
	"admin":       ViewAllOrders,
}

// ParseView accepts view names case-insensitively, plus a few aliases.
func ParseView(s string) (View, bool) {
	v, ok := viewAliases[strings.ToLower(strings.TrimSpace(s))]
	return v, ok
}

func (v View) AdminOnly() bool {
	return v == ViewAddProduct || v == ViewAllOrders
}

func (v View) RequiresSession() bool {
	return v != ViewLogin && v != ViewRegister
}

// NavItems lists the views offered in the navigation bar for the given user.
// A nil user means logged out.
func NavItems(user *model.User) []View {
	if user == nil {
		return []View{ViewLogin, ViewRegister}
	}
	items := []View{ViewDashboard, ViewCatalog, ViewMyOrders}
	if user.IsAdmin() {
		items = append(items, ViewAddProduct, ViewAllOrders)
	}
	return items
}

// CanView reports whether user may see v at all. It ignores transient
// preconditions such as checkout needing a draft.
func CanView(user *model.User, v View) bool {
	if user == nil {
		return !v.RequiresSession()
	}
	if !v.RequiresSession() {
		return false
	}
	return !v.AdminOnly() || user.IsAdmin()
}
