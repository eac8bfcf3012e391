package shell

import "github.com/flicky/storefront/internal/service"

// Event is one user intent handled by the shell.
type Event interface {
	Name() string
}

type (
	Navigate struct{ To View }

	Login struct{ Email, Password string }

	Register struct{ FullName, Email, Password string }

	// SetQuantity carries the raw text typed into a quantity field.
	SetQuantity struct{ Product, Quantity string }

	Increment struct{ Product string }

	Decrement struct{ Product string }

	ProceedToCheckout struct{}

	ConfirmCheckout struct{}

	CancelCheckout struct{}

	AddProduct struct{ Form service.ProductForm }

	SetOrderStatus struct{ Order, Status string }

	Refresh struct{}

	Logout struct{}

	// SessionExpired is raised when the stored bearer token passes its expiry.
	SessionExpired struct{}

	Dismiss struct{}
)

func (Navigate) Name() string          { return "navigate" }
func (Login) Name() string             { return "login" }
func (Register) Name() string          { return "register" }
func (SetQuantity) Name() string       { return "set_quantity" }
func (Increment) Name() string         { return "increment" }
func (Decrement) Name() string         { return "decrement" }
func (ProceedToCheckout) Name() string { return "proceed_to_checkout" }
func (ConfirmCheckout) Name() string   { return "confirm_checkout" }
func (CancelCheckout) Name() string    { return "cancel_checkout" }
func (AddProduct) Name() string        { return "add_product" }
func (SetOrderStatus) Name() string    { return "set_order_status" }
func (Refresh) Name() string           { return "refresh" }
func (Logout) Name() string            { return "logout" }
func (SessionExpired) Name() string    { return "session_expired" }
func (Dismiss) Name() string           { return "dismiss" }
