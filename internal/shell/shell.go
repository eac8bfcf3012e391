package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/flicky/storefront/internal/client"
	"github.com/flicky/storefront/internal/model"
	"github.com/flicky/storefront/internal/notify"
	"github.com/flicky/storefront/internal/service"
	"github.com/flicky/storefront/internal/session"
)

var (
	ErrUnknownView     = errors.New("unknown view")
	ErrForbiddenView   = errors.New("view requires admin role")
	ErrViewUnavailable = errors.New("view unavailable")
	ErrNoDraft         = errors.New("no order draft")
	ErrUnknownEvent    = errors.New("unknown event")
)

type Services struct {
	Auth     *service.AuthService
	Products *service.ProductService
	Checkout *service.CheckoutService
	Orders   *service.OrderService
}

// Result is the outcome of one handled event. Err has already been shown on the
// notification surface when it is non-nil.
type Result struct {
	View View
	Err  error
}

// State is a point-in-time copy of everything a view needs to render.
type State struct {
	View       View
	User       *model.User
	Nav        []View
	Notice     string
	Products   []model.Product
	Quantities map[string]int
	Draft      *model.OrderDraft
	Orders     []model.Order
}

func (s State) LoggedIn() bool { return s.User != nil }

type Shell struct {
	svc     Services
	notices *notify.Surface
	log     *slog.Logger
	now     func() time.Time

	mu     sync.Mutex
	view   View
	user   *model.User
	cart   *service.Cart
	draft  *model.OrderDraft
	orders []model.Order
}

func New(svc Services, notices *notify.Surface, log *slog.Logger) *Shell {
	return &Shell{
		svc:     svc,
		notices: notices,
		log:     log.With("component", "shell"),
		now:     time.Now,
		view:    ViewLogin,
	}
}

// Start picks the initial view: dashboard when a stored session can be restored,
// login otherwise.
func (s *Shell) Start(ctx context.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	sess, err := s.svc.Auth.Restore(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			s.log.Warn("restore session", "error", err)
		}
		return Result{View: s.view}
	}

	if exp, ok := session.TokenExpiry(sess.Token); ok && !exp.After(s.now()) {
		s.log.Info("stored session expired", "expired_at", exp)
		if err := s.svc.Auth.Logout(ctx); err != nil {
			s.log.Warn("clear expired session", "error", err)
		}
		s.notices.Show("Your session has expired. Please log in again.")
		return Result{View: s.view}
	}

	user := sess.User
	s.user = &user
	s.view = ViewDashboard
	s.log.Info("session restored", "user_id", user.ID, "role", user.Role)
	return Result{View: s.view}
}

// Handle applies one event. Any notice from the previous event is dismissed first.
func (s *Shell) Handle(ctx context.Context, ev Event) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A late expiry signal for a session Start already cleared must not hide its notice.
	if _, stale := ev.(SessionExpired); !stale || s.user != nil {
		s.notices.Dismiss()
	}
	err := s.dispatch(ctx, ev)
	if err != nil {
		s.notices.Show(client.UserMessage(err))
		s.log.Warn("event failed", "event", ev.Name(), "view", s.view, "error", err)
	}
	return Result{View: s.view, Err: err}
}

// Run handles events from the channel until it is closed or ctx is done.
func (s *Shell) Run(ctx context.Context, events <-chan Event, results chan<- Result) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			res := s.Handle(ctx, ev)
			select {
			case results <- res:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (s *Shell) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{View: s.view}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	st.Nav = NavItems(st.User)
	st.Notice, _ = s.notices.Current()
	if s.cart != nil {
		st.Products = slices.Clone(s.cart.Products())
		st.Quantities = s.cart.Quantities()
	}
	if s.draft != nil {
		d := *s.draft
		d.Items = slices.Clone(d.Items)
		st.Draft = &d
	}
	st.Orders = slices.Clone(s.orders)
	return st
}

func (s *Shell) dispatch(ctx context.Context, ev Event) error {
	switch e := ev.(type) {
	case Navigate:
		return s.navigate(ctx, e.To)
	case Login:
		return s.login(ctx, e)
	case Register:
		return s.register(ctx, e)
	case SetQuantity:
		return s.updateCart(e.Product, func(c *service.Cart, id string) { c.SetQuantityText(id, e.Quantity) })
	case Increment:
		return s.updateCart(e.Product, func(c *service.Cart, id string) { c.Increment(id) })
	case Decrement:
		return s.updateCart(e.Product, func(c *service.Cart, id string) { c.Decrement(id) })
	case ProceedToCheckout:
		return s.proceedToCheckout(ctx)
	case ConfirmCheckout:
		return s.confirmCheckout(ctx)
	case CancelCheckout:
		if err := s.require("cancel checkout", ViewCheckout); err != nil {
			return err
		}
		s.draft = nil
		return s.enter(ctx, ViewCatalog)
	case AddProduct:
		return s.addProduct(ctx, e.Form)
	case SetOrderStatus:
		return s.setOrderStatus(ctx, e)
	case Refresh:
		return s.refresh(ctx)
	case Logout:
		s.logout(ctx)
		return nil
	case SessionExpired:
		if s.user == nil {
			return nil
		}
		s.logout(ctx)
		s.notices.Show("Your session has expired. Please log in again.")
		return nil
	case Dismiss:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEvent, ev.Name())
	}
}

func (s *Shell) navigate(ctx context.Context, to View) error {
	const op = "navigate"
	if _, ok := ParseView(string(to)); !ok {
		return client.Invalid(op, ErrUnknownView, fmt.Sprintf("Unknown page %q.", to))
	}
	switch {
	case s.user == nil && to.RequiresSession():
		return client.Invalid(op, ErrViewUnavailable, "Please log in first.")
	case s.user != nil && !to.RequiresSession():
		return client.Invalid(op, ErrViewUnavailable, "You are already logged in.")
	case to.AdminOnly() && !s.user.IsAdmin():
		return client.Invalid(op, ErrForbiddenView, "You do not have permission to view that page.")
	case to == ViewCheckout && s.draft == nil:
		return client.Invalid(op, ErrNoDraft, "Nothing to check out yet. Choose quantities in the catalog first.")
	}
	return s.enter(ctx, to)
}

// enter switches to v and loads the data it shows.
func (s *Shell) enter(ctx context.Context, v View) error {
	if s.view != v {
		s.log.Debug("view changed", "from", s.view, "to", v)
	}
	s.view = v

	switch v {
	case ViewCatalog:
		s.draft = nil
		return s.loadCatalog(ctx, nil)
	case ViewMyOrders, ViewAllOrders:
		s.orders = nil
		orders, err := s.listOrders(ctx, v)
		if err != nil {
			return err
		}
		s.orders = orders
	}
	return nil
}

// loadCatalog replaces the cart with one over freshly fetched products, carrying
// over keep re-clamped to the new stock levels.
// loadCatalog swaps in a freshly fetched cart. On a failed refresh (keep != nil)
// the loaded products and quantities stay as they were.
func (s *Shell) loadCatalog(ctx context.Context, keep map[string]int) error {
	cart, err := s.svc.Products.NewCart(ctx)
	if err != nil {
		if keep == nil {
			s.cart = service.NewCart(nil)
		}
		return err
	}
	for id, q := range keep {
		cart.SetQuantity(id, q)
	}
	s.cart = cart
	return nil
}

func (s *Shell) listOrders(ctx context.Context, v View) ([]model.Order, error) {
	if v == ViewAllOrders {
		return s.svc.Orders.ListAll(ctx)
	}
	return s.svc.Orders.ListMine(ctx)
}

func (s *Shell) refresh(ctx context.Context) error {
	switch s.view {
	case ViewCatalog:
		var keep map[string]int
		if s.cart != nil {
			keep = s.cart.Quantities()
		}
		return s.loadCatalog(ctx, keep)
	case ViewMyOrders, ViewAllOrders:
		orders, err := s.listOrders(ctx, s.view)
		if err != nil {
			return err
		}
		s.orders = orders
	}
	return nil
}

// require fails unless the shell currently shows v.
func (s *Shell) require(op string, v View) error {
	if s.view != v {
		return client.Invalid(op, ErrViewUnavailable, fmt.Sprintf("That action is only available on the %s page.", v))
	}
	return nil
}

func (s *Shell) login(ctx context.Context, e Login) error {
	if s.user != nil {
		return client.Invalid("login", ErrViewUnavailable, "You are already logged in.")
	}
	sess, err := s.svc.Auth.Login(ctx, e.Email, e.Password)
	if err != nil {
		return err
	}
	user := sess.User
	s.user = &user
	s.log.Info("logged in", "user_id", user.ID, "role", user.Role)
	return s.enter(ctx, ViewDashboard)
}

func (s *Shell) register(ctx context.Context, e Register) error {
	if s.user != nil {
		return client.Invalid("register", ErrViewUnavailable, "You are already logged in.")
	}
	if err := s.svc.Auth.Register(ctx, e.FullName, e.Email, e.Password); err != nil {
		return err
	}
	s.view = ViewLogin
	s.notices.Show("Registration successful! Please log in.")
	return nil
}

func (s *Shell) updateCart(ref string, apply func(c *service.Cart, id string)) error {
	if err := s.require("update cart", ViewCatalog); err != nil {
		return err
	}
	id, err := s.resolveProduct(ref)
	if err != nil {
		return err
	}
	apply(s.cart, id)
	return nil
}

func (s *Shell) proceedToCheckout(ctx context.Context) error {
	if err := s.require("checkout", ViewCatalog); err != nil {
		return err
	}
	draft, err := s.cart.BuildOrderDraft(s.user.Email)
	if err != nil {
		return err
	}
	if err := s.enter(ctx, ViewCheckout); err != nil {
		return err
	}
	s.draft = draft
	return nil
}

func (s *Shell) confirmCheckout(ctx context.Context) error {
	if err := s.require("place order", ViewCheckout); err != nil {
		return err
	}
	order, err := s.svc.Checkout.Confirm(ctx, s.draft)
	if err != nil {
		return err
	}
	s.log.Info("order placed", "order_id", order.ID, "total", order.TotalAmount.StringFixed(2))

	s.draft = nil
	s.cart = nil
	s.notices.Show("Order placed successfully!")
	return s.enter(ctx, ViewMyOrders)
}

func (s *Shell) addProduct(ctx context.Context, form service.ProductForm) error {
	if err := s.require("add product", ViewAddProduct); err != nil {
		return err
	}
	if !s.user.IsAdmin() {
		return client.Invalid("add product", ErrForbiddenView, "You do not have permission to view that page.")
	}
	product, err := s.svc.Products.Create(ctx, form)
	if err != nil {
		return err
	}
	s.log.Info("product added", "product_id", product.ID, "name", product.Name)

	if err := s.enter(ctx, ViewCatalog); err != nil {
		return err
	}
	s.notices.Show("Product added successfully!")
	return nil
}

func (s *Shell) setOrderStatus(ctx context.Context, e SetOrderStatus) error {
	if err := s.require("update order status", ViewAllOrders); err != nil {
		return err
	}
	if !s.user.IsAdmin() {
		return client.Invalid("update order status", ErrForbiddenView, "You do not have permission to view that page.")
	}
	id, err := s.resolveOrder(e.Order)
	if err != nil {
		return err
	}
	msg, err := s.svc.Orders.SetStatus(ctx, id, e.Status)
	if err != nil {
		return err
	}
	s.notices.Show(msg)

	if st, ok := model.ParseOrderStatus(e.Status); ok {
		for i := range s.orders {
			if s.orders[i].ID == id {
				s.orders[i].Status = st
			}
		}
	}
	orders, err := s.svc.Orders.ListAll(ctx)
	if err != nil {
		s.log.Warn("refresh orders after status update", "error", err)
		return nil
	}
	s.orders = orders
	return nil
}

// logout always ends on the login view, even if the stored session could not be removed.
func (s *Shell) logout(ctx context.Context) {
	if err := s.svc.Auth.Logout(ctx); err != nil {
		s.log.Warn("clear session", "error", err)
	}
	if s.user != nil {
		s.log.Info("logged out", "user_id", s.user.ID)
	}
	s.reset()
}

func (s *Shell) reset() {
	s.view = ViewLogin
	s.user = nil
	s.cart = nil
	s.draft = nil
	s.orders = nil
}
