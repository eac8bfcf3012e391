package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/flicky/storefront/internal/dto"
	"github.com/flicky/storefront/internal/middleware"
)

const maxBodyBytes = 4 << 20

// operation describes one API call and the texts shown when it fails.
type operation struct {
	name     string
	route    string
	auth     bool
	noToken  string
	failed   string
	network  string
	envelope string
}

var (
	opRegister = operation{
		name: "register", route: "/api/users/register",
		failed:   "Registration failed. Please try again.",
		network:  "Network error. Please check your connection.",
		envelope: "user",
	}
	opLogin = operation{
		name: "login", route: "/api/users/login",
		failed:  "Login failed. Please try again.",
		network: "Network error. Please check your connection.",
	}
	opListProducts = operation{
		name: "list products", route: "/api/products", auth: true,
		noToken: "You must be logged in to view products.",
		failed:  "Failed to fetch products.",
		network: "Network error. Could not load products.",
	}
	opCreateProduct = operation{
		name: "create product", route: "/api/products", auth: true,
		noToken:  "You must be logged in as an admin to add products.",
		failed:   "Failed to add product. Please check your input.",
		network:  "Network error. Could not add product.",
		envelope: "product",
	}
	opListOrders = operation{
		name: "list orders", route: "/api/orders", auth: true,
		noToken: "You must be logged in as an admin to view all orders.",
		failed:  "Failed to fetch all orders.",
		network: "Network error. Could not load all orders.",
	}
	opListMyOrders = operation{
		name: "list my orders", route: "/api/orders/my-orders", auth: true,
		noToken: "You must be logged in to view your orders.",
		failed:  "Failed to fetch your orders.",
		network: "Network error. Could not load your orders.",
	}
	opCreateOrder = operation{
		name: "create order", route: "/api/orders", auth: true,
		noToken:  "You are not authorized. Please log in again.",
		failed:   "Failed to place order. Please try again.",
		network:  "Network error. Could not confirm order.",
		envelope: "order",
	}
	opUpdateOrderStatus = operation{
		name: "update order status", route: "/api/orders/:id", auth: true,
		noToken:  "You must be logged in as an admin to update order status.",
		failed:   "Failed to update order status.",
		network:  "Network error. Could not update order status.",
		envelope: "order",
	}
)

// Client talks to the storefront HTTP API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     middleware.TokenSource
	log        *slog.Logger
}

type Option func(*Client)

// WithTransport replaces the base transport underneath the middleware chain.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.httpClient.Transport = rt }
}

func New(baseURL string, timeout time.Duration, tokens middleware.TokenSource, log *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		log:        log.With("component", "api-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient.Transport = otelhttp.NewTransport(middleware.Chain(
		c.httpClient.Transport,
		middleware.RequestID(),
		middleware.Metrics(),
		middleware.Logging(c.log),
		middleware.Bearer(tokens),
	))
	return c
}

func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	var user dto.UserResponse
	if err := c.do(ctx, opRegister, http.MethodPost, opRegister.route, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(ctx, opLogin, http.MethodPost, opLogin.route, req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &Error{Op: opLogin.name, Kind: KindDecode, Message: "Unexpected response from server.", Err: fmt.Errorf("%w: missing token", ErrDecode)}
	}
	return &resp, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	var products []dto.ProductResponse
	if err := c.do(ctx, opListProducts, http.MethodGet, opListProducts.route, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	var product dto.ProductResponse
	if err := c.do(ctx, opCreateProduct, http.MethodPost, opCreateProduct.route, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]dto.OrderResponse, error) {
	var orders []dto.OrderResponse
	if err := c.do(ctx, opListOrders, http.MethodGet, opListOrders.route, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) ListMyOrders(ctx context.Context) ([]dto.OrderResponse, error) {
	var orders []dto.OrderResponse
	if err := c.do(ctx, opListMyOrders, http.MethodGet, opListMyOrders.route, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	var order dto.OrderResponse
	if err := c.do(ctx, opCreateOrder, http.MethodPost, opCreateOrder.route, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status string) (*dto.OrderResponse, error) {
	var order dto.OrderResponse
	path := "/api/orders/" + url.PathEscape(orderID)
	if err := c.do(ctx, opUpdateOrderStatus, http.MethodPut, path, dto.UpdateOrderStatusRequest{Status: status}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) do(ctx context.Context, op operation, method, path string, body, out any) error {
	if op.auth {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return &Error{Op: op.name, Kind: KindUnauthenticated, Message: op.noToken, Err: fmt.Errorf("%w: %v", ErrUnauthenticated, err)}
		}
		if token == "" {
			return &Error{Op: op.name, Kind: KindUnauthenticated, Message: op.noToken, Err: ErrUnauthenticated}
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", op.name, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(middleware.WithRoute(ctx, op.route), method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("new %s request: %w", op.name, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op.name, Kind: KindNetwork, Message: op.network, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &Error{Op: op.name, Kind: KindNetwork, Message: op.network, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr dto.ErrorResponse
		_ = json.Unmarshal(data, &apiErr)
		msg := strings.TrimSpace(apiErr.Message)
		if msg == "" {
			msg = op.failed
		}
		return &Error{Op: op.name, Kind: KindAPI, Status: resp.StatusCode, Message: msg, Err: ErrAPI}
	}

	if out == nil {
		return nil
	}
	if err := decodeBody(data, op.envelope, out); err != nil {
		c.log.Warn("decode response", "op", op.name, "error", err)
		return &Error{Op: op.name, Kind: KindDecode, Message: "Unexpected response from server.", Err: fmt.Errorf("%w: %v", ErrDecode, err)}
	}
	return nil
}

// decodeBody accepts a single object either wrapped as {"<envelope>": {...}} or bare.
func decodeBody(data []byte, envelope string, out any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.New("empty body")
	}
	if envelope != "" {
		var wrapped map[string]json.RawMessage
		if json.Unmarshal(data, &wrapped) == nil {
			if inner, ok := wrapped[envelope]; ok {
				data = inner
			}
		}
	}
	return json.Unmarshal(data, out)
}
