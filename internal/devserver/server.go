// Package devserver is an in-memory implementation of the storefront HTTP API for local
// development and tests.
package devserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flicky/storefront/internal/dto"
	"github.com/flicky/storefront/internal/model"
)

type Config struct {
	JWTSecret string
	JWTExpiry time.Duration
}

type Server struct {
	store  *Store
	secret []byte
	expiry time.Duration
	log    *slog.Logger
	engine *gin.Engine
}

func New(cfg Config, log *slog.Logger) *Server {
	if cfg.JWTExpiry <= 0 {
		cfg.JWTExpiry = 24 * time.Hour
	}
	s := &Server{
		store:  NewStore(),
		secret: []byte(cfg.JWTSecret),
		expiry: cfg.JWTExpiry,
		log:    log.With("component", "devserver"),
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	users := api.Group("/users")
	users.POST("/register", s.register)
	users.POST("/login", s.login)

	products := api.Group("/products", s.authRequired())
	products.GET("", s.listProducts)
	products.POST("", adminOnly(), s.createProduct)

	orders := api.Group("/orders", s.authRequired())
	orders.POST("", s.createOrder)
	orders.GET("/my-orders", s.myOrders)
	orders.GET("", adminOnly(), s.allOrders)
	orders.PUT("/:id", adminOnly(), s.updateOrder)

	s.engine = router
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) Store() *Store { return s.store }

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		s.log.Info("request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"request_id", c.GetHeader("X-Request-ID"),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, dto.ErrorResponse{Message: message})
}

func (s *Server) register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Please provide name, email and password.")
		return
	}
	user, err := s.store.CreateUser(req.Name, req.Email, req.Password, model.RoleUser)
	if err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			fail(c, http.StatusBadRequest, "User already exists")
			return
		}
		s.log.Error("create user", "error", err)
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}
	c.JSON(http.StatusCreated, dto.RegisterResponse{Message: "User registered successfully", User: user})
}

func (s *Server) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Please provide email and password.")
		return
	}
	user, err := s.store.Authenticate(req.Email, req.Password)
	if err != nil {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	token, err := s.generateToken(user)
	if err != nil {
		s.log.Error("generate token", "error", err)
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, dto.AuthResponse{Token: token, User: user})
}

func (s *Server) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Products())
}

func (s *Server) createProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "All fields are required.")
		return
	}
	if !req.Price.IsPositive() {
		fail(c, http.StatusBadRequest, "Price must be a positive number.")
		return
	}
	product := s.store.AddProduct(model.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Image:       req.Image,
	})
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

func (s *Server) createOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "No order items")
		return
	}
	order, err := s.store.PlaceOrder(c.GetString(ctxUserID), req.Products)
	if err != nil {
		switch {
		case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrInsufficientStock):
			fail(c, http.StatusBadRequest, err.Error())
		default:
			s.log.Error("place order", "error", err)
			fail(c, http.StatusInternalServerError, "Server error")
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func (s *Server) myOrders(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Orders(c.GetString(ctxUserID)))
}

func (s *Server) allOrders(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Orders(""))
}

func (s *Server) updateOrder(c *gin.Context) {
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Status is required")
		return
	}
	status, ok := model.ParseOrderStatus(req.Status)
	if !ok {
		fail(c, http.StatusBadRequest, "Invalid status")
		return
	}
	order, err := s.store.UpdateOrderStatus(c.Param("id"), status)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			fail(c, http.StatusNotFound, "Order not found")
			return
		}
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
