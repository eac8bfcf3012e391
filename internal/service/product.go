package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/flicky/storefront/internal/client"
	"github.com/flicky/storefront/internal/model"
	"github.com/flicky/storefront/internal/repository"
)

var (
	ErrInvalidPrice = errors.New("invalid price")
	ErrInvalidStock = errors.New("invalid stock")
)

// ProductForm is the raw admin input for a new product.
type ProductForm struct {
	Name        string
	Description string
	Price       string
	Category    string
	Stock       string
	Image       string
}

type ProductService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// LoadProducts fetches the current catalog. Every call goes to the server.
func (s *ProductService) LoadProducts(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.List(ctx)
}

// NewCart loads the catalog and starts an empty selection over it.
func (s *ProductService) NewCart(ctx context.Context) (*Cart, error) {
	products, err := s.LoadProducts(ctx)
	if err != nil {
		return nil, err
	}
	return NewCart(products), nil
}

func (s *ProductService) Create(ctx context.Context, form ProductForm) (*model.Product, error) {
	product, err := form.validate()
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (f ProductForm) validate() (*model.Product, error) {
	const op = "add product"
	fields := []string{f.Name, f.Description, f.Price, f.Category, f.Stock, f.Image}
	for _, v := range fields {
		if strings.TrimSpace(v) == "" {
			return nil, client.Invalid(op, ErrMissingField, "All fields are required.")
		}
	}

	price, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	if err != nil || !price.IsPositive() {
		return nil, client.Invalid(op, ErrInvalidPrice, "Price must be a positive number.")
	}
	stock, err := strconv.Atoi(strings.TrimSpace(f.Stock))
	if err != nil || stock < 0 {
		return nil, client.Invalid(op, ErrInvalidStock, "Stock must be a non-negative integer.")
	}

	return &model.Product{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		Category:    strings.TrimSpace(f.Category),
		Price:       price,
		Stock:       stock,
		Image:       strings.TrimSpace(f.Image),
	}, nil
}
