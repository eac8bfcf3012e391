package repository

import (
	"context"

	"github.com/flicky/storefront/internal/client"
	"github.com/flicky/storefront/internal/dto"
	"github.com/flicky/storefront/internal/model"
)

type ProductRepository interface {
	List(ctx context.Context) ([]model.Product, error)
	Create(ctx context.Context, product *model.Product) error
}

type apiProductRepo struct{ client *client.Client }

func NewProductRepository(c *client.Client) ProductRepository {
	return &apiProductRepo{client: c}
}

func (r *apiProductRepo) List(ctx context.Context) ([]model.Product, error) {
	resp, err := r.client.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	products := make([]model.Product, 0, len(resp))
	for _, p := range resp {
		products = append(products, toProduct(p))
	}
	return products, nil
}

// Create posts the product and copies the server-assigned fields back into product.
func (r *apiProductRepo) Create(ctx context.Context, product *model.Product) error {
	resp, err := r.client.CreateProduct(ctx, dto.CreateProductRequest{
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		Stock:       product.Stock,
		Image:       product.Image,
	})
	if err != nil {
		return err
	}
	if resp.ID != "" {
		*product = toProduct(*resp)
	}
	return nil
}

func toProduct(p dto.ProductResponse) model.Product {
	stock := p.Stock
	if stock < 0 {
		stock = 0
	}
	return model.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       stock,
		Image:       p.Image,
	}
}
