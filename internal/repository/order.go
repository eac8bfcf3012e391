package repository

import (
	"context"

	"github.com/flicky/storefront/internal/client"
	"github.com/flicky/storefront/internal/dto"
	"github.com/flicky/storefront/internal/model"
)

type OrderRepository interface {
	Create(ctx context.Context, draft model.OrderDraft) (*model.Order, error)
	ListMine(ctx context.Context) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
}

type apiOrderRepo struct{ client *client.Client }

func NewOrderRepository(c *client.Client) OrderRepository {
	return &apiOrderRepo{client: c}
}

func (r *apiOrderRepo) Create(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	req := dto.CreateOrderRequest{UserEmail: draft.UserEmail}
	for _, item := range draft.Items {
		req.Products = append(req.Products, dto.OrderProductRequest{
			ProductName: item.ProductName, Quantity: item.Quantity, Price: item.Price,
		})
	}
	resp, err := r.client.CreateOrder(ctx, req)
	if err != nil {
		return nil, err
	}
	order := toOrder(*resp)
	return &order, nil
}

func (r *apiOrderRepo) ListMine(ctx context.Context) ([]model.Order, error) {
	resp, err := r.client.ListMyOrders(ctx)
	if err != nil {
		return nil, err
	}
	return toOrders(resp), nil
}

func (r *apiOrderRepo) ListAll(ctx context.Context) ([]model.Order, error) {
	resp, err := r.client.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return toOrders(resp), nil
}

func (r *apiOrderRepo) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	resp, err := r.client.UpdateOrderStatus(ctx, id, string(status))
	if err != nil {
		return nil, err
	}
	order := toOrder(*resp)
	return &order, nil
}

func toOrders(resp []dto.OrderResponse) []model.Order {
	orders := make([]model.Order, 0, len(resp))
	for _, o := range resp {
		orders = append(orders, toOrder(o))
	}
	return orders
}

func toOrder(o dto.OrderResponse) model.Order {
	order := model.Order{
		ID:          o.ID,
		TotalAmount: o.TotalAmount,
		Status:      model.OrderStatus(o.Status),
		CreatedAt:   o.CreatedAt,
	}
	if o.User != nil {
		order.User = model.User{ID: o.User.ID, Name: o.User.Name, Email: o.User.Email}
	}
	for _, item := range o.Products {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		order.Items = append(order.Items, model.OrderItem{ProductName: name, Quantity: item.Quantity})
	}
	return order
}
