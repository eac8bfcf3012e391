package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/flicky/storefront/internal/client"
	"github.com/flicky/storefront/internal/model"
	"github.com/flicky/storefront/internal/repository"
	"github.com/flicky/storefront/internal/session"
)

var ErrInvalidStatus = errors.New("invalid order status")

type OrderService struct {
	orderRepo repository.OrderRepository
	sessions  *session.Store
}

func NewOrderService(orderRepo repository.OrderRepository, sessions *session.Store) *OrderService {
	return &OrderService{orderRepo: orderRepo, sessions: sessions}
}

func (s *OrderService) ListMine(ctx context.Context) ([]model.Order, error) {
	email, err := s.sessions.Email(ctx)
	if err != nil {
		return nil, fmt.Errorf("read session email: %w", err)
	}
	if strings.TrimSpace(email) == "" {
		return nil, client.Invalid("list my orders", ErrMissingIdentity, "User email not available to fetch orders. Please log in again.")
	}
	return s.orderRepo.ListMine(ctx)
}

func (s *OrderService) ListAll(ctx context.Context) ([]model.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

// SetStatus returns the confirmation message shown after a successful update.
func (s *OrderService) SetStatus(ctx context.Context, orderID, status string) (string, error) {
	st, ok := model.ParseOrderStatus(status)
	if !ok {
		return "", client.Invalid("update order status", ErrInvalidStatus,
			fmt.Sprintf("Invalid status %q. Choose one of: %s.", status, statusList()))
	}
	if strings.TrimSpace(orderID) == "" {
		return "", client.Invalid("update order status", ErrMissingField, "Order ID is required.")
	}

	order, err := s.orderRepo.UpdateStatus(ctx, orderID, st)
	if err != nil {
		return "", err
	}
	if order.ID == "" {
		order.ID = orderID
	}
	return fmt.Sprintf("Order %s... status updated to %s.", order.ShortID(), st), nil
}

func statusList() string {
	names := make([]string, len(model.OrderStatuses))
	for i, st := range model.OrderStatuses {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}
