package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/flicky/storefront/internal/client"
	"github.com/flicky/storefront/internal/model"
	"github.com/flicky/storefront/internal/repository"
)

var ErrInvalidDraft = errors.New("invalid order draft")

type CheckoutService struct {
	orderRepo repository.OrderRepository
}

func NewCheckoutService(orderRepo repository.OrderRepository) *CheckoutService {
	return &CheckoutService{orderRepo: orderRepo}
}

// Confirm submits the draft as an order. The draft is never modified.
func (s *CheckoutService) Confirm(ctx context.Context, draft *model.OrderDraft) (*model.Order, error) {
	if draft == nil || len(draft.Items) == 0 || strings.TrimSpace(draft.UserEmail) == "" {
		return nil, client.Invalid("place order", ErrInvalidDraft, "Invalid order details. Please go back and try again.")
	}
	order, err := s.orderRepo.Create(ctx, *draft)
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	return order, nil
}
