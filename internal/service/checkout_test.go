package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/storefront/internal/client"
	"github.com/flicky/storefront/internal/model"
)

func TestCheckoutService_Confirm(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewCheckoutService(repo)
	draft := &model.OrderDraft{
		UserEmail: "ann@example.com",
		Items:     []model.LineItem{{ProductName: "Mug", Quantity: 2, Price: decimal.RequireFromString("10.00")}},
		Total:     decimal.RequireFromString("20.00"),
	}

	order, err := svc.Confirm(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	require.Len(t, repo.drafts, 1)
	assert.Equal(t, "ann@example.com", repo.drafts[0].UserEmail)
}

func TestCheckoutService_Confirm_InvalidDraft(t *testing.T) {
	drafts := map[string]*model.OrderDraft{
		"nil":      nil,
		"no items": {UserEmail: "ann@example.com"},
		"no email": {Items: []model.LineItem{{ProductName: "Mug", Quantity: 1}}},
	}
	for name, draft := range drafts {
		t.Run(name, func(t *testing.T) {
			repo := newMockOrderRepo()
			_, err := NewCheckoutService(repo).Confirm(context.Background(), draft)
			assert.ErrorIs(t, err, ErrInvalidDraft)
			assert.Equal(t, "Invalid order details. Please go back and try again.", client.UserMessage(err))
			assert.Zero(t, repo.calls)
		})
	}
}

func TestCheckoutService_Confirm_ServerMessage(t *testing.T) {
	repo := newMockOrderRepo()
	repo.err = &client.Error{Op: "place order", Kind: client.KindAPI, Status: 400, Message: "insufficient stock: Mug", Err: client.ErrAPI}
	draft := &model.OrderDraft{UserEmail: "a@b.c", Items: []model.LineItem{{ProductName: "Mug", Quantity: 9}}}

	_, err := NewCheckoutService(repo).Confirm(context.Background(), draft)
	assert.Equal(t, "insufficient stock: Mug", client.UserMessage(err))
	assert.Len(t, draft.Items, 1)
}
