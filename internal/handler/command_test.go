package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flicky/storefront/internal/client"
	"github.com/flicky/storefront/internal/service"
	"github.com/flicky/storefront/internal/shell"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want shell.Event
	}{
		{"login bob@example.com secret", shell.Login{Email: "bob@example.com", Password: "secret"}},
		{`register "Bob Smith" bob@example.com pw`, shell.Register{FullName: "Bob Smith", Email: "bob@example.com", Password: "pw"}},
		{"go my-orders", shell.Navigate{To: shell.ViewMyOrders}},
		{"open catalog", shell.Navigate{To: shell.ViewCatalog}},
		{"qty 2 5", shell.SetQuantity{Product: "2", Quantity: "5"}},
		{"add 1", shell.Increment{Product: "1"}},
		{"remove 665f", shell.Decrement{Product: "665f"}},
		{"checkout", shell.ProceedToCheckout{}},
		{"CONFIRM", shell.ConfirmCheckout{}},
		{"cancel", shell.CancelCheckout{}},
		{"status 1 shipped", shell.SetOrderStatus{Order: "1", Status: "shipped"}},
		{"refresh", shell.Refresh{}},
		{"logout", shell.Logout{}},
		{"ok", shell.Dismiss{}},
		{"dismiss", shell.Dismiss{}},
		{"help", Help{}},
		{"exit", Quit{}},
		{
			`new-product "Desk Lamp" 'LED, dimmable' 14.99 Home 10 https://img.example.com/lamp.png`,
			shell.AddProduct{Form: service.ProductForm{
				Name: "Desk Lamp", Description: "LED, dimmable", Price: "14.99",
				Category: "Home", Stock: "10", Image: "https://img.example.com/lamp.png",
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			ev, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev)
		})
	}
}

func TestParse_Blank(t *testing.T) {
	ev, err := Parse("   ")
	require.NoError(t, err)
	assert.Nil(t, ev)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("fly away")
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.True(t, client.IsKind(err, client.KindValidation))

	_, err = Parse("login bob@example.com")
	assert.ErrorIs(t, err, ErrUsage)
	assert.Equal(t, "Usage: login <email> <password>", client.UserMessage(err))

	_, err = Parse(`login "bob`)
	assert.ErrorIs(t, err, ErrUsage)

	_, err = Parse("go cart")
	assert.ErrorIs(t, err, shell.ErrUnknownView)
}

func TestHelpText(t *testing.T) {
	text := HelpText()
	for _, name := range helpOrder {
		assert.Contains(t, text, commands[name].usage)
	}
}
