// Package handler turns typed command lines into shell events.
package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/flicky/storefront/internal/client"
	"github.com/flicky/storefront/internal/service"
	"github.com/flicky/storefront/internal/shell"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("bad command usage")
)

// Quit ends the interactive session. The shell never sees it.
type Quit struct{}

// Help asks for the command reference. The shell never sees it.
type Help struct{}

func (Quit) Name() string { return "quit" }
func (Help) Name() string { return "help" }

type command struct {
	usage string
	args  int
	build func(args []string) (shell.Event, error)
}

var commands = map[string]command{
	"login": {"login <email> <password>", 2, func(a []string) (shell.Event, error) {
		return shell.Login{Email: a[0], Password: a[1]}, nil
	}},
	"register": {"register <name> <email> <password>", 3, func(a []string) (shell.Event, error) {
		return shell.Register{FullName: a[0], Email: a[1], Password: a[2]}, nil
	}},
	"go": {"go <page>", 1, func(a []string) (shell.Event, error) {
		v, ok := shell.ParseView(a[0])
		if !ok {
			return nil, client.Invalid("parse command", shell.ErrUnknownView, fmt.Sprintf("Unknown page %q.", a[0]))
		}
		return shell.Navigate{To: v}, nil
	}},
	"qty": {"qty <product> <quantity>", 2, func(a []string) (shell.Event, error) {
		return shell.SetQuantity{Product: a[0], Quantity: a[1]}, nil
	}},
	"add": {"add <product>", 1, func(a []string) (shell.Event, error) {
		return shell.Increment{Product: a[0]}, nil
	}},
	"remove": {"remove <product>", 1, func(a []string) (shell.Event, error) {
		return shell.Decrement{Product: a[0]}, nil
	}},
	"checkout": {"checkout", 0, func([]string) (shell.Event, error) { return shell.ProceedToCheckout{}, nil }},
	"confirm":  {"confirm", 0, func([]string) (shell.Event, error) { return shell.ConfirmCheckout{}, nil }},
	"cancel":   {"cancel", 0, func([]string) (shell.Event, error) { return shell.CancelCheckout{}, nil }},
	"status": {"status <order> <status>", 2, func(a []string) (shell.Event, error) {
		return shell.SetOrderStatus{Order: a[0], Status: a[1]}, nil
	}},
	"new-product": {"new-product <name> <description> <price> <category> <stock> <image-url>", 6, func(a []string) (shell.Event, error) {
		return shell.AddProduct{Form: service.ProductForm{
			Name: a[0], Description: a[1], Price: a[2], Category: a[3], Stock: a[4], Image: a[5],
		}}, nil
	}},
	"refresh": {"refresh", 0, func([]string) (shell.Event, error) { return shell.Refresh{}, nil }},
	"logout":  {"logout", 0, func([]string) (shell.Event, error) { return shell.Logout{}, nil }},
	"ok":      {"ok", 0, func([]string) (shell.Event, error) { return shell.Dismiss{}, nil }},
	"help":    {"help", 0, func([]string) (shell.Event, error) { return Help{}, nil }},
	"quit":    {"quit", 0, func([]string) (shell.Event, error) { return Quit{}, nil }},
}

var aliases = map[string]string{
	"dismiss": "ok",
	"exit":    "quit",
	"open":    "go",
	"?":       "help",
}

// order in which HelpText lists commands
var helpOrder = []string{
	"login", "register", "go", "qty", "add", "remove", "checkout", "confirm", "cancel",
	"status", "new-product", "refresh", "logout", "ok", "help", "quit",
}

// Parse reads one command line. A blank line yields a nil event and no error.
func Parse(line string) (shell.Event, error) {
	args, err := shellwords.Parse(line)
	if err != nil {
		return nil, client.Invalid("parse command", ErrUsage, "Could not read that command; check your quotes.")
	}
	if len(args) == 0 {
		return nil, nil
	}

	name := strings.ToLower(args[0])
	if target, ok := aliases[name]; ok {
		name = target
	}
	cmd, ok := commands[name]
	if !ok {
		return nil, client.Invalid("parse command", ErrUnknownCommand,
			fmt.Sprintf("Unknown command %q. Type help for a list of commands.", args[0]))
	}
	if len(args)-1 != cmd.args {
		return nil, client.Invalid("parse command", ErrUsage, "Usage: "+cmd.usage)
	}
	return cmd.build(args[1:])
}

func HelpText() string {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, name := range helpOrder {
		fmt.Fprintf(&b, "  %s\n", commands[name].usage)
	}
	b.WriteString("Products and orders can be given by row number, ID or ID prefix.\n")
	return b.String()
}
