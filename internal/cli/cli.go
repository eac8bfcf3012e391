// Package cli runs the interactive storefront terminal.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/flicky/storefront/internal/client"
	"github.com/flicky/storefront/internal/handler"
	"github.com/flicky/storefront/internal/shell"
	"github.com/flicky/storefront/internal/view"
)

type App struct {
	shell   *shell.Shell
	in      io.Reader
	out     io.Writer
	log     *slog.Logger
	expired <-chan struct{}
}

type Option func(*App)

// WithExpiry logs the user out whenever a value arrives on ch.
func WithExpiry(ch <-chan struct{}) Option {
	return func(a *App) { a.expired = ch }
}

func New(sh *shell.Shell, in io.Reader, out io.Writer, log *slog.Logger, opts ...Option) *App {
	a := &App{shell: sh, in: in, out: out, log: log.With("component", "cli")}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run reads commands until quit, end of input or ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.shell.Start(ctx)
	a.render()

	lines := make(chan string)
	go a.readLines(ctx, lines)

	events := make(chan shell.Event)
	results := make(chan shell.Result)
	runErr := make(chan error, 1)
	go func() { runErr <- a.shell.Run(ctx, events, results) }()

	stop := func() error {
		close(events)
		return <-runErr
	}
	send := func(ev shell.Event) error {
		select {
		case events <- ev:
		case err := <-runErr:
			return err
		}
		select {
		case <-results:
		case err := <-runErr:
			return err
		}
		a.render()
		return nil
	}

	for {
		a.prompt()
		select {
		case <-ctx.Done():
			cancel()
			<-runErr
			return ctx.Err()
		case <-a.expired:
			if err := send(shell.SessionExpired{}); err != nil {
				return err
			}
		case line, ok := <-lines:
			if !ok {
				return stop()
			}
			ev, err := handler.Parse(line)
			if err != nil {
				fmt.Fprintf(a.out, "%s\n", client.UserMessage(err))
				continue
			}
			switch ev.(type) {
			case nil:
				continue
			case handler.Quit:
				return stop()
			case handler.Help:
				fmt.Fprint(a.out, handler.HelpText())
				continue
			}
			if err := send(ev); err != nil {
				return err
			}
		}
	}
}

func (a *App) readLines(ctx context.Context, lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(a.in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		a.log.Error("read input", "error", err)
	}
}

func (a *App) render() {
	fmt.Fprintln(a.out)
	if err := view.Render(a.out, a.shell.State()); err != nil {
		a.log.Error("render", "error", err)
	}
}

func (a *App) prompt() {
	fmt.Fprint(a.out, "> ")
}
