package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/flicky/storefront/internal/middleware"
	"github.com/flicky/storefront/internal/session"
)

const DefaultCheckInterval = 30 * time.Second

// SessionWatcher polls the stored bearer token and signals once it has expired.
type SessionWatcher struct {
	tokens   middleware.TokenSource
	interval time.Duration
	now      func() time.Time
	log      *slog.Logger
	expired  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewSessionWatcher(tokens middleware.TokenSource, interval time.Duration, log *slog.Logger) *SessionWatcher {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	return &SessionWatcher{
		tokens:   tokens,
		interval: interval,
		now:      time.Now,
		log:      log.With("component", "session_watcher"),
		expired:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Expired delivers at most one pending signal at a time.
func (w *SessionWatcher) Expired() <-chan struct{} { return w.expired }

func (w *SessionWatcher) Start(ctx context.Context) {
	go func() {
		w.check(ctx)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.check(ctx)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	w.log.Debug("session watcher started", "interval", w.interval)
}

func (w *SessionWatcher) Stop() { w.stopOnce.Do(func() { close(w.done) }) }

func (w *SessionWatcher) check(ctx context.Context) {
	token, err := w.tokens.Token(ctx)
	if err != nil {
		w.log.Error("read token", "error", err)
		return
	}
	if token == "" {
		return
	}
	exp, ok := session.TokenExpiry(token)
	if !ok || exp.After(w.now()) {
		return
	}

	select {
	case w.expired <- struct{}{}:
		w.log.Info("session expired", "expired_at", exp)
	default:
	}
}
