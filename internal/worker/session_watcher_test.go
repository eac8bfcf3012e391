package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct{ token string }

func (s *staticTokens) Token(context.Context) (string, error) { return s.token, nil }

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
	require.NoError(t, err)
	return token
}

func newWatcher(tokens *staticTokens) *SessionWatcher {
	return NewSessionWatcher(tokens, 5*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSessionWatcher_SignalsExpiredToken(t *testing.T) {
	w := newWatcher(&staticTokens{token: signed(t, time.Now().Add(-time.Minute))})
	w.Start(context.Background())
	defer w.Stop()

	select {
	case <-w.Expired():
	case <-time.After(time.Second):
		t.Fatal("expected expiry signal")
	}
}

func TestSessionWatcher_ChecksOnStart(t *testing.T) {
	tokens := &staticTokens{token: signed(t, time.Now().Add(-time.Minute))}
	w := NewSessionWatcher(tokens, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	w.Start(context.Background())
	defer w.Stop()

	select {
	case <-w.Expired():
	case <-time.After(time.Second):
		t.Fatal("expected expiry signal before the first tick")
	}
}

func TestSessionWatcher_CheckIgnoresValidAndMissingTokens(t *testing.T) {
	tokens := &staticTokens{}
	w := newWatcher(tokens)

	w.check(context.Background())
	tokens.token = signed(t, time.Now().Add(time.Hour))
	w.check(context.Background())
	tokens.token = "opaque-token"
	w.check(context.Background())

	assert.Empty(t, w.Expired())
}

func TestSessionWatcher_SingleSignalPending(t *testing.T) {
	w := newWatcher(&staticTokens{token: signed(t, time.Now().Add(-time.Minute))})

	w.check(context.Background())
	w.check(context.Background())
	assert.Len(t, w.Expired(), 1)
}

func TestSessionWatcher_StopTwice(t *testing.T) {
	w := newWatcher(&staticTokens{})
	w.Start(context.Background())
	w.Stop()
	assert.NotPanics(t, w.Stop)
}
