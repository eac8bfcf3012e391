// Package middleware holds http.RoundTripper decorators for the storefront API client.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

type Middleware func(http.RoundTripper) http.RoundTripper

type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

// Chain wraps base so that the first middleware is the outermost.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

type routeKey struct{}

// WithRoute records the route template ("/api/orders/:id") used as a low-cardinality label.
func WithRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, routeKey{}, route)
}

func routeFrom(req *http.Request) string {
	if r, ok := req.Context().Value(routeKey{}).(string); ok && r != "" {
		return r
	}
	return req.URL.Path
}

func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(RequestIDHeader) != "" {
				return next.RoundTrip(req)
			}
			req = req.Clone(req.Context())
			req.Header.Set(RequestIDHeader, uuid.NewString())
			return next.RoundTrip(req)
		})
	}
}

// Logging writes one record per request. Headers are never logged.
func Logging(log *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)
			attrs := []any{
				"request_id", req.Header.Get(RequestIDHeader),
				"method", req.Method,
				"path", routeFrom(req),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err != nil {
				log.Error("api request failed", append(attrs, "error", err)...)
				return nil, err
			}
			log.Info("api request", append(attrs, "status", resp.StatusCode)...)
			return resp, nil
		})
	}
}
