package middleware

import (
	"context"
	"net/http"
)

// TokenSource yields the current bearer token, or "" when no session is active.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Bearer attaches "Authorization: Bearer <token>" whenever a token is available.
// Requests that already carry an Authorization header are left alone.
func Bearer(tokens TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("Authorization") != "" {
				return next.RoundTrip(req)
			}
			token, err := tokens.Token(req.Context())
			if err != nil || token == "" {
				return next.RoundTrip(req)
			}
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
			return next.RoundTrip(req)
		})
	}
}
