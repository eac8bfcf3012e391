package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) Token(context.Context) (string, error) { return s.token, s.err }

// capture records the last request that reached the bottom of the chain.
func capture(last **http.Request) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		*last = req
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: req}, nil
	})
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(req)
			})
		}
	}
	var last *http.Request
	rt := Chain(capture(&last), mark("outer"), mark("inner"))

	_, err := rt.RoundTrip(httptest.NewRequest(http.MethodGet, "http://api/x", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestBearer(t *testing.T) {
	var last *http.Request

	rt := Bearer(staticTokens{token: "abc"})(capture(&last))
	req := httptest.NewRequest(http.MethodGet, "http://api/x", nil)
	_, err := rt.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", last.Header.Get("Authorization"))
	assert.Empty(t, req.Header.Get("Authorization"), "caller's request is not mutated")

	rt = Bearer(staticTokens{})(capture(&last))
	_, err = rt.RoundTrip(httptest.NewRequest(http.MethodGet, "http://api/x", nil))
	require.NoError(t, err)
	assert.Empty(t, last.Header.Get("Authorization"))

	rt = Bearer(staticTokens{err: errors.New("backend down")})(capture(&last))
	_, err = rt.RoundTrip(httptest.NewRequest(http.MethodGet, "http://api/x", nil))
	require.NoError(t, err)
	assert.Empty(t, last.Header.Get("Authorization"))

	rt = Bearer(staticTokens{token: "abc"})(capture(&last))
	req = httptest.NewRequest(http.MethodGet, "http://api/x", nil)
	req.Header.Set("Authorization", "Basic xyz")
	_, err = rt.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, "Basic xyz", last.Header.Get("Authorization"))
}

func TestRequestID(t *testing.T) {
	var last *http.Request
	rt := RequestID()(capture(&last))

	_, err := rt.RoundTrip(httptest.NewRequest(http.MethodGet, "http://api/x", nil))
	require.NoError(t, err)
	assert.Len(t, last.Header.Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "http://api/x", nil)
	req.Header.Set(RequestIDHeader, "fixed")
	_, err = rt.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, "fixed", last.Header.Get(RequestIDHeader))
}

func TestLogging_OmitsHeaders(t *testing.T) {
	var buf bytes.Buffer
	var last *http.Request
	rt := Chain(capture(&last), Logging(slog.New(slog.NewJSONHandler(&buf, nil))), Bearer(staticTokens{token: "secret-token"}))

	req := httptest.NewRequest(http.MethodGet, "http://api/api/products", nil)
	_, err := rt.RoundTrip(req.WithContext(WithRoute(req.Context(), "/api/products")))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"path":"/api/products"`)
	assert.Contains(t, buf.String(), `"status":200`)
	assert.NotContains(t, buf.String(), "secret-token")
}

func TestMetrics_CountsByRoute(t *testing.T) {
	var last *http.Request
	rt := Metrics()(capture(&last))
	before := testutil.ToFloat64(apiRequests.WithLabelValues(http.MethodGet, "/api/orders/:id", "200"))

	req := httptest.NewRequest(http.MethodGet, "http://api/api/orders/42", nil)
	_, err := rt.RoundTrip(req.WithContext(WithRoute(req.Context(), "/api/orders/:id")))
	require.NoError(t, err)

	after := testutil.ToFloat64(apiRequests.WithLabelValues(http.MethodGet, "/api/orders/:id", "200"))
	assert.Equal(t, before+1, after)

	failing := Metrics()(RoundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("refused")
	}))
	errorsBefore := testutil.ToFloat64(apiRequests.WithLabelValues(http.MethodGet, "/x", "error"))
	_, err = failing.RoundTrip(httptest.NewRequest(http.MethodGet, "http://api/x", nil))
	assert.Error(t, err)
	assert.Equal(t, errorsBefore+1, testutil.ToFloat64(apiRequests.WithLabelValues(http.MethodGet, "/x", "error")))
}
