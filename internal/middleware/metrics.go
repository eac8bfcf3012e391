package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_api_requests_total",
			Help: "Total number of storefront API requests",
		},
		[]string{"method", "route", "status"},
	)

	apiDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_api_request_duration_ms",
			Help:    "Duration of storefront API requests in ms",
			Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600, 3200},
		},
		[]string{"method", "route"},
	)
)

// Metrics counts requests by route and status; transport failures are labelled "error".
func Metrics() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)
			route := routeFrom(req)

			status := "error"
			if err == nil {
				status = strconv.Itoa(resp.StatusCode)
			}
			apiRequests.WithLabelValues(req.Method, route, status).Inc()
			apiDuration.WithLabelValues(req.Method, route).Observe(float64(time.Since(start).Milliseconds()))
			return resp, err
		})
	}
}
