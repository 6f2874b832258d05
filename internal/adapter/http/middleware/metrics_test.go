package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		label      string
		statusCode int
	}{
		{
			name:       "normalizes account path",
			method:     http.MethodGet,
			path:       "/api/v1/accounts/ABC123",
			label:      "/api/v1/accounts/:id",
			statusCode: http.StatusTeapot,
		},
		{
			name:       "keeps non-matching path as-is",
			method:     http.MethodPost,
			path:       "/health",
			label:      "/health",
			statusCode: http.StatusCreated,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewHTTPMetrics(prometheus.NewRegistry())

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(tc.statusCode)
			})

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()

			m.Wrap(next).ServeHTTP(rr, req)

			if !handlerCalled {
				t.Fatalf("expected handler to be called")
			}

			count := testutil.ToFloat64(m.requestsTotal.WithLabelValues(tc.method, tc.label, strconv.Itoa(tc.statusCode)))
			if count != 1 {
				t.Fatalf("expected request counter 1, got %v", count)
			}

			if got := testutil.ToFloat64(m.requestsInFlight); got != 0 {
				t.Fatalf("expected in-flight gauge back to 0, got %v", got)
			}

			if got := testutil.CollectAndCount(m.requestDuration); got != 1 {
				t.Fatalf("expected one duration series, got %d", got)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "account path",
			input:    "/api/v1/accounts/01HV3K",
			expected: "/api/v1/accounts/:id",
		},
		{
			name:     "account sub-resource",
			input:    "/api/v1/accounts/01HV3K/transactions",
			expected: "/api/v1/accounts/:id/transactions",
		},
		{
			name:     "transaction entries",
			input:    "/api/v1/transactions/SKY260310143015ABC123/entries",
			expected: "/api/v1/transactions/:code/entries",
		},
		{
			name:     "collection root",
			input:    "/api/v1/accounts",
			expected: "/api/v1/accounts",
		},
		{
			name:     "non-matching path",
			input:    "/api/v1/payments",
			expected: "/api/v1/payments",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizePath(tc.input); got != tc.expected {
				t.Fatalf("normalizePath(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
