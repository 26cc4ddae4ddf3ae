package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func serveOnce(t *testing.T, r chi.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestMiddleware_RecordsRequest(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post("/quote", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	rr := serveOnce(t, r, "POST", "/quote")
	if rr.Code != 200 {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/quote", "200")); v < 1 {
		t.Errorf("expected http_requests_total >= 1, got %f", v)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMiddleware_StatusLabels(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post("/confirm", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	serveOnce(t, r, "POST", "/confirm")

	if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/confirm", "404")); v < 1 {
		t.Errorf("expected requests_total with status 404 >= 1, got %f", v)
	}
}

func TestMiddleware_RoutePatternLabel(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/users/{user_id}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	serveOnce(t, r, "GET", "/users/u1")
	serveOnce(t, r, "GET", "/users/u2")

	// Both requests fold into the route pattern, keeping label cardinality
	// bounded.
	if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/users/{user_id}", "200")); v < 2 {
		t.Errorf("expected requests_total for pattern >= 2, got %f", v)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "unknown"},
		{"/quote", "/quote"},
		{"/users/{user_id}", "/users/{user_id}"},
	}
	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
