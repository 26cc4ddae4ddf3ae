package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doAuthRequest(t *testing.T, keys []string, path, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	h := BearerAuthMiddleware(keys)(okHandler())
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuth_Disabled(t *testing.T) {
	rec := doAuthRequest(t, nil, "/quote", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with auth disabled", rec.Code)
	}
}

func TestAuth_ValidKey(t *testing.T) {
	rec := doAuthRequest(t, []string{"secret1", "secret2"}, "/quote", "Bearer secret2")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	rec := doAuthRequest(t, []string{"secret1"}, "/quote", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuth_WrongScheme(t *testing.T) {
	rec := doAuthRequest(t, []string{"secret1"}, "/quote", "Basic secret1")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuth_InvalidKey(t *testing.T) {
	rec := doAuthRequest(t, []string{"secret1"}, "/quote", "Bearer wrong")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuth_ExemptPaths(t *testing.T) {
	for _, path := range []string{"/health", "/metrics", "/doc", "/openapi.yaml"} {
		rec := doAuthRequest(t, []string{"secret1"}, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200 without credentials", path, rec.Code)
		}
	}
}

func TestAuth_EmptyKeysFiltered(t *testing.T) {
	// Blank entries in the key list must not disable auth selectively or
	// admit an empty bearer token.
	rec := doAuthRequest(t, []string{"", "secret1"}, "/quote", "Bearer ")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for empty token", rec.Code)
	}
}
