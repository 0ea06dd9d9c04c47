package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	gen "github.com/kailas-cloud/symptomd/internal/transport/generated"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doAuth(t *testing.T, mw func(http.Handler) http.Handler, path, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, http.NoBody)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rr, req)
	return rr
}

func TestAuthMiddleware_EmptyKeys_PassThrough(t *testing.T) {
	for _, keys := range [][]string{nil, {"", ""}} {
		mw := BearerAuthMiddleware(keys, keys)
		for _, path := range []string{"/api/v1/symptoms", "/api/v1/admin/model"} {
			if rr := doAuth(t, mw, path, ""); rr.Code != http.StatusOK {
				t.Errorf("keys %q path %s: got %d, want %d", keys, path, rr.Code, http.StatusOK)
			}
		}
	}
}

func TestAuthMiddleware_MissingHeader_401(t *testing.T) {
	rr := doAuth(t, BearerAuthMiddleware([]string{"secret"}, nil), "/api/v1/symptoms", "")

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("missing header: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}

	var errResp gen.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != gen.ErrorResponseCodeUnauthorized {
		t.Errorf("error code: got %s, want %s", errResp.Code, gen.ErrorResponseCodeUnauthorized)
	}
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		api    []string
		admin  []string
		path   string
		header string
		want   int
	}{
		{"basic scheme", []string{"secret"}, nil, "/api/v1/symptoms", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"invalid token", []string{"secret"}, nil, "/api/v1/symptoms", "Bearer wrong-key", http.StatusUnauthorized},
		{"valid token", []string{"secret"}, nil, "/api/v1/symptoms", "Bearer secret", http.StatusOK},
		{"second key", []string{"key1", "key2"}, nil, "/api/v1/symptoms", "Bearer key2", http.StatusOK},
		{"admin key on user route", []string{"user"}, []string{"root"}, "/api/v1/symptoms", "Bearer root", http.StatusOK},
		{"user key on admin route", []string{"user"}, []string{"root"}, "/api/v1/admin/model", "Bearer user", http.StatusForbidden},
		{"admin key on admin route", []string{"user"}, []string{"root"}, "/api/v1/admin/model", "Bearer root", http.StatusOK},
		{"admin falls back to api keys", []string{"user"}, nil, "/api/v1/admin/model", "Bearer user", http.StatusOK},
		{"open user routes with admin keys only", nil, []string{"root"}, "/api/v1/symptoms", "", http.StatusOK},
		{"admin only still guarded", nil, []string{"root"}, "/api/v1/admin/model/reload", "", http.StatusUnauthorized},
		{"empty api key ignored", []string{""}, []string{"root"}, "/api/v1/symptoms", "", http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := doAuth(t, BearerAuthMiddleware(tc.api, tc.admin), tc.path, tc.header)
			if rr.Code != tc.want {
				t.Errorf("got %d, want %d", rr.Code, tc.want)
			}
		})
	}
}

func TestAuthMiddleware_ExemptPaths(t *testing.T) {
	mw := BearerAuthMiddleware([]string{"secret"}, []string{"root"})
	for _, path := range []string{"/health", "/metrics"} {
		if rr := doAuth(t, mw, path, ""); rr.Code != http.StatusOK {
			t.Errorf("exempt path %s: got %d, want %d", path, rr.Code, http.StatusOK)
		}
	}
}
