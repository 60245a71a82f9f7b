package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func tenantRouter(keys map[string]string) http.Handler {
	r := chi.NewRouter()
	r.Use(APIKeyAuth(keys))
	r.Get("/health", okHandler)
	r.Route("/v1/{tenant}", func(r chi.Router) {
		r.Use(RequireTenantMatch)
		r.Get("/scans/latest", okHandler)
	})
	return r
}

func TestAPIKeyAuth(t *testing.T) {
	h := tenantRouter(map[string]string{"acme": "key-acme", "globex": "key-globex"})

	tests := []struct {
		name string
		path string
		auth string
		want int
	}{
		{"public path", "/health", "", http.StatusOK},
		{"missing header", "/v1/acme/scans/latest", "", http.StatusUnauthorized},
		{"wrong key", "/v1/acme/scans/latest", "Bearer nope", http.StatusUnauthorized},
		{"own tenant", "/v1/acme/scans/latest", "Bearer key-acme", http.StatusOK},
		{"bare key", "/v1/acme/scans/latest", "key-acme", http.StatusOK},
		{"other tenant", "/v1/acme/scans/latest", "Bearer key-globex", http.StatusForbidden},
		{"bad tenant id", "/v1/bad%20tenant/scans/latest", "Bearer key-acme", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestAPIKeyAuthDisabled(t *testing.T) {
	h := tenantRouter(nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/acme/scans/latest", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(60, 2)
	defer rl.Close()
	h := rl.Middleware(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/acme/scans", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}

	// another client has its own bucket
	req := httptest.NewRequest(http.MethodPost, "/v1/acme/scans", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("second client status = %d", rec.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	h := HealthHandler(map[string]HealthChecker{
		"ok":   CheckFunc(func(context.Context) error { return nil }),
		"down": CheckFunc(func(context.Context) error { return errors.New("boom") }),
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestNormalizeSubreddit(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"r/projectmanagement", "projectmanagement", false},
		{"/r/SaaS", "SaaS", false},
		{"golang", "golang", false},
		{"bad name", "", true},
		{"x", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeSubreddit(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("NormalizeSubreddit(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestValidators(t *testing.T) {
	if err := ValidateScanID("6f1c1c38-3a4b-4d0e-9c59-1f0c3b2a8e11"); err != nil {
		t.Errorf("valid uuid rejected: %v", err)
	}
	if err := ValidateScanID("not-a-uuid"); err == nil {
		t.Error("invalid scan id accepted")
	}
	if err := ValidateCompetitor(SanitizeString("  \x00Trello ")); err != nil {
		t.Error(err)
	}
	if err := ValidateCompetitor(SanitizeString(" \t ")); err == nil {
		t.Error("blank competitor accepted")
	}
	if got := ValidateLimit(0); got != 20 {
		t.Errorf("ValidateLimit(0) = %d", got)
	}
	if got, err := ValidateSearchLimit(250); err != nil || got != 250 {
		t.Errorf("ValidateSearchLimit(250) = %d, %v", got, err)
	}
	if _, err := ValidateSearchLimit(-1); err == nil {
		t.Error("-1 accepted")
	}
}
