package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type contextKey string

const (
	TenantKey contextKey = "tenant"
	APIKeyKey contextKey = "api_key"
)

// publicPath reports whether a path is reachable without an API key.
func publicPath(path string) bool {
	switch path {
	case "/health", "/live", "/ready", "/metrics":
		return true
	}
	return strings.HasPrefix(path, "/v1/models")
}

// APIKeyAuth validates the API key from the Authorization header against a
// tenant → key map. An empty map disables authentication.
func APIKeyAuth(validKeys map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(validKeys) == 0 || publicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			apiKey, ok := bearerKey(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "missing or malformed Authorization header")
				return
			}
			tenant := tenantForKey(validKeys, apiKey)
			if tenant == "" {
				writeError(w, http.StatusUnauthorized, "invalid API key")
				return
			}

			ctx := context.WithValue(r.Context(), TenantKey, tenant)
			ctx = context.WithValue(ctx, APIKeyKey, apiKey)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerKey reads "Bearer <key>" or a bare key.
func bearerKey(r *http.Request) (string, bool) {
	key := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	return key, key != ""
}

// tenantForKey compares in constant time against every configured key.
func tenantForKey(validKeys map[string]string, apiKey string) string {
	var tenant string
	for t, key := range validKeys {
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) == 1 {
			tenant = t
		}
	}
	return tenant
}

// GetTenantFromContext extracts tenant from context
func GetTenantFromContext(ctx context.Context) string {
	if tenant, ok := ctx.Value(TenantKey).(string); ok {
		return tenant
	}
	return ""
}

// RequireTenantMatch validates the {tenant} URL parameter and, when the
// request is authenticated, checks it belongs to the caller. Mount it inside
// the route group that declares {tenant}.
func RequireTenantMatch(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		urlTenant := chi.URLParam(r, "tenant")
		if err := ValidateTenantID(urlTenant); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if authTenant := GetTenantFromContext(r.Context()); authTenant != "" && authTenant != urlTenant {
			writeError(w, http.StatusForbidden, "tenant does not match API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}
