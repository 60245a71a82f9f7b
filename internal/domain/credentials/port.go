package credentials

import "context"

// Store is a per-tenant string key/value store (user metadata or a local
// fallback). Get returns ok=false for a missing key.
type Store interface {
	Get(ctx context.Context, tenant, key string) (value string, ok bool, err error)
	Set(ctx context.Context, tenant, key, value string) error
}
