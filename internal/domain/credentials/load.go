package credentials

import (
	"context"
	"fmt"

	"github.com/bryanwahyu/roast-radar/internal/domain/ai"
)

// Load reads every credential key of a tenant. Missing keys stay empty.
func Load(ctx context.Context, store Store, tenant string) (Credentials, error) {
	creds := Credentials{ModelAPIKeys: map[ai.Provider]string{}}
	fields := []struct {
		key string
		set func(string)
	}{
		{KeyRedditClientID, func(v string) { creds.RedditClientID = v }},
		{KeyRedditClientSecret, func(v string) { creds.RedditClientSecret = v }},
		{KeyOpenRouterAPIKey, func(v string) { creds.ModelAPIKeys[ai.ProviderOpenAI] = v }},
		{KeyGeminiAPIKey, func(v string) { creds.ModelAPIKeys[ai.ProviderGoogle] = v }},
	}
	for _, f := range fields {
		v, ok, err := store.Get(ctx, tenant, f.key)
		if err != nil {
			return Credentials{}, fmt.Errorf("load %s: %w", f.key, err)
		}
		if ok && v != "" {
			f.set(v)
		}
	}
	return creds, nil
}

// UnstoredProviderError is returned by Save for a model key that has no
// metadata key. Such keys are accepted per request but never persisted.
type UnstoredProviderError struct {
	Provider ai.Provider
}

func (e *UnstoredProviderError) Error() string {
	return fmt.Sprintf("api key for provider %q cannot be stored; save the openrouter key instead", e.Provider)
}

// Save writes the non-empty credentials of a tenant; empty fields keep their
// stored value. Nothing is written when a key cannot be stored.
func Save(ctx context.Context, store Store, tenant string, creds Credentials) error {
	for p, k := range creds.ModelAPIKeys {
		if k != "" && p != ai.ProviderOpenAI && p != ai.ProviderGoogle {
			return &UnstoredProviderError{Provider: p}
		}
	}
	values := map[string]string{
		KeyRedditClientID:     creds.RedditClientID,
		KeyRedditClientSecret: creds.RedditClientSecret,
		KeyOpenRouterAPIKey:   creds.ModelAPIKeys[ai.ProviderOpenAI],
		KeyGeminiAPIKey:       creds.ModelAPIKeys[ai.ProviderGoogle],
	}
	for _, key := range []string{KeyRedditClientID, KeyRedditClientSecret, KeyOpenRouterAPIKey, KeyGeminiAPIKey} {
		if values[key] == "" {
			continue
		}
		if err := store.Set(ctx, tenant, key, values[key]); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}
