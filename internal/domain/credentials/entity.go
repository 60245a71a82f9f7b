// Package credentials models the per-tenant API keys a scan needs. They are
// read once at the start of a run and passed down explicitly.
package credentials

import (
	"strings"

	"github.com/bryanwahyu/roast-radar/internal/domain/ai"
)

// Metadata keys, shared with the web client. The OpenRouter key is the relay
// key: it serves every provider routed through the relay (openai, deepseek,
// anthropic), so those providers have no key of their own in storage.
const (
	KeyRedditClientID     = "redditClientId"
	KeyRedditClientSecret = "redditClientSecret"
	KeyOpenRouterAPIKey   = "openRouterApiKey"
	KeyGeminiAPIKey       = "geminiApiKey"
)

// Credentials are the secrets of one scan run.
type Credentials struct {
	RedditClientID     string                 `json:"reddit_client_id"`
	RedditClientSecret string                 `json:"reddit_client_secret"`
	ModelAPIKeys       map[ai.Provider]string `json:"model_api_keys,omitempty"`
}

// HasReddit reports whether both content API secrets are set.
func (c Credentials) HasReddit() bool {
	return c.RedditClientID != "" && c.RedditClientSecret != ""
}

// Merge fills empty fields of c from fallback.
func (c Credentials) Merge(fallback Credentials) Credentials {
	out := Credentials{
		RedditClientID:     c.RedditClientID,
		RedditClientSecret: c.RedditClientSecret,
		ModelAPIKeys:       map[ai.Provider]string{},
	}
	if out.RedditClientID == "" {
		out.RedditClientID = fallback.RedditClientID
	}
	if out.RedditClientSecret == "" {
		out.RedditClientSecret = fallback.RedditClientSecret
	}
	for p, k := range fallback.ModelAPIKeys {
		if k != "" {
			out.ModelAPIKeys[p] = k
		}
	}
	for p, k := range c.ModelAPIKeys {
		if k != "" {
			out.ModelAPIKeys[p] = k
		}
	}
	return out
}

// Masked returns a copy safe to send back to a client.
func (c Credentials) Masked() Credentials {
	out := Credentials{
		RedditClientID:     mask(c.RedditClientID),
		RedditClientSecret: mask(c.RedditClientSecret),
		ModelAPIKeys:       make(map[ai.Provider]string, len(c.ModelAPIKeys)),
	}
	for p, k := range c.ModelAPIKeys {
		out.ModelAPIKeys[p] = mask(k)
	}
	return out
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}
