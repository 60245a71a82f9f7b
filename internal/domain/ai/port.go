package ai

import (
	"context"

	"github.com/bryanwahyu/roast-radar/internal/domain/reddit"
)

// Analyzer turns posts into a Result using the given model. keys holds the
// API keys per provider tag.
type Analyzer interface {
	Analyze(ctx context.Context, posts []reddit.Post, model Model, keys map[Provider]string) (*Result, error)
}

// Adapter is one provider wire shape: it sends a prompt and returns the raw
// text the model answered.
type Adapter interface {
	Name() string
	// KeyProvider is the provider tag whose key is used when the model's own
	// tag has no key configured.
	KeyProvider() Provider
	PostLimit(model Model) int
	Complete(ctx context.Context, model Model, apiKey, prompt string) (string, error)
}
