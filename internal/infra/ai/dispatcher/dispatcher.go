// Package dispatcher picks the provider adapter for a model and runs one
// analysis through it.
package dispatcher

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/roast-radar/internal/domain/ai"
	"github.com/bryanwahyu/roast-radar/internal/domain/reddit"
	"github.com/bryanwahyu/roast-radar/internal/infra/ai/prompt"
	"github.com/bryanwahyu/roast-radar/internal/logger"
)

// Dispatcher implements ai.Analyzer over a table of adapters.
type Dispatcher struct {
	adapters map[ai.Provider]ai.Adapter
	fallback ai.Adapter
}

var _ ai.Analyzer = (*Dispatcher)(nil)

// New builds a dispatcher. fallback serves provider tags missing from the
// table; nil means such tags are rejected.
func New(adapters map[ai.Provider]ai.Adapter, fallback ai.Adapter) *Dispatcher {
	table := make(map[ai.Provider]ai.Adapter, len(adapters))
	for p, a := range adapters {
		table[p] = a
	}
	return &Dispatcher{adapters: table, fallback: fallback}
}

// NewDefault routes google to the generate-content adapter and every other
// tag through the chat-completions relay.
func NewDefault(relay, gemini ai.Adapter) *Dispatcher {
	return New(map[ai.Provider]ai.Adapter{
		ai.ProviderOpenAI:    relay,
		ai.ProviderDeepSeek:  relay,
		ai.ProviderAnthropic: relay,
		ai.ProviderGoogle:    gemini,
	}, relay)
}

// AdapterFor returns the adapter serving a provider tag.
func (d *Dispatcher) AdapterFor(p ai.Provider) (ai.Adapter, error) {
	if a, ok := d.adapters[p]; ok && a != nil {
		return a, nil
	}
	if d.fallback != nil {
		return d.fallback, nil
	}
	return nil, &ai.UnsupportedProviderError{Provider: p}
}

func (d *Dispatcher) Analyze(ctx context.Context, posts []reddit.Post, model ai.Model, keys map[ai.Provider]string) (*ai.Result, error) {
	adapter, err := d.AdapterFor(model.Provider)
	if err != nil {
		return nil, err
	}

	apiKey := keys[model.Provider]
	if apiKey == "" {
		apiKey = keys[adapter.KeyProvider()]
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%s: %w", adapter.Name(), ai.ErrMissingAPIKey)
	}

	if limit := adapter.PostLimit(model); limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}

	text, err := prompt.Build(prompt.Project(posts))
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"adapter": adapter.Name(),
		"model":   model.ID,
		"posts":   len(posts),
	}).Debug("dispatching analysis")

	answer, err := adapter.Complete(ctx, model, apiKey, text)
	if err != nil {
		return nil, err
	}
	return ai.ParseResult(answer)
}
