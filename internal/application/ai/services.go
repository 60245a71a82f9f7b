package ai

import (
	"sort"

	"github.com/bryanwahyu/roast-radar/internal/domain/ai"
)

// Service exposes the static model catalog.
type Service struct {
	defaultID string
}

// NewService uses defaultID as the preselected model when it is in the
// catalog, else ai.DefaultModelID.
func NewService(defaultID string) *Service {
	if _, ok := ai.ModelByID(defaultID); !ok {
		defaultID = ai.DefaultModelID
	}
	return &Service{defaultID: defaultID}
}

func (s *Service) Models() []ai.Model {
	return ai.Models()
}

// FreeModels returns the models without per-request cost.
func (s *Service) FreeModels() []ai.Model {
	var out []ai.Model
	for _, m := range ai.Models() {
		if m.IsFree {
			out = append(out, m)
		}
	}
	return out
}

// ModelsByProvider groups the catalog by provider tag, keeping catalog order
// inside each group.
func (s *Service) ModelsByProvider() map[ai.Provider][]ai.Model {
	out := map[ai.Provider][]ai.Model{}
	for _, m := range ai.Models() {
		out[m.Provider] = append(out[m.Provider], m)
	}
	return out
}

// Providers lists the provider tags present in the catalog, sorted.
func (s *Service) Providers() []ai.Provider {
	seen := map[ai.Provider]bool{}
	var out []ai.Provider
	for _, m := range ai.Models() {
		if !seen[m.Provider] {
			seen[m.Provider] = true
			out = append(out, m.Provider)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *Service) DefaultModel() ai.Model {
	m, _ := ai.ModelByID(s.defaultID)
	return m
}

// ModelByID resolves an id; empty id means the default model.
func (s *Service) ModelByID(id string) (ai.Model, error) {
	if id == "" {
		return s.DefaultModel(), nil
	}
	m, ok := ai.ModelByID(id)
	if !ok {
		return ai.Model{}, ai.ErrUnknownModel
	}
	return m, nil
}
