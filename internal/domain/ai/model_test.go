package ai

import (
	"errors"
	"testing"
)

func TestDefaultModel(t *testing.T) {
	m := DefaultModel()
	if m.ID != "google/gemini-1.0-pro" || m.Provider != ProviderGoogle {
		t.Errorf("unexpected default model: %+v", m)
	}
}

func TestModelByID(t *testing.T) {
	if _, ok := ModelByID("openai/gpt-4o"); !ok {
		t.Error("expected openai/gpt-4o in catalog")
	}
	if _, ok := ModelByID("nope/nothing"); ok {
		t.Error("unexpected hit for unknown id")
	}
}

func TestModelsReturnsCopy(t *testing.T) {
	ms := Models()
	ms[0].ID = "mutated"
	if Models()[0].ID == "mutated" {
		t.Error("Models must not expose the catalog slice")
	}
}

func TestVendorName(t *testing.T) {
	tests := map[string]string{
		"google/gemini-1.0-pro": "gemini-1.0-pro",
		"gemini-pro":            "gemini-pro",
		"trailing/":             "trailing/",
	}
	for id, want := range tests {
		if got := (Model{ID: id}).VendorName(); got != want {
			t.Errorf("VendorName(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestProviderErrorQuota(t *testing.T) {
	err := &ProviderError{Provider: "gemini", StatusCode: 429, Message: "slow down"}
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Error("429 should unwrap to ErrQuotaExceeded")
	}
	err = &ProviderError{Provider: "gemini", StatusCode: 400, Message: "bad"}
	if errors.Is(err, ErrQuotaExceeded) {
		t.Error("400 must not be a quota error")
	}
}
