package ai

import "strings"

// Provider tags the vendor behind a model.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderGoogle    Provider = "google"
	ProviderDeepSeek  Provider = "deepseek"
	ProviderAnthropic Provider = "anthropic"
)

// Model describes one selectable LLM. Static data, never user-created.
type Model struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Provider        Provider `json:"provider"`
	MaxOutputTokens int      `json:"max_output_tokens"`
	IsFree          bool     `json:"is_free"`
	Description     string   `json:"description,omitempty"`
}

// DefaultModelID is used when a scan does not name a model.
const DefaultModelID = "google/gemini-1.0-pro"

var catalog = []Model{
	{ID: "openai/gpt-4o", Name: "GPT-4o", Provider: ProviderOpenAI, MaxOutputTokens: 1500, Description: "Most capable OpenAI model"},
	{ID: "openai/gpt-4o-mini", Name: "GPT-4o mini", Provider: ProviderOpenAI, MaxOutputTokens: 1500, Description: "Faster, cheaper GPT-4o"},
	{ID: "openai/gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Provider: ProviderOpenAI, MaxOutputTokens: 1000, Description: "Fast model with a small context"},
	{ID: "anthropic/claude-3-haiku", Name: "Claude 3 Haiku", Provider: ProviderAnthropic, MaxOutputTokens: 1500, Description: "Fast Anthropic model"},
	{ID: "anthropic/claude-3.5-sonnet", Name: "Claude 3.5 Sonnet", Provider: ProviderAnthropic, MaxOutputTokens: 2000, Description: "Balanced Anthropic model"},
	{ID: "deepseek/deepseek-chat:free", Name: "DeepSeek Chat (free)", Provider: ProviderDeepSeek, MaxOutputTokens: 1500, IsFree: true, Description: "Free tier via OpenRouter"},
	{ID: "google/gemini-1.0-pro", Name: "Gemini 1.0 Pro", Provider: ProviderGoogle, MaxOutputTokens: 2000, IsFree: true, Description: "Google Gemini, direct API"},
	{ID: "google/gemini-1.5-flash", Name: "Gemini 1.5 Flash", Provider: ProviderGoogle, MaxOutputTokens: 2000, IsFree: true, Description: "Google Gemini, direct API"},
}

// Models returns a copy of the catalog in display order.
func Models() []Model {
	out := make([]Model, len(catalog))
	copy(out, catalog)
	return out
}

// ModelByID looks a model up by its id.
func ModelByID(id string) (Model, bool) {
	for _, m := range catalog {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// DefaultModel falls back to the first catalog entry if the default id is gone.
func DefaultModel() Model {
	if m, ok := ModelByID(DefaultModelID); ok {
		return m
	}
	return catalog[0]
}

// VendorName is the id without its provider prefix ("google/gemini-1.0-pro" -> "gemini-1.0-pro").
func (m Model) VendorName() string {
	if i := strings.IndexByte(m.ID, '/'); i >= 0 && i < len(m.ID)-1 {
		return m.ID[i+1:]
	}
	return m.ID
}
