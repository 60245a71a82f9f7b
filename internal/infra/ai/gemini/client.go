// Package gemini is the generate-content adapter for Google's Generative
// Language API, built on the genai SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/bryanwahyu/roast-radar/internal/domain/ai"
	"github.com/bryanwahyu/roast-radar/internal/domain/upstream"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com"

const apiVersion = "v1"

// postLimit is higher than the relay's: Gemini accepts a larger prompt.
const postLimit = 30

// Client holds no key; a genai client is built per call with the caller's key.
type Client struct {
	baseURL string
	client  *http.Client
}

var _ ai.Adapter = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) Name() string { return "gemini" }

func (c *Client) KeyProvider() ai.Provider { return ai.ProviderGoogle }

func (c *Client) PostLimit(ai.Model) int { return postLimit }

func generationConfig(model ai.Model) *genai.GenerateContentConfig {
	maxTokens := model.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 2000
	}
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.2),
		TopP:            genai.Ptr[float32](0.95),
		TopK:            genai.Ptr[float32](40),
		MaxOutputTokens: int32(maxTokens),
	}
}

func (c *Client) Complete(ctx context.Context, model ai.Model, apiKey, prompt string) (string, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.client,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    c.baseURL + "/",
			APIVersion: apiVersion,
		},
	})
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}

	resp, err := gc.Models.GenerateContent(ctx, model.VendorName(), genai.Text(prompt), generationConfig(model))
	if err != nil {
		return "", c.mapError(model, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &ai.ResponseParseError{Field: "candidates[0].content.parts[0].text", Err: errors.New("empty response from gemini")}
	}
	var text strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			text.WriteString(p.Text)
		}
	}
	if text.Len() == 0 {
		return "", &ai.ResponseParseError{Field: "candidates[0].content.parts[0].text", Err: errors.New("empty response from gemini")}
	}
	return text.String(), nil
}

func (c *Client) mapError(model ai.Model, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ai.ProviderError{Provider: c.Name(), StatusCode: apiErr.Code, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &ai.ProviderError{Provider: c.Name(), StatusCode: apiErrPtr.Code, Message: apiErrPtr.Message}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && !errors.Is(err, context.Canceled) {
		target := fmt.Sprintf("%s/%s/models/%s:generateContent", c.baseURL, apiVersion, model.VendorName())
		return upstream.NewTransportError("gemini generate", target, err)
	}
	return fmt.Errorf("gemini generate: %w", err)
}
