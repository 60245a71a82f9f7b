package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/roast-radar/internal/domain/ai"
	"github.com/bryanwahyu/roast-radar/internal/domain/upstream"
)

// DefaultBaseURL is the OpenRouter chat-completions aggregator.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

const temperature = 0.2

// Client is the chat-completions adapter. The API key is supplied per call,
// so one Client serves every tenant.
type Client struct {
	BaseURL    string
	Referer    string
	Title      string
	HTTPClient *http.Client
}

var _ ai.Adapter = (*Client)(nil)

func NewClient(baseURL, referer string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Client{
		BaseURL:    baseURL,
		Referer:    referer,
		Title:      "RoastRadar",
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Name() string { return "openrouter" }

func (c *Client) KeyProvider() ai.Provider { return ai.ProviderOpenAI }

// PostLimit keeps prompts inside each model's context budget.
func (c *Client) PostLimit(model ai.Model) int {
	switch {
	case model.Provider == ai.ProviderDeepSeek:
		return 15
	case strings.Contains(model.ID, "gpt-3.5"), strings.Contains(model.ID, "turbo"):
		return 10
	default:
		return 20
	}
}

func (c *Client) Complete(ctx context.Context, model ai.Model, apiKey, prompt string) (string, error) {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = c.BaseURL
	cfg.HTTPClient = c.httpClient()

	req := openai.ChatCompletionRequest{
		Model: model.ID,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   model.MaxOutputTokens,
	}

	resp, err := openai.NewClientWithConfig(cfg).CreateChatCompletion(ctx, req)
	if err != nil {
		return "", c.mapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &ai.ResponseParseError{Field: "choices", Err: errors.New("no choices in response")}
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) httpClient() *http.Client {
	base := c.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}
	rt := base.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	return &http.Client{
		Timeout:   base.Timeout,
		Transport: &headerTransport{base: rt, referer: c.Referer, title: c.Title},
	}
}

func (c *Client) mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ai.ProviderError{Provider: c.Name(), StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := strings.TrimSpace(string(reqErr.Body))
		if msg == "" && reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return &ai.ProviderError{Provider: c.Name(), StatusCode: reqErr.HTTPStatusCode, Message: msg}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && !errors.Is(err, context.Canceled) {
		return upstream.NewTransportError("openrouter chat completion", c.BaseURL, err)
	}
	return fmt.Errorf("openrouter chat completion: %w", err)
}

// headerTransport adds the attribution headers OpenRouter expects and turns
// a 200 carrying an error envelope into a proper error status.
type headerTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if t.referer != "" {
		r.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		r.Header.Set("X-Title", t.title)
	}
	resp, err := t.base.RoundTrip(r)
	if err != nil || resp.StatusCode != http.StatusOK {
		return resp, err
	}
	return promoteErrorEnvelope(resp)
}

type errorEnvelope struct {
	Error *struct {
		Message string          `json:"message"`
		Code    json.RawMessage `json:"code"`
	} `json:"error"`
}

// promoteErrorEnvelope rewrites the status of a 200 whose body is
// {"error":{...}} so the client library reports it as an API error. The code
// field becomes the status when it is an HTTP error code, 502 otherwise.
func promoteErrorEnvelope(resp *http.Response) (*http.Response, error) {
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	var env errorEnvelope
	if json.Unmarshal(body, &env) != nil || env.Error == nil {
		return resp, nil
	}
	status := http.StatusBadGateway
	var code int
	if json.Unmarshal(env.Error.Code, &code) == nil && code >= 400 && code <= 599 {
		status = code
	}
	resp.StatusCode = status
	resp.Status = fmt.Sprintf("%d %s", status, http.StatusText(status))
	return resp, nil
}
