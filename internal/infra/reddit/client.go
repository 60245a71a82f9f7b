// Package reddit is the OAuth search client for Reddit's API.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	domain "github.com/bryanwahyu/roast-radar/internal/domain/reddit"
	"github.com/bryanwahyu/roast-radar/internal/domain/upstream"
)

const (
	DefaultAuthURL   = "https://www.reddit.com/api/v1/access_token"
	DefaultAPIURL    = "https://oauth.reddit.com"
	DefaultUserAgent = "roast-radar/1.0 (competitor pain point research)"
)

// Options configures a Client. Zero values fall back to the defaults.
type Options struct {
	AuthURL   string
	APIURL    string
	UserAgent string
	// RequestsPerMinute caps outbound calls; 0 disables limiting.
	RequestsPerMinute int
	Timeout           time.Duration
	HTTPClient        *http.Client
}

// Client talks to the token and search endpoints. Safe for concurrent use.
type Client struct {
	authURL   string
	apiURL    string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
}

var _ domain.Client = (*Client)(nil)

func NewClient(opts Options) *Client {
	c := &Client{
		authURL:   opts.AuthURL,
		apiURL:    strings.TrimRight(opts.APIURL, "/"),
		userAgent: opts.UserAgent,
		client:    opts.HTTPClient,
	}
	if c.authURL == "" {
		c.authURL = DefaultAuthURL
	}
	if c.apiURL == "" {
		c.apiURL = DefaultAPIURL
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		c.client = &http.Client{Timeout: timeout}
	}
	if opts.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60), 1)
	}
	return c
}

// Authenticate exchanges the app's client id and secret for an access token.
func (c *Client) Authenticate(ctx context.Context, clientID, clientSecret string) (domain.Token, error) {
	if err := c.wait(ctx); err != nil {
		return domain.Token{}, err
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.Token{}, err
	}
	req.SetBasicAuth(clientID, clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Token{}, upstream.NewTransportError("reddit token", c.authURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.Token{}, upstream.NewTransportError("reddit token", c.authURL, err)
	}

	var tok tokenResponse
	decodeErr := json.Unmarshal(body, &tok)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Token{}, &domain.AuthError{
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(tok.Message, tok.Error, body, resp.Status),
		}
	}
	if decodeErr != nil {
		return domain.Token{}, &domain.AuthError{Message: "decode token response: " + decodeErr.Error()}
	}
	if tok.Error != nil {
		return domain.Token{}, &domain.AuthError{Message: upstreamMessage(tok.Message, tok.Error, body, resp.Status)}
	}
	if tok.AccessToken == "" {
		return domain.Token{}, &domain.AuthError{Message: "empty access token"}
	}

	return domain.Token{AccessToken: tok.AccessToken, TokenType: tok.TokenType, ExpiresIn: tok.ExpiresIn}, nil
}

// Search runs one relevance-sorted search page. No pagination.
func (c *Client) Search(ctx context.Context, sr domain.SearchRequest, token domain.Token) ([]domain.Post, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	limit := sr.Limit
	if limit <= 0 {
		limit = domain.DefaultLimit
	}
	q := url.Values{}
	q.Set("q", sr.FullQuery())
	q.Set("sort", "relevance")
	q.Set("t", sr.TimeFilter())
	q.Set("limit", strconv.Itoa(limit))
	target := c.apiURL + "/search.json?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, upstream.NewTransportError("reddit search", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		var er errorResponse
		_ = json.Unmarshal(body, &er)
		return nil, &domain.AuthError{StatusCode: resp.StatusCode, Message: upstreamMessage(er.Message, er.Error, body, resp.Status)}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		var er errorResponse
		_ = json.Unmarshal(body, &er)
		return nil, &domain.APIError{StatusCode: resp.StatusCode, Message: upstreamMessage(er.Message, er.Error, body, resp.Status)}
	}

	var listing listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode search listing: %w", err)
	}

	posts := make([]domain.Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, child.Data.toPost())
	}
	return posts, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// upstreamMessage picks the most useful error text from a Reddit answer.
func upstreamMessage(message string, code any, body []byte, status string) string {
	if message != "" {
		return message
	}
	if code != nil {
		return fmt.Sprint(code)
	}
	if s := strings.TrimSpace(string(body)); s != "" && len(s) < 200 {
		return s
	}
	return status
}
