package reddit

import "context"

// Client is the content search API port.
type Client interface {
	Authenticate(ctx context.Context, clientID, clientSecret string) (Token, error)
	Search(ctx context.Context, req SearchRequest, token Token) ([]Post, error)
}
