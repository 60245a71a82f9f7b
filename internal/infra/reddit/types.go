package reddit

import (
	"time"

	domain "github.com/bryanwahyu/roast-radar/internal/domain/reddit"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Error       any    `json:"error"`
	Message     string `json:"message"`
}

type listingResponse struct {
	Kind string `json:"kind"`
	Data struct {
		After    string         `json:"after"`
		Children []listingChild `json:"children"`
	} `json:"data"`
}

type listingChild struct {
	Kind string      `json:"kind"`
	Data listingData `json:"data"`
}

type listingData struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	SelfText   string  `json:"selftext"`
	URL        string  `json:"url"`
	Permalink  string  `json:"permalink"`
	Author     string  `json:"author"`
	CreatedUTC float64 `json:"created_utc"`
	Subreddit  string  `json:"subreddit"`
	Score      int     `json:"score"`
}

func (d listingData) toPost() domain.Post {
	return domain.Post{
		ID:        d.ID,
		Title:     d.Title,
		Body:      d.SelfText,
		URL:       d.URL,
		Permalink: d.Permalink,
		Author:    d.Author,
		CreatedAt: time.Unix(int64(d.CreatedUTC), 0).UTC(),
		Subreddit: d.Subreddit,
		Score:     d.Score,
	}
}

type errorResponse struct {
	Error   any    `json:"error"`
	Message string `json:"message"`
}
