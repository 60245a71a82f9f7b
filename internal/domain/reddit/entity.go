package reddit

import "time"

// DefaultLimit is the page size asked from the search endpoint.
const DefaultLimit = 100

// TimeRange is the UI time window code, in months.
type TimeRange string

const (
	TimeRangeMonth   TimeRange = "1"
	TimeRangeQuarter TimeRange = "3"
	TimeRangeHalf    TimeRange = "6"
	TimeRangeYear    TimeRange = "12"
)

// SearchRequest is built once per analysis run and never mutated.
type SearchRequest struct {
	Query     string
	Subreddit string
	TimeRange TimeRange
	Limit     int
}

// Post is one item of a search listing.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"selftext"`
	URL       string    `json:"url"`
	Permalink string    `json:"permalink"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	Subreddit string    `json:"subreddit"`
	Score     int       `json:"score"`
}

// CanonicalURL returns the absolute link to the post's comment page.
func (p Post) CanonicalURL() string {
	return "https://reddit.com" + p.Permalink
}

// Token is an application-only OAuth access token.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int
}
