package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bryanwahyu/roast-radar/internal/domain/reddit"
)

// MaxContentRunes is the hard cut applied to each post body.
const MaxContentRunes = 500

// Post is the reduced view of a Reddit post sent to the model.
type Post struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	URL       string `json:"url"`
	Subreddit string `json:"subreddit"`
}

const instructions = `You are an expert at analyzing customer feedback and identifying product pain points.

Analyze these Reddit posts about a competitor product and:
1. Write a brief summary (1-2 sentences) of the main complaints
2. Extract 5-8 tags/categories representing common issues
3. Group similar complaints into 3-5 distinct pain point clusters with appropriate emoji icons
4. For each cluster, provide 2 representative quotes

Format your response as a valid JSON object with the following structure:
{
  "summary": "Brief summary of main issues...",
  "tags": ["UX Issues", "Mobile Performance", ...],
  "painPoints": [
    {
      "icon": "📱",
      "title": "Pain point title",
      "count": number_of_mentions,
      "quotes": [
        {
          "text": "Actual quote from a post...",
          "url": "URL to the Reddit post"
        },
        ...
      ]
    },
    ...
  ]
}

Here are the posts to analyze:
`

// Project reduces posts to the fields the model needs.
func Project(posts []reddit.Post) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, Post{
			Title:     p.Title,
			Content:   truncateRunes(p.Body, MaxContentRunes),
			URL:       p.CanonicalURL(),
			Subreddit: p.Subreddit,
		})
	}
	return out
}

// Build renders the analysis prompt with the projected posts appended as JSON.
func Build(posts []Post) (string, error) {
	if posts == nil {
		posts = []Post{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(posts); err != nil {
		return "", fmt.Errorf("failed to marshal posts: %w", err)
	}
	return instructions + strings.TrimRight(buf.String(), "\n"), nil
}

// Instructions returns the fixed part of the prompt.
func Instructions() string { return instructions }

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
