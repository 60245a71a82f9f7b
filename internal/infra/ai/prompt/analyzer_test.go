package prompt

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bryanwahyu/roast-radar/internal/domain/reddit"
)

func TestProject_TruncatesBody(t *testing.T) {
	post := reddit.Post{
		Title:     "Notion mobile is unusable",
		Body:      strings.Repeat("a", 1000),
		Permalink: "/r/Notion/comments/xyz/mobile/",
		Subreddit: "Notion",
	}
	got := Project([]reddit.Post{post})
	if len(got) != 1 {
		t.Fatalf("expected 1 projected post, got %d", len(got))
	}
	p := got[0]
	if len(p.Content) != 500 {
		t.Errorf("content length = %d, want 500", len(p.Content))
	}
	if p.Title != post.Title || p.Subreddit != post.Subreddit {
		t.Errorf("title/subreddit changed: %+v", p)
	}
	if p.URL != "https://reddit.com/r/Notion/comments/xyz/mobile/" {
		t.Errorf("url = %q", p.URL)
	}
}

func TestProject_ShortBodyUntouched(t *testing.T) {
	got := Project([]reddit.Post{{Body: "short"}})
	if got[0].Content != "short" {
		t.Errorf("content = %q", got[0].Content)
	}
}

func TestProject_MultibyteCut(t *testing.T) {
	body := strings.Repeat("é", 600)
	got := Project([]reddit.Post{{Body: body}})
	if n := utf8.RuneCountInString(got[0].Content); n != 500 {
		t.Errorf("rune count = %d, want 500", n)
	}
	if !utf8.ValidString(got[0].Content) {
		t.Error("content is not valid UTF-8 after the cut")
	}
}

func TestBuild(t *testing.T) {
	posts := []Post{{Title: "t", Content: "c", URL: "u", Subreddit: "s"}}
	out, err := Build(posts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.HasPrefix(out, "You are an expert at analyzing customer feedback") {
		t.Errorf("prompt does not start with the instructions: %q", out[:60])
	}
	idx := strings.Index(out, "Here are the posts to analyze:\n")
	if idx < 0 {
		t.Fatal("missing posts header")
	}
	var decoded []Post
	if err := json.Unmarshal([]byte(out[idx+len("Here are the posts to analyze:\n"):]), &decoded); err != nil {
		t.Fatalf("posts tail is not JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0] != posts[0] {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestBuild_NoPosts(t *testing.T) {
	out, err := Build(nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.HasSuffix(out, "[]") {
		t.Errorf("expected empty JSON array at the end, got %q", out[len(out)-10:])
	}
}
