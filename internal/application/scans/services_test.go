package scans

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bryanwahyu/roast-radar/internal/application"
	appai "github.com/bryanwahyu/roast-radar/internal/application/ai"
	"github.com/bryanwahyu/roast-radar/internal/domain/ai"
	"github.com/bryanwahyu/roast-radar/internal/domain/credentials"
	"github.com/bryanwahyu/roast-radar/internal/domain/reddit"
	"github.com/bryanwahyu/roast-radar/internal/domain/scanerrors"
	domain "github.com/bryanwahyu/roast-radar/internal/domain/scans"
	"github.com/bryanwahyu/roast-radar/internal/infra/db/memory"
)

type fakeReddit struct {
	posts    []reddit.Post
	authErr  error
	searchEr error
	gotReq   reddit.SearchRequest
	gotID    string
}

func (f *fakeReddit) Authenticate(_ context.Context, id, _ string) (reddit.Token, error) {
	f.gotID = id
	if f.authErr != nil {
		return reddit.Token{}, f.authErr
	}
	return reddit.Token{AccessToken: "tok"}, nil
}

func (f *fakeReddit) Search(_ context.Context, req reddit.SearchRequest, _ reddit.Token) ([]reddit.Post, error) {
	f.gotReq = req
	return f.posts, f.searchEr
}

type fakeAnalyzer struct {
	calls    int
	gotKeys  map[ai.Provider]string
	gotModel ai.Model
	result   *ai.Result
	err      error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ []reddit.Post, model ai.Model, keys map[ai.Provider]string) (*ai.Result, error) {
	f.calls++
	f.gotKeys = keys
	f.gotModel = model
	return f.result, f.err
}

type fakeReports struct {
	keys []string
	err  error
}

func (f *fakeReports) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return "https://files.local/" + key, nil
}

func newService(rd *fakeReddit, an *fakeAnalyzer) (*Service, *memory.ScanRepository, *memory.ScanErrorRepository, *memory.MetadataStore) {
	errs := memory.NewScanErrorRepository()
	repo := memory.NewScanRepository().WithErrorLog(errs)
	meta := memory.NewMetadataStore()
	return &Service{
		Reddit:      rd,
		Analyzer:    an,
		Models:      appai.NewService(""),
		Repo:        repo,
		Errors:      errs,
		Credentials: meta,
		Clock:       &application.StepClock{Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Step: time.Second},
		HistoryCap:  3,
	}, repo, errs, meta
}

func samplePosts() []reddit.Post {
	return []reddit.Post{
		{ID: "a", Title: "Trello is slow", Permalink: "/r/x/comments/a/"},
		{ID: "b", Title: "Trello lost my cards", Permalink: "/r/x/comments/b/"},
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	rd := &fakeReddit{posts: samplePosts()}
	an := &fakeAnalyzer{result: &ai.Result{Summary: "slow", Tags: []string{"speed"}}}
	svc, repo, _, meta := newService(rd, an)
	reports := &fakeReports{}
	svc.Reports = reports
	ctx := context.Background()

	_ = credentials.Save(ctx, meta, "acme", credentials.Credentials{
		RedditClientID:     "stored-id",
		RedditClientSecret: "stored-secret",
		ModelAPIKeys:       map[ai.Provider]string{ai.ProviderGoogle: "g-key"},
	})

	res, err := svc.Analyze(ctx, AnalyzeCommand{TenantID: "acme", Competitor: "Trello", Subreddit: "productivity", TimeRange: "6"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Status != "success" || res.PostCount != 2 || res.Model != ai.DefaultModelID {
		t.Fatalf("unexpected result: %+v", res)
	}
	if rd.gotID != "stored-id" {
		t.Errorf("reddit client id = %q", rd.gotID)
	}
	if rd.gotReq.Subreddit != "productivity" || rd.gotReq.TimeFilter() != "year" || rd.gotReq.Limit != reddit.DefaultLimit {
		t.Errorf("search request = %+v", rd.gotReq)
	}
	if an.gotKeys[ai.ProviderGoogle] != "g-key" {
		t.Errorf("keys = %v", an.gotKeys)
	}
	if len(reports.keys) != 1 || reports.keys[0] != "reports/acme/"+res.ID+".json" || res.ReportURL == "" {
		t.Errorf("report keys = %v url = %q", reports.keys, res.ReportURL)
	}

	saved, err := repo.Get(ctx, "acme", domain.ScanID(res.ID))
	if err != nil {
		t.Fatal(err)
	}
	if saved.Status != domain.StatusSuccess || saved.Result.Summary != "slow" || saved.ReportURL != res.ReportURL {
		t.Errorf("saved scan = %+v", saved)
	}
}

func TestAnalyzeNoResultsNeverCallsAnalyzer(t *testing.T) {
	rd := &fakeReddit{}
	an := &fakeAnalyzer{}
	svc, repo, errs, _ := newService(rd, an)
	svc.Defaults = credentials.Credentials{RedditClientID: "id", RedditClientSecret: "secret"}
	ctx := context.Background()

	_, err := svc.Analyze(ctx, AnalyzeCommand{TenantID: "acme", Competitor: "Trello"})
	var noRes *domain.NoResultsError
	if !errors.As(err, &noRes) {
		t.Fatalf("expected NoResultsError, got %v", err)
	}
	if err.Error() != "no posts found about Trello" {
		t.Errorf("message = %q", err.Error())
	}
	if an.calls != 0 {
		t.Fatalf("analyzer called %d times", an.calls)
	}

	list, _ := repo.Latest(ctx, "acme", 10)
	if len(list) != 1 || list[0].Status != domain.StatusFailed {
		t.Fatalf("history = %+v", list)
	}
	entries, _ := errs.ListByScan(ctx, "acme", string(list[0].ID), 10)
	if len(entries) != 1 || entries[0].Stage != scanerrors.StageFilter {
		t.Fatalf("scan errors = %+v", entries)
	}
}

func TestAnalyzeStageErrors(t *testing.T) {
	authErr := &reddit.AuthError{StatusCode: 401, Message: "invalid_grant"}
	quota := &ai.ProviderError{Provider: "gemini", StatusCode: 429, Message: "quota"}

	tests := []struct {
		name      string
		cmd       AnalyzeCommand
		reddit    *fakeReddit
		analyzer  *fakeAnalyzer
		noCreds   bool
		wantStage scanerrors.Stage
		check     func(error) bool
	}{
		{
			name:      "unknown model",
			cmd:       AnalyzeCommand{ModelID: "acme/unknown"},
			reddit:    &fakeReddit{},
			analyzer:  &fakeAnalyzer{},
			wantStage: scanerrors.StageModel,
			check:     func(err error) bool { return errors.Is(err, ai.ErrUnknownModel) },
		},
		{
			name:      "missing credentials",
			reddit:    &fakeReddit{},
			analyzer:  &fakeAnalyzer{},
			noCreds:   true,
			wantStage: scanerrors.StageCredentials,
			check:     func(err error) bool { return errors.Is(err, domain.ErrMissingCredentials) },
		},
		{
			name:      "auth rejected",
			reddit:    &fakeReddit{authErr: authErr},
			analyzer:  &fakeAnalyzer{},
			wantStage: scanerrors.StageAuth,
			check:     func(err error) bool {
				var ae *reddit.AuthError
				return errors.As(err, &ae)
			},
		},
		{
			name:      "search failed",
			reddit:    &fakeReddit{searchEr: &reddit.APIError{StatusCode: 429}},
			analyzer:  &fakeAnalyzer{},
			wantStage: scanerrors.StageSearch,
			check:     func(err error) bool { return errors.Is(err, reddit.ErrRateLimited) },
		},
		{
			name:      "quota exceeded",
			reddit:    &fakeReddit{posts: samplePosts()},
			analyzer:  &fakeAnalyzer{err: quota},
			wantStage: scanerrors.StageAnalyze,
			check:     func(err error) bool { return errors.Is(err, ai.ErrQuotaExceeded) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, errs, _ := newService(tt.reddit, tt.analyzer)
			if !tt.noCreds {
				svc.Defaults = credentials.Credentials{RedditClientID: "id", RedditClientSecret: "secret"}
			}
			tt.cmd.TenantID = "acme"
			tt.cmd.Competitor = "Trello"
			ctx := context.Background()

			res, err := svc.Analyze(ctx, tt.cmd)
			if res != nil || err == nil || !tt.check(err) {
				t.Fatalf("res=%v err=%v", res, err)
			}
			list, _ := repo.Latest(ctx, "acme", 10)
			if len(list) != 1 || list[0].Status != domain.StatusFailed || list[0].Error != err.Error() {
				t.Fatalf("history = %+v", list)
			}
			entries, _ := errs.ListByScan(ctx, "acme", string(list[0].ID), 10)
			if len(entries) != 1 || entries[0].Stage != tt.wantStage {
				t.Fatalf("stage entries = %+v", entries)
			}
		})
	}
}

func TestAnalyzeExplicitCredentialsWin(t *testing.T) {
	rd := &fakeReddit{posts: samplePosts()}
	an := &fakeAnalyzer{result: &ai.Result{}}
	svc, _, _, meta := newService(rd, an)
	ctx := context.Background()
	_ = credentials.Save(ctx, meta, "acme", credentials.Credentials{RedditClientID: "stored", RedditClientSecret: "s"})

	_, err := svc.Analyze(ctx, AnalyzeCommand{
		TenantID:    "acme",
		Competitor:  "Trello",
		ModelID:     "openai/gpt-4o",
		Credentials: &credentials.Credentials{RedditClientID: "explicit", ModelAPIKeys: map[ai.Provider]string{ai.ProviderOpenAI: "sk"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if rd.gotID != "explicit" || an.gotKeys[ai.ProviderOpenAI] != "sk" || an.gotModel.ID != "openai/gpt-4o" {
		t.Fatalf("id=%q keys=%v model=%s", rd.gotID, an.gotKeys, an.gotModel.ID)
	}
}

func TestAnalyzeReportFailureKeepsSuccess(t *testing.T) {
	rd := &fakeReddit{posts: samplePosts()}
	an := &fakeAnalyzer{result: &ai.Result{Summary: "ok"}}
	svc, _, errs, _ := newService(rd, an)
	svc.Defaults = credentials.Credentials{RedditClientID: "id", RedditClientSecret: "secret"}
	svc.Reports = &fakeReports{err: errors.New("bucket gone")}
	ctx := context.Background()

	res, err := svc.Analyze(ctx, AnalyzeCommand{TenantID: "acme", Competitor: "Trello"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != "success" || res.ReportURL != "" {
		t.Fatalf("res = %+v", res)
	}
	entries, _ := errs.ListByScan(ctx, "acme", res.ID, 10)
	if len(entries) != 1 || entries[0].Stage != scanerrors.StageReport {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestHistoryCap(t *testing.T) {
	rd := &fakeReddit{posts: samplePosts()}
	an := &fakeAnalyzer{result: &ai.Result{}}
	svc, repo, _, _ := newService(rd, an)
	svc.Defaults = credentials.Credentials{RedditClientID: "id", RedditClientSecret: "secret"}
	ctx := context.Background()

	var last string
	for i := 0; i < 5; i++ {
		res, err := svc.Analyze(ctx, AnalyzeCommand{TenantID: "acme", Competitor: "Trello"})
		if err != nil {
			t.Fatal(err)
		}
		last = res.ID
	}
	list, _ := repo.Latest(ctx, "acme", 100)
	if len(list) != 3 {
		t.Fatalf("history size = %d, want 3", len(list))
	}
	if string(list[0].ID) != last {
		t.Fatalf("newest scan not first")
	}
}

func TestCredentialsRoundTrip(t *testing.T) {
	svc, _, _, _ := newService(&fakeReddit{}, &fakeAnalyzer{})
	ctx := context.Background()
	err := svc.SaveCredentials(ctx, "acme", credentials.Credentials{
		RedditClientID:     "client-id-123456",
		RedditClientSecret: "short",
	})
	if err != nil {
		t.Fatal(err)
	}
	masked, err := svc.MaskedCredentials(ctx, "acme")
	if err != nil {
		t.Fatal(err)
	}
	if masked.RedditClientID != "clie********3456" || masked.RedditClientSecret != "*****" {
		t.Fatalf("masked = %+v", masked)
	}

	svc.Credentials = nil
	if _, err := svc.MaskedCredentials(ctx, "acme"); !errors.Is(err, ErrNoCredentialStore) {
		t.Fatalf("err = %v", err)
	}
}
