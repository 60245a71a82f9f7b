package scans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/roast-radar/internal/application"
	"github.com/bryanwahyu/roast-radar/internal/domain/ai"
	"github.com/bryanwahyu/roast-radar/internal/domain/credentials"
	"github.com/bryanwahyu/roast-radar/internal/domain/reddit"
	"github.com/bryanwahyu/roast-radar/internal/domain/scanerrors"
	domain "github.com/bryanwahyu/roast-radar/internal/domain/scans"
	"github.com/bryanwahyu/roast-radar/internal/logger"
)

// DefaultHistoryCap is the number of scans kept per tenant.
const DefaultHistoryCap = 20

// ModelCatalog resolves a model id; empty id means the default model.
type ModelCatalog interface {
	ModelByID(id string) (ai.Model, error)
}

// Service implements use-cases untuk Scan.
// Safe for concurrent use; each Analyze call runs its pipeline sequentially.
type Service struct {
	Reddit      reddit.Client
	Analyzer    ai.Analyzer
	Models      ModelCatalog
	Repo        domain.Repository
	Errors      scanerrors.Repository // optional
	Reports     domain.ReportStore    // optional
	Credentials credentials.Store     // optional
	Defaults    credentials.Credentials
	Clock       application.Clock
	HistoryCap  int
	SearchLimit int
}

//
// ==== USE CASES ====
//

// AnalyzeCommand untuk trigger satu analisa kompetitor
type AnalyzeCommand struct {
	TenantID   string
	Competitor string
	Subreddit  string
	TimeRange  string
	Limit      int
	ModelID    string
	// Credentials overrides the stored ones field by field when set.
	Credentials *credentials.Credentials
}

type AnalyzeResult struct {
	ID         string     `json:"id"`
	Status     string     `json:"status"`
	Competitor string     `json:"competitor"`
	Model      string     `json:"model"`
	PostCount  int        `json:"post_count"`
	Result     *ai.Result `json:"result"`
	ReportURL  string     `json:"report_url,omitempty"`
	DurationMS int64      `json:"duration_ms"`
}

// Analyze runs query → auth → search → filter → model → history. Any stage
// error ends the run: it is logged, stored as a failed scan and returned.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (*AnalyzeResult, error) {
	start := s.now()
	scan := &domain.Scan{
		ID:          domain.ScanID(uuid.NewString()),
		TenantID:    cmd.TenantID,
		Competitor:  cmd.Competitor,
		Subreddit:   cmd.Subreddit,
		TimeRange:   cmd.TimeRange,
		ModelID:     cmd.ModelID,
		TriggeredAt: start,
	}
	log := logger.Log.WithFields(logrus.Fields{
		"tenant":     cmd.TenantID,
		"competitor": cmd.Competitor,
		"scan_id":    scan.ID,
	})

	model, err := s.Models.ModelByID(cmd.ModelID)
	if err != nil {
		return nil, s.fail(ctx, log, scan, scanerrors.StageModel, err)
	}
	scan.ModelID = model.ID
	log = log.WithField("model", model.ID)

	creds, err := s.resolveCredentials(ctx, cmd)
	if err != nil {
		return nil, s.fail(ctx, log, scan, scanerrors.StageCredentials, err)
	}

	req := reddit.BuildSearchRequest(cmd.Competitor, cmd.Subreddit, cmd.TimeRange)
	switch {
	case cmd.Limit > 0:
		req.Limit = cmd.Limit
	case s.SearchLimit > 0:
		req.Limit = s.SearchLimit
	}
	scan.TimeRange = string(req.TimeRange)

	token, err := s.Reddit.Authenticate(ctx, creds.RedditClientID, creds.RedditClientSecret)
	if err != nil {
		return nil, s.fail(ctx, log, scan, scanerrors.StageAuth, err)
	}

	posts, err := s.Reddit.Search(ctx, req, token)
	if err != nil {
		return nil, s.fail(ctx, log, scan, scanerrors.StageSearch, err)
	}

	posts = reddit.ExtractNegativePosts(posts)
	scan.PostCount = len(posts)
	if len(posts) == 0 {
		return nil, s.fail(ctx, log, scan, scanerrors.StageFilter, &domain.NoResultsError{Competitor: cmd.Competitor})
	}
	log.WithField("posts", len(posts)).Info("posts fetched")

	result, err := s.Analyzer.Analyze(ctx, posts, model, creds.ModelAPIKeys)
	if err != nil {
		return nil, s.fail(ctx, log, scan, scanerrors.StageAnalyze, err)
	}

	scan.Status = domain.StatusSuccess
	scan.Result = result
	scan.DurationMS = s.now().Sub(start).Milliseconds()

	if s.Reports != nil {
		url, err := s.uploadReport(ctx, scan)
		if err != nil {
			// report export is best effort, the analysis itself succeeded
			log.WithError(err).Warn("report upload failed")
			s.recordError(ctx, scan, scanerrors.StageReport, err)
		}
		scan.ReportURL = url
	}

	if err := s.Repo.Save(ctx, scan); err != nil {
		return nil, fmt.Errorf("save scan: %w", err)
	}
	s.trim(ctx, log, cmd.TenantID)

	log.WithFields(logrus.Fields{
		"tags":        len(result.Tags),
		"pain_points": len(result.PainPoints),
		"duration_ms": scan.DurationMS,
	}).Info("scan finished")

	return &AnalyzeResult{
		ID:         string(scan.ID),
		Status:     string(scan.Status),
		Competitor: scan.Competitor,
		Model:      scan.ModelID,
		PostCount:  scan.PostCount,
		Result:     scan.Result,
		ReportURL:  scan.ReportURL,
		DurationMS: scan.DurationMS,
	}, nil
}

// Latest ambil N scan terakhir
func (s *Service) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Scan, error) {
	return s.Repo.Latest(ctx, tenant, limit)
}

// Get ambil 1 scan by id
func (s *Service) Get(ctx context.Context, tenant string, id domain.ScanID) (*domain.Scan, error) {
	return s.Repo.Get(ctx, tenant, id)
}

// ScanErrors lists the failure entries of a scan.
func (s *Service) ScanErrors(ctx context.Context, tenant string, id domain.ScanID, limit int) ([]*scanerrors.ScanError, error) {
	if s.Errors == nil {
		return nil, nil
	}
	return s.Errors.ListByScan(ctx, tenant, string(id), limit)
}

// ErrNoCredentialStore is returned when credentials cannot be persisted.
var ErrNoCredentialStore = errors.New("credential store not configured")

// SaveCredentials stores the non-empty fields of creds for a tenant.
func (s *Service) SaveCredentials(ctx context.Context, tenant string, creds credentials.Credentials) error {
	if s.Credentials == nil {
		return ErrNoCredentialStore
	}
	return credentials.Save(ctx, s.Credentials, tenant, creds)
}

// MaskedCredentials returns the stored credentials with secrets masked.
func (s *Service) MaskedCredentials(ctx context.Context, tenant string) (credentials.Credentials, error) {
	if s.Credentials == nil {
		return credentials.Credentials{}, ErrNoCredentialStore
	}
	creds, err := credentials.Load(ctx, s.Credentials, tenant)
	if err != nil {
		return credentials.Credentials{}, err
	}
	return creds.Masked(), nil
}

// resolveCredentials merges command, stored and server default credentials,
// in that order of precedence. The store is read once.
func (s *Service) resolveCredentials(ctx context.Context, cmd AnalyzeCommand) (credentials.Credentials, error) {
	var creds credentials.Credentials
	if cmd.Credentials != nil {
		creds = *cmd.Credentials
	}
	if s.Credentials != nil {
		stored, err := credentials.Load(ctx, s.Credentials, cmd.TenantID)
		if err != nil {
			return credentials.Credentials{}, err
		}
		creds = creds.Merge(stored)
	}
	creds = creds.Merge(s.Defaults)
	if !creds.HasReddit() {
		return credentials.Credentials{}, domain.ErrMissingCredentials
	}
	return creds, nil
}

func (s *Service) uploadReport(ctx context.Context, scan *domain.Scan) (string, error) {
	data, err := json.MarshalIndent(scan, "", "  ")
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("reports/%s/%s.json", scan.TenantID, scan.ID)
	return s.Reports.Upload(ctx, key, data, "application/json")
}

// fail stores scan as failed and returns err unchanged.
func (s *Service) fail(ctx context.Context, log *logrus.Entry, scan *domain.Scan, stage scanerrors.Stage, err error) error {
	log.WithField("stage", stage).WithError(err).Error("scan failed")

	// the request context may already be cancelled
	ctx = context.WithoutCancel(ctx)
	scan.Status = domain.StatusFailed
	scan.Error = err.Error()
	scan.DurationMS = s.now().Sub(scan.TriggeredAt).Milliseconds()
	if serr := s.Repo.Save(ctx, scan); serr != nil {
		log.WithError(serr).Warn("save failed scan")
	}
	s.recordError(ctx, scan, stage, err)
	s.trim(ctx, log, scan.TenantID)
	return err
}

func (s *Service) recordError(ctx context.Context, scan *domain.Scan, stage scanerrors.Stage, err error) {
	if s.Errors == nil {
		return
	}
	details, _ := json.Marshal(map[string]any{
		"type":       fmt.Sprintf("%T", err),
		"competitor": scan.Competitor,
		"model":      scan.ModelID,
	})
	entry := &scanerrors.ScanError{
		TenantID:    scan.TenantID,
		ScanID:      string(scan.ID),
		Stage:       stage,
		Message:     err.Error(),
		DetailsJSON: string(details),
		CreatedAt:   s.now(),
	}
	if serr := s.Errors.Save(ctx, entry); serr != nil {
		logger.Log.WithError(serr).Warn("save scan error")
	}
}

func (s *Service) trim(ctx context.Context, log *logrus.Entry, tenant string) {
	keep := s.HistoryCap
	if keep <= 0 {
		keep = DefaultHistoryCap
	}
	if err := s.Repo.Trim(ctx, tenant, keep); err != nil {
		log.WithError(err).Warn("trim history")
	}
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}
