package scans

import (
	"time"

	"github.com/bryanwahyu/roast-radar/internal/domain/ai"
)

// ScanID identifies one pipeline run.
type ScanID string

// Status enum
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Scan is the history record of one competitor analysis.
type Scan struct {
	ID          ScanID     `json:"id"`
	TenantID    string     `json:"tenant_id"`
	Competitor  string     `json:"competitor"`
	Subreddit   string     `json:"subreddit,omitempty"`
	TimeRange   string     `json:"time_range"`
	ModelID     string     `json:"model_id"`
	Status      Status     `json:"status"`
	PostCount   int        `json:"post_count"`
	Result      *ai.Result `json:"result,omitempty"`
	ReportURL   string     `json:"report_url,omitempty"`
	Error       string     `json:"error,omitempty"`
	TriggeredAt time.Time  `json:"triggered_at"`
	DurationMS  int64      `json:"duration_ms"`
}
