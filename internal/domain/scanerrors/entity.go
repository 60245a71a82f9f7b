package scanerrors

import "time"

// Stage names the pipeline step that failed.
type Stage string

const (
	StageModel       Stage = "model"
	StageCredentials Stage = "credentials"
	StageAuth        Stage = "auth"
	StageSearch      Stage = "search"
	StageFilter      Stage = "filter"
	StageAnalyze     Stage = "analyze"
	StageReport      Stage = "report"
)

// ScanError represents a persisted pipeline failure entry
type ScanError struct {
	ID          int64     `json:"id"`
	TenantID    string    `json:"tenant_id"`
	ScanID      string    `json:"scan_id"`
	Stage       Stage     `json:"stage"`
	Message     string    `json:"message"`
	DetailsJSON string    `json:"details_json,omitempty"` // raw JSON string
	CreatedAt   time.Time `json:"created_at"`
}
