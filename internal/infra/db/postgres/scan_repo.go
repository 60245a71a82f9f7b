package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/bryanwahyu/roast-radar/internal/domain/scans"
)

type ScanRepository struct{ db *sql.DB }

func NewScanRepository(db *sql.DB) *ScanRepository { return &ScanRepository{db: db} }

const scanColumns = `id, tenant_id, competitor, subreddit, time_range, model_id, status,
       post_count, result_json, report_url, error_message, triggered_at, duration_ms`

// Save insert/update Scan record
func (r *ScanRepository) Save(ctx context.Context, s *domain.Scan) error {
	const q = `
INSERT INTO roast_scans
(id, tenant_id, competitor, subreddit, time_range, model_id, status,
 post_count, result_json, report_url, error_message, triggered_at, duration_ms)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (id) DO UPDATE SET
 status = EXCLUDED.status,
 post_count = EXCLUDED.post_count,
 result_json = EXCLUDED.result_json,
 report_url = EXCLUDED.report_url,
 error_message = EXCLUDED.error_message,
 duration_ms = EXCLUDED.duration_ms;`

	result, err := encodeResult(s.Result)
	if err != nil {
		return err
	}
	triggered := s.TriggeredAt
	if triggered.IsZero() {
		triggered = time.Now()
	}

	_, err = r.db.ExecContext(ctx, q,
		s.ID, stringOrDash(s.TenantID), s.Competitor, s.Subreddit, s.TimeRange,
		stringOrDash(s.ModelID), stringOrDash(string(s.Status)),
		s.PostCount, result, s.ReportURL, s.Error, triggered.UTC(), s.DurationMS,
	)
	return err
}

// Get by ID + Tenant
func (r *ScanRepository) Get(ctx context.Context, tenant string, id domain.ScanID) (*domain.Scan, error) {
	q := `SELECT ` + scanColumns + ` FROM roast_scans WHERE tenant_id=$1 AND id=$2 LIMIT 1;`
	s, err := scanRow(r.db.QueryRowContext(ctx, q, tenant, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return s, err
}

// Latest scans per tenant
func (r *ScanRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Scan, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT ` + scanColumns + ` FROM roast_scans WHERE tenant_id=$1 ORDER BY triggered_at DESC, id DESC LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Scan
	for rows.Next() {
		s, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Trim keeps the newest keep scans of a tenant and drops the error entries
// of the rest.
func (r *ScanRepository) Trim(ctx context.Context, tenant string, keep int) error {
	if keep <= 0 {
		return nil
	}
	const newest = `SELECT id FROM roast_scans WHERE tenant_id=$1 ORDER BY triggered_at DESC, id DESC LIMIT $2`
	const qErrors = `DELETE FROM roast_scan_errors WHERE tenant_id=$1 AND scan_id NOT IN (` + newest + `)`
	const qScans = `DELETE FROM roast_scans WHERE tenant_id=$1 AND id NOT IN (` + newest + `)`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, qErrors, tenant, keep); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, qScans, tenant, keep); err != nil {
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(row rowScanner) (*domain.Scan, error) {
	var s domain.Scan
	var result, reportURL, errMsg sql.NullString
	if err := row.Scan(
		&s.ID, &s.TenantID, &s.Competitor, &s.Subreddit, &s.TimeRange, &s.ModelID, &s.Status,
		&s.PostCount, &result, &reportURL, &errMsg, &s.TriggeredAt, &s.DurationMS,
	); err != nil {
		return nil, err
	}
	res, err := decodeResult(result)
	if err != nil {
		return nil, err
	}
	s.Result = res
	s.ReportURL = reportURL.String
	s.Error = errMsg.String
	return &s, nil
}
