package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/bryanwahyu/roast-radar/internal/domain/scans"
)

type ScanRepository struct {
	db *sql.DB
}

func NewScanRepository(db *sql.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

const scanColumns = `id, tenant_id, competitor, subreddit, time_range, model_id, status,
       post_count, result_json, report_url, error_message, triggered_at, duration_ms`

// Save insert/update Scan record
func (r *ScanRepository) Save(ctx context.Context, s *domain.Scan) error {
	const q = `
INSERT INTO roast_scans
(id, tenant_id, competitor, subreddit, time_range, model_id, status,
 post_count, result_json, report_url, error_message, triggered_at, duration_ms)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 status=VALUES(status), post_count=VALUES(post_count),
 result_json=VALUES(result_json), report_url=VALUES(report_url),
 error_message=VALUES(error_message), duration_ms=VALUES(duration_ms);
`
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
	q := `SELECT ` + scanColumns + ` FROM roast_scans WHERE tenant_id=? AND id=? LIMIT 1;`
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
	q := `SELECT ` + scanColumns + ` FROM roast_scans WHERE tenant_id=? ORDER BY triggered_at DESC, id DESC LIMIT ?;`
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
	// MySQL rejects LIMIT inside IN subqueries; the derived table works around it.
	const newest = `
  SELECT id FROM (
    SELECT id FROM roast_scans WHERE tenant_id=? ORDER BY triggered_at DESC, id DESC LIMIT ?
  ) AS newest`
	const qErrors = `DELETE FROM roast_scan_errors WHERE tenant_id=? AND scan_id NOT IN (` + newest + `
);`
	const qScans = `DELETE FROM roast_scans WHERE tenant_id=? AND id NOT IN (` + newest + `
);`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// error entries go first so none outlive their scan
	if _, err := tx.ExecContext(ctx, qErrors, tenant, tenant, keep); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, qScans, tenant, tenant, keep); err != nil {
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
