package postgres

import (
	"context"
	"database/sql"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS roast_scans (
  id            VARCHAR(64)  PRIMARY KEY,
  tenant_id     VARCHAR(64)  NOT NULL,
  competitor    VARCHAR(255) NOT NULL,
  subreddit     VARCHAR(64)  NOT NULL DEFAULT '',
  time_range    VARCHAR(8)   NOT NULL DEFAULT '3',
  model_id      VARCHAR(128) NOT NULL,
  status        VARCHAR(16)  NOT NULL,
  post_count    INTEGER      NOT NULL DEFAULT 0,
  result_json   JSONB        NULL,
  report_url    TEXT         NULL,
  error_message TEXT         NULL,
  triggered_at  TIMESTAMPTZ  NOT NULL,
  duration_ms   BIGINT       NOT NULL DEFAULT 0
)`,
	`CREATE INDEX IF NOT EXISTS idx_roast_scans_tenant_time ON roast_scans (tenant_id, triggered_at DESC)`,
	`CREATE TABLE IF NOT EXISTS tenant_metadata (
  tenant_id  VARCHAR(64) NOT NULL,
  meta_key   VARCHAR(64) NOT NULL,
  meta_value TEXT        NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL,
  PRIMARY KEY (tenant_id, meta_key)
)`,
	`CREATE TABLE IF NOT EXISTS roast_scan_errors (
  id           BIGSERIAL   PRIMARY KEY,
  tenant_id    VARCHAR(64) NOT NULL,
  scan_id      VARCHAR(64) NOT NULL,
  stage        VARCHAR(32) NOT NULL,
  message      TEXT        NOT NULL,
  details_json JSONB       NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_roast_scan_errors_scan ON roast_scan_errors (tenant_id, scan_id)`,
}

// Migrate creates the tables if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
