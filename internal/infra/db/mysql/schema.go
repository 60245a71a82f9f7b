package mysql

import (
	"context"
	"database/sql"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS roast_scans (
  id            VARCHAR(64)  NOT NULL PRIMARY KEY,
  tenant_id     VARCHAR(64)  NOT NULL,
  competitor    VARCHAR(255) NOT NULL,
  subreddit     VARCHAR(64)  NOT NULL DEFAULT '',
  time_range    VARCHAR(8)   NOT NULL DEFAULT '3',
  model_id      VARCHAR(128) NOT NULL,
  status        VARCHAR(16)  NOT NULL,
  post_count    INT          NOT NULL DEFAULT 0,
  result_json   JSON         NULL,
  report_url    TEXT         NULL,
  error_message TEXT         NULL,
  triggered_at  DATETIME(6)  NOT NULL,
  duration_ms   BIGINT       NOT NULL DEFAULT 0,
  KEY idx_roast_scans_tenant_time (tenant_id, triggered_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS tenant_metadata (
  tenant_id  VARCHAR(64)  NOT NULL,
  meta_key   VARCHAR(64)  NOT NULL,
  meta_value TEXT         NOT NULL,
  updated_at DATETIME(6)  NOT NULL,
  PRIMARY KEY (tenant_id, meta_key)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS roast_scan_errors (
  id           BIGINT AUTO_INCREMENT PRIMARY KEY,
  tenant_id    VARCHAR(64) NOT NULL,
  scan_id      VARCHAR(64) NOT NULL,
  stage        VARCHAR(32) NOT NULL,
  message      TEXT        NOT NULL,
  details_json JSON        NOT NULL,
  created_at   DATETIME(6) NOT NULL,
  KEY idx_roast_scan_errors_scan (tenant_id, scan_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
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
