package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// MetadataStore keeps per-tenant key/value metadata (API credentials).
// Values are stored as given.
type MetadataStore struct {
	db *sql.DB
}

func NewMetadataStore(db *sql.DB) *MetadataStore {
	return &MetadataStore{db: db}
}

func (m *MetadataStore) Get(ctx context.Context, tenant, key string) (string, bool, error) {
	const q = `SELECT meta_value FROM tenant_metadata WHERE tenant_id=? AND meta_key=? LIMIT 1;`
	var v string
	err := m.db.QueryRowContext(ctx, q, tenant, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (m *MetadataStore) Set(ctx context.Context, tenant, key, value string) error {
	const q = `
INSERT INTO tenant_metadata (tenant_id, meta_key, meta_value, updated_at)
VALUES (?,?,?,?)
ON DUPLICATE KEY UPDATE meta_value=VALUES(meta_value), updated_at=VALUES(updated_at);`
	_, err := m.db.ExecContext(ctx, q, tenant, key, value, time.Now().UTC())
	return err
}
