package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// MetadataStore keeps per-tenant key/value metadata (API credentials).
type MetadataStore struct{ db *sql.DB }

func NewMetadataStore(db *sql.DB) *MetadataStore { return &MetadataStore{db: db} }

func (m *MetadataStore) Get(ctx context.Context, tenant, key string) (string, bool, error) {
	var v string
	err := m.db.QueryRowContext(ctx,
		`SELECT meta_value FROM tenant_metadata WHERE tenant_id=$1 AND meta_key=$2 LIMIT 1;`,
		tenant, key,
	).Scan(&v)
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
VALUES ($1,$2,$3,$4)
ON CONFLICT (tenant_id, meta_key) DO UPDATE SET
  meta_value = EXCLUDED.meta_value,
  updated_at = EXCLUDED.updated_at;`
	_, err := m.db.ExecContext(ctx, q, tenant, key, value, time.Now().UTC())
	return err
}
