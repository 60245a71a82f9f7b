package scans

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, s *Scan) error
	Get(ctx context.Context, tenant string, id ScanID) (*Scan, error)
	Latest(ctx context.Context, tenant string, limit int) ([]*Scan, error)
	// Trim keeps the newest keep scans of a tenant and deletes the rest.
	Trim(ctx context.Context, tenant string, keep int) error
}

// ReportStore port (penyimpanan laporan hasil analisa)
type ReportStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
