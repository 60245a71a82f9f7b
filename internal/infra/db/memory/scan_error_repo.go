package memory

import (
	"context"
	"sync"
	"time"

	domain "github.com/bryanwahyu/roast-radar/internal/domain/scanerrors"
)

type ScanErrorRepository struct {
	mu     sync.Mutex
	nextID int64
	items  []*domain.ScanError
}

func NewScanErrorRepository() *ScanErrorRepository { return &ScanErrorRepository{} }

func (r *ScanErrorRepository) Save(_ context.Context, e *domain.ScanError) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	cp := *e
	cp.ID = r.nextID
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	if cp.DetailsJSON == "" {
		cp.DetailsJSON = "{}"
	}
	r.items = append(r.items, &cp)
	e.ID = cp.ID
	return nil
}

// ListByScan returns entries newest first.
func (r *ScanErrorRepository) ListByScan(_ context.Context, tenant string, scanID string, limit int) ([]*domain.ScanError, error) {
	if limit <= 0 {
		limit = 20
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.ScanError
	for i := len(r.items) - 1; i >= 0 && len(out) < limit; i-- {
		e := r.items[i]
		if e.TenantID == tenant && e.ScanID == scanID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *ScanErrorRepository) dropScans(tenant string, ids map[string]bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0]
	for _, e := range r.items {
		if e.TenantID == tenant && ids[e.ScanID] {
			continue
		}
		kept = append(kept, e)
	}
	r.items = kept
}
