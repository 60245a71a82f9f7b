// Package memory holds process-local repositories used when no database is
// configured. Contents are lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"

	domain "github.com/bryanwahyu/roast-radar/internal/domain/scans"
)

type ScanRepository struct {
	mu    sync.RWMutex
	scans map[string]map[domain.ScanID]*domain.Scan
	// errs, when set, loses the entries of trimmed scans.
	errs *ScanErrorRepository
}

func NewScanRepository() *ScanRepository {
	return &ScanRepository{scans: map[string]map[domain.ScanID]*domain.Scan{}}
}

// WithErrorLog links the error log so Trim drops entries of removed scans.
func (r *ScanRepository) WithErrorLog(e *ScanErrorRepository) *ScanRepository {
	r.errs = e
	return r
}

func (r *ScanRepository) Save(_ context.Context, s *domain.Scan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byID, ok := r.scans[s.TenantID]
	if !ok {
		byID = map[domain.ScanID]*domain.Scan{}
		r.scans[s.TenantID] = byID
	}
	cp := *s
	byID[s.ID] = &cp
	return nil
}

func (r *ScanRepository) Get(_ context.Context, tenant string, id domain.ScanID) (*domain.Scan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scans[tenant][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *ScanRepository) Latest(_ context.Context, tenant string, limit int) ([]*domain.Scan, error) {
	if limit <= 0 {
		limit = 20
	}
	r.mu.RLock()
	sorted := r.sortedLocked(tenant)
	r.mu.RUnlock()
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]*domain.Scan, 0, len(sorted))
	for _, s := range sorted {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *ScanRepository) Trim(_ context.Context, tenant string, keep int) error {
	if keep <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	sorted := r.sortedLocked(tenant)
	removed := map[string]bool{}
	for _, s := range sorted[min(keep, len(sorted)):] {
		delete(r.scans[tenant], s.ID)
		removed[string(s.ID)] = true
	}
	if r.errs != nil && len(removed) > 0 {
		r.errs.dropScans(tenant, removed)
	}
	return nil
}

// sortedLocked returns the tenant's scans newest first. Caller holds mu.
func (r *ScanRepository) sortedLocked(tenant string) []*domain.Scan {
	out := make([]*domain.Scan, 0, len(r.scans[tenant]))
	for _, s := range r.scans[tenant] {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TriggeredAt.Equal(out[j].TriggeredAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].TriggeredAt.After(out[j].TriggeredAt)
	})
	return out
}
