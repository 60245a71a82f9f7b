package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bryanwahyu/roast-radar/internal/domain/scanerrors"
	"github.com/bryanwahyu/roast-radar/internal/domain/scans"
)

func TestScanRepositoryLatestAndTrim(t *testing.T) {
	ctx := context.Background()
	repo := NewScanRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s := &scans.Scan{
			ID:          scans.ScanID(fmt.Sprintf("scan-%d", i)),
			TenantID:    "acme",
			Competitor:  "Trello",
			Status:      scans.StatusSuccess,
			TriggeredAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Save(ctx, s); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	_ = repo.Save(ctx, &scans.Scan{ID: "other", TenantID: "globex", TriggeredAt: base})

	latest, err := repo.Latest(ctx, "acme", 2)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(latest) != 2 || latest[0].ID != "scan-4" || latest[1].ID != "scan-3" {
		t.Fatalf("unexpected order: %+v", latest)
	}

	if err := repo.Trim(ctx, "acme", 3); err != nil {
		t.Fatalf("trim: %v", err)
	}
	all, _ := repo.Latest(ctx, "acme", 100)
	if len(all) != 3 {
		t.Fatalf("want 3 after trim, got %d", len(all))
	}
	if _, err := repo.Get(ctx, "acme", "scan-0"); !errors.Is(err, scans.ErrNotFound) {
		t.Fatalf("oldest scan should be trimmed, got %v", err)
	}
	if _, err := repo.Get(ctx, "globex", "other"); err != nil {
		t.Fatalf("other tenant touched by trim: %v", err)
	}
}

func TestScanRepositoryTrimDropsErrorEntries(t *testing.T) {
	ctx := context.Background()
	errs := NewScanErrorRepository()
	repo := NewScanRepository().WithErrorLog(errs)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "new"} {
		_ = repo.Save(ctx, &scans.Scan{ID: scans.ScanID(id), TenantID: "acme", Status: scans.StatusFailed, TriggeredAt: base.Add(time.Duration(i) * time.Minute)})
		_ = errs.Save(ctx, &scanerrors.ScanError{TenantID: "acme", ScanID: id, Stage: scanerrors.StageSearch, Message: "boom"})
	}
	_ = errs.Save(ctx, &scanerrors.ScanError{TenantID: "globex", ScanID: "old", Stage: scanerrors.StageAuth, Message: "boom"})

	if err := repo.Trim(ctx, "acme", 1); err != nil {
		t.Fatal(err)
	}
	if list, _ := errs.ListByScan(ctx, "acme", "old", 10); len(list) != 0 {
		t.Errorf("entries of trimmed scan kept: %+v", list)
	}
	if list, _ := errs.ListByScan(ctx, "acme", "new", 10); len(list) != 1 {
		t.Errorf("entries of kept scan lost: %+v", list)
	}
	if list, _ := errs.ListByScan(ctx, "globex", "old", 10); len(list) != 1 {
		t.Errorf("other tenant's entries touched: %+v", list)
	}
}

func TestScanRepositoryGetIsTenantScoped(t *testing.T) {
	ctx := context.Background()
	repo := NewScanRepository()
	_ = repo.Save(ctx, &scans.Scan{ID: "a", TenantID: "acme"})
	if _, err := repo.Get(ctx, "globex", "a"); !errors.Is(err, scans.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestScanErrorRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewScanErrorRepository()
	for _, stage := range []scanerrors.Stage{scanerrors.StageAuth, scanerrors.StageSearch} {
		if err := repo.Save(ctx, &scanerrors.ScanError{TenantID: "acme", ScanID: "s1", Stage: stage, Message: "boom"}); err != nil {
			t.Fatal(err)
		}
	}
	list, err := repo.ListByScan(ctx, "acme", "s1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Stage != scanerrors.StageSearch || list[0].DetailsJSON != "{}" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestMetadataStore(t *testing.T) {
	ctx := context.Background()
	m := NewMetadataStore()
	if _, ok, _ := m.Get(ctx, "acme", "k"); ok {
		t.Fatal("expected missing key")
	}
	_ = m.Set(ctx, "acme", "k", "v1")
	_ = m.Set(ctx, "acme", "k", "v2")
	v, ok, err := m.Get(ctx, "acme", "k")
	if err != nil || !ok || v != "v2" {
		t.Fatalf("got %q %v %v", v, ok, err)
	}
}
