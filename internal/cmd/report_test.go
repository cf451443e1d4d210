package cmd

import (
	"path/filepath"
	"testing"

	"github.com/hargabyte/pkgdb/internal/store"
)

func TestHistorySeries(t *testing.T) {
	s, err := store.Open(store.BackendSQLite, filepath.Join(t.TempDir(), "pkg.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.AddPackage("requests"); err != nil {
		t.Fatal(err)
	}
	err = s.UpsertStatsBulk([]store.HistoryRecord{
		{PackageName: "requests", FetchDate: "2026-08-01", Total: 100},
		{PackageName: "requests", FetchDate: "2026-08-02", Total: 110},
		{PackageName: "requests", FetchDate: "2026-08-03", Total: 120},
	})
	if err != nil {
		t.Fatal(err)
	}

	series, err := historySeries(s, []string{"requests"})
	if err != nil {
		t.Fatalf("history series: %v", err)
	}
	if len(series) != 1 {
		t.Fatalf("expected 1 series, got %d", len(series))
	}
	// Every snapshot flows into the trend chart, not a truncated window.
	if len(series[0].Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(series[0].Points))
	}
	for i, total := range []int64{100, 110, 120} {
		if series[0].Points[i].Value != total {
			t.Errorf("point %d: expected total %d, got %d", i, total, series[0].Points[i].Value)
		}
	}

	// Packages with no snapshots are skipped rather than rendered empty.
	if err := s.AddPackage("flask"); err != nil {
		t.Fatal(err)
	}
	series, err = historySeries(s, []string{"requests", "flask"})
	if err != nil {
		t.Fatalf("history series: %v", err)
	}
	if len(series) != 1 {
		t.Fatalf("expected 1 series with never-fetched package skipped, got %d", len(series))
	}
}
