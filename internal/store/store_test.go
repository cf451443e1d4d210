package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// testStore creates a temporary sqlite store for testing.
func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pkgdb.db")

	s, err := Open(BackendSQLite, path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func rec(name, date string, total int64) HistoryRecord {
	return HistoryRecord{
		PackageName: name,
		FetchDate:   date,
		LastDay:     total / 30,
		LastWeek:    total / 4,
		LastMonth:   total / 2,
		Total:       total,
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data", "pkgdb.db")

	s, err := Open(BackendSQLite, path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("expected database file to be created")
	}
	if s.Backend() != BackendSQLite {
		t.Errorf("expected sqlite backend, got %s", s.Backend())
	}

	// Reopening an existing database must not fail on schema init.
	s.Close()
	s2, err := Open(BackendSQLite, path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	s2.Close()
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("postgres", "/tmp/x"); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestAddRemovePackage(t *testing.T) {
	s := testStore(t)

	if err := s.AddPackage("requests"); err != nil {
		t.Fatalf("add package: %v", err)
	}

	tracked, err := s.HasPackage("requests")
	if err != nil {
		t.Fatalf("has package: %v", err)
	}
	if !tracked {
		t.Error("expected requests to be tracked")
	}

	// Adding again is an error
	err = s.AddPackage("requests")
	if !errors.Is(err, ErrAlreadyTracked) {
		t.Errorf("expected ErrAlreadyTracked, got %v", err)
	}

	if err := s.RemovePackage("requests"); err != nil {
		t.Fatalf("remove package: %v", err)
	}

	tracked, _ = s.HasPackage("requests")
	if tracked {
		t.Error("expected requests to be removed")
	}

	err = s.RemovePackage("requests")
	if !errors.Is(err, ErrNotTracked) {
		t.Errorf("expected ErrNotTracked, got %v", err)
	}
}

func TestListPackages(t *testing.T) {
	s := testStore(t)

	for _, name := range []string{"numpy", "flask", "requests"} {
		if err := s.AddPackage(name); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}

	packages, err := s.ListPackages()
	if err != nil {
		t.Fatalf("list packages: %v", err)
	}
	if len(packages) != 3 {
		t.Fatalf("expected 3 packages, got %d", len(packages))
	}

	// Ordered by name
	want := []string{"flask", "numpy", "requests"}
	for i, p := range packages {
		if p.Name != want[i] {
			t.Errorf("package %d: expected %s, got %s", i, want[i], p.Name)
		}
		if p.AddedDate == "" {
			t.Errorf("package %s missing added date", p.Name)
		}
	}
}

func TestUpsertStatsReplacesSameDay(t *testing.T) {
	s := testStore(t)
	if err := s.AddPackage("requests"); err != nil {
		t.Fatal(err)
	}

	if err := s.UpsertStats(rec("requests", "2026-08-01", 1000)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.UpsertStats(rec("requests", "2026-08-01", 2000)); err != nil {
		t.Fatalf("upsert same day: %v", err)
	}

	history, err := s.PackageHistory("requests", 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 row after same-day refetch, got %d", len(history))
	}
	if history[0].Total != 2000 {
		t.Errorf("expected replaced total 2000, got %d", history[0].Total)
	}
}

func TestUpsertStatsBulk(t *testing.T) {
	s := testStore(t)
	for _, name := range []string{"requests", "flask"} {
		if err := s.AddPackage(name); err != nil {
			t.Fatal(err)
		}
	}

	recs := []HistoryRecord{
		rec("requests", "2026-08-01", 1000),
		rec("requests", "2026-08-02", 1100),
		rec("flask", "2026-08-01", 500),
	}
	if err := s.UpsertStatsBulk(recs); err != nil {
		t.Fatalf("bulk upsert: %v", err)
	}

	history, err := s.PackageHistory("requests", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Errorf("expected 2 requests rows, got %d", len(history))
	}

	// Empty slice is a no-op
	if err := s.UpsertStatsBulk(nil); err != nil {
		t.Errorf("empty bulk upsert: %v", err)
	}
}

func TestLatestStats(t *testing.T) {
	s := testStore(t)
	for _, name := range []string{"requests", "flask", "numpy"} {
		if err := s.AddPackage(name); err != nil {
			t.Fatal(err)
		}
	}

	err := s.UpsertStatsBulk([]HistoryRecord{
		rec("requests", "2026-08-01", 9000),
		rec("requests", "2026-08-02", 10000),
		rec("flask", "2026-08-01", 3000),
		rec("flask", "2026-08-02", 2500),
	})
	if err != nil {
		t.Fatal(err)
	}

	latest, err := s.LatestStats()
	if err != nil {
		t.Fatalf("latest stats: %v", err)
	}

	// numpy has no stats yet, so only two rows, ordered by total desc
	if len(latest) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(latest))
	}
	if latest[0].PackageName != "requests" || latest[0].Total != 10000 {
		t.Errorf("expected requests 10000 first, got %s %d", latest[0].PackageName, latest[0].Total)
	}
	if latest[1].PackageName != "flask" || latest[1].FetchDate != "2026-08-02" {
		t.Errorf("expected flask latest row, got %+v", latest[1])
	}
}

func TestLatestStatsExcludesUntracked(t *testing.T) {
	s := testStore(t)
	if err := s.AddPackage("requests"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertStats(rec("requests", "2026-08-01", 1000)); err != nil {
		t.Fatal(err)
	}
	if err := s.RemovePackage("requests"); err != nil {
		t.Fatal(err)
	}

	latest, err := s.LatestStats()
	if err != nil {
		t.Fatal(err)
	}
	if len(latest) != 0 {
		t.Errorf("expected no rows for untracked package, got %d", len(latest))
	}
}

func TestPackageHistoryLimit(t *testing.T) {
	s := testStore(t)
	if err := s.AddPackage("requests"); err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 5; i++ {
		date := time.Date(2026, 8, i, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		if err := s.UpsertStats(rec("requests", date, int64(i*100))); err != nil {
			t.Fatal(err)
		}
	}

	history, err := s.PackageHistory("requests", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(history))
	}

	// Most recent 3, still in ascending order
	want := []string{"2026-08-03", "2026-08-04", "2026-08-05"}
	for i, r := range history {
		if r.FetchDate != want[i] {
			t.Errorf("row %d: expected %s, got %s", i, want[i], r.FetchDate)
		}
	}
}

func TestAllHistory(t *testing.T) {
	s := testStore(t)
	for _, name := range []string{"requests", "flask"} {
		if err := s.AddPackage(name); err != nil {
			t.Fatal(err)
		}
	}

	err := s.UpsertStatsBulk([]HistoryRecord{
		rec("requests", "2026-08-01", 100),
		rec("requests", "2026-08-02", 110),
		rec("requests", "2026-08-03", 120),
		rec("flask", "2026-08-02", 50),
		rec("flask", "2026-08-03", 55),
	})
	if err != nil {
		t.Fatal(err)
	}

	all, err := s.AllHistory(2)
	if err != nil {
		t.Fatalf("all history: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 rows (2 per package), got %d", len(all))
	}

	// Grouped by name, ascending dates within each group
	want := []struct {
		name string
		date string
	}{
		{"flask", "2026-08-02"},
		{"flask", "2026-08-03"},
		{"requests", "2026-08-02"},
		{"requests", "2026-08-03"},
	}
	for i, r := range all {
		if r.PackageName != want[i].name || r.FetchDate != want[i].date {
			t.Errorf("row %d: expected %s %s, got %s %s",
				i, want[i].name, want[i].date, r.PackageName, r.FetchDate)
		}
	}

	// Limit 0 means unlimited
	all, err = s.AllHistory(0)
	if err != nil {
		t.Fatalf("all history: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected all 5 rows with limit 0, got %d", len(all))
	}
}

func TestStatsWithGrowth(t *testing.T) {
	s := testStore(t)
	if err := s.AddPackage("requests"); err != nil {
		t.Fatal(err)
	}

	err := s.UpsertStatsBulk([]HistoryRecord{
		rec("requests", "2026-08-01", 1000),
		rec("requests", "2026-08-10", 1500),
	})
	if err != nil {
		t.Fatal(err)
	}

	results, err := s.StatsWithGrowth(7, 28)
	if err != nil {
		t.Fatalf("stats with growth: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	r := results[0]
	if r.Latest.Total != 1500 {
		t.Errorf("expected latest total 1500, got %d", r.Latest.Total)
	}
	if !r.Week.Defined {
		t.Fatal("expected week growth to be defined")
	}
	if r.Week.Percent != 50 {
		t.Errorf("expected 50%% week growth, got %f", r.Week.Percent)
	}
	// Only 9 days of history, so no month-lookback point exists
	if r.Month.Defined {
		t.Error("expected month growth to be undefined")
	}
}

func TestCleanupOrphans(t *testing.T) {
	s := testStore(t)
	for _, name := range []string{"requests", "flask"} {
		if err := s.AddPackage(name); err != nil {
			t.Fatal(err)
		}
	}
	err := s.UpsertStatsBulk([]HistoryRecord{
		rec("requests", "2026-08-01", 100),
		rec("flask", "2026-08-01", 50),
		rec("flask", "2026-08-02", 55),
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.RemovePackage("flask"); err != nil {
		t.Fatal(err)
	}

	n, err := s.CleanupOrphans()
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 orphan rows removed, got %d", n)
	}

	history, err := s.PackageHistory("requests", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 {
		t.Errorf("requests history should survive cleanup, got %d rows", len(history))
	}
}

func TestPrune(t *testing.T) {
	s := testStore(t)
	if err := s.AddPackage("requests"); err != nil {
		t.Fatal(err)
	}

	old := time.Now().UTC().AddDate(0, 0, -400).Format("2006-01-02")
	recent := time.Now().UTC().Format("2006-01-02")
	err := s.UpsertStatsBulk([]HistoryRecord{
		rec("requests", old, 100),
		rec("requests", recent, 200),
	})
	if err != nil {
		t.Fatal(err)
	}

	n, err := s.Prune(365)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row pruned, got %d", n)
	}

	history, err := s.PackageHistory("requests", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].FetchDate != recent {
		t.Errorf("expected only the recent row to survive, got %+v", history)
	}

	if _, err := s.Prune(0); err == nil {
		t.Error("expected error for non-positive days")
	}
}
