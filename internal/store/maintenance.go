package store

import (
	"fmt"
	"time"
)

// CleanupOrphans deletes stats history for packages that are no longer
// tracked. Returns the number of rows removed.
func (s *Store) CleanupOrphans() (int64, error) {
	res, err := s.db.Exec(`
		DELETE FROM package_stats
		WHERE package_name NOT IN (SELECT package_name FROM packages)`)
	if err != nil {
		return 0, fmt.Errorf("cleanup orphan stats: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cleanup orphan stats: %w", err)
	}
	return n, nil
}

// Prune deletes snapshots older than the given number of days. The cutoff
// is computed here rather than in SQL so both backends agree on it.
// Returns the number of rows removed.
func (s *Store) Prune(days int) (int64, error) {
	if days <= 0 {
		return 0, fmt.Errorf("prune days must be positive, got %d", days)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02")
	res, err := s.db.Exec(`DELETE FROM package_stats WHERE fetch_date < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune stats before %s: %w", cutoff, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune stats before %s: %w", cutoff, err)
	}
	return n, nil
}
