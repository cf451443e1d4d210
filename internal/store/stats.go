package store

import (
	"fmt"
)

// HistoryRecord is one fetched snapshot of a package's download counters.
// FetchDate is a YYYY-MM-DD string and forms the natural key with the name;
// refetching on the same day replaces the row.
type HistoryRecord struct {
	PackageName string `json:"package_name"`
	FetchDate   string `json:"fetch_date"`
	LastDay     int64  `json:"last_day"`
	LastWeek    int64  `json:"last_week"`
	LastMonth   int64  `json:"last_month"`
	Total       int64  `json:"total"`
}

func (s *Store) upsertStatsSQL() string {
	if s.backend == BackendDolt {
		return `INSERT INTO package_stats (package_name, fetch_date, last_day, last_week, last_month, total)
			VALUES (?, ?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				last_day = VALUES(last_day),
				last_week = VALUES(last_week),
				last_month = VALUES(last_month),
				total = VALUES(total)`
	}
	return `INSERT INTO package_stats (package_name, fetch_date, last_day, last_week, last_month, total)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(package_name, fetch_date) DO UPDATE SET
			last_day = excluded.last_day,
			last_week = excluded.last_week,
			last_month = excluded.last_month,
			total = excluded.total`
}

// UpsertStats inserts or replaces one snapshot.
func (s *Store) UpsertStats(rec HistoryRecord) error {
	_, err := s.db.Exec(s.upsertStatsSQL(),
		rec.PackageName, rec.FetchDate, rec.LastDay, rec.LastWeek, rec.LastMonth, rec.Total)
	if err != nil {
		return fmt.Errorf("upsert stats for %s: %w", rec.PackageName, err)
	}
	return nil
}

// UpsertStatsBulk inserts or replaces multiple snapshots in a single
// transaction. Much faster than calling UpsertStats repeatedly.
func (s *Store) UpsertStatsBulk(recs []HistoryRecord) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(s.upsertStatsSQL())
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare statement: %w", err)
	}

	for i, rec := range recs {
		_, err := stmt.Exec(rec.PackageName, rec.FetchDate,
			rec.LastDay, rec.LastWeek, rec.LastMonth, rec.Total)
		if err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("upsert stats %d (%s): %w", i, rec.PackageName, err)
		}
	}

	stmt.Close()
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction (%d records): %w", len(recs), err)
	}

	return nil
}

// LatestStats returns the most recent snapshot for every tracked package,
// ordered by total downloads descending (ties by name). Tracked packages
// that have never been fetched are not included.
func (s *Store) LatestStats() ([]HistoryRecord, error) {
	rows, err := s.db.Query(`
		SELECT ps.package_name, ps.fetch_date, ps.last_day, ps.last_week, ps.last_month, ps.total
		FROM package_stats ps
		JOIN (
			SELECT package_name, MAX(fetch_date) AS max_date
			FROM package_stats
			GROUP BY package_name
		) latest ON ps.package_name = latest.package_name AND ps.fetch_date = latest.max_date
		JOIN packages p ON p.package_name = ps.package_name
		ORDER BY ps.total DESC, ps.package_name`)
	if err != nil {
		return nil, fmt.Errorf("query latest stats: %w", err)
	}
	defer rows.Close()
	return scanHistory(rows)
}

// PackageHistory returns snapshots for one package in ascending date order.
// A positive limit keeps only the most recent limit snapshots.
func (s *Store) PackageHistory(name string, limit int) ([]HistoryRecord, error) {
	query := `
		SELECT package_name, fetch_date, last_day, last_week, last_month, total
		FROM package_stats
		WHERE package_name = ?
		ORDER BY fetch_date`
	args := []any{name}
	if limit > 0 {
		query = `
			SELECT package_name, fetch_date, last_day, last_week, last_month, total
			FROM (
				SELECT package_name, fetch_date, last_day, last_week, last_month, total
				FROM package_stats
				WHERE package_name = ?
				ORDER BY fetch_date DESC
				LIMIT ?
			) recent
			ORDER BY fetch_date`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history for %s: %w", name, err)
	}
	defer rows.Close()
	return scanHistory(rows)
}

// AllHistory returns the most recent limitPerPackage snapshots for every
// tracked package, grouped by name with ascending dates inside each group.
// A limit of 0 or less returns every snapshot.
func (s *Store) AllHistory(limitPerPackage int) ([]HistoryRecord, error) {
	limit := limitPerPackage
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
		SELECT package_name, fetch_date, last_day, last_week, last_month, total
		FROM (
			SELECT ps.package_name, ps.fetch_date, ps.last_day, ps.last_week, ps.last_month, ps.total,
				ROW_NUMBER() OVER (PARTITION BY ps.package_name ORDER BY ps.fetch_date DESC) AS rn
			FROM package_stats ps
			JOIN packages p ON p.package_name = ps.package_name
		) ranked
		WHERE ? < 0 OR rn <= ?
		ORDER BY package_name, fetch_date`, limit, limit)
	if err != nil {
		return nil, fmt.Errorf("query all history: %w", err)
	}
	defer rows.Close()
	return scanHistory(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanHistory(rows rowScanner) ([]HistoryRecord, error) {
	var recs []HistoryRecord
	for rows.Next() {
		var r HistoryRecord
		if err := rows.Scan(&r.PackageName, &r.FetchDate,
			&r.LastDay, &r.LastWeek, &r.LastMonth, &r.Total); err != nil {
			return nil, fmt.Errorf("scan stats row: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}
