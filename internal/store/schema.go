package store

// sqliteSchema defines the tracking list and stats history tables for the
// sqlite backend.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS packages (
    package_name TEXT NOT NULL UNIQUE,
    added_date TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS package_stats (
    package_name TEXT NOT NULL,
    fetch_date TEXT NOT NULL,
    last_day INTEGER NOT NULL DEFAULT 0,
    last_week INTEGER NOT NULL DEFAULT 0,
    last_month INTEGER NOT NULL DEFAULT 0,
    total INTEGER NOT NULL DEFAULT 0,
    UNIQUE(package_name, fetch_date)
);

CREATE INDEX IF NOT EXISTS idx_stats_name ON package_stats(package_name);
CREATE INDEX IF NOT EXISTS idx_stats_date ON package_stats(fetch_date);
`

// doltSchema is the MySQL-dialect equivalent. TEXT columns cannot carry
// UNIQUE constraints there, so package names use a bounded VARCHAR matching
// the validation limit and dates use the fixed YYYY-MM-DD width.
var doltSchema = []string{
	`CREATE TABLE IF NOT EXISTS packages (
		package_name VARCHAR(100) NOT NULL UNIQUE,
		added_date CHAR(10) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS package_stats (
		package_name VARCHAR(100) NOT NULL,
		fetch_date CHAR(10) NOT NULL,
		last_day BIGINT NOT NULL DEFAULT 0,
		last_week BIGINT NOT NULL DEFAULT 0,
		last_month BIGINT NOT NULL DEFAULT 0,
		total BIGINT NOT NULL DEFAULT 0,
		UNIQUE KEY uq_stats (package_name, fetch_date),
		KEY idx_stats_name (package_name),
		KEY idx_stats_date (fetch_date)
	)`,
}

// initSchema creates the tables and indexes if they don't exist.
func (s *Store) initSchema() error {
	if s.backend == BackendDolt {
		for _, stmt := range doltSchema {
			if _, err := s.db.Exec(stmt); err != nil {
				return err
			}
		}
		return nil
	}
	_, err := s.db.Exec(sqliteSchema)
	return err
}
