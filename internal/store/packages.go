package store

import (
	"fmt"
	"time"
)

// Package is one entry in the tracking list.
type Package struct {
	Name      string `json:"name"`
	AddedDate string `json:"added_date"` // YYYY-MM-DD
}

// AddPackage adds a package to the tracking list.
// Returns ErrAlreadyTracked if the package is already present.
func (s *Store) AddPackage(name string) error {
	tracked, err := s.HasPackage(name)
	if err != nil {
		return err
	}
	if tracked {
		return fmt.Errorf("%w: %s", ErrAlreadyTracked, name)
	}

	added := time.Now().UTC().Format("2006-01-02")
	if _, err := s.db.Exec(
		`INSERT INTO packages (package_name, added_date) VALUES (?, ?)`,
		name, added); err != nil {
		return fmt.Errorf("insert package %s: %w", name, err)
	}
	return nil
}

// RemovePackage removes a package from the tracking list. Its stats history
// is kept until CleanupOrphans runs.
// Returns ErrNotTracked if the package is not present.
func (s *Store) RemovePackage(name string) error {
	res, err := s.db.Exec(`DELETE FROM packages WHERE package_name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete package %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete package %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotTracked, name)
	}
	return nil
}

// HasPackage reports whether a package is in the tracking list.
func (s *Store) HasPackage(name string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM packages WHERE package_name = ?`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check package %s: %w", name, err)
	}
	return count > 0, nil
}

// ListPackages returns all tracked packages ordered by name.
func (s *Store) ListPackages() ([]Package, error) {
	rows, err := s.db.Query(
		`SELECT package_name, added_date FROM packages ORDER BY package_name`)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	var packages []Package
	for rows.Next() {
		var p Package
		if err := rows.Scan(&p.Name, &p.AddedDate); err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		packages = append(packages, p)
	}
	return packages, rows.Err()
}
