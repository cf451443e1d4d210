package pypi

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hargabyte/pkgdb/internal/stats"
)

// FetchAll fetches download counters for multiple packages with at most
// workers requests in flight. Individual failures do not abort the batch;
// they are reported in the errors map so callers can warn per package.
func (c *Client) FetchAll(ctx context.Context, packages []string, workers int) (map[string]*PackageStats, map[string]error) {
	results := make(map[string]*PackageStats, len(packages))
	failures := make(map[string]error)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for _, pkg := range packages {
		g.Go(func() error {
			st, err := c.FetchStats(ctx, pkg)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[pkg] = err
				return nil
			}
			results[pkg] = st
			return nil
		})
	}

	// Workers never return errors, so this only waits.
	_ = g.Wait()
	return results, failures
}

// EnvBreakdowns holds per-package environment breakdowns converted to the
// label-to-count maps the aggregator consumes. A "null" category is dropped
// for Python versions and relabeled "Unknown" for operating systems.
type EnvBreakdowns struct {
	Python []map[string]int64
	System []map[string]int64
}

// FetchAllEnv fetches Python version and operating system breakdowns for
// multiple packages with at most workers requests in flight. Failed
// packages are skipped and reported in the errors map.
func (c *Client) FetchAllEnv(ctx context.Context, packages []string, workers int) (EnvBreakdowns, map[string]error) {
	var breakdowns EnvBreakdowns
	failures := make(map[string]error)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for _, pkg := range packages {
		g.Go(func() error {
			py, err := c.FetchPythonVersions(ctx, pkg)
			if err != nil {
				mu.Lock()
				failures[pkg] = err
				mu.Unlock()
				return nil
			}
			osStats, err := c.FetchSystems(ctx, pkg)
			if err != nil {
				mu.Lock()
				failures[pkg] = err
				mu.Unlock()
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			breakdowns.Python = append(breakdowns.Python, PythonBreakdown(py))
			breakdowns.System = append(breakdowns.System, SystemBreakdown(osStats))
			return nil
		})
	}

	_ = g.Wait()
	return breakdowns, failures
}

// PythonBreakdown converts a Python version breakdown to a label-to-count
// map, dropping the "null" category.
func PythonBreakdown(rows []CategoryDownloads) map[string]int64 {
	m := make(map[string]int64, len(rows))
	for _, r := range rows {
		if r.Category == "" || r.Category == "null" {
			continue
		}
		m[r.Category] += r.Downloads
	}
	return m
}

// SystemBreakdown converts an operating system breakdown to a
// label-to-count map, relabeling the "null" category as "Unknown".
func SystemBreakdown(rows []CategoryDownloads) map[string]int64 {
	m := make(map[string]int64, len(rows))
	for _, r := range rows {
		label := r.Category
		if label == "" || label == "null" {
			label = "Unknown"
		}
		m[label] += r.Downloads
	}
	return m
}

// AggregatePython sums Python version breakdowns into an ordered summary.
func AggregatePython(b EnvBreakdowns) stats.EnvSummary {
	return stats.AggregateEnv(stats.DimensionPython, b.Python)
}

// AggregateSystem sums operating system breakdowns into an ordered summary.
func AggregateSystem(b EnvBreakdowns) stats.EnvSummary {
	return stats.AggregateEnv(stats.DimensionSystem, b.System)
}
