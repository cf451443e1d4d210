package store

import (
	"fmt"
	"time"

	"github.com/hargabyte/pkgdb/internal/stats"
)

// PackageGrowth pairs a package's latest snapshot with its week-over-week
// and month-over-month total growth.
type PackageGrowth struct {
	Latest HistoryRecord `json:"latest"`
	Week   stats.Growth  `json:"week"`
	Month  stats.Growth  `json:"month"`
}

// StatsWithGrowth returns the latest snapshot for every tracked package
// together with growth over the given lookback windows, in latest-total
// descending order.
func (s *Store) StatsWithGrowth(weekDays, monthDays int) ([]PackageGrowth, error) {
	latest, err := s.LatestStats()
	if err != nil {
		return nil, err
	}

	results := make([]PackageGrowth, 0, len(latest))
	for _, rec := range latest {
		history, err := s.PackageHistory(rec.PackageName, 0)
		if err != nil {
			return nil, err
		}
		obs, err := Observations(history)
		if err != nil {
			return nil, err
		}
		results = append(results, PackageGrowth{
			Latest: rec,
			Week:   stats.ComputeGrowth(obs, weekDays),
			Month:  stats.ComputeGrowth(obs, monthDays),
		})
	}
	return results, nil
}

// Observations converts history rows to dated total-download observations
// for growth computation.
func Observations(recs []HistoryRecord) ([]stats.Observation, error) {
	obs := make([]stats.Observation, 0, len(recs))
	for _, r := range recs {
		date, err := time.Parse("2006-01-02", r.FetchDate)
		if err != nil {
			return nil, fmt.Errorf("bad fetch date %q for %s: %w", r.FetchDate, r.PackageName, err)
		}
		obs = append(obs, stats.Observation{Date: date, Value: r.Total})
	}
	return obs, nil
}
