// Package pypi is a client for the pypistats.org JSON API. It fetches
// download counters and environment breakdowns for individual packages and
// fans out across the tracking list with a bounded worker pool.
package pypi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/tidwall/gjson"

	"github.com/hargabyte/pkgdb/internal/config"
)

// ErrNotFound is returned when pypistats.org has no data for a package.
var ErrNotFound = errors.New("package not found")

// PackageStats holds the download counters from the recent and overall
// endpoints. Total counts downloads without mirrors.
type PackageStats struct {
	LastDay   int64
	LastWeek  int64
	LastMonth int64
	Total     int64
}

// CategoryDownloads is one row of an environment breakdown.
type CategoryDownloads struct {
	Category  string
	Downloads int64
}

// Client calls the pypistats.org API.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates a client from fetch configuration.
func NewClient(cfg config.FetchConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// FetchStats fetches the recent counters and the without-mirrors total for
// one package.
func (c *Client) FetchStats(ctx context.Context, name string) (*PackageStats, error) {
	recent, err := c.get(ctx, fmt.Sprintf("/packages/%s/recent", name))
	if err != nil {
		return nil, err
	}

	stats := &PackageStats{
		LastDay:   gjson.GetBytes(recent, "data.last_day").Int(),
		LastWeek:  gjson.GetBytes(recent, "data.last_week").Int(),
		LastMonth: gjson.GetBytes(recent, "data.last_month").Int(),
	}

	overall, err := c.get(ctx, fmt.Sprintf("/packages/%s/overall", name))
	if err != nil {
		return nil, err
	}
	for _, item := range gjson.GetBytes(overall, "data").Array() {
		if item.Get("category").String() == "without_mirrors" {
			stats.Total = item.Get("downloads").Int()
			break
		}
	}

	return stats, nil
}

// FetchPythonVersions fetches the download breakdown by Python minor
// version, sorted by downloads descending.
func (c *Client) FetchPythonVersions(ctx context.Context, name string) ([]CategoryDownloads, error) {
	return c.fetchBreakdown(ctx, fmt.Sprintf("/packages/%s/python_minor", name))
}

// FetchSystems fetches the download breakdown by operating system, sorted
// by downloads descending.
func (c *Client) FetchSystems(ctx context.Context, name string) ([]CategoryDownloads, error) {
	return c.fetchBreakdown(ctx, fmt.Sprintf("/packages/%s/system", name))
}

func (c *Client) fetchBreakdown(ctx context.Context, path string) ([]CategoryDownloads, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var breakdown []CategoryDownloads
	for _, item := range gjson.GetBytes(body, "data").Array() {
		breakdown = append(breakdown, CategoryDownloads{
			Category:  item.Get("category").String(),
			Downloads: item.Get("downloads").Int(),
		})
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Downloads > breakdown[j].Downloads
	})
	return breakdown, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("GET %s: malformed JSON response", path)
	}
	return body, nil
}
