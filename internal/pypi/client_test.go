package pypi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hargabyte/pkgdb/internal/config"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig().Fetch
	cfg.BaseURL = srv.URL
	return NewClient(cfg)
}

func fixtureHandler(t *testing.T, responses map[string]string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := responses[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	})
}

func TestFetchStats(t *testing.T) {
	client := testClient(t, fixtureHandler(t, map[string]string{
		"/packages/requests/recent": `{"data": {"last_day": 100, "last_week": 700, "last_month": 3000}}`,
		"/packages/requests/overall": `{"data": [
			{"category": "with_mirrors", "downloads": 99999},
			{"category": "without_mirrors", "downloads": 50000}
		]}`,
	}))

	st, err := client.FetchStats(context.Background(), "requests")
	require.NoError(t, err)
	assert.Equal(t, int64(100), st.LastDay)
	assert.Equal(t, int64(700), st.LastWeek)
	assert.Equal(t, int64(3000), st.LastMonth)
	assert.Equal(t, int64(50000), st.Total)
}

func TestFetchStatsNotFound(t *testing.T) {
	client := testClient(t, fixtureHandler(t, nil))

	_, err := client.FetchStats(context.Background(), "no-such-package")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchStatsMalformedJSON(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [broken`))
	}))

	_, err := client.FetchStats(context.Background(), "requests")
	assert.Error(t, err)
}

func TestFetchStatsServerError(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.FetchStats(context.Background(), "requests")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFetchPythonVersions(t *testing.T) {
	client := testClient(t, fixtureHandler(t, map[string]string{
		"/packages/requests/python_minor": `{"data": [
			{"category": "3.9", "downloads": 100},
			{"category": "3.11", "downloads": 5000},
			{"category": "null", "downloads": 40}
		]}`,
	}))

	rows, err := client.FetchPythonVersions(context.Background(), "requests")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Sorted by downloads descending
	assert.Equal(t, CategoryDownloads{Category: "3.11", Downloads: 5000}, rows[0])
	assert.Equal(t, "3.9", rows[1].Category)
}

func TestFetchSystems(t *testing.T) {
	client := testClient(t, fixtureHandler(t, map[string]string{
		"/packages/requests/system": `{"data": [
			{"category": "Linux", "downloads": 8000},
			{"category": "Windows", "downloads": 1500}
		]}`,
	}))

	rows, err := client.FetchSystems(context.Background(), "requests")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Linux", rows[0].Category)
}

func TestPythonBreakdown(t *testing.T) {
	m := PythonBreakdown([]CategoryDownloads{
		{"3.11", 5000},
		{"null", 40},
		{"3.9", 100},
	})

	assert.Equal(t, map[string]int64{"3.11": 5000, "3.9": 100}, m)
}

func TestSystemBreakdown(t *testing.T) {
	m := SystemBreakdown([]CategoryDownloads{
		{"Linux", 8000},
		{"null", 200},
	})

	assert.Equal(t, map[string]int64{"Linux": 8000, "Unknown": 200}, m)
}

func TestFetchAll(t *testing.T) {
	client := testClient(t, fixtureHandler(t, map[string]string{
		"/packages/requests/recent":  `{"data": {"last_day": 1, "last_week": 7, "last_month": 30}}`,
		"/packages/requests/overall": `{"data": [{"category": "without_mirrors", "downloads": 100}]}`,
		"/packages/flask/recent":     `{"data": {"last_day": 2, "last_week": 14, "last_month": 60}}`,
		"/packages/flask/overall":    `{"data": [{"category": "without_mirrors", "downloads": 200}]}`,
	}))

	results, failures := client.FetchAll(context.Background(), []string{"requests", "flask", "gone"}, 2)

	require.Len(t, results, 2)
	assert.Equal(t, int64(100), results["requests"].Total)
	assert.Equal(t, int64(200), results["flask"].Total)

	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures["gone"], ErrNotFound)
}

func TestFetchAllRespectsWorkerLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		w.Write([]byte(`{"data": {"last_day": 1}}`))
	})
	client := testClient(t, handler)

	packages := []string{"a", "b", "c", "d", "e", "f"}
	client.FetchAll(context.Background(), packages, 2)

	// Each fetch makes two sequential requests, so concurrency is bounded
	// by the worker limit.
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestFetchAllEnv(t *testing.T) {
	client := testClient(t, fixtureHandler(t, map[string]string{
		"/packages/requests/python_minor": `{"data": [{"category": "3.11", "downloads": 500}]}`,
		"/packages/requests/system":       `{"data": [{"category": "Linux", "downloads": 400}, {"category": "null", "downloads": 20}]}`,
	}))

	breakdowns, failures := client.FetchAllEnv(context.Background(), []string{"requests", "gone"}, 2)

	require.Len(t, breakdowns.Python, 1)
	require.Len(t, breakdowns.System, 1)
	assert.Equal(t, map[string]int64{"3.11": 500}, breakdowns.Python[0])
	assert.Equal(t, map[string]int64{"Linux": 400, "Unknown": 20}, breakdowns.System[0])
	assert.Len(t, failures, 1)

	py := AggregatePython(breakdowns)
	require.Len(t, py.Categories, 1)
	assert.Equal(t, int64(500), py.Total)
}
