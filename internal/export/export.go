// Package export renders the latest stats snapshot as CSV, JSON, or a
// Markdown table. Rows arrive already ranked (total downloads descending).
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hargabyte/pkgdb/internal/store"
)

// Format identifies an export output format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat maps a user-supplied format name to a Format.
// "md" is accepted as an alias for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want csv, json, or markdown)", s)
	}
}

// Extensions returns the allowed file extensions for the format.
func (f Format) Extensions() []string {
	switch f {
	case FormatCSV:
		return []string{".csv"}
	case FormatJSON:
		return []string{".json"}
	case FormatMarkdown:
		return []string{".md", ".markdown", ".txt"}
	default:
		return nil
	}
}

// Export writes recs to w in the given format.
func Export(w io.Writer, format Format, recs []store.HistoryRecord, generated time.Time) error {
	switch format {
	case FormatCSV:
		return exportCSV(w, recs)
	case FormatJSON:
		return exportJSON(w, recs, generated)
	case FormatMarkdown:
		return exportMarkdown(w, recs)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

func exportCSV(w io.Writer, recs []store.HistoryRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"rank", "package_name", "total", "last_month", "last_week", "last_day", "fetch_date"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, r := range recs {
		row := []string{
			strconv.Itoa(i + 1),
			r.PackageName,
			strconv.FormatInt(r.Total, 10),
			strconv.FormatInt(r.LastMonth, 10),
			strconv.FormatInt(r.LastWeek, 10),
			strconv.FormatInt(r.LastDay, 10),
			r.FetchDate,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonExport struct {
	Generated string        `json:"generated"`
	Packages  []jsonPackage `json:"packages"`
}

type jsonPackage struct {
	Rank      int    `json:"rank"`
	Name      string `json:"name"`
	Total     int64  `json:"total"`
	LastMonth int64  `json:"last_month"`
	LastWeek  int64  `json:"last_week"`
	LastDay   int64  `json:"last_day"`
	FetchDate string `json:"fetch_date"`
}

func exportJSON(w io.Writer, recs []store.HistoryRecord, generated time.Time) error {
	out := jsonExport{
		Generated: generated.UTC().Format(time.RFC3339),
		Packages:  make([]jsonPackage, 0, len(recs)),
	}
	for i, r := range recs {
		out.Packages = append(out.Packages, jsonPackage{
			Rank:      i + 1,
			Name:      r.PackageName,
			Total:     r.Total,
			LastMonth: r.LastMonth,
			LastWeek:  r.LastWeek,
			LastDay:   r.LastDay,
			FetchDate: r.FetchDate,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func exportMarkdown(w io.Writer, recs []store.HistoryRecord) error {
	var b strings.Builder
	b.WriteString("| Rank | Package | Total | Month | Week | Day |\n")
	b.WriteString("|------|---------|-------|-------|------|-----|\n")
	for i, r := range recs {
		fmt.Fprintf(&b, "| %d | %s | %d | %d | %d | %d |\n",
			i+1, r.PackageName, r.Total, r.LastMonth, r.LastWeek, r.LastDay)
	}
	_, err := io.WriteString(w, strings.TrimRight(b.String(), "\n"))
	return err
}
