package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hargabyte/pkgdb/internal/stats"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{50000, "50,000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCount(tt.in))
		})
	}
}

func TestPercentBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("█", 10), PercentBar(100, 10))
	assert.Equal(t, strings.Repeat("░", 10), PercentBar(0, 10))
	assert.Equal(t, "█████░░░░░", PercentBar(50, 10))
	assert.Equal(t, "", PercentBar(50, 0))

	// Out-of-range values clamp
	assert.Equal(t, strings.Repeat("█", 4), PercentBar(150, 4))
	assert.Equal(t, strings.Repeat("░", 4), PercentBar(-5, 4))
}

func TestGrowthBadge(t *testing.T) {
	p := NewPrinterWithWriters(&bytes.Buffer{}, &bytes.Buffer{}, false)

	assert.Equal(t, "-", p.GrowthBadge(stats.Growth{}))
	assert.Equal(t, "+12.5%", p.GrowthBadge(stats.Growth{Defined: true, Percent: 12.5}))
	assert.Equal(t, "-3.0%", p.GrowthBadge(stats.Growth{Defined: true, Percent: -3}))
	assert.Equal(t, "+0.0%", p.GrowthBadge(stats.Growth{Defined: true, Percent: 0}))
}

func TestPrinterQuiet(t *testing.T) {
	var out, errOut bytes.Buffer
	p := &Printer{out: &out, err: &errOut, quiet: true}

	p.Info("hidden")
	p.Success("hidden")
	p.Print("hidden")
	assert.Empty(t, out.String())

	// Errors always print
	p.Error("boom")
	assert.Contains(t, errOut.String(), "boom")
}

func TestTableRendering(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTableWithWriter(&buf, []string{"Rank", "Package", "Total"})
	tbl.AddRow([]string{"1", "requests", "50,000"})
	tbl.AddRow([]string{"2", "flask", "12,000"})
	tbl.Render()

	out := buf.String()
	assert.Contains(t, out, "requests")
	assert.Contains(t, out, "flask")
	assert.Contains(t, out, "50,000")
}
