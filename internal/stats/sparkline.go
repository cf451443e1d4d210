package stats

import (
	"strings"

	"github.com/montanaflynn/stats"
)

// DefaultSparklineWidth is the number of glyphs the CLI table uses.
const DefaultSparklineWidth = 7

// Block glyphs from lowest to highest magnitude.
var sparkGlyphs = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline compresses values into a glyph trend indicator. The output
// length is min(len(values), width); when the input is longer than width
// only the most recent values are kept. A flat series (min == max) maps
// every position to the mid-palette glyph. Deterministic for a given input.
func Sparkline(values []int64, width int) string {
	if width <= 0 {
		width = DefaultSparklineWidth
	}
	if len(values) == 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	data := make(stats.Float64Data, len(values))
	for i, v := range values {
		data[i] = float64(v)
	}
	minVal, _ := stats.Min(data)
	maxVal, _ := stats.Max(data)

	var b strings.Builder
	if maxVal == minVal {
		mid := sparkGlyphs[len(sparkGlyphs)/2]
		for range values {
			b.WriteRune(mid)
		}
		return b.String()
	}

	scale := float64(len(sparkGlyphs) - 1)
	for _, v := range data {
		idx := int((v - minVal) / (maxVal - minVal) * scale)
		if idx >= len(sparkGlyphs) {
			idx = len(sparkGlyphs) - 1
		}
		b.WriteRune(sparkGlyphs[idx])
	}
	return b.String()
}
