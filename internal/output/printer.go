// Package output provides terminal output formatting: a printer with color
// and quiet handling, table rendering, and small text helpers shared by the
// CLI commands.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/hargabyte/pkgdb/internal/stats"
)

// Printer handles formatted output to the terminal.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
	quiet     bool
}

// NewPrinter creates a printer writing to stdout/stderr. Colors are
// disabled when quiet is set, NO_COLOR is present, or TERM is dumb.
func NewPrinter(quiet bool) *Printer {
	useColors := true
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		useColors = false
	}
	if os.Getenv("TERM") == "dumb" {
		useColors = false
	}
	return &Printer{
		out:       os.Stdout,
		err:       os.Stderr,
		useColors: useColors,
		quiet:     quiet,
	}
}

// NewPrinterWithWriters creates a printer with custom writers, for tests.
func NewPrinterWithWriters(out, errOut io.Writer, useColors bool) *Printer {
	return &Printer{out: out, err: errOut, useColors: useColors}
}

// IsQuiet returns whether the printer is in quiet mode.
func (p *Printer) IsQuiet() bool {
	return p.quiet
}

// Out returns the printer's stdout writer.
func (p *Printer) Out() io.Writer {
	return p.out
}

// Info prints an informational message.
func (p *Printer) Info(format string, args ...any) {
	if p.quiet {
		return
	}
	if p.useColors {
		color.New(color.FgCyan).Fprintf(p.out, format+"\n", args...)
	} else {
		fmt.Fprintf(p.out, format+"\n", args...)
	}
}

// Success prints a success message.
func (p *Printer) Success(format string, args ...any) {
	if p.quiet {
		return
	}
	if p.useColors {
		color.New(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
	}
}

// Warning prints a warning message to stderr.
func (p *Printer) Warning(format string, args ...any) {
	if p.quiet {
		return
	}
	if p.useColors {
		color.New(color.FgYellow).Fprintf(p.err, "⚠ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.err, "[WARN] "+format+"\n", args...)
	}
}

// Error prints an error message to stderr. Not suppressed by quiet.
func (p *Printer) Error(format string, args ...any) {
	if p.useColors {
		color.New(color.FgRed).Fprintf(p.err, "✗ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.err, "[ERROR] "+format+"\n", args...)
	}
}

// Print prints a plain message.
func (p *Printer) Print(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Header prints a section header with an underline.
func (p *Printer) Header(title string) {
	if p.quiet {
		return
	}
	if p.useColors {
		color.New(color.FgWhite, color.Bold).Fprintf(p.out, "\n%s\n", title)
		fmt.Fprintf(p.out, "%s\n", strings.Repeat("─", len([]rune(title))))
	} else {
		fmt.Fprintf(p.out, "\n%s\n%s\n", title, strings.Repeat("-", len([]rune(title))))
	}
}

// GrowthBadge formats a growth value: green for positive, red for negative,
// a dash when undefined.
func (p *Printer) GrowthBadge(g stats.Growth) string {
	if !g.Defined {
		return "-"
	}
	text := fmt.Sprintf("%+.1f%%", g.Percent)
	if !p.useColors {
		return text
	}
	switch {
	case g.Percent > 0:
		return color.GreenString(text)
	case g.Percent < 0:
		return color.RedString(text)
	default:
		return text
	}
}

// Bold returns text in bold.
func (p *Printer) Bold(text string) string {
	if p.useColors {
		return color.New(color.Bold).Sprint(text)
	}
	return text
}

// Dim returns dimmed text.
func (p *Printer) Dim(text string) string {
	if p.useColors {
		return color.New(color.Faint).Sprint(text)
	}
	return text
}
