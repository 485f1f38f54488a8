package cli

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/repograph/pkg/analysis"
	pkgio "github.com/matzehuels/repograph/pkg/io"
)

// captureStdout redirects the print helpers and strips colors for the
// duration of fn.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	prevOut, prevProfile := stdout, lipgloss.ColorProfile()
	var buf bytes.Buffer
	stdout = &buf
	lipgloss.SetColorProfile(termenv.Ascii)
	defer func() {
		stdout = prevOut
		lipgloss.SetColorProfile(prevProfile)
	}()
	fn()
	return buf.String()
}

func TestFormatCountsSkipsZero(t *testing.T) {
	out := captureStdout(t, func() {
		printCounts(count{3, "projects"}, count{0, "orphans"}, count{5, "dependencies"})
	})
	assert.Equal(t, "  3 projects · 5 dependencies\n", out)
}

func TestStatusLines(t *testing.T) {
	out := captureStdout(t, func() {
		printSuccess("Resolved %d artifacts", 4)
		printWarning("%d directories failed", 1)
		printFile("build/report.json")
	})
	assert.Equal(t, "✓ Resolved 4 artifacts\n! 1 directories failed\n  → build/report.json\n", out)
}

func TestPrintReport(t *testing.T) {
	rep := pkgio.NewReport()
	rep.Violations = []analysis.Violation{{Source: "g/a", Destination: "g/b", SourceInst: 0.25, DestInst: 0.5}}
	rep.Cycles = []analysis.Cycle{{"g/a", "g/b", "g/a"}}
	rep.CyclesTruncated = true

	out := captureStdout(t, func() { printReport(rep) })
	assert.Contains(t, out, "Violations (1)")
	assert.Contains(t, out, "Cycles (1)")
	assert.Contains(t, out, "g/a -> g/b -> g/a")
	assert.Contains(t, out, "incomplete")
}
