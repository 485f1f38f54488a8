// Package cli implements the repograph command-line interface.
//
// The commands follow the stages of a run: crawl discovers metadata
// locations and checkpoints them, resolve turns locations into dependency
// records, analyze builds the graph and writes the analysis files, and run
// does all three. report browses the violations and cycles of the last run.
//
// # Configuration
//
// Settings come from repograph.toml (or --config), REPOGRAPH_* environment
// variables and a .env file, and finally from command-line flags.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. With --quiet
// (-q) stage logs are suppressed and a spinner reports progress instead.
//
// # Example
//
//	repograph run --root https://repo1.maven.org/maven2/io/ktor/ --format svg
//	repograph report
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// elapsed returns the time since the tracker was created, rounded to the millisecond.
func (p *progress) elapsed() time.Duration {
	return time.Since(p.start).Round(time.Millisecond)
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Resolved 42 artifacts (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, p.elapsed())
}
