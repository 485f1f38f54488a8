package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/repograph/pkg/analysis"
	"github.com/matzehuels/repograph/pkg/buildinfo"
	"github.com/matzehuels/repograph/pkg/deps"
)

// ReportVersion is the schema version of [Report].
const ReportVersion = 1

// CrawlSummary summarizes the crawl stage of a run.
type CrawlSummary struct {
	Root      string   `json:"root"`
	TopLevel  int      `json:"top_level"`
	Skipped   int      `json:"skipped"`
	Processed int      `json:"processed"`
	Failed    []string `json:"failed,omitempty"`
	Locations int      `json:"locations"`
}

// Report is the structured outcome of a run. Stages that did not run in
// this invocation are omitted.
type Report struct {
	Version         int                  `json:"version"`
	RunID           string               `json:"run_id"`
	ToolVersion     string               `json:"tool_version"`
	CreatedAt       time.Time            `json:"created_at"`
	Crawl           *CrawlSummary        `json:"crawl,omitempty"`
	Resolve         *deps.Result         `json:"resolve,omitempty"`
	Stats           *analysis.Stats      `json:"stats,omitempty"`
	Instability     map[string]float64   `json:"instability,omitempty"`
	Violations      []analysis.Violation `json:"violations"`
	Cycles          []analysis.Cycle     `json:"cycles"`
	CyclesTruncated bool                 `json:"cycles_truncated,omitempty"`
}

// NewReport returns an empty report with a fresh run id.
func NewReport() *Report {
	return &Report{
		Version:     ReportVersion,
		RunID:       uuid.NewString(),
		ToolVersion: buildinfo.Version,
		CreatedAt:   time.Now().UTC(),
	}
}

// WriteReport encodes r as indented JSON.
func WriteReport(r *Report, w io.Writer) error {
	out := *r
	if out.Violations == nil {
		out.Violations = []analysis.Violation{}
	}
	if out.Cycles == nil {
		out.Cycles = []analysis.Cycle{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportReport writes r to path.
func ExportReport(r *Report, path string) error {
	return writeFileAtomic(path, func(w io.Writer) error { return WriteReport(r, w) })
}

// ReadReport decodes a report written by [WriteReport].
func ReadReport(r io.Reader) (*Report, error) {
	var rep Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &rep, nil
}

// ImportReport reads a report file at path.
func ImportReport(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadReport(f)
}
