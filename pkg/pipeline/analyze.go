package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/repograph/pkg/analysis"
	"github.com/matzehuels/repograph/pkg/crawl"
	"github.com/matzehuels/repograph/pkg/depgraph"
	"github.com/matzehuels/repograph/pkg/deps"
	"github.com/matzehuels/repograph/pkg/errors"
	pkgio "github.com/matzehuels/repograph/pkg/io"
	"github.com/matzehuels/repograph/pkg/observability"
	"github.com/matzehuels/repograph/pkg/render"
	"github.com/matzehuels/repograph/pkg/render/nodelink"
)

// Analysis is the outcome of [Analyze].
type Analysis struct {
	Graph           *depgraph.Graph
	Stats           analysis.Stats
	Instability     map[string]float64
	Violations      []analysis.Violation
	Cycles          []analysis.Cycle
	CyclesTruncated bool
	// Files lists the paths written to the output directory.
	Files []string
}

// Analyze builds the dependency graph of records, computes its metrics and
// writes the output directory:
//
//	base_projects.dot             plain graph
//	base_projects_violations.dot  instability labels, violations in red
//	base_projects_violations.svg  (or .pdf/.png) when opts.Format asks for it
//	graph.json                    annotated graph
//
// The output directory is removed and recreated first.
func Analyze(ctx context.Context, records []*deps.Record, opts Options) (a *Analysis, err error) {
	opts = opts.WithDefaults()
	if err := opts.ValidateForAnalyze(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no records to analyze")
	}
	logger := opts.Logger
	start := time.Now()
	defer func() {
		observability.Pipeline().OnStageComplete(ctx, StageAnalyze, time.Since(start), err)
	}()

	if err := prepareOutputDir(opts.OutputDir); err != nil {
		return nil, err
	}
	a = &Analysis{}
	write := func(name string, data []byte) error {
		path := filepath.Join(opts.OutputDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		a.Files = append(a.Files, path)
		return nil
	}

	logger.Info("creating base graph", "records", len(records))
	g := depgraph.Build(records)
	a.Graph = g
	a.Stats = analysis.ComputeStats(g)
	a.Stats.Log(logger, BaseGraphName)

	base := nodelink.ToDOT(g, nodelink.Options{Name: BaseGraphName})
	if err := write(BaseGraphName+".dot", []byte(base)); err != nil {
		return nil, err
	}

	logger.Debug("instability calculations start", "graph", BaseGraphName)
	a.Instability = analysis.Instability(g)
	a.Violations = analysis.Violations(g, a.Instability)
	analysis.Annotate(g, a.Instability, a.Violations)
	analysis.LogViolations(logger, BaseGraphName, a.Violations)

	annotated := nodelink.ToDOT(g, nodelink.Options{Name: ViolationsGraphName, Annotate: true})
	if err := write(ViolationsGraphName+".dot", []byte(annotated)); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger.Info("detecting cycles", "graph", BaseGraphName)
	a.Cycles, err = analysis.Cycles(g, opts.Cycles)
	switch {
	case stderrors.Is(err, analysis.ErrTooManyCycles):
		a.CyclesTruncated = true
		logger.Warn("cycle search stopped early", "limit", opts.Cycles.MaxCycles)
		err = nil
	case err != nil:
		return nil, err
	}
	logger.Info("number of cycles detected", "graph", BaseGraphName, "count", len(a.Cycles))
	for _, c := range a.Cycles {
		logger.Debug("cycle", "graph", BaseGraphName, "path", c.String())
	}

	var buf bytes.Buffer
	if err := pkgio.WriteJSON(g, &buf); err != nil {
		return nil, err
	}
	if err := write(GraphJSONFile, buf.Bytes()); err != nil {
		return nil, err
	}

	if opts.Format != render.FormatDOT {
		out, err := nodelink.Render(ctx, annotated, opts.Format)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", opts.Format)
		}
		if err := write(ViolationsGraphName+"."+string(opts.Format), out); err != nil {
			return nil, err
		}
	}

	logger.Info("execution finished", "stage", StageAnalyze, "duration", time.Since(start).Round(time.Millisecond))
	return a, nil
}

// prepareOutputDir empties dir, creating it if needed.
func prepareOutputDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "clear %s", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
	}
	return nil
}

// BuildReport assembles the run report from whichever stages ran. Nil
// stage results are left out.
func BuildReport(root string, crawled *crawl.Result, resolved *deps.Result, a *Analysis) *pkgio.Report {
	rep := pkgio.NewReport()
	if crawled != nil {
		rep.Crawl = &pkgio.CrawlSummary{
			Root:      root,
			TopLevel:  crawled.TopLevel,
			Skipped:   crawled.Skipped,
			Processed: crawled.Processed,
			Failed:    crawled.Failed,
			Locations: len(crawled.Locations()),
		}
	}
	rep.Resolve = resolved
	if a != nil {
		stats := a.Stats
		rep.Stats = &stats
		rep.Instability = a.Instability
		rep.Violations = a.Violations
		rep.Cycles = a.Cycles
		rep.CyclesTruncated = a.CyclesTruncated
	}
	return rep
}

// WriteReport writes rep to the output directory.
func WriteReport(opts Options, rep *pkgio.Report) error {
	opts = opts.WithDefaults()
	path := filepath.Join(opts.OutputDir, ReportFile)
	if err := pkgio.ExportReport(rep, path); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	opts.Logger.Info("wrote report", "path", path, "run_id", rep.RunID)
	return nil
}
