// Package pipeline runs the crawl → resolve → analyze stages of repograph.
//
// The CLI uses this package for every command so the stages behave the same
// whether run individually or together.
//
// # Stages
//
//  1. Crawl: discover metadata locations under the repository root,
//     checkpointing each finished top-level directory
//  2. Resolve: fetch each location's latest release descriptor with a
//     bounded worker pool and save the records
//  3. Analyze: build the closed-world graph, compute instability,
//     violations and cycles, and write the output directory
//
// # Usage
//
//	runner := pipeline.NewRunner(client, store, logger)
//	res, err := runner.Execute(ctx, pipeline.OptionsFromConfig(cfg))
//
// Run a stage on its own:
//
//	crawled, err := runner.Crawl(ctx, opts)
//	resolved, err := runner.Resolve(ctx, crawled.Locations(), opts)
//	analysis, err := pipeline.Analyze(ctx, resolved.Records, opts)
package pipeline

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/repograph/pkg/analysis"
	"github.com/matzehuels/repograph/pkg/config"
	"github.com/matzehuels/repograph/pkg/crawl"
	"github.com/matzehuels/repograph/pkg/deps"
	"github.com/matzehuels/repograph/pkg/errors"
	"github.com/matzehuels/repograph/pkg/render"
)

// Output file names inside the output directory.
const (
	BaseGraphName       = "base_projects"
	ViolationsGraphName = "base_projects_violations"
	GraphJSONFile       = "graph.json"
	ReportFile          = "report.json"
)

// Stage names reported to observability hooks.
const (
	StageCrawl   = "crawl"
	StageResolve = "resolve"
	StageAnalyze = "analyze"
)

// Options configures a pipeline run.
type Options struct {
	// Root is the repository root listing URL.
	Root           string
	DescriptorName string
	FollowExternal bool

	Workers     int
	UnitTimeout time.Duration
	// Refresh bypasses the persistent HTTP cache.
	Refresh bool
	// Resume reuses records from a previous run's records file.
	Resume bool

	// RecordsPath is the CSV record sink. A JSON file with the complete
	// record list is written next to it.
	RecordsPath string
	// OutputDir receives the analysis files. It is cleared on each analyze.
	OutputDir string
	// Format additionally renders the annotated graph (svg, pdf, png).
	// "dot" or empty writes DOT only.
	Format render.Format

	Cycles analysis.CycleOptions
	Logger *log.Logger
}

// OptionsFromConfig maps a loaded configuration onto run options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Root:           cfg.RootURL(),
		DescriptorName: cfg.Repository.DescriptorName,
		FollowExternal: cfg.Repository.FollowExternal,
		Workers:        cfg.Resolve.Workers,
		UnitTimeout:    cfg.Resolve.UnitTimeout.Std(),
		Resume:         cfg.Resolve.Resume,
		RecordsPath:    cfg.Output.Records,
		OutputDir:      cfg.Output.Dir,
		Format:         render.Format(cfg.Output.Format),
		Cycles: analysis.CycleOptions{
			MaxLength: cfg.Analysis.MaxCycleLength,
			MaxCycles: cfg.Analysis.MaxCycles,
		},
	}
}

// WithDefaults returns a copy of o with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.DescriptorName == "" {
		o.DescriptorName = crawl.DefaultDescriptorName
	}
	if o.Workers <= 0 {
		o.Workers = deps.DefaultWorkers
	}
	if o.RecordsPath == "" {
		o.RecordsPath = "release_details.csv"
	}
	if o.OutputDir == "" {
		o.OutputDir = "build"
	}
	if o.Format == "" {
		o.Format = render.FormatDOT
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// ValidateForCrawl checks the options needed to contact the repository.
func (o Options) ValidateForCrawl() error {
	if err := errors.ValidateRepositoryURL(o.Root); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "repository root")
	}
	return nil
}

// ValidateForAnalyze checks the output options.
func (o Options) ValidateForAnalyze() error {
	if _, err := render.ParseFormat(string(o.Format)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "output format")
	}
	if o.OutputDir == "" || o.OutputDir == "." || o.OutputDir == "/" {
		return errors.New(errors.ErrCodeInvalidInput, "refusing to use %q as output directory", o.OutputDir)
	}
	return nil
}

// RecordsJSONPath returns the path of the complete record list that
// accompanies the CSV sink at csvPath.
func RecordsJSONPath(csvPath string) string {
	if filepath.Ext(csvPath) == ".json" {
		return csvPath
	}
	return strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".json"
}

// Stats records stage durations of a run.
type Stats struct {
	CrawlTime   time.Duration
	ResolveTime time.Duration
	AnalyzeTime time.Duration
}
