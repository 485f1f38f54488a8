package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/repograph/pkg/crawl"
	"github.com/matzehuels/repograph/pkg/deps"
	"github.com/matzehuels/repograph/pkg/errors"
	pkgio "github.com/matzehuels/repograph/pkg/io"
	"github.com/matzehuels/repograph/pkg/maven"
	"github.com/matzehuels/repograph/pkg/observability"
)

// Source is what the network stages need from the repository.
// *repository.Client implements it.
type Source interface {
	crawl.Lister
	maven.Fetcher
}

// Runner executes pipeline stages against one repository.
//
// The Runner holds no run state: results are returned to the caller.
type Runner struct {
	Source Source
	Store  crawl.Store
	Logger *log.Logger
}

// NewRunner creates a runner. A nil store keeps the crawl checkpoint in
// memory; a nil logger discards output.
func NewRunner(src Source, store crawl.Store, logger *log.Logger) *Runner {
	if store == nil {
		store = crawl.NewMemoryStore()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Source: src, Store: store, Logger: logger}
}

// Result is the outcome of [Runner.Execute].
type Result struct {
	Crawl    *crawl.Result
	Resolve  *deps.Result
	Analysis *Analysis
	Report   *pkgio.Report
	Stats    Stats
}

// Execute runs crawl, resolve and analyze, then writes the report.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	opts = r.applyLogger(opts)
	if err := opts.ValidateForCrawl(); err != nil {
		return nil, err
	}
	if err := opts.ValidateForAnalyze(); err != nil {
		return nil, err
	}
	res := &Result{}

	start := time.Now()
	crawled, err := r.Crawl(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("crawl: %w", err)
	}
	res.Crawl = crawled
	res.Stats.CrawlTime = time.Since(start)

	start = time.Now()
	resolved, err := r.Resolve(ctx, crawled.Locations(), opts)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	res.Resolve = resolved
	res.Stats.ResolveTime = time.Since(start)

	start = time.Now()
	a, err := Analyze(ctx, resolved.Records, opts)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	res.Analysis = a
	res.Stats.AnalyzeTime = time.Since(start)

	res.Report = BuildReport(opts.Root, crawled, resolved, a)
	if err := WriteReport(opts, res.Report); err != nil {
		return nil, err
	}
	opts.Logger.Info("run complete",
		"run_id", res.Report.RunID,
		"crawl", res.Stats.CrawlTime.Round(time.Millisecond),
		"resolve", res.Stats.ResolveTime.Round(time.Millisecond),
		"analyze", res.Stats.AnalyzeTime.Round(time.Millisecond))
	return res, nil
}

// Crawl discovers metadata locations under opts.Root, resuming from the
// runner's checkpoint store.
func (r *Runner) Crawl(ctx context.Context, opts Options) (res *crawl.Result, err error) {
	opts = r.applyLogger(opts)
	if err := opts.ValidateForCrawl(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() {
		observability.Pipeline().OnStageComplete(ctx, StageCrawl, time.Since(start), err)
	}()

	c := crawl.New(r.Source, r.Store, crawl.Options{
		DescriptorName: opts.DescriptorName,
		FollowExternal: opts.FollowExternal,
		Logger:         opts.Logger,
	})
	res, err = c.Crawl(ctx, opts.Root)
	if err != nil {
		return res, err
	}
	opts.Logger.Info("execution finished", "stage", StageCrawl, "duration", time.Since(start).Round(time.Millisecond))
	return res, nil
}

// Resolve resolves locations and saves the records to opts.RecordsPath and
// its JSON companion. With opts.Resume, records saved by an earlier run are
// reused for their locations. Records are saved even when ctx is cancelled
// midway, so an interrupted run can be resumed.
func (r *Runner) Resolve(ctx context.Context, locations []string, opts Options) (res *deps.Result, err error) {
	opts = r.applyLogger(opts)
	start := time.Now()
	defer func() {
		observability.Pipeline().OnStageComplete(ctx, StageResolve, time.Since(start), err)
	}()

	var known map[string]*deps.Record
	if opts.Resume {
		known = loadKnown(opts.RecordsPath, opts.Logger)
	}

	resolver := maven.NewResolver(r.Source, opts.Logger, opts.Refresh)
	res, err = deps.Collect(ctx, locations, resolver, deps.CollectOptions{
		Workers:     opts.Workers,
		UnitTimeout: opts.UnitTimeout,
		Known:       known,
		Logger:      opts.Logger,
	})
	if res != nil && (err == nil || len(res.Records) > 0) {
		if serr := SaveRecords(res.Records, opts.RecordsPath); serr != nil {
			return res, serr
		}
		opts.Logger.Info("writing records", "path", opts.RecordsPath, "records", len(res.Records))
	}
	if err != nil {
		return res, err
	}
	for code, n := range res.FailuresByCode() {
		opts.Logger.Warn("unresolved artifacts", "code", code, "count", n)
	}
	opts.Logger.Info("execution finished", "stage", StageResolve, "duration", time.Since(start).Round(time.Millisecond))
	return res, nil
}

// loadKnown indexes previously saved records by metadata location. A
// missing or unreadable file means starting fresh.
func loadKnown(path string, logger *log.Logger) map[string]*deps.Record {
	records, err := LoadRecordSet(path)
	if err != nil {
		if !errors.Is(err, errors.ErrCodeNotFound) {
			logger.Warn("ignoring previous results", "path", path, "err", err)
		}
		return nil
	}
	known := make(map[string]*deps.Record, len(records))
	for _, rec := range records {
		if rec.MetadataURL != "" {
			known[rec.MetadataURL] = rec
		}
	}
	logger.Info("got results from previous run", "artifacts", len(known))
	return known
}

// LoadRecordSet reads the records saved at csvPath, preferring the
// complete JSON companion when it exists.
func LoadRecordSet(csvPath string) ([]*deps.Record, error) {
	for _, p := range []string{RecordsJSONPath(csvPath), csvPath} {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		records, err := pkgio.LoadRecords(p)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "load records")
		}
		return records, nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, "no records at %s", csvPath)
}

// SaveRecords writes the CSV sink at csvPath and the complete JSON list
// beside it.
func SaveRecords(records []*deps.Record, csvPath string) error {
	if jsonPath := RecordsJSONPath(csvPath); jsonPath != csvPath {
		if err := pkgio.SaveRecords(records, jsonPath); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "save records")
		}
	}
	if err := pkgio.SaveRecords(records, csvPath); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save records")
	}
	return nil
}

func (r *Runner) applyLogger(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	return opts.WithDefaults()
}
