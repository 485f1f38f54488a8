package crawl

import (
	"context"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/matzehuels/repograph/pkg/errors"
	"github.com/matzehuels/repograph/pkg/observability"
	"github.com/matzehuels/repograph/pkg/repository"
)

// DefaultDescriptorName is the metadata filename that marks an artifact directory.
const DefaultDescriptorName = "maven-metadata.xml"

// Lister fetches and classifies a directory listing. *repository.Client implements it.
type Lister interface {
	List(ctx context.Context, dirURL string) (*repository.Listing, error)
}

// Options configures a [Crawler].
type Options struct {
	// DescriptorName is the metadata filename (default maven-metadata.xml).
	DescriptorName string
	// FollowExternal allows descending into directories outside the tree
	// being walked, reached through absolute links.
	FollowExternal bool
	Logger         *log.Logger
}

// WithDefaults returns a copy of o with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.DescriptorName == "" {
		o.DescriptorName = DefaultDescriptorName
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Crawler discovers metadata locations.
type Crawler struct {
	lister Lister
	store  Store
	opts   Options
}

// New creates a Crawler. A nil store keeps the checkpoint in memory only.
func New(l Lister, store Store, opts Options) *Crawler {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Crawler{lister: l, store: store, opts: opts.WithDefaults()}
}

// Discovery is the outcome of walking one directory tree.
type Discovery struct {
	Locations []string // Metadata locations, in traversal order
	Listed    int      // Directories listed successfully
	Failed    []string // Directories whose listing failed
}

// Discover walks the tree rooted at dir. Listing failures abandon the
// failing branch, are logged and reported in Discovery.Failed; they are
// not returned as errors. The error is non-nil only when ctx is done.
func (c *Crawler) Discover(ctx context.Context, dir string) (*Discovery, error) {
	d := &Discovery{}
	visited := mapset.NewThreadUnsafeSet[string]()
	stack := []string{dir}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return d, err
		}
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visited.Add(current) {
			continue
		}

		listing, err := c.lister.List(ctx, current)
		if err != nil {
			if ctx.Err() != nil {
				return d, ctx.Err()
			}
			err = errors.Wrap(errors.ErrCodeListingFetch, err, "list %s", current)
			c.opts.Logger.Warn("listing failed", "dir", current, "err", err)
			observability.Pipeline().OnDirectoryListed(ctx, current, 0, 0, err)
			d.Failed = append(d.Failed, current)
			continue
		}
		d.Listed++
		observability.Pipeline().OnDirectoryListed(ctx, current, len(listing.Dirs), len(listing.Files), nil)

		if found := listing.FilesNamed(c.opts.DescriptorName); len(found) > 0 {
			for _, loc := range found {
				observability.Pipeline().OnDescriptorFound(ctx, loc)
			}
			d.Locations = append(d.Locations, found...)
			continue
		}

		// Pushed in reverse so sub-directories are visited in listing order.
		for _, sub := range slices.Backward(listing.Dirs) {
			if !c.opts.FollowExternal && !strings.HasPrefix(sub, dir) {
				c.opts.Logger.Debug("skipping external directory", "dir", sub)
				continue
			}
			if !visited.Contains(sub) {
				stack = append(stack, sub)
			}
		}
	}
	return d, nil
}

// Result is the outcome of [Crawler.Crawl].
type Result struct {
	// Checkpoint holds every finished top-level directory, including those
	// finished by earlier runs.
	Checkpoint *Checkpoint
	// Partial holds locations found in top-level directories that were not
	// finished because a listing failed.
	Partial map[string][]string
	// TopLevel is the number of top-level directories in the repository.
	TopLevel int
	// Skipped counts directories already finished by an earlier run.
	Skipped int
	// Processed counts directories finished by this run.
	Processed int
	// Failed lists top-level directories with at least one listing failure.
	Failed   []string
	Duration time.Duration
}

// Locations returns every discovered location: checkpointed ones first,
// then partial ones, without duplicates.
func (r *Result) Locations() []string {
	out := r.Checkpoint.Locations()
	seen := mapset.NewThreadUnsafeSet(out...)
	for _, dir := range slices.Sorted(maps.Keys(r.Partial)) {
		for _, loc := range r.Partial[dir] {
			if seen.Add(loc) {
				out = append(out, loc)
			}
		}
	}
	return out
}

// Crawl lists root, then discovers each top-level directory in sorted
// order, persisting the checkpoint after each one. Directories already in
// the stored checkpoint are skipped. A failure to list root itself is
// returned as an error; on cancellation the partial result is returned
// together with ctx.Err().
func (c *Crawler) Crawl(ctx context.Context, root string) (*Result, error) {
	start := time.Now()
	logger := c.opts.Logger

	cp, err := c.store.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load checkpoint")
	}

	logger.Info("started collecting metadata", "root", root)
	listing, err := c.lister.List(ctx, root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeListingFetch, err, "list %s", root)
	}
	observability.Pipeline().OnDirectoryListed(ctx, root, len(listing.Dirs), len(listing.Files), nil)

	topLevel := slices.Sorted(slices.Values(listing.Dirs))
	if !c.opts.FollowExternal {
		topLevel = slices.DeleteFunc(topLevel, func(d string) bool { return !strings.HasPrefix(d, root) })
	}
	logger.Info("read top-level directories", "count", len(topLevel), "done", cp.Len())

	res := &Result{
		Checkpoint: cp,
		Partial:    make(map[string][]string),
		TopLevel:   len(topLevel),
	}
	defer func() { res.Duration = time.Since(start) }()

	for i, dir := range topLevel {
		if cp.Done(dir) {
			res.Skipped++
			continue
		}
		logger.Debug("processing", "dir", dir)

		d, err := c.Discover(ctx, dir)
		if err != nil {
			return res, err
		}
		logger.Debug("results", "dir", dir, "found", len(d.Locations), "remaining", len(topLevel)-i-1)

		if len(d.Failed) > 0 {
			res.Failed = append(res.Failed, dir)
			res.Partial[dir] = d.Locations
			logger.Warn("directory incomplete, not checkpointed", "dir", dir, "failed_listings", len(d.Failed))
			continue
		}

		if err := c.store.Append(ctx, dir, d.Locations); err != nil {
			return res, errors.Wrap(errors.ErrCodeInternal, err, "save checkpoint")
		}
		cp.Set(dir, d.Locations)
		res.Processed++
	}

	logger.Info("finished collecting metadata",
		"locations", len(res.Locations()),
		"processed", res.Processed,
		"skipped", res.Skipped,
		"failed", len(res.Failed))
	return res, nil
}
