package deps

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/repograph/pkg/errors"
	"github.com/matzehuels/repograph/pkg/observability"
)

const (
	// DefaultWorkers is the size of the fetch worker pool.
	DefaultWorkers = 8

	// DefaultUnitTimeout bounds one unit of work (metadata plus release descriptor).
	DefaultUnitTimeout = 2 * time.Minute
)

// Resolver turns one descriptor location into a record.
type Resolver interface {
	Resolve(ctx context.Context, location string) (*Record, error)
}

// ResolverFunc adapts a function to [Resolver].
type ResolverFunc func(ctx context.Context, location string) (*Record, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, location string) (*Record, error) {
	return f(ctx, location)
}

// CollectOptions configures [Collect].
type CollectOptions struct {
	Workers     int           // Pool size (default 8)
	UnitTimeout time.Duration // Per-unit bound (default 2m); negative disables it
	// Known holds records from a previous run keyed by metadata URL.
	// Locations present here are reused instead of fetched.
	Known  map[string]*Record
	Logger *log.Logger
}

// WithDefaults returns a copy of o with zero values replaced by defaults.
func (o CollectOptions) WithDefaults() CollectOptions {
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.UnitTimeout == 0 {
		o.UnitTimeout = DefaultUnitTimeout
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Failure describes one unit that produced no record.
type Failure struct {
	Location string      `json:"location"`
	Code     errors.Code `json:"code"`
	Message  string      `json:"message"`
}

// Result is the outcome of [Collect].
type Result struct {
	// Records are sorted by metadata URL.
	Records   []*Record `json:"-"`
	Attempted int       `json:"attempted"`
	Succeeded int       `json:"succeeded"`
	Reused    int       `json:"reused"`
	Failures  []Failure `json:"failures"`
}

// FailuresByCode counts failures per error code.
func (r *Result) FailuresByCode() map[errors.Code]int {
	counts := make(map[errors.Code]int)
	for _, f := range r.Failures {
		counts[f.Code]++
	}
	return counts
}

// Collect resolves every location with a fixed pool of workers and waits
// for all of them. Unit failures are recorded and logged; they never stop
// other units. The returned error is non-nil only when ctx was cancelled,
// in which case the partial result is still returned.
func Collect(ctx context.Context, locations []string, r Resolver, opts CollectOptions) (*Result, error) {
	opts = opts.WithDefaults()

	res := &Result{}
	var pending []string
	seen := make(map[string]bool, len(locations))
	for _, loc := range locations {
		if seen[loc] {
			continue
		}
		seen[loc] = true
		if rec, ok := opts.Known[loc]; ok && rec != nil {
			opts.Logger.Debug("using previous result", "location", loc)
			res.Records = append(res.Records, rec)
			res.Reused++
			continue
		}
		pending = append(pending, loc)
	}
	opts.Logger.Info("gathering results", "artifacts", len(pending), "reused", res.Reused)

	var (
		mu   sync.Mutex
		jobs = make(chan string)
		g    errgroup.Group
	)

	g.Go(func() error {
		defer close(jobs)
		for _, loc := range pending {
			select {
			case jobs <- loc:
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	})

	for range opts.Workers {
		g.Go(func() error {
			for loc := range jobs {
				start := time.Now()
				rec, err := runUnit(ctx, r, loc, opts.UnitTimeout)
				observability.Pipeline().OnResolveComplete(ctx, loc, time.Since(start), err)

				mu.Lock()
				res.Attempted++
				if err != nil {
					res.Failures = append(res.Failures, Failure{
						Location: loc,
						Code:     errors.GetCode(err),
						Message:  err.Error(),
					})
				} else {
					res.Succeeded++
					res.Records = append(res.Records, rec)
				}
				mu.Unlock()

				if err != nil {
					opts.Logger.Error("resolve failed", "location", loc, "err", err)
				} else {
					opts.Logger.Debug("resolved", "location", loc, "project", rec.ProjectID(), "dependencies", len(rec.Dependencies))
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	slices.SortStableFunc(res.Records, func(a, b *Record) int {
		return cmp.Compare(a.MetadataURL, b.MetadataURL)
	})
	slices.SortFunc(res.Failures, func(a, b Failure) int {
		return cmp.Compare(a.Location, b.Location)
	})

	opts.Logger.Info("got results",
		"attempted", res.Attempted,
		"succeeded", res.Succeeded,
		"failed", len(res.Failures))

	return res, ctx.Err()
}

// runUnit resolves one location, converting panics and timeouts into coded errors.
func runUnit(ctx context.Context, r Resolver, loc string, timeout time.Duration) (rec *Record, err error) {
	if ctx.Err() != nil {
		return nil, errors.Wrap(errors.ErrCodeUnitFailure, ctx.Err(), "resolve %s", loc)
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if p := recover(); p != nil {
			rec = nil
			err = errors.New(errors.ErrCodeUnitFailure, "resolve %s: panic: %v", loc, p)
		}
	}()

	rec, err = r.Resolve(ctx, loc)
	switch {
	case err != nil && ctx.Err() == context.DeadlineExceeded:
		return nil, errors.Wrap(errors.ErrCodeTimeout, err, "resolve %s", loc)
	case err != nil && errors.GetCode(err) == errors.ErrCodeInternal:
		return nil, errors.Wrap(errors.ErrCodeUnitFailure, err, "resolve %s", loc)
	case err != nil:
		return nil, err
	case rec == nil:
		return nil, errors.New(errors.ErrCodeUnitFailure, "resolve %s: no record", loc)
	}
	if rec.MetadataURL == "" {
		rec.MetadataURL = loc
	}
	return rec, nil
}

// String summarizes the result for logs.
func (r *Result) String() string {
	return fmt.Sprintf("attempted=%d succeeded=%d reused=%d failed=%d",
		r.Attempted, r.Succeeded, r.Reused, len(r.Failures))
}
