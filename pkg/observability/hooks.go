// Package observability provides hooks for progress reporting and metrics.
//
// Libraries emit events through the registered hooks; the defaults do
// nothing. The CLI registers [Counters] to drive its progress spinner, and
// other frontends can register their own at startup:
//
//	observability.SetPipelineHooks(&myHooks{})
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnDirectoryListed(ctx, url, len(dirs), len(files), err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the crawl, resolve and analyze stages.
// Implementations must be safe for concurrent use: resolve events arrive
// from every worker.
type PipelineHooks interface {
	OnDirectoryListed(ctx context.Context, url string, dirs, files int, err error)
	OnDescriptorFound(ctx context.Context, url string)
	OnResolveComplete(ctx context.Context, url string, duration time.Duration, err error)

	// OnStageComplete fires once per finished stage ("crawl", "resolve", "analyze").
	OnStageComplete(ctx context.Context, stage string, duration time.Duration, err error)
}

// CacheHooks receives events from document cache lookups. The namespace is
// either "listing" or "descriptor".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, namespace string)
	OnCacheMiss(ctx context.Context, namespace string)
	OnCacheSet(ctx context.Context, namespace string, size int)
}

// HTTPHooks receives one OnRequest per attempt, followed by either
// OnResponse or OnError.
type HTTPHooks interface {
	OnRequest(ctx context.Context, url string)
	OnResponse(ctx context.Context, url string, status int, duration time.Duration)
	OnError(ctx context.Context, url string, err error)
}

// NoopPipelineHooks ignores every event. Embed it to implement a subset.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnDirectoryListed(context.Context, string, int, int, error)      {}
func (NoopPipelineHooks) OnDescriptorFound(context.Context, string)                       {}
func (NoopPipelineHooks) OnResolveComplete(context.Context, string, time.Duration, error) {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, time.Duration, error)   {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, error)                 {}

// registry is replaced wholesale on every Set call so that readers on the
// hot path never take a lock.
type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var current atomic.Pointer[registry]

func init() { Reset() }

func update(fn func(r *registry)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks registers pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks registers HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().pipeline }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return current.Load().http }

// Reset restores all hooks to their no-op defaults.
func Reset() {
	current.Store(&registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	})
}
