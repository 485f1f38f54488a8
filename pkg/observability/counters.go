package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters tallies pipeline, cache and HTTP events. It implements
// [PipelineHooks], [CacheHooks] and [HTTPHooks], so one value can be
// registered for all three. The zero value is ready to use.
type Counters struct {
	NoopPipelineHooks
	NoopCacheHooks
	NoopHTTPHooks

	Listed      atomic.Int64
	ListFailed  atomic.Int64
	Descriptors atomic.Int64
	Resolved    atomic.Int64
	ResolveFail atomic.Int64
	Requests    atomic.Int64
	CacheHits   atomic.Int64
}

// OnDirectoryListed counts listings and listing failures.
func (c *Counters) OnDirectoryListed(_ context.Context, _ string, _, _ int, err error) {
	if err != nil {
		c.ListFailed.Add(1)
		return
	}
	c.Listed.Add(1)
}

// OnDescriptorFound counts discovered descriptors.
func (c *Counters) OnDescriptorFound(context.Context, string) {
	c.Descriptors.Add(1)
}

// OnResolveComplete counts resolved and failed units.
func (c *Counters) OnResolveComplete(_ context.Context, _ string, _ time.Duration, err error) {
	if err != nil {
		c.ResolveFail.Add(1)
		return
	}
	c.Resolved.Add(1)
}

// OnRequest counts HTTP attempts, retries included.
func (c *Counters) OnRequest(context.Context, string) {
	c.Requests.Add(1)
}

// OnCacheHit counts documents served from a cache.
func (c *Counters) OnCacheHit(context.Context, string) {
	c.CacheHits.Add(1)
}

// Register installs c for pipeline, cache and HTTP events.
func (c *Counters) Register() {
	SetPipelineHooks(c)
	SetCacheHooks(c)
	SetHTTPHooks(c)
}
