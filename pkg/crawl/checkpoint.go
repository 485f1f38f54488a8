package crawl

import (
	"context"
	"maps"
	"slices"
)

// Checkpoint maps finished top-level directories to the metadata locations
// found beneath them. A directory mapped to an empty slice was processed
// and contained nothing.
type Checkpoint struct {
	entries map[string][]string
}

// NewCheckpoint returns an empty checkpoint.
func NewCheckpoint() *Checkpoint {
	return &Checkpoint{entries: make(map[string][]string)}
}

// Done reports whether dir has been processed.
func (c *Checkpoint) Done(dir string) bool {
	_, ok := c.entries[dir]
	return ok
}

// Set records dir as processed with the given locations.
func (c *Checkpoint) Set(dir string, locations []string) {
	c.entries[dir] = append([]string{}, locations...)
}

// Add appends one location to dir, marking it processed. An empty
// location only marks it.
func (c *Checkpoint) Add(dir, location string) {
	locs := c.entries[dir]
	if locs == nil {
		locs = []string{}
	}
	if location != "" && !slices.Contains(locs, location) {
		locs = append(locs, location)
	}
	c.entries[dir] = locs
}

// Get returns the locations recorded for dir.
func (c *Checkpoint) Get(dir string) []string { return c.entries[dir] }

// Dirs returns the processed directories in sorted order.
func (c *Checkpoint) Dirs() []string { return slices.Sorted(maps.Keys(c.entries)) }

// Len returns the number of processed directories.
func (c *Checkpoint) Len() int { return len(c.entries) }

// Locations returns every recorded location, grouped by directory in
// sorted directory order, without duplicates.
func (c *Checkpoint) Locations() []string {
	var out []string
	seen := make(map[string]bool)
	for _, dir := range c.Dirs() {
		for _, loc := range c.entries[dir] {
			if !seen[loc] {
				seen[loc] = true
				out = append(out, loc)
			}
		}
	}
	return out
}

// Store persists a checkpoint.
type Store interface {
	// Load returns the stored checkpoint, or an empty one if none exists.
	Load(ctx context.Context) (*Checkpoint, error)
	// Append durably records dir as processed with its locations.
	Append(ctx context.Context, dir string, locations []string) error
	// Reset discards the stored checkpoint.
	Reset(ctx context.Context) error
}

// MemoryStore is a non-persistent [Store].
type MemoryStore struct {
	cp *Checkpoint
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore { return &MemoryStore{cp: NewCheckpoint()} }

func (s *MemoryStore) Load(context.Context) (*Checkpoint, error) {
	out := NewCheckpoint()
	for dir, locs := range s.cp.entries {
		out.Set(dir, locs)
	}
	return out, nil
}

func (s *MemoryStore) Append(_ context.Context, dir string, locations []string) error {
	s.cp.Set(dir, locations)
	return nil
}

func (s *MemoryStore) Reset(context.Context) error {
	s.cp = NewCheckpoint()
	return nil
}
