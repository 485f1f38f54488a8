package cache

// ScopedKeyer wraps a Keyer with a prefix so that several repositories can
// share one cache directory without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "repo.example.org:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for a fetched document.
func (k *ScopedKeyer) HTTPKey(namespace, url string) string {
	return k.prefix + k.inner.HTTPKey(namespace, url)
}

// CheckpointKey generates a prefixed checkpoint key.
func (k *ScopedKeyer) CheckpointKey(root string) string {
	return k.prefix + k.inner.CheckpointKey(root)
}
