package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several deployments can
// share one Redis instance without reading each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "boardexport:staging:")
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

// FetchKey generates a prefixed key for fetched bytes.
func (k *ScopedKeyer) FetchKey(rawURL string) string {
	return k.prefix + k.inner.FetchKey(rawURL)
}

// RasterKey generates a prefixed key for rasterized images.
func (k *ScopedKeyer) RasterKey(ref string, opts RasterKeyOpts) string {
	return k.prefix + k.inner.RasterKey(ref, opts)
}
