package cache

// ScopedKeyer wraps a Keyer with a prefix. The CLI and server scope keys by
// release version so an upgrade never serves output of an older filter.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1.2.0:")
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

// FragmentKey generates a prefixed fragment key.
func (k *ScopedKeyer) FragmentKey(inputHash string, opts FragmentKeyOpts) string {
	return k.prefix + k.inner.FragmentKey(inputHash, opts)
}
