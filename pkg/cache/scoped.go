package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several users of one
// backend (the command line and the HTTP server sharing a Redis instance,
// say) never read each other's entries.
//
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
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

// TreeKey generates a prefixed reconstruction key.
func (k *ScopedKeyer) TreeKey(matrixHash string) string {
	return k.prefix + k.inner.TreeKey(matrixHash)
}

// MatrixKey generates a prefixed matrix key.
func (k *ScopedKeyer) MatrixKey(exprHash string) string {
	return k.prefix + k.inner.MatrixKey(exprHash)
}

// RenderKey generates a prefixed artifact key.
func (k *ScopedKeyer) RenderKey(exprHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(exprHash, opts)
}
