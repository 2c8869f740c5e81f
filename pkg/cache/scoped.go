package cache

// ScopedKeyer prefixes every key of an inner Keyer, so deployments or
// releases sharing one backend keep separate entries.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return ScopedKeyer{inner: inner, prefix: prefix}
}

func (k ScopedKeyer) DiagramKey(inputHash string, opts DiagramKeyOpts) string {
	return k.prefix + k.inner.DiagramKey(inputHash, opts)
}

func (k ScopedKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(diagramHash, opts)
}
