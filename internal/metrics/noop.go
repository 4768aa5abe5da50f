package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncEntryAdded is a no-op.
func (n *NoopRecorder) IncEntryAdded() {}

// IncEntryUpdated is a no-op.
func (n *NoopRecorder) IncEntryUpdated() {}

// IncEntryDeleted is a no-op.
func (n *NoopRecorder) IncEntryDeleted() {}

// IncLookupCacheHit is a no-op.
func (n *NoopRecorder) IncLookupCacheHit() {}

// IncLookupCacheMiss is a no-op.
func (n *NoopRecorder) IncLookupCacheMiss() {}

// IncImageIdentified is a no-op.
func (n *NoopRecorder) IncImageIdentified() {}

// IncImagePokemonized is a no-op.
func (n *NoopRecorder) IncImagePokemonized() {}
