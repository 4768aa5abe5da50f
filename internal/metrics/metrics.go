// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncUserRegistered()

	// Collection metrics
	IncEntryAdded()
	IncEntryUpdated()
	IncEntryDeleted()

	// Upstream lookup metrics
	IncLookupCacheHit()
	IncLookupCacheMiss()

	// Image pipeline metrics
	IncImageIdentified()
	IncImagePokemonized()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
