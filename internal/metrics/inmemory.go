package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered   uint64
	EntriesAdded      uint64
	EntriesUpdated    uint64
	EntriesDeleted    uint64
	LookupCacheHits   uint64
	LookupCacheMisses uint64
	ImagesIdentified  uint64
	ImagesPokemonized uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersRegistered   uint64
	entriesAdded      uint64
	entriesUpdated    uint64
	entriesDeleted    uint64
	lookupCacheHits   uint64
	lookupCacheMisses uint64
	imagesIdentified  uint64
	imagesPokemonized uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:   atomic.LoadUint64(&m.usersRegistered),
		EntriesAdded:      atomic.LoadUint64(&m.entriesAdded),
		EntriesUpdated:    atomic.LoadUint64(&m.entriesUpdated),
		EntriesDeleted:    atomic.LoadUint64(&m.entriesDeleted),
		LookupCacheHits:   atomic.LoadUint64(&m.lookupCacheHits),
		LookupCacheMisses: atomic.LoadUint64(&m.lookupCacheMisses),
		ImagesIdentified:  atomic.LoadUint64(&m.imagesIdentified),
		ImagesPokemonized: atomic.LoadUint64(&m.imagesPokemonized),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncEntryAdded increments the entries-added counter.
func (m *InMemoryRecorder) IncEntryAdded() {
	atomic.AddUint64(&m.entriesAdded, 1)
}

// IncEntryUpdated increments the entries-updated counter.
func (m *InMemoryRecorder) IncEntryUpdated() {
	atomic.AddUint64(&m.entriesUpdated, 1)
}

// IncEntryDeleted increments the entries-deleted counter.
func (m *InMemoryRecorder) IncEntryDeleted() {
	atomic.AddUint64(&m.entriesDeleted, 1)
}

// IncLookupCacheHit increments the lookup cache hit counter.
func (m *InMemoryRecorder) IncLookupCacheHit() {
	atomic.AddUint64(&m.lookupCacheHits, 1)
}

// IncLookupCacheMiss increments the lookup cache miss counter.
func (m *InMemoryRecorder) IncLookupCacheMiss() {
	atomic.AddUint64(&m.lookupCacheMisses, 1)
}

// IncImageIdentified increments the identify counter.
func (m *InMemoryRecorder) IncImageIdentified() {
	atomic.AddUint64(&m.imagesIdentified, 1)
}

// IncImagePokemonized increments the pokemonize counter.
func (m *InMemoryRecorder) IncImagePokemonized() {
	atomic.AddUint64(&m.imagesPokemonized, 1)
}
