// Package cache provides the in-process store backing the content service.
package cache

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/guttosm/nav-service/internal/domain/model"
	"github.com/guttosm/nav-service/internal/metrics"
)

// Key identifies a cached collection: AllKey or a single tag label.
// Keys compare by exact, case-sensitive value.
type Key string

// AllKey is the key of the unfiltered collection.
const AllKey Key = "__all__"

const tagKeyPrefix = "tag:"

// KeyFor returns the key for a tag selector; the empty tag maps to AllKey.
// Tag keys are namespaced so no label can collide with AllKey.
func KeyFor(tag string) Key {
	if tag == "" {
		return AllKey
	}
	return Key(tagKeyPrefix + tag)
}

// IsAll reports whether k is the unfiltered key.
func (k Key) IsAll() bool {
	return k == AllKey
}

// Tag returns the label a tag key selects, or "" for AllKey.
func (k Key) Tag() string {
	if k.IsAll() {
		return ""
	}
	return strings.TrimPrefix(string(k), tagKeyPrefix)
}

// Metrics provides cache performance metrics.
type Metrics struct {
	Hits       int64
	Misses     int64
	Size       int
	Generation uint64
}

// View is a consistent read of one entry together with the tag index
// that was current when the entry was read.
type View struct {
	Collection *model.PageCollection
	Tags       []string
	TagsKnown  bool
	Generation uint64
}

// snapshot is an immutable cache state. Writers publish a new snapshot,
// so readers never observe a half-applied change.
type snapshot struct {
	entries    map[Key]*model.PageCollection
	tags       []string
	tagsKnown  bool
	generation uint64
}

// Store is a keyed collection store with a separately cached tag index.
// It knows nothing about tags beyond holding the index; filtering lives in
// the content service. Entries never expire and are removed only by Clear
// or Replace, each of which starts a new generation.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[snapshot]
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(&snapshot{entries: map[Key]*model.PageCollection{}})
	return s
}

// Get returns the collection stored under key.
func (s *Store) Get(key Key) (*model.PageCollection, bool) {
	v, ok := s.View(key)
	return v.Collection, ok
}

// View returns the entry for key along with the tag index from the same
// snapshot. The returned tag slice must not be modified.
func (s *Store) View(key Key) (View, bool) {
	snap := s.current.Load()
	col, ok := snap.entries[key]
	if !ok {
		s.misses.Add(1)
		metrics.RecordCacheOperation("get", "miss")
		return View{Generation: snap.generation}, false
	}

	s.hits.Add(1)
	metrics.RecordCacheOperation("get", "hit")
	return View{
		Collection: col,
		Tags:       snap.tags,
		TagsKnown:  snap.tagsKnown,
		Generation: snap.generation,
	}, true
}

// Tags returns the cached tag index, or false when it is unknown.
func (s *Store) Tags() ([]string, bool) {
	snap := s.current.Load()
	if !snap.tagsKnown {
		return nil, false
	}
	return append([]string{}, snap.tags...), true
}

// Generation returns the current generation.
func (s *Store) Generation() uint64 {
	return s.current.Load().generation
}

// Set stores value under key, overwriting any existing entry.
func (s *Store) Set(key Key, value *model.PageCollection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishEntry(s.current.Load(), key, value)
}

// SetIfGeneration stores value under key only if no Clear or Replace has
// happened since generation gen was observed. It reports whether the value
// was stored.
func (s *Store) SetIfGeneration(gen uint64, key Key, value *model.PageCollection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.current.Load()
	if snap.generation != gen {
		metrics.RecordCacheOperation("set", "stale")
		return false
	}
	s.publishEntry(snap, key, value)
	return true
}

// SetAllIfGeneration stores the unfiltered collection and its tag index as
// one change, under the same generation rule as SetIfGeneration.
func (s *Store) SetAllIfGeneration(gen uint64, all *model.PageCollection, tags []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.current.Load()
	if snap.generation != gen {
		metrics.RecordCacheOperation("set", "stale")
		return false
	}

	next := snap.withEntry(AllKey, all)
	next.tags = tags
	next.tagsKnown = true
	s.publish(next)
	return true
}

// SetTagsIfGeneration caches the tag index computed from the unfiltered
// entry of generation gen.
func (s *Store) SetTagsIfGeneration(gen uint64, tags []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.current.Load()
	if snap.generation != gen {
		return false
	}

	next := snap.withEntry("", nil)
	next.tags = tags
	next.tagsKnown = true
	s.publish(next)
	return true
}

// Clear removes every entry and marks the tag index unknown.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.publish(&snapshot{
		entries:    map[Key]*model.PageCollection{},
		generation: s.current.Load().generation + 1,
	})
	metrics.RecordCacheOperation("clear", "success")
}

// Replace drops every entry and installs all with its tag index in a single
// step. Readers see either the previous state or the new one. It returns
// the new generation.
func (s *Store) Replace(all *model.PageCollection, tags []string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := &snapshot{
		entries:    map[Key]*model.PageCollection{AllKey: all},
		tags:       tags,
		tagsKnown:  true,
		generation: s.current.Load().generation + 1,
	}
	s.publish(next)
	metrics.RecordCacheOperation("replace", "success")
	return next.generation
}

// Len returns the number of cached collections.
func (s *Store) Len() int {
	return len(s.current.Load().entries)
}

// Metrics returns current cache performance metrics.
func (s *Store) Metrics() Metrics {
	snap := s.current.Load()
	return Metrics{
		Hits:       s.hits.Load(),
		Misses:     s.misses.Load(),
		Size:       len(snap.entries),
		Generation: snap.generation,
	}
}

func (s *Store) publishEntry(snap *snapshot, key Key, value *model.PageCollection) {
	next := snap.withEntry(key, value)
	if key.IsAll() {
		// the index belonged to the previous unfiltered entry
		next.tags = nil
		next.tagsKnown = false
	}
	s.publish(next)
	metrics.RecordCacheOperation("set", "success")
}

func (s *Store) publish(next *snapshot) {
	s.current.Store(next)
	metrics.UpdateCacheMetrics(len(next.entries), next.generation)
}

// withEntry copies the snapshot, adding key when it is non-empty.
func (snap *snapshot) withEntry(key Key, value *model.PageCollection) *snapshot {
	entries := make(map[Key]*model.PageCollection, len(snap.entries)+1)
	for k, v := range snap.entries {
		entries[k] = v
	}
	if key != "" {
		entries[key] = value
	}
	return &snapshot{
		entries:    entries,
		tags:       snap.tags,
		tagsKnown:  snap.tagsKnown,
		generation: snap.generation,
	}
}
