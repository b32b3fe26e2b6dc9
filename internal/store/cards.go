// Package store indexes the cards of the deck that is currently mounted.
package store

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultFalsePositiveRate is the bloom filter rate used by the view.
const DefaultFalsePositiveRate = 0.001

// Entry is one keyed value handed to CardIndex.Load.
type Entry[V any] struct {
	Key   string
	Value V
}

// CardIndex is a thread-safe lookup of the mounted cards. A bloom filter
// answers most lookups for unmounted ids without touching the LRU.
type CardIndex[V any] struct {
	entries           *lru.Cache[string, V]
	bloom             *bloom.BloomFilter
	mutex             sync.RWMutex
	maxEntries        int
	falsePositiveRate float64
}

// NewCardIndex creates an index sized for maxEntries values.
func NewCardIndex[V any](maxEntries int, falsePositiveRate float64) *CardIndex[V] {
	if maxEntries <= 0 {
		panic("maxEntries must be positive")
	}
	cache, err := lru.New[string, V](maxEntries)
	if err != nil {
		panic(err)
	}

	return &CardIndex[V]{
		entries:           cache,
		bloom:             bloom.NewWithEstimates(uint(maxEntries), falsePositiveRate),
		maxEntries:        maxEntries,
		falsePositiveRate: falsePositiveRate,
	}
}

// Get returns the value stored under key.
func (ci *CardIndex[V]) Get(key string) (V, bool) {
	ci.mutex.RLock()
	defer ci.mutex.RUnlock()

	if !ci.bloom.TestString(key) {
		var zero V
		return zero, false
	}

	return ci.entries.Get(key)
}

// Load replaces the whole index with entries. Empty keys are skipped. A deck larger
// than maxEntries grows the index so that every loaded entry stays addressable.
func (ci *CardIndex[V]) Load(entries []Entry[V]) {
	ci.mutex.Lock()
	defer ci.mutex.Unlock()

	capacity := max(len(entries), ci.maxEntries)
	ci.bloom = bloom.NewWithEstimates(uint(capacity), ci.falsePositiveRate)
	ci.entries.Purge()
	ci.entries.Resize(capacity)

	for _, entry := range entries {
		if entry.Key == "" {
			continue
		}
		ci.bloom.AddString(entry.Key)
		ci.entries.Add(entry.Key, entry.Value)
	}
}

// Size returns the number of values currently indexed.
func (ci *CardIndex[V]) Size() int {
	ci.mutex.RLock()
	defer ci.mutex.RUnlock()
	return ci.entries.Len()
}
