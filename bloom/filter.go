// Package bloom provides content digest deduplication using Bloom filters.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter wraps a Bloom filter for content digest deduplication.
// It is safe for concurrent use.
type Filter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a digest to the filter.
func (f *Filter) Add(digest []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.f.Add(digest)
}

// Test returns true if the digest might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(digest []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.Test(digest)
}

// TestAndAdd reports whether the digest might already be in the filter
// and adds it.
func (f *Filter) TestAndAdd(digest []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestAndAdd(digest)
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint(f.f.ApproximatedSize())
}
