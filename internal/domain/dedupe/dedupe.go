// Package dedupe tracks submission idempotency keys.
package dedupe

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxSize bounds the key set when no size is configured.
const DefaultMaxSize = 50000

// Deduper records seen submission keys so a retried POST is applied once.
type Deduper interface {
	// SeenAndRecord reports whether key was already recorded and records it
	// if not. It is atomic.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord forgets key so the submission can be retried, used when a
	// recorded submission could not be queued.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// inMemoryDeduper keeps keys in a bounded cache that evicts the oldest key
// first, or in a plain map when unbounded.
type inMemoryDeduper struct {
	maxSize int

	bounded *lru.Cache[string, struct{}]

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewInMemoryDeduper creates a deduper. WithMaxSize(n) with n <= 0 makes it
// unbounded.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}

	if d.maxSize > 0 {
		// lru.New only fails for a non-positive size.
		d.bounded, _ = lru.New[string, struct{}](d.maxSize)
		return d
	}
	d.seen = make(map[string]struct{})
	return d
}

// SeenAndRecord never refreshes an existing key, so eviction order is
// insertion order.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	if d.bounded != nil {
		seen, _ := d.bounded.ContainsOrAdd(key, struct{}{})
		return seen
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[key]; ok {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	if d.bounded != nil {
		d.bounded.Remove(key)
		return
	}

	d.mu.Lock()
	delete(d.seen, key)
	d.mu.Unlock()
}

// Size returns the number of recorded keys.
func (d *inMemoryDeduper) Size() int64 {
	if d.bounded != nil {
		return int64(d.bounded.Len())
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
