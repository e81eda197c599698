// Package pool provides the keyed surface pool shared by the filter hosts.
package pool

import "sync"

// Pool is a thread-safe pool of reusable resources grouped by key.
//
// Hosts key surfaces by their dimensions so that GetSameSizeSurface can hand
// back an identically-sized target. The pool counts resources that are
// checked out, which lets callers assert that every Get was paired with a
// Put.
//
// Thread safety: All methods are safe for concurrent use.
type Pool[K comparable, V any] struct {
	mu          sync.Mutex
	buckets     map[K][]V
	maxSize     int // max resources per bucket
	outstanding int

	create func(K) (V, error)
	reset  func(V)
	drop   func(V)
}

// Config describes how a pool creates, clears and releases resources.
type Config[K comparable, V any] struct {
	// MaxPerBucket limits how many resources of each key are retained.
	// Zero means unlimited.
	MaxPerBucket int

	// Create builds a new resource for key.
	Create func(K) (V, error)

	// Reset clears a resource before reuse. Optional.
	Reset func(V)

	// Drop releases a resource the pool no longer retains. Optional.
	Drop func(V)
}

// New creates a pool from cfg. Create is required.
func New[K comparable, V any](cfg Config[K, V]) *Pool[K, V] {
	return &Pool[K, V]{
		buckets: make(map[K][]V),
		maxSize: cfg.MaxPerBucket,
		create:  cfg.Create,
		reset:   cfg.Reset,
		drop:    cfg.Drop,
	}
}

// Get retrieves a resource for key from the pool or creates a new one.
// Reused resources are reset before they are returned.
func (p *Pool[K, V]) Get(key K) (V, error) {
	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) > 0 {
		v := bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		p.outstanding++
		p.mu.Unlock()

		if p.reset != nil {
			p.reset(v)
		}
		return v, nil
	}
	p.mu.Unlock()

	v, err := p.create(key)
	if err != nil {
		var zero V
		return zero, err
	}
	p.mu.Lock()
	p.outstanding++
	p.mu.Unlock()
	return v, nil
}

// Put returns a resource obtained from Get. If the bucket is at capacity
// the resource is dropped.
func (p *Pool[K, V]) Put(key K, v V) {
	p.mu.Lock()
	if p.outstanding > 0 {
		p.outstanding--
	}
	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		p.mu.Unlock()
		if p.drop != nil {
			p.drop(v)
		}
		return
	}
	p.buckets[key] = append(bucket, v)
	p.mu.Unlock()
}

// Outstanding returns how many resources are checked out.
func (p *Pool[K, V]) Outstanding() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outstanding
}

// Idle returns how many resources are retained for reuse.
func (p *Pool[K, V]) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}

// Clear drops every retained resource.
func (p *Pool[K, V]) Clear() {
	p.mu.Lock()
	buckets := p.buckets
	p.buckets = make(map[K][]V)
	p.mu.Unlock()

	if p.drop == nil {
		return
	}
	for _, b := range buckets {
		for _, v := range b {
			p.drop(v)
		}
	}
}
