// Package pool implements the bounded free-list cache backing builder reuse.
// Instances are kept on a LIFO stack so the most recently released one is
// handed out first, and every access is accounted as a hit or a miss.
package pool

import "sync"

// DefaultMaxSize bounds a pool when no explicit capacity is given.
const DefaultMaxSize = 1000

// Stats is a point-in-time snapshot of one pool.
type Stats struct {
	Size         int
	MaxSize      int
	Hits         uint64
	Misses       uint64
	TotalCreated uint64
	HitRate      float64 // hits / (hits+misses); 0 when no accesses yet
	Utilization  float64 // idle count / maxSize
}

// Pool is a bounded free list of reusable instances. All operations take the
// pool's own lock, per the one-lock-per-pool discipline; Get never blocks and
// never fails, falling back to the creation function on an empty list.
type Pool[T any] struct {
	mu      sync.Mutex
	idle    []T
	maxSize int
	newFn   func() T
	resetFn func(T)

	hits         uint64
	misses       uint64
	totalCreated uint64
}

// New returns a pool with the given capacity. Non-positive maxSize falls back
// to DefaultMaxSize. newFn creates a fresh instance on a miss; resetFn, when
// non-nil, restores a released instance to its freshly-created state before it
// goes back on the free list.
func New[T any](maxSize int, newFn func() T, resetFn func(T)) *Pool[T] {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Pool[T]{
		idle:    make([]T, 0, min(maxSize, 16)),
		maxSize: maxSize,
		newFn:   newFn,
		resetFn: resetFn,
	}
}

// Get pops the most recently released instance (a hit) or creates a new one
// (a miss).
func (p *Pool[T]) Get() T {
	p.mu.Lock()
	if n := len(p.idle); n > 0 {
		v := p.idle[n-1]
		var zero T
		p.idle[n-1] = zero
		p.idle = p.idle[:n-1]
		p.hits++
		p.mu.Unlock()
		return v
	}
	p.misses++
	p.totalCreated++
	p.mu.Unlock()
	return p.newFn()
}

// Put resets the instance and returns it to the free list. At capacity the
// instance is dropped and left to the garbage collector; overflow is not an
// error.
func (p *Pool[T]) Put(v T) {
	if p.resetFn != nil {
		p.resetFn(v)
	}
	p.mu.Lock()
	if len(p.idle) < p.maxSize {
		p.idle = append(p.idle, v)
	}
	p.mu.Unlock()
}

// Clear drops every idle instance. Counters are untouched; use ResetStats for
// those.
func (p *Pool[T]) Clear() {
	p.mu.Lock()
	var zero T
	for i := range p.idle {
		p.idle[i] = zero
	}
	p.idle = p.idle[:0]
	p.mu.Unlock()
}

// Len reports the number of idle instances.
func (p *Pool[T]) Len() int {
	p.mu.Lock()
	n := len(p.idle)
	p.mu.Unlock()
	return n
}

// MaxSize reports the capacity bound.
func (p *Pool[T]) MaxSize() int { return p.maxSize }

// Stats snapshots the pool counters.
func (p *Pool[T]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := Stats{
		Size:         len(p.idle),
		MaxSize:      p.maxSize,
		Hits:         p.hits,
		Misses:       p.misses,
		TotalCreated: p.totalCreated,
	}
	if total := p.hits + p.misses; total > 0 {
		s.HitRate = float64(p.hits) / float64(total)
	}
	if p.maxSize > 0 {
		s.Utilization = float64(len(p.idle)) / float64(p.maxSize)
	}
	return s
}

// ResetStats zeroes hits and misses without touching the free list.
// TotalCreated is kept; it tracks lifetime allocations, not a rate.
func (p *Pool[T]) ResetStats() {
	p.mu.Lock()
	p.hits = 0
	p.misses = 0
	p.mu.Unlock()
}
