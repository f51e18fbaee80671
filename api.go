package gokumi

// The package-level facade delegates to one default Manager so the common path
// needs no wiring. Code that wants isolated pool lifecycles (tests, embedded
// libraries) should construct its own Manager instead of mutating the default.

var defaultManager = NewManager()

// Default returns the process-wide default Manager.
func Default() *Manager { return defaultManager }

// New creates a builder factory on the default Manager. Input is classified by
// Detect: a Schema, a Constructor (or a plain func(map[string]any) (any, error)),
// or a []string key list.
func New(input any, opts ...Option) (*Factory, error) {
	return defaultManager.New(input, opts...)
}

// NewAsync creates an asynchronous builder factory on the default Manager.
// Only schema inputs are accepted; anything else fails before a pool exists.
func NewAsync(input any, opts ...Option) (*AsyncFactory, error) {
	return defaultManager.NewAsync(input, opts...)
}

// ClearPools empties and removes every pool on the default Manager.
func ClearPools() { defaultManager.ClearPools() }

// GetPoolStats aggregates hit/miss/object counts across the default Manager's
// pools.
func GetPoolStats() PoolStats { return defaultManager.PoolStats() }

// GetDetailedPoolStats returns per-pool-key breakdowns for the default
// Manager.
func GetDetailedPoolStats() DetailedPoolStats { return defaultManager.DetailedPoolStats() }

// ResetPoolStats zeroes hit/miss counters on the default Manager without
// touching pool contents.
func ResetPoolStats() { defaultManager.ResetPoolStats() }
