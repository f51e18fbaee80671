package gokumi

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/reoring/gokumi/i18n"
	"github.com/reoring/gokumi/internal/pool"
)

// Manager owns the pools behind builder factories. Each distinct canonical
// configuration key (kind + sorted keys) maps to one pool; sync and async
// factories keep separate registries. The number of distinct configurations is
// unbounded; each pool is bounded by the manager's pool size.
//
// A Manager is safe for concurrent use. It performs no automatic teardown:
// call ClearPools at points of controlled memory reclamation, such as between
// test cases or on graceful shutdown.
type Manager struct {
	mu         sync.Mutex
	syncPools  map[string]*pool.Pool[*Builder]
	asyncPools map[string]*pool.Pool[*Builder]
	poolSize   int
	log        *zap.Logger

	// Counters folded in from pools removed by ClearPools, so aggregate
	// accounting survives pool teardown. Only ResetPoolStats zeroes them.
	retiredHits    uint64
	retiredMisses  uint64
	retiredCreated uint64
}

// ManagerOption configures a Manager at construction time.
type ManagerOption func(*Manager)

// WithLogger installs a logger for pool lifecycle diagnostics. The default is
// a nop logger.
func WithLogger(l *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithDefaultPoolSize sets the capacity applied to pools this manager creates
// when the factory carries no explicit WithPoolSize.
func WithDefaultPoolSize(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.poolSize = n
		}
	}
}

// NewManager constructs an empty manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		syncPools:  make(map[string]*pool.Pool[*Builder]),
		asyncPools: make(map[string]*pool.Pool[*Builder]),
		poolSize:   pool.DefaultMaxSize,
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Option configures one factory creation.
type Option func(*factoryOptions)

type factoryOptions struct {
	keys     []string
	derive   bool
	poolSize int
}

// WithKeys supplies the field key list explicitly, bypassing schema
// introspection and constructor probing.
func WithKeys(keys ...string) Option {
	return func(o *factoryOptions) { o.keys = keys }
}

// WithDerivedKeys opts a constructor-backed configuration into reflective key
// derivation: the constructor is probed with empty fields and the exported
// fields of the result become the key list. Derivation that yields no keys is
// an error, never a silent empty list.
func WithDerivedKeys() Option {
	return func(o *factoryOptions) { o.derive = true }
}

// WithPoolSize overrides the capacity used if this creation instantiates the
// pool. An existing pool for the same configuration keeps its original bound.
func WithPoolSize(n int) Option {
	return func(o *factoryOptions) { o.poolSize = n }
}

// New resolves input into a builder configuration and returns a factory whose
// Acquire checks instances out of the shared pool for that configuration.
func (m *Manager) New(input any, opts ...Option) (*Factory, error) {
	cfg, keySet, size, err := m.resolve(input, opts)
	if err != nil {
		return nil, err
	}
	p := m.lookupOrCreate(m.syncPools, cfg.poolKey(), size)
	return &Factory{cfg: cfg, keySet: keySet, pool: p}, nil
}

// NewAsync is the schema-only counterpart of New. Constructor and key-list
// inputs fail fast, before any pool is created.
func (m *Manager) NewAsync(input any, opts ...Option) (*AsyncFactory, error) {
	cfg, keySet, size, err := m.resolve(input, opts)
	if err != nil {
		return nil, err
	}
	if cfg.Kind != KindSchemaBacked {
		return nil, Issues{Issue{
			Path:    "/",
			Code:    CodeInvalidInputKind,
			Message: i18n.T(CodeInvalidInputKind, nil),
			Hint:    "async builders require a schema input",
			Params:  map[string]any{"kind": cfg.Kind.String()},
		}}
	}
	p := m.lookupOrCreate(m.asyncPools, cfg.poolKey(), size)
	return &AsyncFactory{cfg: cfg, keySet: keySet, pool: p}, nil
}

func (m *Manager) resolve(input any, opts []Option) (Config, map[string]struct{}, int, error) {
	var fo factoryOptions
	for _, o := range opts {
		o(&fo)
	}
	cfg, err := Detect(input)
	if err != nil {
		return Config{}, nil, 0, err
	}
	if err := resolveKeys(&cfg, fo.keys, fo.derive); err != nil {
		return Config{}, nil, 0, err
	}
	keySet := make(map[string]struct{}, len(cfg.Keys))
	for _, k := range cfg.Keys {
		keySet[k] = struct{}{}
	}
	size := fo.poolSize
	if size <= 0 {
		size = m.poolSize
	}
	return cfg, keySet, size, nil
}

func (m *Manager) lookupOrCreate(reg map[string]*pool.Pool[*Builder], key string, size int) *pool.Pool[*Builder] {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := reg[key]; ok {
		return p
	}
	p := pool.New(size,
		func() *Builder { return &Builder{fields: make(map[string]any, 8)} },
		func(b *Builder) { b.reset() },
	)
	reg[key] = p
	m.log.Debug("pool created", zap.String("key", key), zap.Int("maxSize", size))
	return p
}

// ClearPools empties and removes every pool in both registries. Historical
// hit/miss counters are folded into the manager and keep showing up in
// PoolStats; only ResetPoolStats clears them. Factories already handed out
// keep their pool alive, but it is no longer reachable from the manager.
func (m *Manager) ClearPools() {
	m.mu.Lock()
	retire := func(reg map[string]*pool.Pool[*Builder]) {
		for k, p := range reg {
			s := p.Stats()
			m.retiredHits += s.Hits
			m.retiredMisses += s.Misses
			m.retiredCreated += s.TotalCreated
			p.Clear()
			delete(reg, k)
		}
	}
	retire(m.syncPools)
	retire(m.asyncPools)
	m.mu.Unlock()
	m.log.Debug("pools cleared")
}

// PoolStats aggregates hit/miss/object counts across every pool.
type PoolStats struct {
	Pools         int     `json:"pools"`
	PooledObjects int     `json:"pooledObjects"`
	Hits          uint64  `json:"hits"`
	Misses        uint64  `json:"misses"`
	TotalCreated  uint64  `json:"totalCreated"`
	HitRate       float64 `json:"hitRate"`
}

// PoolInfo is the per-pool breakdown returned by DetailedPoolStats.
type PoolInfo struct {
	Size         int     `json:"size"`
	MaxSize      int     `json:"maxSize"`
	Hits         uint64  `json:"hits"`
	Misses       uint64  `json:"misses"`
	TotalCreated uint64  `json:"totalCreated"`
	HitRate      float64 `json:"hitRate"`
	Utilization  float64 `json:"utilization"`
}

// DetailedPoolStats breaks accounting down per canonical pool key.
type DetailedPoolStats struct {
	Sync           map[string]PoolInfo `json:"sync"`
	Async          map[string]PoolInfo `json:"async"`
	AvgHitRate     float64             `json:"avgHitRate"`
	AvgUtilization float64             `json:"avgUtilization"`
}

// Keys lists the canonical pool keys of d's registries, sorted, sync first.
func (d DetailedPoolStats) Keys() []string {
	ks := make([]string, 0, len(d.Sync)+len(d.Async))
	for k := range d.Sync {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	as := make([]string, 0, len(d.Async))
	for k := range d.Async {
		as = append(as, k)
	}
	sort.Strings(as)
	return append(ks, as...)
}

// PoolStats aggregates counters across both registries, including history
// retired by ClearPools.
func (m *Manager) PoolStats() PoolStats {
	m.mu.Lock()
	out := PoolStats{
		Hits:         m.retiredHits,
		Misses:       m.retiredMisses,
		TotalCreated: m.retiredCreated,
	}
	m.mu.Unlock()
	for _, p := range m.snapshot() {
		s := p.Stats()
		out.Pools++
		out.PooledObjects += s.Size
		out.Hits += s.Hits
		out.Misses += s.Misses
		out.TotalCreated += s.TotalCreated
	}
	if total := out.Hits + out.Misses; total > 0 {
		out.HitRate = float64(out.Hits) / float64(total)
	}
	return out
}

// DetailedPoolStats returns per-pool-key breakdowns plus averaged
// hit-rate/utilization over all pools.
func (m *Manager) DetailedPoolStats() DetailedPoolStats {
	out := DetailedPoolStats{
		Sync:  make(map[string]PoolInfo),
		Async: make(map[string]PoolInfo),
	}
	m.mu.Lock()
	syncSnap := make(map[string]*pool.Pool[*Builder], len(m.syncPools))
	for k, p := range m.syncPools {
		syncSnap[k] = p
	}
	asyncSnap := make(map[string]*pool.Pool[*Builder], len(m.asyncPools))
	for k, p := range m.asyncPools {
		asyncSnap[k] = p
	}
	m.mu.Unlock()

	var sumHitRate, sumUtil float64
	n := 0
	collect := func(snap map[string]*pool.Pool[*Builder], dst map[string]PoolInfo) {
		for k, p := range snap {
			s := p.Stats()
			dst[k] = PoolInfo{
				Size:         s.Size,
				MaxSize:      s.MaxSize,
				Hits:         s.Hits,
				Misses:       s.Misses,
				TotalCreated: s.TotalCreated,
				HitRate:      s.HitRate,
				Utilization:  s.Utilization,
			}
			sumHitRate += s.HitRate
			sumUtil += s.Utilization
			n++
		}
	}
	collect(syncSnap, out.Sync)
	collect(asyncSnap, out.Async)
	if n > 0 {
		out.AvgHitRate = sumHitRate / float64(n)
		out.AvgUtilization = sumUtil / float64(n)
	}
	return out
}

// ResetPoolStats zeroes hit/miss counters everywhere, retired history
// included, without touching pool contents. Creation totals are kept; they
// track lifetime allocations, not a rate.
func (m *Manager) ResetPoolStats() {
	m.mu.Lock()
	m.retiredHits = 0
	m.retiredMisses = 0
	m.mu.Unlock()
	for _, p := range m.snapshot() {
		p.ResetStats()
	}
}

func (m *Manager) snapshot() []*pool.Pool[*Builder] {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*pool.Pool[*Builder], 0, len(m.syncPools)+len(m.asyncPools))
	for _, p := range m.syncPools {
		out = append(out, p)
	}
	for _, p := range m.asyncPools {
		out = append(out, p)
	}
	return out
}
