package gokumi

import (
	"github.com/reoring/gokumi/i18n"
	"github.com/reoring/gokumi/internal/pool"
)

// Factory checks pooled builders out for one configuration. Factories are
// cheap handles; every factory created for an equal configuration (same kind,
// same key set) shares one pool.
type Factory struct {
	cfg    Config
	keySet map[string]struct{}
	pool   *pool.Pool[*Builder]
}

// Acquire checks a builder out of the pool, binding this factory's
// configuration onto it. The caller owns the builder until Release.
func (f *Factory) Acquire() *Builder {
	b := f.pool.Get()
	b.bind(f.cfg, f.keySet, f.pool)
	return b
}

// Config returns a copy of the resolved configuration.
func (f *Factory) Config() Config {
	c := f.cfg
	c.Keys = append([]string(nil), f.cfg.Keys...)
	return c
}

// AsyncFactory is the asynchronous counterpart of Factory, restricted to
// schema-backed configurations.
type AsyncFactory struct {
	cfg    Config
	keySet map[string]struct{}
	pool   *pool.Pool[*Builder]
}

// Acquire checks an async builder out of the pool.
func (f *AsyncFactory) Acquire() *AsyncBuilder {
	b := f.pool.Get()
	b.bind(f.cfg, f.keySet, f.pool)
	return &AsyncBuilder{b: b}
}

// Config returns a copy of the resolved configuration.
func (f *AsyncFactory) Config() Config {
	c := f.cfg
	c.Keys = append([]string(nil), f.cfg.Keys...)
	return c
}

// FieldSetter is a compile-time-typed per-field setter produced by SetterFor.
type FieldSetter[V any] func(*Builder, V) *Builder

// SetterFor returns a typed setter bound to one declared field, replacing the
// runtime-generated withX methods of dynamic hosts with a generics-checked
// wrapper. It fails when name is not in the factory's key list.
func SetterFor[V any](f *Factory, name string) (FieldSetter[V], error) {
	if _, ok := f.keySet[name]; !ok {
		return nil, Issues{Issue{
			Path:    "/" + name,
			Code:    CodeUnknownKey,
			Message: i18n.T(CodeUnknownKey, nil),
			Params:  map[string]any{"key": name},
		}}
	}
	return func(b *Builder, v V) *Builder { return b.Set(name, v) }, nil
}
