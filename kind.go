package gokumi

import (
	"context"
	"sort"
	"strings"
)

// Kind classifies a builder configuration by the capability backing it.
type Kind int

const (
	KindSchemaBacked      Kind = iota // Build validates through a Schema.
	KindConstructorBacked             // Build delegates to a Constructor.
	KindKeyListBacked                 // Build returns the accumulated fields as-is.
)

func (k Kind) String() string {
	switch k {
	case KindSchemaBacked:
		return "schema"
	case KindConstructorBacked:
		return "constructor"
	case KindKeyListBacked:
		return "keylist"
	default:
		return "unknown"
	}
}

// Schema is the validation capability consumed by schema-backed builders.
// gokumi treats it as opaque: Validate either returns the validated value or an
// error (typically Issues); Keys exposes the declared field names so setters
// can be derived without an explicit key list.
type Schema interface {
	Keys() []string
	Validate(ctx context.Context, fields map[string]any) (map[string]any, error)
}

// AsyncSchema extends Schema with an asynchronous validation capability, which
// may perform external I/O. BuildAsync prefers it when available.
type AsyncSchema interface {
	Schema
	ValidateAsync(ctx context.Context, fields map[string]any) (map[string]any, error)
}

// Constructor is the construction capability consumed by constructor-backed
// builders. Whatever error it returns propagates through Build unchanged.
type Constructor func(fields map[string]any) (any, error)

// Config describes how builder instances are produced for one field shape.
// Exactly one of Schema/Constructor is set, or neither for KindKeyListBacked.
type Config struct {
	Kind        Kind
	Keys        []string // insertion order defines setter order
	Schema      Schema
	Constructor Constructor
}

// poolKey derives the canonical routing key: kind plus the sorted key list.
// Configurations with equal kinds and key sets share one pool regardless of
// key order or capability identity.
func (c Config) poolKey() string {
	ks := make([]string, len(c.Keys))
	copy(ks, c.Keys)
	sort.Strings(ks)
	return c.Kind.String() + "|" + strings.Join(ks, ",")
}
