package gokumi

import (
	"context"

	json "github.com/goccy/go-json"
	"github.com/reoring/gokumi/i18n"
	"github.com/reoring/gokumi/internal/pool"
)

// Builder accumulates field values for one construction. It is a mutable
// accumulator: Set assigns in place and returns the receiver, so a chain of
// setters performs no allocation. A builder is exclusively owned by its caller
// from checkout until Release; sharing one across goroutines is not supported.
type Builder struct {
	cfg    Config
	keySet map[string]struct{}
	fields map[string]any
	issues Issues
	home   *pool.Pool[*Builder]
}

// Set assigns fields[name] = value and returns the same builder. Setting a
// field outside the configured key list is recorded and surfaced by Build as
// an unknown_key issue; Set itself keeps the chain alive.
func (b *Builder) Set(name string, value any) *Builder {
	if _, ok := b.keySet[name]; !ok {
		b.issues = AppendIssues(b.issues, Issue{
			Path:    "/" + name,
			Code:    CodeUnknownKey,
			Message: i18n.T(CodeUnknownKey, nil),
			Params:  map[string]any{"key": name},
		})
		return b
	}
	b.fields[name] = value
	return b
}

// Fields returns a copy of the accumulated assignment. The builder keeps
// ownership of its internal state.
func (b *Builder) Fields() map[string]any { return copyFields(b.fields) }

// Build produces the finished value from the accumulated fields:
//
//   - KindKeyListBacked: returns the fields as a map, never fails.
//   - KindConstructorBacked: invokes the constructor; its error propagates unchanged.
//   - KindSchemaBacked: runs the schema's synchronous validation.
//
// Build does not clear the accumulated fields, so calling it twice runs two
// validations/constructions over the same data. It also does not release the
// builder; call Release when done.
func (b *Builder) Build(ctx context.Context) (any, error) {
	if len(b.issues) > 0 {
		return nil, append(Issues(nil), b.issues...)
	}
	switch b.cfg.Kind {
	case KindKeyListBacked:
		return copyFields(b.fields), nil
	case KindConstructorBacked:
		if b.cfg.Constructor == nil {
			return nil, singleIssue(CodeMissingConstructor, "/", i18n.T(CodeMissingConstructor, nil))
		}
		return b.cfg.Constructor(copyFields(b.fields))
	case KindSchemaBacked:
		if b.cfg.Schema == nil {
			return nil, singleIssue(CodeMissingSchema, "/", i18n.T(CodeMissingSchema, nil))
		}
		v, err := b.cfg.Schema.Validate(ctx, copyFields(b.fields))
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, singleIssue(CodeInvalidInputKind, "/", i18n.T(CodeInvalidInputKind, nil))
	}
}

// Release returns the builder to the pool it was checked out from. The reset
// procedure runs on the way in, so a released builder must not be used again.
// Releasing is optional; an unreleased builder is simply collected.
func (b *Builder) Release() {
	if b.home == nil {
		return
	}
	b.home.Put(b)
}

// bind attaches a factory's configuration to a (possibly reused) instance.
// Pools are keyed by kind+keys only, so the capability references must be
// refreshed on every checkout.
func (b *Builder) bind(cfg Config, keySet map[string]struct{}, home *pool.Pool[*Builder]) {
	b.cfg = cfg
	b.keySet = keySet
	b.home = home
	if b.fields == nil {
		b.fields = make(map[string]any, len(cfg.Keys))
	}
}

// reset restores the instance to its freshly-created state before it goes back
// on the free list. Field values and deferred issues must not bleed into the
// next checkout.
func (b *Builder) reset() {
	clear(b.fields)
	b.issues = nil
	b.cfg = Config{}
	b.keySet = nil
	b.home = nil
}

func copyFields(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Bind builds and decodes the result into T, resolving keys through json tags.
// Constructor-backed builds that already produce a T are returned directly.
func Bind[T any](ctx context.Context, b *Builder) (T, error) {
	var zero T
	v, err := b.Build(ctx)
	if err != nil {
		return zero, err
	}
	if t, ok := v.(T); ok {
		return t, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return zero, Issues{Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: err}}
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, Issues{Issue{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: err}}
	}
	return out, nil
}
