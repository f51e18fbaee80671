package schema

import (
	"context"

	gokumi "github.com/reoring/gokumi"
	"github.com/reoring/gokumi/i18n"
)

type objectBuilder struct {
	keys     []string // declaration order defines Keys()
	rules    map[string]Rule
	required map[string]struct{}
	strip    bool
	refines  []refine
}

type refine struct {
	name string
	fn   func(context.Context, map[string]any) error
}

type fieldStep struct {
	b    *objectBuilder
	name string
}

// Object creates a new object-schema builder with safe defaults
// (unknown keys rejected).
func Object() *objectBuilder {
	return &objectBuilder{
		rules:    map[string]Rule{},
		required: map[string]struct{}{},
	}
}

// Field registers a field with its rule. Re-registering a name replaces the
// rule but keeps its original position in the key order.
func (b *objectBuilder) Field(name string, r Rule) *fieldStep {
	if _, ok := b.rules[name]; !ok {
		b.keys = append(b.keys, name)
	}
	b.rules[name] = r
	return &fieldStep{b: b, name: name}
}

// Required marks the field as required and returns the builder.
func (f *fieldStep) Required() *objectBuilder {
	f.b.required[f.name] = struct{}{}
	return f.b
}

// Optional marks the field as optional (default) and returns the builder.
func (f *fieldStep) Optional() *objectBuilder {
	delete(f.b.required, f.name)
	return f.b
}

func (f *fieldStep) Field(name string, r Rule) *fieldStep { return f.b.Field(name, r) }
func (f *fieldStep) Require(names ...string) *objectBuilder {
	return f.b.Require(names...)
}
func (f *fieldStep) UnknownStrip() *objectBuilder         { return f.b.UnknownStrip() }
func (f *fieldStep) Build() (gokumi.Schema, error)        { return f.b.Build() }
func (f *fieldStep) MustBuild() gokumi.Schema             { return f.b.MustBuild() }
func (f *fieldStep) RefineAsync(name string, fn func(context.Context, map[string]any) error) *objectBuilder {
	return f.b.RefineAsync(name, fn)
}

// Require marks one or more fields as required.
func (b *objectBuilder) Require(names ...string) *objectBuilder {
	for _, n := range names {
		b.required[n] = struct{}{}
	}
	return b
}

// UnknownStrict rejects unknown keys with an error (default).
func (b *objectBuilder) UnknownStrict() *objectBuilder {
	b.strip = false
	return b
}

// UnknownStrip drops unknown keys instead of rejecting them.
func (b *objectBuilder) UnknownStrip() *objectBuilder {
	b.strip = true
	return b
}

// RefineAsync adds a named refine hook executed by ValidateAsync after the
// per-field rules pass. Hooks may perform external I/O; errors that are not
// gokumi.Issues are wrapped as business_rule.
func (b *objectBuilder) RefineAsync(name string, fn func(context.Context, map[string]any) error) *objectBuilder {
	if fn == nil {
		return b
	}
	b.refines = append(b.refines, refine{name: name, fn: fn})
	return b
}

// Build validates the builder and returns the schema.
func (b *objectBuilder) Build() (gokumi.Schema, error) {
	for _, name := range b.keys {
		if cc, ok := b.rules[name].(compileChecked); ok {
			if err := cc.compileErr(); err != nil {
				return nil, gokumi.Issues{gokumi.Issue{
					Path:    "/" + name,
					Code:    gokumi.CodeParseError,
					Message: i18n.T(gokumi.CodeParseError, nil),
					Hint:    "rule failed to compile",
					Cause:   err,
				}}
			}
		}
	}
	s := &objectSchema{
		keys:     append([]string(nil), b.keys...),
		rules:    make(map[string]Rule, len(b.rules)),
		required: make(map[string]struct{}, len(b.required)),
		strip:    b.strip,
		refines:  append([]refine(nil), b.refines...),
	}
	for k, r := range b.rules {
		s.rules[k] = r
	}
	for k := range b.required {
		s.required[k] = struct{}{}
	}
	return s, nil
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild() gokumi.Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// objectSchema is the immutable product of Build. It implements
// gokumi.AsyncSchema; without refine hooks ValidateAsync just mirrors
// Validate.
type objectSchema struct {
	keys     []string
	rules    map[string]Rule
	required map[string]struct{}
	strip    bool
	refines  []refine
}

// Keys returns the declared field names in declaration order.
func (s *objectSchema) Keys() []string { return append([]string(nil), s.keys...) }

// Validate checks required fields, per-field rules, and the unknown-key
// policy. On success it returns the validated assignment (unknown keys
// stripped when the policy says so); on failure it returns the accumulated
// issues.
func (s *objectSchema) Validate(ctx context.Context, fields map[string]any) (map[string]any, error) {
	var iss gokumi.Issues
	out := make(map[string]any, len(fields))
	for _, name := range s.keys {
		v, ok := fields[name]
		if !ok {
			if _, req := s.required[name]; req {
				iss = gokumi.AppendIssues(iss, gokumi.Issue{
					Path:    "/" + name,
					Code:    gokumi.CodeRequired,
					Message: i18n.T(gokumi.CodeRequired, nil),
				})
			}
			continue
		}
		iss = gokumi.AppendIssues(iss, s.rules[name].check("/"+name, v)...)
		out[name] = v
	}
	for name := range fields {
		if _, ok := s.rules[name]; ok {
			continue
		}
		if s.strip {
			continue
		}
		iss = gokumi.AppendIssues(iss, gokumi.Issue{
			Path:    "/" + name,
			Code:    gokumi.CodeUnknownKey,
			Message: i18n.T(gokumi.CodeUnknownKey, nil),
			Params:  map[string]any{"key": name},
		})
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// ValidateAsync runs Validate and then the refine hooks in registration
// order, stopping at the first failure.
func (s *objectSchema) ValidateAsync(ctx context.Context, fields map[string]any) (map[string]any, error) {
	out, err := s.Validate(ctx, fields)
	if err != nil {
		return nil, err
	}
	for _, rf := range s.refines {
		if err := rf.fn(ctx, out); err != nil {
			if iss, ok := gokumi.AsIssues(err); ok {
				return nil, iss
			}
			return nil, gokumi.Issues{gokumi.Issue{
				Path:    "/",
				Code:    gokumi.CodeBusinessRule,
				Message: i18n.T(gokumi.CodeBusinessRule, nil),
				Hint:    rf.name,
				Cause:   err,
			}}
		}
	}
	return out, nil
}
