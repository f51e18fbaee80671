package gokumi

import (
	"context"

	"github.com/reoring/gokumi/i18n"
)

// Result delivers the outcome of an asynchronous build.
type Result struct {
	Value map[string]any
	Err   error
}

// AsyncBuilder is the accumulator handed out by AsyncFactory. It mirrors
// Builder's setter protocol but terminates with BuildAsync; async builders are
// always schema-backed.
type AsyncBuilder struct {
	b *Builder
}

// Set assigns fields[name] = value and returns the same builder.
func (a *AsyncBuilder) Set(name string, value any) *AsyncBuilder {
	a.b.Set(name, value)
	return a
}

// Fields returns a copy of the accumulated assignment.
func (a *AsyncBuilder) Fields() map[string]any { return a.b.Fields() }

// BuildAsync validates the accumulated fields off the calling goroutine and
// delivers exactly one Result on the returned channel, which is then closed.
// Schemas implementing AsyncSchema validate through ValidateAsync; otherwise
// the synchronous capability runs in the background. The fields are
// snapshotted up front, so later Set calls do not race the validation.
// There is no cancellation beyond what the capability honors via ctx; once
// started, the validation runs to completion.
func (a *AsyncBuilder) BuildAsync(ctx context.Context) <-chan Result {
	ch := make(chan Result, 1)
	if len(a.b.issues) > 0 {
		ch <- Result{Err: append(Issues(nil), a.b.issues...)}
		close(ch)
		return ch
	}
	s := a.b.cfg.Schema
	if s == nil {
		ch <- Result{Err: singleIssue(CodeMissingSchema, "/", i18n.T(CodeMissingSchema, nil))}
		close(ch)
		return ch
	}
	snapshot := copyFields(a.b.fields)
	go func() {
		defer close(ch)
		var (
			v   map[string]any
			err error
		)
		if as, ok := s.(AsyncSchema); ok {
			v, err = as.ValidateAsync(ctx, snapshot)
		} else {
			v, err = s.Validate(ctx, snapshot)
		}
		ch <- Result{Value: v, Err: err}
	}()
	return ch
}

// Release returns the underlying instance to its pool. The builder must not
// be used afterwards, including while a BuildAsync is still in flight.
func (a *AsyncBuilder) Release() { a.b.Release() }
