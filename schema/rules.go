// Package schema provides a small fluent object-schema DSL implementing the
// gokumi.Schema capability: per-field rules, required keys, an unknown-key
// policy, and optional asynchronous refine hooks. Schemas built here plug
// straight into gokumi.New / gokumi.NewAsync.
package schema

import (
	"encoding/json"
	"fmt"
	"regexp"

	gokumi "github.com/reoring/gokumi"
	"github.com/reoring/gokumi/i18n"
)

// Rule validates a single field value. The set of rules is closed; build
// schemas from the String/Int/Float/Bool/Any constructors.
type Rule interface {
	check(path string, v any) gokumi.Issues
}

// compileChecked lets rules defer construction errors (bad patterns) to Build.
type compileChecked interface {
	compileErr() error
}

// StringRule validates string fields.
type StringRule struct {
	minLen  int
	maxLen  int
	pattern *regexp.Regexp
	err     error
}

// String returns a rule accepting any string.
func String() *StringRule { return &StringRule{minLen: -1, maxLen: -1} }

// MinLen requires at least n bytes.
func (r *StringRule) MinLen(n int) *StringRule { r.minLen = n; return r }

// MaxLen allows at most n bytes.
func (r *StringRule) MaxLen(n int) *StringRule { r.maxLen = n; return r }

// Pattern requires the value to match expr. A non-compiling expression is
// reported by Build, not here.
func (r *StringRule) Pattern(expr string) *StringRule {
	re, err := regexp.Compile(expr)
	if err != nil {
		r.err = err
		return r
	}
	r.pattern = re
	return r
}

func (r *StringRule) compileErr() error { return r.err }

func (r *StringRule) check(path string, v any) gokumi.Issues {
	s, ok := v.(string)
	if !ok {
		return typeIssue(path, "string", v)
	}
	var iss gokumi.Issues
	if r.minLen >= 0 && len(s) < r.minLen {
		iss = gokumi.AppendIssues(iss, gokumi.Issue{
			Path: path, Code: gokumi.CodeTooShort, Message: i18n.T(gokumi.CodeTooShort, nil),
			Params: map[string]any{"min": r.minLen, "got": len(s)},
		})
	}
	if r.maxLen >= 0 && len(s) > r.maxLen {
		iss = gokumi.AppendIssues(iss, gokumi.Issue{
			Path: path, Code: gokumi.CodeTooLong, Message: i18n.T(gokumi.CodeTooLong, nil),
			Params: map[string]any{"max": r.maxLen, "got": len(s)},
		})
	}
	if r.pattern != nil && !r.pattern.MatchString(s) {
		iss = gokumi.AppendIssues(iss, gokumi.Issue{
			Path: path, Code: gokumi.CodePattern, Message: i18n.T(gokumi.CodePattern, nil),
			Params: map[string]any{"pattern": r.pattern.String()},
		})
	}
	return iss
}

// NumberRule validates numeric fields. Int() additionally requires an
// integral value, so JSON-decoded float64 numbers still pass when whole.
type NumberRule struct {
	integer  bool
	min, max *float64
}

// Int returns a rule accepting integral numbers.
func Int() *NumberRule { return &NumberRule{integer: true} }

// Float returns a rule accepting any number.
func Float() *NumberRule { return &NumberRule{} }

// Min requires the value to be >= f.
func (r *NumberRule) Min(f float64) *NumberRule { r.min = &f; return r }

// Max requires the value to be <= f.
func (r *NumberRule) Max(f float64) *NumberRule { r.max = &f; return r }

func (r *NumberRule) check(path string, v any) gokumi.Issues {
	f, ok := toFloat(v)
	if !ok {
		return typeIssue(path, "number", v)
	}
	if r.integer && f != float64(int64(f)) {
		return typeIssue(path, "integer", v)
	}
	var iss gokumi.Issues
	if r.min != nil && f < *r.min {
		iss = gokumi.AppendIssues(iss, gokumi.Issue{
			Path: path, Code: gokumi.CodeTooSmall, Message: i18n.T(gokumi.CodeTooSmall, nil),
			Params: map[string]any{"min": *r.min, "got": f},
		})
	}
	if r.max != nil && f > *r.max {
		iss = gokumi.AppendIssues(iss, gokumi.Issue{
			Path: path, Code: gokumi.CodeTooBig, Message: i18n.T(gokumi.CodeTooBig, nil),
			Params: map[string]any{"max": *r.max, "got": f},
		})
	}
	return iss
}

// BoolRule validates boolean fields.
type BoolRule struct{}

// Bool returns a rule accepting booleans.
func Bool() *BoolRule { return &BoolRule{} }

func (r *BoolRule) check(path string, v any) gokumi.Issues {
	if _, ok := v.(bool); !ok {
		return typeIssue(path, "boolean", v)
	}
	return nil
}

// AnyRule accepts every value; it exists to declare a key without constraints.
type AnyRule struct{}

// Any returns a rule accepting everything.
func Any() *AnyRule { return &AnyRule{} }

func (r *AnyRule) check(string, any) gokumi.Issues { return nil }

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func typeIssue(path, expected string, got any) gokumi.Issues {
	return gokumi.Issues{gokumi.Issue{
		Path:    path,
		Code:    gokumi.CodeInvalidType,
		Message: i18n.T(gokumi.CodeInvalidType, map[string]string{"expected": expected}),
		Params:  map[string]any{"expected": expected, "got": fmt.Sprintf("%T", got)},
	}}
}
