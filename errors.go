package gokumi

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Configuration/classification failures raised by New/NewAsync.
	CodeInvalidInputKind = "invalid_input_kind"
	CodeEmptyKeyList     = "empty_key_list"
	CodeKeysRequired     = "keys_required"
	// Capability failures raised at build time.
	CodeMissingSchema      = "missing_schema"
	CodeMissingConstructor = "missing_constructor"
	CodeUnknownKey         = "unknown_key"
	// Validation codes surfaced by schema capabilities (see the schema package).
	CodeInvalidType = "invalid_type"
	CodeRequired    = "required"
	CodePattern     = "pattern"
	CodeTooSmall    = "too_small"
	CodeTooBig      = "too_big"
	CodeTooShort    = "too_short"
	CodeTooLong     = "too_long"
	CodeParseError  = "parse_error"
	// Business semantics from refine hooks.
	CodeBusinessRule = "business_rule"
)

// Issue represents a single builder or validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /email).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, expected kinds, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "got":42})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of builder/validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func singleIssue(code, path, msg string) Issues {
	return Issues{Issue{Path: path, Code: code, Message: msg}}
}
