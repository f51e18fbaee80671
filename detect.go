package gokumi

import (
	"fmt"

	"github.com/reoring/gokumi/i18n"
)

// Detect classifies input into one of the three builder kinds. It is pure: no
// pool or registry state is touched. Unrecognized inputs fail with
// invalid_input_kind; there is no silent fallback.
func Detect(input any) (Config, error) {
	switch v := input.(type) {
	case Schema:
		return Config{Kind: KindSchemaBacked, Schema: v}, nil
	case Constructor:
		return Config{Kind: KindConstructorBacked, Constructor: v}, nil
	case func(map[string]any) (any, error):
		return Config{Kind: KindConstructorBacked, Constructor: v}, nil
	case []string:
		keys := dedupeKeys(v)
		if len(keys) == 0 {
			return Config{}, Issues{Issue{
				Path:    "/",
				Code:    CodeEmptyKeyList,
				Message: i18n.T(CodeEmptyKeyList, nil),
				Hint:    "a key-list builder needs at least one field name",
			}}
		}
		return Config{Kind: KindKeyListBacked, Keys: keys}, nil
	default:
		return Config{}, Issues{Issue{
			Path:    "/",
			Code:    CodeInvalidInputKind,
			Message: i18n.T(CodeInvalidInputKind, nil),
			Hint:    "expected a gokumi.Schema, a gokumi.Constructor, or a []string key list",
			Params:  map[string]any{"got": fmt.Sprintf("%T", input)},
		}}
	}
}

// dedupeKeys drops duplicates and empty names, keeping first-occurrence order.
func dedupeKeys(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, k := range in {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
