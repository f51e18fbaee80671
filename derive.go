package gokumi

import (
	"reflect"
	"sort"
	"strings"

	"github.com/reoring/gokumi/i18n"
)

// ResolveStructKey applies the repository-wide rule to resolve a struct field's
// external key used by key derivation and Bind.
// Priority: gokumi:"name=..." > json tag name > field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	if gt := sf.Tag.Get("gokumi"); gt != "" {
		parts := strings.Split(gt, ",")
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			return jt[:i]
		}
		return jt
	}
	return sf.Name
}

// resolveKeys fills cfg.Keys according to the configured kind. Explicit keys
// always win. Constructor-backed configs require them unless derivation was
// opted into; derivation probes the constructor with empty fields and
// enumerates the exported struct fields of the result, failing loudly when
// that yields nothing.
func resolveKeys(cfg *Config, explicit []string, derive bool) error {
	if len(explicit) > 0 {
		cfg.Keys = dedupeKeys(explicit)
		if len(cfg.Keys) == 0 {
			return singleIssue(CodeEmptyKeyList, "/", i18n.T(CodeEmptyKeyList, nil))
		}
		return nil
	}
	if len(cfg.Keys) > 0 {
		return nil
	}
	switch cfg.Kind {
	case KindSchemaBacked:
		cfg.Keys = dedupeKeys(cfg.Schema.Keys())
		if len(cfg.Keys) == 0 {
			return Issues{Issue{
				Path:    "/",
				Code:    CodeEmptyKeyList,
				Message: i18n.T(CodeEmptyKeyList, nil),
				Hint:    "schema declares no keys; pass WithKeys to set them explicitly",
			}}
		}
		return nil
	case KindConstructorBacked:
		if !derive {
			return Issues{Issue{
				Path:    "/",
				Code:    CodeKeysRequired,
				Message: i18n.T(CodeKeysRequired, nil),
				Hint:    "constructor-backed builders need WithKeys, or opt into WithDerivedKeys",
			}}
		}
		keys, err := deriveConstructorKeys(cfg.Constructor)
		if err != nil {
			return err
		}
		cfg.Keys = keys
		return nil
	default:
		return singleIssue(CodeEmptyKeyList, "/", i18n.T(CodeEmptyKeyList, nil))
	}
}

// deriveConstructorKeys invokes the constructor with no fields and enumerates
// the exported fields of the produced struct. A constructor that rejects empty
// input, or produces something without enumerable fields, fails with
// keys_required rather than silently yielding an empty key list.
func deriveConstructorKeys(ctor Constructor) ([]string, error) {
	probe, err := ctor(map[string]any{})
	if err != nil {
		return nil, Issues{Issue{
			Path:    "/",
			Code:    CodeKeysRequired,
			Message: i18n.T(CodeKeysRequired, nil),
			Hint:    "constructor rejected an empty probe; pass WithKeys",
			Cause:   err,
		}}
	}
	keys := structKeys(probe)
	if len(keys) == 0 {
		return nil, Issues{Issue{
			Path:    "/",
			Code:    CodeKeysRequired,
			Message: i18n.T(CodeKeysRequired, nil),
			Hint:    "derivation found no exported fields; pass WithKeys",
		}}
	}
	return keys, nil
}

func structKeys(v any) []string {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		rt := rv.Type()
		keys := make([]string, 0, rt.NumField())
		for i := 0; i < rt.NumField(); i++ {
			sf := rt.Field(i)
			if !sf.IsExported() {
				continue
			}
			name := ResolveStructKey(sf)
			if name == "-" || name == "" {
				continue
			}
			keys = append(keys, name)
		}
		return keys
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		keys := make([]string, 0, rv.Len())
		for _, mk := range rv.MapKeys() {
			keys = append(keys, mk.String())
		}
		sort.Strings(keys) // map iteration order is not stable
		return keys
	default:
		return nil
	}
}
