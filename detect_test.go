package gokumi_test

import (
	"context"
	"testing"

	gokumi "github.com/reoring/gokumi"
)

// stubSchema is a minimal Schema capability shared by the root package tests.
type stubSchema struct {
	keys []string
	err  error
}

func (s *stubSchema) Keys() []string { return s.keys }
func (s *stubSchema) Validate(ctx context.Context, fields map[string]any) (map[string]any, error) {
	if s.err != nil {
		return nil, s.err
	}
	return fields, nil
}

func TestDetect_SchemaBacked(t *testing.T) {
	cfg, err := gokumi.Detect(&stubSchema{keys: []string{"a"}})
	if err != nil {
		t.Fatalf("detect err: %v", err)
	}
	if cfg.Kind != gokumi.KindSchemaBacked || cfg.Schema == nil {
		t.Fatalf("expected schema-backed config, got %+v", cfg)
	}
}

func TestDetect_ConstructorBacked(t *testing.T) {
	ctor := func(fields map[string]any) (any, error) { return fields, nil }
	cfg, err := gokumi.Detect(ctor)
	if err != nil {
		t.Fatalf("detect err: %v", err)
	}
	if cfg.Kind != gokumi.KindConstructorBacked || cfg.Constructor == nil {
		t.Fatalf("expected constructor-backed config, got %+v", cfg)
	}

	cfg, err = gokumi.Detect(gokumi.Constructor(ctor))
	if err != nil || cfg.Kind != gokumi.KindConstructorBacked {
		t.Fatalf("expected the named Constructor type to classify too, got %+v err=%v", cfg, err)
	}
}

func TestDetect_KeyListBacked(t *testing.T) {
	cfg, err := gokumi.Detect([]string{"id", "total", "id", ""})
	if err != nil {
		t.Fatalf("detect err: %v", err)
	}
	if cfg.Kind != gokumi.KindKeyListBacked {
		t.Fatalf("expected key-list config, got %+v", cfg)
	}
	if len(cfg.Keys) != 2 || cfg.Keys[0] != "id" || cfg.Keys[1] != "total" {
		t.Fatalf("expected deduped keys in insertion order, got %v", cfg.Keys)
	}
}

func TestDetect_EmptyKeyList(t *testing.T) {
	_, err := gokumi.Detect([]string{})
	iss, ok := gokumi.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != gokumi.CodeEmptyKeyList {
		t.Fatalf("expected empty_key_list, got %v", err)
	}
}

func TestDetect_InvalidInput(t *testing.T) {
	for _, in := range []any{nil, 42, "nope", map[string]any{}} {
		_, err := gokumi.Detect(in)
		iss, ok := gokumi.AsIssues(err)
		if !ok || len(iss) == 0 || iss[0].Code != gokumi.CodeInvalidInputKind {
			t.Fatalf("input %#v: expected invalid_input_kind, got %v", in, err)
		}
	}
}
