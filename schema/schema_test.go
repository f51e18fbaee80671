package schema_test

import (
	"context"
	"errors"
	"testing"

	gokumi "github.com/reoring/gokumi"
	"github.com/reoring/gokumi/schema"
)

func TestObject_EmailPattern(t *testing.T) {
	s := schema.Object().
		Field("email", schema.String().Pattern(`^[^@\s]+@[^@\s]+$`)).Required().
		MustBuild()
	ctx := context.Background()

	v, err := s.Validate(ctx, map[string]any{"email": "a@b.com"})
	if err != nil {
		t.Fatalf("validate err: %v", err)
	}
	if v["email"] != "a@b.com" {
		t.Fatalf("unexpected validated value: %v", v)
	}

	_, err = s.Validate(ctx, map[string]any{"email": "not-an-email"})
	iss, ok := gokumi.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected issues, got %v", err)
	}
	if iss[0].Code != gokumi.CodePattern || iss[0].Path != "/email" {
		t.Fatalf("expected pattern at /email, got %+v", iss[0])
	}
}

func TestObject_RequiredAndKeys(t *testing.T) {
	s := schema.Object().
		Field("id", schema.Int()).Required().
		Field("name", schema.String()).
		MustBuild()

	keys := s.Keys()
	if len(keys) != 2 || keys[0] != "id" || keys[1] != "name" {
		t.Fatalf("expected declaration order keys, got %v", keys)
	}

	_, err := s.Validate(context.Background(), map[string]any{"name": "x"})
	iss, ok := gokumi.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != gokumi.CodeRequired || iss[0].Path != "/id" {
		t.Fatalf("expected required at /id, got %v", err)
	}
}

func TestObject_UnknownPolicy(t *testing.T) {
	ctx := context.Background()
	in := map[string]any{"id": 1, "extra": true}

	strict := schema.Object().Field("id", schema.Int()).MustBuild()
	_, err := strict.Validate(ctx, in)
	iss, ok := gokumi.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != gokumi.CodeUnknownKey {
		t.Fatalf("expected unknown_key under strict, got %v", err)
	}

	strip := schema.Object().Field("id", schema.Int()).UnknownStrip().MustBuild()
	v, err := strip.Validate(ctx, in)
	if err != nil {
		t.Fatalf("strip validate err: %v", err)
	}
	if _, ok := v["extra"]; ok {
		t.Fatalf("expected extra stripped, got %v", v)
	}
}

func TestNumberRules(t *testing.T) {
	ctx := context.Background()
	s := schema.Object().
		Field("age", schema.Int().Min(0).Max(150)).
		Field("price", schema.Float().Min(0)).
		MustBuild()

	// JSON decoding yields float64; whole values still count as integers.
	if _, err := s.Validate(ctx, map[string]any{"age": float64(30), "price": 9.5}); err != nil {
		t.Fatalf("validate err: %v", err)
	}

	_, err := s.Validate(ctx, map[string]any{"age": 1.5})
	iss, _ := gokumi.AsIssues(err)
	if len(iss) == 0 || iss[0].Code != gokumi.CodeInvalidType {
		t.Fatalf("expected invalid_type for fractional int, got %v", err)
	}

	_, err = s.Validate(ctx, map[string]any{"age": -1})
	iss, _ = gokumi.AsIssues(err)
	if len(iss) == 0 || iss[0].Code != gokumi.CodeTooSmall {
		t.Fatalf("expected too_small, got %v", err)
	}
}

func TestStringLengthRules(t *testing.T) {
	s := schema.Object().
		Field("code", schema.String().MinLen(2).MaxLen(4)).
		MustBuild()
	ctx := context.Background()

	if _, err := s.Validate(ctx, map[string]any{"code": "abc"}); err != nil {
		t.Fatalf("validate err: %v", err)
	}
	_, err := s.Validate(ctx, map[string]any{"code": "a"})
	iss, _ := gokumi.AsIssues(err)
	if len(iss) == 0 || iss[0].Code != gokumi.CodeTooShort {
		t.Fatalf("expected too_short, got %v", err)
	}
	_, err = s.Validate(ctx, map[string]any{"code": "abcde"})
	iss, _ = gokumi.AsIssues(err)
	if len(iss) == 0 || iss[0].Code != gokumi.CodeTooLong {
		t.Fatalf("expected too_long, got %v", err)
	}
}

func TestBuild_BadPattern(t *testing.T) {
	_, err := schema.Object().
		Field("x", schema.String().Pattern(`([`)).
		Build()
	iss, ok := gokumi.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != gokumi.CodeParseError || iss[0].Path != "/x" {
		t.Fatalf("expected parse_error at /x, got %v", err)
	}
}

func TestValidateAsync_RefineHooks(t *testing.T) {
	ctx := context.Background()
	var seen map[string]any
	s := schema.Object().
		Field("email", schema.String()).Required().
		RefineAsync("email-not-taken", func(ctx context.Context, m map[string]any) error {
			seen = m
			if m["email"] == "taken@b.com" {
				return errors.New("already registered")
			}
			return nil
		}).
		MustBuild()

	as, ok := s.(gokumi.AsyncSchema)
	if !ok {
		t.Fatalf("expected the schema to be async-capable")
	}

	v, err := as.ValidateAsync(ctx, map[string]any{"email": "a@b.com"})
	if err != nil {
		t.Fatalf("validate async err: %v", err)
	}
	if seen == nil || v["email"] != "a@b.com" {
		t.Fatalf("expected the hook to observe the validated value, got %v", v)
	}

	_, err = as.ValidateAsync(ctx, map[string]any{"email": "taken@b.com"})
	iss, ok := gokumi.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != gokumi.CodeBusinessRule {
		t.Fatalf("expected business_rule from the hook, got %v", err)
	}
	if iss[0].Hint != "email-not-taken" {
		t.Fatalf("expected the hook name in the hint, got %+v", iss[0])
	}
}

func TestObject_EndToEndWithBuilder(t *testing.T) {
	m := gokumi.NewManager()
	s := schema.Object().
		Field("email", schema.String().Pattern(`^[^@\s]+@[^@\s]+$`)).Required().
		MustBuild()
	f, err := m.New(s)
	if err != nil {
		t.Fatalf("new err: %v", err)
	}
	ctx := context.Background()

	b := f.Acquire()
	_, err = b.Set("email", "not-an-email").Build(ctx)
	iss, ok := gokumi.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Path != "/email" {
		t.Fatalf("expected a validation error referencing /email, got %v", err)
	}
	b.Release()

	b = f.Acquire()
	defer b.Release()
	v, err := b.Set("email", "a@b.com").Build(ctx)
	if err != nil {
		t.Fatalf("build err: %v", err)
	}
	got, ok := v.(map[string]any)
	if !ok || got["email"] != "a@b.com" || len(got) != 1 {
		t.Fatalf("expected {email: a@b.com}, got %v", v)
	}
}
