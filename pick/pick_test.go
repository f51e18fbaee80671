package pick_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	gokumi "github.com/reoring/gokumi"
	"github.com/reoring/gokumi/pick"
)

func TestPick_FromMap(t *testing.T) {
	pick.ClearCache()
	src := map[string]any{
		"id":    1,
		"total": 99.99,
		"buyer": map[string]any{"name": "ada", "email": "a@b.com"},
	}
	got, err := pick.Pick(src, "id", "buyer.email")
	if err != nil {
		t.Fatalf("pick err: %v", err)
	}
	want := map[string]any{
		"id":    1,
		"buyer": map[string]any{"email": "a@b.com"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("projection mismatch (-want +got):\n%s", diff)
	}
}

type invoice struct {
	ID    int     `json:"id"`
	Total float64 `json:"total"`
	Note  string  `json:"note"`
}

func TestPick_FromStruct(t *testing.T) {
	pick.ClearCache()
	got, err := pick.Pick(invoice{ID: 7, Total: 12.5, Note: "x"}, "id", "total")
	if err != nil {
		t.Fatalf("pick err: %v", err)
	}
	// numbers go through JSON normalization
	want := map[string]any{"id": float64(7), "total": 12.5}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("projection mismatch (-want +got):\n%s", diff)
	}
}

func TestPick_MissingPathsOmitted(t *testing.T) {
	pick.ClearCache()
	got, err := pick.Pick(map[string]any{"a": 1}, "a", "b", "a.nested")
	if err != nil {
		t.Fatalf("pick err: %v", err)
	}
	want := map[string]any{"a": 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("expected absent paths omitted (-want +got):\n%s", diff)
	}
}

func TestCompile_CanonicalSharing(t *testing.T) {
	pick.ClearCache()
	e1, err := pick.Compile("b", "a.c", "a.c") // duplicates collapse
	if err != nil {
		t.Fatalf("compile err: %v", err)
	}
	e2, err := pick.Compile("a.c", "b") // order-insensitive
	if err != nil {
		t.Fatalf("compile err: %v", err)
	}
	if e1 != e2 {
		t.Fatalf("expected structurally equal path sets to share one extractor")
	}
	if pick.CacheLen() != 1 {
		t.Fatalf("expected one cache entry, got %d", pick.CacheLen())
	}
	want := []string{"a.c", "b"}
	if diff := cmp.Diff(want, e1.Paths()); diff != "" {
		t.Fatalf("canonical paths mismatch (-want +got):\n%s", diff)
	}
}

func TestCache_EvictsOldest(t *testing.T) {
	pick.ClearCache()
	pick.ResizeCache(2)
	defer pick.ResizeCache(pick.DefaultCacheSize)

	a, _ := pick.Compile("a")
	if _, err := pick.Compile("b"); err != nil {
		t.Fatalf("compile err: %v", err)
	}
	if _, err := pick.Compile("c"); err != nil { // evicts "a", the oldest-accessed
		t.Fatalf("compile err: %v", err)
	}
	if pick.CacheLen() != 2 {
		t.Fatalf("expected the cache bounded at 2, got %d", pick.CacheLen())
	}
	a2, _ := pick.Compile("a")
	if a2 == a {
		t.Fatalf("expected a recompiled extractor after eviction")
	}
}

func TestCompile_Errors(t *testing.T) {
	_, err := pick.Compile()
	iss, ok := gokumi.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != gokumi.CodeEmptyKeyList {
		t.Fatalf("expected empty_key_list, got %v", err)
	}

	_, err = pick.Compile("a..b")
	iss, ok = gokumi.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != gokumi.CodeParseError {
		t.Fatalf("expected parse_error for empty segment, got %v", err)
	}
}

func TestPick_NonObjectSource(t *testing.T) {
	pick.ClearCache()
	_, err := pick.Pick(42, "a")
	iss, ok := gokumi.AsIssues(err)
	if !ok || len(iss) == 0 || iss[0].Code != gokumi.CodeInvalidType {
		t.Fatalf("expected invalid_type for a non-object source, got %v", err)
	}
}
