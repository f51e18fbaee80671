package gokumi_test

import (
	"fmt"
	"strings"
	"testing"

	gokumi "github.com/reoring/gokumi"
)

func TestIssues_ErrorSummary(t *testing.T) {
	iss := gokumi.Issues{
		{Path: "/a", Code: gokumi.CodeInvalidType},
		{Path: "/b", Code: gokumi.CodeUnknownKey},
		{Path: "/c", Code: gokumi.CodeTooShort},
		{Path: "/d", Code: gokumi.CodeTooLong},
	}
	s := iss.Error()
	if !strings.Contains(s, "invalid_type at /a") {
		t.Fatalf("expected the first issue in the summary, got %q", s)
	}
	if !strings.Contains(s, "total 4") {
		t.Fatalf("expected the overflow count, got %q", s)
	}
}

func TestAsIssues_Wrapped(t *testing.T) {
	iss := gokumi.Issues{{Path: "/", Code: gokumi.CodeRequired}}
	wrapped := fmt.Errorf("build failed: %w", iss)
	got, ok := gokumi.AsIssues(wrapped)
	if !ok || len(got) != 1 || got[0].Code != gokumi.CodeRequired {
		t.Fatalf("expected issues through the wrap, got %v ok=%v", got, ok)
	}
	if _, ok := gokumi.AsIssues(nil); ok {
		t.Fatalf("nil error must not yield issues")
	}
}

func TestAppendIssues_InitializesNil(t *testing.T) {
	var iss gokumi.Issues
	iss = gokumi.AppendIssues(iss, gokumi.Issue{Path: "/", Code: gokumi.CodeRequired})
	if len(iss) != 1 {
		t.Fatalf("expected one issue, got %d", len(iss))
	}
}
