package lattice

import (
	"strings"
	"testing"
)

func TestResolveAtom(t *testing.T) {
	e := newTestEngine(t)

	if got := e.ResolveContentString(e.CanonicalAtom("hello")); got != "hello" {
		t.Errorf("resolve atom = %q, want hello", got)
	}
	if got := e.ResolveContentString(e.CanonicalAtom(42)); got != "42" {
		t.Errorf("resolve numeric atom = %q, want 42", got)
	}
	if got := e.ResolveContentString(e.CanonicalAtom(2.0)); got != "2" {
		t.Errorf("resolve 2.0 = %q, want 2 (no trailing fraction)", got)
	}
}

func TestResolveWrapperPassesThrough(t *testing.T) {
	e := newTestEngine(t)

	top, err := e.IngestSequence([]any{"solo"})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	if got := e.ResolveContentString(top); got != "solo" {
		t.Errorf("wrapper resolve = %q, want solo with no grouping", got)
	}
}

func TestResolveFragment(t *testing.T) {
	e := newTestEngine(t)

	top, err := e.IngestSequence([]any{"the", "quick", "fox"})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	if got := e.ResolveContentString(top); got != "[the quick fox]" {
		t.Errorf("fragment resolve = %q", got)
	}
}

func TestResolveUnknownID(t *testing.T) {
	e := newTestEngine(t)

	got := e.ResolveContentString("https://elsewhere/atoms/ghost-id")
	if got != "[missing:ghost-id]" {
		t.Errorf("unknown id resolve = %q, want [missing:ghost-id]", got)
	}
}

func TestResolveDanglingAfterDelete(t *testing.T) {
	e := newTestEngine(t)

	top, err := e.IngestSequence([]any{"a", "b"})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	e.DeleteNode(e.CanonicalAtom("b"))

	got := e.ResolveContentString(top)
	if !strings.HasPrefix(got, "[a [missing:") {
		t.Errorf("dangling resolve = %q, want a placeholder for the deleted atom", got)
	}
}

func TestResolveDepthLimit(t *testing.T) {
	e := New(
		WithAuthority("https://test.loom"),
		WithResolveDepthLimit(1),
	)

	pair, err := e.IngestSequence([]any{"a", "b"})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	// Nesting comes from ingesting a fragment id as a reference item.
	top, err := e.IngestSequence([]any{pair, "c"})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	got := e.ResolveContentString(top)
	if got != "[[… …] c]" {
		t.Errorf("resolve = %q, want the nested pair cut at the depth limit", got)
	}
}

func TestResolveNestedReference(t *testing.T) {
	e := newTestEngine(t)

	pair, err := e.IngestSequence([]any{"a", "b"})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	top, err := e.IngestSequence([]any{pair, "c"})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	if got := e.ResolveContentString(top); got != "[[a b] c]" {
		t.Errorf("nested resolve = %q, want [[a b] c]", got)
	}
}
