package store

import "testing"

func TestNullIfEmpty(t *testing.T) {
	if v := nullIfEmpty(""); v != nil {
		t.Fatalf("empty string -> nil expected, got %v", v)
	}
	if v := nullIfEmpty("x"); v != "x" {
		t.Fatalf("non-empty string should pass through, got %v", v)
	}
}
