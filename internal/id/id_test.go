package id

import (
	"strings"
	"testing"
)

func TestGenerate_Prefix(t *testing.T) {
	got, err := Generate("tab")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasPrefix(got, "tab-") {
		t.Errorf("expected tab- prefix, got %q", got)
	}
	// prefix + "-" + 21-char nanoid
	if len(got) != len("tab-")+21 {
		t.Errorf("unexpected length %d for %q", len(got), got)
	}
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id, err := Generate("bmk")
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}
