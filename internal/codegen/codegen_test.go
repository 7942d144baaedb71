package codegen

import (
	"strings"
	"testing"
)

func TestGenerateShape(t *testing.T) {
	code := Generate(4)
	parts := strings.Split(code, "-")
	if len(parts) != 4 {
		t.Fatalf("expected 4 groups, got %d in %q", len(parts), code)
	}
	for _, part := range parts {
		if len(part) != 4 {
			t.Errorf("expected group of 4 chars, got %q", part)
		}
		for _, c := range part {
			if !strings.ContainsRune(alphabet, c) {
				t.Errorf("unexpected character %q in %q", c, code)
			}
		}
	}
}

func TestGenerateDefaultsGroups(t *testing.T) {
	code := Generate(0)
	if len(strings.Split(code, "-")) != 4 {
		t.Errorf("expected default of 4 groups, got %q", code)
	}
}

func TestGenerateVaries(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[Generate(4)] = true
	}
	if len(seen) < 50 {
		t.Errorf("expected 50 distinct codes, got %d", len(seen))
	}
}
