package typeid

import (
	"strings"
	"testing"
)

func TestNewIDsCarryPrefix(t *testing.T) {
	tests := []struct {
		name   string
		gen    func() string
		prefix string
	}{
		{"shape", NewShapeID, PrefixShape},
		{"feature", NewFeatureID, PrefixFeature},
		{"session", NewSessionID, PrefixSession},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := tt.gen()
			if !strings.HasPrefix(id, tt.prefix+"_") {
				t.Fatalf("id %q does not start with %q", id, tt.prefix+"_")
			}
			if err := Validate(id, tt.prefix); err != nil {
				t.Fatalf("Validate(%q): %v", id, err)
			}
		})
	}
}

func TestNewIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewShapeID()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestValidateRejectsWrongPrefix(t *testing.T) {
	id := NewShapeID()
	if err := Validate(id, PrefixFeature); err == nil {
		t.Fatalf("expected prefix mismatch error for %q", id)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if err := Validate("not an id", PrefixShape); err == nil {
		t.Fatal("expected parse error")
	}
}
