package cognates

import (
	"testing"

	"lexcurate/internal/lexicon"
)

func TestRegistryNextID(t *testing.T) {
	tests := []struct {
		name     string
		scope    Scope
		language string
		concept  string
		want     string
	}{
		{"dataset scope", ScopeDataset, "ache", "fire", "X2_ache"},
		{"concept scope", ScopeConcept, "ache", "Fire", "fire-2"},
		{"concept scope without concept", ScopeConcept, "ache", "", "X2_ache"},
		{"concept scope with blank concept", ScopeConcept, "ache", "  ", "X2_ache"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRegistry(tt.scope, &lexicon.CognateSet{ID: "X1_ache"}, &lexicon.CognateSet{ID: "fire-1"})
			if err != nil {
				t.Fatalf("NewRegistry: %v", err)
			}
			if got := r.NextID(tt.language, tt.concept); got != tt.want {
				t.Fatalf("NextID = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	if _, err := NewRegistry(ScopeDataset, &lexicon.CognateSet{ID: "A"}, &lexicon.CognateSet{ID: "A"}); err == nil {
		t.Fatal("expected duplicate ID error")
	}
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		in      string
		want    Scope
		wantErr bool
	}{
		{"", ScopeDataset, false},
		{"Dataset", ScopeDataset, false},
		{"concept", ScopeConcept, false},
		{"language", "", true},
	}
	for _, tt := range tests {
		got, err := ParseScope(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseScope(%q) = %q, %v", tt.in, got, err)
		}
	}
}
