package lexicon

import (
	"reflect"
	"testing"
)

func TestParseSliceText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Slice
		wantErr bool
	}{
		{"single range", "0:2", Slice{{0, 2}}, false},
		{"bare index", "3", Slice{{3, 4}}, false},
		{"non contiguous", "0:1,3:5", Slice{{0, 1}, {3, 5}}, false},
		{"spaces", " 1:2 , 2:3 ", Slice{{1, 2}, {2, 3}}, false},
		{"empty", "", nil, false},
		{"reversed", "3:1", nil, true},
		{"garbage", "a:b", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSliceText(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSliceText(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseSliceText(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSliceValidate(t *testing.T) {
	if err := (Slice{{0, 2}, {2, 3}}).Validate(3); err != nil {
		t.Fatalf("expected valid slice, got %v", err)
	}
	if err := (Slice{{1, 4}}).Validate(3); err == nil {
		t.Fatal("expected out of range error")
	}
	if err := (Slice{{0, 2}, {1, 3}}).Validate(3); err == nil {
		t.Fatal("expected overlap error")
	}
}

func TestSliceRoundTripThroughIndices(t *testing.T) {
	s := Slice{{0, 2}, {4, 5}}
	got := SliceFromIndices(s.Indices())
	if !reflect.DeepEqual(got, s) {
		t.Fatalf("SliceFromIndices(Indices()) = %v, want %v", got, s)
	}
	if got.String() != "0:2,4:5" {
		t.Fatalf("unexpected string form %q", got.String())
	}
	if s.Contiguous() {
		t.Fatal("expected non-contiguous slice")
	}
}

func TestSliceIntersect(t *testing.T) {
	a := Slice{{0, 2}}
	b := Slice{{1, 3}}
	if got := a.Intersect(b); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("Intersect = %v, want [1]", got)
	}
}

func TestResolveUsesWholeFormForEmptySlice(t *testing.T) {
	segments := []string{"p", "ɔ", "ɾ"}
	got, err := Slice(nil).Resolve(segments)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !reflect.DeepEqual(got, segments) {
		t.Fatalf("Resolve = %v, want %v", got, segments)
	}
}
