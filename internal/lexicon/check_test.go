package lexicon

import (
	"errors"
	"testing"
)

func TestCheckJudgement(t *testing.T) {
	form := &Form{ID: "F1", Value: "pɔɾ", Segments: []string{"p", "ɔ", "ɾ"}}
	placeholders := NewPlaceholders(DefaultPlaceholders...)

	tests := []struct {
		name      string
		judgement Judgement
		want      Invariant
		ok        bool
	}{
		{"valid full", Judgement{ID: "j1", Alignment: ParseAlignment("p ɔ ɾ -")}, 0, true},
		{"valid partial", Judgement{ID: "j2", Slice: Slice{{1, 3}}, Alignment: ParseAlignment("- ɔ ɾ")}, 0, true},
		{"unaligned", Judgement{ID: "j3", Slice: Slice{{0, 2}}}, 0, true},
		{"stale alignment", Judgement{ID: "j4", Alignment: ParseAlignment("p ɔ -")}, InvariantSegmentCount, false},
		{"content differs", Judgement{ID: "j5", Alignment: ParseAlignment("p o ɾ")}, InvariantContent, false},
		{"out of range", Judgement{ID: "j6", Slice: Slice{{2, 5}}}, InvariantSliceRange, false},
		{"unparsable", Judgement{ID: "j7", RawSlice: "3:1"}, InvariantSliceRange, false},
		{"unparsable with alignment", Judgement{ID: "j8", RawSlice: "x:y", Alignment: ParseAlignment("p ɔ ɾ")}, InvariantSliceRange, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := tt.judgement
			err := CheckJudgement(&j, form, placeholders)
			if tt.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected %s violation", tt.want)
			}
			if err.Invariant != tt.want {
				t.Fatalf("got invariant %s, want %s", err.Invariant, tt.want)
			}
		})
	}
}

func TestCheckJudgementRejectsPlaceholderForm(t *testing.T) {
	form := &Form{ID: "F2", Value: "-"}
	err := CheckJudgement(&Judgement{ID: "j", FormID: "F2"}, form, NewPlaceholders("-"))
	if err == nil || err.Invariant != InvariantPlaceholder {
		t.Fatalf("expected placeholder violation, got %v", err)
	}
	var consistency *ConsistencyError
	if !errors.As(error(err), &consistency) || Kind(err) != "consistency" {
		t.Fatalf("expected classified consistency error, got %v", err)
	}
}

func TestNormalizeComposesDiacritics(t *testing.T) {
	decomposed := "a\u0303"
	if got := Normalize(decomposed); got != "\u00e3" {
		t.Fatalf("Normalize(%q) = %q, want %q", decomposed, got, "\u00e3")
	}
	if !EqualTokens([]string{decomposed}, []string{"\u00e3"}) {
		t.Fatal("expected tokens to compare equal after normalization")
	}
}
