package lexicon

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SliceSeparator joins the ranges of a slice inside one table cell.
const SliceSeparator = ","

// Range is a half-open interval [Start, End) of segment indices.
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices covered by the range.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

func (r Range) String() string {
	return strconv.Itoa(r.Start) + ":" + strconv.Itoa(r.End)
}

// Slice addresses a possibly non-contiguous subset of a form's segments. An
// empty slice addresses the whole form.
type Slice []Range

// ParseRange parses "start:end". A bare index "i" is read as "i:i+1".
func ParseRange(text string) (Range, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Range{}, fmt.Errorf("empty segment range")
	}
	startText, endText, found := strings.Cut(text, ":")
	start, err := strconv.Atoi(strings.TrimSpace(startText))
	if err != nil {
		return Range{}, fmt.Errorf("segment range %q: invalid start: %w", text, err)
	}
	if !found {
		return Range{Start: start, End: start + 1}, nil
	}
	end, err := strconv.Atoi(strings.TrimSpace(endText))
	if err != nil {
		return Range{}, fmt.Errorf("segment range %q: invalid end: %w", text, err)
	}
	if end <= start {
		return Range{}, fmt.Errorf("segment range %q: end must be greater than start", text)
	}
	if start < 0 {
		return Range{}, fmt.Errorf("segment range %q: negative start", text)
	}
	return Range{Start: start, End: end}, nil
}

// ParseSlice parses the ranges of one slice cell that has already been split
// on its separator.
func ParseSlice(parts []string) (Slice, error) {
	var s Slice
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		r, err := ParseRange(part)
		if err != nil {
			return nil, err
		}
		s = append(s, r)
	}
	return s, nil
}

// ParseSliceText splits text on SliceSeparator and parses the ranges.
func ParseSliceText(text string) (Slice, error) {
	return ParseSlice(strings.Split(text, SliceSeparator))
}

// FullSlice addresses all n segments of a form.
func FullSlice(n int) Slice {
	if n <= 0 {
		return nil
	}
	return Slice{{Start: 0, End: n}}
}

// SliceFromIndices groups sorted-or-not indices into maximal runs, keeping
// the order in which runs first appear.
func SliceFromIndices(indices []int) Slice {
	var s Slice
	for _, i := range indices {
		if n := len(s); n > 0 && s[n-1].End == i {
			s[n-1].End = i + 1
			continue
		}
		s = append(s, Range{Start: i, End: i + 1})
	}
	return s
}

// Effective returns the slice itself, or the full slice over n segments when
// it is empty.
func (s Slice) Effective(n int) Slice {
	if len(s) == 0 {
		return FullSlice(n)
	}
	return s
}

// Len returns the total number of addressed segments.
func (s Slice) Len() int {
	total := 0
	for _, r := range s {
		total += r.Len()
	}
	return total
}

// Indices lists the addressed indices in range order.
func (s Slice) Indices() []int {
	out := make([]int, 0, s.Len())
	for _, r := range s {
		for i := r.Start; i < r.End; i++ {
			out = append(out, i)
		}
	}
	return out
}

// IndexSet returns the addressed indices as a set.
func (s Slice) IndexSet() map[int]struct{} {
	set := make(map[int]struct{}, s.Len())
	for _, r := range s {
		for i := r.Start; i < r.End; i++ {
			set[i] = struct{}{}
		}
	}
	return set
}

// Intersect returns the sorted indices addressed by both slices.
func (s Slice) Intersect(other Slice) []int {
	mine := s.IndexSet()
	var shared []int
	for i := range other.IndexSet() {
		if _, ok := mine[i]; ok {
			shared = append(shared, i)
		}
	}
	sort.Ints(shared)
	return shared
}

// Contiguous reports whether the slice addresses a single unbroken run.
func (s Slice) Contiguous() bool {
	for i := 1; i < len(s); i++ {
		if s[i].Start != s[i-1].End {
			return false
		}
	}
	return true
}

// Validate checks that every range lies within [0, n) and that the ranges do
// not overlap each other.
func (s Slice) Validate(n int) error {
	for _, r := range s {
		if r.Start < 0 || r.End <= r.Start {
			return fmt.Errorf("segment range %s is empty or negative", r)
		}
		if r.End > n {
			return fmt.Errorf("segment range %s exceeds the form's %d segments", r, n)
		}
	}
	sorted := make(Slice, len(s))
	copy(sorted, s)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start < sorted[i-1].End {
			return fmt.Errorf("segment ranges %s and %s overlap", sorted[i-1], sorted[i])
		}
	}
	return nil
}

// Resolve returns the segments addressed by the slice, in range order.
func (s Slice) Resolve(segments []string) ([]string, error) {
	effective := s.Effective(len(segments))
	if err := effective.Validate(len(segments)); err != nil {
		return nil, err
	}
	out := make([]string, 0, effective.Len())
	for _, i := range effective.Indices() {
		out = append(out, segments[i])
	}
	return out, nil
}

// Strings renders each range as "start:end".
func (s Slice) Strings() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = r.String()
	}
	return out
}

func (s Slice) String() string {
	return strings.Join(s.Strings(), SliceSeparator)
}

// Clone returns an independent copy.
func (s Slice) Clone() Slice {
	if s == nil {
		return nil
	}
	out := make(Slice, len(s))
	copy(out, s)
	return out
}
