package merge

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"lexcurate/internal/lexicon"
)

// Policy folds the values of one column, survivor first, into one value.
type Policy func(values [][]string) ([]string, error)

// Policy names.
const (
	PolicyConcatenate   = "concatenate"
	PolicyUnion         = "union"
	PolicyFirstNonEmpty = "first_nonempty"
	PolicyKeepTarget    = "keep_target"
	PolicyMustBeEqual   = "must_be_equal"
)

var policies = map[string]Policy{
	PolicyConcatenate:   concatenate,
	PolicyUnion:         union,
	PolicyFirstNonEmpty: firstNonEmpty,
	PolicyKeepTarget:    keepTarget,
	PolicyMustBeEqual:   mustBeEqual,
}

// PolicyNames lists the registered policies.
func PolicyNames() []string {
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupPolicy returns a registered policy.
func LookupPolicy(name string) (Policy, error) {
	p, ok := policies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown merge policy %q (known: %s)", name, strings.Join(PolicyNames(), ", "))
	}
	return p, nil
}

// Policies maps column names to policy names. Columns without an entry use
// first_nonempty.
type Policies map[string]string

// DefaultCognateSetPolicies folds comments and sources, keeping the first
// value everywhere else.
func DefaultCognateSetPolicies() Policies {
	return Policies{
		lexicon.ColumnComment: PolicyConcatenate,
		lexicon.ColumnSource:  PolicyUnion,
	}
}

// DefaultFormPolicies is used for homophone merges.
func DefaultFormPolicies() Policies {
	return Policies{
		lexicon.ColumnConcepts: PolicyUnion,
		lexicon.ColumnComment:  PolicyConcatenate,
		lexicon.ColumnSource:   PolicyUnion,
	}
}

// Validate checks that every named policy exists.
func (p Policies) Validate() error {
	for column, name := range p {
		if _, err := LookupPolicy(name); err != nil {
			return fmt.Errorf("column %q: %w", column, err)
		}
	}
	return nil
}

func (p Policies) lookup(column string) Policy {
	name, ok := p[column]
	if !ok {
		name, ok = p[strings.ToLower(column)]
	}
	if !ok {
		return firstNonEmpty
	}
	policy, err := LookupPolicy(name)
	if err != nil {
		return firstNonEmpty
	}
	return policy
}

func nonEmpty(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

func concatenate(values [][]string) ([]string, error) {
	var out []string
	for _, v := range values {
		for _, item := range v {
			if strings.TrimSpace(item) != "" {
				out = append(out, item)
			}
		}
	}
	return out, nil
}

// union splits folded text on the list separator and keeps the first
// occurrence of every item.
func union(values [][]string) ([]string, error) {
	var out []string
	for _, v := range values {
		for _, item := range v {
			for _, part := range strings.Split(item, strings.TrimSpace(lexicon.ListSeparator)) {
				part = strings.TrimSpace(part)
				if part != "" && !slices.Contains(out, part) {
					out = append(out, part)
				}
			}
		}
	}
	return out, nil
}

func firstNonEmpty(values [][]string) ([]string, error) {
	for _, v := range values {
		if nonEmpty(v) {
			return slices.Clone(v), nil
		}
	}
	return nil, nil
}

func keepTarget(values [][]string) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	return slices.Clone(values[0]), nil
}

func mustBeEqual(values [][]string) ([]string, error) {
	var first []string
	found := false
	for _, v := range values {
		if !nonEmpty(v) {
			continue
		}
		if !found {
			first, found = v, true
			continue
		}
		if !slices.Equal(first, v) {
			return nil, fmt.Errorf("values differ: %q and %q", strings.Join(first, lexicon.ListSeparator), strings.Join(v, lexicon.ListSeparator))
		}
	}
	return slices.Clone(first), nil
}
