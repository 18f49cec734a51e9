package logging

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

type infoField struct {
	label string
	value string
}

const (
	infoAttrLimit  = 8
	infoValueLimit = 120
	errorValueMax  = 200
)

// fieldRank orders info fields; unlisted keys follow in record order.
var fieldRank = map[string]int{
	FieldEventType: 1,
	"target":       2,
	"removed":      3,
	"retargeted":   4,
	"changed":      5,
	"cognatesets":  6,
	"judgements":   7,
	"violations":   8,
	"errors":       9,
	"clusters":     10,
	"flags":        11,
	"table":        12,
	"line":         13,
	"error":        14,
	FieldErrorHint: 15,
	FieldImpact:    16,
}

var fieldLabels = map[string]string{
	FieldEventType: "Event",
	FieldErrorHint: "Hint",
	FieldFormID:    "Form",
	"cognatesets":  "Cognate Sets",
	"retargeted":   "Judgements Moved",
}

// selectInfoFields picks the fields shown at info level and counts the ones
// left out. A limit of zero shows everything that is not bookkeeping.
func selectInfoFields(fields []field, limit int) ([]infoField, int) {
	ordered := slices.Clone(fields)
	slices.SortStableFunc(ordered, func(a, b field) int {
		return rankOf(a.key) - rankOf(b.key)
	})

	var shown []infoField
	hidden := 0
	for _, f := range ordered {
		switch f.key {
		case FieldComponent, FieldOperation, FieldCognateSet:
			continue
		}
		value := consoleValue(f.key, f.value)
		if debugOnly(f.key) || (len(value) > infoValueLimit && f.key != "error" && f.key != FieldErrorHint) {
			hidden++
			continue
		}
		if limit > 0 && len(shown) == limit {
			hidden++
			continue
		}
		shown = append(shown, infoField{label: labelFor(f.key), value: value})
	}
	return shown, hidden
}

func rankOf(key string) int {
	if r, ok := fieldRank[key]; ok {
		return r
	}
	return len(fieldRank) + 1
}

// consoleValue renders a field for humans: yes/no for booleans, rounded
// durations, percentages for *_ratio keys and truncated errors.
func consoleValue(key string, v slog.Value) string {
	v = v.Resolve()
	switch {
	case v.Kind() == slog.KindBool:
		if v.Bool() {
			return "yes"
		}
		return "no"
	case v.Kind() == slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case v.Kind() == slog.KindFloat64 && strings.HasSuffix(key, "_ratio"):
		return strconv.FormatFloat(v.Float64()*100, 'f', 1, 64) + "%"
	}
	s := renderValue(v, true)
	if key == "error" {
		s = strings.TrimSpace(s)
		if len(s) > errorValueMax {
			cut := errorValueMax
			for cut > 0 && !utf8.RuneStart(s[cut]) {
				cut--
			}
			s = s[:cut] + "…"
		}
	}
	return s
}

// debugOnly hides paths and run bookkeeping at info level.
func debugOnly(key string) bool {
	switch key {
	case FieldRunID, "path", "url", "metadata":
		return true
	}
	return strings.HasSuffix(key, "_path") || strings.HasSuffix(key, "_dir")
}

func labelFor(key string) string {
	if label, ok := fieldLabels[key]; ok {
		return label
	}
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' || r == '.' })
	for i, p := range parts {
		parts[i] = capitalizeASCII(p)
	}
	return strings.Join(parts, " ")
}

func capitalizeASCII(value string) string {
	if value == "" {
		return ""
	}
	lower := strings.ToLower(value)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
