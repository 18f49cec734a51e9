package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

// consoleHandler prints a one-line header per record followed by indented
// fields. Info and above show a curated subset of fields; debug shows all of
// them under their raw keys.
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     slog.Leveler
	addSource bool
	preset    []field
	prefix    string
}

type field struct {
	key   string
	value slog.Value
}

func newConsoleHandler(w io.Writer, lvl slog.Leveler, addSource bool) slog.Handler {
	return &consoleHandler{mu: new(sync.Mutex), w: w, level: lvl, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make([]field, 0, len(h.preset)+record.NumAttrs())
	fields = append(fields, h.preset...)
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendField(fields, h.prefix, attr)
		return true
	})
	fields = lastWins(fields)

	var head header
	for _, f := range fields {
		switch f.key {
		case FieldComponent:
			head.component = plainValue(f.value)
		case FieldOperation:
			head.operation = plainValue(f.value)
		case FieldCognateSet:
			head.set = plainValue(f.value)
		}
	}
	head.message = strings.TrimSpace(record.Message)
	if h.addSource {
		if src := record.Source(); src != nil && src.File != "" {
			head.source = sourceLocation(src)
		}
	}

	var buf bytes.Buffer
	buf.WriteString(consoleTime(record.Time))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(record.Level))
	head.write(&buf)
	buf.WriteByte('\n')
	if record.Level < slog.LevelInfo {
		writeDebugFields(&buf, fields)
	} else {
		writeInfoFields(&buf, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.preset = append([]field(nil), h.preset...)
	for _, attr := range attrs {
		next.preset = appendField(next.preset, h.prefix, attr)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

type header struct {
	component string
	operation string
	set       string
	message   string
	source    string
}

func (hd header) write(buf *bytes.Buffer) {
	if hd.component != "" {
		buf.WriteString(" [" + hd.component + "]")
	}
	var subject []string
	if hd.operation != "" {
		subject = append(subject, capitalizeASCII(hd.operation))
	}
	if hd.set != "" {
		subject = append(subject, "set "+hd.set)
	}
	if len(subject) > 0 {
		buf.WriteString(" " + strings.Join(subject, " · "))
	}
	if hd.message != "" {
		buf.WriteString(" – " + hd.message)
	}
	if hd.source != "" {
		buf.WriteString(" [" + hd.source + "]")
	}
}

func writeInfoFields(buf *bytes.Buffer, fields []field) {
	shown, hidden := selectInfoFields(fields, infoAttrLimit)
	for _, f := range shown {
		buf.WriteString("    - " + f.label + ": " + f.value + "\n")
	}
	switch {
	case hidden == 1:
		buf.WriteString("    + 1 more field hidden\n")
	case hidden > 1:
		buf.WriteString("    + " + strconv.Itoa(hidden) + " more fields hidden\n")
	}
}

func writeDebugFields(buf *bytes.Buffer, fields []field) {
	for _, f := range fields {
		buf.WriteString("    " + f.key + ": " + renderValue(f.value, true) + "\n")
	}
}

// appendField flattens groups into dotted keys.
func appendField(dst []field, prefix string, attr slog.Attr) []field {
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	v := attr.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		inner := prefix
		if attr.Key != "" {
			inner = prefix + attr.Key + "."
		}
		for _, a := range v.Group() {
			dst = appendField(dst, inner, a)
		}
		return dst
	}
	if attr.Key == "" {
		return dst
	}
	return append(dst, field{key: prefix + attr.Key, value: v})
}

// lastWins keeps the first position of each key with its latest value.
func lastWins(fields []field) []field {
	if len(fields) < 2 {
		return fields
	}
	pos := make(map[string]int, len(fields))
	out := fields[:0:0]
	for _, f := range fields {
		if i, ok := pos[f.key]; ok {
			out[i].value = f.value
			continue
		}
		pos[f.key] = len(out)
		out = append(out, f)
	}
	return out
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN "
	case level >= slog.LevelInfo:
		return "INFO "
	}
	return "DEBUG"
}
