package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"lexcurate/internal/lexicon"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

const statusLabelWidth = 18

var statusStyles = map[statusKind]struct{ label, color string }{
	statusInfo:  {"INFO", ansiCyan},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

// renderStatusLine formats "  Label:   STATUS message". Only the status word
// is colored so piped output stays aligned.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	status := fmt.Sprintf("%-5s", style.label)
	if colorize {
		status = style.color + status + ansiReset
	}
	line := fmt.Sprintf("  %-*s %s", statusLabelWidth, label+":", status)
	if message != "" {
		line += " " + message
	}
	return line
}

func severityStatus(severity lexicon.Severity) statusKind {
	switch severity {
	case lexicon.SeverityError:
		return statusError
	case lexicon.SeverityWarning:
		return statusWarn
	}
	return statusInfo
}

func writeSection(w io.Writer, title string, colorize bool) {
	title = strings.TrimSpace(title)
	if colorize {
		title = ansiBold + title + ansiReset
	}
	fmt.Fprintf(w, "\n%s\n", title)
}

func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
