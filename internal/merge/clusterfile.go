package merge

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Group is one block of a cluster file: a header line followed by indented
// member lines of the form "<id>" or "<id> (<detail>)".
type Group struct {
	Header  string
	Members []string
	Details []string
}

// WriteGroups writes groups in the indented cluster format.
func WriteGroups(w io.Writer, groups []Group) error {
	bw := bufio.NewWriter(w)
	for _, g := range groups {
		if _, err := fmt.Fprintln(bw, g.Header); err != nil {
			return err
		}
		for i, member := range g.Members {
			line := "\t " + member
			if i < len(g.Details) && g.Details[i] != "" {
				line += " (" + g.Details[i] + ")"
			}
			if _, err := fmt.Fprintln(bw, line); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// ParseGroups reads a possibly hand-edited cluster file. Consecutive
// indented lines form a group; any unindented line starts a new one. Lines
// starting with '#' are ignored. Groups left with fewer than two members
// are dropped.
func ParseGroups(r io.Reader) ([]Group, error) {
	var (
		groups  []Group
		current *Group
	)
	flush := func() {
		if current != nil && len(current.Members) >= 2 {
			groups = append(groups, *current)
		}
		current = nil
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if !unicode.IsSpace(rune(line[0])) {
			flush()
			current = &Group{Header: trimmed}
			continue
		}
		id, detail := splitMember(trimmed)
		if id == "" {
			return nil, fmt.Errorf("cluster file line %d: missing ID", lineNo)
		}
		if current == nil {
			current = &Group{}
		}
		current.Members = append(current.Members, id)
		current.Details = append(current.Details, detail)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read cluster file: %w", err)
	}
	flush()
	return groups, nil
}

func splitMember(text string) (string, string) {
	id, rest, found := strings.Cut(text, " ")
	if !found {
		return id, ""
	}
	rest = strings.TrimSpace(rest)
	rest = strings.TrimPrefix(rest, "(")
	rest = strings.TrimSuffix(rest, ")")
	return id, rest
}

// Requests turns parsed groups into cognate set merge requests. With
// firstIsTarget the first member of each group survives; otherwise the
// engine's rule decides.
func Requests(groups []Group, firstIsTarget bool) []Request {
	out := make([]Request, 0, len(groups))
	for _, g := range groups {
		req := Request{Members: g.Members}
		if firstIsTarget {
			req.Target = g.Members[0]
		}
		out = append(out, req)
	}
	return out
}

// FormRequests turns parsed groups into homophone merge requests.
func FormRequests(groups []Group) []FormRequest {
	out := make([]FormRequest, 0, len(groups))
	for _, g := range groups {
		out = append(out, FormRequest{Members: g.Members, Target: g.Members[0]})
	}
	return out
}
