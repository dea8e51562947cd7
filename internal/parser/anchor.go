// Package parser turns Librus Synergia page markup into normalised records.
//
// Every field is located by literal anchor strings taken from the portal's markup
// (labels such as "Kategoria: ", inline colours, URL path segments). When the portal
// changes one of those literals the affected field silently falls back to its sentinel
// value; extraction never fails because a field is missing.
package parser

import (
	"html"
	"strconv"
	"strings"
)

// Anchor locates one field value in a markup fragment: the value starts after every
// prefix, matched in order, and ends at the earliest terminator.
type Anchor struct {
	Prefixes    []string
	Terminators []string
}

// titleEnd terminates values stored inside an escaped title attribute.
var titleEnd = []string{"&lt;", `"`}

func titleAnchor(label string) Anchor {
	return Anchor{Prefixes: []string{label}, Terminators: titleEnd}
}

// Find returns the raw slice for the anchor and whether every prefix was present.
// A missing terminator yields the remainder of the text.
func (a Anchor) Find(text string) (string, bool) {
	rest := text
	for _, prefix := range a.Prefixes {
		idx := strings.Index(rest, prefix)
		if idx < 0 {
			return "", false
		}
		rest = rest[idx+len(prefix):]
	}
	end := len(rest)
	for _, term := range a.Terminators {
		if idx := strings.Index(rest, term); idx >= 0 && idx < end {
			end = idx
		}
	}
	return rest[:end], true
}

// Text returns the unescaped, trimmed value or "" when the anchor is absent.
func (a Anchor) Text(text string) (string, bool) {
	raw, ok := a.Find(text)
	if !ok {
		return "", false
	}
	return clean(raw), true
}

// Int returns the leading integer of the value or -1 when absent or not numeric.
func (a Anchor) Int(text string) (int, bool) {
	raw, ok := a.Find(text)
	if !ok {
		return -1, false
	}
	return leadingInt(raw)
}

func clean(raw string) string {
	return strings.TrimSpace(html.UnescapeString(raw))
}

var breakReplacer = strings.NewReplacer("<br/>", "\n", "<br>", "\n", "<br />", "\n")

// cleanBlock keeps line breaks of multi-line content.
func cleanBlock(raw string) string {
	lines := strings.Split(breakReplacer.Replace(raw), "\n")
	for i, line := range lines {
		lines[i] = clean(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func leadingInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return -1, false
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return -1, false
	}
	return n, true
}
