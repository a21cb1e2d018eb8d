// Package scene owns the rendered diagram's interaction state: viewport
// pan/zoom, hover tooltips, drag pinning, click navigation, and label
// wrapping. It performs no drawing itself; hosts read its state each frame.
package scene

import "strings"

// Per-line character budgets for node labels. The root bubble is larger and
// fits more characters per line.
const (
	RootWrapChars  = 20
	ChildWrapChars = 15
	MaxLabelLines  = 4
)

// lineEllipsis marks a label cut short by the line budget.
const lineEllipsis = "..."

// Wrap breaks a label into at most maxLines lines of at most maxChars
// characters each, splitting on spaces. A single word longer than maxChars
// is hard-split. When the text exceeds the line budget the last line is
// truncated with an ellipsis marker. Output is deterministic for a given
// label and budgets.
func Wrap(label string, maxChars, maxLines int) []string {
	if maxChars <= 0 || maxLines <= 0 {
		return nil
	}

	words := strings.Fields(label)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
	}

	for _, word := range words {
		// Hard-split words that can never fit on one line.
		for len([]rune(word)) > maxChars {
			flush()
			r := []rune(word)
			lines = append(lines, string(r[:maxChars]))
			word = string(r[maxChars:])
		}
		if word == "" {
			continue
		}

		switch {
		case current.Len() == 0:
			current.WriteString(word)
		case len([]rune(current.String()))+1+len([]rune(word)) <= maxChars:
			current.WriteString(" ")
			current.WriteString(word)
		default:
			flush()
			current.WriteString(word)
		}
	}
	flush()

	if len(lines) <= maxLines {
		return lines
	}

	lines = lines[:maxLines]
	last := []rune(lines[maxLines-1])
	if len(last)+len(lineEllipsis) > maxChars {
		cut := maxChars - len(lineEllipsis)
		if cut < 0 {
			cut = 0
		}
		last = last[:cut]
	}
	lines[maxLines-1] = string(last) + lineEllipsis
	return lines
}

// WrapNodeLabel applies the standard budgets for root and child bubbles.
func WrapNodeLabel(label string, isRoot bool) []string {
	if isRoot {
		return Wrap(label, RootWrapChars, MaxLabelLines)
	}
	return Wrap(label, ChildWrapChars, MaxLabelLines)
}
