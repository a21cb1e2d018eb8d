// Package outline renders a normalized insight tree as an indented
// plain-text outline for export.
package outline

import (
	"iter"
	"strings"

	"github.com/bubbledive/sparkmap/internal/insight"
)

// indent is one level of outline indentation.
const indent = "    "

// Line formats a single outline entry: indentation by level, a dash marker,
// the name, and the tooltip inline after " - " when present.
func Line(name, tooltip string, level int) string {
	var b strings.Builder
	for range level {
		b.WriteString(indent)
	}
	b.WriteString("- ")
	if name == "" {
		name = "Untitled"
	}
	b.WriteString(name)
	if tooltip != "" {
		b.WriteString(" - ")
		b.WriteString(tooltip)
	}
	return b.String()
}

// Lines walks the tree in pre-order and yields one formatted line per node.
// The sequence is finite, deterministic for a given tree, and restartable:
// each iteration walks from the top.
func Lines(root *insight.Node) iter.Seq[string] {
	return func(yield func(string) bool) {
		walk(root, 0, yield)
	}
}

func walk(n *insight.Node, level int, yield func(string) bool) bool {
	if n == nil {
		return true
	}
	if !yield(Line(n.Name, n.Tooltip, level)) {
		return false
	}
	for _, c := range n.Children {
		if !walk(c, level+1, yield) {
			return false
		}
	}
	return true
}

// Render produces the whole outline as a single string with a trailing
// newline per line.
func Render(root *insight.Node) string {
	var b strings.Builder
	for line := range Lines(root) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
