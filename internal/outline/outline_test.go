package outline

import (
	"strings"
	"testing"

	"github.com/bubbledive/sparkmap/internal/insight"
)

func TestRenderPreOrderLevels(t *testing.T) {
	raw := &insight.RawNode{
		Name: "A",
		Children: []*insight.RawNode{
			{Name: "B"},
			{Name: "C", Children: []*insight.RawNode{{Name: "D"}}},
		},
	}
	root := insight.Normalize(raw, 120)

	got := Render(root)
	want := "- A\n    - B\n    - C\n        - D\n"
	if got != want {
		t.Errorf("Render =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderInlineTooltips(t *testing.T) {
	root := insight.Normalize(&insight.RawNode{
		Name:    "Gravity",
		Tooltip: "mass attracts mass",
		Children: []*insight.RawNode{
			{Name: "Orbits"},
		},
	}, 120)

	lines := strings.Split(strings.TrimRight(Render(root), "\n"), "\n")
	if lines[0] != "- Gravity - mass attracts mass" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "    - Orbits" {
		t.Errorf("line 1 = %q, tooltip-less node must have no separator", lines[1])
	}
}

func TestLinesLazyAndRestartable(t *testing.T) {
	raw := &insight.RawNode{Name: "R", Children: []*insight.RawNode{{Name: "X"}, {Name: "Y"}}}
	root := insight.Normalize(raw, 120)

	var first []string
	for line := range Lines(root) {
		first = append(first, line)
		if len(first) == 2 {
			break
		}
	}
	if len(first) != 2 {
		t.Fatalf("early-terminated iteration got %d lines", len(first))
	}

	var full []string
	for line := range Lines(root) {
		full = append(full, line)
	}
	if len(full) != 3 {
		t.Fatalf("restarted iteration got %d lines, want 3", len(full))
	}
	if full[0] != first[0] || full[1] != first[1] {
		t.Error("restarted iteration should repeat from the top")
	}
}

func TestRenderEmptyAndUntitled(t *testing.T) {
	if got := Render(nil); got != "" {
		t.Errorf("Render(nil) = %q, want empty", got)
	}

	got := Render(&insight.Node{ID: "n1"})
	if got != "- Untitled\n" {
		t.Errorf("Render(unnamed) = %q", got)
	}
}
