package dive

import (
	"errors"
	"testing"

	"github.com/bubbledive/sparkmap/internal/graph"
	"github.com/bubbledive/sparkmap/internal/insight"
)

func flattenFixture(t *testing.T) *graph.Graph {
	t.Helper()

	raw := &insight.RawNode{
		Name:    "Evolution",
		Tooltip: "change over generations",
		Children: []*insight.RawNode{
			{Name: "Selection", Tooltip: "differential survival", Children: []*insight.RawNode{
				{Name: "Sexual selection", Tooltip: "mate choice"},
			}},
		},
	}
	return graph.Flatten(insight.Normalize(raw, 120))
}

func TestBuildOnDirectChildOfRoot(t *testing.T) {
	g := flattenFixture(t)
	child := *g.ByID("n2") // Selection

	ctx, err := Build(child, g.Nodes, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if ctx.RootLabel != "Evolution" || ctx.RootTooltip != "change over generations" {
		t.Errorf("root fields = %q / %q", ctx.RootLabel, ctx.RootTooltip)
	}
	if ctx.ClickedLabel != "Selection" || ctx.ClickedTooltip != "differential survival" {
		t.Errorf("clicked fields = %q / %q", ctx.ClickedLabel, ctx.ClickedTooltip)
	}
	// Default policy keeps parent fields even when the parent is the root.
	if ctx.ParentLabel != "Evolution" {
		t.Errorf("parent label = %q, want kept root label", ctx.ParentLabel)
	}
}

func TestBuildBlankRootParentPolicy(t *testing.T) {
	g := flattenFixture(t)

	child := *g.ByID("n2")
	ctx, err := Build(child, g.Nodes, Options{BlankRootParent: true})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if ctx.ParentLabel != "" || ctx.ParentTooltip != "" {
		t.Errorf("parent fields = %q / %q, want blanked", ctx.ParentLabel, ctx.ParentTooltip)
	}

	// Deeper nodes keep their parent fields under either policy.
	leaf := *g.ByID("n3")
	ctx, err = Build(leaf, g.Nodes, Options{BlankRootParent: true})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if ctx.ParentLabel != "Selection" || ctx.ParentTooltip != "differential survival" {
		t.Errorf("leaf parent fields = %q / %q", ctx.ParentLabel, ctx.ParentTooltip)
	}
}

func TestBuildRejectsRoot(t *testing.T) {
	g := flattenFixture(t)

	_, err := Build(*g.Root(), g.Nodes, Options{})
	if !errors.Is(err, ErrRootClicked) {
		t.Errorf("err = %v, want ErrRootClicked", err)
	}
}

func TestBuildNoRoot(t *testing.T) {
	_, err := Build(graph.Node{ID: "n2"}, nil, Options{})
	if !errors.Is(err, ErrNoRoot) {
		t.Errorf("err = %v, want ErrNoRoot", err)
	}
}
