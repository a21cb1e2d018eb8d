// Package dive builds the navigation context handed to the topic-condensation
// collaborator when a bubble is clicked.
package dive

import (
	"errors"

	"github.com/bubbledive/sparkmap/internal/graph"
)

// Context is a by-value snapshot of the clicked bubble, its parent, and the
// tree root. It carries display labels, not node identifiers, because it is
// consumed as prompt text outside the core.
type Context struct {
	ClickedLabel   string `json:"clicked_label"`
	ClickedTooltip string `json:"clicked_tooltip"`
	ParentLabel    string `json:"parent_label"`
	ParentTooltip  string `json:"parent_tooltip"`
	RootLabel      string `json:"root_label"`
	RootTooltip    string `json:"root_tooltip"`
}

// Options configures context construction.
type Options struct {
	// BlankRootParent clears the parent fields when the clicked node's
	// parent is the root, avoiding redundancy with the root fields. Off by
	// default.
	BlankRootParent bool
}

// Errors returned by Build.
var (
	// ErrRootClicked means the clicked node is the root; the controller is
	// expected to short-circuit this before calling Build.
	ErrRootClicked = errors.New("cannot dive on the root node")

	// ErrNoRoot means the node list contains no root-flagged node.
	ErrNoRoot = errors.New("graph has no root node")
)

// Build assembles a Context for a clicked non-root node. Root fields come
// from the node flagged as root in nodes; parent fields come from the
// clicked node's own stored parent tags.
func Build(clicked graph.Node, nodes []graph.Node, opts Options) (Context, error) {
	if clicked.IsRoot {
		return Context{}, ErrRootClicked
	}

	var root *graph.Node
	for i := range nodes {
		if nodes[i].IsRoot {
			root = &nodes[i]
			break
		}
	}
	if root == nil {
		return Context{}, ErrNoRoot
	}

	ctx := Context{
		ClickedLabel:   clicked.Label,
		ClickedTooltip: clicked.Tooltip,
		ParentLabel:    clicked.ParentLabel,
		ParentTooltip:  clicked.ParentTooltip,
		RootLabel:      root.Label,
		RootTooltip:    root.Tooltip,
	}

	if opts.BlankRootParent && clicked.ParentID == root.ID {
		ctx.ParentLabel = ""
		ctx.ParentTooltip = ""
	}

	return ctx, nil
}
