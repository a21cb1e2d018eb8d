// Package insight defines the insight tree model and the transforms that
// prepare a raw generated tree for layout and export.
package insight

// RawNode is an insight tree node as produced by the generation collaborator.
// Name is the display label. Tooltip and Type are optional. A node with a
// nil or empty Children slice is a leaf.
type RawNode struct {
	Name     string     `json:"name"`
	Tooltip  string     `json:"tooltip,omitempty"`
	Type     string     `json:"type,omitempty"`
	Children []*RawNode `json:"children,omitempty"`
}

// Node is a normalized insight tree node. Tooltips are truncated and every
// node carries an opaque identifier assigned in pre-order. Identity lives in
// ID; Name is display text only and may repeat across a tree.
type Node struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Tooltip  string  `json:"tooltip,omitempty"`
	Type     string  `json:"type,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// Citation is a source reference attached to a generated map.
type Citation struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet,omitempty"`
}

// CountNodes returns the number of nodes reachable from n, including n.
func CountNodes(n *Node) int {
	if n == nil {
		return 0
	}
	count := 1
	for _, c := range n.Children {
		count += CountNodes(c)
	}
	return count
}
