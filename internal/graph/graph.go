// Package graph flattens a normalized insight tree into the node and edge
// lists consumed by layout and export.
package graph

import (
	"fmt"

	"github.com/bubbledive/sparkmap/internal/insight"
)

// Node is a flattened insight. ParentID and the parent display fields are
// empty for the root. IDs are the opaque identifiers assigned during
// normalization; Label is display text and may repeat.
type Node struct {
	ID            string `json:"id"`
	Label         string `json:"label"`
	Tooltip       string `json:"tooltip,omitempty"`
	NodeType      string `json:"type,omitempty"`
	ParentID      string `json:"parent,omitempty"`
	ParentLabel   string `json:"parentLabel,omitempty"`
	ParentTooltip string `json:"parentTooltip,omitempty"`
	IsRoot        bool   `json:"isRoot"`
}

// Edge links a parent node to one of its children.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph holds the flattened tree. Nodes and Edges are in pre-order insertion
// order: root first, then each subtree fully before the next sibling.
// Warnings reports duplicate display labels, which are legal but ambiguous
// for readers.
type Graph struct {
	Nodes    []Node
	Edges    []Edge
	Warnings []string
}

// Flatten walks the tree depth-first in pre-order, emitting one Node per
// insight and one Edge per non-root node. The first node emitted is the root.
func Flatten(root *insight.Node) *Graph {
	g := &Graph{}
	if root == nil {
		return g
	}

	g.flattenNode(root, nil)
	g.detectDuplicateLabels()
	return g
}

func (g *Graph) flattenNode(n *insight.Node, parent *insight.Node) {
	node := Node{
		ID:       n.ID,
		Label:    n.Name,
		Tooltip:  n.Tooltip,
		NodeType: n.Type,
		IsRoot:   parent == nil,
	}
	if parent != nil {
		node.ParentID = parent.ID
		node.ParentLabel = parent.Name
		node.ParentTooltip = parent.Tooltip
		g.Edges = append(g.Edges, Edge{Source: parent.ID, Target: n.ID})
	}
	g.Nodes = append(g.Nodes, node)

	for _, child := range n.Children {
		g.flattenNode(child, n)
	}
}

// detectDuplicateLabels records a warning for every display label shared by
// more than one node.
func (g *Graph) detectDuplicateLabels() {
	seen := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		if first, ok := seen[n.Label]; ok {
			g.Warnings = append(g.Warnings,
				fmt.Sprintf("duplicate label %q (nodes %s and %s)", n.Label, first, n.ID))
			continue
		}
		seen[n.Label] = n.ID
	}
}

// Root returns the root node, or nil for an empty graph.
func (g *Graph) Root() *Node {
	for i := range g.Nodes {
		if g.Nodes[i].IsRoot {
			return &g.Nodes[i]
		}
	}
	return nil
}

// ByID returns the node with the given ID, or nil.
func (g *Graph) ByID(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// IsEmpty returns true if the graph has no nodes.
func (g *Graph) IsEmpty() bool {
	return len(g.Nodes) == 0
}
