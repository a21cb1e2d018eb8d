package insight

import (
	"fmt"
	"strings"
)

// DefaultMaxTooltipLen is the tooltip truncation budget applied during
// normalization.
const DefaultMaxTooltipLen = 120

// Ellipsis marks truncated text.
const Ellipsis = "..."

// Truncate collapses newlines in text to spaces, trims it, and cuts it to at
// most maxLen characters without breaking mid-word, appending an ellipsis
// marker. A single word longer than maxLen is hard-cut. Truncate is total:
// empty input yields empty output, and re-truncating already-truncated text
// leaves it unchanged.
func Truncate(text string, maxLen int) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	// Already-truncated text fits in the maxLen + marker budget; cutting it
	// again would shorten at the marker's space and break idempotence.
	if strings.HasSuffix(text, Ellipsis) && len(runes) <= maxLen+len(Ellipsis) {
		return text
	}

	cutoff := lastSpaceBefore(runes, maxLen)
	if cutoff > 0 {
		return string(runes[:cutoff]) + Ellipsis
	}
	return string(runes[:maxLen]) + Ellipsis
}

// lastSpaceBefore returns the index of the last space within runes[:limit],
// or -1 if there is none.
func lastSpaceBefore(runes []rune, limit int) int {
	for i := limit - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}

// Normalize converts a raw tree into a normalized tree: tooltips are
// truncated to maxTooltipLen top-down, and every node is assigned an opaque
// identifier in pre-order ("n1", "n2", ...). Missing tooltips and absent
// child lists are handled without error. Pass maxTooltipLen <= 0 to use
// DefaultMaxTooltipLen.
func Normalize(root *RawNode, maxTooltipLen int) *Node {
	if root == nil {
		return nil
	}
	if maxTooltipLen <= 0 {
		maxTooltipLen = DefaultMaxTooltipLen
	}

	counter := 0
	return normalizeNode(root, maxTooltipLen, &counter)
}

func normalizeNode(n *RawNode, maxLen int, counter *int) *Node {
	*counter++
	node := &Node{
		ID:      fmt.Sprintf("n%d", *counter),
		Name:    n.Name,
		Tooltip: Truncate(n.Tooltip, maxLen),
		Type:    n.Type,
	}

	if len(n.Children) == 0 {
		return node
	}

	node.Children = make([]*Node, 0, len(n.Children))
	for _, child := range n.Children {
		if child == nil {
			continue
		}
		node.Children = append(node.Children, normalizeNode(child, maxLen, counter))
	}
	return node
}
