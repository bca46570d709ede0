package pexp

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/phylo/pkg/tree"
)

// Render writes the canonical expression of the tree rooted at n. Children
// are ordered by their smallest leaf label, then by text. With includeHeight
// every internal node is followed by ':height'; unweighted trees print their
// depth. Without it no height is printed at any level.
//
// Render fails with ErrHeightOrder when includeHeight is set and a metric
// child is not strictly below its parent, and with tree.ErrInvalidLabel for
// a childless node without a label. Neither could be read back.
func Render(n tree.Node, includeHeight bool) (string, error) {
	if !n.Valid() {
		return "", tree.ErrInvalidNode
	}
	return renderNode(n, includeHeight && n.Kind() == tree.Metric, includeHeight)
}

// renderedChild pairs a subtree's text with its sort key.
type renderedChild struct {
	first string
	text  string
}

func renderNode(n tree.Node, strict, includeHeight bool) (string, error) {
	if n.IsLeaf() {
		if n.Label() == "" {
			return "", fmt.Errorf("%w: childless node at height %s", tree.ErrInvalidLabel, FormatHeight(n.Height()))
		}
		return n.Label(), nil
	}
	children := n.Children()
	parts := make([]renderedChild, len(children))
	for i, c := range children {
		if strict && c.Height() >= n.Height() {
			return "", fmt.Errorf("%w: node at %s is not above child at %s",
				ErrHeightOrder, FormatHeight(n.Height()), FormatHeight(c.Height()))
		}
		text, err := renderNode(c, strict, includeHeight)
		if err != nil {
			return "", err
		}
		parts[i] = renderedChild{first: c.FirstLeaf(), text: text}
	}
	return join(parts, n.Height(), includeHeight), nil
}

// FormatHeight prints h in the shortest form that parses back to h.
func FormatHeight(h float64) string {
	return strconv.FormatFloat(h, 'g', -1, 64)
}
