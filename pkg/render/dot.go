package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/phylo/pkg/pexp"
	"github.com/matzehuels/phylo/pkg/tree"
)

// Options configures diagram generation.
type Options struct {
	// Heights labels internal nodes with their height (depth for
	// unweighted trees).
	Heights bool
}

// ToDOT converts the tree rooted at n to Graphviz DOT source. Node IDs are
// assigned in canonical preorder, so the output depends only on the tree's
// shape, labels and heights.
func ToDOT(n tree.Node, opts Options) (string, error) {
	if !n.Valid() {
		return "", tree.ErrInvalidNode
	}

	var buf bytes.Buffer
	buf.WriteString("digraph T {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=20];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	w := dotWriter{buf: &buf, opts: opts}
	w.node(n)

	if n.Kind() == tree.Metric && len(w.leaves) > 1 {
		fmt.Fprintf(&buf, "\n  { rank=same; %s; }\n", strings.Join(w.leaves, "; "))
	}
	buf.WriteString("}\n")
	return buf.String(), nil
}

type dotWriter struct {
	buf    *bytes.Buffer
	opts   Options
	next   int
	leaves []string
}

func (w *dotWriter) node(n tree.Node) string {
	id := fmt.Sprintf("n%d", w.next)
	w.next++

	fmt.Fprintf(w.buf, "  %s [%s];\n", id, strings.Join(w.attrs(n), ", "))
	if n.IsLeaf() {
		w.leaves = append(w.leaves, id)
		return id
	}
	for _, c := range n.SortedChildren() {
		cid := w.node(c)
		fmt.Fprintf(w.buf, "  %s -> %s;\n", id, cid)
	}
	return id
}

func (w *dotWriter) attrs(n tree.Node) []string {
	if n.IsLeaf() {
		return []string{
			fmt.Sprintf("label=%q", n.Label()),
			"shape=box",
			"style=\"rounded,filled\"",
			"fillcolor=white",
		}
	}
	if !w.opts.Heights {
		return []string{"label=\"\"", "shape=point", "width=0.12"}
	}
	return []string{
		fmt.Sprintf("label=%q", pexp.FormatHeight(n.Height())),
		"shape=circle",
		"fontsize=12",
		"style=filled",
		"fillcolor=lightgrey",
	}
}
