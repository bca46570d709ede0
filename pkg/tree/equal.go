package tree

import (
	"cmp"
	"slices"
)

// Equal reports whether the subtrees rooted at a and b are isomorphic as
// unordered trees: same variant, same labels, same heights, and children that
// pair up one-to-one. Children are paired by their smallest leaf label, so
// child order never matters. Nodes may live in different forests.
func Equal(a, b Node) bool {
	if !a.Valid() || !b.Valid() {
		return false
	}
	if a.f.kind != b.f.kind {
		return false
	}
	return equalNodes(a, b)
}

func equalNodes(a, b Node) bool {
	if a.Label() != b.Label() || a.Height() != b.Height() {
		return false
	}
	if a.IsLeaf() || b.IsLeaf() {
		return a.IsLeaf() && b.IsLeaf()
	}
	if a.NumChildren() != b.NumChildren() {
		return false
	}
	if !slices.Equal(a.LeafLabels(), b.LeafLabels()) {
		return false
	}
	ac, bc := sortedChildren(a), sortedChildren(b)
	for i := range ac {
		if !equalNodes(ac[i], bc[i]) {
			return false
		}
	}
	return true
}

// sortedChildren orders n's children by smallest leaf label.
func sortedChildren(n Node) []Node {
	children := n.Children()
	slices.SortStableFunc(children, func(x, y Node) int {
		return cmp.Compare(x.FirstLeaf(), y.FirstLeaf())
	})
	return children
}

// SortedChildren returns n's children ordered by their smallest leaf label.
// This is the canonical child order used by Equal and by text renderers.
func (n Node) SortedChildren() []Node {
	if !n.Valid() {
		return nil
	}
	return sortedChildren(n)
}
