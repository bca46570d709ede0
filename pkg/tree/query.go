package tree

import (
	"cmp"
	"slices"
)

// Leaves returns every leaf in the subtree rooted at n, sorted by label.
// A leaf returns itself.
func (n Node) Leaves() []Node {
	if !n.Valid() {
		return nil
	}
	var out []Node
	n.f.collectLeaves(n.id, &out)
	slices.SortFunc(out, func(a, b Node) int { return cmp.Compare(a.rec().label, b.rec().label) })
	return out
}

func (f *Forest) collectLeaves(id int32, out *[]Node) {
	r := &f.nodes[id]
	if len(r.children) == 0 {
		*out = append(*out, f.handle(id))
		return
	}
	for _, c := range r.children {
		f.collectLeaves(c, out)
	}
}

// LeafLabels returns the sorted labels of the leaves below n.
func (n Node) LeafLabels() []string {
	leaves := n.Leaves()
	labels := make([]string, len(leaves))
	for i, l := range leaves {
		labels[i] = l.rec().label
	}
	return labels
}

// NumLeaves returns the number of leaves below n.
func (n Node) NumLeaves() int {
	if !n.Valid() {
		return 0
	}
	return n.f.countLeaves(n.id)
}

func (f *Forest) countLeaves(id int32) int {
	r := &f.nodes[id]
	if len(r.children) == 0 {
		return 1
	}
	total := 0
	for _, c := range r.children {
		total += f.countLeaves(c)
	}
	return total
}

// FirstLeaf returns the lexicographically smallest leaf label below n.
func (n Node) FirstLeaf() string {
	if !n.Valid() {
		return ""
	}
	return n.f.firstLeaf(n.id)
}

func (f *Forest) firstLeaf(id int32) string {
	r := &f.nodes[id]
	if len(r.children) == 0 {
		return r.label
	}
	first := f.firstLeaf(r.children[0])
	for _, c := range r.children[1:] {
		first = min(first, f.firstLeaf(c))
	}
	return first
}

// HasLeaf reports whether a leaf with the given label lies below n.
func (n Node) HasLeaf(label string) bool {
	if !n.Valid() {
		return false
	}
	_, ok := n.f.findLeaf(n.id, label)
	return ok
}

// FindLeaf returns the leaf labelled label below n.
func (n Node) FindLeaf(label string) (Node, bool) {
	if !n.Valid() {
		return Node{}, false
	}
	id, ok := n.f.findLeaf(n.id, label)
	if !ok {
		return Node{}, false
	}
	return n.f.handle(id), true
}

func (f *Forest) findLeaf(id int32, label string) (int32, bool) {
	r := &f.nodes[id]
	if len(r.children) == 0 {
		return id, r.label == label
	}
	for _, c := range r.children {
		if found, ok := f.findLeaf(c, label); ok {
			return found, true
		}
	}
	return 0, false
}

// CommonAncestor returns the lowest node at or above n whose leaves include
// every label in labels. Labels are matched against leaf labels only. When no
// such node exists, for instance because a label is absent from the tree, the
// zero Node is returned with a nil error.
func (n Node) CommonAncestor(labels ...string) (Node, error) {
	if !n.Valid() {
		return Node{}, ErrInvalidNode
	}
	if len(labels) == 0 {
		return Node{}, ErrNoTargets
	}
	want := make(map[string]bool, len(labels))
	for _, l := range labels {
		want[l] = true
	}
	for a := n; !a.IsZero(); a = a.Parent() {
		if coversLabels(a, want) {
			return a, nil
		}
	}
	return Node{}, nil
}

func coversLabels(a Node, want map[string]bool) bool {
	found := 0
	for _, l := range a.LeafLabels() {
		if want[l] {
			found++
		}
	}
	return found == len(want)
}

// CommonAncestorOf returns the lowest node at or above n that is an ancestor
// of (or equal to) every node in nodes. The zero Node is returned when the
// targets are not all in n's tree.
func (n Node) CommonAncestorOf(nodes ...Node) (Node, error) {
	if !n.Valid() {
		return Node{}, ErrInvalidNode
	}
	if len(nodes) == 0 {
		return Node{}, ErrNoTargets
	}
	for _, t := range nodes {
		if err := sameForest(n, t); err != nil {
			return Node{}, err
		}
	}
	for a := n; !a.IsZero(); a = a.Parent() {
		all := true
		for _, t := range nodes {
			if !a.IsAncestorOf(t) {
				all = false
				break
			}
		}
		if all {
			return a, nil
		}
	}
	return Node{}, nil
}

// IsAncestorOf reports whether n lies on the path from m up to its root,
// counting m itself.
func (n Node) IsAncestorOf(m Node) bool {
	if !n.Valid() || !m.Valid() || n.f != m.f {
		return false
	}
	for id := m.id; id != noParent; id = n.f.nodes[id].parent {
		if id == n.id {
			return true
		}
	}
	return false
}

// Walk calls fn for n and every descendant in depth-first pre-order. Returning
// false from fn skips that node's children.
func (n Node) Walk(fn func(Node) bool) {
	if !n.Valid() {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		c.Walk(fn)
	}
}
