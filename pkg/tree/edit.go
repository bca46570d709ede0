package tree

import "fmt"

// Link attaches the detached node child under parent. Both nodes must belong
// to the same forest. In a metric forest the child's height must not exceed
// the parent's, and a leaf child needs a parent strictly above zero. No label
// of the child's subtree may already be a leaf of the parent's tree.
func Link(parent, child Node) error {
	if err := sameForest(parent, child); err != nil {
		return err
	}
	f := parent.f
	if child.rec().parent != noParent {
		return ErrAttached
	}
	if parent.rec().label != "" {
		return ErrLabeledParent
	}
	if parent.Root() == child {
		return ErrCycle
	}
	if err := f.checkHeights(parent.rec().height, child); err != nil {
		return err
	}
	if err := f.checkDisjoint(parent.Root().id, child.id); err != nil {
		return err
	}
	f.attach(parent.id, child.id)
	return nil
}

// Unlink detaches child from parent. Both nodes stay in the forest.
func Unlink(parent, child Node) error {
	if err := sameForest(parent, child); err != nil {
		return err
	}
	if child.rec().parent != parent.id {
		return ErrNotChild
	}
	parent.f.detach(parent.id, child.id)
	return nil
}

func sameForest(a, b Node) error {
	if !a.Valid() || !b.Valid() {
		return ErrInvalidNode
	}
	return a.f.owns(b)
}

// Cut detaches the subtree rooted at n from its parent. It returns n, now a
// root, and the root of the tree n was removed from. For a node that is
// already a root, rest is the zero Node.
func (n Node) Cut() (sub, rest Node, err error) {
	if !n.Valid() {
		return Node{}, Node{}, ErrInvalidNode
	}
	p := n.Parent()
	if p.IsZero() {
		return n, Node{}, nil
	}
	n.f.detach(p.id, n.id)
	return n, p.Root(), nil
}

// Insert splices m between n and n's former parent: m takes n's place in the
// parent's child list and n becomes a child of m. m must be a detached,
// unlabelled node of the same forest whose height lies between n's height
// and the parent's. Insert returns the root of the combined tree.
func (n Node) Insert(m Node) (Node, error) {
	if err := sameForest(n, m); err != nil {
		return Node{}, err
	}
	f := n.f
	if m.rec().parent != noParent {
		return Node{}, ErrAttached
	}
	if m.rec().label != "" {
		return Node{}, ErrLabeledParent
	}
	if n.Root() == m {
		return Node{}, ErrCycle
	}
	if err := f.checkDisjoint(n.Root().id, m.id); err != nil {
		return Node{}, err
	}
	if err := f.checkHeights(m.rec().height, n); err != nil {
		return Node{}, err
	}
	p := n.rec().parent
	if p != noParent {
		if err := f.checkHeights(f.nodes[p].height, m); err != nil {
			return Node{}, err
		}
		siblings := f.nodes[p].children
		for i, c := range siblings {
			if c == n.id {
				siblings[i] = m.id
				break
			}
		}
		f.nodes[m.id].parent = p
		f.nodes[n.id].parent = noParent
	}
	f.attach(m.id, n.id)
	return n.Root(), nil
}

// Copy duplicates the subtree rooted at n inside the same forest. The copy is
// detached and shares no nodes with the original.
func (n Node) Copy() (Node, error) {
	if !n.Valid() {
		return Node{}, ErrInvalidNode
	}
	return n.f.clone(n.id), nil
}

func (f *Forest) clone(id int32) Node {
	src := f.nodes[id]
	c := f.alloc(src.label, src.height)
	for _, child := range src.children {
		cc := f.clone(child)
		f.attach(c.id, cc.id)
	}
	return c
}

// Delete unlinks n from its parent and frees every node of its subtree.
// Handles to any of those nodes become invalid.
func (n Node) Delete() error {
	if !n.Valid() {
		return ErrInvalidNode
	}
	if p := n.rec().parent; p != noParent {
		n.f.detach(p, n.id)
	}
	n.f.releaseTree(n.id)
	return nil
}

func (f *Forest) releaseTree(id int32) {
	for _, c := range f.nodes[id].children {
		f.releaseTree(c)
	}
	f.release(id)
}

// MustJoin is like Join but panics on error. It is intended for tests and
// fixed fixtures.
func (f *Forest) MustJoin(height float64, children ...Node) Node {
	n, err := f.Join(height, children...)
	if err != nil {
		panic(fmt.Sprintf("tree: MustJoin: %v", err))
	}
	return n
}

// MustLeaf is like NewLeaf but panics on error.
func (f *Forest) MustLeaf(label string) Node {
	n, err := f.NewLeaf(label)
	if err != nil {
		panic(fmt.Sprintf("tree: MustLeaf: %v", err))
	}
	return n
}
