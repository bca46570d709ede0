package tree

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrInvalidNode is returned when a zero, deleted or out-of-range node
	// handle is used.
	ErrInvalidNode = errors.New("tree: invalid node")

	// ErrInvalidLabel is returned when a leaf is created with an empty label.
	ErrInvalidLabel = errors.New("tree: leaf label must not be empty")

	// ErrInvalidHeight is returned for negative, NaN or infinite heights.
	ErrInvalidHeight = errors.New("tree: height must be a finite non-negative number")

	// ErrLeafHeight is returned when a labelled (leaf) node is given a
	// non-zero height in a metric forest.
	ErrLeafHeight = errors.New("tree: leaf must have height zero")

	// ErrKindMismatch is returned when two nodes of different variants are
	// combined.
	ErrKindMismatch = errors.New("tree: nodes are of different variants")

	// ErrForeignNode is returned when two nodes of different forests are
	// combined. Nodes only link within their own forest.
	ErrForeignNode = errors.New("tree: nodes belong to different forests")

	// ErrHeightOrder is returned when a link would put a child at or above
	// its parent's height (at, only for leaf children).
	ErrHeightOrder = errors.New("tree: child height must not exceed parent height")

	// ErrAttached is returned when a node that already has a parent is linked
	// or inserted again.
	ErrAttached = errors.New("tree: node already has a parent")

	// ErrLabeledParent is returned when a child is linked under a labelled
	// node. Labels are reserved for leaves.
	ErrLabeledParent = errors.New("tree: labelled node cannot have children")

	// ErrNotChild is returned by Unlink when child is not a child of parent.
	ErrNotChild = errors.New("tree: node is not a child of parent")

	// ErrCycle is returned when a link would make a node its own ancestor.
	ErrCycle = errors.New("tree: link would create a cycle")

	// ErrDuplicateLabel is returned when an edit would give two leaves of one
	// tree the same label.
	ErrDuplicateLabel = errors.New("tree: duplicate leaf label")

	// ErrNoTargets is returned by the common-ancestor queries for an empty
	// target list.
	ErrNoTargets = errors.New("tree: at least one target is required")
)

// Kind selects the tree variant of a forest.
type Kind int

const (
	// Unweighted trees carry no heights; Height reports the depth.
	Unweighted Kind = iota
	// Metric trees carry a non-negative height per node.
	Metric
)

// String returns "unweighted" or "metric".
func (k Kind) String() string {
	switch k {
	case Unweighted:
		return "unweighted"
	case Metric:
		return "metric"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

const noParent int32 = -1

type record struct {
	parent   int32
	children []int32
	label    string
	height   float64
	gen      uint32
	live     bool
}

// Forest is an arena of tree nodes sharing one variant. A forest may hold any
// number of disconnected trees; every tree edit happens inside a single
// forest.
//
// The zero value is not usable; create forests with NewForest.
type Forest struct {
	kind  Kind
	nodes []record
	free  []int32
	live  int
}

// NewForest creates an empty forest of the given variant.
func NewForest(kind Kind) *Forest {
	return &Forest{kind: kind}
}

// Kind returns the forest's variant.
func (f *Forest) Kind() Kind { return f.kind }

// Len returns the number of live nodes in the forest.
func (f *Forest) Len() int { return f.live }

// Roots returns every live parentless node, in slot order.
func (f *Forest) Roots() []Node {
	var roots []Node
	for i := range f.nodes {
		r := &f.nodes[i]
		if r.live && r.parent == noParent {
			roots = append(roots, f.handle(int32(i)))
		}
	}
	return roots
}

// NewLeaf creates a detached leaf with the given label.
func (f *Forest) NewLeaf(label string) (Node, error) {
	if label == "" {
		return Node{}, ErrInvalidLabel
	}
	return f.alloc(label, 0), nil
}

// NewInternal creates a detached, unlabelled node. In a metric forest the
// node gets the given height; unweighted forests ignore it.
func (f *Forest) NewInternal(height float64) (Node, error) {
	h, err := f.normalizeHeight(height)
	if err != nil {
		return Node{}, err
	}
	return f.alloc("", h), nil
}

// NewNode creates a node and immediately links it under parent. A zero parent
// creates a detached node. A non-empty label makes the node a leaf, which in
// a metric forest requires a zero height.
func (f *Forest) NewNode(parent Node, height float64, label string) (Node, error) {
	h, err := f.normalizeHeight(height)
	if err != nil {
		return Node{}, err
	}
	if label != "" && h != 0 {
		return Node{}, ErrLeafHeight
	}
	if !parent.IsZero() {
		if err := f.checkParent(parent, label != "", h); err != nil {
			return Node{}, err
		}
		if label != "" && parent.Root().HasLeaf(label) {
			return Node{}, fmt.Errorf("%w: %q", ErrDuplicateLabel, label)
		}
	}
	n := f.alloc(label, h)
	if !parent.IsZero() {
		f.attach(parent.id, n.id)
	}
	return n, nil
}

// Join creates an internal node at the given height and links every child
// under it. All children must be detached nodes of this forest. Nothing is
// created when validation fails.
func (f *Forest) Join(height float64, children ...Node) (Node, error) {
	h, err := f.normalizeHeight(height)
	if err != nil {
		return Node{}, err
	}
	seen := make(map[int32]bool, len(children))
	for _, c := range children {
		if err := f.owns(c); err != nil {
			return Node{}, err
		}
		if seen[c.id] {
			return Node{}, fmt.Errorf("join: %w", ErrAttached)
		}
		seen[c.id] = true
		if f.nodes[c.id].parent != noParent {
			return Node{}, ErrAttached
		}
		if err := f.checkHeights(h, c); err != nil {
			return Node{}, err
		}
	}
	ids := make([]int32, len(children))
	for i, c := range children {
		ids[i] = c.id
	}
	if err := f.checkDisjoint(ids...); err != nil {
		return Node{}, err
	}
	n := f.alloc("", h)
	for _, c := range children {
		f.attach(n.id, c.id)
	}
	return n, nil
}

func (f *Forest) normalizeHeight(h float64) (float64, error) {
	if f.kind == Unweighted {
		return 0, nil
	}
	if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidHeight, h)
	}
	return h, nil
}

// checkParent validates attaching a new child (leaf or not, at height h)
// under parent.
func (f *Forest) checkParent(parent Node, childIsLeaf bool, h float64) error {
	if err := f.owns(parent); err != nil {
		return err
	}
	p := &f.nodes[parent.id]
	if p.label != "" {
		return ErrLabeledParent
	}
	if f.kind != Metric {
		return nil
	}
	if h > p.height || (childIsLeaf && p.height == 0) {
		return fmt.Errorf("%w: child %v, parent %v", ErrHeightOrder, h, p.height)
	}
	return nil
}

// checkHeights validates child against a prospective parent height.
func (f *Forest) checkHeights(parentHeight float64, child Node) error {
	if f.kind != Metric {
		return nil
	}
	c := &f.nodes[child.id]
	if c.height > parentHeight || (c.label != "" && parentHeight == 0) {
		return fmt.Errorf("%w: child %v, parent %v", ErrHeightOrder, c.height, parentHeight)
	}
	return nil
}

// checkDisjoint fails when two leaves under the given subtrees share a label.
func (f *Forest) checkDisjoint(ids ...int32) error {
	seen := make(map[string]bool)
	for _, id := range ids {
		if l, dup := f.firstDuplicate(id, seen); dup {
			return fmt.Errorf("%w: %q", ErrDuplicateLabel, l)
		}
	}
	return nil
}

func (f *Forest) firstDuplicate(id int32, seen map[string]bool) (string, bool) {
	r := &f.nodes[id]
	if r.label != "" {
		if seen[r.label] {
			return r.label, true
		}
		seen[r.label] = true
		return "", false
	}
	for _, c := range r.children {
		if l, dup := f.firstDuplicate(c, seen); dup {
			return l, true
		}
	}
	return "", false
}

// owns reports an error unless n is a live node of f.
func (f *Forest) owns(n Node) error {
	if !n.Valid() {
		return ErrInvalidNode
	}
	if n.f != f {
		if n.f.kind != f.kind {
			return ErrKindMismatch
		}
		return ErrForeignNode
	}
	return nil
}

func (f *Forest) alloc(label string, height float64) Node {
	f.live++
	if k := len(f.free); k > 0 {
		id := f.free[k-1]
		f.free = f.free[:k-1]
		r := &f.nodes[id]
		r.parent = noParent
		r.children = nil
		r.label = label
		r.height = height
		r.live = true
		return f.handle(id)
	}
	f.nodes = append(f.nodes, record{parent: noParent, label: label, height: height, live: true})
	return f.handle(int32(len(f.nodes) - 1))
}

func (f *Forest) release(id int32) {
	r := &f.nodes[id]
	r.live = false
	r.gen++
	r.parent = noParent
	r.children = nil
	r.label = ""
	f.free = append(f.free, id)
	f.live--
}

func (f *Forest) attach(parent, child int32) {
	f.nodes[parent].children = append(f.nodes[parent].children, child)
	f.nodes[child].parent = parent
}

func (f *Forest) detach(parent, child int32) {
	p := &f.nodes[parent]
	p.children = slices.DeleteFunc(p.children, func(c int32) bool { return c == child })
	f.nodes[child].parent = noParent
}

func (f *Forest) handle(id int32) Node {
	return Node{f: f, id: id, gen: f.nodes[id].gen}
}

// Node is a handle to a node of a Forest. The zero Node refers to no node.
//
// Handles are values: copying one does not copy the node. Once the node is
// deleted, every handle to it becomes invalid.
type Node struct {
	f   *Forest
	id  int32
	gen uint32
}

// IsZero reports whether n is the zero handle.
func (n Node) IsZero() bool { return n.f == nil }

// Valid reports whether n refers to a live node.
func (n Node) Valid() bool {
	if n.f == nil || n.id < 0 || int(n.id) >= len(n.f.nodes) {
		return false
	}
	r := &n.f.nodes[n.id]
	return r.live && r.gen == n.gen
}

// Forest returns the arena n belongs to, or nil for the zero handle.
func (n Node) Forest() *Forest { return n.f }

// Kind returns the variant of n's forest.
func (n Node) Kind() Kind {
	if n.f == nil {
		return Unweighted
	}
	return n.f.kind
}

func (n Node) rec() *record { return &n.f.nodes[n.id] }

// Label returns the leaf label, or "" for internal or invalid nodes.
func (n Node) Label() string {
	if !n.Valid() {
		return ""
	}
	return n.rec().label
}

// Parent returns n's parent, or the zero Node for roots and invalid nodes.
func (n Node) Parent() Node {
	if !n.Valid() || n.rec().parent == noParent {
		return Node{}
	}
	return n.f.handle(n.rec().parent)
}

// Children returns a copy of n's child list in insertion order.
func (n Node) Children() []Node {
	if !n.Valid() {
		return nil
	}
	ids := n.rec().children
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = n.f.handle(id)
	}
	return out
}

// NumChildren returns the number of direct children.
func (n Node) NumChildren() int {
	if !n.Valid() {
		return 0
	}
	return len(n.rec().children)
}

// IsLeaf reports whether n has no children.
func (n Node) IsLeaf() bool {
	return n.Valid() && len(n.rec().children) == 0
}

// Root follows parent links up to the root of n's tree.
func (n Node) Root() Node {
	if !n.Valid() {
		return Node{}
	}
	id := n.id
	for n.f.nodes[id].parent != noParent {
		id = n.f.nodes[id].parent
	}
	return n.f.handle(id)
}

// Height returns the stored height in a metric forest and the depth (zero at
// leaves, one more than the tallest child otherwise) in an unweighted forest.
func (n Node) Height() float64 {
	if !n.Valid() {
		return 0
	}
	if n.f.kind == Metric {
		return n.rec().height
	}
	return float64(n.f.depth(n.id))
}

func (f *Forest) depth(id int32) int {
	d := -1
	for _, c := range f.nodes[id].children {
		d = max(d, f.depth(c))
	}
	return d + 1
}
