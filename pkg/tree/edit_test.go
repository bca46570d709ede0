package tree

import (
	"errors"
	"slices"
	"testing"
)

func TestLinkUnlink(t *testing.T) {
	f := NewForest(Metric)
	p, _ := f.NewInternal(2)
	a := f.MustLeaf("a")

	if err := Link(p, a); err != nil {
		t.Fatalf("Link: %v", err)
	}
	if a.Parent() != p || !slices.Contains(p.Children(), a) {
		t.Fatalf("link not mirrored on both sides")
	}
	if err := Link(p, a); !errors.Is(err, ErrAttached) {
		t.Errorf("second Link error = %v, want ErrAttached", err)
	}
	if err := Unlink(p, a); err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	if !a.Parent().IsZero() || p.NumChildren() != 0 {
		t.Errorf("unlink not mirrored on both sides")
	}
	if err := Unlink(p, a); !errors.Is(err, ErrNotChild) {
		t.Errorf("Unlink of detached error = %v, want ErrNotChild", err)
	}
}

func TestLinkRejects(t *testing.T) {
	f := NewForest(Metric)
	low, _ := f.NewInternal(1)
	high, _ := f.NewInternal(3)
	zero, _ := f.NewInternal(0)
	a := f.MustLeaf("a")
	b := f.MustLeaf("b")

	tests := []struct {
		name          string
		parent, child Node
		want          error
	}{
		{"taller child", low, high, ErrHeightOrder},
		{"leaf under zero height", zero, a, ErrHeightOrder},
		{"child under leaf", a, b, ErrLabeledParent},
		{"deleted node", low, Node{}, ErrInvalidNode},
		{"other kind", low, NewForest(Unweighted).MustLeaf("u"), ErrKindMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Link(tt.parent, tt.child); !errors.Is(err, tt.want) {
				t.Errorf("Link() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLinkCycle(t *testing.T) {
	f := NewForest(Unweighted)
	top, _ := f.NewInternal(0)
	mid, _ := f.NewNode(top, 0, "")
	if err := Link(mid, top); !errors.Is(err, ErrCycle) {
		t.Errorf("Link(mid, top) error = %v, want ErrCycle", err)
	}
}

func TestDuplicateLabels(t *testing.T) {
	f, root := fixture(t)
	before := f.Len()

	if _, err := f.Join(1, f.MustLeaf("x"), f.MustLeaf("x")); !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("Join error = %v, want ErrDuplicateLabel", err)
	}

	n1 := root.Children()[0]
	if _, err := f.NewNode(n1, 0, "b"); !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("NewNode error = %v, want ErrDuplicateLabel", err)
	}

	a2 := f.MustLeaf("a")
	if err := Link(root, a2); !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("Link(leaf) error = %v, want ErrDuplicateLabel", err)
	}
	sub := f.MustJoin(2, f.MustLeaf("e"), f.MustLeaf("d"))
	if err := Link(root, sub); !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("Link(subtree) error = %v, want ErrDuplicateLabel", err)
	}
	if root.NumLeaves() != 4 {
		t.Errorf("failed links changed the tree: %d leaves", root.NumLeaves())
	}

	mid, _ := f.NewInternal(10)
	if err := Link(mid, f.MustLeaf("c")); err != nil {
		t.Fatalf("Link: %v", err)
	}
	n, _ := root.FindLeaf("a")
	if _, err := n.Parent().Insert(mid); !errors.Is(err, ErrDuplicateLabel) {
		t.Errorf("Insert error = %v, want ErrDuplicateLabel", err)
	}

	if _, err := f.NewNode(n1, 0, "e"); err != nil {
		t.Errorf("NewNode with a fresh label: %v", err)
	}
	if f.Len() <= before {
		t.Errorf("Len() = %d, want more than %d", f.Len(), before)
	}
}

func TestCut(t *testing.T) {
	_, root := fixture(t)
	c, _ := root.FindLeaf("c")
	n2 := c.Parent()

	sub, rest, err := n2.Cut()
	if err != nil {
		t.Fatalf("Cut: %v", err)
	}
	if sub != n2 || rest != root {
		t.Errorf("Cut() returned unexpected nodes")
	}
	if !n2.Parent().IsZero() {
		t.Errorf("cut subtree still has a parent")
	}
	if got := root.LeafLabels(); !slices.Equal(got, []string{"d"}) {
		t.Errorf("remaining leaves = %v, want [d]", got)
	}
	if got := sub.LeafLabels(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("cut leaves = %v, want [a b c]", got)
	}

	again, rest, err := root.Cut()
	if err != nil || again != root || !rest.IsZero() {
		t.Errorf("Cut() of a root = (%v, %v, %v), want (root, zero, nil)", again, rest, err)
	}
}

func TestInsert(t *testing.T) {
	f, root := fixture(t)
	c, _ := root.FindLeaf("c")
	m, _ := f.NewInternal(5)

	newRoot, err := c.Insert(m)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if newRoot != root {
		t.Errorf("Insert returned a different root")
	}
	if c.Parent() != m {
		t.Errorf("c is not a child of the inserted node")
	}
	if m.Parent().Height() != 13 {
		t.Errorf("inserted node parent height = %v, want 13", m.Parent().Height())
	}

	tooHigh, _ := f.NewInternal(50)
	d, _ := root.FindLeaf("d")
	if _, err := d.Insert(tooHigh); !errors.Is(err, ErrHeightOrder) {
		t.Errorf("Insert above parent error = %v, want ErrHeightOrder", err)
	}
	if d.Parent() != root {
		t.Errorf("failed Insert modified the tree")
	}
}

func TestInsertAtRoot(t *testing.T) {
	f, root := ab(t, 5)
	top, _ := f.NewInternal(9)
	got, err := root.Insert(top)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if got != top || root.Parent() != top {
		t.Errorf("Insert at root did not place new node on top")
	}
}

func TestCommonAncestor(t *testing.T) {
	_, root := fixture(t)
	a, _ := root.FindLeaf("a")

	tests := []struct {
		labels []string
		height float64
	}{
		{[]string{"a"}, 0},
		{[]string{"a", "b"}, 3},
		{[]string{"b", "c"}, 13},
		{[]string{"d", "a"}, 20},
	}
	for _, tt := range tests {
		got, err := a.CommonAncestor(tt.labels...)
		if err != nil {
			t.Fatalf("CommonAncestor(%v): %v", tt.labels, err)
		}
		if got.Height() != tt.height {
			t.Errorf("CommonAncestor(%v).Height() = %v, want %v", tt.labels, got.Height(), tt.height)
		}
	}

	missing, err := a.CommonAncestor("a", "zz")
	if err != nil || !missing.IsZero() {
		t.Errorf("CommonAncestor with absent label = (%v, %v), want (zero, nil)", missing, err)
	}
	if _, err := a.CommonAncestor(); !errors.Is(err, ErrNoTargets) {
		t.Errorf("CommonAncestor() error = %v, want ErrNoTargets", err)
	}
}

func TestCommonAncestorOf(t *testing.T) {
	_, root := fixture(t)
	a, _ := root.FindLeaf("a")
	c, _ := root.FindLeaf("c")

	got, err := a.CommonAncestorOf(c)
	if err != nil {
		t.Fatalf("CommonAncestorOf: %v", err)
	}
	if got.Height() != 13 {
		t.Errorf("CommonAncestorOf(c).Height() = %v, want 13", got.Height())
	}

	self, _ := a.CommonAncestorOf(a)
	if self != a {
		t.Errorf("CommonAncestorOf(self) != self")
	}

	// The ancestor of a set is an ancestor of each subset's ancestor.
	ac, _ := a.CommonAncestor("a", "c")
	acd, _ := a.CommonAncestor("a", "c", "d")
	if !acd.IsAncestorOf(ac) {
		t.Errorf("ancestor of {a,c,d} is not above ancestor of {a,c}")
	}
}

func TestCopy(t *testing.T) {
	f, root := fixture(t)
	before := f.Len()
	cp, err := root.Copy()
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if cp == root || !Equal(cp, root) {
		t.Errorf("copy is not an equal, distinct tree")
	}
	if f.Len() != 2*before {
		t.Errorf("Len() after copy = %d, want %d", f.Len(), 2*before)
	}
	a, _ := cp.FindLeaf("a")
	if _, _, err := a.Cut(); err != nil {
		t.Fatal(err)
	}
	if Equal(cp, root) {
		t.Errorf("editing the copy changed equality with the original")
	}
	if root.NumLeaves() != 4 {
		t.Errorf("original lost leaves after editing the copy")
	}
}

func TestDelete(t *testing.T) {
	f, root := fixture(t)
	c, _ := root.FindLeaf("c")
	n2 := c.Parent()
	a, _ := root.FindLeaf("a")

	if err := n2.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n2.Valid() || a.Valid() || c.Valid() {
		t.Errorf("deleted handles are still valid")
	}
	if f.Len() != 2 {
		t.Errorf("Len() = %d, want 2", f.Len())
	}
	if got := root.LeafLabels(); !slices.Equal(got, []string{"d"}) {
		t.Errorf("LeafLabels() = %v, want [d]", got)
	}
	if err := n2.Delete(); !errors.Is(err, ErrInvalidNode) {
		t.Errorf("second Delete error = %v, want ErrInvalidNode", err)
	}

	// Reused slots must not revive old handles.
	x := f.MustLeaf("x")
	if a.Valid() || a.Label() == "x" {
		t.Errorf("stale handle observed a reused slot (new leaf %q)", x.Label())
	}
}

func TestEqual(t *testing.T) {
	f := NewForest(Metric)
	r1 := f.MustJoin(5, f.MustLeaf("a"), f.MustLeaf("b"))
	r2 := f.MustJoin(5, f.MustLeaf("b"), f.MustLeaf("a"))
	r3 := f.MustJoin(6, f.MustLeaf("a"), f.MustLeaf("b"))

	if !Equal(r1, r2) {
		t.Errorf("Equal must ignore child order")
	}
	if Equal(r1, r3) {
		t.Errorf("Equal must compare heights")
	}

	u := NewForest(Unweighted)
	ur := u.MustJoin(0, u.MustLeaf("a"), u.MustLeaf("b"))
	if Equal(r1, ur) {
		t.Errorf("Equal must compare variants")
	}
	if Equal(r1, Node{}) {
		t.Errorf("Equal with zero node must be false")
	}

	_, x := fixture(t)
	_, y := fixture(t)
	if !Equal(x, y) {
		t.Errorf("identical fixtures in different forests are not Equal")
	}
	if Equal(x, r1) {
		t.Errorf("different shapes reported Equal")
	}
}

func TestPromoteDemote(t *testing.T) {
	u := NewForest(Unweighted)
	inner := u.MustJoin(0, u.MustLeaf("a"), u.MustLeaf("b"))
	root := u.MustJoin(0, inner, u.MustLeaf("c"))

	m, err := root.Promote()
	if err != nil {
		t.Fatalf("Promote: %v", err)
	}
	if m.Kind() != Metric || m.Height() != 2 {
		t.Errorf("Promote() = (%v, %v), want (metric, 2)", m.Kind(), m.Height())
	}
	if same, _ := m.Promote(); same != m {
		t.Errorf("Promote of a metric tree must return it unchanged")
	}

	back, err := m.Demote()
	if err != nil {
		t.Fatalf("Demote: %v", err)
	}
	if !Equal(back, root) {
		t.Errorf("Demote(Promote(t)) != t")
	}
}
