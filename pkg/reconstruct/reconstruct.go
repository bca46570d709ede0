// Package reconstruct builds a metric tree from an ultrametric distance
// matrix.
//
// Leaves are placed one at a time in sorted label order. For each new leaf,
// the already placed leaves are grouped by their half-distance to it; the
// closest group must be exactly the leaf set of one subtree, and the new leaf
// joins that subtree at the group's half-distance. Distances are compared for
// exact equality: this is a decision procedure, not an optimizer, and any
// violation of the ultrametric property is reported as ErrNotUltrametric.
package reconstruct

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/phylo/pkg/distmat"
	"github.com/matzehuels/phylo/pkg/tree"
)

var (
	// ErrIncomplete is returned when the matrix has unset pairs.
	ErrIncomplete = errors.New("reconstruct: matrix has unset distances")

	// ErrNotUltrametric is returned when the distances are inconsistent with
	// every metric tree.
	ErrNotUltrametric = errors.New("reconstruct: matrix is not ultrametric")
)

// Reconstructor turns distance matrices into trees. The zero value is ready
// to use and logs nothing.
type Reconstructor struct {
	// Logger receives a debug line per placed leaf. Nil disables logging.
	Logger *log.Logger
}

// FromMatrix reconstructs m with a zero Reconstructor.
func FromMatrix(m *distmat.Matrix) (tree.Node, error) {
	var r Reconstructor
	return r.Reconstruct(m)
}

func (r *Reconstructor) logger() *log.Logger {
	if r.Logger == nil {
		return log.New(io.Discard)
	}
	return r.Logger
}

// Reconstruct returns the root of a metric tree whose leaf distances are
// those of m, in a new forest. An empty matrix yields the zero Node and a nil
// error; a single label yields a lone leaf.
//
// When the new leaf's attachment point is an internal node already at the
// attachment height, the leaf becomes one more child of that node, so trees
// with multifurcations reconstruct to themselves.
func (r *Reconstructor) Reconstruct(m *distmat.Matrix) (tree.Node, error) {
	if err := m.Complete(); err != nil {
		return tree.Node{}, fmt.Errorf("%w: %w", ErrIncomplete, err)
	}
	labels := m.Labels()
	logger := r.logger()
	f := tree.NewForest(tree.Metric)

	switch len(labels) {
	case 0:
		return tree.Node{}, nil
	case 1:
		return f.NewLeaf(labels[0])
	}

	b := &builder{m: m, f: f, placed: make(map[string]tree.Node, len(labels))}
	if err := b.seed(labels[0], labels[1]); err != nil {
		return tree.Node{}, err
	}
	logger.Debug("seeded tree", "a", labels[0], "b", labels[1], "height", b.root().Height())

	for _, leaf := range labels[2:] {
		h, group, err := b.place(leaf)
		if err != nil {
			return tree.Node{}, err
		}
		logger.Debug("placed leaf", "label", leaf, "height", h, "sibling_leaves", group)
	}
	root := b.root()
	logger.Debug("reconstructed tree", "leaves", len(labels), "height", root.Height())
	return root, nil
}

type builder struct {
	m      *distmat.Matrix
	f      *tree.Forest
	placed map[string]tree.Node
	order  []string
}

func (b *builder) root() tree.Node {
	return b.placed[b.order[0]].Root()
}

func (b *builder) dist(x, y string) float64 {
	// Complete was checked up front and every label is known.
	d, _ := b.m.Get(x, y)
	return d
}

func (b *builder) seed(x, y string) error {
	lx := b.f.MustLeaf(x)
	ly := b.f.MustLeaf(y)
	if _, err := b.f.Join(b.dist(x, y)/2, lx, ly); err != nil {
		return notUltrametric(err, "%s and %s", x, y)
	}
	b.placed[x], b.placed[y] = lx, ly
	b.order = append(b.order, x, y)
	return nil
}

// place attaches leaf and returns the attachment height and the labels of
// the subtree it joined.
func (b *builder) place(leaf string) (float64, []string, error) {
	buckets := make(map[float64][]string)
	for _, u := range b.order {
		h := b.dist(u, leaf) / 2
		buckets[h] = append(buckets[h], u)
	}
	heights := slices.Sorted(maps.Keys(buckets))
	h := heights[0]
	low := buckets[h]
	slices.Sort(low)
	var rest []string
	for _, k := range heights[1:] {
		rest = append(rest, buckets[k]...)
	}

	anchor := b.placed[low[0]]
	ca, err := anchor.CommonAncestor(low...)
	if err != nil {
		return 0, nil, err
	}
	if ca.IsZero() || !slices.Equal(ca.LeafLabels(), low) {
		return 0, nil, notUltrametric(nil, "leaves %v closest to %s do not form a subtree", low, leaf)
	}
	for _, l := range low {
		for _, r := range rest {
			if b.dist(l, r) != b.dist(leaf, r) {
				return 0, nil, notUltrametric(nil, "d(%s,%s) = %v but d(%s,%s) = %v",
					l, r, b.dist(l, r), leaf, r, b.dist(leaf, r))
			}
		}
	}

	n := b.f.MustLeaf(leaf)
	if !ca.IsLeaf() && ca.Height() == h {
		if err := tree.Link(ca, n); err != nil {
			_ = n.Delete()
			return 0, nil, notUltrametric(err, "attaching %s", leaf)
		}
	} else {
		parent, err := b.f.NewInternal(h)
		if err != nil {
			_ = n.Delete()
			return 0, nil, notUltrametric(err, "attaching %s", leaf)
		}
		if _, err := ca.Insert(parent); err != nil {
			_ = n.Delete()
			_ = parent.Delete()
			return 0, nil, notUltrametric(err, "attaching %s at %v", leaf, h)
		}
		if err := tree.Link(parent, n); err != nil {
			return 0, nil, notUltrametric(err, "attaching %s at %v", leaf, h)
		}
	}
	b.placed[leaf] = n
	b.order = append(b.order, leaf)
	return h, low, nil
}

func notUltrametric(cause error, format string, v ...any) error {
	msg := fmt.Sprintf(format, v...)
	if cause != nil {
		return fmt.Errorf("%w: %s: %w", ErrNotUltrametric, msg, cause)
	}
	return fmt.Errorf("%w: %s", ErrNotUltrametric, msg)
}
