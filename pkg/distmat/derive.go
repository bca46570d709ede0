package distmat

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/phylo/pkg/pexp"
	"github.com/matzehuels/phylo/pkg/sample"
	"github.com/matzehuels/phylo/pkg/tree"
)

// FromTree derives the matrix of a tree: the distance between two leaves is
// twice the height of their lowest common ancestor. Unweighted trees use
// depth as height.
func FromTree(root tree.Node) (*Matrix, error) {
	if !root.Valid() {
		return nil, tree.ErrInvalidNode
	}
	leaves := root.Leaves()
	m := New()
	for _, l := range leaves {
		if err := m.Add(l.Label()); err != nil {
			return nil, err
		}
	}
	for i, a := range leaves {
		for _, b := range leaves[i+1:] {
			ca, err := a.CommonAncestorOf(b)
			if err != nil {
				return nil, err
			}
			if err := m.Set(a.Label(), b.Label(), 2*ca.Height()); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// FromPexp parses text as a metric tree and derives its matrix. The
// temporary tree is discarded.
func FromPexp(text string) (*Matrix, error) {
	root, err := pexp.Parse(text, tree.Metric)
	if err != nil {
		return nil, err
	}
	defer func() { _ = root.Delete() }()
	return FromTree(root)
}

// FromSample derives the matrix of Hamming distances between the genotypes
// of s.
func FromSample(s *sample.Sample) (*Matrix, error) {
	m := New()
	labels := s.Labels()
	for i, a := range labels {
		_ = m.Add(a)
		for _, b := range labels[i+1:] {
			d, err := s.Distance(a, b)
			if err != nil {
				return nil, err
			}
			if err := m.Set(a, b, float64(d)); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Dense exports m as a symmetric gonum matrix with rows and columns in the
// order of the returned labels. Unset pairs are NaN. An empty matrix returns
// a nil *mat.Dense, since gonum has no zero-sized dense matrix.
func (m *Matrix) Dense() (*mat.Dense, []string) {
	labels := m.Labels()
	n := len(labels)
	if n == 0 {
		return nil, labels
	}
	d := mat.NewDense(n, n, nil)
	for i, a := range labels {
		for j := i + 1; j < n; j++ {
			v, ok := m.data[a][labels[j]]
			if !ok {
				v = math.NaN()
			}
			d.Set(i, j, v)
			d.Set(j, i, v)
		}
	}
	return d, labels
}

// FromDense is the inverse of Dense: it reads the upper triangle of a square
// matrix, skipping NaN cells. The diagonal must be zero.
func FromDense(d mat.Matrix, labels []string) (*Matrix, error) {
	r, c := d.Dims()
	if r != c || r != len(labels) {
		return nil, fmt.Errorf("distmat: dense matrix is %dx%d for %d labels", r, c, len(labels))
	}
	m := New()
	for i, a := range labels {
		if err := m.Set(a, a, d.At(i, i)); err != nil {
			return nil, err
		}
		for j := i + 1; j < r; j++ {
			v := d.At(i, j)
			if math.IsNaN(v) {
				_ = m.Add(labels[j])
				continue
			}
			if err := m.Set(a, labels[j], v); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}
