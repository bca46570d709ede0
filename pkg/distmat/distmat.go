// Package distmat implements labelled, symmetric distance matrices with a
// zero diagonal.
//
// Only the upper triangle is stored: the distance between two labels lives
// under the alphabetically smaller one. Symmetry therefore holds by
// construction, and a pair that was never assigned stays "unset", which is
// distinct from a distance of zero.
//
// Matrices can be derived from a tree ([FromTree]), from a parenthesized
// expression ([FromPexp]) and from a sample of bit sequences ([FromSample]).
package distmat

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
)

// Matrix is a labelled distance matrix. The zero value is not usable; create
// matrices with New or FromMap.
type Matrix struct {
	// data[a][b] holds d(a, b) for a < b. Every label has an entry, possibly
	// empty; a missing inner key is an unset pair.
	data map[string]map[string]float64
}

// Pair is one set entry of the upper triangle, with A < B.
type Pair struct {
	A, B     string
	Distance float64
}

// New returns an empty matrix.
func New() *Matrix {
	return &Matrix{data: make(map[string]map[string]float64)}
}

// FromMap builds a matrix from nested maps. Outer keys are registered as
// labels even when their inner map is empty. Either orientation of a pair may
// be given; giving both with different values fails with ErrConflict.
func FromMap(m map[string]map[string]float64) (*Matrix, error) {
	out := New()
	for _, a := range slices.Sorted(maps.Keys(m)) {
		if err := out.Add(a); err != nil {
			return nil, err
		}
		inner := m[a]
		for _, b := range slices.Sorted(maps.Keys(inner)) {
			v := inner[b]
			if a != b && out.Has(b) {
				if old, err := out.Get(a, b); err == nil && old != v {
					return nil, fmt.Errorf("%w: (%s, %s) is %v and %v", ErrConflict, a, b, old, v)
				}
			}
			if err := out.Set(a, b, v); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func ordered(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// Add registers label with every cross distance unset. Adding a known label
// is a no-op.
func (m *Matrix) Add(label string) error {
	if label == "" {
		return ErrInvalidLabel
	}
	if _, ok := m.data[label]; !ok {
		m.data[label] = make(map[string]float64)
	}
	return nil
}

// Has reports whether label is in the matrix.
func (m *Matrix) Has(label string) bool {
	_, ok := m.data[label]
	return ok
}

// Get returns d(a, b). The distance of a known label to itself is zero.
func (m *Matrix) Get(a, b string) (float64, error) {
	for _, l := range []string{a, b} {
		if !m.Has(l) {
			return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, l)
		}
	}
	if a == b {
		return 0, nil
	}
	first, second := ordered(a, b)
	v, ok := m.data[first][second]
	if !ok {
		return 0, fmt.Errorf("%w: (%s, %s)", ErrUnset, first, second)
	}
	return v, nil
}

// Set assigns d(a, b) = d(b, a) = v, registering unknown labels first. A
// label's distance to itself may only be set to zero, which just registers
// the label. A failed Set leaves m unchanged.
func (m *Matrix) Set(a, b string, v float64) error {
	if a == "" || b == "" {
		return ErrInvalidLabel
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: (%s, %s) = %v", ErrInvalidDistance, a, b, v)
	}
	if a == b {
		if v != 0 {
			return fmt.Errorf("%w: (%s, %s) = %v", ErrNonZeroDiagonal, a, b, v)
		}
		return m.Add(a)
	}
	_ = m.Add(a)
	_ = m.Add(b)
	first, second := ordered(a, b)
	m.data[first][second] = v
	return nil
}

// Unset clears the distance between a and b.
func (m *Matrix) Unset(a, b string) {
	first, second := ordered(a, b)
	if inner, ok := m.data[first]; ok {
		delete(inner, second)
	}
}

// Labels returns the labels in sorted order.
func (m *Matrix) Labels() []string {
	return slices.Sorted(maps.Keys(m.data))
}

// Len returns the number of labels.
func (m *Matrix) Len() int { return len(m.data) }

// Size returns the number of cells of the square matrix, Len()².
func (m *Matrix) Size() int { return len(m.data) * len(m.data) }

// Pairs returns every set entry of the upper triangle, ordered by A then B.
func (m *Matrix) Pairs() []Pair {
	var out []Pair
	for _, a := range m.Labels() {
		for _, b := range slices.Sorted(maps.Keys(m.data[a])) {
			out = append(out, Pair{A: a, B: b, Distance: m.data[a][b]})
		}
	}
	return out
}

// Map exports the matrix as nested maps in upper-triangular form. Every label
// has an entry; unset pairs are omitted.
func (m *Matrix) Map() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(m.data))
	for a, inner := range m.data {
		out[a] = maps.Clone(inner)
	}
	return out
}

// Submatrix returns a new matrix restricted to labels. Unset pairs stay
// unset. The receiver is never modified.
func (m *Matrix) Submatrix(labels []string) (*Matrix, error) {
	for _, l := range labels {
		if l == "" {
			return nil, ErrInvalidLabel
		}
		if !m.Has(l) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, l)
		}
	}
	out := New()
	for _, a := range labels {
		_ = out.Add(a)
		for _, b := range labels {
			if a >= b {
				continue
			}
			if v, ok := m.data[a][b]; ok {
				out.data[a][b] = v
			}
		}
	}
	return out, nil
}

// Append registers label and sets its distance to each label in dists, in
// sorted order. Append is in place: on error the distances set so far
// remain.
func (m *Matrix) Append(label string, dists map[string]float64) error {
	if err := m.Add(label); err != nil {
		return err
	}
	for _, other := range slices.Sorted(maps.Keys(dists)) {
		if err := m.Set(label, other, dists[other]); err != nil {
			return err
		}
	}
	return nil
}

// Copy returns an independent copy of m.
func (m *Matrix) Copy() *Matrix {
	return &Matrix{data: m.Map()}
}

// Equal reports whether m and o have the same labels and the same set
// distances.
func (m *Matrix) Equal(o *Matrix) bool {
	if m.Len() != o.Len() {
		return false
	}
	for a, inner := range m.data {
		other, ok := o.data[a]
		if !ok || !maps.Equal(inner, other) {
			return false
		}
	}
	return true
}

// Complete returns an ErrUnset error naming the first pair of distinct labels
// without a distance, or nil when every pair is set.
func (m *Matrix) Complete() error {
	labels := m.Labels()
	for i, a := range labels {
		for _, b := range labels[i+1:] {
			if _, ok := m.data[a][b]; !ok {
				return fmt.Errorf("%w: (%s, %s)", ErrUnset, a, b)
			}
		}
	}
	return nil
}

// IsUltrametric reports whether m is complete and every triple of labels
// satisfies the three-point condition: the two largest of its three
// distances are equal.
func (m *Matrix) IsUltrametric() bool {
	if m.Complete() != nil {
		return false
	}
	labels := m.Labels()
	for i, a := range labels {
		for j := i + 1; j < len(labels); j++ {
			b := labels[j]
			for _, c := range labels[j+1:] {
				d := []float64{m.data[a][b], m.data[a][c], m.data[b][c]}
				slices.Sort(d)
				if d[1] != d[2] {
					return false
				}
			}
		}
	}
	return true
}

// String renders the full square matrix as an aligned grid with '-' for
// unset pairs.
func (m *Matrix) String() string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	labels := m.Labels()
	fmt.Fprint(w, "\t", strings.Join(labels, "\t"), "\n")
	for _, a := range labels {
		cells := make([]string, len(labels))
		for j, b := range labels {
			v, err := m.Get(a, b)
			if err != nil {
				cells[j] = "-"
			} else {
				cells[j] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
		fmt.Fprint(w, a, "\t", strings.Join(cells, "\t"), "\n")
	}
	_ = w.Flush()
	return sb.String()
}
