package tree

import (
	"fmt"
	"math/rand/v2"
)

// Evolve simulates a discrete coalescent. It starts from n0 single-leaf trees
// and, at each integer time step t = 1, 2, ..., lets every surviving lineage
// pick one of n parent slots uniformly at random. Lineages sharing a slot
// merge under a new node at height t. The process stops when one tree is left,
// which is returned as the root of a fresh metric forest.
//
// Leaves are labelled a, b, ..., z, aa, ab, ... in creation order. n must be
// at least 1 and n0 at least 1; with n == 1 everything merges at t = 1.
func Evolve(n0, n int, rng *rand.Rand) (Node, error) {
	if n0 < 1 || n < 1 {
		return Node{}, fmt.Errorf("tree: evolve needs n0 >= 1 and n >= 1, got n0=%d n=%d", n0, n)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	f := NewForest(Metric)
	lineages := make([]Node, n0)
	for i := range lineages {
		lineages[i] = f.MustLeaf(LeafName(i))
	}
	for t := 1; len(lineages) > 1; t++ {
		slots := make(map[int][]Node)
		order := make([]int, 0, len(lineages))
		for _, l := range lineages {
			k := rng.IntN(n)
			if _, ok := slots[k]; !ok {
				order = append(order, k)
			}
			slots[k] = append(slots[k], l)
		}
		next := make([]Node, 0, len(order))
		for _, k := range order {
			group := slots[k]
			if len(group) == 1 {
				next = append(next, group[0])
				continue
			}
			joined, err := f.Join(float64(t), group...)
			if err != nil {
				return Node{}, fmt.Errorf("evolve at t=%d: %w", t, err)
			}
			next = append(next, joined)
		}
		lineages = next
	}
	return lineages[0], nil
}

// LeafName returns the i-th generated leaf label: a..z, then aa, ab, ...
func LeafName(i int) string {
	var buf []byte
	for i++; i > 0; i = (i - 1) / 26 {
		buf = append([]byte{byte('a' + (i-1)%26)}, buf...)
	}
	return string(buf)
}
