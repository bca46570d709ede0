// Package sample holds labelled bit sequences of equal length and computes
// their pairwise Hamming distances. A Sample is one of the sources a distance
// matrix can be built from.
package sample

import (
	"errors"
	"fmt"
	"maps"
	"math/bits"
	"slices"
	"strings"
)

var (
	// ErrLengthMismatch is returned when two genotypes of different lengths
	// are compared or stored in the same sample.
	ErrLengthMismatch = errors.New("sample: genotype lengths differ")

	// ErrInvalidBit is returned when a genotype string holds anything but
	// '0' and '1'.
	ErrInvalidBit = errors.New("sample: genotype must consist of 0 and 1")

	// ErrUnknownLabel is returned for a label the sample does not hold.
	ErrUnknownLabel = errors.New("sample: unknown label")

	// ErrInvalidLabel is returned for an empty label.
	ErrInvalidLabel = errors.New("sample: label must not be empty")
)

// Genotype is a packed sequence of bits. The zero value is the empty
// sequence.
type Genotype struct {
	n    int
	data []byte
}

// NewGenotype returns an all-zero genotype of n bits.
func NewGenotype(n int) Genotype {
	return Genotype{n: n, data: make([]byte, (n+7)/8)}
}

// ParseGenotype reads a string of '0' and '1' characters.
func ParseGenotype(s string) (Genotype, error) {
	g := NewGenotype(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
		case '1':
			g.data[i/8] |= 1 << (i % 8)
		default:
			return Genotype{}, fmt.Errorf("%w: %q at %d", ErrInvalidBit, s[i], i)
		}
	}
	return g, nil
}

// Len returns the number of bits.
func (g Genotype) Len() int { return g.n }

// Bit reports whether bit i is set.
func (g Genotype) Bit(i int) bool {
	return g.data[i/8]&(1<<(i%8)) != 0
}

// Set returns a copy of g with bit i set to v.
func (g Genotype) Set(i int, v bool) Genotype {
	out := Genotype{n: g.n, data: slices.Clone(g.data)}
	if v {
		out.data[i/8] |= 1 << (i % 8)
	} else {
		out.data[i/8] &^= 1 << (i % 8)
	}
	return out
}

// String renders g as '0' and '1' characters.
func (g Genotype) String() string {
	var sb strings.Builder
	sb.Grow(g.n)
	for i := 0; i < g.n; i++ {
		if g.Bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Equal reports whether g and o hold the same bits.
func (g Genotype) Equal(o Genotype) bool {
	return g.n == o.n && slices.Equal(g.data, o.data)
}

// Hamming returns the number of positions at which a and b differ.
func Hamming(a, b Genotype) (int, error) {
	if a.n != b.n {
		return 0, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, a.n, b.n)
	}
	d := 0
	for i := range a.data {
		d += bits.OnesCount8(a.data[i] ^ b.data[i])
	}
	return d, nil
}

// Sample maps labels to genotypes of one common length.
type Sample struct {
	length    int
	genotypes map[string]Genotype
}

// New returns an empty sample.
func New() *Sample {
	return &Sample{length: -1, genotypes: make(map[string]Genotype)}
}

// Set stores g under label. Every genotype of a sample has the same length.
func (s *Sample) Set(label string, g Genotype) error {
	if label == "" {
		return ErrInvalidLabel
	}
	if s.length >= 0 && g.n != s.length {
		return fmt.Errorf("%w: %q has %d bits, sample has %d", ErrLengthMismatch, label, g.n, s.length)
	}
	s.length = g.n
	s.genotypes[label] = g
	return nil
}

// Get returns the genotype stored under label.
func (s *Sample) Get(label string) (Genotype, error) {
	g, ok := s.genotypes[label]
	if !ok {
		return Genotype{}, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	return g, nil
}

// Labels returns the sample's labels in sorted order.
func (s *Sample) Labels() []string {
	return slices.Sorted(maps.Keys(s.genotypes))
}

// Len returns the number of genotypes.
func (s *Sample) Len() int { return len(s.genotypes) }

// Length returns the common genotype length, or zero for an empty sample.
func (s *Sample) Length() int { return max(s.length, 0) }

// Distance returns the Hamming distance between two labelled genotypes.
func (s *Sample) Distance(a, b string) (int, error) {
	ga, err := s.Get(a)
	if err != nil {
		return 0, err
	}
	gb, err := s.Get(b)
	if err != nil {
		return 0, err
	}
	return Hamming(ga, gb)
}
