package pexp

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
)

// FirstName returns the first leaf label that appears in text, reading left
// to right. For a canonical expression this is also the smallest label.
func FirstName(text string) string {
	for _, t := range Tokenize(text) {
		if t.Kind == TokenText {
			return t.Text
		}
	}
	return ""
}

// Height returns the height written on the outermost node of text: zero for
// a leaf, ErrMissingHeight for an internal node without one.
func Height(text string) (float64, error) {
	e, err := ParseExpr(text)
	if err != nil {
		return 0, err
	}
	return exprHeight(e)
}

func exprHeight(e *Expr) (float64, error) {
	if e.IsLeaf() {
		return 0, nil
	}
	if !e.HasHeight {
		return 0, fmt.Errorf("%w at offset %d", ErrMissingHeight, e.Pos)
	}
	return e.Height, nil
}

// Children splits text into the source text of its top-level children. A
// leaf has none.
func Children(text string) ([]string, error) {
	e, err := ParseExpr(text)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(e.Children))
	for i, c := range e.Children {
		out[i] = text[c.Pos:c.End]
	}
	return out, nil
}

// JoinChildren combines child expressions under a new node. Children are
// sorted by first leaf label, ties broken by text, and kept verbatim
// otherwise. With includeHeight the result ends in ':height', and height must
// be strictly greater than every child's height.
func JoinChildren(height float64, children []string, includeHeight bool) (string, error) {
	if len(children) == 0 {
		return "", errf(0, "no children to join")
	}
	if includeHeight && (math.IsNaN(height) || math.IsInf(height, 0) || height < 0) {
		return "", fmt.Errorf("pexp: invalid height %v", height)
	}
	parts := make([]renderedChild, len(children))
	for i, c := range children {
		e, err := ParseExpr(c)
		if err != nil {
			return "", fmt.Errorf("child %d: %w", i, err)
		}
		if includeHeight {
			h, err := exprHeight(e)
			if err != nil {
				return "", fmt.Errorf("child %d: %w", i, err)
			}
			if h >= height {
				return "", fmt.Errorf("%w: child %d at %v, parent at %v", ErrHeightOrder, i, h, height)
			}
		}
		parts[i] = renderedChild{first: FirstName(c), text: strings.TrimSpace(c)}
	}
	return join(parts, height, includeHeight), nil
}

func join(parts []renderedChild, height float64, includeHeight bool) string {
	slices.SortStableFunc(parts, func(a, b renderedChild) int {
		return cmp.Or(cmp.Compare(a.first, b.first), cmp.Compare(a.text, b.text))
	})
	var sb strings.Builder
	sb.WriteByte(openParen)
	for i, p := range parts {
		if i > 0 {
			sb.WriteByte(sepChildren)
		}
		sb.WriteString(p.text)
	}
	sb.WriteByte(closeParen)
	if includeHeight {
		sb.WriteByte(sepHeight)
		sb.WriteString(FormatHeight(height))
	}
	return sb.String()
}

// Canonicalize rewrites text in canonical form, re-sorting every level. With
// includeHeight every internal node must carry a height strictly above its
// children's; without it all heights are dropped.
func Canonicalize(text string, includeHeight bool) (string, error) {
	e, err := ParseExpr(text)
	if err != nil {
		return "", err
	}
	c, err := canonical(e, includeHeight)
	if err != nil {
		return "", err
	}
	return c.text, nil
}

func canonical(e *Expr, includeHeight bool) (renderedChild, error) {
	if e.IsLeaf() {
		return renderedChild{first: e.Label, text: e.Label}, nil
	}
	if includeHeight && !e.HasHeight {
		return renderedChild{}, fmt.Errorf("%w at offset %d", ErrMissingHeight, e.Pos)
	}
	parts := make([]renderedChild, len(e.Children))
	for i, c := range e.Children {
		p, err := canonical(c, includeHeight)
		if err != nil {
			return renderedChild{}, err
		}
		if includeHeight {
			h, _ := exprHeight(c)
			if h >= e.Height {
				return renderedChild{}, fmt.Errorf("%w: node at offset %d (%v) is not above child at offset %d (%v)",
					ErrHeightOrder, e.Pos, e.Height, c.Pos, h)
			}
		}
		parts[i] = p
	}
	text := join(parts, e.Height, includeHeight)
	return renderedChild{first: parts[0].first, text: text}, nil
}

// Equal reports whether a and b describe the same metric tree. Identical
// strings are equal without parsing; otherwise both sides are canonicalized
// with heights and compared.
func Equal(a, b string) (bool, error) {
	return equalWith(a, b, true)
}

// Isomorphic reports whether a and b describe the same tree shape with the
// same leaf labels, ignoring heights.
func Isomorphic(a, b string) (bool, error) {
	return equalWith(a, b, false)
}

func equalWith(a, b string, includeHeight bool) (bool, error) {
	if a == b {
		return true, nil
	}
	ca, err := Canonicalize(a, includeHeight)
	if err != nil {
		return false, err
	}
	cb, err := Canonicalize(b, includeHeight)
	if err != nil {
		return false, err
	}
	return ca == cb, nil
}
