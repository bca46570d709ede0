package pexp

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/phylo/pkg/tree"
)

var (
	// ErrMalformed is matched by every syntax error.
	ErrMalformed = errors.New("pexp: malformed expression")

	// ErrMissingHeight is returned when an internal node has no ':height'
	// where one is required.
	ErrMissingHeight = errors.New("pexp: internal node has no height")

	// ErrHeightOrder is returned when a node is not strictly taller than one
	// of its children. It is the tree package's sentinel, so errors from
	// either package match.
	ErrHeightOrder = tree.ErrHeightOrder

	// ErrDuplicateLabel is returned when a leaf label occurs twice.
	ErrDuplicateLabel = errors.New("pexp: duplicate leaf label")
)

// SyntaxError describes malformed input at a byte offset.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("pexp: offset %d: %s", e.Pos, e.Msg)
}

// Is makes every SyntaxError match ErrMalformed.
func (e *SyntaxError) Is(target error) bool { return target == ErrMalformed }

func errf(pos int, format string, v ...any) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, v...)}
}

// Expr is the syntax tree of one expression. A leaf has a Label and no
// Children. Pos and End delimit the expression's source text.
type Expr struct {
	Label     string
	Children  []*Expr
	Height    float64
	HasHeight bool
	Pos, End  int
}

// IsLeaf reports whether e is a leaf.
func (e *Expr) IsLeaf() bool { return len(e.Children) == 0 }

// ParseExpr parses text into its syntax tree.
func ParseExpr(text string) (*Expr, error) {
	p := &parser{toks: Tokenize(text)}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.Kind != TokenEOF {
		return nil, errf(t.Pos, "unexpected %s after expression", t.Kind)
	}
	return e, nil
}

type parser struct {
	toks []Token
	pos  int
}

func (p *parser) peek() Token { return p.toks[p.pos] }

func (p *parser) next() Token {
	t := p.toks[p.pos]
	if t.Kind != TokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) expr() (*Expr, error) {
	t := p.next()
	switch t.Kind {
	case TokenText:
		return &Expr{Label: t.Text, Pos: t.Pos, End: t.Pos + len(t.Text)}, nil
	case TokenOpen:
	case TokenEOF:
		return nil, errf(t.Pos, "unexpected end of input, expected a label or '('")
	default:
		return nil, errf(t.Pos, "unexpected %s, expected a label or '('", t.Kind)
	}

	e := &Expr{Pos: t.Pos}
	for {
		child, err := p.expr()
		if err != nil {
			return nil, err
		}
		e.Children = append(e.Children, child)

		sep := p.next()
		if sep.Kind == TokenComma {
			continue
		}
		if sep.Kind == TokenClose {
			e.End = sep.Pos + 1
			break
		}
		if sep.Kind == TokenEOF {
			return nil, errf(sep.Pos, "unbalanced parentheses")
		}
		return nil, errf(sep.Pos, "unexpected %s, expected ',' or ')'", sep.Kind)
	}

	if p.peek().Kind != TokenColon {
		return e, nil
	}
	p.next()
	num := p.next()
	if num.Kind != TokenText {
		return nil, errf(num.Pos, "expected a height after ':'")
	}
	h, err := parseHeight(num.Text)
	if err != nil {
		return nil, errf(num.Pos, "%v", err)
	}
	e.Height, e.HasHeight = h, true
	e.End = num.Pos + len(num.Text)
	return e, nil
}

func parseHeight(s string) (float64, error) {
	h, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid height %q", s)
	}
	if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		return 0, fmt.Errorf("height %q must be finite and non-negative", s)
	}
	return h, nil
}

// Parse builds a tree of the given variant from text in a new forest.
//
// Metric trees need a height on every internal node. Unweighted trees accept
// and discard heights, since their heights are derived from depth.
func Parse(text string, kind tree.Kind) (tree.Node, error) {
	return ParseInto(tree.NewForest(kind), text)
}

// ParseInto is like Parse but allocates the nodes in f. On error no node is
// left behind in f.
func ParseInto(f *tree.Forest, text string) (tree.Node, error) {
	e, err := ParseExpr(text)
	if err != nil {
		return tree.Node{}, err
	}
	if err := checkLabels(e, make(map[string]bool)); err != nil {
		return tree.Node{}, err
	}
	var built []tree.Node
	n, err := build(f, e, &built)
	if err != nil {
		for _, b := range built {
			if b.Valid() && b.Parent().IsZero() {
				_ = b.Delete()
			}
		}
		return tree.Node{}, err
	}
	return n, nil
}

// MustParse is like Parse but panics on error. It simplifies fixtures.
func MustParse(text string, kind tree.Kind) tree.Node {
	n, err := Parse(text, kind)
	if err != nil {
		panic(err)
	}
	return n
}

func checkLabels(e *Expr, seen map[string]bool) error {
	if e.IsLeaf() {
		if seen[e.Label] {
			return fmt.Errorf("%w: %q", ErrDuplicateLabel, e.Label)
		}
		seen[e.Label] = true
		return nil
	}
	for _, c := range e.Children {
		if err := checkLabels(c, seen); err != nil {
			return err
		}
	}
	return nil
}

// build materializes e bottom-up. Every node it creates is recorded in built
// so a failed parse can release partial subtrees.
func build(f *tree.Forest, e *Expr, built *[]tree.Node) (tree.Node, error) {
	if e.IsLeaf() {
		n, err := f.NewLeaf(e.Label)
		if err != nil {
			return tree.Node{}, err
		}
		*built = append(*built, n)
		return n, nil
	}
	if f.Kind() == tree.Metric && !e.HasHeight {
		return tree.Node{}, fmt.Errorf("%w at offset %d", ErrMissingHeight, e.Pos)
	}
	children := make([]tree.Node, 0, len(e.Children))
	for _, c := range e.Children {
		n, err := build(f, c, built)
		if err != nil {
			return tree.Node{}, err
		}
		children = append(children, n)
	}
	n, err := f.Join(e.Height, children...)
	if err != nil {
		return tree.Node{}, fmt.Errorf("node at offset %d: %w", e.Pos, err)
	}
	*built = append(*built, n)
	return n, nil
}
