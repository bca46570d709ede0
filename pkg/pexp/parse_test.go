package pexp

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/phylo/pkg/tree"
)

func TestTokenize(t *testing.T) {
	toks := Tokenize("( a , b c ):5")
	want := []Token{
		{TokenOpen, "(", 0},
		{TokenText, "a", 2},
		{TokenComma, ",", 4},
		{TokenText, "b c", 6},
		{TokenClose, ")", 10},
		{TokenColon, ":", 11},
		{TokenText, "5", 12},
		{TokenEOF, "", 13},
	}
	assert.Equal(t, want, toks)
}

func TestTokenKindString(t *testing.T) {
	assert.Equal(t, "'('", TokenOpen.String())
	assert.Equal(t, "EOF", TokenEOF.String())
	assert.Equal(t, "?", TokenKind(42).String())
}

func TestParseExprErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		pos  int
	}{
		{"empty", "", 0},
		{"unclosed", "(a,b", 4},
		{"extra close", "a)", 1},
		{"missing height", "(a,b):", 6},
		{"bad height", "(a,b):x", 6},
		{"negative height", "(a,b):-1", 6},
		{"nan height", "(a,b):NaN", 6},
		{"empty child", "(,a)", 1},
		{"empty list", "()", 1},
		{"leaf height", "a:3", 1},
		{"two trees", "(a,b):1 (c,d):1", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExpr(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
			var se *SyntaxError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.pos, se.Pos)
		})
	}
}

func TestParseExpr(t *testing.T) {
	e, err := ParseExpr("(d,(c,(a,b):3):13):20")
	require.NoError(t, err)
	assert.True(t, e.HasHeight)
	assert.Equal(t, 20.0, e.Height)
	require.Len(t, e.Children, 2)
	assert.Equal(t, "d", e.Children[0].Label)
	assert.Equal(t, 13.0, e.Children[1].Height)
	assert.Equal(t, 0, e.Pos)
	assert.Equal(t, len("(d,(c,(a,b):3):13):20"), e.End)
}

func TestParseScenario(t *testing.T) {
	n, err := Parse("(b,a):5", tree.Metric)
	require.NoError(t, err)

	f := tree.NewForest(tree.Metric)
	want := f.MustJoin(5, f.MustLeaf("a"), f.MustLeaf("b"))
	assert.True(t, tree.Equal(n, want))

	got, err := Render(n, true)
	require.NoError(t, err)
	assert.Equal(t, "(a,b):5", got)
}

func TestParseMetricErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"missing height", "((a,b):5,c)", ErrMissingHeight},
		{"child taller", "((a,b):5,c):3", ErrHeightOrder},
		{"leaf at zero", "(a,b):0", ErrHeightOrder},
		{"duplicate", "((a,b):1,a):2", ErrDuplicateLabel},
		{"syntax", "((a,b):1,c:2", ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tree.NewForest(tree.Metric)
			_, err := ParseInto(f, tt.in)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, f.Len(), "failed parse left nodes behind")
		})
	}
}

func TestParseUnweighted(t *testing.T) {
	n, err := Parse("((a,b),c)", tree.Unweighted)
	require.NoError(t, err)
	assert.Equal(t, tree.Unweighted, n.Kind())
	assert.Equal(t, 2.0, n.Height())

	got, err := Render(n, true)
	require.NoError(t, err)
	assert.Equal(t, "((a,b):1,c):2", got)

	// Heights on unweighted input are accepted and discarded.
	m, err := Parse("((a,b):7,c):9", tree.Unweighted)
	require.NoError(t, err)
	assert.True(t, tree.Equal(n, m))
}

func TestParseLeaf(t *testing.T) {
	n, err := Parse("  a ", tree.Metric)
	require.NoError(t, err)
	assert.True(t, n.IsLeaf())
	assert.Equal(t, "a", n.Label())
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("(a,b", tree.Metric) })
}

func TestRoundTripGenerated(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed*7))
		orig, err := tree.Evolve(8, 4, rng)
		require.NoError(t, err)

		text, err := Render(orig, true)
		require.NoError(t, err)

		back, err := Parse(text, tree.Metric)
		require.NoError(t, err, "seed %d: %s", seed, text)
		assert.True(t, tree.Equal(orig, back), "seed %d: parse(render(t)) != t", seed)

		canon, err := Canonicalize(text, true)
		require.NoError(t, err)
		assert.Equal(t, text, canon, "seed %d: render is not canonical", seed)

		again, err := Render(back, true)
		require.NoError(t, err)
		assert.Equal(t, text, again)
	}
}

func TestRenderWithoutHeights(t *testing.T) {
	n := MustParse("(d,(c,(a,b):3):13):20", tree.Metric)
	got, err := Render(n, false)
	require.NoError(t, err)
	assert.Equal(t, "(((a,b),c),d)", got)

	_, err = Render(tree.Node{}, true)
	assert.ErrorIs(t, err, tree.ErrInvalidNode)
}

func TestRenderFractionalHeights(t *testing.T) {
	n := MustParse("(b,a):2.50", tree.Metric)
	got, err := Render(n, true)
	require.NoError(t, err)
	assert.Equal(t, "(a,b):2.5", got)
}

func TestRenderEqualHeights(t *testing.T) {
	f := tree.NewForest(tree.Metric)
	inner := f.MustJoin(3, f.MustLeaf("a"), f.MustLeaf("b"))
	root := f.MustJoin(3, inner, f.MustLeaf("c"))

	_, err := Render(root, true)
	assert.ErrorIs(t, err, ErrHeightOrder)

	got, err := Render(root, false)
	require.NoError(t, err)
	assert.Equal(t, "((a,b),c)", got)

	parsed := MustParse("((a,b):3,c):3", tree.Metric)
	_, err = Render(parsed, true)
	assert.ErrorIs(t, err, ErrHeightOrder)
	_, err = Canonicalize("((a,b):3,c):3", true)
	assert.ErrorIs(t, err, ErrHeightOrder)
}

func TestRenderAfterCut(t *testing.T) {
	root := MustParse("((a,b):3,c):5", tree.Metric)
	for _, label := range []string{"a", "b"} {
		leaf, ok := root.FindLeaf(label)
		require.True(t, ok)
		_, _, err := leaf.Cut()
		require.NoError(t, err)
	}

	_, err := Render(root, true)
	assert.ErrorIs(t, err, tree.ErrInvalidLabel)
	_, err = Render(root, false)
	assert.ErrorIs(t, err, tree.ErrInvalidLabel)

	f := tree.NewForest(tree.Metric)
	bare, err := f.NewInternal(2)
	require.NoError(t, err)
	_, err = Render(bare, true)
	assert.ErrorIs(t, err, tree.ErrInvalidLabel)
}
