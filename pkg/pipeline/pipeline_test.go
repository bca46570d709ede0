package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/phylo/pkg/cache"
	"github.com/matzehuels/phylo/pkg/distmat"
	perrors "github.com/matzehuels/phylo/pkg/errors"
	pkgio "github.com/matzehuels/phylo/pkg/io"
	"github.com/matzehuels/phylo/pkg/pexp"
	"github.com/matzehuels/phylo/pkg/reconstruct"
	"github.com/matzehuels/phylo/pkg/render"
	"github.com/matzehuels/phylo/pkg/tree"
)

func newRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	var logs bytes.Buffer
	logger := log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel})
	return NewRunner(c, nil, logger), &logs
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	assert.IsType(t, cache.NullCache{}, r.Cache)
	assert.NotNil(t, r.Keyer)
	assert.NotNil(t, r.Logger)
	assert.Equal(t, DefaultTTL, r.TTL)
}

func TestRenderOptions(t *testing.T) {
	opts := RenderOptions{}
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, DefaultFormat, opts.Format)

	bad := RenderOptions{Format: "gif"}
	assert.ErrorIs(t, bad.ValidateAndSetDefaults(), render.ErrUnknownFormat)
}

func TestSimulateOptions(t *testing.T) {
	tests := []struct {
		opts    SimulateOptions
		wantErr bool
	}{
		{SimulateOptions{Leaves: 5}, false},
		{SimulateOptions{Leaves: 5, Population: 2}, false},
		{SimulateOptions{Leaves: 0}, true},
		{SimulateOptions{Leaves: MaxSimulatedLeaves + 1}, true},
		{SimulateOptions{Leaves: 5, Population: -1}, true},
	}
	for _, tt := range tests {
		err := tt.opts.ValidateAndSetDefaults()
		if (err != nil) != tt.wantErr {
			t.Errorf("%+v: err = %v, wantErr %v", tt.opts, err, tt.wantErr)
		}
	}
}

func TestCanonicalizeAndEqual(t *testing.T) {
	r, _ := newRunner(t)
	ctx := context.Background()

	got, err := r.Canonicalize(ctx, "(d,(c,(b,a):3):13):20", true)
	require.NoError(t, err)
	assert.Equal(t, "(((a,b):3,c):13,d):20", got)

	eq, err := r.Equal(ctx, "((a,b):1,c):4", "(c,(b,a):1):4", false)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = r.Equal(ctx, "((a,b):1,c):4", "((a,b):2,c):4", false)
	require.NoError(t, err)
	assert.False(t, eq)

	eq, err = r.Equal(ctx, "((a,b):1,c):4", "((a,b):2,c):4", true)
	require.NoError(t, err)
	assert.True(t, eq)

	_, err = r.Canonicalize(ctx, "((a,b):1", true)
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidFormat))
	assert.ErrorIs(t, err, pexp.ErrMalformed)
}

func TestMatrixCaching(t *testing.T) {
	r, logs := newRunner(t)
	ctx := context.Background()

	m, hit, err := r.Matrix(ctx, "(((a,b):3,c):13,d):20")
	require.NoError(t, err)
	assert.False(t, hit)
	d, err := m.Get("a", "d")
	require.NoError(t, err)
	assert.Equal(t, 40.0, d)

	again, hit, err := r.Matrix(ctx, "(d,((b,a):3,c):13):20")
	require.NoError(t, err)
	assert.True(t, hit, "different spelling of the same tree should hit")
	assert.True(t, m.Equal(again))
	assert.Contains(t, logs.String(), "matrix cache hit")
}

func TestReconstruct(t *testing.T) {
	r, _ := newRunner(t)
	ctx := context.Background()

	m, err := distmat.FromPexp("((a,b,c):2,(d,e):3):8")
	require.NoError(t, err)

	text, hit, err := r.Reconstruct(ctx, m)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "((a,b,c):2,(d,e):3):8", text)

	text, hit, err = r.Reconstruct(ctx, m.Copy())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "((a,b,c):2,(d,e):3):8", text)

	text, _, err = r.Reconstruct(ctx, distmat.New())
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestReconstructErrors(t *testing.T) {
	r, _ := newRunner(t)
	ctx := context.Background()

	bad, err := distmat.FromMap(map[string]map[string]float64{
		"a": {"b": 2, "c": 6},
		"b": {"c": 8},
	})
	require.NoError(t, err)
	_, _, err = r.Reconstruct(ctx, bad)
	assert.True(t, perrors.Is(err, perrors.ErrCodeNotUltrametric), "got %v", err)
	assert.ErrorIs(t, err, reconstruct.ErrNotUltrametric)

	incomplete := distmat.New()
	require.NoError(t, incomplete.Set("a", "b", 2))
	require.NoError(t, incomplete.Add("c"))
	_, _, err = r.Reconstruct(ctx, incomplete)
	assert.True(t, perrors.Is(err, perrors.ErrCodeIncompleteMatrix), "got %v", err)

	reserved := distmat.New()
	require.NoError(t, reserved.Set("a:1", "b", 2))
	_, _, err = r.Reconstruct(ctx, reserved)
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidLabel), "got %v", err)
}

func TestRenderCaching(t *testing.T) {
	r, _ := newRunner(t)
	ctx := context.Background()

	dot, hit, err := r.Render(ctx, "(b,a):5", RenderOptions{Format: render.FormatDOT})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Contains(t, string(dot), "digraph T")

	_, hit, err = r.Render(ctx, "(a,b):5", RenderOptions{Format: render.FormatDOT})
	require.NoError(t, err)
	assert.True(t, hit)

	_, hit, err = r.Render(ctx, "(a,b):5", RenderOptions{Format: render.FormatDOT, Heights: true})
	require.NoError(t, err)
	assert.False(t, hit, "heights change the output")

	_, _, err = r.Render(ctx, "(a,b):5", RenderOptions{Format: "gif"})
	assert.True(t, perrors.Is(err, perrors.ErrCodeUnsupported), "got %v", err)
}

func TestSimulate(t *testing.T) {
	r, _ := newRunner(t)
	ctx := context.Background()

	a, err := r.Simulate(ctx, SimulateOptions{Leaves: 8, Population: 4, Seed: 42})
	require.NoError(t, err)
	b, err := r.Simulate(ctx, SimulateOptions{Leaves: 8, Population: 4, Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, a, b, "same seed should give the same tree")

	root := pexp.MustParse(a, tree.Metric)
	assert.Equal(t, 8, root.NumLeaves())

	_, err = r.Simulate(ctx, SimulateOptions{})
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidInput))
}

func TestSimulateReconstructRoundTrip(t *testing.T) {
	r, _ := newRunner(t)
	ctx := context.Background()

	for seed := uint64(1); seed <= 10; seed++ {
		text, err := r.Simulate(ctx, SimulateOptions{Leaves: 12, Population: 6, Seed: seed})
		require.NoError(t, err)
		m, _, err := r.Matrix(ctx, text)
		require.NoError(t, err)
		got, _, err := r.Reconstruct(ctx, m)
		require.NoError(t, err)
		assert.Equal(t, text, got, "seed %d", seed)
	}
}

func TestClassify(t *testing.T) {
	_, decodeErr := pkgio.ReadMatrix(strings.NewReader("{]"), pkgio.FormatJSON)
	tests := []struct {
		name string
		err  error
		want perrors.Code
	}{
		{"malformed", fmt.Errorf("parse: %w", pexp.ErrMalformed), perrors.ErrCodeInvalidFormat},
		{"missing height", pexp.ErrMissingHeight, perrors.ErrCodeInvalidFormat},
		{"incomplete", fmt.Errorf("%w: %w", reconstruct.ErrIncomplete, distmat.ErrUnset), perrors.ErrCodeIncompleteMatrix},
		{"unset", distmat.ErrUnset, perrors.ErrCodeIncompleteMatrix},
		{"distance", distmat.ErrInvalidDistance, perrors.ErrCodeInvalidDistance},
		{"unknown label", distmat.ErrUnknownLabel, perrors.ErrCodeLabelNotFound},
		{"height order", tree.ErrHeightOrder, perrors.ErrCodeStructure},
		{"file", fmt.Errorf("open x: %w", os.ErrNotExist), perrors.ErrCodeFileNotFound},
		{"timeout", context.DeadlineExceeded, perrors.ErrCodeTimeout},
		{"decode", decodeErr, perrors.ErrCodeInvalidFormat},
		{"coded", perrors.New(perrors.ErrCodeNotFound, "x"), perrors.ErrCodeNotFound},
		{"other", errors.New("boom"), perrors.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.want, perrors.GetCode(got))
			assert.ErrorIs(t, got, tt.err)
		})
	}
	assert.NoError(t, Classify(nil))
}
