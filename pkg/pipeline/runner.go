package pipeline

import (
	"bytes"
	"context"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/phylo/pkg/cache"
	"github.com/matzehuels/phylo/pkg/distmat"
	perrors "github.com/matzehuels/phylo/pkg/errors"
	pkgio "github.com/matzehuels/phylo/pkg/io"
	"github.com/matzehuels/phylo/pkg/observability"
	"github.com/matzehuels/phylo/pkg/pexp"
	"github.com/matzehuels/phylo/pkg/reconstruct"
	"github.com/matzehuels/phylo/pkg/render"
	"github.com/matzehuels/phylo/pkg/tree"
)

// Runner runs pipeline stages with caching and logging.
//
// A Runner keeps no per-call state: every call builds its own trees, so one
// Runner may serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer uses
// the default keys and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    DefaultTTL,
	}
}

// Canonicalize returns the canonical form of expr.
func (r *Runner) Canonicalize(_ context.Context, expr string, heights bool) (string, error) {
	out, err := pexp.Canonicalize(expr, heights)
	if err != nil {
		return "", Classify(err)
	}
	return out, nil
}

// Equal reports whether a and b describe the same tree. With topologyOnly,
// heights are ignored.
func (r *Runner) Equal(_ context.Context, a, b string, topologyOnly bool) (bool, error) {
	eq := pexp.Equal
	if topologyOnly {
		eq = pexp.Isomorphic
	}
	ok, err := eq(a, b)
	if err != nil {
		return false, Classify(err)
	}
	return ok, nil
}

// Matrix derives the distance matrix of a metric expression. The bool
// reports a cache hit.
func (r *Runner) Matrix(ctx context.Context, expr string) (*distmat.Matrix, bool, error) {
	canon, err := pexp.Canonicalize(expr, true)
	if err != nil {
		return nil, false, Classify(err)
	}
	key := r.Keyer.MatrixKey(cache.Hash([]byte(canon)))

	if data, hit := r.lookup(ctx, "matrix", key); hit {
		if m, err := pkgio.ReadMatrix(bytes.NewReader(data), pkgio.FormatJSON); err == nil {
			r.Logger.Debug("matrix cache hit", "key", key)
			return m, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, observability.StageMatrix)
	start := time.Now()
	m, err := distmat.FromPexp(canon)
	if err != nil {
		hooks.OnStageComplete(ctx, observability.StageMatrix, 0, time.Since(start), err)
		return nil, false, Classify(err)
	}
	hooks.OnStageComplete(ctx, observability.StageMatrix, m.Len(), time.Since(start), nil)
	r.Logger.Info("derived matrix", "labels", m.Len(), "duration", time.Since(start))

	var buf bytes.Buffer
	if err := pkgio.WriteMatrix(&buf, m, pkgio.FormatJSON); err == nil {
		r.store(ctx, "matrix", key, buf.Bytes())
	}
	return m, false, nil
}

// Reconstruct rebuilds the tree of an ultrametric matrix and returns its
// canonical expression with heights. An empty matrix yields "". The bool
// reports a cache hit.
func (r *Runner) Reconstruct(ctx context.Context, m *distmat.Matrix) (string, bool, error) {
	if err := perrors.ValidateLabels(m.Labels()); err != nil {
		return "", false, err
	}

	var buf bytes.Buffer
	if err := pkgio.WriteMatrix(&buf, m, pkgio.FormatJSON); err != nil {
		return "", false, Classify(err)
	}
	key := r.Keyer.TreeKey(cache.Hash(buf.Bytes()))

	if data, hit := r.lookup(ctx, "tree", key); hit {
		r.Logger.Debug("tree cache hit", "key", key)
		return string(data), true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, observability.StageReconstruct)
	start := time.Now()
	rec := reconstruct.Reconstructor{Logger: r.Logger}
	root, err := rec.Reconstruct(m)
	hooks.OnStageComplete(ctx, observability.StageReconstruct, m.Len(), time.Since(start), err)
	if err != nil {
		return "", false, Classify(err)
	}
	if root.IsZero() {
		return "", false, nil
	}
	defer func() { _ = root.Delete() }()

	text, err := pexp.Render(root, true)
	if err != nil {
		return "", false, Classify(err)
	}
	r.Logger.Info("reconstructed tree",
		"leaves", root.NumLeaves(),
		"height", root.Height(),
		"duration", time.Since(start))

	r.store(ctx, "tree", key, []byte(text))
	return text, false, nil
}

// Render draws a metric expression. The bool reports a cache hit.
func (r *Runner) Render(ctx context.Context, expr string, opts RenderOptions) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, Classify(err)
	}
	canon, err := pexp.Canonicalize(expr, true)
	if err != nil {
		return nil, false, Classify(err)
	}
	key := r.Keyer.RenderKey(cache.Hash([]byte(canon)), cache.RenderKeyOpts{
		Format:  string(opts.Format),
		Heights: opts.Heights,
	})

	if data, hit := r.lookup(ctx, "render", key); hit {
		r.Logger.Debug("render cache hit", "key", key, "format", opts.Format)
		return data, true, nil
	}

	root, err := pexp.Parse(canon, tree.Metric)
	if err != nil {
		return nil, false, Classify(err)
	}
	defer func() { _ = root.Delete() }()

	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, observability.StageRender)
	start := time.Now()
	data, err := render.Render(ctx, root, opts.Format, render.Options{Heights: opts.Heights})
	hooks.OnStageComplete(ctx, observability.StageRender, len(data), time.Since(start), err)
	if err != nil {
		return nil, false, Classify(err)
	}
	r.Logger.Info("rendered tree",
		"format", opts.Format,
		"bytes", len(data),
		"duration", time.Since(start))

	r.store(ctx, "render", key, data)
	return data, false, nil
}

// Simulate generates a random ultrametric tree and returns its canonical
// expression with heights.
func (r *Runner) Simulate(ctx context.Context, opts SimulateOptions) (string, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return "", perrors.Wrap(perrors.ErrCodeInvalidInput, err, "simulate")
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, observability.StageSimulate)
	start := time.Now()
	root, err := tree.Evolve(opts.Leaves, opts.Population, rng)
	hooks.OnStageComplete(ctx, observability.StageSimulate, opts.Leaves, time.Since(start), err)
	if err != nil {
		return "", Classify(err)
	}
	defer func() { _ = root.Delete() }()

	text, err := pexp.Render(root, true)
	if err != nil {
		return "", Classify(err)
	}
	r.Logger.Debug("simulated tree", "leaves", opts.Leaves, "population", opts.Population, "seed", seed)
	return text, nil
}

// lookup reads key from the cache. Cache failures count as misses.
func (r *Runner) lookup(ctx context.Context, kind, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache get failed", "key", key, "err", err)
		hit = false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, kind)
	} else {
		observability.Cache().OnCacheMiss(ctx, kind)
	}
	return data, hit
}

func (r *Runner) store(ctx context.Context, kind, key string, data []byte) {
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache set failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}
