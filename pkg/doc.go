// Package pkg provides the core libraries of phylo.
//
// # Overview
//
// Phylo works with rooted phylogenetic trees: leaves carry taxon labels and
// internal nodes carry heights (metric trees) or are implicitly one level
// above their deepest child (unweighted trees). Trees are written as
// parenthesized expressions such as
//
//	(((a,b):3,c):13,d):20
//
// and every tree has exactly one canonical spelling.
//
// # Architecture
//
// The typical data flow:
//
//	expression ──[pexp]──▶ tree ──[distmat]──▶ distance matrix
//	                        ▲                        │
//	                        └─────[reconstruct]──────┘
//	                        │
//	                     [render] ──▶ DOT / SVG / PDF / PNG
//
// # Main Packages
//
// ## Core
//
// [tree] - Arena-backed forests of metric or unweighted trees. Nodes are
// cheap handles; structural edits validate before they mutate.
//
// [pexp] - The expression format: tokenizer, parser, canonical renderer and
// text-level helpers (Canonicalize, Equal, Isomorphic, JoinChildren).
//
// [distmat] - Labeled symmetric distance matrices with unset pairs, derived
// from trees or from genotype samples, with gonum export.
//
// [sample] - Binary genotypes and Hamming distances.
//
// [reconstruct] - The unique metric tree of an ultrametric matrix.
//
// ## Output
//
// [render] - Graphviz DOT for trees, SVG through go-graphviz, PDF and PNG
// through rsvg-convert.
//
// [io] - JSON and TOML matrix files, sample and expression line files.
//
// ## Infrastructure
//
// [pipeline] - The stages above behind one Runner, with caching, logging
// and error classification. Used by both the CLI and the HTTP API.
//
// [cache] - File, Redis and null result caches with scoped keys.
//
// [errors] - Machine-readable error codes for the CLI and API boundary.
//
// [observability] - Hooks for pipeline, cache and server metrics.
//
// [buildinfo] - Version information set at build time.
//
// # Common Workflows
//
// Reconstruct a tree from a matrix file:
//
//	m, _ := io.ImportMatrix("dist.toml")
//	root, err := reconstruct.FromMatrix(m)
//	if errors.Is(err, reconstruct.ErrNotUltrametric) {
//	    // the distances admit no tree
//	}
//	text, _ := pexp.Render(root, true)
//
// Compare two spellings of a tree:
//
//	same, _ := pexp.Equal("((a,b):1,c):4", "(c,(b,a):1):4") // true
//
// Render with heights:
//
//	root := pexp.MustParse("((a,b):2,c):5", tree.Metric)
//	svg, _ := render.Render(ctx, root, render.FormatSVG, render.Options{Heights: true})
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/reconstruct/...        # Specific package
//	go test -run Example ./pkg/...       # Examples only
package pkg
