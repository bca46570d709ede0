// Package pipeline ties the phylo packages together for the command line and
// the HTTP server.
//
// # Stages
//
// A [Runner] exposes each conversion as one call:
//
//   - [Runner.Canonicalize] and [Runner.Equal] work on expressions as text
//   - [Runner.Matrix] derives the distance matrix of an expression
//   - [Runner.Reconstruct] rebuilds the canonical expression of a matrix
//   - [Runner.Render] draws an expression as DOT, SVG, PDF or PNG
//   - [Runner.Simulate] generates a random ultrametric tree
//
// Matrix, Reconstruct and Render results are cached under keys derived from
// the canonical form of their input, so two spellings of the same tree share
// one entry.
//
// # Errors
//
// Every stage returns errors classified with [Classify]: the result carries a
// [github.com/matzehuels/phylo/pkg/errors.Code] while still matching the
// underlying sentinel with errors.Is.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	text, err := runner.Reconstruct(ctx, m)
package pipeline

import (
	"fmt"
	"time"

	"github.com/matzehuels/phylo/pkg/render"
)

const (
	// DefaultTTL is how long derived results stay cached.
	DefaultTTL = 7 * 24 * time.Hour

	// MaxSimulatedLeaves bounds Simulate.
	MaxSimulatedLeaves = 10000

	// DefaultFormat is the render format used when none is given.
	DefaultFormat = render.FormatSVG
)

// RenderOptions configures Runner.Render.
type RenderOptions struct {
	Format  render.Format
	Heights bool
}

// ValidateAndSetDefaults fills in the default format and rejects unknown
// formats.
func (o *RenderOptions) ValidateAndSetDefaults() error {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	_, err := render.ParseFormat(string(o.Format))
	return err
}

// SimulateOptions configures Runner.Simulate.
type SimulateOptions struct {
	// Leaves is the number of sampled taxa.
	Leaves int
	// Population is the number of parent slots per generation. Smaller
	// populations coalesce faster. Zero means Leaves.
	Population int
	// Seed makes the tree reproducible. Zero picks a random seed.
	Seed uint64
}

// ValidateAndSetDefaults checks the sizes.
func (o *SimulateOptions) ValidateAndSetDefaults() error {
	if o.Population == 0 {
		o.Population = o.Leaves
	}
	switch {
	case o.Leaves < 1:
		return fmt.Errorf("leaves must be positive, got %d", o.Leaves)
	case o.Leaves > MaxSimulatedLeaves:
		return fmt.Errorf("leaves must be at most %d, got %d", MaxSimulatedLeaves, o.Leaves)
	case o.Population < 1 || o.Population > MaxSimulatedLeaves:
		return fmt.Errorf("population must be between 1 and %d, got %d", MaxSimulatedLeaves, o.Population)
	}
	return nil
}
