// Package cache stores pipeline results keyed by content hashes.
//
// Three backends implement [Cache]: [FileCache] for the command line,
// [RedisCache] for servers that share results across processes, and
// [NullCache] when caching is disabled. Keys are produced by a [Keyer] so the
// command line and the server agree on them; [ScopedKeyer] separates
// namespaces that share one backend.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
//
// Get reports a miss as (nil, false, nil); an error means the backend itself
// failed. A ttl of zero means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys for pipeline stages. Inputs are content hashes
// (see Hash) so equal inputs share entries regardless of formatting.
type Keyer interface {
	// TreeKey keys the canonical expression reconstructed from a matrix.
	TreeKey(matrixHash string) string
	// MatrixKey keys the matrix derived from an expression.
	MatrixKey(exprHash string) string
	// RenderKey keys a rendered artifact of an expression.
	RenderKey(exprHash string, opts RenderKeyOpts) string
}

// RenderKeyOpts are the render settings that change the output bytes.
type RenderKeyOpts struct {
	Format  string
	Heights bool
}

// Hash returns the hex SHA-256 of data. Keyers expect their inputs in this
// form.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DefaultKeyer produces keys of the form "stage:settings...:hash", for
// example "render:svg:heights:<hash>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TreeKey implements Keyer.
func (DefaultKeyer) TreeKey(matrixHash string) string {
	return "tree:" + matrixHash
}

// MatrixKey implements Keyer.
func (DefaultKeyer) MatrixKey(exprHash string) string {
	return "matrix:" + exprHash
}

// RenderKey implements Keyer.
func (DefaultKeyer) RenderKey(exprHash string, opts RenderKeyOpts) string {
	heights := "plain"
	if opts.Heights {
		heights = "heights"
	}
	return strings.Join([]string{"render", strings.ToLower(opts.Format), heights, exprHash}, ":")
}
