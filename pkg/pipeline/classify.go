package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/phylo/pkg/distmat"
	perrors "github.com/matzehuels/phylo/pkg/errors"
	pkgio "github.com/matzehuels/phylo/pkg/io"
	"github.com/matzehuels/phylo/pkg/pexp"
	"github.com/matzehuels/phylo/pkg/reconstruct"
	"github.com/matzehuels/phylo/pkg/render"
	"github.com/matzehuels/phylo/pkg/sample"
	"github.com/matzehuels/phylo/pkg/tree"
)

type classification struct {
	targets []error
	code    perrors.Code
	message string
}

// Order matters: ErrIncomplete wraps distmat.ErrUnset, and missing heights
// are reported before generic syntax errors.
var classifications = []classification{
	{[]error{reconstruct.ErrIncomplete, distmat.ErrUnset}, perrors.ErrCodeIncompleteMatrix, "distance matrix is incomplete"},
	{[]error{reconstruct.ErrNotUltrametric}, perrors.ErrCodeNotUltrametric, "distances are not ultrametric"},
	{[]error{pexp.ErrMissingHeight, pexp.ErrMalformed}, perrors.ErrCodeInvalidFormat, "malformed expression"},
	{[]error{
		pexp.ErrDuplicateLabel, tree.ErrDuplicateLabel, pkgio.ErrDuplicateLabel,
		tree.ErrInvalidLabel, distmat.ErrInvalidLabel, sample.ErrInvalidLabel,
	}, perrors.ErrCodeInvalidLabel, "invalid label"},
	{[]error{distmat.ErrInvalidDistance, distmat.ErrNonZeroDiagonal, distmat.ErrConflict}, perrors.ErrCodeInvalidDistance, "invalid distance"},
	{[]error{distmat.ErrUnknownLabel, sample.ErrUnknownLabel}, perrors.ErrCodeLabelNotFound, "unknown label"},
	{[]error{sample.ErrInvalidBit, sample.ErrLengthMismatch}, perrors.ErrCodeInvalidInput, "invalid sample"},
	{[]error{
		tree.ErrHeightOrder, tree.ErrLeafHeight, tree.ErrInvalidHeight,
		tree.ErrLabeledParent, tree.ErrAttached, tree.ErrCycle, tree.ErrNotChild,
		tree.ErrKindMismatch, tree.ErrForeignNode,
	}, perrors.ErrCodeStructure, "invalid tree structure"},
	{[]error{pkgio.ErrUnknownFormat, render.ErrUnknownFormat, render.ErrNoConverter}, perrors.ErrCodeUnsupported, "unsupported format"},
	{[]error{fs.ErrNotExist}, perrors.ErrCodeFileNotFound, "file not found"},
	{[]error{context.DeadlineExceeded, context.Canceled}, perrors.ErrCodeTimeout, "operation timed out"},
}

// Classify attaches an error code to err. Errors that already carry a code
// are returned unchanged; unknown errors become ErrCodeInternal. The result
// still unwraps to err.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if perrors.GetCode(err) != "" {
		return err
	}
	for _, c := range classifications {
		for _, target := range c.targets {
			if errors.Is(err, target) {
				return perrors.Wrap(c.code, err, "%s", c.message)
			}
		}
	}

	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		tomlErr   toml.ParseError
	)
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.As(err, &tomlErr) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return perrors.Wrap(perrors.ErrCodeInvalidFormat, err, "malformed matrix file")
	}
	return perrors.Wrap(perrors.ErrCodeInternal, err, "internal error")
}
