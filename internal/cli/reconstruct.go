package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/phylo/pkg/distmat"
	pkgio "github.com/matzehuels/phylo/pkg/io"
)

// reconstructCommand creates the reconstruct command.
func (c *CLI) reconstructCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "reconstruct <matrix-file>",
		Short: "Rebuild a tree from an ultrametric distance matrix",
		Long: `Read a distance matrix and print the unique tree whose leaf distances it
lists. Every pair must be set and the distances must be ultrametric.

The file format follows the extension (.json or .toml). Use "-" to read
from stdin, with --format selecting the format.`,
		Example: `  phylo reconstruct dist.json
  cat dist.toml | phylo reconstruct --format toml -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prog := newProgress(loggerFromContext(ctx))

			m, err := c.readMatrix(cmd, args[0], format)
			if err != nil {
				return err
			}

			runner, err := c.newRunner()
			if err != nil {
				return err
			}
			expr, cached, err := runner.Reconstruct(ctx, m)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), expr)
			prog.done(fmt.Sprintf("Reconstructed %d leaves (cached: %t)", m.Len(), cached))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "matrix format for stdin (json or toml)")

	return cmd
}

func (c *CLI) readMatrix(cmd *cobra.Command, path, format string) (*distmat.Matrix, error) {
	if path != "-" {
		return pkgio.ImportMatrix(path)
	}
	f := pkgio.FormatJSON
	if format != "" {
		f = pkgio.Format(format)
	}
	return pkgio.ReadMatrix(cmd.InOrStdin(), f)
}
