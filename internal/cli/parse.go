package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/phylo/pkg/io"
)

// parseCommand creates the parse command, which prints canonical forms.
func (c *CLI) parseCommand() *cobra.Command {
	var (
		noHeights bool
		file      string
	)

	cmd := &cobra.Command{
		Use:   "parse [expr]",
		Short: "Print the canonical form of a tree expression",
		Long: `Parse a tree expression and print its canonical form: children sorted
by their own canonical text, heights written in shortest form.

The expression is read from the argument, from stdin when the argument is
"-" or missing, or one per line from --file.`,
		Example: `  phylo parse '(d,(c,(b,a):3):13):20'
  phylo parse --no-heights '(b,a):5'
  phylo parse -f trees.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner()
			if err != nil {
				return err
			}

			var exprs []string
			if file != "" {
				if exprs, err = pkgio.ImportExprs(file); err != nil {
					return err
				}
			} else {
				expr, err := readExpr(cmd, args)
				if err != nil {
					return err
				}
				exprs = []string{expr}
			}

			for i, expr := range exprs {
				out, err := runner.Canonicalize(cmd.Context(), expr, !noHeights)
				if err != nil {
					if file != "" {
						return fmt.Errorf("%s: expression %d: %w", file, i+1, err)
					}
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noHeights, "no-heights", false, "omit heights from the output")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read expressions from a file, one per line")

	return cmd
}

// equalCommand creates the equal command.
func (c *CLI) equalCommand() *cobra.Command {
	var topology bool

	cmd := &cobra.Command{
		Use:   "equal <expr> <expr>",
		Short: "Report whether two tree expressions describe the same tree",
		Long: `Compare two trees up to child order. With --topology heights are ignored
and only the shape and leaf labels are compared.

Prints "true" or "false".`,
		Example: `  phylo equal '((a,b):1,c):4' '(c,(b,a):1):4'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner()
			if err != nil {
				return err
			}
			eq, err := runner.Equal(cmd.Context(), args[0], args[1], topology)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), eq)
			return nil
		},
	}

	cmd.Flags().BoolVar(&topology, "topology", false, "compare shape and labels only")

	return cmd
}
