package cli

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/phylo/pkg/distmat"
	pkgio "github.com/matzehuels/phylo/pkg/io"
)

// matrixOutput holds the flags shared by commands that print a matrix.
type matrixOutput struct {
	output string
	dense  bool
}

func (o *matrixOutput) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "write the matrix to a .json or .toml file")
	cmd.Flags().BoolVar(&o.dense, "dense", false, "print as a dense numeric matrix")
}

func (o *matrixOutput) write(cmd *cobra.Command, m *distmat.Matrix) error {
	out := cmd.OutOrStdout()
	switch {
	case o.output != "":
		if err := pkgio.ExportMatrix(m, o.output); err != nil {
			return err
		}
		printSuccess("Wrote matrix with %s labels", formatCount(m.Len()))
		printFile(o.output)
	case o.dense:
		d, labels := m.Dense()
		if d == nil {
			return nil
		}
		fmt.Fprintln(out, strings.Join(labels, " "))
		fmt.Fprintf(out, "%v\n", mat.Formatted(d, mat.Squeeze()))
	default:
		printMatrix(out, m)
	}
	return nil
}

// matrixCommand creates the matrix command.
func (c *CLI) matrixCommand() *cobra.Command {
	var (
		sampleFile string
		out        matrixOutput
	)

	cmd := &cobra.Command{
		Use:   "matrix [expr]",
		Short: "Derive a distance matrix from a tree or a genotype sample",
		Long: `Derive the pairwise leaf distances of a tree: twice the height of the
leaves' lowest common ancestor. With --sample the distances are Hamming
distances between the genotypes in a sample file, one "label bits" pair per
line.`,
		Example: `  phylo matrix '((a,b):2,c):5'
  phylo matrix --dense '((a,b):2,c):5'
  phylo matrix --sample genotypes.txt -o dist.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if sampleFile != "" {
				if len(args) > 0 {
					return errors.New("--sample cannot be combined with an expression")
				}
				s, err := pkgio.ImportSample(sampleFile)
				if err != nil {
					return err
				}
				m, err := distmat.FromSample(s)
				if err != nil {
					return err
				}
				logger.Debug("sample matrix", "labels", m.Len(), "length", s.Length())
				return out.write(cmd, m)
			}

			runner, err := c.newRunner()
			if err != nil {
				return err
			}
			expr, err := readExpr(cmd, args)
			if err != nil {
				return err
			}
			m, cached, err := runner.Matrix(ctx, expr)
			if err != nil {
				return err
			}
			logger.Debug("tree matrix", "labels", m.Len(), "cached", cached)
			return out.write(cmd, m)
		},
	}

	cmd.Flags().StringVar(&sampleFile, "sample", "", "genotype sample file")
	out.register(cmd)

	return cmd
}

// submatrixCommand creates the submatrix command.
func (c *CLI) submatrixCommand() *cobra.Command {
	var (
		pick bool
		out  matrixOutput
	)

	cmd := &cobra.Command{
		Use:   "submatrix <matrix-file> [label...]",
		Short: "Restrict a distance matrix to some of its labels",
		Long: `Read a matrix file and keep only the given labels. With --pick the labels
are chosen interactively.`,
		Example: `  phylo submatrix dist.json a c d
  phylo submatrix --pick dist.toml -o small.toml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := pkgio.ImportMatrix(args[0])
			if err != nil {
				return err
			}

			labels := args[1:]
			if pick {
				if len(labels) > 0 {
					return errors.New("--pick cannot be combined with labels")
				}
				labels, err = pickLabels(m.Labels())
				if err != nil {
					return err
				}
				if labels == nil {
					printInfo("Cancelled")
					return nil
				}
			}
			if len(labels) == 0 {
				return errors.New("no labels given")
			}

			sub, err := m.Submatrix(labels)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("submatrix", "from", m.Len(), "to", sub.Len())
			return out.write(cmd, sub)
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "choose labels interactively")
	out.register(cmd)

	return cmd
}

// pickLabels runs the label picker. It returns nil when the user cancels.
func pickLabels(labels []string) ([]string, error) {
	final, err := tea.NewProgram(NewLabelPicker(labels), tea.WithOutput(uiOut)).Run()
	if err != nil {
		return nil, fmt.Errorf("label picker: %w", err)
	}
	p, ok := final.(LabelPicker)
	if !ok || !p.Confirmed {
		return nil, nil
	}
	return p.Selected(), nil
}
