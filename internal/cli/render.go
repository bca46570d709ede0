package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/phylo/pkg/pipeline"
	"github.com/matzehuels/phylo/pkg/render"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		format  string
		heights bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "render [expr]",
		Short: "Draw a tree as DOT, SVG, PDF or PNG",
		Long: `Render a tree with Graphviz. Leaves are boxes, internal nodes are points,
or circles labelled with their height when --heights is set.

PDF and PNG output need rsvg-convert on the PATH. Without --output the file
is named tree.<format>; use "-o -" to write to stdout.`,
		Example: `  phylo render '((a,b):2,c):5'
  phylo render --heights -f png -o tree.png '((a,b):2,c):5'
  phylo render -f dot -o - '((a,b):2,c):5' | dot -Tpdf > tree.pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			expr, err := readExpr(cmd, args)
			if err != nil {
				return err
			}
			runner, err := c.newRunner()
			if err != nil {
				return err
			}

			spinner := newSpinnerWithContext(ctx, "Rendering "+string(f)+"...")
			if output != "-" {
				spinner.Start()
			}
			data, cached, err := runner.Render(ctx, expr, pipeline.RenderOptions{Format: f, Heights: heights})
			if output != "-" {
				spinner.Stop()
			}
			if err != nil {
				return err
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if output == "" {
				output = "tree." + string(f)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Rendered %s", string(f))
			printFile(output)
			printStats(fmt.Sprintf("%d bytes", len(data)), cached)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(pipeline.DefaultFormat), "output format: dot, svg, pdf or png")
	cmd.Flags().BoolVar(&heights, "heights", false, "label internal nodes with their heights")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, or - for stdout")

	return cmd
}
