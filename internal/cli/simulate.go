package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/phylo/pkg/pipeline"
)

// simulateCommand creates the simulate command.
func (c *CLI) simulateCommand() *cobra.Command {
	var (
		opts  pipeline.SimulateOptions
		count int
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generate random genealogies",
		Long: `Simulate a discrete coalescent. Going back one generation at a time,
every surviving lineage picks one of --population parent slots at random and
lineages sharing a slot merge, until a single root is left.

The same --seed always produces the same trees. Without --seed the current
time is used and logged.`,
		Example: `  phylo simulate --leaves 8
  phylo simulate --leaves 5 --population 50 --seed 42 --count 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if !cmd.Flags().Changed("seed") {
				opts.Seed = uint64(time.Now().UnixNano())
				logger.Info("random seed", "seed", opts.Seed)
			}

			runner, err := c.newRunner()
			if err != nil {
				return err
			}
			for i := range count {
				run := opts
				run.Seed = opts.Seed + uint64(i)
				expr, err := runner.Simulate(ctx, run)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), expr)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Leaves, "leaves", "n", 5, "number of sampled leaves")
	cmd.Flags().IntVarP(&opts.Population, "population", "p", 0, "population size per generation (default: leaves)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed")
	cmd.Flags().IntVar(&count, "count", 1, "number of trees to generate, with consecutive seeds")

	return cmd
}
