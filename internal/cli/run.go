package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geodome/pkg/errors"
	geoio "github.com/matzehuels/geodome/pkg/io"
	"github.com/matzehuels/geodome/pkg/pipeline"
)

// runCommand creates the run command: partition and stack in one go.
func (c *CLI) runCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		pf      partitionFlags
		sf      stackFlags
	)

	cmd := &cobra.Command{
		Use:   "run [geometry.json]",
		Short: "Partition and stack a geometry document",
		Long: `Partition and stack a geometry document.

This is 'partition' followed by 'stack' and writes a single layout document
holding the continents, their print directions and the print batches.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if output == "" {
				output = outputPath(input, ".layout.json")
			}
			if err := errors.ValidateOutputPath(output); err != nil {
				return err
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := pf.apply(cmd, cfg); err != nil {
				return err
			}
			sf.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			in, err := pipeline.LoadInput(input)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			runner := c.newRunner(ctx, noCache)
			defer runner.Close()
			runner.Refresh = refresh

			var res *pipeline.Result
			prog := newProgress(c.Logger)
			err = withSpinner(ctx, "Partitioning...", func() error {
				var err error
				res, err = runner.Execute(ctx, cfg, in)
				return err
			})
			if err != nil {
				printError("Run failed")
				return err
			}
			prog.done(fmt.Sprintf("Laid out %d fields", in.Graph.Len()))

			if err := geoio.ExportLayout(res.Layout, output); err != nil {
				return err
			}

			printSuccess("Layout complete")
			printFile(output)
			printStats(res.Layout, res.CacheInfo.PartitionHit)
			printStackTable(res.Layout)
			printNewline()
			printNextStep("Visualize", fmt.Sprintf("%s visualize %s --geometry %s", appName, output, input))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if a cached result exists")
	pf.register(cmd)
	sf.register(cmd)

	return cmd
}
