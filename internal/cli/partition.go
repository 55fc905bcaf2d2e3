package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geodome/pkg/config"
	"github.com/matzehuels/geodome/pkg/errors"
	geoio "github.com/matzehuels/geodome/pkg/io"
	"github.com/matzehuels/geodome/pkg/partition"
	"github.com/matzehuels/geodome/pkg/pipeline"
)

// partitionCommand creates the partition command.
func (c *CLI) partitionCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		pf      partitionFlags
	)

	cmd := &cobra.Command{
		Use:   "partition [geometry.json]",
		Short: "Grow printable continents from a geometry document",
		Long: `Grow printable continents from a geometry document.

The geometry document lists every field of the dome shell with its neighbors,
its vertex contributions and its hole normal. The partitioner runs many
randomized growth trials in parallel and keeps the one with the fewest, most
even regions. The result is written as a layout document without stacks; use
'stack' to batch it.

Results are cached, keyed by the geometry and the partition settings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := pf.apply(cmd, cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runPartition(cmd.Context(), args[0], cfg, output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if a cached result exists")
	pf.register(cmd)

	return cmd
}

// runPartition loads the geometry, partitions it and writes the layout.
func (c *CLI) runPartition(ctx context.Context, input string, cfg *config.Config, output string, noCache, refresh bool) error {
	if output == "" {
		output = outputPath(input, ".layout.json")
	}
	if err := errors.ValidateOutputPath(output); err != nil {
		return err
	}

	in, err := pipeline.LoadInput(input)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()
	runner.Refresh = refresh

	var (
		res *partition.Result
		hit bool
	)
	prog := newProgress(c.Logger)
	err = withSpinner(ctx, "Partitioning...", func() error {
		var err error
		res, hit, err = runner.PartitionWithCacheInfo(ctx, cfg, in)
		return err
	})
	if err != nil {
		printError("Partition failed")
		return err
	}
	prog.done(fmt.Sprintf("Partitioned %d fields", in.Graph.Len()))

	l := geoio.NewLayout(cfg, in.Geometry, res, nil)
	if err := geoio.ExportLayout(l, output); err != nil {
		return err
	}

	printSuccess("Partition complete")
	printFile(output)
	printStats(l, hit)
	printNewline()
	printNextStep("Stack", fmt.Sprintf("%s stack %s --geometry %s", appName, output, input))
	return nil
}
