package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geodome/pkg/errors"
	geoio "github.com/matzehuels/geodome/pkg/io"
	"github.com/matzehuels/geodome/pkg/pipeline"
)

// stackCommand creates the stack command.
func (c *CLI) stackCommand() *cobra.Command {
	var (
		geometry string
		output   string
		sf       stackFlags
	)

	cmd := &cobra.Command{
		Use:   "stack [layout.json]",
		Short: "Pack the continents of a layout into print batches",
		Long: `Pack the continents of a layout into print batches.

Regions are placed first-fit in id order along the stacking axis; a stack is
closed as soon as the next region would exceed the printable volume. The
offset between neighbors is either a fixed clearance plus gap or, for shells
stacked along z, derived from the outer and inner shell radii.

The layout's stored configuration is used unless --config is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStack(cmd, args[0], geometry, output, &sf)
		},
	}

	cmd.Flags().StringVarP(&geometry, "geometry", "g", "", "geometry document the layout was computed from")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite the input layout)")
	_ = cmd.MarkFlagRequired("geometry")
	sf.register(cmd)

	return cmd
}

// runStack restacks an existing layout and writes it back.
func (c *CLI) runStack(cmd *cobra.Command, layoutPath, geometryPath, output string, sf *stackFlags) error {
	ctx := cmd.Context()
	if output == "" {
		output = layoutPath
	}
	if err := errors.ValidateOutputPath(output); err != nil {
		return err
	}

	l, err := geoio.ImportLayout(layoutPath)
	if err != nil {
		return err
	}
	cfg := l.Config
	if c.configPath != "" {
		if cfg, err = c.loadConfig(); err != nil {
			return err
		}
	}
	sf.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	in, err := pipeline.LoadInput(geometryPath)
	if err != nil {
		return err
	}
	res, err := l.Result(in.Graph)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, true)
	defer runner.Close()

	prog := newProgress(c.Logger)
	stacks, err := runner.Stack(ctx, cfg, in, res)
	if err != nil {
		printError("Stacking failed")
		return err
	}
	prog.done(fmt.Sprintf("Stacked %d regions", len(res.Regions)))

	l.Config = cfg
	l.SetStacks(stacks)
	if err := geoio.ExportLayout(l, output); err != nil {
		return err
	}

	printSuccess("Stacked %d regions into %d stacks", len(l.Regions), len(l.Stacks))
	printFile(output)
	printStackTable(l)
	printNewline()
	printNextStep("Inspect", fmt.Sprintf("%s inspect %s", appName, output))
	return nil
}
