package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonviz/pkg/graph"
	"github.com/matzehuels/jsonviz/pkg/pipeline"
)

// layoutCommand creates the layout command for computing diagram positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [file.json|-]",
		Short: "Compute the positioned diagram for a JSON document",
		Long: `Compute the positioned diagram for a JSON document.

The output is a diagram.json file holding every node with its position and
every parent/child edge. Use "-" to read the document from stdin; the diagram
is then written to stdout unless -o is given.

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeJSONFiles,
		RunE:              func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, c.options(cmd, &flags))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default: <input>.diagram.json)`)
	flags.register(cmd)

	return cmd
}

// runLayout reads the input, computes the diagram, and writes it.
func (c *CLI) runLayout(ctx context.Context, input, output string, opts pipeline.Options) error {
	data, err := c.readInput(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	p := c.out()
	spinner := newSpinner(ctx, c.Stderr, "Computing layout...")
	spinner.Start()

	d, cacheHit, err := runner.LayoutWithCacheInfo(ctx, data, opts)
	if err != nil {
		spinner.StopWithError(p, "Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if output == "" {
		output = stdinArg
		if input != stdinArg {
			output = basePath("", input) + diagramExt
		}
	}

	if output == stdinArg {
		if err := graph.WriteDiagram(d, c.Stdout); err != nil {
			return fmt.Errorf("write diagram: %w", err)
		}
		p.stats(d.NodeCount(), d.EdgeCount(), cacheHit)
		return nil
	}

	if err := graph.WriteDiagramFile(d, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	p.success("Layout complete")
	p.file(output)
	p.stats(d.NodeCount(), d.EdgeCount(), cacheHit)
	p.newline()
	p.nextStep("Render", "jsonviz render "+input)

	return nil
}
