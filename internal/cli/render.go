package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonviz/pkg/pipeline"
)

// renderCommand creates the render command for generating diagram artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		flags      layoutFlags
		detailed   bool
		nodeWidth  float64
	)

	cmd := &cobra.Command{
		Use:   "render [file.json|-]",
		Short: "Render a JSON document as a diagram (SVG, PNG, DOT, JSON)",
		Long: `Render a JSON document as a diagram.

Nodes keep the positions computed by 'layout' and are coloured by data type.
Several formats can be requested at once (-f svg,png); each is written next
to the input as <input>.<format>, or to <output>.<format> with -o. A single
format can be written to stdout with -o -.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeJSONFiles,
		RunE:              func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, &flags)
			opts.Formats = pipeline.ParseFormats(formatsStr)
			opts.Detailed = detailed
			opts.NodeWidth = nodeWidth
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], output, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output base path, "-" for stdout (single format only)`)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", pipeline.DefaultFormat, "output format(s): svg, png, dot, json (comma-separated)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "append data type and position to node labels")
	cmd.Flags().Float64Var(&nodeWidth, "node-width", 0, "drawn node width in pixels (default 240)")
	flags.register(cmd)
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// runRender reads the input, runs the full pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, input, output string, opts pipeline.Options) error {
	if output == stdinArg && len(opts.Formats) > 1 {
		return fmt.Errorf("-o - needs exactly one format, got %d", len(opts.Formats))
	}

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
	spinner := newSpinner(ctx, c.Stderr, "Rendering diagram...")
	spinner.Start()

	result, err := runner.Execute(ctx, data, opts)
	if err != nil {
		spinner.StopWithError(p, "Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	cached := result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit

	if output == stdinArg {
		if _, err := c.Stdout.Write(result.Artifacts[opts.Formats[0]]); err != nil {
			return fmt.Errorf("write %s: %w", opts.Formats[0], err)
		}
		p.stats(result.Stats.NodeCount, result.Stats.EdgeCount, cached)
		return nil
	}

	base := basePath(output, input)
	var written []string
	for _, format := range opts.Formats {
		path := base + "." + format
		if format == pipeline.FormatJSON {
			path = base + diagramExt
		}
		if slices.Contains(written, path) {
			continue
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	p.success("Rendered %d file(s)", len(written))
	for _, path := range written {
		p.file(path)
	}
	p.stats(result.Stats.NodeCount, result.Stats.EdgeCount, cached)
	return nil
}
