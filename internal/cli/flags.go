package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonviz/pkg/pipeline"
)

// layoutFlags are the geometry and parser flags shared by every command that
// computes a layout. Only flags set on the command line override the
// configuration.
type layoutFlags struct {
	repair       bool
	nodeHeight   float64
	xSpacing     float64
	minSpacing   float64
	groupSpacing float64
	maxDepth     int
	refresh      bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.BoolVar(&f.repair, "repair", false, "repair malformed JSON (comments, trailing commas, unquoted keys) before parsing")
	fs.Float64Var(&f.nodeHeight, "node-height", 0, "node height in pixels (default 40)")
	fs.Float64Var(&f.xSpacing, "x-spacing", 0, "horizontal distance between depth columns (default 280)")
	fs.Float64Var(&f.minSpacing, "min-spacing", 0, "minimum vertical gap between siblings (default 20)")
	fs.Float64Var(&f.groupSpacing, "group-spacing", 0, "vertical gap between sibling groups (default 40)")
	fs.IntVar(&f.maxDepth, "max-depth", 0, "maximum nesting depth accepted (default 10000)")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached results")
}

// options merges the changed flags over the configured options.
func (c *CLI) options(cmd *cobra.Command, f *layoutFlags) pipeline.Options {
	opts := c.cfg.PipelineOptions()
	opts.Logger = c.Logger
	opts.Refresh = f.refresh

	fs := cmd.Flags()
	if fs.Changed("repair") {
		opts.Repair = f.repair
	}
	if fs.Changed("node-height") {
		opts.NodeHeight = f.nodeHeight
	}
	if fs.Changed("x-spacing") {
		opts.XSpacing = f.xSpacing
	}
	if fs.Changed("min-spacing") {
		opts.MinSpacing = f.minSpacing
	}
	if fs.Changed("group-spacing") {
		opts.GroupSpacing = f.groupSpacing
	}
	if fs.Changed("max-depth") {
		opts.MaxDepth = f.maxDepth
	}
	return opts
}
