// Package cli implements the jsonviz command-line interface.
//
// # Commands
//
//   - layout: compute the positioned diagram for a JSON document
//   - render: render a JSON document to SVG, PNG, DOT or diagram JSON
//   - browse: explore a document's diagram in an interactive terminal view
//   - serve: run the HTTP API
//   - cache: inspect and clear the local result cache
//   - completion: generate shell completion scripts
//
// Inputs are file paths or "-" for stdin. Settings come from the config
// file (--config, default ~/.config/jsonviz/config.toml), a .env file and
// JSONVIZ_* variables; command-line flags take precedence over all of them.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonviz/pkg/buildinfo"
	"github.com/matzehuels/jsonviz/pkg/cache"
	"github.com/matzehuels/jsonviz/pkg/config"
	"github.com/matzehuels/jsonviz/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "jsonviz"

	// stdinArg reads the input document from standard input.
	stdinArg = "-"

	// diagramExt is the suffix of saved layouts.
	diagramExt = ".diagram.json"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Stdin, Stdout and Stderr default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	cfg        config.Config
	configPath string
	noCache    bool
	verbose    bool
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: w,
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "jsonviz lays out JSON documents as tree diagrams",
		Long: `jsonviz turns JSON documents into positioned tree diagrams.

Every value becomes a node: objects and arrays fan out to the right, one
column per nesting level, and primitive members are merged with their key
into a single "key: value" leaf.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetIn(c.Stdin)
	root.SetOut(c.Stdout)
	root.SetErr(c.Stderr)

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "config file (default: ~/.config/jsonviz/config.toml)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable caching")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup runs before every command: it applies the log level, loads the
// configuration and installs log-backed hooks in verbose mode.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		registerLogHooks(c.Logger)
	}

	if err := config.LoadEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg
	c.Logger.Debug("loaded config", "cache", cfg.Cache.Backend, "store", cfg.Store.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, c.cfg.Keyer(), c.Logger), nil
}

// newCache opens the configured cache. A broken file cache degrades to no
// caching instead of failing the command.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	cc, err := c.cfg.OpenCache(ctx)
	if err != nil {
		if c.cfg.Cache.Backend == config.CacheFile {
			c.Logger.Warn("cache unavailable, continuing without", "error", err)
			return cache.NewNullCache(), nil
		}
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return cc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, falling back to the XDG
// standard (~/.cache/jsonviz/).
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return config.DefaultCacheDir()
}

// readInput reads the document named by arg, or stdin for "-".
func (c *CLI) readInput(arg string) ([]byte, error) {
	if arg == stdinArg {
		data, err := io.ReadAll(c.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", arg, err)
	}
	return data, nil
}

// basePath derives an output path without extension. Explicit output wins;
// otherwise the input's extension is stripped. Stdin input uses "diagram".
func basePath(output, input string) string {
	if output != "" {
		ext := filepath.Ext(output)
		for _, f := range pipeline.ValidFormats {
			if strings.EqualFold(ext, "."+f) {
				return strings.TrimSuffix(output, ext)
			}
		}
		return output
	}
	if input == stdinArg {
		return "diagram"
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}
