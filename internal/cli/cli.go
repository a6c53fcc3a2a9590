// Package cli implements the letterpress command-line interface.
//
// # Commands
//
//   - hang: rewrite a fragment from a file or stdin
//   - serve: run the HTTP API
//   - glyphs: list the glyph table
//   - cache: manage the local result cache
//   - try: interactive preview
//
// All commands support --verbose (-v) for debug-level logging and --config
// to select a TOML config file. Loggers are passed through context.Context.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/letterpress/pkg/buildinfo"
	"github.com/matzehuels/letterpress/pkg/cache"
	"github.com/matzehuels/letterpress/pkg/config"
	lperrors "github.com/matzehuels/letterpress/pkg/errors"
	"github.com/matzehuels/letterpress/pkg/hanging"
	"github.com/matzehuels/letterpress/pkg/markdown"
	"github.com/matzehuels/letterpress/pkg/observability"
	"github.com/matzehuels/letterpress/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "letterpress"

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

	// Config is loaded before any command runs.
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
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
		Short: "Letterpress hangs punctuation in HTML fragments",
		Long: `Letterpress rewrites HTML fragments so that opening quotation marks hang
into the margin (optical margin alignment). Punctuation at the start of a
word is wrapped in a pull span and the preceding word gets a push span;
pair them with CSS negative and positive margins.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $"+config.EnvConfig+" or $XDG_CONFIG_HOME/letterpress/config.toml)")

	root.AddCommand(c.hangCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.glyphsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.tryCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup applies --verbose, loads the config and attaches the logger to the
// command context.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		hooks := &logHooks{logger: c.Logger}
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
	}

	path := config.Path(c.configPath)
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("config", "path", path, "cache", cfg.Cache.Backend)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newFilter builds the filter from the config's ignore rules.
func (c *CLI) newFilter() *hanging.Filter {
	return hanging.New(hanging.Config{Ignore: c.Config.IgnoreSpec()})
}

// newRunner creates a pipeline runner over the configured cache. backend
// overrides the configured backend when non-empty.
func (c *CLI) newRunner(ctx context.Context, noCache bool, backend string) (*pipeline.Runner, error) {
	cacheOpts := c.cacheOptions(backend)
	if noCache {
		cacheOpts.Backend = lperrors.BackendNone
	}

	store, err := cache.Open(ctx, cacheOpts)
	if err != nil {
		return nil, err
	}

	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
	r := pipeline.NewRunner(store, keyer, c.newFilter(), c.Logger)
	r.MaxInputBytes = c.Config.Filter.MaxInputBytes
	r.Markdown = markdown.New(markdown.Options{Typographer: c.Config.Filter.Typographer})
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

func (c *CLI) cacheOptions(backend string) cache.Options {
	if backend == "" {
		backend = c.Config.Cache.Backend
	}
	return cache.Options{
		Backend:       backend,
		Dir:           c.Config.Cache.Dir,
		RedisAddr:     c.Config.Cache.RedisAddr,
		MongoURI:      c.Config.Cache.MongoURI,
		MongoDatabase: c.Config.Cache.MongoDatabase,
	}
}
