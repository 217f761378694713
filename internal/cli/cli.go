// Package cli implements the bundlesize command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bundlesize/pkg/annotate"
	"github.com/matzehuels/bundlesize/pkg/buildinfo"
	"github.com/matzehuels/bundlesize/pkg/cache"
	"github.com/matzehuels/bundlesize/pkg/config"
	bserrors "github.com/matzehuels/bundlesize/pkg/errors"
	"github.com/matzehuels/bundlesize/pkg/httputil"
	"github.com/matzehuels/bundlesize/pkg/integrations"
	"github.com/matzehuels/bundlesize/pkg/integrations/bundlephobia"
	"github.com/matzehuels/bundlesize/pkg/integrations/npm"
	"github.com/matzehuels/bundlesize/pkg/sizes"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName

	// retryDelay is the first wait between HTTP attempts when http_attempts > 1.
	retryDelay = 500 * time.Millisecond
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

	// configPath overrides the default config location (--config).
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "bundlesize shows what your npm dependencies cost",
		Long:         `bundlesize annotates the dependencies declared in a package.json with their minified and gzipped bundle sizes, resolving pnpm workspace catalogs along the way.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/bundlesize/config.toml)")

	root.AddCommand(c.annotateCommand())
	root.AddCommand(c.sizeCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// resolveConfigPath returns the --config value or the default location.
func (c *CLI) resolveConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.DefaultPath()
}

// loadConfig reads the config file, applies BUNDLESIZE_* overrides and
// validates the result. It also returns the file path for watchers.
func (c *CLI) loadConfig() (config.Config, string, error) {
	path, err := c.resolveConfigPath()
	if err != nil {
		return config.Config{}, "", err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, path, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, path, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, path, err
	}
	c.Logger.Debug("loaded config", "path", path, "concurrency", cfg.MaxConcurrentRequests, "cache", cfg.Cache.Backend)
	return cfg, path, nil
}

// =============================================================================
// Runtime Factory
// =============================================================================

// runtime wires the clients, second-tier cache, coordinator and annotator
// described by a config.
type runtime struct {
	cfg         config.Config
	tier        cache.Cache
	coordinator *sizes.Coordinator
	annotator   *annotate.Annotator
}

// runtimeOptions adjusts a runtime for one command.
type runtimeOptions struct {
	noCache   bool // Skip the second-tier cache
	skipLinks bool // Do not fetch registry metadata
}

// newRuntime builds the lookup stack for cfg.
func (c *CLI) newRuntime(ctx context.Context, cfg config.Config, opts runtimeOptions) (*runtime, error) {
	httpOpts := integrations.Options{
		Timeout:   cfg.HTTPTimeout,
		RateLimit: cfg.RequestsPerSecond,
		Retry:     httputil.Policy{Attempts: cfg.HTTPAttempts, Delay: retryDelay},
	}

	tier := cache.NewNullCache()
	if !opts.noCache {
		var err error
		tier, err = cache.Open(ctx, cfg.CacheOptions())
		if err != nil {
			return nil, bserrors.Wrap(bserrors.ErrCodeInvalidConfig, err, "open %s cache", cfg.Cache.Backend)
		}
	}

	coord := sizes.New(
		bundlephobia.NewClient(cfg.SizeEndpoint, httpOpts),
		npm.NewClient(cfg.RegistryEndpoint, httpOpts),
		sizes.Options{
			Concurrency: cfg.MaxConcurrentRequests,
			Backoff:     cfg.MetadataBackoff,
			Tier:        tier,
			TierTTL:     cfg.Cache.TTL,
			Logger:      c.Logger,
		},
	)

	return &runtime{
		cfg:         cfg,
		tier:        tier,
		coordinator: coord,
		annotator:   annotate.New(coord, nil, annotate.Options{Logger: c.Logger, SkipLinks: opts.skipLinks}),
	}, nil
}

// Close releases the second-tier cache.
func (r *runtime) Close() error {
	return r.tier.Close()
}
