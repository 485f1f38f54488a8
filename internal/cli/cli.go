// Package cli implements the repograph command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/repograph/pkg/buildinfo"
	"github.com/matzehuels/repograph/pkg/cache"
	"github.com/matzehuels/repograph/pkg/config"
	"github.com/matzehuels/repograph/pkg/crawl"
	"github.com/matzehuels/repograph/pkg/pipeline"
	"github.com/matzehuels/repograph/pkg/repository"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "repograph"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is set by the --config flag.
	configPath string
	// quiet replaces progress logging with a spinner.
	quiet bool
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
		Use:   appName,
		Short: "repograph maps the dependency graph of a Maven repository",
		Long: `repograph crawls an HTTP-exposed Maven repository, resolves the latest
release of every artifact it finds, and analyzes the resulting dependency
graph for instability, stable-dependencies violations and cycles.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default ./"+config.DefaultPath+" if present)")
	root.PersistentFlags().BoolVarP(&c.quiet, "quiet", "q", false, "show a progress spinner instead of logs")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if c.quiet {
			c.SetLogLevel(LogWarn)
		}
		return nil
	}

	root.AddCommand(c.crawlCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.reportCommand())
	root.AddCommand(c.checkpointCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// overrides holds flags that take precedence over the config file. Only
// flags the user actually set are applied.
type overrides struct {
	root           string
	followExternal bool
	workers        int
	rateLimit      float64
	refresh        bool
	noResume       bool
	noCache        bool
	records        string
	output         string
	format         string
	maxCycles      int
	maxCycleLength int
}

func (o *overrides) addRepositoryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.root, "root", "r", "", "repository root URL")
	cmd.Flags().BoolVar(&o.followExternal, "follow-external", false, "descend into directories outside the root")
	cmd.Flags().Float64Var(&o.rateLimit, "rate-limit", 0, "maximum requests per second (0 = unlimited)")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "bypass the HTTP cache")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the HTTP cache")
}

func (o *overrides) addResolveFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&o.workers, "workers", "w", 0, "number of concurrent fetch workers")
	cmd.Flags().BoolVar(&o.noResume, "no-resume", false, "ignore records from a previous run")
	cmd.Flags().StringVar(&o.records, "records", "", "records CSV file")
}

func (o *overrides) addAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output directory (cleared on each run)")
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "graph format: dot, svg, pdf, png")
	cmd.Flags().IntVar(&o.maxCycles, "max-cycles", 0, "stop the cycle search after this many cycles (0 = unlimited)")
	cmd.Flags().IntVar(&o.maxCycleLength, "max-cycle-length", 0, "ignore cycles longer than this (0 = unlimited)")
}

func (o *overrides) apply(cmd *cobra.Command, cfg *config.Config) {
	set := cmd.Flags().Changed
	if set("root") {
		cfg.Repository.Root = o.root
	}
	if set("follow-external") {
		cfg.Repository.FollowExternal = o.followExternal
	}
	if set("rate-limit") {
		cfg.Repository.RateLimit = o.rateLimit
	}
	if set("no-cache") {
		cfg.Cache.Disabled = o.noCache
	}
	if set("workers") {
		cfg.Resolve.Workers = o.workers
	}
	if set("no-resume") {
		cfg.Resolve.Resume = !o.noResume
	}
	if set("records") {
		cfg.Output.Records = o.records
	}
	if set("output") {
		cfg.Output.Dir = o.output
	}
	if set("format") {
		cfg.Output.Format = o.format
	}
	if set("max-cycles") {
		cfg.Analysis.MaxCycles = o.maxCycles
	}
	if set("max-cycle-length") {
		cfg.Analysis.MaxCycleLength = o.maxCycleLength
	}
}

// loadConfig reads the configuration and applies flag overrides.
func (c *CLI) loadConfig(cmd *cobra.Command, o *overrides, needRoot bool) (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if o != nil {
		o.apply(cmd, cfg)
	}
	if err := cfg.Validate(needRoot); err != nil {
		return nil, err
	}
	return cfg, nil
}

// options maps cfg onto pipeline options for this invocation.
func (c *CLI) options(cfg *config.Config, o *overrides) pipeline.Options {
	opts := pipeline.OptionsFromConfig(cfg)
	opts.Logger = c.Logger
	if o != nil {
		opts.Refresh = o.refresh
	}
	return opts
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for cfg. The returned close function
// releases the checkpoint store.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config) (*pipeline.Runner, func(), error) {
	client, err := c.newClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if cl, ok := store.(io.Closer); ok {
			if err := cl.Close(); err != nil {
				c.Logger.Warn("closing checkpoint store", "err", err)
			}
		}
	}
	return pipeline.NewRunner(client, store, c.Logger), closeStore, nil
}

// newClient builds the repository client. Cache keys are scoped by host so
// that several repositories can share one cache directory.
func (c *CLI) newClient(cfg *config.Config) (*repository.Client, error) {
	ch, err := newCache(cfg, c.Logger)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if u, err := url.Parse(cfg.RootURL()); err == nil && u.Host != "" {
		keyer = cache.NewScopedKeyer(nil, u.Host+":")
	}
	return repository.NewClient(repository.Options{
		Timeout:   cfg.Repository.Timeout.Std(),
		Retries:   cfg.Repository.Retries,
		RateLimit: cfg.Repository.RateLimit,
		UserAgent: cfg.Repository.UserAgent,
		Cache:     ch,
		Keyer:     keyer,
		Logger:    c.Logger,
	})
}

// newCache opens the document cache. Without a usable cache directory the
// run continues uncached.
func newCache(cfg *config.Config, logger *log.Logger) (cache.Cache, error) {
	if cfg.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	dir, err := resolveCacheDir(cfg)
	if err != nil {
		logger.Warn("document cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// openStore opens the configured checkpoint backend.
func openStore(ctx context.Context, cfg *config.Config) (crawl.Store, error) {
	switch cfg.Checkpoint.Backend {
	case config.BackendRedis:
		store, err := crawl.NewRedisStore(ctx, cfg.Checkpoint.RedisURL, redisKey(cfg))
		if err != nil {
			return nil, fmt.Errorf("checkpoint: %w", err)
		}
		return store, nil
	default:
		return crawl.NewFileStore(cfg.Checkpoint.Path), nil
	}
}

// redisKey returns the configured checkpoint key, or one derived from the
// repository root.
func redisKey(cfg *config.Config) string {
	if cfg.Checkpoint.RedisKey != "" {
		return cfg.Checkpoint.RedisKey
	}
	return cache.NewScopedKeyer(nil, appName+":").CheckpointKey(cfg.RootURL())
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/repograph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// closeQuietly closes v if it holds resources.
func closeQuietly(v any) {
	if cl, ok := v.(io.Closer); ok {
		_ = cl.Close()
	}
}
