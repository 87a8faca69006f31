// Package cli implements the tdvisu command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tdvisu/pkg/buildinfo"
	"github.com/matzehuels/tdvisu/pkg/cache"
	"github.com/matzehuels/tdvisu/pkg/config"
	"github.com/matzehuels/tdvisu/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "tdvisu"

	// defaultConfigFile is read from the working directory when --config
	// is not given and the file exists.
	defaultConfigFile = "tdvisu.toml"
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

	// Config is loaded before any subcommand runs.
	Config *config.Config
	// RunID identifies one invocation in the log output.
	RunID string

	configPath string
	verbose    bool
	logLevel   string
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
		Short: "tdvisu visualizes dynamic programming on tree decompositions",
		Long: `tdvisu turns the trace of a dynamic programming solver into a series of
SVG images, one per solver step: the tree decomposition with the current
bag and its solution table highlighted, plus the incidence, primal and
input graphs of the instance.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.logLevel, "loglevel", "", "log level (debug, info, warn, error)")
	flags.StringVar(&c.configPath, "config", "", "configuration file (TOML or YAML, default ./"+defaultConfigFile+")")

	// Register all subcommands
	root.AddCommand(c.constructCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.svgjoinCommand())
	root.AddCommand(c.pathCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and settles the log level. Flags win over
// the configuration file.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath(c.configPath), c.Logger)
	if err != nil {
		return err
	}
	c.Config = cfg

	level, err := parseLevel(c.verbose, c.logLevel, cfg.Log.Level)
	if err != nil {
		return err
	}
	c.SetLogLevel(level)

	c.RunID = uuid.NewString()
	c.Logger = c.Logger.With("run", c.RunID[:8])
	c.Logger.Debug("starting", "command", cmd.Name(), "version", buildinfo.Short())
	return nil
}

func configPath(flag string) string {
	if flag != "" {
		return flag
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}
	return ""
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Cache keys are scoped
// by release.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, buildinfo.CacheScope())
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/tdvisu/).
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
