package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/deiva0304/BUDS-Crochet/internal/config"
	"github.com/deiva0304/BUDS-Crochet/pkg/buildinfo"
	"github.com/deiva0304/BUDS-Crochet/pkg/cache"
	"github.com/deiva0304/BUDS-Crochet/pkg/pattern"
	"github.com/deiva0304/BUDS-Crochet/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "crochet"

	// configEnv overrides the default config file location.
	configEnv = "CROCHET_CONFIG"
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

	// configPath is set by the persistent --config flag.
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
		Short:        "Crochet designs crochet patterns stitch by stitch",
		Long:         `Crochet is a pattern editor: build a pattern row by row, undo and redo edits, and get written instructions and a stitch chart. Run it as an HTTP server for the web client, or edit from the terminal.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $"+configEnv+" or ~/.config/crochet/config.toml)")

	// Register all subcommands
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.writeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.stitchesCommand())
	root.AddCommand(c.sessionsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Factories
// =============================================================================

// loadConfig reads the config file named by --config, $CROCHET_CONFIG or the
// default location, in that order. A missing default file yields the
// built-in defaults.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		path = os.Getenv(configEnv)
	}
	if path == "" {
		dir, err := configDir()
		if err == nil {
			if p := filepath.Join(dir, "config.toml"); fileExists(p) {
				path = p
			}
		}
	}
	if path != "" {
		c.Logger.Debug("loading config", "path", path)
	}
	return config.Load(path)
}

// newCache opens the preview cache selected by cfg. The file backend falls
// back to the XDG cache directory when no directory is configured.
func newCache(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheFile:
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   appName + ":",
		})
	default:
		return cache.NewNullCache(), nil
	}
}

// newChart builds the preview renderer for cfg.
func (c *CLI) newChart(cfg config.Config, cc cache.Cache) *render.Chart {
	return render.NewChart(render.Options{
		Formats: cfg.Render.ParsedFormats(),
		Cache:   cc,
		TTL:     cfg.Render.CacheTTL,
		Logger:  c.Logger,
	})
}

// newPattern creates an empty pattern configured by cfg. A nil chart leaves
// the pattern without a preview.
func (c *CLI) newPattern(cfg config.Config, chart *render.Chart) *pattern.Pattern {
	opts := append(cfg.Pattern.Options(), pattern.WithLogger(c.Logger))
	if chart != nil {
		opts = append(opts, pattern.WithRenderer(chart))
	}
	return pattern.New(opts...)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/crochet/).
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

// configDir returns the config directory using XDG standard (~/.config/crochet/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// sessionsDir is where saved editor sessions live.
func sessionsDir() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, "sessions"), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
