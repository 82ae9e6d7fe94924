package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tgrunnagle/playing-card-gen/pkg/buildinfo"
	"github.com/tgrunnagle/playing-card-gen/pkg/cache"
	"github.com/tgrunnagle/playing-card-gen/pkg/config"
	"github.com/tgrunnagle/playing-card-gen/pkg/observability"
	"github.com/tgrunnagle/playing-card-gen/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "cardgen"
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
}

// New creates a new CLI instance with a default logger. Render events are
// reported through the logger, per-card progress at debug level.
func New(w io.Writer, level log.Level) *CLI {
	logger := newLogger(w, level)
	observability.SetRenderHooks(observability.LogRenderHooks{Logger: logger})
	return &CLI{Logger: logger}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "cardgen renders playing cards from a layout config and a CSV decklist",
		Long:         `cardgen composites playing cards from layered templates (text, images, symbol rows, QR codes) filled with data from a CSV decklist, and packs them into deck sheets ready for print or Tabletop Simulator.`,
		Version:      buildinfo.Short(),
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.ttsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.fitCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use, with the cache backend
// selected by the configuration at cfgPath.
func (c *CLI) newRunner(ctx context.Context, cfgPath string, noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, cfgPath, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

func newCache(ctx context.Context, cfgPath string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	dir, err := cacheDir()
	if err != nil {
		dir = ""
	}
	return pipeline.OpenCache(ctx, cfg.Cache, dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/cardgen/).
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
