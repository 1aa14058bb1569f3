package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/franzenjb/fourcolor/pkg/buildinfo"
	"github.com/franzenjb/fourcolor/pkg/cache"
	"github.com/franzenjb/fourcolor/pkg/config"
	"github.com/franzenjb/fourcolor/pkg/errors"
	"github.com/franzenjb/fourcolor/pkg/graph"
	"github.com/franzenjb/fourcolor/pkg/httputil"
	"github.com/franzenjb/fourcolor/pkg/pipeline"
	"github.com/franzenjb/fourcolor/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "fourcolor"

	// samplePrefix selects a built-in graph instead of a file.
	samplePrefix = "sample:"
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

	// ConfigPath is the --config flag; empty means the XDG default.
	ConfigPath string

	cfg        *config.Config
	levelFixed bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. An explicit level wins over the
// log_level config key.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.levelFixed = true
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Fourcolor colors graphs and maps so that no two neighbors match",
		Long: `Fourcolor assigns colors to the nodes of a graph (or the regions of a map)
so that adjacent nodes never share a color. It ships greedy, DSATUR,
Welsh-Powell and exact backtracking algorithms, an interactive editor with
undo/redo, renderers and an HTTP API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/fourcolor/config.toml)")

	for _, cmd := range []*cobra.Command{
		c.colorCommand(),
		c.validateCommand(),
		c.statsCommand(),
		c.renderCommand(),
		c.interactiveCommand(),
	} {
		registerCoreCompletions(cmd)
		root.AddCommand(cmd)
	}
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.samplesCommand())
	root.AddCommand(c.sessionsCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	if !c.levelFixed {
		if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
			c.Logger.SetLevel(level)
		} else {
			c.Logger.Warn("ignoring log_level", "value", cfg.LogLevel)
		}
	}
	applyLogFormat(c.Logger, cfg.LogFormat)
	c.cfg = &cfg
	return c.cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	cc, err := newCache(cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	r.TTL = cfg.Cache.TTL
	return r, nil
}

func newCache(cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCacheFromURL(cfg.RedisURL, cfg.Prefix)
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// newStore opens the configured session store.
func (c *CLI) newStore(ctx context.Context) (session.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if cfg.Session.Backend == config.BackendMongo {
		store, err := session.NewMongoStore(ctx, cfg.Session.MongoURI, cfg.Session.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	}
	dir := cfg.Session.Dir
	if dir == "" {
		d, err := dataDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(d, "sessions")
	}
	return session.NewFileStore(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/fourcolor/).
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

// dataDir returns the data directory using XDG standard (~/.local/share/fourcolor/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// =============================================================================
// Input Helpers
// =============================================================================

// loadGraph reads a graph file, a built-in sample when arg is
// "sample:<name>", or a remote document when arg is an http(s) URL.
func (c *CLI) loadGraph(ctx context.Context, arg string) (graph.Graph, error) {
	if name, ok := strings.CutPrefix(arg, samplePrefix); ok {
		g, found := graph.Sample(name)
		if !found {
			return graph.Graph{}, errors.New(errors.ErrCodeNotFound,
				"unknown sample %q (available: %s)", name, strings.Join(graph.SampleNames(), ", "))
		}
		return g, nil
	}
	if isURL(arg) {
		return c.fetchGraph(ctx, arg)
	}
	if err := errors.ValidatePath(arg); err != nil {
		return graph.Graph{}, err
	}
	return graph.ReadGraphFile(arg)
}

func (c *CLI) fetchGraph(ctx context.Context, url string) (graph.Graph, error) {
	cfg, err := c.config()
	if err != nil {
		return graph.Graph{}, err
	}
	cc, err := newCache(cfg.Cache, false)
	if err != nil {
		return graph.Graph{}, err
	}
	defer cc.Close()

	spinner := newSpinnerWithContext(ctx, "Fetching graph...")
	spinner.Start()
	data, err := httputil.NewClient(cc).Fetch(ctx, url, false)
	spinner.Stop()
	if err != nil {
		return graph.Graph{}, err
	}
	loggerFromContext(ctx).Debug("Fetched graph", "url", url, "bytes", len(data))
	return graph.ReadGraph(bytes.NewReader(data))
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// baseName strips the directory and extension from a graph argument.
func baseName(arg string) string {
	if name, ok := strings.CutPrefix(arg, samplePrefix); ok {
		return name
	}
	base := filepath.Base(arg)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	return splitList(s)
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
