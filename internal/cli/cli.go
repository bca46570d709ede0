package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/phylo/internal/config"
	"github.com/matzehuels/phylo/pkg/buildinfo"
	"github.com/matzehuels/phylo/pkg/cache"
	perrors "github.com/matzehuels/phylo/pkg/errors"
	"github.com/matzehuels/phylo/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "phylo"

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

	configPath string
	verbose    bool
	noCache    bool
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
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
		Short: "Phylo builds, compares and reconstructs phylogenetic trees",
		Long: `Phylo works with rooted phylogenetic trees written as parenthesized
expressions such as ((a,b):2,c):5. It canonicalizes and compares trees,
derives distance matrices from trees or genotype samples, reconstructs trees
from ultrametric matrices and renders them with Graphviz.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "do not read or write the result cache")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/phylo/config.toml)")

	root.AddCommand(c.parseCommand())
	root.AddCommand(c.equalCommand())
	root.AddCommand(c.matrixCommand())
	root.AddCommand(c.submatrixCommand())
	root.AddCommand(c.reconstructCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level, _ := cfg.Level()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	c.Logger.Debug("config loaded", "path", c.configPath, "level", level)

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

// newRunner creates a pipeline runner backed by the file cache.
func (c *CLI) newRunner() (*pipeline.Runner, error) {
	cc, err := c.newCache()
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	r.TTL = c.cfg.Cache.TTL.Duration
	return r, nil
}

func (c *CLI) newCache() (cache.Cache, error) {
	if c.noCache || c.cfg.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	dir, err := c.cfg.CacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Input Helpers
// =============================================================================

// readExpr returns the expression given as args[0], or read from stdin when
// it is "-".
func readExpr(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return args[0], nil
}

// FormatError renders err for the terminal, with its code when it has one.
func FormatError(err error) string {
	err = pipeline.Classify(err)
	code := StyleDim.Render(string(perrors.GetCode(err)))
	return styleIconError.Render(iconError) + " " + code + " " + perrors.UserMessage(err)
}
