package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/edgebuilder/internal/config"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"edgebuilder.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Build pages, fragment store and edge dispatch script"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
	Discover DiscoverCmd `cmd:"" help:"List parsed documents without building"`
	History  HistoryCmd  `cmd:"" help:"List recorded builds"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := config.LogLevelFromEnv(c.Verbose)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// ResolveOutputDir determines the final output directory.
// Priority: CLI flag > configured directory > CLI default.
func ResolveOutputDir(cliOutput string, cfg *config.Config) string {
	if cliOutput != "" && cliOutput != defaultOutputDir {
		return cliOutput
	}
	if cfg.Output.Directory != "" {
		return cfg.Output.Directory
	}
	return cliOutput
}

const defaultOutputDir = "./public"
