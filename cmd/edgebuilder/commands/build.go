package commands

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/edgebuilder/internal/config"
	"git.home.luguber.info/inful/edgebuilder/internal/history"
	"git.home.luguber.info/inful/edgebuilder/internal/pipeline"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Output directory for the generated site" default:"./public"`
	Concurrency int    `short:"j" help:"Document worker count (0 = number of CPUs)"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	outputDir := ResolveOutputDir(b.Output, cfg)

	slog.Info("Starting build",
		"content", cfg.Content.Directory,
		"output", outputDir)

	p := pipeline.New(cfg, outputDir).WithConcurrency(b.Concurrency)
	result, err := p.Run(context.Background())
	if err != nil {
		return err
	}

	slog.Info("Build completed",
		"pages", result.Pages,
		"fragments", result.Fragments,
		"skipped", result.SkippedPages,
		"variants_derived", result.ImageStats.Derived,
		"variants_reused", result.ImageStats.Reused,
		"fingerprint", result.Fingerprint,
		"duration", result.Duration())

	if cfg.History.Enabled {
		recordHistory(cfg, result)
	}

	fmt.Println("Build completed successfully")
	return nil
}

// recordHistory appends the build to the local history store. History is
// observability only; failures never fail the build.
func recordHistory(cfg *config.Config, result *pipeline.Result) {
	store, err := history.Open(cfg.History.DatabasePath)
	if err != nil {
		slog.Warn("Could not open build history store", "error", err)
		return
	}
	defer store.Close()

	err = store.Record(context.Background(), history.Build{
		ID:           result.BuildID,
		Fingerprint:  result.Fingerprint,
		Pages:        result.Pages,
		Fragments:    result.Fragments,
		Variants:     result.ImageStats.Derived,
		SkippedPages: result.SkippedPages,
		Duration:     result.Duration(),
		CreatedAt:    result.End,
	})
	if err != nil {
		slog.Warn("Could not record build history", "error", err)
	}
}
