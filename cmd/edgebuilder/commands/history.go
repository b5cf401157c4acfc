package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/edgebuilder/internal/config"
	"git.home.luguber.info/inful/edgebuilder/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of builds to show" default:"10"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("build history is disabled in %s", root.Config)
	}

	store, err := history.Open(cfg.History.DatabasePath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	builds, err := store.ListRecent(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if len(builds) == 0 {
		fmt.Println("No builds recorded yet")
		return nil
	}

	for _, b := range builds {
		fmt.Printf("%s  fp=%s  pages=%d fragments=%d variants=%d skipped=%d  %s\n",
			b.CreatedAt.Format("2006-01-02 15:04:05"), b.Fingerprint,
			b.Pages, b.Fragments, b.Variants, b.SkippedPages, b.Duration)
	}
	return nil
}
