package commands

import (
	"fmt"

	"git.home.luguber.info/inful/edgebuilder/internal/config"
	"git.home.luguber.info/inful/edgebuilder/internal/content"
)

// DiscoverCmd implements the 'discover' command: parse and list documents
// without producing any output.
type DiscoverCmd struct{}

func (d *DiscoverCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sources, err := content.Discover(cfg.Content.Directory)
	if err != nil {
		return err
	}

	pages, fragments := 0, 0
	for _, src := range sources {
		doc, err := content.Read(src)
		if err != nil {
			fmt.Printf("  %-30s ERROR %v\n", src.RelPath, err)
			continue
		}
		if doc.Fragment {
			fragments++
			fmt.Printf("  %-30s fragment\n", src.RelPath)
			continue
		}
		pages++
		fmt.Printf("  %-30s page layout=%s\n", src.RelPath, doc.Layout(cfg.Layouts.Default))
	}
	fmt.Printf("%d documents (%d pages, %d fragments)\n", len(sources), pages, fragments)
	return nil
}
