package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sneakbit/internal/config"
	"github.com/vovakirdan/sneakbit/internal/lang"
	"github.com/vovakirdan/sneakbit/internal/registry"
	"github.com/vovakirdan/sneakbit/internal/storage"
	"github.com/vovakirdan/sneakbit/internal/world"
)

var worldsCmd = &cobra.Command{
	Use:   "worlds",
	Short: "List the built-in worlds",
	Long: `Shows every built-in world with its localized title and, when the
database is available, the revision of its last saved edit.`,
	Args: cobra.NoArgs,
	RunE: runWorlds,
}

func runWorlds(_ *cobra.Command, _ []string) error {
	worlds := registry.List()
	if len(worlds) == 0 {
		fmt.Println("No worlds available.")
		return nil
	}

	strs := lang.Default(appConfig.Engine.Language)
	if dir := config.ExpandHome(appConfig.Engine.LangPath); dir != "" {
		if loaded, err := lang.Load(dir, appConfig.Engine.Language); err == nil {
			strs = loaded
		} else {
			logger.Warn("could not load string tables", "dir", dir, "err", err)
		}
	}

	revisions := map[world.ID]uint32{}
	if store, err := storage.Open(appConfig.Storage.DBPath); err == nil {
		if revs, err := store.WorldRevisions(); err == nil {
			revisions = revs
		}
		store.Close() //nolint:errcheck // Read only
	}

	fmt.Println("Built-in worlds:")
	fmt.Println()
	fmt.Printf("  %-6s  %-24s  %s\n", "ID", "Title", "Revision")
	fmt.Printf("  %-6s  %-24s  %s\n", "--", "-----", "--------")
	for _, w := range worlds {
		rev := "-"
		if r, ok := revisions[w.ID]; ok {
			rev = fmt.Sprintf("%d", r)
		}
		fmt.Printf("  %-6d  %-24s  %s\n", w.ID, strs.Localized(w.Title), rev)
	}

	fmt.Println()
	fmt.Println("Run 'sneakbit mapgen <id>' to write a level file for editing.")
	return nil
}
