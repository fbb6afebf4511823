package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sneakbit/internal/platform/tui"
	"github.com/vovakirdan/sneakbit/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the launcher",
	Long: `Start the interactive launcher.

Continue the latest save, start over, edit worlds in creative mode or
browse the arena match history. Leaving a game with Ctrl+X returns to
the launcher.

Controls:
  Up/Down/j/k  - Navigate
  Enter/Space  - Select
  Tab          - Match history
  Q            - Quit

Examples:
  sneakbit menu
  sneakbit menu --fps 60
  sneakbit menu --db ./sneakbit.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagProfile, "profile", "", "Save data profile (default from config)")
}

func runMenu(cmd *cobra.Command, _ []string) error {
	quietLogger()
	r := openResources(cmd.Context())
	defer r.Close()

	profile := flagProfile
	if profile == "" {
		profile = appConfig.Engine.Profile
	}
	if profile == "" {
		profile = storage.DefaultProfile
	}

	rt := runtimeConfig()
	for {
		result, err := tui.RunMenu(r.store, profile, rt)
		if err != nil {
			return fmt.Errorf("launcher: %w", err)
		}
		rt = result.Config

		switch result.Choice {
		case tui.LaunchQuit, tui.LaunchNone:
			return nil

		case tui.LaunchHistory:
			back, err := tui.RunHistory(r.store, rt.ScreenW, rt.ScreenH)
			if err != nil {
				return fmt.Errorf("match history: %w", err)
			}
			if !back {
				return nil
			}

		case tui.LaunchContinue, tui.LaunchNewGame, tui.LaunchCreative:
			cfg := sessionConfig(r, result.Choice == tui.LaunchCreative, result.Choice == tui.LaunchNewGame)
			cfg.Profile, cfg.Engine.Profile = profile, profile
			back, err := tui.Run(cfg, rt)
			if err != nil {
				return fmt.Errorf("running game: %w", err)
			}
			if !back {
				return nil
			}
		}
	}
}
