package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sneakbit/internal/client"
	"github.com/vovakirdan/sneakbit/internal/platform/tui"
)

var (
	flagCreative bool
	flagNewGame  bool
	flagProfile  string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the latest save",
	Long: `Continue the game from the latest world of the profile.

Controls:
  Arrows/WASD  - Move
  Space/F      - Attack (melee, ranged or kunai)
  Enter        - Confirm, talk
  Tab/M/Esc    - Game menu
  Mouse click  - Pick a menu option
  Ctrl+S       - Screenshot of the map
  Ctrl+X       - Leave the game
  Ctrl+C       - Quit

Creative mode paints the tile under the hero with the typed character:
'[' selects the biome layer, ']' the construction layer, Backspace
removes the construction. Letters paint, so only the arrows move.

Examples:
  sneakbit play
  sneakbit play --new
  sneakbit play --creative --log-file /tmp/sneakbit.log
  sneakbit play --profile alice`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagCreative, "creative", false, "Edit worlds instead of playing them")
	playCmd.Flags().BoolVar(&flagNewGame, "new", false, "Wipe the save data of the profile first")
	playCmd.Flags().StringVar(&flagProfile, "profile", "", "Save data profile (default from config)")
}

// sessionConfig builds the game settings of the local commands.
func sessionConfig(r *resources, creative, newGame bool) tui.SessionConfig {
	eng := engineConfig(appConfig.Engine)
	if flagProfile != "" {
		eng.Profile = flagProfile
	}
	soundBuffer := appConfig.Client.SoundBuffer
	if soundBuffer <= 0 {
		soundBuffer = client.DefaultSoundBuffer
	}
	return tui.SessionConfig{
		Engine:      eng,
		Creative:    creative || appConfig.Engine.Creative,
		NewGame:     newGame,
		Store:       r.store,
		Profile:     eng.Profile,
		Cache:       r.cache,
		Metrics:     r.metrics,
		SoundBuffer: soundBuffer,
		Logger:      logger,
		Joystick:    appConfig.Joystick,
	}
}

func runPlay(cmd *cobra.Command, _ []string) error {
	quietLogger()
	r := openResources(cmd.Context())
	defer r.Close()

	if _, err := tui.Run(sessionConfig(r, flagCreative, flagNewGame), runtimeConfig()); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
