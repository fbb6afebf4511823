package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sneakbit/internal/multiplayer"
	"github.com/vovakirdan/sneakbit/internal/storage"
)

var (
	flagMatchesProfile string
	flagMatchesLimit   int
	flagClearAll       bool
)

var matchesCmd = &cobra.Command{
	Use:   "matches [match-id]",
	Short: "Show the arena match history",
	Long: `Display the latest PvP arena matches, newest first, with per-player
win counts. Pass a match id to show a single match.

Examples:
  sneakbit matches
  sneakbit matches --profile alice --limit 50
  sneakbit matches 0b7c6a1e-8f9d-4c43-9a59-1f3f1f6d2f10
  sneakbit matches clear --profile alice`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMatches,
}

var matchesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the match history of a profile",
	Args:  cobra.NoArgs,
	RunE:  runMatchesClear,
}

func init() {
	matchesCmd.PersistentFlags().StringVar(&flagMatchesProfile, "profile", "", "Only matches of this profile")
	matchesCmd.Flags().IntVar(&flagMatchesLimit, "limit", 10, "Number of matches to show")
	matchesClearCmd.Flags().BoolVar(&flagClearAll, "all", false, "Delete the history of every profile")
	matchesCmd.AddCommand(matchesClearCmd)
}

func openStore() (*storage.Store, error) {
	store, err := storage.Open(appConfig.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return store, nil
}

func runMatches(_ *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 1 {
		return printMatch(store, multiplayer.MatchID(args[0]))
	}

	// The profile filter runs on the loaded page, so load extra rows.
	limit := flagMatchesLimit
	if flagMatchesProfile != "" {
		limit *= 10
	}
	records, err := store.RecentMatches(limit)
	if err != nil {
		return err
	}
	shown := records[:0]
	for _, r := range records {
		if flagMatchesProfile == "" || r.Profile == flagMatchesProfile {
			shown = append(shown, r)
		}
	}
	if len(shown) > flagMatchesLimit {
		shown = shown[:flagMatchesLimit]
	}

	title := "Arena matches"
	if flagMatchesProfile != "" {
		title += " - " + flagMatchesProfile
	}
	fmt.Println(title)
	fmt.Println()

	if len(shown) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Open the PvP arena from a teleporter to play one!")
		return nil
	}

	fmt.Printf("  %-16s  %-12s  %-7s  %-12s  %s\n", "Date", "Profile", "Players", "Winner", "Time")
	fmt.Printf("  %-16s  %-12s  %-7s  %-12s  %s\n", "----", "-------", "-------", "------", "----")
	for _, r := range shown {
		fmt.Printf("  %-16s  %-12s  %-7d  %-12s  %s\n",
			r.CompletedAt.Local().Format("2006-01-02 15:04"), r.Profile, r.Players, r.WinnerLabel(), r.Duration.Round(time.Second))
	}

	stats, err := store.MatchStats(flagMatchesProfile)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Total: %d matches, average %s\n", stats.Matches, stats.AverageDuration.Round(time.Second))
	for p := multiplayer.Player1; p < multiplayer.MaxPlayers; p++ {
		if wins := stats.WinsByPlayer[p]; wins > 0 {
			fmt.Printf("  %s: %d wins\n", p, wins)
		}
	}
	if stats.UnknownWinners > 0 {
		fmt.Printf("  Nobody survived: %d\n", stats.UnknownWinners)
	}
	return nil
}

func printMatch(store *storage.Store, id multiplayer.MatchID) error {
	r, err := store.MatchByID(id)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no match with id %q", id)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Match     %s\n", r.ID)
	fmt.Printf("Profile   %s\n", r.Profile)
	fmt.Printf("Players   %d\n", r.Players)
	fmt.Printf("Winner    %s\n", r.WinnerLabel())
	fmt.Printf("Duration  %s\n", r.Duration.Round(time.Second))
	fmt.Printf("Finished  %s\n", r.CompletedAt.Local().Format(time.RFC1123))
	return nil
}

func runMatchesClear(_ *cobra.Command, _ []string) error {
	if flagMatchesProfile == "" && !flagClearAll {
		return errors.New("pass --profile or --all")
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ClearMatches(flagMatchesProfile); err != nil {
		return err
	}
	if flagMatchesProfile == "" {
		fmt.Println("Cleared the match history of every profile.")
	} else {
		fmt.Printf("Cleared the match history of %s.\n", flagMatchesProfile)
	}
	return nil
}
