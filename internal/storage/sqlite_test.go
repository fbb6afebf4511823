package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/sneakbit/internal/multiplayer"
	"github.com/vovakirdan/sneakbit/internal/world"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestSaveDataRoundTrip(t *testing.T) {
	store := openTestStore(t)
	data := store.SaveData("")

	if data.Profile() != DefaultProfile {
		t.Errorf("Expected default profile, got %q", data.Profile())
	}

	if err := data.SetValue("latest_world", 1003); err != nil {
		t.Fatalf("SetValue() failed: %v", err)
	}
	if err := data.SetValue("item_collected.10010001", 1); err != nil {
		t.Fatalf("SetValue() failed: %v", err)
	}
	// Overwrite
	if err := data.SetValue("latest_world", 1011); err != nil {
		t.Fatalf("SetValue() failed: %v", err)
	}

	values, err := data.LoadValues()
	if err != nil {
		t.Fatalf("LoadValues() failed: %v", err)
	}
	if len(values) != 2 {
		t.Errorf("Expected 2 values, got %d", len(values))
	}
	if values["latest_world"] != 1011 {
		t.Errorf("Expected latest_world 1011, got %d", values["latest_world"])
	}
}

func TestSaveDataLargeValues(t *testing.T) {
	store := openTestStore(t)
	data := store.SaveData("big")

	if err := data.SetValue("k", 0xFFFFFFFF); err != nil {
		t.Fatalf("SetValue() failed: %v", err)
	}
	values, _ := data.LoadValues()
	if values["k"] != 0xFFFFFFFF {
		t.Errorf("Expected max uint32, got %d", values["k"])
	}
}

func TestSaveDataProfilesAreIsolated(t *testing.T) {
	store := openTestStore(t)
	alice := store.SaveData("alice")
	bob := store.SaveData("bob")

	alice.SetValue("latest_world", 1003)
	bob.SetValue("latest_world", 1008)

	if err := alice.ResetValues(); err != nil {
		t.Fatalf("ResetValues() failed: %v", err)
	}

	aliceValues, _ := alice.LoadValues()
	if len(aliceValues) != 0 {
		t.Errorf("Expected alice to be empty after reset, got %v", aliceValues)
	}
	bobValues, _ := bob.LoadValues()
	if bobValues["latest_world"] != 1008 {
		t.Errorf("Bob's save data should not be affected by alice's reset")
	}

	profiles, err := store.Profiles()
	if err != nil {
		t.Fatalf("Profiles() failed: %v", err)
	}
	if len(profiles) != 1 || profiles[0] != "bob" {
		t.Errorf("Expected [bob], got %v", profiles)
	}
}

func TestWorldRevisions(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.WorldRevision(world.IDEvergrove); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	store.RecordWorldRevision(world.IDEvergrove, 1)
	store.RecordWorldRevision(world.IDEvergrove, 2)
	store.RecordWorldRevision(world.IDAridreach, 7)

	rev, err := store.WorldRevision(world.IDEvergrove)
	if err != nil {
		t.Fatalf("WorldRevision() failed: %v", err)
	}
	if rev != 2 {
		t.Errorf("Expected revision 2, got %d", rev)
	}

	all, err := store.WorldRevisions()
	if err != nil {
		t.Fatalf("WorldRevisions() failed: %v", err)
	}
	if len(all) != 2 || all[world.IDAridreach] != 7 {
		t.Errorf("Unexpected revisions: %v", all)
	}
}

func TestSaveMatchGeneratesID(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveMatch(multiplayer.MatchRecord{
		Players:  3,
		Result:   multiplayer.WinnerResult(multiplayer.Player2),
		Duration: 95 * time.Second,
	})
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	if id == "" {
		t.Fatal("Expected a generated match id")
	}

	got, err := store.MatchByID(id)
	if err != nil {
		t.Fatalf("MatchByID() failed: %v", err)
	}
	if got.Players != 3 {
		t.Errorf("Expected 3 players, got %d", got.Players)
	}
	if !got.Result.HasWinner() || got.Result.Winner != multiplayer.Player2 {
		t.Errorf("Expected Player 2 to win, got %+v", got.Result)
	}
	if got.Duration != 95*time.Second {
		t.Errorf("Expected 95s, got %v", got.Duration)
	}
	if got.Profile != DefaultProfile {
		t.Errorf("Expected default profile, got %q", got.Profile)
	}
}

func TestMatchByIDNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.MatchByID("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSaveMatchDuplicateID(t *testing.T) {
	store := openTestStore(t)
	m := multiplayer.MatchRecord{ID: "fixed", Players: 2, Result: multiplayer.UnknownWinner()}

	if _, err := store.SaveMatch(m); err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	if _, err := store.SaveMatch(m); err == nil {
		t.Error("Expected an error for a duplicate match id")
	}
}

func TestRecentMatchesLimitAndOrder(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		store.SaveMatch(multiplayer.MatchRecord{
			Players:     2,
			Result:      multiplayer.WinnerResult(multiplayer.PlayerIndex(i % 2)),
			Duration:    time.Duration(i+1) * time.Minute,
			CompletedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	matches, err := store.RecentMatches(3)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("Expected 3 matches with limit, got %d", len(matches))
	}
	if matches[0].Duration != 5*time.Minute || matches[2].Duration != 3*time.Minute {
		t.Errorf("Matches not newest first: %v, %v", matches[0].Duration, matches[2].Duration)
	}
}

func TestMatchStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveMatch(multiplayer.MatchRecord{Profile: "a", Players: 2, Result: multiplayer.WinnerResult(multiplayer.Player1), Duration: 60 * time.Second})
	store.SaveMatch(multiplayer.MatchRecord{Profile: "a", Players: 2, Result: multiplayer.WinnerResult(multiplayer.Player1), Duration: 120 * time.Second})
	store.SaveMatch(multiplayer.MatchRecord{Profile: "a", Players: 4, Result: multiplayer.UnknownWinner(), Duration: 30 * time.Second})
	store.SaveMatch(multiplayer.MatchRecord{Profile: "b", Players: 2, Result: multiplayer.WinnerResult(multiplayer.Player2)})

	stats, err := store.MatchStats("a")
	if err != nil {
		t.Fatalf("MatchStats() failed: %v", err)
	}
	if stats.Matches != 3 {
		t.Errorf("Expected 3 matches, got %d", stats.Matches)
	}
	if stats.WinsByPlayer[multiplayer.Player1] != 2 {
		t.Errorf("Expected 2 wins for player 1, got %d", stats.WinsByPlayer[multiplayer.Player1])
	}
	if stats.UnknownWinners != 1 {
		t.Errorf("Expected 1 unknown winner, got %d", stats.UnknownWinners)
	}
	if stats.AverageDuration != 70*time.Second {
		t.Errorf("Expected 70s average, got %v", stats.AverageDuration)
	}

	all, _ := store.MatchStats("")
	if all.Matches != 4 {
		t.Errorf("Expected 4 matches overall, got %d", all.Matches)
	}
}

func TestClearMatches(t *testing.T) {
	store := openTestStore(t)

	store.SaveMatch(multiplayer.MatchRecord{Profile: "a", Players: 2, Result: multiplayer.UnknownWinner()})
	store.SaveMatch(multiplayer.MatchRecord{Profile: "b", Players: 2, Result: multiplayer.UnknownWinner()})

	if err := store.ClearMatches("a"); err != nil {
		t.Fatalf("ClearMatches() failed: %v", err)
	}

	matches, _ := store.RecentMatches(10)
	if len(matches) != 1 || matches[0].Profile != "b" {
		t.Errorf("Only profile b should remain, got %v", matches)
	}
}
