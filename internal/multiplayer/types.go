// Package multiplayer provides the player, mode and turn types shared by the
// engine and the shells: game modes, PvP turn sequencing and match results.
package multiplayer

import "fmt"

// MaxPlayers is the maximum number of local players in one engine.
const MaxPlayers = 4

// PlayerIndex identifies a local player (0..MaxPlayers-1).
// Player 0 is always the main player; co-op and exploration use only player 0.
type PlayerIndex int

// Player constants for convenience.
const (
	Player1 PlayerIndex = iota
	Player2
	Player3
	Player4
)

// IsValid reports whether the index addresses one of the MaxPlayers slots.
func (p PlayerIndex) IsValid() bool {
	return p >= 0 && p < MaxPlayers
}

// String returns a 1-based label for the player.
func (p PlayerIndex) String() string {
	return fmt.Sprintf("Player %d", int(p)+1)
}

// SessionID uniquely identifies a connected play session (e.g., SSH connection).
type SessionID string

// MatchID uniquely identifies a PvP arena match.
type MatchID string

// GameMode defines how the engine runs players and turns.
type GameMode int

const (
	// GameModeRealTimeCoOp is regular exploration; players act simultaneously.
	GameModeRealTimeCoOp GameMode = iota

	// GameModeCreative disables damage and death and enables map painting.
	GameModeCreative

	// GameModeTurnBasedPvp is the arena: players alternate timed turns.
	GameModeTurnBasedPvp
)

// String returns a human-readable name for the game mode.
func (m GameMode) String() string {
	switch m {
	case GameModeRealTimeCoOp:
		return "Co-op"
	case GameModeCreative:
		return "Creative"
	case GameModeTurnBasedPvp:
		return "PvP"
	default:
		return "Unknown"
	}
}

// IsTurnBased reports whether players alternate turns.
func (m GameMode) IsTurnBased() bool {
	return m == GameModeTurnBasedPvp
}

// IsPvp reports whether players can damage each other.
func (m GameMode) IsPvp() bool {
	return m == GameModeTurnBasedPvp
}

// PlayerHP returns the starting hit points of each player in this mode.
func (m GameMode) PlayerHP() float32 {
	if m == GameModeTurnBasedPvp {
		return 1000
	}
	return 100
}
