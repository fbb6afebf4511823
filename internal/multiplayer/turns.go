package multiplayer

// Turn timings in seconds.
const (
	TurnDuration                       float32 = 10
	TurnPrepDuration                   float32 = 3
	TurnDurationAfterEnemyPlayerDamage float32 = 2
)

// TurnKind tells who may act right now.
type TurnKind int

const (
	// TurnRealTime lets every player act at once.
	TurnRealTime TurnKind = iota

	// TurnPlayerPrep is the countdown before a player's turn; nobody acts.
	TurnPlayerPrep

	// TurnPlayer lets exactly one player act until the time runs out.
	TurnPlayer
)

// GameTurn is the current turn state.
type GameTurn struct {
	Kind          TurnKind
	Player        PlayerIndex
	TimeRemaining float32

	// ReducedAfterDamage is set once the turn was cut short because the
	// current player hit an enemy player.
	ReducedAfterDamage bool
}

// RealTimeTurn returns the turn used outside of turn-based modes.
func RealTimeTurn() GameTurn {
	return GameTurn{Kind: TurnRealTime}
}

// PrepTurn returns the countdown turn for a player.
func PrepTurn(p PlayerIndex) GameTurn {
	return GameTurn{Kind: TurnPlayerPrep, Player: p, TimeRemaining: TurnPrepDuration}
}

// PlayerTurn returns a fresh turn for a player.
func PlayerTurn(p PlayerIndex) GameTurn {
	return GameTurn{Kind: TurnPlayer, Player: p, TimeRemaining: TurnDuration}
}

// IsPrep reports whether the turn is a countdown.
func (t GameTurn) IsPrep() bool {
	return t.Kind == TurnPlayerPrep
}

// CanAct reports whether the given player may move and attack during this turn.
func (t GameTurn) CanAct(p PlayerIndex) bool {
	switch t.Kind {
	case TurnRealTime:
		return true
	case TurnPlayer:
		return t.Player == p
	default:
		return false
	}
}

// CurrentPlayer returns the player the turn belongs to (player 0 in real time).
func (t GameTurn) CurrentPlayer() PlayerIndex {
	if t.Kind == TurnRealTime {
		return Player1
	}
	return t.Player
}

// ReducedAfterEnemyDamage cuts the remaining time after the current player
// damaged an enemy player. Only the first hit of a turn counts.
func (t GameTurn) ReducedAfterEnemyDamage() GameTurn {
	if t.Kind != TurnPlayer || t.ReducedAfterDamage {
		return t
	}
	if t.TimeRemaining > TurnDurationAfterEnemyPlayerDamage {
		t.TimeRemaining = TurnDurationAfterEnemyPlayerDamage
	}
	t.ReducedAfterDamage = true
	return t
}

// TurnsUseCase sequences turns and decides match outcomes.
// It holds no state; the engine owns the current GameTurn.
type TurnsUseCase struct{}

// FirstTurn returns the opening turn for a mode.
func (TurnsUseCase) FirstTurn(mode GameMode) GameTurn {
	if mode.IsTurnBased() {
		return PrepTurn(Player1)
	}
	return RealTimeTurn()
}

// UpdatedTurn advances the turn by dt. numberOfPlayers is the active player
// count; dead lists players that can no longer act and are skipped.
// A single-player turn never changes.
func (u TurnsUseCase) UpdatedTurn(current GameTurn, numberOfPlayers int, dead []PlayerIndex, dt float32) GameTurn {
	if numberOfPlayers <= 1 {
		return current
	}

	switch current.Kind {
	case TurnPlayerPrep:
		left := current.TimeRemaining - dt
		if left <= 0 {
			return PlayerTurn(current.Player)
		}
		current.TimeRemaining = left
		return current

	case TurnPlayer:
		left := current.TimeRemaining - dt
		if left <= 0 {
			return PrepTurn(u.nextPlayer(current.Player, numberOfPlayers, dead))
		}
		current.TimeRemaining = left
		return current

	default:
		return current
	}
}

// UpdatedTurnForDeathOfPlayer ends the current turn if the dead player owned it.
// The second result is false when the turn is unaffected.
func (u TurnsUseCase) UpdatedTurnForDeathOfPlayer(current GameTurn, numberOfPlayers int, dead []PlayerIndex, deadPlayer PlayerIndex) (GameTurn, bool) {
	if current.Kind == TurnRealTime || current.Player != deadPlayer {
		return current, false
	}
	if current.Kind == TurnPlayerPrep {
		return PrepTurn(u.nextPlayer(current.Player, numberOfPlayers, dead)), true
	}
	return u.UpdatedTurn(current, numberOfPlayers, dead, TurnDuration*2), true
}

// nextPlayer returns the first player after p that is not dead, wrapping to
// player 0. If everybody else is dead, p keeps the turn.
func (TurnsUseCase) nextPlayer(p PlayerIndex, numberOfPlayers int, dead []PlayerIndex) PlayerIndex {
	for step := 1; step <= numberOfPlayers; step++ {
		candidate := PlayerIndex((int(p) + step) % numberOfPlayers)
		if !containsPlayer(dead, candidate) {
			return candidate
		}
	}
	return p
}

func containsPlayer(players []PlayerIndex, p PlayerIndex) bool {
	for _, q := range players {
		if q == p {
			return true
		}
	}
	return false
}
