package multiplayer

import "time"

// MatchOutcome is the kind of a MatchResult.
type MatchOutcome int

const (
	OutcomeInProgress MatchOutcome = iota
	OutcomeGameOver
	OutcomeUnknownWinner
	OutcomeWinner
)

// String returns a human-readable name for the outcome.
func (o MatchOutcome) String() string {
	switch o {
	case OutcomeInProgress:
		return "In progress"
	case OutcomeGameOver:
		return "Game over"
	case OutcomeUnknownWinner:
		return "Unknown winner"
	case OutcomeWinner:
		return "Winner"
	default:
		return "Unknown"
	}
}

// MatchResult is the state of the current match. Exactly one outcome holds;
// Winner is meaningful only for OutcomeWinner.
type MatchResult struct {
	Outcome MatchOutcome
	Winner  PlayerIndex
}

// InProgress returns the non-terminal result.
func InProgress() MatchResult {
	return MatchResult{Outcome: OutcomeInProgress}
}

// GameOver returns the co-op loss result.
func GameOver() MatchResult {
	return MatchResult{Outcome: OutcomeGameOver}
}

// UnknownWinner returns the result of a match where nobody survived.
func UnknownWinner() MatchResult {
	return MatchResult{Outcome: OutcomeUnknownWinner}
}

// WinnerResult returns the result of a match won by p.
func WinnerResult(p PlayerIndex) MatchResult {
	return MatchResult{Outcome: OutcomeWinner, Winner: p}
}

// IsInProgress reports whether the match is still running.
func (r MatchResult) IsInProgress() bool { return r.Outcome == OutcomeInProgress }

// IsGameOver reports whether the main player lost a co-op game.
func (r MatchResult) IsGameOver() bool { return r.Outcome == OutcomeGameOver }

// IsUnknownWinner reports whether the match ended without a survivor.
func (r MatchResult) IsUnknownWinner() bool { return r.Outcome == OutcomeUnknownWinner }

// HasWinner reports whether the match ended with a winner.
func (r MatchResult) HasWinner() bool { return r.Outcome == OutcomeWinner }

// IsFinished reports whether the match reached a terminal outcome.
func (r MatchResult) IsFinished() bool { return r.Outcome != OutcomeInProgress }

// HandleWinLose decides the match result from the mode and the dead players.
func (TurnsUseCase) HandleWinLose(mode GameMode, numberOfPlayers int, dead []PlayerIndex) MatchResult {
	switch mode {
	case GameModeRealTimeCoOp:
		if containsPlayer(dead, Player1) {
			return GameOver()
		}
		return InProgress()

	case GameModeTurnBasedPvp:
		deadCount := 0
		for p := 0; p < numberOfPlayers; p++ {
			if containsPlayer(dead, PlayerIndex(p)) {
				deadCount++
			}
		}
		if deadCount < numberOfPlayers-1 {
			return InProgress()
		}
		for p := 0; p < numberOfPlayers; p++ {
			if !containsPlayer(dead, PlayerIndex(p)) {
				return WinnerResult(PlayerIndex(p))
			}
		}
		return UnknownWinner()

	default:
		return InProgress()
	}
}

// MatchRecord is a finished arena match, kept in the match history.
type MatchRecord struct {
	ID          MatchID
	Profile     string
	Players     int
	Result      MatchResult
	Duration    time.Duration
	CompletedAt time.Time
}

// WinnerLabel returns a printable winner column for history views.
func (r MatchRecord) WinnerLabel() string {
	switch r.Result.Outcome {
	case OutcomeWinner:
		return r.Result.Winner.String()
	case OutcomeUnknownWinner:
		return "Nobody"
	default:
		return r.Result.Outcome.String()
	}
}
