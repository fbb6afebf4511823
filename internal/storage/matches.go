package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/sneakbit/internal/multiplayer"
)

// MatchStats aggregates the match history of a profile.
type MatchStats struct {
	Matches         int
	UnknownWinners  int
	WinsByPlayer    map[multiplayer.PlayerIndex]int
	AverageDuration time.Duration
}

// SaveMatch records a finished arena match. A record without an ID gets a
// fresh uuid; the stored ID is returned.
func (s *Store) SaveMatch(m multiplayer.MatchRecord) (multiplayer.MatchID, error) {
	if m.ID == "" {
		m.ID = multiplayer.MatchID(uuid.NewString())
	}
	if m.Profile == "" {
		m.Profile = DefaultProfile
	}

	var winner sql.NullInt64
	if m.Result.HasWinner() {
		winner = sql.NullInt64{Int64: int64(m.Result.Winner), Valid: true}
	}

	createdAt := m.CompletedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO pvp_matches (match_id, profile, players, outcome, winner, duration_secs, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(m.ID), m.Profile, m.Players, int(m.Result.Outcome), winner,
		int64(m.Duration/time.Second), createdAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save match: %w", err)
	}

	return m.ID, nil
}

// RecentMatches returns the latest matches of every profile, newest first.
func (s *Store) RecentMatches(limit int) ([]multiplayer.MatchRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT match_id, profile, players, outcome, winner, duration_secs, created_at
		 FROM pvp_matches
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var records []multiplayer.MatchRecord
	for rows.Next() {
		r, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// MatchByID returns one match, or ErrNotFound.
func (s *Store) MatchByID(id multiplayer.MatchID) (multiplayer.MatchRecord, error) {
	row := s.db.QueryRow(
		`SELECT match_id, profile, players, outcome, winner, duration_secs, created_at
		 FROM pvp_matches
		 WHERE match_id = ?`,
		string(id),
	)
	r, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return multiplayer.MatchRecord{}, ErrNotFound
	}
	return r, err
}

// MatchStats aggregates the history of profile; an empty profile covers all.
func (s *Store) MatchStats(profile string) (MatchStats, error) {
	stats := MatchStats{WinsByPlayer: make(map[multiplayer.PlayerIndex]int)}

	query := "SELECT outcome, winner, duration_secs FROM pvp_matches"
	var args []any
	if profile != "" {
		query += " WHERE profile = ?"
		args = append(args, profile)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return stats, fmt.Errorf("storage: cannot query match stats: %w", err)
	}
	defer rows.Close()

	var total time.Duration
	for rows.Next() {
		var outcome int
		var winner sql.NullInt64
		var secs int64
		if err := rows.Scan(&outcome, &winner, &secs); err != nil {
			return stats, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		stats.Matches++
		total += time.Duration(secs) * time.Second
		switch multiplayer.MatchOutcome(outcome) {
		case multiplayer.OutcomeWinner:
			if winner.Valid {
				stats.WinsByPlayer[multiplayer.PlayerIndex(winner.Int64)]++
			}
		case multiplayer.OutcomeUnknownWinner:
			stats.UnknownWinners++
		}
	}

	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("storage: row iteration error: %w", err)
	}

	if stats.Matches > 0 {
		stats.AverageDuration = total / time.Duration(stats.Matches)
	}
	return stats, nil
}

// ClearMatches deletes the history of profile; an empty profile deletes all.
func (s *Store) ClearMatches(profile string) error {
	var err error
	if profile == "" {
		_, err = s.db.Exec("DELETE FROM pvp_matches")
	} else {
		_, err = s.db.Exec("DELETE FROM pvp_matches WHERE profile = ?", profile)
	}
	if err != nil {
		return fmt.Errorf("storage: cannot clear matches: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (multiplayer.MatchRecord, error) {
	var r multiplayer.MatchRecord
	var id string
	var outcome int
	var winner sql.NullInt64
	var secs int64
	var createdAt any
	if err := row.Scan(&id, &r.Profile, &r.Players, &outcome, &winner, &secs, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("storage: cannot scan row: %w", err)
	}

	r.ID = multiplayer.MatchID(id)
	r.Result = multiplayer.MatchResult{Outcome: multiplayer.MatchOutcome(outcome)}
	if winner.Valid {
		r.Result.Winner = multiplayer.PlayerIndex(winner.Int64)
	}
	r.Duration = time.Duration(secs) * time.Second
	r.CompletedAt = parseTimestamp(createdAt)
	return r, nil
}
