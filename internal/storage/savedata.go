package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/vovakirdan/sneakbit/internal/world"
)

// SaveData is the key/value save game of one profile. It satisfies the
// engine's KeyValueStore.
type SaveData struct {
	store   *Store
	profile string
}

// SaveData returns the save data of profile; an empty profile is DefaultProfile.
func (s *Store) SaveData(profile string) *SaveData {
	if profile == "" {
		profile = DefaultProfile
	}
	return &SaveData{store: s, profile: profile}
}

// Profile returns the profile name.
func (d *SaveData) Profile() string {
	return d.profile
}

// LoadValues reads every value of the profile.
func (d *SaveData) LoadValues() (map[string]uint32, error) {
	rows, err := d.store.db.Query(
		"SELECT key, value FROM save_data WHERE profile = ?",
		d.profile,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query save data: %w", err)
	}
	defer rows.Close()

	values := make(map[string]uint32)
	for rows.Next() {
		var key string
		var value int64
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		values[key] = uint32(value)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return values, nil
}

// SetValue inserts or replaces one value.
func (d *SaveData) SetValue(key string, value uint32) error {
	_, err := d.store.db.Exec(
		`INSERT INTO save_data (profile, key, value, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(profile, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		d.profile, key, int64(value),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save %s: %w", key, err)
	}
	return nil
}

// ResetValues deletes every value of the profile.
func (d *SaveData) ResetValues() error {
	_, err := d.store.db.Exec("DELETE FROM save_data WHERE profile = ?", d.profile)
	if err != nil {
		return fmt.Errorf("storage: cannot reset save data: %w", err)
	}
	return nil
}

// Profiles lists every profile that has save data.
func (s *Store) Profiles() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT profile FROM save_data ORDER BY profile")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return profiles, nil
}

// RecordWorldRevision stores the latest revision of a world's tiles.
func (s *Store) RecordWorldRevision(id world.ID, revision uint32) error {
	_, err := s.db.Exec(
		`INSERT INTO world_revisions (world_id, revision, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(world_id) DO UPDATE SET revision = excluded.revision, updated_at = excluded.updated_at`,
		int64(id), int64(revision),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record revision of world %d: %w", id, err)
	}
	return nil
}

// WorldRevision returns the recorded revision of a world, or ErrNotFound.
func (s *Store) WorldRevision(id world.ID) (uint32, error) {
	var revision int64
	err := s.db.QueryRow("SELECT revision FROM world_revisions WHERE world_id = ?", int64(id)).Scan(&revision)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("storage: cannot query revision of world %d: %w", id, err)
	}
	return uint32(revision), nil
}

// WorldRevisions returns every recorded revision keyed by world id.
func (s *Store) WorldRevisions() (map[world.ID]uint32, error) {
	rows, err := s.db.Query("SELECT world_id, revision FROM world_revisions")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query world revisions: %w", err)
	}
	defer rows.Close()

	revisions := make(map[world.ID]uint32)
	for rows.Next() {
		var id, revision int64
		if err := rows.Scan(&id, &revision); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		revisions[world.ID(id)] = uint32(revision)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return revisions, nil
}
