package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// MappingRepository tracks which external playlist each configured
// playlist type publishes to. The mapping survives restarts and is
// repointed during rollover.
type MappingRepository struct {
	db *sql.DB
}

// NewMappingRepository creates a MappingRepository with the given database
// connection.
func NewMappingRepository(db *sql.DB) *MappingRepository {
	return &MappingRepository{db: db}
}

// Get returns the external playlist id mapped to a playlist type, or an
// empty string when no mapping exists.
func (r *MappingRepository) Get(playlistType string) (string, error) {
	var playlistID string
	err := r.db.QueryRow(
		"SELECT playlist_id FROM playlist_mappings WHERE playlist_type = ?",
		playlistType,
	).Scan(&playlistID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get playlist mapping: %w", err)
	}
	return playlistID, nil
}

// Set maps a playlist type to an external playlist id, replacing any
// previous mapping.
func (r *MappingRepository) Set(playlistType, playlistID string) error {
	query := `
		INSERT INTO playlist_mappings (playlist_type, playlist_id)
		VALUES (?, ?)
		ON CONFLICT(playlist_type) DO UPDATE SET
			playlist_id = excluded.playlist_id,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := r.db.Exec(query, playlistType, playlistID); err != nil {
		return fmt.Errorf("failed to set playlist mapping: %w", err)
	}
	return nil
}

// All returns every stored mapping keyed by playlist type.
func (r *MappingRepository) All() (map[string]string, error) {
	rows, err := r.db.Query("SELECT playlist_type, playlist_id FROM playlist_mappings")
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist mappings: %w", err)
	}
	defer rows.Close()

	mappings := make(map[string]string)
	for rows.Next() {
		var playlistType, playlistID string
		if err := rows.Scan(&playlistType, &playlistID); err != nil {
			return nil, fmt.Errorf("failed to scan playlist mapping: %w", err)
		}
		mappings[playlistType] = playlistID
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return mappings, nil
}
