package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/desertthunder/spincycle/internal/models"
	"github.com/desertthunder/spincycle/internal/shared"
)

// SnapshotRepository persists the track list selected during each update
// run. Snapshots are append-only; the latest one per playlist type feeds
// the next run's popularity deltas.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a SnapshotRepository with the given
// database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create inserts a snapshot with a generated ID and sequence, setting both
// on the passed value.
func (r *SnapshotRepository) Create(snapshot *models.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "snapshots")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	snapshot.ID = shared.GenerateID()
	snapshot.Seq = sequence

	tracks, err := json.Marshal(snapshot.Tracks)
	if err != nil {
		return fmt.Errorf("failed to encode tracks: %w", err)
	}

	query := `
		INSERT INTO snapshots (id, seq, playlist_type, taken_at, track_count, tracks)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		snapshot.ID,
		snapshot.Seq,
		snapshot.PlaylistType,
		snapshot.TakenAt,
		snapshot.TrackCount,
		string(tracks),
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return nil
}

// Latest returns the most recent snapshot for a playlist type, or nil when
// none has been taken yet. Timestamp ties resolve by insertion order.
func (r *SnapshotRepository) Latest(playlistType string) (*models.Snapshot, error) {
	query := `
		SELECT id, seq, playlist_type, taken_at, track_count, tracks
		FROM snapshots
		WHERE playlist_type = ?
		ORDER BY taken_at DESC, seq DESC
		LIMIT 1
	`

	snapshot, err := scanSnapshot(r.db.QueryRow(query, playlistType))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// ListByType returns snapshots for a playlist type, newest first. A limit
// of zero or less returns every snapshot.
func (r *SnapshotRepository) ListByType(playlistType string, limit int) ([]*models.Snapshot, error) {
	if limit <= 0 {
		limit = -1
	}

	query := `
		SELECT id, seq, playlist_type, taken_at, track_count, tracks
		FROM snapshots
		WHERE playlist_type = ?
		ORDER BY taken_at DESC, seq DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, playlistType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.Snapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return snapshots, nil
}

// Count returns how many snapshots exist for a playlist type.
func (r *SnapshotRepository) Count(playlistType string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM snapshots WHERE playlist_type = ?", playlistType).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*models.Snapshot, error) {
	var (
		snapshot models.Snapshot
		tracks   string
	)

	err := row.Scan(
		&snapshot.ID,
		&snapshot.Seq,
		&snapshot.PlaylistType,
		&snapshot.TakenAt,
		&snapshot.TrackCount,
		&tracks,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	if err := json.Unmarshal([]byte(tracks), &snapshot.Tracks); err != nil {
		return nil, fmt.Errorf("failed to decode tracks: %w", err)
	}

	return &snapshot, nil
}
