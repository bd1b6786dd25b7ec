package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/spincycle/internal/models"
	"github.com/desertthunder/spincycle/internal/shared"
)

// RunRepository appends audit records for playlist update attempts.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a RunRepository with the given database
// connection.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a run record with a generated ID and sequence, setting
// both on the passed value.
func (r *RunRepository) Create(record *models.RunRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	record.ID = shared.GenerateID()
	record.Seq = sequence

	query := `
		INSERT INTO runs (id, seq, playlist_type, ran_at, track_count, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		record.ID,
		record.Seq,
		record.PlaylistType,
		record.RanAt,
		record.TrackCount,
		record.Success,
		record.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run record: %w", err)
	}

	return nil
}

// ListByType returns run records for a playlist type, newest first. A
// limit of zero or less returns every record.
func (r *RunRepository) ListByType(playlistType string, limit int) ([]*models.RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}

	query := `
		SELECT id, seq, playlist_type, ran_at, track_count, success, error_message
		FROM runs
		WHERE playlist_type = ?
		ORDER BY ran_at DESC, seq DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, playlistType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query run records: %w", err)
	}
	defer rows.Close()

	var records []*models.RunRecord
	for rows.Next() {
		var (
			record  models.RunRecord
			message sql.NullString
		)
		err := rows.Scan(
			&record.ID,
			&record.Seq,
			&record.PlaylistType,
			&record.RanAt,
			&record.TrackCount,
			&record.Success,
			&message,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}
		record.ErrorMessage = message.String
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// Stats aggregates run outcomes for a playlist type.
func (r *RunRepository) Stats(playlistType string) (models.RunStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN success THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN NOT success THEN 1 ELSE 0 END), 0)
		FROM runs
		WHERE playlist_type = ?
	`

	var stats models.RunStats
	err := r.db.QueryRow(query, playlistType).Scan(&stats.Total, &stats.Successful, &stats.Failed)
	if err != nil {
		return models.RunStats{}, fmt.Errorf("failed to aggregate run stats: %w", err)
	}
	return stats, nil
}
