package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fortuna/gridiron/internal/store"
)

// ErrStatNotFound is returned for updates and deletes against stat ids
// the database does not hold
var ErrStatNotFound = errors.New("stat entry not found")

// StatRepository handles stat entry data access
type StatRepository struct {
	db *store.Database
}

// NewStatRepository creates a new stat repository
func NewStatRepository(db *store.Database) *StatRepository {
	return &StatRepository{db: db}
}

// InsertStat persists a new stat line and returns the assigned stat id
func (r *StatRepository) InsertStat(ctx context.Context, line store.StatLine) (int64, error) {
	query := `
		INSERT INTO stat_entries (game_id, player_id, stat_type, value, game_clock, period, note, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING stat_id
	`

	var statID int64
	err := r.db.DB().QueryRowContext(ctx, query,
		line.GameID, line.PlayerID, line.StatType, line.Value,
		line.GameClock, line.Period, line.Note, line.CreatedBy,
	).Scan(&statID)
	if err != nil {
		return 0, fmt.Errorf("inserting stat entry: %w", err)
	}

	return statID, nil
}

// UpdateStat replaces the mutable fields of an existing stat line
func (r *StatRepository) UpdateStat(ctx context.Context, statID int64, line store.StatLine) error {
	query := `
		UPDATE stat_entries
		SET player_id = $2, stat_type = $3, value = $4, game_clock = $5,
			period = $6, note = $7, updated_at = NOW()
		WHERE stat_id = $1
	`

	result, err := r.db.DB().ExecContext(ctx, query,
		statID, line.PlayerID, line.StatType, line.Value,
		line.GameClock, line.Period, line.Note,
	)
	if err != nil {
		return fmt.Errorf("updating stat entry %d: %w", statID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrStatNotFound
	}
	return nil
}

// DeleteStat removes a stat line by id
func (r *StatRepository) DeleteStat(ctx context.Context, statID int64) error {
	result, err := r.db.DB().ExecContext(ctx, "DELETE FROM stat_entries WHERE stat_id = $1", statID)
	if err != nil {
		return fmt.Errorf("deleting stat entry %d: %w", statID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrStatNotFound
	}
	return nil
}

// GetStat returns one stat line by id
func (r *StatRepository) GetStat(ctx context.Context, statID int64) (*store.StatLine, error) {
	query := `
		SELECT stat_id, game_id, player_id, stat_type, value, game_clock,
			period, note, created_by, created_at, updated_at
		FROM stat_entries
		WHERE stat_id = $1
	`

	line := &store.StatLine{}
	err := r.db.DB().QueryRowContext(ctx, query, statID).Scan(
		&line.StatID, &line.GameID, &line.PlayerID, &line.StatType, &line.Value,
		&line.GameClock, &line.Period, &line.Note, &line.CreatedBy,
		&line.CreatedAt, &line.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrStatNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying stat entry %d: %w", statID, err)
	}

	return line, nil
}

// ListByGame returns a game's stat lines newest first, the order
// clients hydrate their ledgers in
func (r *StatRepository) ListByGame(ctx context.Context, gameID int) ([]*store.StatLine, error) {
	query := `
		SELECT stat_id, game_id, player_id, stat_type, value, game_clock,
			period, note, created_by, created_at, updated_at
		FROM stat_entries
		WHERE game_id = $1
		ORDER BY created_at DESC, stat_id DESC
	`

	rows, err := r.db.DB().QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("querying game %d stats: %w", gameID, err)
	}
	defer rows.Close()

	var lines []*store.StatLine
	for rows.Next() {
		line := &store.StatLine{}
		if err := rows.Scan(
			&line.StatID, &line.GameID, &line.PlayerID, &line.StatType, &line.Value,
			&line.GameClock, &line.Period, &line.Note, &line.CreatedBy,
			&line.CreatedAt, &line.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning stat entry: %w", err)
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}
