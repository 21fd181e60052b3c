package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/gridiron/internal/store"
)

// PlayerRepository handles player data access
type PlayerRepository struct {
	db *store.Database
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *store.Database) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// GetByID returns a player by id
func (r *PlayerRepository) GetByID(ctx context.Context, playerID int) (*store.Player, error) {
	query := `
		SELECT player_id, first_name, last_name, full_name, jersey_number, position, class_year, created_at, updated_at
		FROM players
		WHERE player_id = $1
	`

	player := &store.Player{}
	err := r.db.DB().QueryRowContext(ctx, query, playerID).Scan(
		&player.PlayerID, &player.FirstName, &player.LastName, &player.FullName,
		&player.JerseyNumber, &player.Position, &player.ClassYear,
		&player.CreatedAt, &player.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("player %d not found", playerID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying player %d: %w", playerID, err)
	}

	return player, nil
}

// Search returns players whose name matches the query string
func (r *PlayerRepository) Search(ctx context.Context, name string, limit int) ([]*store.Player, error) {
	query := `
		SELECT player_id, first_name, last_name, full_name, jersey_number, position, class_year, created_at, updated_at
		FROM players
		WHERE full_name ILIKE '%' || $1 || '%'
		ORDER BY last_name, first_name
		LIMIT $2
	`

	rows, err := r.db.DB().QueryContext(ctx, query, name, limit)
	if err != nil {
		return nil, fmt.Errorf("searching players: %w", err)
	}
	defer rows.Close()

	var players []*store.Player
	for rows.Next() {
		player := &store.Player{}
		if err := rows.Scan(
			&player.PlayerID, &player.FirstName, &player.LastName, &player.FullName,
			&player.JerseyNumber, &player.Position, &player.ClassYear,
			&player.CreatedAt, &player.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		players = append(players, player)
	}

	return players, rows.Err()
}

// Create inserts a new player and returns their id
func (r *PlayerRepository) Create(ctx context.Context, player *store.Player) (int, error) {
	query := `
		INSERT INTO players (first_name, last_name, full_name, jersey_number, position, class_year)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING player_id
	`

	var playerID int
	err := r.db.DB().QueryRowContext(ctx, query,
		player.FirstName, player.LastName, player.FullName,
		player.JerseyNumber, player.Position, player.ClassYear,
	).Scan(&playerID)
	if err != nil {
		return 0, fmt.Errorf("inserting player: %w", err)
	}

	return playerID, nil
}
