package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/gridiron/internal/store"
)

// GameRepository handles game data access
type GameRepository struct {
	db *store.Database
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *store.Database) *GameRepository {
	return &GameRepository{db: db}
}

// GetByID returns a game by id
func (r *GameRepository) GetByID(ctx context.Context, gameID int) (*store.Game, error) {
	query := `
		SELECT game_id, season, opponent, game_date, level, location, status, created_at, updated_at
		FROM games
		WHERE game_id = $1
	`

	game := &store.Game{}
	err := r.db.DB().QueryRowContext(ctx, query, gameID).Scan(
		&game.GameID, &game.Season, &game.Opponent, &game.GameDate,
		&game.Level, &game.Location, &game.Status, &game.CreatedAt, &game.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("game %d not found", gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying game %d: %w", gameID, err)
	}

	return game, nil
}

// ListBySeason returns a season's games, most recent first
func (r *GameRepository) ListBySeason(ctx context.Context, season string) ([]*store.Game, error) {
	query := `
		SELECT game_id, season, opponent, game_date, level, location, status, created_at, updated_at
		FROM games
		WHERE season = $1
		ORDER BY game_date DESC
	`

	rows, err := r.db.DB().QueryContext(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("querying season %s games: %w", season, err)
	}
	defer rows.Close()

	var games []*store.Game
	for rows.Next() {
		game := &store.Game{}
		if err := rows.Scan(
			&game.GameID, &game.Season, &game.Opponent, &game.GameDate,
			&game.Level, &game.Location, &game.Status, &game.CreatedAt, &game.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		games = append(games, game)
	}

	return games, rows.Err()
}

// Create inserts a new game and returns its id
func (r *GameRepository) Create(ctx context.Context, game *store.Game) (int, error) {
	query := `
		INSERT INTO games (season, opponent, game_date, level, location, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING game_id
	`

	var gameID int
	err := r.db.DB().QueryRowContext(ctx, query,
		game.Season, game.Opponent, game.GameDate, game.Level, game.Location, game.Status,
	).Scan(&gameID)
	if err != nil {
		return 0, fmt.Errorf("inserting game: %w", err)
	}

	return gameID, nil
}
