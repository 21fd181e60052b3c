package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fortuna/gridiron/internal/cache"
	"github.com/fortuna/gridiron/internal/service"
	"github.com/fortuna/gridiron/internal/shortcut"
	"github.com/fortuna/gridiron/internal/statlog"
	"github.com/fortuna/gridiron/internal/store"
	"github.com/fortuna/gridiron/internal/store/repository"
	"github.com/gorilla/mux"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	db          *store.Database
	statService *service.StatService
	gameRepo    *repository.GameRepository
	playerRepo  *repository.PlayerRepository
	shortcuts   *shortcut.ConfigStore
}

// NewHandler creates a new handler
func NewHandler(db *store.Database, redisCache *cache.RedisCache, broadcaster service.Broadcaster, publisher service.EventPublisher) *Handler {
	return &Handler{
		db:          db,
		statService: service.NewStatService(db, broadcaster, publisher),
		gameRepo:    repository.NewGameRepository(db),
		playerRepo:  repository.NewPlayerRepository(db),
		shortcuts:   shortcut.NewConfigStore(redisCache),
	}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "gridiron",
		"version": "1.0.0",
	})
}

// GetGameStats returns a game's stat entries newest first (hydrate)
func (h *Handler) GetGameStats(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathInt(r, "gameID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid game id", err)
		return
	}

	entries, err := h.statService.GameStats(r.Context(), gameID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch game stats", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"game_id": gameID,
		"entries": entries,
		"count":   len(entries),
	})
}

// CreateStat persists a new stat entry and responds with the canonical
// entry carrying its persistent id
func (h *Handler) CreateStat(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathInt(r, "gameID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid game id", err)
		return
	}

	var draft statlog.StatEntry
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid stat payload", err)
		return
	}

	canonical, err := h.statService.CreateStat(r.Context(), gameID, draft)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStat) {
			respondError(w, http.StatusUnprocessableEntity, "Stat entry rejected", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to create stat", err)
		return
	}

	respondJSON(w, http.StatusCreated, canonical)
}

// UpdateStat replaces a stat entry's fields by persistent id
func (h *Handler) UpdateStat(w http.ResponseWriter, r *http.Request) {
	statID := mux.Vars(r)["statID"]

	var entry statlog.StatEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid stat payload", err)
		return
	}

	updated, err := h.statService.UpdateStat(r.Context(), statID, entry)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStatNotFound):
			respondError(w, http.StatusNotFound, "Stat entry not found", err)
		case errors.Is(err, service.ErrInvalidStat):
			respondError(w, http.StatusUnprocessableEntity, "Stat entry rejected", err)
		default:
			respondError(w, http.StatusInternalServerError, "Failed to update stat", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// DeleteStat removes a stat entry by persistent id
func (h *Handler) DeleteStat(w http.ResponseWriter, r *http.Request) {
	statID := mux.Vars(r)["statID"]

	if err := h.statService.DeleteStat(r.Context(), statID); err != nil {
		if errors.Is(err, service.ErrStatNotFound) {
			respondError(w, http.StatusNotFound, "Stat entry not found", err)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete stat", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"deleted": statID})
}

// GetGame returns a specific game by ID
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathInt(r, "gameID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid game id", err)
		return
	}

	game, err := h.gameRepo.GetByID(r.Context(), gameID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Game not found", err)
		return
	}

	respondJSON(w, http.StatusOK, game)
}

// GetGamesBySeason returns a season's games
func (h *Handler) GetGamesBySeason(w http.ResponseWriter, r *http.Request) {
	season := r.URL.Query().Get("season")
	if season == "" {
		respondError(w, http.StatusBadRequest, "Missing season parameter", nil)
		return
	}

	games, err := h.gameRepo.ListBySeason(r.Context(), season)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch games", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"games": games,
		"count": len(games),
	})
}

// CreateGame inserts a new game
func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var game store.Game
	if err := json.NewDecoder(r.Body).Decode(&game); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid game payload", err)
		return
	}
	if game.Status == "" {
		game.Status = "scheduled"
	}
	if game.Level == "" {
		game.Level = "varsity"
	}

	gameID, err := h.gameRepo.Create(r.Context(), &game)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create game", err)
		return
	}

	game.GameID = gameID
	respondJSON(w, http.StatusCreated, game)
}

// GetPlayer returns a specific player by ID
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := pathInt(r, "playerID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid player id", err)
		return
	}

	player, err := h.playerRepo.GetByID(r.Context(), playerID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Player not found", err)
		return
	}

	respondJSON(w, http.StatusOK, player)
}

// SearchPlayers returns players matching a name query
func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("q")
	if name == "" {
		respondError(w, http.StatusBadRequest, "Missing q parameter", nil)
		return
	}

	limit := 20
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	players, err := h.playerRepo.Search(r.Context(), name, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to search players", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"players": players,
		"count":   len(players),
	})
}

// CreatePlayer inserts a new player
func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var player store.Player
	if err := json.NewDecoder(r.Body).Decode(&player); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid player payload", err)
		return
	}
	if player.FullName == "" {
		player.FullName = player.FirstName.String + " " + player.LastName
	}

	playerID, err := h.playerRepo.Create(r.Context(), &player)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create player", err)
		return
	}

	player.PlayerID = playerID
	respondJSON(w, http.StatusCreated, player)
}

// GetShortcuts returns a user's single-key shortcut map (defaults when
// the user never saved one)
func (h *Handler) GetShortcuts(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	keys, err := h.shortcuts.Load(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load shortcuts", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"keys":    keys,
	})
}

// SaveShortcuts validates and stores a user's single-key shortcut map
func (h *Handler) SaveShortcuts(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	var keys map[string]statlog.StatType
	if err := json.NewDecoder(r.Body).Decode(&keys); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid shortcut payload", err)
		return
	}

	if err := h.shortcuts.Save(r.Context(), userID, keys); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Shortcut map rejected", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"keys":    keys,
	})
}

// pathInt extracts an integer path variable
func pathInt(r *http.Request, name string) (int, error) {
	return strconv.Atoi(mux.Vars(r)[name])
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
