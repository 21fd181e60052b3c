package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/fortuna/gridiron/internal/statlog"
	"github.com/fortuna/gridiron/internal/store"
	"github.com/fortuna/gridiron/internal/store/repository"
)

// ErrInvalidStat marks a malformed draft rejected before persistence
var ErrInvalidStat = errors.New("invalid stat entry")

// ErrStatNotFound is re-exported so handlers don't reach into the
// repository package for it
var ErrStatNotFound = repository.ErrStatNotFound

// Broadcaster fans a committed event out to every client subscribed to
// the game's room, including the writer (clients rely on the self-echo)
type Broadcaster interface {
	BroadcastToGame(gameID int, ev statlog.Event)
}

// EventPublisher pushes committed events onto the stream consumed by
// out-of-process jobs (grade sheets, exports)
type EventPublisher interface {
	PublishStatEvent(ctx context.Context, ev statlog.Event) error
}

// StatService is the authoritative write path for stat entries: every
// create/update/delete lands in Postgres first, then fans out to the
// game room and the event stream
type StatService struct {
	statRepo    *repository.StatRepository
	gameRepo    *repository.GameRepository
	playerRepo  *repository.PlayerRepository
	broadcaster Broadcaster
	publisher   EventPublisher
}

// NewStatService creates a new stat service
func NewStatService(db *store.Database, broadcaster Broadcaster, publisher EventPublisher) *StatService {
	return &StatService{
		statRepo:    repository.NewStatRepository(db),
		gameRepo:    repository.NewGameRepository(db),
		playerRepo:  repository.NewPlayerRepository(db),
		broadcaster: broadcaster,
		publisher:   publisher,
	}
}

// CreateStat validates and persists a draft, returning the canonical
// entry carrying the assigned persistent id
func (s *StatService) CreateStat(ctx context.Context, gameID int, draft statlog.StatEntry) (statlog.StatEntry, error) {
	draft.GameID = gameID
	if err := validateDraft(draft); err != nil {
		return statlog.StatEntry{}, err
	}

	statID, err := s.statRepo.InsertStat(ctx, store.LineFromEntry(draft))
	if err != nil {
		return statlog.StatEntry{}, fmt.Errorf("persisting stat: %w", err)
	}

	canonical := draft
	canonical.ID = strconv.FormatInt(statID, 10)

	s.fanOut(ctx, statlog.Event{
		Kind:   statlog.EventCreated,
		GameID: gameID,
		Entry:  &canonical,
	})

	return canonical, nil
}

// UpdateStat replaces an entry's fields by persistent id
func (s *StatService) UpdateStat(ctx context.Context, statID string, entry statlog.StatEntry) (statlog.StatEntry, error) {
	id, err := parseStatID(statID)
	if err != nil {
		return statlog.StatEntry{}, err
	}
	if err := validateDraft(entry); err != nil {
		return statlog.StatEntry{}, err
	}

	if err := s.statRepo.UpdateStat(ctx, id, store.LineFromEntry(entry)); err != nil {
		return statlog.StatEntry{}, err
	}

	entry.ID = statID
	s.fanOut(ctx, statlog.Event{
		Kind:   statlog.EventUpdated,
		GameID: entry.GameID,
		Entry:  &entry,
	})

	return entry, nil
}

// DeleteStat removes an entry by persistent id
func (s *StatService) DeleteStat(ctx context.Context, statID string) error {
	id, err := parseStatID(statID)
	if err != nil {
		return err
	}

	line, err := s.statRepo.GetStat(ctx, id)
	if err != nil {
		return err
	}

	if err := s.statRepo.DeleteStat(ctx, id); err != nil {
		return err
	}

	s.fanOut(ctx, statlog.Event{
		Kind:   statlog.EventDeleted,
		GameID: line.GameID,
		ID:     statID,
	})

	return nil
}

// GameStats returns a game's entries newest first, ready for client
// hydration
func (s *StatService) GameStats(ctx context.Context, gameID int) ([]statlog.StatEntry, error) {
	lines, err := s.statRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetching game stats: %w", err)
	}

	entries := make([]statlog.StatEntry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, line.ToEntry())
	}
	return entries, nil
}

// fanOut broadcasts to the room and publishes to the stream. Neither
// failure blocks the write path; the row is already committed.
func (s *StatService) fanOut(ctx context.Context, ev statlog.Event) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToGame(ev.GameID, ev)
	}
	if s.publisher != nil {
		if err := s.publisher.PublishStatEvent(ctx, ev); err != nil {
			log.Printf("service: publishing %s event for game %d failed: %v", ev.Kind, ev.GameID, err)
		}
	}
}

func validateDraft(e statlog.StatEntry) error {
	if !statlog.KnownStatType(e.Type) {
		return fmt.Errorf("%w: unknown stat type %q", ErrInvalidStat, e.Type)
	}
	if e.GameID <= 0 {
		return fmt.Errorf("%w: missing game id", ErrInvalidStat)
	}
	if e.PlayerID <= 0 {
		return fmt.Errorf("%w: missing player id", ErrInvalidStat)
	}
	return nil
}

func parseStatID(statID string) (int64, error) {
	id, err := strconv.ParseInt(statID, 10, 64)
	if err != nil {
		// Temp ids never reach the store; a client that sends one gets
		// the same answer as for any unknown id
		return 0, ErrStatNotFound
	}
	return id, nil
}
