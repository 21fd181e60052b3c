// Package session wires the client-side core together: the optimistic
// ledger and its reconciler, the shortcut router, the game clock, the
// REST persister and the per-game broadcast subscription.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/fortuna/gridiron/internal/gameclock"
	"github.com/fortuna/gridiron/internal/shortcut"
	"github.com/fortuna/gridiron/internal/statlog"
	"github.com/gorilla/websocket"
)

// Session is one scout's connection to one game: a ledger fed by local
// keystrokes on one side and by the game room's broadcast on the other
type Session struct {
	userID string
	api    *APIClient
	wsBase string

	Router *shortcut.Router
	Clock  *gameclock.Clock

	ledger     *statlog.Ledger
	reconciler *statlog.Reconciler

	conn   *websocket.Conn
	cancel context.CancelFunc
}

// New creates a session for a user against a gridiron service.
// baseURL is the REST endpoint ("http://host:8080"), wsBase the
// websocket endpoint ("ws://host:8081").
func New(baseURL, wsBase, userID string) *Session {
	return &Session{
		userID: userID,
		api:    NewAPIClient(baseURL),
		wsBase: wsBase,
		Clock:  gameclock.New(),
	}
}

// Join hydrates the ledger for a game, loads the user's shortcut map
// and subscribes to the game's broadcast room. Call Leave before
// joining another game.
func (s *Session) Join(ctx context.Context, gameID int) error {
	keys, err := s.api.Shortcuts(ctx, s.userID)
	if err != nil {
		// A session without saved bindings is still usable
		log.Printf("session: loading shortcuts failed, using defaults: %v", err)
		keys = shortcut.DefaultKeyMap()
	}
	s.Router = shortcut.NewRouter(keys)

	s.ledger = statlog.NewLedger(gameID, s.userID, s.api)
	s.reconciler = statlog.NewReconciler(s.ledger)

	entries, err := s.api.GameStats(ctx, gameID)
	if err != nil {
		return fmt.Errorf("hydrating game %d: %w", gameID, err)
	}
	s.ledger.Hydrate(entries)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, fmt.Sprintf("%s/ws/games/%d", s.wsBase, gameID), nil)
	if err != nil {
		return fmt.Errorf("subscribing to game %d room: %w", gameID, err)
	}
	s.conn = conn

	readCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.readEvents(readCtx)

	return nil
}

// Leave closes the broadcast subscription and discards the ledger
func (s *Session) Leave() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.ledger = nil
	s.reconciler = nil
}

// Ledger exposes the joined game's ledger; nil before Join
func (s *Session) Ledger() *statlog.Ledger {
	return s.ledger
}

// LogIntent expands an intent through the cascade table and applies the
// resulting drafts, stamped with the current game clock. Returns the
// minted temp ids.
func (s *Session) LogIntent(playerID int, intent shortcut.Intent, period string) []string {
	if s.ledger == nil {
		return nil
	}

	primary := statlog.StatEntry{
		PlayerID:  playerID,
		Type:      intent.Type,
		Value:     intent.Value,
		GameClock: s.Clock.Stamp(),
		Period:    period,
		CreatedBy: s.userID,
	}
	return s.ledger.Apply(statlog.Expand(primary))
}

// readEvents feeds broadcast events into the reconciler until the
// connection drops or Leave is called
func (s *Session) readEvents(ctx context.Context) {
	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("session: broadcast subscription closed: %v", err)
			}
			return
		}

		var ev statlog.Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			log.Printf("session: dropping malformed broadcast event: %v", err)
			continue
		}
		s.reconciler.Handle(ev)
	}
}
