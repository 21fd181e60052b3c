package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/fortuna/gridiron/internal/statlog"
)

// Hub maintains per-game rooms of connected clients and fans committed
// stat events out to them. Every subscriber in a room gets every event
// for that game, including the client whose write produced it.
type Hub struct {
	rooms   map[int]map[*Client]bool
	roomsMu sync.RWMutex

	broadcast  chan statlog.Event
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[int]map[*Client]bool),
		broadcast:  make(chan statlog.Event, 1000),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case ev := <-h.broadcast:
			h.broadcastEvent(ev)
		}
	}
}

// Register adds a client to its game's room
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from its room
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastToGame queues an event for fan-out to the game's room
func (h *Hub) BroadcastToGame(gameID int, ev statlog.Event) {
	ev.GameID = gameID
	select {
	case h.broadcast <- ev:
	default:
		log.Printf("⚠️  Broadcast buffer full, dropping %s event for game %d", ev.Kind, gameID)
	}
}

// RoomCount returns the number of clients subscribed to a game
func (h *Hub) RoomCount(gameID int) int {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()
	return len(h.rooms[gameID])
}

// ClientCount returns the number of connected clients across all rooms
func (h *Hub) ClientCount() int {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()

	total := 0
	for _, room := range h.rooms {
		total += len(room)
	}
	return total
}

func (h *Hub) registerClient(c *Client) {
	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()

	room, ok := h.rooms[c.gameID]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[c.gameID] = room
	}
	room[c] = true

	log.Printf("client %s joined game %d room (%d subscribed)", c.id, c.gameID, len(room))
}

func (h *Hub) unregisterClient(c *Client) {
	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()

	room, ok := h.rooms[c.gameID]
	if !ok {
		return
	}
	if _, ok := room[c]; ok {
		delete(room, c)
		close(c.send)
		log.Printf("client %s left game %d room (%d subscribed)", c.id, c.gameID, len(room))
	}
	if len(room) == 0 {
		delete(h.rooms, c.gameID)
	}
}

func (h *Hub) broadcastEvent(ev statlog.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("hub: marshaling %s event failed: %v", ev.Kind, err)
		return
	}

	h.roomsMu.RLock()
	clients := make([]*Client, 0, len(h.rooms[ev.GameID]))
	for c := range h.rooms[ev.GameID] {
		clients = append(clients, c)
	}
	h.roomsMu.RUnlock()

	for _, c := range clients {
		if !c.trySend(payload) {
			// Client buffer full - they're too slow, disconnect them
			log.Printf("⚠️  client %s buffer full, disconnecting", c.id)
			go h.Unregister(c)
		}
	}
}

// shutdown closes all client connections
func (h *Hub) shutdown() {
	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()

	log.Printf("Shutting down hub (%d active clients)", h.clientCountLocked())

	for gameID, room := range h.rooms {
		for c := range room {
			close(c.send)
		}
		delete(h.rooms, gameID)
	}
}

func (h *Hub) clientCountLocked() int {
	total := 0
	for _, room := range h.rooms {
		total += len(room)
	}
	return total
}
