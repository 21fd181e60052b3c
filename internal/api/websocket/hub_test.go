package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fortuna/gridiron/internal/statlog"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

// dialRoom connects a real websocket client to the game room handler
func dialRoom(t *testing.T, ts *httptest.Server, gameID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/games/" + gameID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForCount(t *testing.T, count func() int, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if count() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("count = %d, want %d", count(), want)
}

func TestRoomBroadcastReachesSubscribers(t *testing.T) {
	hub := startHub(t)
	srv := NewServer(hub)
	ts := httptest.NewServer(http.HandlerFunc(srv.handleGameRoom))
	defer ts.Close()

	dialRoom(t, ts, "1")
	c2 := dialRoom(t, ts, "1")

	waitForCount(t, func() int { return hub.RoomCount(1) }, 2)

	entry := statlog.StatEntry{ID: "501", GameID: 1, PlayerID: 7, Type: statlog.StatRush, Value: 12}
	hub.BroadcastToGame(1, statlog.Event{Kind: statlog.EventCreated, Entry: &entry})

	c2.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := c2.ReadMessage()
	if err != nil {
		t.Fatalf("reading broadcast: %v", err)
	}

	var ev statlog.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		t.Fatalf("decoding broadcast: %v", err)
	}
	if ev.Kind != statlog.EventCreated || ev.GameID != 1 {
		t.Errorf("event = %+v", ev)
	}
	if ev.Entry == nil || ev.Entry.ID != "501" || ev.Entry.Value != 12 {
		t.Errorf("entry = %+v", ev.Entry)
	}
}

func TestBroadcastScopedToRoom(t *testing.T) {
	hub := startHub(t)
	srv := NewServer(hub)
	ts := httptest.NewServer(http.HandlerFunc(srv.handleGameRoom))
	defer ts.Close()

	inRoom := dialRoom(t, ts, "1")
	otherRoom := dialRoom(t, ts, "2")

	waitForCount(t, func() int { return hub.ClientCount() }, 2)

	entry := statlog.StatEntry{ID: "600", GameID: 1, PlayerID: 3, Type: statlog.StatSack, Value: 1}
	hub.BroadcastToGame(1, statlog.Event{Kind: statlog.EventCreated, Entry: &entry})

	inRoom.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := inRoom.ReadMessage(); err != nil {
		t.Fatalf("subscriber missed its room's event: %v", err)
	}

	otherRoom.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, payload, err := otherRoom.ReadMessage(); err == nil {
		t.Fatalf("game 2 subscriber received game 1 event: %s", payload)
	}
}

func TestRoomEmptiesOnDisconnect(t *testing.T) {
	hub := startHub(t)
	srv := NewServer(hub)
	ts := httptest.NewServer(http.HandlerFunc(srv.handleGameRoom))
	defer ts.Close()

	conn := dialRoom(t, ts, "5")
	waitForCount(t, func() int { return hub.RoomCount(5) }, 1)

	conn.Close()
	waitForCount(t, func() int { return hub.RoomCount(5) }, 0)
}

func TestGameRoomRejectsBadID(t *testing.T) {
	hub := startHub(t)
	srv := NewServer(hub)
	ts := httptest.NewServer(http.HandlerFunc(srv.handleGameRoom))
	defer ts.Close()

	for _, path := range []string{"/ws/games/abc", "/ws/games/0", "/ws/games/-3", "/ws/games/"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("GET %s: status %d, want 400", path, resp.StatusCode)
		}
	}
}
