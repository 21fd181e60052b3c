package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fortuna/gridiron/internal/statlog"
)

// fakeAPI mimics the gridiron REST surface the client touches
func fakeAPI(t *testing.T) (*httptest.Server, *APIClient) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/games/3/stats", func(w http.ResponseWriter, r *http.Request) {
		var draft statlog.StatEntry
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		draft.ID = "501"
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(draft)
	})
	mux.HandleFunc("GET /api/v1/games/3/stats", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"game_id": 3,
			"entries": []statlog.StatEntry{
				{ID: "502", GameID: 3, PlayerID: 8, Type: statlog.StatReception, Value: 11},
				{ID: "501", GameID: 3, PlayerID: 7, Type: statlog.StatRush, Value: 12},
			},
			"count": 2,
		})
	})
	mux.HandleFunc("PUT /api/v1/stats/501", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /api/v1/stats/501", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/v1/users/coach_d/shortcuts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"user_id": "coach_d",
			"keys":    map[string]string{"r": "rush", "b": "reception"},
		})
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, NewAPIClient(ts.URL)
}

func TestCreateStatReturnsCanonicalEntry(t *testing.T) {
	_, api := fakeAPI(t)

	draft := statlog.StatEntry{
		ID: statlog.NewTempID(), GameID: 3, PlayerID: 7,
		Type: statlog.StatRush, Value: 12, CreatedBy: "coach_d",
	}
	confirmed, err := api.CreateStat(context.Background(), draft)
	if err != nil {
		t.Fatalf("CreateStat: %v", err)
	}
	if confirmed.ID != "501" {
		t.Errorf("id = %s, want 501", confirmed.ID)
	}
	if confirmed.Value != 12 || confirmed.PlayerID != 7 {
		t.Errorf("canonical entry = %+v", confirmed)
	}
}

func TestCreateStatSurfacesServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid stat entry"}`, http.StatusUnprocessableEntity)
	}))
	defer ts.Close()
	api := NewAPIClient(ts.URL)

	_, err := api.CreateStat(context.Background(), statlog.StatEntry{GameID: 3})
	if err == nil {
		t.Fatal("expected error for 422 response")
	}
}

func TestUpdateAndDeleteStat(t *testing.T) {
	_, api := fakeAPI(t)
	ctx := context.Background()

	if err := api.UpdateStat(ctx, statlog.StatEntry{ID: "501", GameID: 3, PlayerID: 7, Type: statlog.StatRush, Value: 14}); err != nil {
		t.Errorf("UpdateStat: %v", err)
	}
	if err := api.DeleteStat(ctx, "501"); err != nil {
		t.Errorf("DeleteStat: %v", err)
	}
	if err := api.DeleteStat(ctx, "999"); err == nil {
		t.Error("DeleteStat for unknown id should surface the 404")
	}
}

func TestGameStatsDecodesEntries(t *testing.T) {
	_, api := fakeAPI(t)

	entries, err := api.GameStats(context.Background(), 3)
	if err != nil {
		t.Fatalf("GameStats: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ID != "502" || entries[1].ID != "501" {
		t.Errorf("order = %s, %s; want 502, 501", entries[0].ID, entries[1].ID)
	}
}

func TestShortcutsDecodesKeyMap(t *testing.T) {
	_, api := fakeAPI(t)

	keys, err := api.Shortcuts(context.Background(), "coach_d")
	if err != nil {
		t.Fatalf("Shortcuts: %v", err)
	}
	if keys["r"] != statlog.StatRush || keys["b"] != statlog.StatReception {
		t.Errorf("keys = %v", keys)
	}
}
