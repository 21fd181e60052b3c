package statlog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakePersister records persistence calls and assigns sequential ids
// starting at 501
type fakePersister struct {
	mu        sync.Mutex
	created   []StatEntry
	updated   []StatEntry
	deleted   []string
	nextID    int64
	createErr error
}

func newFakePersister() *fakePersister {
	return &fakePersister{nextID: 500}
}

func (f *fakePersister) CreateStat(ctx context.Context, draft StatEntry) (StatEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return StatEntry{}, f.createErr
	}
	f.nextID++
	f.created = append(f.created, draft)
	confirmed := draft
	confirmed.ID = fmt.Sprintf("%d", f.nextID)
	return confirmed, nil
}

func (f *fakePersister) UpdateStat(ctx context.Context, entry StatEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, entry)
	return nil
}

func (f *fakePersister) DeleteStat(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePersister) counts() (created, updated, deleted int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created), len(f.updated), len(f.deleted)
}

// waitFor polls cond until it holds or the test fails. Persistence is
// asynchronous by design; the ledger mutation itself never is.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for condition")
}

func TestApplyPrependsPendingEntries(t *testing.T) {
	l := NewLedger(1, "scout_a", nil)

	l.Apply([]StatEntry{{PlayerID: 7, Type: StatRush, Value: 4}})
	ids := l.Apply([]StatEntry{{PlayerID: 7, Type: StatSack, Value: 1}, {PlayerID: 7, Type: StatTFL, Value: 1}})

	entries := l.Entries()
	if len(entries) != 3 {
		t.Fatalf("ledger has %d entries, want 3", len(entries))
	}

	// Newest first: the second Apply's drafts sit on top, primary first
	if entries[0].Type != StatSack || entries[1].Type != StatTFL || entries[2].Type != StatRush {
		t.Fatalf("unexpected order: %s, %s, %s", entries[0].Type, entries[1].Type, entries[2].Type)
	}

	for i, e := range entries {
		if !e.Pending() {
			t.Errorf("entry %d should be pending, id = %s", i, e.ID)
		}
		if e.Origin != OriginLocalPending {
			t.Errorf("entry %d origin = %s, want %s", i, e.Origin, OriginLocalPending)
		}
		if e.GameID != 1 {
			t.Errorf("entry %d game = %d, want 1", i, e.GameID)
		}
		if e.CreatedBy != "scout_a" {
			t.Errorf("entry %d created_by = %s, want scout_a", i, e.CreatedBy)
		}
	}

	if len(ids) != 2 || ids[0] != entries[0].ID {
		t.Fatalf("Apply returned ids %v, entries hold %s", ids, entries[0].ID)
	}

	seen := map[string]bool{}
	for _, e := range entries {
		if seen[e.ID] {
			t.Fatalf("duplicate temp id %s", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestApplyPersistsAndConfirms(t *testing.T) {
	p := newFakePersister()
	l := NewLedger(1, "scout_a", p)

	l.Apply([]StatEntry{{PlayerID: 7, Type: StatRush, Value: 12}})

	waitFor(t, func() bool {
		e := l.Entries()[0]
		return !e.Pending()
	})

	e := l.Entries()[0]
	if e.ID != "501" {
		t.Errorf("confirmed id = %s, want 501", e.ID)
	}
	if e.Origin != OriginLocalConfirmed {
		t.Errorf("origin = %s, want %s", e.Origin, OriginLocalConfirmed)
	}
	if e.Value != 12 {
		t.Errorf("value = %v, want 12 (ack must not change fields)", e.Value)
	}
}

func TestApplyPersistFailureLeavesEntryPending(t *testing.T) {
	p := newFakePersister()
	p.createErr = errors.New("store unreachable")
	l := NewLedger(1, "scout_a", p)

	l.Apply([]StatEntry{{PlayerID: 7, Type: StatRush, Value: 3}})

	// The failure never removes or mutates the entry
	time.Sleep(50 * time.Millisecond)
	e := l.Entries()[0]
	if !e.Pending() {
		t.Fatalf("entry should stay pending forever, id = %s", e.ID)
	}

	// Still editable and removable
	if !l.Edit(e.ID, Patch{Note: strPtr("late note")}) {
		t.Fatal("pending entry should be editable")
	}
	if !l.Remove(l.Entries()[0].ID) {
		t.Fatal("pending entry should be removable")
	}
}

func TestEditPatchesInPlace(t *testing.T) {
	p := newFakePersister()
	l := NewLedger(1, "scout_a", p)

	l.Apply([]StatEntry{{PlayerID: 7, Type: StatRush, Value: 4}})
	waitFor(t, func() bool { return !l.Entries()[0].Pending() })

	id := l.Entries()[0].ID
	if !l.Edit(id, Patch{Value: floatPtr(6), Note: strPtr("corrected")}) {
		t.Fatal("edit failed")
	}

	e := l.Entries()[0]
	if e.Value != 6 || e.Note != "corrected" {
		t.Errorf("entry after edit = %+v", e)
	}
	if e.Type != StatRush || e.PlayerID != 7 {
		t.Errorf("unpatched fields changed: %+v", e)
	}

	waitFor(t, func() bool { _, u, _ := p.counts(); return u == 1 })
}

func TestEditPendingSkipsPersistUpdate(t *testing.T) {
	p := newFakePersister()
	p.createErr = errors.New("down")
	l := NewLedger(1, "scout_a", p)

	l.Apply([]StatEntry{{PlayerID: 7, Type: StatRush, Value: 4}})
	id := l.Entries()[0].ID

	l.Edit(id, Patch{Value: floatPtr(9)})

	time.Sleep(50 * time.Millisecond)
	if _, updated, _ := p.counts(); updated != 0 {
		t.Fatalf("persist-update issued for temp id, %d calls", updated)
	}
	if l.Entries()[0].Value != 9 {
		t.Fatal("local edit must still apply")
	}
}

func TestRemoveConfirmedPersistsDelete(t *testing.T) {
	p := newFakePersister()
	l := NewLedger(1, "scout_a", p)

	l.Apply([]StatEntry{{PlayerID: 7, Type: StatRush, Value: 4}})
	waitFor(t, func() bool { return !l.Entries()[0].Pending() })
	id := l.Entries()[0].ID

	if !l.Remove(id) {
		t.Fatal("remove failed")
	}
	if l.Len() != 0 {
		t.Fatal("entry still present after remove")
	}

	waitFor(t, func() bool { _, _, d := p.counts(); return d == 1 })
	p.mu.Lock()
	deleted := p.deleted[0]
	p.mu.Unlock()
	if deleted != id {
		t.Fatalf("deleted id = %s, want %s", deleted, id)
	}
}

func TestRemovePendingIsLocalOnly(t *testing.T) {
	p := newFakePersister()
	p.createErr = errors.New("down")
	l := NewLedger(1, "scout_a", p)

	l.Apply([]StatEntry{{PlayerID: 7, Type: StatRush, Value: 4}})
	id := l.Entries()[0].ID

	if !l.Remove(id) {
		t.Fatal("remove failed")
	}

	time.Sleep(50 * time.Millisecond)
	if _, _, deleted := p.counts(); deleted != 0 {
		t.Fatalf("persist-delete issued for abandoned create, %d calls", deleted)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	l := NewLedger(1, "scout_a", nil)

	// A mixed sequence of local mutations
	l.Apply([]StatEntry{{PlayerID: 7, Type: StatRush, Value: 4}})
	l.Apply(Expand(StatEntry{PlayerID: 55, Type: StatSack, Value: 1}))
	firstID := l.Entries()[len(l.Entries())-1].ID
	l.Edit(firstID, Patch{Value: floatPtr(8)})
	l.Remove(l.Entries()[0].ID)

	after := l.Entries()
	mutations := 4

	for i := 0; i < mutations; i++ {
		if !l.Undo() {
			t.Fatalf("undo %d failed", i+1)
		}
	}
	if l.Len() != 0 {
		t.Fatalf("ledger not empty after full undo: %d entries", l.Len())
	}
	if l.Undo() {
		t.Fatal("undo past the beginning should fail")
	}

	for i := 0; i < mutations; i++ {
		if !l.Redo() {
			t.Fatalf("redo %d failed", i+1)
		}
	}
	if l.Redo() {
		t.Fatal("redo past the end should fail")
	}

	restored := l.Entries()
	if len(restored) != len(after) {
		t.Fatalf("redo restored %d entries, want %d", len(restored), len(after))
	}
	for i := range restored {
		if restored[i] != after[i] {
			t.Errorf("entry %d differs after redo: %+v vs %+v", i, restored[i], after[i])
		}
	}
}

func TestHydrateBypassesHistory(t *testing.T) {
	l := NewLedger(1, "scout_a", nil)

	l.Hydrate([]StatEntry{
		{ID: "42", GameID: 1, PlayerID: 7, Type: StatRush, Value: 5, CreatedBy: "scout_a"},
		{ID: "41", GameID: 1, PlayerID: 8, Type: StatReception, Value: 11, CreatedBy: "scout_b"},
	})

	if l.Undo() {
		t.Fatal("hydration must not be undoable")
	}

	entries := l.Entries()
	if entries[0].Origin != OriginLocalConfirmed {
		t.Errorf("own hydrated entry origin = %s, want %s", entries[0].Origin, OriginLocalConfirmed)
	}
	if entries[1].Origin != OriginRemote {
		t.Errorf("teammate's hydrated entry origin = %s, want %s", entries[1].Origin, OriginRemote)
	}
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
