package statlog

import (
	"context"
	"log"
	"sync"
	"time"
)

// persistTimeout caps each asynchronous persistence call. A call that
// exceeds it is treated like any other transient failure: the entry
// stays pending, nothing is retried.
const persistTimeout = 10 * time.Second

// Persister is the boundary to the external store. Implementations are
// expected to be safe for concurrent use; the ledger issues every call
// on its own goroutine, off the keystroke path.
type Persister interface {
	// CreateStat persists a draft (temp id) and returns the canonical
	// entry carrying the server-assigned persistent id
	CreateStat(ctx context.Context, draft StatEntry) (StatEntry, error)

	// UpdateStat persists field changes for an entry by persistent id
	UpdateStat(ctx context.Context, entry StatEntry) error

	// DeleteStat removes an entry by persistent id
	DeleteStat(ctx context.Context, id string) error
}

// Ledger is the per-game, newest-first ordered collection of stat
// entries that the UI renders. It is the single mutation point: every
// other component changes the rendered list only through Apply, Edit and
// Remove, and every one of those is synchronous with respect to the
// in-memory state. Persistence always happens after the fact.
//
// The mutex exists because store acknowledgements and broadcast events
// arrive on other goroutines; no operation suspends while holding it.
type Ledger struct {
	gameID  int
	author  string
	persist Persister

	mu      sync.Mutex
	entries []StatEntry
	history *History
}

// NewLedger creates an empty ledger for one game. The persister may be
// nil in tests, in which case mutations are purely local.
func NewLedger(gameID int, author string, persist Persister) *Ledger {
	return &Ledger{
		gameID:  gameID,
		author:  author,
		persist: persist,
		history: NewHistory(HistoryLimit),
	}
}

// GameID returns the game this ledger belongs to
func (l *Ledger) GameID() int { return l.gameID }

// Entries returns a copy of the current ledger state, newest first
func (l *Ledger) Entries() []StatEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Len returns the number of entries currently in the ledger
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Apply mints a temp id per draft, prepends the drafts (primary first),
// records the pre-mutation state for undo and returns the minted ids.
// This is the only operation on the hot path of a keystroke: it returns
// before any network activity, then requests persistence for each draft
// independently.
func (l *Ledger) Apply(drafts []StatEntry) []string {
	if len(drafts) == 0 {
		return nil
	}

	prepared := make([]StatEntry, len(drafts))
	ids := make([]string, len(drafts))
	for i, d := range drafts {
		d.ID = NewTempID()
		d.GameID = l.gameID
		d.Origin = OriginLocalPending
		if d.CreatedBy == "" {
			d.CreatedBy = l.author
		}
		prepared[i] = d
		ids[i] = d.ID
	}

	l.mu.Lock()
	l.history.Push(l.snapshotLocked())
	l.entries = append(prepared, l.entries...)
	l.mu.Unlock()

	for _, d := range prepared {
		go l.persistCreate(d)
	}

	return ids
}

// Hydrate replaces the ledger wholesale without touching undo history.
// Used only when loading a game's existing entries from the store.
func (l *Ledger) Hydrate(entries []StatEntry) {
	hydrated := make([]StatEntry, len(entries))
	for i, e := range entries {
		if e.CreatedBy == l.author {
			e.Origin = OriginLocalConfirmed
		} else {
			e.Origin = OriginRemote
		}
		hydrated[i] = e
	}

	l.mu.Lock()
	l.entries = hydrated
	l.mu.Unlock()
}

// Edit mutates an entry in place, records history and requests a
// persist-update. The update is skipped while the entry still carries a
// temp id: the store never sees an id it did not assign.
func (l *Ledger) Edit(id string, patch Patch) bool {
	l.mu.Lock()
	idx := l.indexLocked(id)
	if idx < 0 {
		l.mu.Unlock()
		return false
	}
	l.history.Push(l.snapshotLocked())
	patch.applyTo(&l.entries[idx])
	updated := l.entries[idx]
	l.mu.Unlock()

	if !IsTempID(id) {
		go l.persistUpdate(updated)
	}
	return true
}

// Remove deletes an entry, records history and requests a
// persist-delete. Deleting a still-pending temp entry abandons the
// create locally: no network call is made for work the store never
// acknowledged.
func (l *Ledger) Remove(id string) bool {
	l.mu.Lock()
	idx := l.indexLocked(id)
	if idx < 0 {
		l.mu.Unlock()
		return false
	}
	l.history.Push(l.snapshotLocked())
	removed := l.entries[idx]
	l.entries = append(l.entries[:idx], l.entries[idx+1:]...)
	l.mu.Unlock()

	if !removed.Pending() {
		go l.persistDelete(removed.ID)
	}
	return true
}

// Undo restores the most recent recorded prior state. Returns false
// when the history is exhausted.
func (l *Ledger) Undo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	prior, ok := l.history.Undo(l.snapshotLocked())
	if !ok {
		return false
	}
	l.entries = prior
	return true
}

// Redo reapplies the most recently undone state
func (l *Ledger) Redo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	next, ok := l.history.Redo(l.snapshotLocked())
	if !ok {
		return false
	}
	l.entries = next
	return true
}

// CanUndo reports whether Undo would change the ledger
func (l *Ledger) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.history.CanUndo()
}

// CanRedo reports whether Redo would change the ledger
func (l *Ledger) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.history.CanRedo()
}

// confirmCreate swaps a temp id for its persistent id in place. The
// entry's position and fields are untouched; only the identifier and
// origin change. An acknowledgement for a temp id no longer present is
// discarded: the user deleted the entry while the create was in flight.
// Bypasses history so the swap is never undoable on its own.
func (l *Ledger) confirmCreate(tempID string, confirmed StatEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexLocked(tempID)
	if idx < 0 {
		log.Printf("statlog: ack for %s discarded (entry deleted locally)", tempID)
		return
	}
	l.entries[idx].ID = confirmed.ID
	l.entries[idx].Origin = OriginLocalConfirmed
}

func (l *Ledger) persistCreate(draft StatEntry) {
	if l.persist == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	confirmed, err := l.persist.CreateStat(ctx, draft)
	if err != nil {
		// Entry stays visible and editable but never gets a
		// persistent id. No retry, no rollback.
		log.Printf("statlog: persist create %s (%s) failed: %v", draft.ID, draft.Type, err)
		return
	}
	l.confirmCreate(draft.ID, confirmed)
}

func (l *Ledger) persistUpdate(entry StatEntry) {
	if l.persist == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := l.persist.UpdateStat(ctx, entry); err != nil {
		log.Printf("statlog: persist update %s failed: %v", entry.ID, err)
	}
}

func (l *Ledger) persistDelete(id string) {
	if l.persist == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := l.persist.DeleteStat(ctx, id); err != nil {
		log.Printf("statlog: persist delete %s failed: %v", id, err)
	}
}

// indexLocked returns the position of id, or -1. Callers hold l.mu.
func (l *Ledger) indexLocked(id string) int {
	for i := range l.entries {
		if l.entries[i].ID == id {
			return i
		}
	}
	return -1
}

// snapshotLocked copies the current entry slice. Callers hold l.mu.
func (l *Ledger) snapshotLocked() []StatEntry {
	snap := make([]StatEntry, len(l.entries))
	copy(snap, l.entries)
	return snap
}
