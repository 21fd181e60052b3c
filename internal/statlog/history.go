package statlog

// HistoryLimit bounds how many prior ledger states are kept for undo
const HistoryLimit = 50

// History is a bounded undo/redo stack over whole-ledger snapshots.
// It is deliberately ignorant of where mutations came from: the ledger
// pushes a snapshot before every local mutation, and reconciliation
// bypasses it entirely so that undo never rolls back a teammate's write.
//
// History is not safe for concurrent use; the owning ledger serializes
// access under its own lock.
type History struct {
	limit int
	undo  [][]StatEntry
	redo  [][]StatEntry
}

// NewHistory creates a history bounded to limit states
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = HistoryLimit
	}
	return &History{limit: limit}
}

// Push records the pre-mutation state and clears any redo states.
// Once the stack exceeds the limit the oldest state is truncated.
func (h *History) Push(state []StatEntry) {
	h.undo = append(h.undo, state)
	if len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
	h.redo = nil
}

// Undo pops the most recent prior state, stashing current for redo.
// Returns false when there is nothing to undo.
func (h *History) Undo(current []StatEntry) ([]StatEntry, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	prior := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	return prior, true
}

// Redo is the symmetric inverse of Undo, available only until the next
// Push clears it
func (h *History) Redo(current []StatEntry) ([]StatEntry, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current)
	return next, true
}

// CanUndo reports whether any prior state is recorded
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether any undone state can be reapplied
func (h *History) CanRedo() bool { return len(h.redo) > 0 }
