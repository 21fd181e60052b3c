package statlog

import "log"

// Reconciler folds asynchronous confirmations into the ledger: the echo
// of this client's own writes and the broadcast of other clients'
// writes. Every rule is keyed by stable identity (temp id while
// pending, persistent id once confirmed) rather than by sequence number
// or timestamp, which makes reconciliation idempotent and
// order-independent per event. No ordering guarantee is required from
// the transport.
//
// None of its paths touch undo history: undo must never roll back a
// remote teammate's stat.
type Reconciler struct {
	ledger *Ledger
}

// NewReconciler creates a reconciler over one ledger
func NewReconciler(l *Ledger) *Reconciler {
	return &Reconciler{ledger: l}
}

// ConfirmCreate handles the store's direct acknowledgement of a local
// create: the temp id is replaced by the persistent id in place, or the
// ack is discarded when the entry was deleted in the meantime.
func (r *Reconciler) ConfirmCreate(tempID string, confirmed StatEntry) {
	r.ledger.confirmCreate(tempID, confirmed)
}

// Handle folds one broadcast event into the ledger. Events for other
// games are dropped.
func (r *Reconciler) Handle(ev Event) {
	if ev.GameID != 0 && ev.GameID != r.ledger.gameID {
		return
	}

	switch ev.Kind {
	case EventCreated:
		if ev.Entry != nil {
			r.handleCreated(*ev.Entry)
		}
	case EventUpdated:
		if ev.Entry != nil {
			r.handleUpdated(*ev.Entry)
		}
	case EventDeleted:
		r.handleDeleted(ev.ID)
	default:
		log.Printf("statlog: unknown broadcast event kind %q ignored", ev.Kind)
	}
}

// handleCreated merges a created broadcast. Three cases:
//
//  1. The persistent id is already known: duplicate delivery or the
//     second arrival of an ack/echo pair. No-op.
//  2. A pending temp entry matches (gameID, playerID, statType): this
//     is our own write echoed back before the direct ack landed.
//     Upgrade the temp entry in place; whichever of ack and echo
//     arrives first wins, the loser finds the temp id gone.
//  3. Otherwise the entry is genuinely remote: prepend it.
func (r *Reconciler) handleCreated(entry StatEntry) {
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.indexLocked(entry.ID) >= 0 {
		return
	}

	for i := range l.entries {
		e := &l.entries[i]
		if e.Origin == OriginLocalPending &&
			e.PlayerID == entry.PlayerID &&
			e.Type == entry.Type {
			// Self-echo beat the direct ack. Identifier only; the
			// entry keeps its position and locally edited fields.
			e.ID = entry.ID
			e.Origin = OriginLocalConfirmed
			return
		}
	}

	entry.Origin = OriginRemote
	l.entries = append([]StatEntry{entry}, l.entries...)
}

// handleUpdated replaces the matching entry's fields by persistent id.
// An update for an unknown id is dropped: the entry was deleted locally
// in the interim and last-delete-wins, the update is not resurrected.
func (r *Reconciler) handleUpdated(entry StatEntry) {
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexLocked(entry.ID)
	if idx < 0 {
		return
	}
	entry.Origin = l.entries[idx].Origin
	l.entries[idx] = entry
}

// handleDeleted removes the matching entry by persistent id; unknown
// ids are a silent no-op (legitimate race with a local delete).
func (r *Reconciler) handleDeleted(id string) {
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexLocked(id)
	if idx < 0 {
		return
	}
	l.entries = append(l.entries[:idx], l.entries[idx+1:]...)
}
