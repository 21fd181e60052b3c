package statlog

import (
	"strings"

	"github.com/google/uuid"
)

// StatType identifies a kind of charted stat event
type StatType string

const (
	StatRush             StatType = "rush"
	StatReception        StatType = "reception"
	StatPassCompletion   StatType = "pass_completion"
	StatPassIncompletion StatType = "pass_incompletion"
	StatTackleSolo       StatType = "tackle_solo"
	StatTackleAssist     StatType = "tackle_assist"
	StatSack             StatType = "sack"
	StatSackTaken        StatType = "sack_taken"
	StatTFL              StatType = "tfl"
	StatInterception     StatType = "interception"
	StatFumbleForced     StatType = "fumble_forced"
	StatFumbleRecovered  StatType = "fumble_recovered"
	StatRushTouchdown    StatType = "rush_td"
	StatRecTouchdown     StatType = "rec_td"
	StatPassTouchdown    StatType = "pass_td"
	StatReturnTouchdown  StatType = "return_td"
)

// knownStatTypes is the closed enumeration of valid stat kinds
var knownStatTypes = map[StatType]bool{
	StatRush:             true,
	StatReception:        true,
	StatPassCompletion:   true,
	StatPassIncompletion: true,
	StatTackleSolo:       true,
	StatTackleAssist:     true,
	StatSack:             true,
	StatSackTaken:        true,
	StatTFL:              true,
	StatInterception:     true,
	StatFumbleForced:     true,
	StatFumbleRecovered:  true,
	StatRushTouchdown:    true,
	StatRecTouchdown:     true,
	StatPassTouchdown:    true,
	StatReturnTouchdown:  true,
}

// KnownStatType reports whether t is part of the closed stat enumeration
func KnownStatType(t StatType) bool {
	return knownStatTypes[t]
}

// Origin describes where a ledger entry came from at runtime.
// It is never persisted; it only drives reconciliation and display.
type Origin string

const (
	// OriginLocalPending marks an entry created here that the store has
	// not acknowledged yet (still carrying a temp id)
	OriginLocalPending Origin = "local_pending"

	// OriginLocalConfirmed marks an entry created here that holds its
	// persistent id
	OriginLocalConfirmed Origin = "local_confirmed"

	// OriginRemote marks an entry that arrived from another client's
	// broadcast or from hydration
	OriginRemote Origin = "remote"
)

// tempIDPrefix marks client-minted identifiers that the store has not
// replaced with a persistent id yet
const tempIDPrefix = "tmp-"

// NewTempID mints a temp id, globally unique within a session
func NewTempID() string {
	return tempIDPrefix + uuid.NewString()
}

// IsTempID reports whether id is a client-minted temp id
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}

// StatEntry is one observed or derived fact about a player's performance
// in one game. Cascade-derived entries are ordinary entries; nothing
// downstream special-cases them.
type StatEntry struct {
	ID        string   `json:"id"`
	GameID    int      `json:"game_id"`
	PlayerID  int      `json:"player_id"`
	Type      StatType `json:"stat_type"`
	Value     float64  `json:"value"`
	GameClock string   `json:"game_clock,omitempty"` // mm:ss on the game clock
	Period    string   `json:"period,omitempty"`
	Note      string   `json:"note,omitempty"`
	CreatedBy string   `json:"created_by,omitempty"`
	Origin    Origin   `json:"-"`
}

// Pending reports whether the entry is still waiting on a persistent id
func (e StatEntry) Pending() bool {
	return IsTempID(e.ID)
}

// Patch carries field updates for an in-place edit. Nil fields are
// left untouched.
type Patch struct {
	PlayerID  *int
	Type      *StatType
	Value     *float64
	GameClock *string
	Period    *string
	Note      *string
}

func (p Patch) applyTo(e *StatEntry) {
	if p.PlayerID != nil {
		e.PlayerID = *p.PlayerID
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Value != nil {
		e.Value = *p.Value
	}
	if p.GameClock != nil {
		e.GameClock = *p.GameClock
	}
	if p.Period != nil {
		e.Period = *p.Period
	}
	if p.Note != nil {
		e.Note = *p.Note
	}
}

// EventKind identifies a broadcast event type
type EventKind string

const (
	EventCreated EventKind = "created"
	EventUpdated EventKind = "updated"
	EventDeleted EventKind = "deleted"
)

// Event is one message on a game's broadcast channel. Created and
// updated events carry the full entry; deleted events carry only the id.
// Every client subscribed to the room receives every event, including
// the echo of its own writes.
type Event struct {
	Kind   EventKind  `json:"kind"`
	GameID int        `json:"game_id"`
	Entry  *StatEntry `json:"entry,omitempty"`
	ID     string     `json:"id,omitempty"`
}
