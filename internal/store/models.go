package store

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/fortuna/gridiron/internal/statlog"
)

// Game represents a charted football game
type Game struct {
	GameID    int            `json:"game_id" db:"game_id"`
	Season    string         `json:"season" db:"season"`
	Opponent  string         `json:"opponent" db:"opponent"`
	GameDate  time.Time      `json:"game_date" db:"game_date"`
	Level     string         `json:"level" db:"level"` // varsity, jv, freshman
	Location  sql.NullString `json:"location,omitempty" db:"location"`
	Status    string         `json:"status" db:"status"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// Player represents a scouted player
type Player struct {
	PlayerID     int            `json:"player_id" db:"player_id"`
	FirstName    sql.NullString `json:"first_name,omitempty" db:"first_name"`
	LastName     string         `json:"last_name" db:"last_name"`
	FullName     string         `json:"full_name" db:"full_name"`
	JerseyNumber sql.NullString `json:"jersey_number,omitempty" db:"jersey_number"`
	Position     sql.NullString `json:"position,omitempty" db:"position"`
	ClassYear    sql.NullInt32  `json:"class_year,omitempty" db:"class_year"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// StatLine is the persisted form of one stat entry. The stat_id the
// database assigns becomes the persistent id clients reconcile against.
type StatLine struct {
	StatID    int64          `json:"stat_id" db:"stat_id"`
	GameID    int            `json:"game_id" db:"game_id"`
	PlayerID  int            `json:"player_id" db:"player_id"`
	StatType  string         `json:"stat_type" db:"stat_type"`
	Value     float64        `json:"value" db:"value"`
	GameClock sql.NullString `json:"game_clock,omitempty" db:"game_clock"`
	Period    sql.NullString `json:"period,omitempty" db:"period"`
	Note      sql.NullString `json:"note,omitempty" db:"note"`
	CreatedBy sql.NullString `json:"created_by,omitempty" db:"created_by"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// ToEntry converts a persisted line into the wire/ledger representation
func (sl *StatLine) ToEntry() statlog.StatEntry {
	return statlog.StatEntry{
		ID:        strconv.FormatInt(sl.StatID, 10),
		GameID:    sl.GameID,
		PlayerID:  sl.PlayerID,
		Type:      statlog.StatType(sl.StatType),
		Value:     sl.Value,
		GameClock: sl.GameClock.String,
		Period:    sl.Period.String,
		Note:      sl.Note.String,
		CreatedBy: sl.CreatedBy.String,
	}
}

// LineFromEntry converts a draft or edited entry into its persisted
// form. The entry's id is ignored; the database owns stat ids.
func LineFromEntry(e statlog.StatEntry) StatLine {
	return StatLine{
		GameID:    e.GameID,
		PlayerID:  e.PlayerID,
		StatType:  string(e.Type),
		Value:     e.Value,
		GameClock: nullString(e.GameClock),
		Period:    nullString(e.Period),
		Note:      nullString(e.Note),
		CreatedBy: nullString(e.CreatedBy),
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
