package shortcut

import (
	"fmt"

	"github.com/fortuna/gridiron/internal/statlog"
)

// comboShortcuts is the fixed two-letter code table, usable only
// through typed quick entry. Not remappable by users.
var comboShortcuts = map[string]statlog.StatType{
	"RT": statlog.StatRushTouchdown,
	"CT": statlog.StatRecTouchdown,
	"PT": statlog.StatPassTouchdown,
	"KT": statlog.StatReturnTouchdown,
	"TA": statlog.StatTackleAssist,
	"TF": statlog.StatTFL,
	"ST": statlog.StatSackTaken,
	"FF": statlog.StatFumbleForced,
	"FR": statlog.StatFumbleRecovered,
	"PI": statlog.StatPassIncompletion,
}

// ComboShortcut resolves a two-letter combo code (already uppercased)
func ComboShortcut(code string) (statlog.StatType, bool) {
	t, ok := comboShortcuts[code]
	return t, ok
}

// DefaultKeyMap returns the out-of-the-box single-key bindings. Users
// remap these through the settings surface; the result is stored in the
// shortcut config store and injected into the router at session start.
func DefaultKeyMap() map[string]statlog.StatType {
	return map[string]statlog.StatType{
		"r": statlog.StatRush,
		"c": statlog.StatReception,
		"p": statlog.StatPassCompletion,
		"x": statlog.StatPassIncompletion,
		"t": statlog.StatTackleSolo,
		"a": statlog.StatTackleAssist,
		"s": statlog.StatSack,
		"q": statlog.StatSackTaken,
		"f": statlog.StatTFL,
		"i": statlog.StatInterception,
	}
}

// ValidateKeyMap rejects bindings that could never fire or that point
// at unknown stat types
func ValidateKeyMap(keys map[string]statlog.StatType) error {
	for key, statType := range keys {
		if len(key) != 1 {
			return fmt.Errorf("shortcut key %q must be a single character", key)
		}
		if key >= "0" && key <= "9" || key == "." {
			return fmt.Errorf("shortcut key %q collides with the value buffer", key)
		}
		if !statlog.KnownStatType(statType) {
			return fmt.Errorf("shortcut key %q maps to unknown stat type %q", key, statType)
		}
	}
	return nil
}
