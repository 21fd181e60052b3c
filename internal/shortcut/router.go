package shortcut

import (
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/fortuna/gridiron/internal/statlog"
)

// Special keystrokes understood by the router
const (
	KeyEscape    = "escape"
	KeyBackspace = "backspace"
)

// maxBufferLen caps the numeric value buffer
const maxBufferLen = 5

// Intent is a resolved (statType, value) pair ready for cascade
// expansion
type Intent struct {
	Type  statlog.StatType
	Value float64
}

// Router turns raw keystrokes and typed shorthand strings into stat
// intents. Single-key shortcuts come from an injected, user-remappable
// map; two-letter combos are fixed and reachable only through typed
// quick entry. The router holds a small numeric buffer so "12" then "r"
// logs a 12-yard rush.
type Router struct {
	mu      sync.Mutex
	keys    map[string]statlog.StatType
	buffer  string
	enabled bool
}

// NewRouter creates a router with the given single-key map. A nil map
// falls back to the defaults.
func NewRouter(keys map[string]statlog.StatType) *Router {
	if keys == nil {
		keys = DefaultKeyMap()
	}
	r := &Router{enabled: true}
	r.SetKeyMap(keys)
	return r
}

// SetKeyMap replaces the single-key bindings (settings change mid
// session). The map is copied.
func (r *Router) SetKeyMap(keys map[string]statlog.StatType) {
	copied := make(map[string]statlog.StatType, len(keys))
	for k, v := range keys {
		copied[strings.ToLower(k)] = v
	}
	r.mu.Lock()
	r.keys = copied
	r.mu.Unlock()
}

// SetEnabled toggles bare-keystroke handling. Disabled while a form
// field has focus so typing a note never logs stats; typed quick entry
// has its own field and stays available.
func (r *Router) SetEnabled(enabled bool) {
	r.mu.Lock()
	r.enabled = enabled
	if !enabled {
		r.buffer = ""
	}
	r.mu.Unlock()
}

// Buffer returns the current numeric buffer contents
func (r *Router) Buffer() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buffer
}

// Keystroke feeds one key to the router and returns an intent when the
// key resolves a mapped shortcut. Digits and a single decimal point
// accumulate in the value buffer (capped at 5 characters); a mapped key
// consumes the buffer as the intent value, defaulting to 1 when the
// buffer is empty. The buffer clears after every emission, on escape,
// and shrinks on backspace.
func (r *Router) Keystroke(key string) (Intent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.enabled {
		return Intent{}, false
	}

	switch key {
	case KeyEscape:
		r.buffer = ""
		return Intent{}, false
	case KeyBackspace:
		if len(r.buffer) > 0 {
			r.buffer = r.buffer[:len(r.buffer)-1]
		}
		return Intent{}, false
	}

	if len(key) != 1 {
		return Intent{}, false
	}

	ch := rune(key[0])
	if unicode.IsDigit(ch) || ch == '.' {
		if ch == '.' && strings.Contains(r.buffer, ".") {
			return Intent{}, false
		}
		if len(r.buffer) < maxBufferLen {
			r.buffer += key
		}
		return Intent{}, false
	}

	statType, ok := r.keys[strings.ToLower(key)]
	if !ok {
		return Intent{}, false
	}

	value := 1.0
	if r.buffer != "" {
		if v, err := strconv.ParseFloat(r.buffer, 64); err == nil {
			value = v
		}
	}
	r.buffer = ""
	return Intent{Type: statType, Value: value}, true
}

// QuickEntry parses a typed shorthand string of the form
// <number><letters>, e.g. "20RT" or ".5S", submitted on Enter. The
// numeric prefix may be decimal. The suffix is uppercased and looked up
// in the combo table when it is exactly two letters, then in the
// single-key map when it is one. Unrecognized input yields no intent
// and no error.
func (r *Router) QuickEntry(input string) (Intent, bool) {
	input = strings.TrimSpace(input)

	split := 0
	for split < len(input) {
		ch := rune(input[split])
		if unicode.IsDigit(ch) || ch == '.' {
			split++
			continue
		}
		break
	}

	number, suffix := input[:split], input[split:]
	if number == "" || suffix == "" {
		return Intent{}, false
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return Intent{}, false
	}

	suffix = strings.ToUpper(suffix)
	if len(suffix) == 2 {
		if statType, ok := ComboShortcut(suffix); ok {
			return Intent{Type: statType, Value: value}, true
		}
	}
	if len(suffix) == 1 {
		r.mu.Lock()
		statType, ok := r.keys[strings.ToLower(suffix)]
		r.mu.Unlock()
		if ok {
			return Intent{Type: statType, Value: value}, true
		}
	}
	return Intent{}, false
}
