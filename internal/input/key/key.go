package key

import (
	"fmt"
	"strings"
)

// Key is the virtual key code of a keystroke.
// Character keys use KeyRune with the character in Event.Rune.
type Key uint16

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// Editing keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// Lock and system keys
	KeySpace
	KeyPause
	KeyPrintScreen
	KeyScrollLock
	KeyNumLock
	KeyCapsLock

	// Pure modifier keys. Pressing one alone produces an event with no
	// character.
	KeyShift
	KeyControl
	KeyAlt
	KeyMeta

	// Keypad keys
	KeyKP0
	KeyKP1
	KeyKP2
	KeyKP3
	KeyKP4
	KeyKP5
	KeyKP6
	KeyKP7
	KeyKP8
	KeyKP9
	KeyKPAdd
	KeyKPSubtract
	KeyKPMultiply
	KeyKPDivide
	KeyKPDecimal
	KeyKPEnter

	// KeyRune is used for character keys (letters, digits, punctuation and
	// control codes). The character is stored in Event.Rune.
	KeyRune

	keyCount
)

var keyNames = [keyCount]string{
	KeyNone:        "None",
	KeyEscape:      "Escape",
	KeyEnter:       "Enter",
	KeyTab:         "Tab",
	KeyBackspace:   "Backspace",
	KeyDelete:      "Delete",
	KeyInsert:      "Insert",
	KeyHome:        "Home",
	KeyEnd:         "End",
	KeyPageUp:      "PageUp",
	KeyPageDown:    "PageDown",
	KeyUp:          "Up",
	KeyDown:        "Down",
	KeyLeft:        "Left",
	KeyRight:       "Right",
	KeyF1:          "F1",
	KeyF2:          "F2",
	KeyF3:          "F3",
	KeyF4:          "F4",
	KeyF5:          "F5",
	KeyF6:          "F6",
	KeyF7:          "F7",
	KeyF8:          "F8",
	KeyF9:          "F9",
	KeyF10:         "F10",
	KeyF11:         "F11",
	KeyF12:         "F12",
	KeySpace:       "Space",
	KeyPause:       "Pause",
	KeyPrintScreen: "PrintScreen",
	KeyScrollLock:  "ScrollLock",
	KeyNumLock:     "NumLock",
	KeyCapsLock:    "CapsLock",
	KeyShift:       "Shift",
	KeyControl:     "Control",
	KeyAlt:         "Alt",
	KeyMeta:        "Meta",
	KeyKP0:         "KP0",
	KeyKP1:         "KP1",
	KeyKP2:         "KP2",
	KeyKP3:         "KP3",
	KeyKP4:         "KP4",
	KeyKP5:         "KP5",
	KeyKP6:         "KP6",
	KeyKP7:         "KP7",
	KeyKP8:         "KP8",
	KeyKP9:         "KP9",
	KeyKPAdd:       "KP+",
	KeyKPSubtract:  "KP-",
	KeyKPMultiply:  "KP*",
	KeyKPDivide:    "KP/",
	KeyKPDecimal:   "KP.",
	KeyKPEnter:     "KPEnter",
	KeyRune:        "Rune",
}

// String returns a human-readable name for the key.
func (k Key) String() string {
	if k < keyCount {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", k)
}

// Rune returns the character a key produces on its own, or 0 when the key
// has no character representation.
func (k Key) Rune() rune {
	switch k {
	case KeyEnter, KeyKPEnter:
		return '\r'
	case KeyTab:
		return '\t'
	case KeyBackspace:
		return '\b'
	case KeyEscape:
		return 0x1b
	case KeySpace:
		return ' '
	}
	return 0
}

// IsSpecial returns true if this is a special (non-character) key.
func (k Key) IsSpecial() bool {
	return k != KeyNone && k != KeyRune
}

// IsFunctionKey returns true if this is a function key (F1-F12).
func (k Key) IsFunctionKey() bool {
	return k >= KeyF1 && k <= KeyF12
}

// IsArrowKey returns true if this is an arrow key.
func (k Key) IsArrowKey() bool {
	return k >= KeyUp && k <= KeyRight
}

// IsNavigationKey returns true if this is a navigation key.
func (k Key) IsNavigationKey() bool {
	return k.IsArrowKey() || k == KeyHome || k == KeyEnd || k == KeyPageUp || k == KeyPageDown
}

// IsModifierKey returns true for keys that only change modifier state.
func (k Key) IsModifierKey() bool {
	return k >= KeyShift && k <= KeyMeta
}

// IsKeypadKey returns true if this is a keypad key.
func (k Key) IsKeypadKey() bool {
	return k >= KeyKP0 && k <= KeyKPEnter
}

// keyAliases holds alternative spellings on top of the canonical names.
var keyAliases = map[string]Key{
	"esc":    KeyEscape,
	"return": KeyEnter,
	"cr":     KeyEnter,
	"bs":     KeyBackspace,
	"del":    KeyDelete,
	"ins":    KeyInsert,
	"pgup":   KeyPageUp,
	"pgdn":   KeyPageDown,
	"ctrl":   KeyControl,
	"option": KeyAlt,
	"cmd":    KeyMeta,
}

var keyNameMap = func() map[string]Key {
	m := make(map[string]Key, int(keyCount)+len(keyAliases))
	for k := KeyNone; k < keyCount; k++ {
		if k == KeyRune {
			continue
		}
		m[strings.ToLower(keyNames[k])] = k
	}
	for name, k := range keyAliases {
		m[name] = k
	}
	return m
}()

// KeyFromName returns the Key for a given name (case-insensitive).
// Returns KeyNone if the name is not recognized.
func KeyFromName(name string) Key {
	name = strings.ToLower(strings.TrimSpace(name))
	if k, ok := keyNameMap[name]; ok {
		return k
	}
	return KeyNone
}
