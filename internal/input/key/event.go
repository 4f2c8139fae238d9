package key

import (
	"fmt"
	"strings"
	"unicode"
)

// Event is one accepted key-down transition.
//
// Events are plain values: drivers construct them, the console reader hands
// each one to its consumer exactly once, and nothing retains them afterward.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the decoded character, or 0 when the key has no character
	// representation.
	Rune rune

	// Modifiers contains the modifier keys and lock state at the time of
	// the press.
	Modifiers Modifier
}

// NewEvent creates an event from its three components as delivered by a
// terminal driver.
func NewEvent(key Key, r rune, mods Modifier) Event {
	return Event{Key: key, Rune: r, Modifiers: mods}
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a special key. The character is
// filled in for keys that produce one on their own (Enter, Tab, ...).
func NewSpecialEvent(key Key, mods Modifier) Event {
	return Event{Key: key, Rune: key.Rune(), Modifiers: mods}
}

// NewCtrlEvent creates the event a terminal delivers for Ctrl+letter: the
// C0 control code with ModCtrl set. Non-letters yield a plain rune event
// with ModCtrl.
func NewCtrlEvent(letter rune) Event {
	l := unicode.ToLower(letter)
	if l >= 'a' && l <= 'z' {
		return Event{Key: KeyRune, Rune: l - 'a' + 1, Modifiers: ModCtrl}
	}
	return Event{Key: KeyRune, Rune: letter, Modifiers: ModCtrl}
}

// HasChar returns true if the event carries a non-null character.
func (e Event) HasChar() bool {
	return e.Rune != 0
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar returns true if this is a printable character.
func (e Event) IsChar() bool {
	return e.HasChar() && unicode.IsPrint(e.Rune)
}

// IsControl returns true if the character is a control code (C0 or DEL).
func (e Event) IsControl() bool {
	return e.HasChar() && unicode.IsControl(e.Rune)
}

// IsModified returns true if any modifier key is pressed.
// For character events, Shift alone is not considered modified
// (since Shift changes the character itself). Lock state never counts.
func (e Event) IsModified() bool {
	mods := e.Modifiers.Keys()
	if e.IsRune() {
		return mods&(ModCtrl|ModAlt|ModMeta) != 0
	}
	return mods != ModNone
}

// IsSpecial returns true if this is a special (non-character) key.
func (e Event) IsSpecial() bool {
	return e.Key.IsSpecial()
}

// IsEnter returns true for a carriage return, whichever key produced it.
func (e Event) IsEnter() bool {
	return e.Rune == '\r'
}

// IsEscape returns true if this is the Escape key (with no modifiers).
func (e Event) IsEscape() bool {
	return e.Key == KeyEscape && e.Modifiers.IsEmpty()
}

// IsBackspace returns true if this is Backspace (with no modifiers).
func (e Event) IsBackspace() bool {
	return e.Key == KeyBackspace && e.Modifiers.IsEmpty()
}

// canonical folds the different ways a terminal can report the same
// keystroke into one form: control codes become Ctrl+letter, Space becomes
// the ' ' rune, special keys drop their character, Shift is dropped from
// characters and lock state is dropped everywhere.
func (e Event) canonical() Event {
	c := Event{Key: e.Key, Rune: e.Rune, Modifiers: e.Modifiers.Keys()}
	switch {
	case c.Key == KeySpace:
		c.Key, c.Rune = KeyRune, ' '
	case c.Key == KeyRune && c.Rune >= 0x01 && c.Rune <= 0x1a:
		c.Rune = 'a' + c.Rune - 1
		c.Modifiers = c.Modifiers.With(ModCtrl)
	case c.Key.IsSpecial():
		c.Rune = 0
	}
	if c.Key == KeyRune {
		c.Modifiers = c.Modifiers.Without(ModShift)
		if c.Modifiers.HasCtrl() {
			c.Rune = unicode.ToLower(c.Rune)
		}
	}
	return c
}

// Equals returns true if two events are identical in every field.
func (e Event) Equals(other Event) bool {
	return e == other
}

// Same returns true if two events describe the same keystroke, ignoring
// representation differences such as control code vs. Ctrl+letter.
func (e Event) Same(other Event) bool {
	return e.canonical() == other.canonical()
}

// Matches checks if this event matches a key specification string.
func (e Event) Matches(spec string) bool {
	parsed, err := Parse(spec)
	if err != nil {
		return false
	}
	return e.Same(parsed)
}

// String returns a canonical string representation.
// Examples: "a", "C-c", "Enter", "A-Left", "Space".
func (e Event) String() string {
	c := e.canonical()
	parts := modifierParts(c.Modifiers, c.Key == KeyRune, "M")

	var keyName string
	switch {
	case c.Key == KeyRune && c.Rune == ' ':
		keyName = "Space"
	case c.Key == KeyRune:
		keyName = string(c.Rune)
	case c.Key == KeyEscape:
		keyName = "Esc"
	case c.Key == KeyBackspace:
		keyName = "BS"
	case c.Key == KeyDelete:
		keyName = "Del"
	case c.Key == KeyInsert:
		keyName = "Ins"
	case c.Key == KeyPageUp:
		keyName = "PgUp"
	case c.Key == KeyPageDown:
		keyName = "PgDn"
	default:
		keyName = c.Key.String()
	}

	return strings.Join(append(parts, keyName), "-")
}

// VimString returns a Vim-style string representation.
// Examples: "<Esc>", "<C-s>", "<C-S-p>", "<CR>", "a", "A".
func (e Event) VimString() string {
	c := e.canonical()
	if c.Key == KeyRune && c.Modifiers.IsEmpty() {
		if c.Rune == ' ' {
			return "<Space>"
		}
		return string(c.Rune)
	}

	parts := modifierParts(c.Modifiers, c.Key == KeyRune, "D")

	var keyName string
	switch c.Key {
	case KeyRune:
		if c.Rune == ' ' {
			keyName = "Space"
		} else {
			keyName = strings.ToLower(string(c.Rune))
		}
	case KeyEscape:
		keyName = "Esc"
	case KeyEnter:
		keyName = "CR"
	case KeyBackspace:
		keyName = "BS"
	case KeyDelete:
		keyName = "Del"
	default:
		keyName = c.Key.String()
	}

	return "<" + strings.Join(append(parts, keyName), "-") + ">"
}

func modifierParts(mods Modifier, isRune bool, metaName string) []string {
	var parts []string
	if mods.HasCtrl() {
		parts = append(parts, "C")
	}
	if mods.HasAlt() {
		parts = append(parts, "A")
	}
	if mods.HasMeta() {
		parts = append(parts, metaName)
	}
	// Only show Shift for non-character keys
	if mods.HasShift() && !isRune {
		parts = append(parts, "S")
	}
	return parts
}

// WithModifier returns a copy with the specified modifier added.
func (e Event) WithModifier(mod Modifier) Event {
	e.Modifiers = e.Modifiers.With(mod)
	return e
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("Event{Key: %s, Rune: %q, Modifiers: %s}",
		e.Key.String(), e.Rune, e.Modifiers.String())
}
