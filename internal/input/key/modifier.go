package key

import "strings"

// Modifier is the modifier-key state held at the moment of a keystroke.
// The low bits are the modifier keys; the high bits report lock state.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << 0

	// ModCtrl indicates the Control key.
	ModCtrl Modifier = 1 << 1

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt Modifier = 1 << 2

	// ModMeta indicates the Meta key (Cmd on macOS, Win on Windows).
	ModMeta Modifier = 1 << 3

	// ModCapsLock reports that Caps Lock is on.
	ModCapsLock Modifier = 1 << 4

	// ModNumLock reports that Num Lock is on.
	ModNumLock Modifier = 1 << 5

	// ModScrollLock reports that Scroll Lock is on.
	ModScrollLock Modifier = 1 << 6

	// modKeys masks the bits that correspond to held keys.
	modKeys = ModShift | ModCtrl | ModAlt | ModMeta

	// modLocks masks the lock-state bits.
	modLocks = ModCapsLock | ModNumLock | ModScrollLock
)

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// HasShift returns true if Shift is pressed.
func (m Modifier) HasShift() bool {
	return m.Has(ModShift)
}

// HasCtrl returns true if Control is pressed.
func (m Modifier) HasCtrl() bool {
	return m.Has(ModCtrl)
}

// HasAlt returns true if Alt is pressed.
func (m Modifier) HasAlt() bool {
	return m.Has(ModAlt)
}

// HasMeta returns true if Meta is pressed.
func (m Modifier) HasMeta() bool {
	return m.Has(ModMeta)
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// Keys returns only the held-key bits, dropping lock state.
func (m Modifier) Keys() Modifier {
	return m & modKeys
}

// Locks returns only the lock-state bits.
func (m Modifier) Locks() Modifier {
	return m & modLocks
}

// IsEmpty returns true if no modifier keys are held. Lock state is ignored.
func (m Modifier) IsEmpty() bool {
	return m.Keys() == ModNone
}

var modifierOrder = []struct {
	mod   Modifier
	long  string
	short string
}{
	{ModCtrl, "Ctrl", "C"},
	{ModAlt, "Alt", "A"},
	{ModShift, "Shift", "S"},
	{ModMeta, "Meta", "M"},
	{ModCapsLock, "CapsLock", ""},
	{ModNumLock, "NumLock", ""},
	{ModScrollLock, "ScrollLock", ""},
}

// String returns a human-readable representation like "Ctrl+Alt".
func (m Modifier) String() string {
	var parts []string
	for _, o := range modifierOrder {
		if m.Has(o.mod) {
			parts = append(parts, o.long)
		}
	}
	return strings.Join(parts, "+")
}

// ShortString returns a compact representation like "C-A-S-M".
// Lock state is not shown.
func (m Modifier) ShortString() string {
	var parts []string
	for _, o := range modifierOrder {
		if o.short != "" && m.Has(o.mod) {
			parts = append(parts, o.short)
		}
	}
	return strings.Join(parts, "-")
}

// modifierNameMap maps modifier names (lowercase) to Modifier values.
var modifierNameMap = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"c":       ModCtrl,
	"alt":     ModAlt,
	"a":       ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"shift":   ModShift,
	"s":       ModShift,
	"meta":    ModMeta,
	"m":       ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
	"win":     ModMeta,
	"super":   ModMeta,
	"d":       ModMeta, // Vim uses D for command/meta
}

// ModifierFromName returns the Modifier for a given name (case-insensitive).
// Returns ModNone if the name is not recognized.
func ModifierFromName(name string) Modifier {
	if m, ok := modifierNameMap[strings.ToLower(name)]; ok {
		return m
	}
	return ModNone
}

// ParseModifiers parses a modifier string like "Ctrl+Alt" or "C-A".
// Unknown names are ignored.
func ParseModifiers(s string) Modifier {
	sep := "+"
	if !strings.Contains(s, "+") {
		sep = "-"
	}

	var result Modifier
	for _, part := range strings.Split(s, sep) {
		result = result.With(ModifierFromName(strings.TrimSpace(part)))
	}
	return result
}
