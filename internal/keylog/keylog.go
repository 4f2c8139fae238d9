// Package keylog renders key events for people and for machines.
package keylog

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode"

	"github.com/tidwall/sjson"
	"golang.org/x/text/unicode/runenames"

	"github.com/dshills/keyread/internal/input/key"
)

var modifierNames = []struct {
	mod  key.Modifier
	name string
}{
	{key.ModCtrl, "Ctrl"},
	{key.ModAlt, "Alt"},
	{key.ModShift, "Shift"},
	{key.ModMeta, "Meta"},
}

// Label names the keystroke: "'a'", "Ctrl+C", "Alt+'x'", "Shift+F5",
// "Enter". Control codes are shown as Ctrl+letter.
func Label(ev key.Event) string {
	mods := ev.Modifiers.Keys()
	var name string

	switch {
	case ev.Key == key.KeyRune && ev.Rune >= 0x01 && ev.Rune <= 0x1a:
		mods = mods.With(key.ModCtrl)
		name = string('A' + ev.Rune - 1)
	case ev.Key == key.KeyRune && mods.HasCtrl() && unicode.IsLetter(ev.Rune):
		name = string(unicode.ToUpper(ev.Rune))
	case ev.Key == key.KeyRune && ev.Rune == 0:
		name = "NUL"
	case ev.Key == key.KeyRune && unicode.IsPrint(ev.Rune):
		name = "'" + string(ev.Rune) + "'"
	case ev.Key == key.KeyRune:
		name = fmt.Sprintf("%U", ev.Rune)
	default:
		name = ev.Key.String()
	}

	if ev.Key == key.KeyRune {
		mods = mods.Without(key.ModShift)
	}

	var b strings.Builder
	for _, m := range modifierNames {
		if mods.Has(m.mod) {
			b.WriteString(m.name)
			b.WriteByte('+')
		}
	}
	b.WriteString(name)
	return b.String()
}

// Name returns the Unicode character name of the event's rune, or "" for
// keys without a rune and for unnamed code points such as controls.
func Name(ev key.Event) string {
	if ev.Rune == 0 {
		return ""
	}
	n := runenames.Name(ev.Rune)
	if strings.HasPrefix(n, "<") {
		return ""
	}
	return n
}

// Describe renders an event for humans, e.g.
// "'a' U+0061 LATIN SMALL LETTER A" or "Ctrl+C U+0003".
func Describe(ev key.Event) string {
	s := Label(ev)
	if ev.Rune == 0 {
		return s
	}
	s += fmt.Sprintf(" %U", ev.Rune)
	if n := Name(ev); n != "" {
		s += " " + n
	}
	return s
}

// JSON renders an event as a JSON object with the fields key, rune, char,
// name, label and modifiers.
func JSON(ev key.Event) (string, error) {
	char := ""
	if ev.Rune != 0 {
		char = string(ev.Rune)
	}
	mods := make([]string, 0, len(modifierNames))
	for _, m := range modifierNames {
		if ev.Modifiers.Has(m.mod) {
			mods = append(mods, m.name)
		}
	}

	fields := []struct {
		path  string
		value any
	}{
		{"key", ev.Key.String()},
		{"rune", int(ev.Rune)},
		{"char", char},
		{"name", Name(ev)},
		{"label", Label(ev)},
		{"modifiers", mods},
	}

	out := "{}"
	for _, f := range fields {
		var err error
		if out, err = sjson.Set(out, f.path, f.value); err != nil {
			return "", fmt.Errorf("encoding %s: %w", f.path, err)
		}
	}
	return out, nil
}

// Writer prints one line per reported event. It implements
// console.Progress.
type Writer struct {
	mu   sync.Mutex
	w    io.Writer
	json bool
	n    int
	err  error
}

// NewWriter creates a Writer using Describe, or JSON when asJSON is set.
func NewWriter(w io.Writer, asJSON bool) *Writer {
	return &Writer{w: w, json: asJSON}
}

// Report writes ev. After the first write error further events are
// dropped; see Err.
func (lw *Writer) Report(ev key.Event) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	if lw.err != nil {
		return
	}

	line := Describe(ev)
	if lw.json {
		var err error
		if line, err = JSON(ev); err != nil {
			lw.err = err
			return
		}
	}
	if _, err := io.WriteString(lw.w, line+"\n"); err != nil {
		lw.err = err
		return
	}
	lw.n++
}

// Count returns the number of events written.
func (lw *Writer) Count() int {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.n
}

// Err returns the first write error.
func (lw *Writer) Err() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.err
}
