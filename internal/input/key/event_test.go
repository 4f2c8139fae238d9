package key

import (
	"testing"
)

func TestNewSpecialEventFillsCharacter(t *testing.T) {
	tests := []struct {
		key  Key
		want rune
	}{
		{KeyEnter, '\r'},
		{KeyTab, '\t'},
		{KeyEscape, 0x1b},
		{KeyUp, 0},
	}

	for _, tt := range tests {
		e := NewSpecialEvent(tt.key, ModNone)
		if e.Rune != tt.want {
			t.Errorf("NewSpecialEvent(%v).Rune = %q, want %q", tt.key, e.Rune, tt.want)
		}
		if e.HasChar() != (tt.want != 0) {
			t.Errorf("NewSpecialEvent(%v).HasChar() = %v", tt.key, e.HasChar())
		}
	}
}

func TestNewCtrlEvent(t *testing.T) {
	e := NewCtrlEvent('C')
	if e.Key != KeyRune || e.Rune != 0x03 || e.Modifiers != ModCtrl {
		t.Errorf("NewCtrlEvent('C') = %#v, want control code 0x03 with Ctrl", e)
	}
	if !e.IsControl() {
		t.Error("Ctrl+C should be a control character")
	}
}

func TestEventPredicates(t *testing.T) {
	tests := []struct {
		event                     Event
		isRune, isChar, isControl bool
	}{
		{NewRuneEvent('a', ModNone), true, true, false},
		{NewRuneEvent(' ', ModNone), true, true, false},
		{NewSpecialEvent(KeyEnter, ModNone), false, false, true},
		{NewSpecialEvent(KeyLeft, ModNone), false, false, false},
		{Event{Key: KeyRune, Rune: 0}, false, false, false},
		{NewCtrlEvent('d'), true, false, true},
	}

	for _, tt := range tests {
		if got := tt.event.IsRune(); got != tt.isRune {
			t.Errorf("%#v.IsRune() = %v, want %v", tt.event, got, tt.isRune)
		}
		if got := tt.event.IsChar(); got != tt.isChar {
			t.Errorf("%#v.IsChar() = %v, want %v", tt.event, got, tt.isChar)
		}
		if got := tt.event.IsControl(); got != tt.isControl {
			t.Errorf("%#v.IsControl() = %v, want %v", tt.event, got, tt.isControl)
		}
	}
}

func TestEventIsModified(t *testing.T) {
	tests := []struct {
		event Event
		want  bool
	}{
		{NewRuneEvent('a', ModNone), false},
		{NewRuneEvent('A', ModShift), false}, // Shift alone doesn't count for runes
		{NewRuneEvent('a', ModCtrl), true},
		{NewRuneEvent('a', ModCapsLock), false},
		{NewSpecialEvent(KeyEscape, ModShift), true},
		{NewSpecialEvent(KeyUp, ModNumLock), false},
	}

	for _, tt := range tests {
		if got := tt.event.IsModified(); got != tt.want {
			t.Errorf("%#v.IsModified() = %v, want %v", tt.event, got, tt.want)
		}
	}
}

func TestEventIsEnter(t *testing.T) {
	if !NewSpecialEvent(KeyEnter, ModNone).IsEnter() {
		t.Error("KeyEnter should be Enter")
	}
	if !NewSpecialEvent(KeyKPEnter, ModNone).IsEnter() {
		t.Error("keypad Enter should be Enter")
	}
	if NewRuneEvent('\n', ModNone).IsEnter() {
		t.Error("line feed is not a carriage return")
	}
}

func TestEventIsEscape(t *testing.T) {
	if !NewSpecialEvent(KeyEscape, ModNumLock).IsEscape() {
		t.Error("Escape with only lock state should be plain Escape")
	}
	if NewSpecialEvent(KeyEscape, ModCtrl).IsEscape() {
		t.Error("Escape with Ctrl should not be plain Escape")
	}
}

func TestEventEqualsAndSame(t *testing.T) {
	tests := []struct {
		a, b         Event
		equals, same bool
	}{
		{NewRuneEvent('a', ModNone), NewRuneEvent('a', ModNone), true, true},
		{NewRuneEvent('a', ModNone), NewRuneEvent('b', ModNone), false, false},
		{NewCtrlEvent('c'), NewRuneEvent('c', ModCtrl), false, true},
		{NewRuneEvent('A', ModShift), NewRuneEvent('A', ModNone), false, true},
		{NewRuneEvent('a', ModCapsLock), NewRuneEvent('a', ModNone), false, true},
		{NewSpecialEvent(KeySpace, ModNone), NewRuneEvent(' ', ModNone), false, true},
		{NewSpecialEvent(KeyEnter, ModNone), NewEvent(KeyEnter, 0, ModNone), false, true},
		{NewSpecialEvent(KeyEnter, ModNone), NewSpecialEvent(KeyTab, ModNone), false, false},
	}

	for _, tt := range tests {
		if got := tt.a.Equals(tt.b); got != tt.equals {
			t.Errorf("%#v.Equals(%#v) = %v, want %v", tt.a, tt.b, got, tt.equals)
		}
		if got := tt.a.Same(tt.b); got != tt.same {
			t.Errorf("%#v.Same(%#v) = %v, want %v", tt.a, tt.b, got, tt.same)
		}
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{NewRuneEvent('a', ModNone), "a"},
		{NewRuneEvent('A', ModShift), "A"},
		{NewRuneEvent('s', ModCtrl), "C-s"},
		{NewCtrlEvent('s'), "C-s"},
		{NewRuneEvent('f', ModCtrl|ModAlt), "C-A-f"},
		{NewSpecialEvent(KeyEscape, ModNone), "Esc"},
		{NewSpecialEvent(KeyEnter, ModCtrl), "C-Enter"},
		{NewSpecialEvent(KeyUp, ModShift), "S-Up"},
		{NewRuneEvent(' ', ModNone), "Space"},
	}

	for _, tt := range tests {
		if got := tt.event.String(); got != tt.want {
			t.Errorf("Event.String() = %q, want %q for %#v", got, tt.want, tt.event)
		}
	}
}

func TestEventVimString(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{NewRuneEvent('a', ModNone), "a"},
		{NewRuneEvent('A', ModShift), "A"},
		{NewCtrlEvent('s'), "<C-s>"},
		{NewSpecialEvent(KeyEscape, ModNone), "<Esc>"},
		{NewSpecialEvent(KeyEnter, ModNone), "<CR>"},
		{NewRuneEvent(' ', ModNone), "<Space>"},
		{NewSpecialEvent(KeyF4, ModAlt), "<A-F4>"},
	}

	for _, tt := range tests {
		if got := tt.event.VimString(); got != tt.want {
			t.Errorf("Event.VimString() = %q, want %q for %#v", got, tt.want, tt.event)
		}
	}
}

func TestEventMatches(t *testing.T) {
	tests := []struct {
		event Event
		spec  string
		want  bool
	}{
		{NewRuneEvent('a', ModNone), "a", true},
		{NewCtrlEvent('c'), "Ctrl+C", true},
		{NewCtrlEvent('c'), "<C-c>", true},
		{NewSpecialEvent(KeyEscape, ModNone), "Esc", true},
		{NewSpecialEvent(KeyEnter, ModNone), "<CR>", true},
		{NewRuneEvent(' ', ModNone), "Space", true},
		{NewRuneEvent('a', ModNone), "b", false},
		{NewRuneEvent('a', ModNone), "Ctrl+a", false},
		{NewRuneEvent('a', ModNone), "<>", false},
	}

	for _, tt := range tests {
		if got := tt.event.Matches(tt.spec); got != tt.want {
			t.Errorf("Event.Matches(%q) = %v, want %v for %#v", tt.spec, got, tt.want, tt.event)
		}
	}
}

func TestEventWithModifier(t *testing.T) {
	e := NewRuneEvent('a', ModNone)
	e2 := e.WithModifier(ModCtrl)

	if e.Modifiers != ModNone {
		t.Error("WithModifier should not modify the original")
	}
	if !e2.Modifiers.HasCtrl() {
		t.Error("WithModifier should add Ctrl")
	}
}
