package key

import (
	"testing"
)

func TestModifierHas(t *testing.T) {
	tests := []struct {
		mod    Modifier
		check  Modifier
		expect bool
	}{
		{ModNone, ModCtrl, false},
		{ModCtrl, ModCtrl, true},
		{ModCtrl | ModAlt, ModAlt, true},
		{ModCtrl | ModAlt, ModShift, false},
		{ModCtrl | ModCapsLock, ModCapsLock, true},
	}

	for _, tt := range tests {
		if got := tt.mod.Has(tt.check); got != tt.expect {
			t.Errorf("Modifier(%d).Has(%d) = %v, want %v", tt.mod, tt.check, got, tt.expect)
		}
	}
}

func TestModifierWithWithout(t *testing.T) {
	mod := ModNone.With(ModCtrl).With(ModAlt)
	if !mod.HasCtrl() || !mod.HasAlt() {
		t.Errorf("With = %v, want Ctrl+Alt", mod)
	}

	mod = mod.Without(ModAlt)
	if mod.HasAlt() || !mod.HasCtrl() {
		t.Errorf("Without(ModAlt) = %v, want Ctrl", mod)
	}
}

func TestModifierKeysAndLocks(t *testing.T) {
	mod := ModShift | ModNumLock | ModCapsLock
	if got := mod.Keys(); got != ModShift {
		t.Errorf("Keys() = %v, want Shift", got)
	}
	if got := mod.Locks(); got != ModNumLock|ModCapsLock {
		t.Errorf("Locks() = %v, want CapsLock+NumLock", got)
	}
	if (ModNumLock | ModScrollLock).IsEmpty() != true {
		t.Error("lock state alone should count as empty")
	}
}

func TestModifierString(t *testing.T) {
	tests := []struct {
		mod  Modifier
		want string
	}{
		{ModNone, ""},
		{ModCtrl, "Ctrl"},
		{ModShift | ModCtrl, "Ctrl+Shift"},
		{ModCtrl | ModAlt | ModShift | ModMeta, "Ctrl+Alt+Shift+Meta"},
		{ModAlt | ModCapsLock, "Alt+CapsLock"},
	}

	for _, tt := range tests {
		if got := tt.mod.String(); got != tt.want {
			t.Errorf("Modifier.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestModifierShortString(t *testing.T) {
	tests := []struct {
		mod  Modifier
		want string
	}{
		{ModNone, ""},
		{ModCtrl | ModAlt, "C-A"},
		{ModCtrl | ModAlt | ModShift | ModMeta, "C-A-S-M"},
		{ModShift | ModNumLock, "S"},
	}

	for _, tt := range tests {
		if got := tt.mod.ShortString(); got != tt.want {
			t.Errorf("Modifier.ShortString() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseModifiers(t *testing.T) {
	tests := []struct {
		input string
		want  Modifier
	}{
		{"Ctrl", ModCtrl},
		{"ctrl+alt", ModCtrl | ModAlt},
		{"C-A-S", ModCtrl | ModAlt | ModShift},
		{"cmd + shift", ModMeta | ModShift},
		{"bogus", ModNone},
	}

	for _, tt := range tests {
		if got := ParseModifiers(tt.input); got != tt.want {
			t.Errorf("ParseModifiers(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
