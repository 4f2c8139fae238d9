// Package key defines the keystroke value types shared by the console reader,
// its drivers and its callers.
//
//   - Key: hardware-independent identifier of the key that was pressed
//   - Modifier: modifier keys and lock state held at the time of the press
//   - Event: one accepted key-down transition (character, key, modifiers)
//   - Set: a collection of key specifications used to match live events
//
// # Characters
//
// Keys that produce a character carry it in Event.Rune even when they also
// have a dedicated Key value: Enter is {KeyEnter, '\r'}, Tab {KeyTab, '\t'},
// Backspace {KeyBackspace, '\b'} and Escape {KeyEscape, 0x1b}. Keys without a
// character representation (arrows, function keys) carry the null rune.
// Ctrl+letter arrives as the C0 control code with ModCtrl set, e.g.
// {KeyRune, 0x03, ModCtrl} for Ctrl+C.
//
// # Key Specifications
//
// Specifications are accepted in two notations:
//
//   - Plain: "a", "A", "Enter", "Ctrl+C", "Alt+F4", "Ctrl+Shift+P"
//   - Vim-style: "<C-c>", "<A-f>", "<CR>", "<Esc>"
package key
