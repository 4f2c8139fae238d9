package console

import "github.com/dshills/keyread/internal/input/key"

// RecordKind identifies which payload of a Record is valid.
type RecordKind uint8

const (
	RecordNone RecordKind = iota
	RecordKey
	RecordMouse
	RecordResize
	RecordFocus
	RecordMenu
	RecordOther
)

var recordKindNames = [...]string{
	RecordNone:   "None",
	RecordKey:    "Key",
	RecordMouse:  "Mouse",
	RecordResize: "Resize",
	RecordFocus:  "Focus",
	RecordMenu:   "Menu",
	RecordOther:  "Other",
}

// String returns the kind name.
func (k RecordKind) String() string {
	if int(k) < len(recordKindNames) {
		return recordKindNames[k]
	}
	return "Unknown"
}

// Record is one raw input record as delivered by a Driver.
//
// Kind selects the valid payload; the others are zero.
type Record struct {
	Kind RecordKind

	Key    KeyRecord
	Mouse  MouseRecord
	Resize ResizeRecord
	Focus  FocusRecord
	Menu   MenuRecord
}

// KeyRecord is the keyboard payload.
type KeyRecord struct {
	// Down is true for a key press and false for a release.
	Down bool

	// RepeatCount is how many times the driver saw the key auto-repeat.
	// It is informational; one record always yields at most one event.
	RepeatCount uint16

	Key       key.Key
	ScanCode  uint16
	Rune      rune
	Modifiers key.Modifier
}

// MouseButton is the button mask of a mouse record.
type MouseButton uint8

const (
	MouseLeft MouseButton = 1 << iota
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
	MouseWheelLeft
	MouseWheelRight
)

// MouseRecord is the mouse payload.
type MouseRecord struct {
	X, Y      int
	Buttons   MouseButton
	Modifiers key.Modifier
	Moved     bool
}

// ResizeRecord is the window size payload.
type ResizeRecord struct {
	Width, Height int
}

// FocusRecord is the focus payload.
type FocusRecord struct {
	Focused bool
}

// MenuRecord is the menu command payload.
type MenuRecord struct {
	Command uint32
}

// KeyRecordOf builds a key-down record for ev.
func KeyRecordOf(ev key.Event) Record {
	return Record{
		Kind: RecordKey,
		Key: KeyRecord{
			Down:        true,
			RepeatCount: 1,
			Key:         ev.Key,
			Rune:        ev.Rune,
			Modifiers:   ev.Modifiers,
		},
	}
}

// KeyEvent returns the key event carried by r. The second result is false
// for key releases and for every non-keyboard record.
func (r Record) KeyEvent() (key.Event, bool) {
	if r.Kind != RecordKey || !r.Key.Down {
		return key.Event{}, false
	}
	return key.NewEvent(r.Key.Key, r.Key.Rune, r.Key.Modifiers), true
}
