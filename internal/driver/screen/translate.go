package screen

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyread/internal/console"
	"github.com/dshills/keyread/internal/input/key"
)

// namedKeys maps tcell's named keys to ours.
var namedKeys = map[tcell.Key]key.Key{
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyDEL:        key.KeyBackspace,
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyInsert:     key.KeyInsert,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyPause:      key.KeyPause,
	tcell.KeyPrint:      key.KeyPrintScreen,
	tcell.KeyCapsLock:   key.KeyCapsLock,
	tcell.KeyScrollLock: key.KeyScrollLock,
	tcell.KeyNumLock:    key.KeyNumLock,
	tcell.KeyF1:         key.KeyF1,
	tcell.KeyF2:         key.KeyF2,
	tcell.KeyF3:         key.KeyF3,
	tcell.KeyF4:         key.KeyF4,
	tcell.KeyF5:         key.KeyF5,
	tcell.KeyF6:         key.KeyF6,
	tcell.KeyF7:         key.KeyF7,
	tcell.KeyF8:         key.KeyF8,
	tcell.KeyF9:         key.KeyF9,
	tcell.KeyF10:        key.KeyF10,
	tcell.KeyF11:        key.KeyF11,
	tcell.KeyF12:        key.KeyF12,
}

func translateEvent(ev tcell.Event) console.Record {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return console.KeyRecordOf(translateKey(ev))
	case *tcell.EventMouse:
		x, y := ev.Position()
		return console.Record{
			Kind: console.RecordMouse,
			Mouse: console.MouseRecord{
				X:         x,
				Y:         y,
				Buttons:   translateButtons(ev.Buttons()),
				Modifiers: translateMods(ev.Modifiers()),
			},
		}
	case *tcell.EventResize:
		w, h := ev.Size()
		return console.Record{Kind: console.RecordResize, Resize: console.ResizeRecord{Width: w, Height: h}}
	case *tcell.EventFocus:
		return console.Record{Kind: console.RecordFocus, Focus: console.FocusRecord{Focused: ev.Focused}}
	default:
		return console.Record{Kind: console.RecordOther}
	}
}

func translateKey(ev *tcell.EventKey) key.Event {
	k := ev.Key()
	mods := translateMods(ev.Modifiers())

	switch k {
	case tcell.KeyRune:
		return key.NewRuneEvent(ev.Rune(), mods)
	case tcell.KeyBacktab:
		return key.NewSpecialEvent(key.KeyTab, mods.With(key.ModShift))
	}

	// Named keys first: older tcell releases number Ctrl+H, Ctrl+I and
	// Ctrl+M the same as Backspace, Tab and Enter.
	if named, ok := namedKeys[k]; ok {
		return key.NewSpecialEvent(named, mods)
	}

	switch {
	case k == tcell.KeyCtrlSpace || k == tcell.KeyNUL:
		return key.NewEvent(key.KeySpace, 0, mods.With(key.ModCtrl))
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return key.NewEvent(key.KeyRune, rune(k-tcell.KeyCtrlA)+1, mods.With(key.ModCtrl))
	case k < 0x20:
		return key.NewEvent(key.KeyRune, rune(k), mods.With(key.ModCtrl))
	}
	return key.NewEvent(key.KeyNone, 0, mods)
}

func translateMods(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModShift != 0 {
		mods |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mods |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mods |= key.ModMeta
	}
	return mods
}

func translateButtons(b tcell.ButtonMask) console.MouseButton {
	var out console.MouseButton
	pairs := []struct {
		in  tcell.ButtonMask
		out console.MouseButton
	}{
		{tcell.ButtonPrimary, console.MouseLeft},
		{tcell.ButtonMiddle, console.MouseMiddle},
		{tcell.ButtonSecondary, console.MouseRight},
		{tcell.WheelUp, console.MouseWheelUp},
		{tcell.WheelDown, console.MouseWheelDown},
		{tcell.WheelLeft, console.MouseWheelLeft},
		{tcell.WheelRight, console.MouseWheelRight},
	}
	for _, p := range pairs {
		if b&p.in != 0 {
			out |= p.out
		}
	}
	return out
}
