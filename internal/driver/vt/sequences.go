package vt

import "github.com/dshills/keyread/internal/input/key"

// csiFinal maps the final byte of "ESC [ 1 ; m X" style sequences.
var csiFinal = map[byte]key.Key{
	'A': key.KeyUp,
	'B': key.KeyDown,
	'C': key.KeyRight,
	'D': key.KeyLeft,
	'E': key.KeyKP5,
	'F': key.KeyEnd,
	'H': key.KeyHome,
	'P': key.KeyF1,
	'Q': key.KeyF2,
	'R': key.KeyF3,
	'S': key.KeyF4,
}

// csiTilde maps the first parameter of "ESC [ n ; m ~" sequences.
var csiTilde = map[int]key.Key{
	1:  key.KeyHome,
	2:  key.KeyInsert,
	3:  key.KeyDelete,
	4:  key.KeyEnd,
	5:  key.KeyPageUp,
	6:  key.KeyPageDown,
	7:  key.KeyHome,
	8:  key.KeyEnd,
	11: key.KeyF1,
	12: key.KeyF2,
	13: key.KeyF3,
	14: key.KeyF4,
	15: key.KeyF5,
	17: key.KeyF6,
	18: key.KeyF7,
	19: key.KeyF8,
	20: key.KeyF9,
	21: key.KeyF10,
	23: key.KeyF11,
	24: key.KeyF12,
}

// ss3Final maps "ESC O X" sequences sent in application cursor mode.
var ss3Final = map[byte]key.Key{
	'A': key.KeyUp,
	'B': key.KeyDown,
	'C': key.KeyRight,
	'D': key.KeyLeft,
	'F': key.KeyEnd,
	'H': key.KeyHome,
	'M': key.KeyKPEnter,
	'P': key.KeyF1,
	'Q': key.KeyF2,
	'R': key.KeyF3,
	'S': key.KeyF4,
	'j': key.KeyKPMultiply,
	'k': key.KeyKPAdd,
	'm': key.KeyKPSubtract,
	'n': key.KeyKPDecimal,
	'o': key.KeyKPDivide,
	'p': key.KeyKP0,
	'q': key.KeyKP1,
	'r': key.KeyKP2,
	's': key.KeyKP3,
	't': key.KeyKP4,
	'u': key.KeyKP5,
	'v': key.KeyKP6,
	'w': key.KeyKP7,
	'x': key.KeyKP8,
	'y': key.KeyKP9,
}

// linuxFunction maps the Linux console's "ESC [ [ X" function keys.
var linuxFunction = map[byte]key.Key{
	'A': key.KeyF1,
	'B': key.KeyF2,
	'C': key.KeyF3,
	'D': key.KeyF4,
	'E': key.KeyF5,
}

// xtermModifiers decodes the xterm modifier parameter, which is one plus a
// bitmask of Shift=1, Alt=2, Ctrl=4, Meta=8.
func xtermModifiers(param int) key.Modifier {
	if param <= 1 {
		return 0
	}
	bits := param - 1
	var mods key.Modifier
	if bits&1 != 0 {
		mods |= key.ModShift
	}
	if bits&2 != 0 {
		mods |= key.ModAlt
	}
	if bits&4 != 0 {
		mods |= key.ModCtrl
	}
	if bits&8 != 0 {
		mods |= key.ModMeta
	}
	return mods
}

// keypadChars are the characters typed by keypad keys in application
// keypad mode.
var keypadChars = map[key.Key]rune{
	key.KeyKP0:        '0',
	key.KeyKP1:        '1',
	key.KeyKP2:        '2',
	key.KeyKP3:        '3',
	key.KeyKP4:        '4',
	key.KeyKP5:        '5',
	key.KeyKP6:        '6',
	key.KeyKP7:        '7',
	key.KeyKP8:        '8',
	key.KeyKP9:        '9',
	key.KeyKPAdd:      '+',
	key.KeyKPSubtract: '-',
	key.KeyKPMultiply: '*',
	key.KeyKPDivide:   '/',
	key.KeyKPDecimal:  '.',
	key.KeyKPEnter:    '\r',
}
