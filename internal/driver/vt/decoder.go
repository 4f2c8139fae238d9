package vt

import (
	"unicode/utf8"

	"github.com/dshills/keyread/internal/console"
	"github.com/dshills/keyread/internal/input/key"
)

const (
	esc = 0x1b
	del = 0x7f

	// maxSequence bounds how far the decoder looks for the end of a CSI
	// sequence before discarding it as garbage.
	maxSequence = 32
)

// Option configures a Decoder.
type Option func(*Decoder)

// WithTranslateNewline makes LF decode as Enter, like a terminal with
// ICRNL set. Input from pipes and files usually needs it.
func WithTranslateNewline(on bool) Option {
	return func(d *Decoder) {
		d.translateNewline = on
	}
}

// Decoder turns terminal input bytes into console records.
// It is not safe for concurrent use.
type Decoder struct {
	buf              []byte
	translateNewline bool
	pasting          bool
}

// NewDecoder creates a decoder.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{buf: make([]byte, 0, 64)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Feed decodes data together with anything left over from earlier calls.
// Bytes that may still be the start of a longer sequence are kept.
func (d *Decoder) Feed(data []byte) []console.Record {
	d.buf = append(d.buf, data...)

	var out []console.Record
	i := 0
	for i < len(d.buf) {
		n, rec, ok := d.decode(d.buf[i:])
		if n == 0 {
			break
		}
		if ok {
			out = append(out, rec)
		}
		i += n
	}

	d.buf = d.buf[:copy(d.buf, d.buf[i:])]
	return out
}

// Flush decodes whatever is still pending as if no more input will follow.
// A lone ESC becomes the Escape key and a truncated sequence becomes its
// individual bytes.
func (d *Decoder) Flush() []console.Record {
	var out []console.Record
	for len(d.buf) > 0 {
		n, rec, ok := d.decode(d.buf)
		if n == 0 {
			n, rec, ok = d.decodeTruncated(d.buf)
		}
		if ok {
			out = append(out, rec)
		}
		d.buf = d.buf[n:]
	}
	d.buf = d.buf[:0]
	return out
}

// Pending reports the number of buffered bytes awaiting more input.
func (d *Decoder) Pending() int {
	return len(d.buf)
}

// Pasting reports whether the decoder is between bracketed paste markers.
func (d *Decoder) Pasting() bool {
	return d.pasting
}

// decode decodes one record from the front of b. It returns n == 0 when b
// holds an incomplete sequence, and ok == false for input that is consumed
// without producing a record.
func (d *Decoder) decode(b []byte) (n int, rec console.Record, ok bool) {
	c := b[0]
	switch {
	case c == esc:
		return d.decodeEscape(b)
	case c < 0x20 || c == del:
		return 1, keyRecord(d.control(c)), true
	case c < utf8.RuneSelf:
		return 1, keyRecord(key.NewRuneEvent(rune(c), 0)), true
	}

	if !utf8.FullRune(b) {
		return 0, console.Record{}, false
	}
	r, size := utf8.DecodeRune(b)
	return size, keyRecord(key.NewRuneEvent(r, 0)), true
}

// decodeTruncated handles a prefix that decode reported incomplete once no
// more input is coming.
func (d *Decoder) decodeTruncated(b []byte) (int, console.Record, bool) {
	if b[0] == esc {
		return 1, keyRecord(key.NewSpecialEvent(key.KeyEscape, 0)), true
	}
	return 1, keyRecord(key.NewRuneEvent(utf8.RuneError, 0)), true
}

// control maps a C0 control byte or DEL to a key event.
func (d *Decoder) control(c byte) key.Event {
	switch c {
	case 0x00:
		return key.NewEvent(key.KeySpace, 0, key.ModCtrl)
	case '\b', del:
		return key.NewSpecialEvent(key.KeyBackspace, 0)
	case '\t':
		return key.NewSpecialEvent(key.KeyTab, 0)
	case '\r':
		return key.NewSpecialEvent(key.KeyEnter, 0)
	case '\n':
		if d.translateNewline {
			return key.NewSpecialEvent(key.KeyEnter, 0)
		}
	case esc:
		return key.NewSpecialEvent(key.KeyEscape, 0)
	}
	return key.NewRuneEvent(rune(c), key.ModCtrl)
}

func (d *Decoder) decodeEscape(b []byte) (int, console.Record, bool) {
	if len(b) < 2 {
		return 0, console.Record{}, false
	}

	switch c := b[1]; {
	case c == '[':
		return d.decodeCSI(b)
	case c == 'O':
		return d.decodeSS3(b)
	case c == esc:
		return 2, keyRecord(key.NewSpecialEvent(key.KeyEscape, key.ModAlt)), true
	case c < 0x20 || c == del:
		ev := d.control(c)
		return 2, keyRecord(ev.WithModifier(key.ModAlt)), true
	case c < utf8.RuneSelf:
		return 2, keyRecord(key.NewRuneEvent(rune(c), key.ModAlt)), true
	}

	if !utf8.FullRune(b[1:]) {
		return 0, console.Record{}, false
	}
	r, size := utf8.DecodeRune(b[1:])
	return 1 + size, keyRecord(key.NewRuneEvent(r, key.ModAlt)), true
}

func (d *Decoder) decodeSS3(b []byte) (int, console.Record, bool) {
	if len(b) < 3 {
		return 0, console.Record{}, false
	}
	k, found := ss3Final[b[2]]
	if !found {
		return 3, otherRecord(), true
	}
	return 3, keyRecord(key.NewEvent(k, keypadRune(k), 0)), true
}

func (d *Decoder) decodeCSI(b []byte) (int, console.Record, bool) {
	if len(b) < 3 {
		return 0, console.Record{}, false
	}

	if b[2] == '[' {
		if len(b) < 4 {
			return 0, console.Record{}, false
		}
		if k, found := linuxFunction[b[3]]; found {
			return 4, keyRecord(key.NewSpecialEvent(k, 0)), true
		}
		return 4, otherRecord(), true
	}

	// Parameter and intermediate bytes run up to a final byte in 0x40..0x7e.
	end := 2
	for ; end < len(b); end++ {
		c := b[end]
		if c >= 0x40 && c <= 0x7e {
			break
		}
		if c < 0x20 || c > 0x3f {
			// Not a CSI sequence after all; drop the introducer.
			return end, otherRecord(), true
		}
		if end >= maxSequence {
			return end, otherRecord(), true
		}
	}
	if end >= len(b) {
		return 0, console.Record{}, false
	}

	n := end + 1
	params := b[2:end]
	final := b[end]

	if len(params) > 0 && params[0] == '<' {
		if final != 'M' && final != 'm' {
			return n, otherRecord(), true
		}
		rec, ok := sgrMouse(params[1:], final == 'M')
		if !ok {
			return n, otherRecord(), true
		}
		return n, rec, true
	}

	nums, valid := parseParams(params)
	if !valid {
		return n, otherRecord(), true
	}

	switch final {
	case 'I', 'O':
		if len(params) == 0 {
			return n, console.Record{Kind: console.RecordFocus, Focus: console.FocusRecord{Focused: final == 'I'}}, true
		}
	case 'Z':
		return n, keyRecord(key.NewSpecialEvent(key.KeyTab, key.ModShift)), true
	case '~':
		if len(nums) == 0 {
			return n, otherRecord(), true
		}
		switch nums[0] {
		case 200:
			d.pasting = true
			return n, otherRecord(), true
		case 201:
			d.pasting = false
			return n, otherRecord(), true
		}
		k, found := csiTilde[nums[0]]
		if !found {
			return n, otherRecord(), true
		}
		return n, keyRecord(key.NewSpecialEvent(k, modifierParam(nums))), true
	}

	if k, found := csiFinal[final]; found {
		return n, keyRecord(key.NewSpecialEvent(k, modifierParam(nums))), true
	}
	return n, otherRecord(), true
}

// parseParams parses "n;m;..." into numbers. Empty fields are zero.
func parseParams(b []byte) ([]int, bool) {
	if len(b) == 0 {
		return nil, true
	}
	nums := []int{0}
	for _, c := range b {
		switch {
		case c == ';':
			nums = append(nums, 0)
		case c >= '0' && c <= '9':
			v := nums[len(nums)-1]*10 + int(c-'0')
			if v > 9999 {
				return nil, false
			}
			nums[len(nums)-1] = v
		default:
			return nil, false
		}
	}
	return nums, true
}

// modifierParam returns the modifiers carried by the second parameter.
func modifierParam(nums []int) key.Modifier {
	if len(nums) < 2 {
		return 0
	}
	return xtermModifiers(nums[1])
}

// sgrMouse decodes the "Btn;X;Y" body of an SGR mouse report.
func sgrMouse(params []byte, press bool) (console.Record, bool) {
	nums, ok := parseParams(params)
	if !ok || len(nums) != 3 {
		return console.Record{}, false
	}
	btn, x, y := nums[0], nums[1], nums[2]

	m := console.MouseRecord{X: x - 1, Y: y - 1, Moved: btn&32 != 0}
	if btn&4 != 0 {
		m.Modifiers |= key.ModShift
	}
	if btn&8 != 0 {
		m.Modifiers |= key.ModAlt
	}
	if btn&16 != 0 {
		m.Modifiers |= key.ModCtrl
	}

	id := btn & 0x03
	switch {
	case btn&64 != 0:
		wheel := [...]console.MouseButton{console.MouseWheelUp, console.MouseWheelDown, console.MouseWheelLeft, console.MouseWheelRight}
		m.Buttons = wheel[id]
	case !press || id == 3:
	default:
		m.Buttons = [...]console.MouseButton{console.MouseLeft, console.MouseMiddle, console.MouseRight}[id]
	}

	return console.Record{Kind: console.RecordMouse, Mouse: m}, true
}

func keypadRune(k key.Key) rune {
	if r, ok := keypadChars[k]; ok {
		return r
	}
	return k.Rune()
}

func keyRecord(ev key.Event) console.Record {
	return console.KeyRecordOf(ev)
}

func otherRecord() console.Record {
	return console.Record{Kind: console.RecordOther}
}
