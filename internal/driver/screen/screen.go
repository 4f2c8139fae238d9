// Package screen implements a console driver over a tcell Screen.
//
// Initializing the screen stands in for raw mode. Pending tcell events are
// translated into console records; echo draws each character at a cursor
// that advances by the character's display width and wraps at the right
// edge.
package screen

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"

	"github.com/dshills/keyread/internal/console"
)

// ErrNotInitialized is reported by PeekPending and Drain before the screen
// has been initialized successfully.
var ErrNotInitialized = errors.New("screen not initialized")

const tabWidth = 8

// Option configures a Driver.
type Option func(*Driver)

// WithEchoColor sets the foreground colour of echoed characters.
func WithEchoColor(c tcell.Color) Option {
	return func(d *Driver) {
		d.style = d.style.Foreground(c)
	}
}

// WithOrigin sets the cell where echo starts.
func WithOrigin(x, y int) Option {
	return func(d *Driver) {
		d.x, d.y = max(x, 0), max(y, 0)
	}
}

// ParseColor parses a "#rrggbb" colour.
func ParseColor(hex string) (tcell.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("parse colour %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b)), nil
}

// Driver is a console.Driver backed by a tcell Screen.
type Driver struct {
	screen tcell.Screen
	style  tcell.Style

	initOnce sync.Once
	initErr  error
	ready    bool
	finiOnce sync.Once

	mu   sync.Mutex
	x, y int
}

// New wraps screen. The screen is initialized by ConfigureRawMode.
func New(screen tcell.Screen, opts ...Option) *Driver {
	d := &Driver{
		screen: screen,
		style:  tcell.StyleDefault,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Open creates a driver for the user's terminal.
func Open(opts ...Option) (*Driver, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("new screen: %w", err)
	}
	return New(s, opts...), nil
}

// Screen returns the wrapped screen.
func (d *Driver) Screen() tcell.Screen {
	return d.screen
}

// ConfigureRawMode initializes the screen once and returns the outcome of
// that attempt on every call.
func (d *Driver) ConfigureRawMode() error {
	d.initOnce.Do(func() {
		if err := d.screen.Init(); err != nil {
			d.initErr = fmt.Errorf("init screen: %w", err)
			return
		}
		d.screen.EnablePaste()
		d.screen.EnableFocus()
		d.screen.ShowCursor(d.x, d.y)
		d.screen.Show()

		d.mu.Lock()
		d.ready = true
		d.mu.Unlock()
	})
	return d.initErr
}

func (d *Driver) isReady() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ready
}

// PeekPending reports 1 when at least one event is queued. tcell does not
// expose the queue length.
func (d *Driver) PeekPending() (int, error) {
	if !d.isReady() {
		return 0, ErrNotInitialized
	}
	if d.screen.HasPendingEvent() {
		return 1, nil
	}
	return 0, nil
}

// Drain translates up to limit queued events.
func (d *Driver) Drain(limit int) ([]console.Record, error) {
	if !d.isReady() {
		return nil, ErrNotInitialized
	}

	var records []console.Record
	for len(records) < limit && d.screen.HasPendingEvent() {
		ev := d.screen.PollEvent()
		if ev == nil {
			break
		}
		records = append(records, translateEvent(ev))
	}
	return records, nil
}

// WriteRune draws r at the echo cursor and advances it.
func (d *Driver) WriteRune(r rune) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.ready {
		return ErrNotInitialized
	}

	w, h := d.screen.Size()
	if w <= 0 || h <= 0 {
		return nil
	}

	switch r {
	case '\r':
		d.x = 0
	case '\n':
		d.newline(h)
	case '\b', 0x7f:
		if d.x > 0 {
			d.x--
			d.screen.SetContent(d.x, d.y, ' ', nil, d.style)
		}
	case '\t':
		next := (d.x/tabWidth + 1) * tabWidth
		if next >= w {
			d.x = 0
			d.newline(h)
		} else {
			d.x = next
		}
	default:
		if r < 0x20 {
			return nil
		}
		d.put(r, w, h)
	}

	d.screen.ShowCursor(d.x, d.y)
	d.screen.Show()
	return nil
}

// put draws a printable rune. Zero-width runes combine with the previous
// cell.
func (d *Driver) put(r rune, w, h int) {
	width := uniseg.StringWidth(string(r))
	if width == 0 {
		if d.x == 0 {
			return
		}
		primary, combining, style, _ := d.screen.GetContent(d.x-1, d.y)
		d.screen.SetContent(d.x-1, d.y, primary, append(combining, r), style)
		return
	}

	if d.x+width > w {
		d.x = 0
		d.newline(h)
	}
	d.screen.SetContent(d.x, d.y, r, nil, d.style)
	d.x += width
	if d.x >= w {
		d.x = 0
		d.newline(h)
	}
}

// newline moves to the next row, staying on the last row once reached.
func (d *Driver) newline(h int) {
	if d.y < h-1 {
		d.y++
	}
}

// Cursor returns the echo cursor position.
func (d *Driver) Cursor() (x, y int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.x, d.y
}

// Close finalizes the screen if it was initialized.
func (d *Driver) Close() error {
	if d.isReady() {
		d.finiOnce.Do(d.screen.Fini)
	}
	return nil
}
