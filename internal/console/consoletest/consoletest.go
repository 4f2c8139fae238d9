// Package consoletest provides a scripted console.Driver for tests.
package consoletest

import (
	"strings"
	"sync"

	"github.com/dshills/keyread/internal/console"
	"github.com/dshills/keyread/internal/input/key"
)

// Driver is an in-memory console.Driver. Records are queued with Push and
// handed out by Drain in order; echoed runes are collected for Output.
// It is safe for concurrent use.
type Driver struct {
	mu sync.Mutex

	queue    []console.Record
	drained  int
	output   strings.Builder
	writes   int
	rawCalls int

	rawErr     error
	writeErr   error
	peekErr    error
	peekFails  int
	drainErr   error
	drainFail  int
	drainPanic any
}

// New returns a driver with records already queued.
func New(records ...console.Record) *Driver {
	d := &Driver{}
	d.Push(records...)
	return d
}

// Push queues more records.
func (d *Driver) Push(records ...console.Record) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, records...)
}

// FailRawMode makes ConfigureRawMode return err.
func (d *Driver) FailRawMode(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rawErr = err
}

// FailWrites makes WriteRune return err.
func (d *Driver) FailWrites(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writeErr = err
}

// FailPeek makes the next n PeekPending calls return err.
func (d *Driver) FailPeek(n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.peekFails, d.peekErr = n, err
}

// FailDrain makes the next n Drain calls return err without consuming.
func (d *Driver) FailDrain(n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drainFail, d.drainErr = n, err
}

// PanicOnDrain makes the next Drain call panic with v.
func (d *Driver) PanicOnDrain(v any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drainPanic = v
}

// ConfigureRawMode implements console.Driver.
func (d *Driver) ConfigureRawMode() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rawCalls++
	return d.rawErr
}

// PeekPending implements console.Driver.
func (d *Driver) PeekPending() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.peekFails > 0 {
		d.peekFails--
		return 0, d.peekErr
	}
	return len(d.queue), nil
}

// Drain implements console.Driver.
func (d *Driver) Drain(limit int) ([]console.Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if v := d.drainPanic; v != nil {
		d.drainPanic = nil
		panic(v)
	}
	if d.drainFail > 0 {
		d.drainFail--
		return nil, d.drainErr
	}
	n := min(limit, len(d.queue))
	out := make([]console.Record, n)
	copy(out, d.queue[:n])
	d.queue = d.queue[n:]
	d.drained += n
	return out, nil
}

// WriteRune implements console.Driver.
func (d *Driver) WriteRune(r rune) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.writeErr != nil {
		return d.writeErr
	}
	d.writes++
	d.output.WriteRune(r)
	return nil
}

// Output returns everything echoed so far.
func (d *Driver) Output() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.output.String()
}

// Writes returns the number of successful WriteRune calls.
func (d *Driver) Writes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes
}

// Drained returns the number of records removed by Drain.
func (d *Driver) Drained() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.drained
}

// Pending returns the number of records still queued.
func (d *Driver) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// RawModeCalls returns how often ConfigureRawMode was called.
func (d *Driver) RawModeCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rawCalls
}

// Down returns a key-down record for ev.
func Down(ev key.Event) console.Record {
	return console.KeyRecordOf(ev)
}

// Up returns a key-up record for ev.
func Up(ev key.Event) console.Record {
	r := console.KeyRecordOf(ev)
	r.Key.Down = false
	return r
}

// Text returns key-down records typing s. '\r' and '\n' become Enter.
func Text(s string) []console.Record {
	records := make([]console.Record, 0, len(s))
	for _, r := range s {
		switch r {
		case '\r', '\n':
			records = append(records, Down(key.NewSpecialEvent(key.KeyEnter, 0)))
		default:
			records = append(records, Down(key.NewRuneEvent(r, 0)))
		}
	}
	return records
}

// Special returns a key-down record for a key without modifiers.
func Special(k key.Key) console.Record {
	return Down(key.NewSpecialEvent(k, 0))
}

// Mouse returns a mouse record.
func Mouse(x, y int) console.Record {
	return console.Record{Kind: console.RecordMouse, Mouse: console.MouseRecord{X: x, Y: y, Buttons: console.MouseLeft}}
}

// Resize returns a window size record.
func Resize(w, h int) console.Record {
	return console.Record{Kind: console.RecordResize, Resize: console.ResizeRecord{Width: w, Height: h}}
}

// Focus returns a focus record.
func Focus(focused bool) console.Record {
	return console.Record{Kind: console.RecordFocus, Focus: console.FocusRecord{Focused: focused}}
}

// Menu returns a menu record.
func Menu(cmd uint32) console.Record {
	return console.Record{Kind: console.RecordMenu, Menu: console.MenuRecord{Command: cmd}}
}
