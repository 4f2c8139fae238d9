// Package stream implements a console driver over an arbitrary byte
// stream, such as a pipe or a file redirected to stdin.
//
// A pump goroutine reads the stream through a cancelable reader and decodes
// it with the vt decoder into a queue that PeekPending and Drain serve
// without blocking.
package stream

import (
	"errors"
	"io"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/muesli/cancelreader"

	"github.com/dshills/keyread/internal/console"
	"github.com/dshills/keyread/internal/driver/vt"
)

// ErrClosed is reported by PeekPending once the stream has ended and every
// decoded record has been drained.
var ErrClosed = errors.New("input stream closed")

const (
	// DefaultEscapeTimeout is how long a lone ESC waits for the rest of a
	// sequence before it is delivered as the Escape key.
	DefaultEscapeTimeout = 50 * time.Millisecond

	readBufferSize = 256
	closeTimeout   = 100 * time.Millisecond
)

// Option configures a Driver.
type Option func(*Driver)

// WithTranslateNewline delivers LF as Enter.
func WithTranslateNewline(on bool) Option {
	return func(d *Driver) {
		d.translate = on
	}
}

// WithEscapeTimeout sets the lone ESC timeout.
func WithEscapeTimeout(timeout time.Duration) Option {
	return func(d *Driver) {
		if timeout > 0 {
			d.escTimeout = timeout
		}
	}
}

// Driver is a console.Driver reading from an io.Reader and echoing to an
// io.Writer.
type Driver struct {
	cr         cancelreader.CancelReader
	out        io.Writer
	translate  bool
	escTimeout time.Duration

	startOnce sync.Once
	closeOnce sync.Once
	done      chan struct{}

	mu       sync.Mutex
	decoder  *vt.Decoder
	queue    []console.Record
	lastData time.Time
	err      error

	wmu sync.Mutex
}

// New creates a driver over r. Echo goes to w, which may be nil.
func New(r io.Reader, w io.Writer, opts ...Option) (*Driver, error) {
	cr, err := cancelreader.NewReader(r)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = io.Discard
	}

	d := &Driver{
		cr:         cr,
		out:        w,
		escTimeout: DefaultEscapeTimeout,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.decoder = vt.NewDecoder(vt.WithTranslateNewline(d.translate))

	return d, nil
}

// ConfigureRawMode starts the pump. A stream has no line discipline of its
// own, so there is nothing else to configure.
func (d *Driver) ConfigureRawMode() error {
	d.start()
	return nil
}

// PeekPending reports the number of decoded records waiting. Once the
// stream has ended and the queue is empty it returns the read error, with
// io.EOF reported as ErrClosed.
func (d *Driver) PeekPending() (int, error) {
	d.start()

	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.queue) == 0 && d.decoder.Pending() > 0 && time.Since(d.lastData) >= d.escTimeout {
		d.queue = append(d.queue, d.decoder.Flush()...)
	}
	if len(d.queue) > 0 {
		return len(d.queue), nil
	}
	return 0, d.err
}

// Drain removes up to limit queued records.
func (d *Driver) Drain(limit int) ([]console.Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := min(limit, len(d.queue))
	out := make([]console.Record, n)
	copy(out, d.queue)
	d.queue = d.queue[n:]
	return out, nil
}

// WriteRune writes r UTF-8 encoded.
func (d *Driver) WriteRune(r rune) error {
	d.wmu.Lock()
	defer d.wmu.Unlock()

	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	_, err := d.out.Write(buf[:n])
	return err
}

// Done is closed when the pump has stopped reading.
func (d *Driver) Done() <-chan struct{} {
	return d.done
}

// Buffered returns the number of records decoded but not yet drained.
func (d *Driver) Buffered() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Close stops the pump and releases the reader. A read blocked on a
// stream that cannot be interrupted is abandoned after a short wait.
func (d *Driver) Close() error {
	var err error
	d.closeOnce.Do(func() {
		d.cr.Cancel()
		d.startOnce.Do(func() { close(d.done) })
		select {
		case <-d.done:
		case <-time.After(closeTimeout):
		}
		err = d.cr.Close()
	})
	return err
}

func (d *Driver) start() {
	d.startOnce.Do(func() {
		go d.pump()
	})
}

func (d *Driver) pump() {
	defer close(d.done)

	buf := make([]byte, readBufferSize)
	for {
		n, err := d.cr.Read(buf)
		if n > 0 {
			d.mu.Lock()
			d.queue = append(d.queue, d.decoder.Feed(buf[:n])...)
			d.lastData = time.Now()
			d.mu.Unlock()
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, cancelreader.ErrCanceled) {
				err = ErrClosed
			}
			d.mu.Lock()
			d.queue = append(d.queue, d.decoder.Flush()...)
			d.err = err
			d.mu.Unlock()
			return
		}
	}
}
