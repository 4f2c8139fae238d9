//go:build unix

package tty

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
	"unicode/utf8"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/dshills/keyread/internal/console"
	"github.com/dshills/keyread/internal/driver/vt"
)

const (
	// DefaultEscapeTimeout is how long a lone ESC waits for the rest of a
	// sequence.
	DefaultEscapeTimeout = 50 * time.Millisecond

	readBufferSize = 256
)

// Option configures a Driver.
type Option func(*Driver)

// WithEscapeTimeout sets the lone ESC timeout.
func WithEscapeTimeout(timeout time.Duration) Option {
	return func(d *Driver) {
		if timeout > 0 {
			d.escTimeout = timeout
		}
	}
}

// WithTranslateNewline delivers LF as Enter.
func WithTranslateNewline(on bool) Option {
	return func(d *Driver) {
		d.translate = on
	}
}

// Driver reads keys from a terminal file descriptor.
type Driver struct {
	in         *os.File
	out        *os.File
	inFd       int
	escTimeout time.Duration
	translate  bool

	rawOnce sync.Once
	rawErr  error
	saved   *term.State

	mu       sync.Mutex
	decoder  *vt.Decoder
	queue    []console.Record
	buf      []byte
	lastData time.Time

	wmu sync.Mutex

	resizeStop chan struct{}
	resizeDone chan struct{}
}

// Open returns a driver for the process's stdin and stdout.
func Open(opts ...Option) (*Driver, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, ErrNotTerminal
	}
	return New(os.Stdin, os.Stdout, opts...), nil
}

// New returns a driver reading in and echoing to out. in need not be a
// terminal; raw mode then fails and the driver reads the bytes as they come.
func New(in, out *os.File, opts ...Option) *Driver {
	d := &Driver{
		in:         in,
		out:        out,
		inFd:       int(in.Fd()),
		escTimeout: DefaultEscapeTimeout,
		buf:        make([]byte, readBufferSize),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.decoder = vt.NewDecoder(vt.WithTranslateNewline(d.translate))

	return d
}

// ConfigureRawMode switches the terminal to raw mode on the first call and
// returns the outcome of that attempt on every call.
func (d *Driver) ConfigureRawMode() error {
	d.rawOnce.Do(func() {
		state, err := term.MakeRaw(d.inFd)
		if err != nil {
			d.rawErr = fmt.Errorf("make raw: %w", err)
			return
		}
		d.saved = state
		d.watchResize()
	})
	return d.rawErr
}

// PeekPending reads whatever input is ready without blocking and reports
// the number of decoded records waiting.
func (d *Driver) PeekPending() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.fill()
	if len(d.queue) == 0 && d.decoder.Pending() > 0 && time.Since(d.lastData) >= d.escTimeout {
		d.queue = append(d.queue, d.decoder.Flush()...)
	}
	if len(d.queue) > 0 {
		return len(d.queue), nil
	}
	return 0, err
}

// fill performs one zero-timeout poll and at most one read.
func (d *Driver) fill() error {
	fds := []unix.PollFd{{Fd: int32(d.inFd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return nil
		}
		return fmt.Errorf("poll: %w", err)
	}
	if n == 0 || fds[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) == 0 {
		return nil
	}

	rn, err := unix.Read(d.inFd, d.buf)
	if err != nil {
		if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
			return nil
		}
		return fmt.Errorf("read: %w", err)
	}
	if rn == 0 {
		d.queue = append(d.queue, d.decoder.Flush()...)
		return io.EOF
	}

	d.queue = append(d.queue, d.decoder.Feed(d.buf[:rn])...)
	d.lastData = time.Now()
	return nil
}

// Drain removes up to limit decoded records.
func (d *Driver) Drain(limit int) ([]console.Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := min(limit, len(d.queue))
	out := make([]console.Record, n)
	copy(out, d.queue)
	d.queue = d.queue[n:]
	return out, nil
}

// WriteRune echoes r to the output terminal.
func (d *Driver) WriteRune(r rune) error {
	d.wmu.Lock()
	defer d.wmu.Unlock()

	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	_, err := d.out.Write(buf[:n])
	return err
}

// Size returns the terminal size, or 80x24 if it cannot be determined.
func (d *Driver) Size() (width, height int) {
	ws, err := unix.IoctlGetWinsize(int(d.out.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 80, 24
	}
	return int(ws.Col), int(ws.Row)
}

// Close restores the terminal state saved by ConfigureRawMode.
func (d *Driver) Close() error {
	if d.resizeStop != nil {
		close(d.resizeStop)
		<-d.resizeDone
		d.resizeStop = nil
	}
	if d.saved != nil {
		state := d.saved
		d.saved = nil
		if err := term.Restore(d.inFd, state); err != nil {
			return fmt.Errorf("restore terminal: %w", err)
		}
	}
	return nil
}

// watchResize queues a resize record on every SIGWINCH.
func (d *Driver) watchResize() {
	d.resizeStop = make(chan struct{})
	d.resizeDone = make(chan struct{})

	go func() {
		defer close(d.resizeDone)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGWINCH)
		defer signal.Stop(sigCh)

		for {
			select {
			case <-d.resizeStop:
				return
			case <-sigCh:
				w, h := d.Size()
				d.mu.Lock()
				d.queue = append(d.queue, console.Record{
					Kind:   console.RecordResize,
					Resize: console.ResizeRecord{Width: w, Height: h},
				})
				d.mu.Unlock()
			}
		}
	}()
}
