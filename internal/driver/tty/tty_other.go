//go:build !unix

package tty

import (
	"os"
	"time"

	"github.com/dshills/keyread/internal/console"
)

// Option configures a Driver.
type Option func(*Driver)

// WithEscapeTimeout has no effect on this platform.
func WithEscapeTimeout(time.Duration) Option {
	return func(*Driver) {}
}

// WithTranslateNewline has no effect on this platform.
func WithTranslateNewline(bool) Option {
	return func(*Driver) {}
}

// Driver is unavailable on this platform; every method fails.
type Driver struct{}

// Open always fails with ErrUnsupported.
func Open(...Option) (*Driver, error) {
	return nil, ErrUnsupported
}

// New returns a driver whose methods fail with ErrUnsupported.
func New(_, _ *os.File, _ ...Option) *Driver {
	return &Driver{}
}

func (d *Driver) ConfigureRawMode() error { return ErrUnsupported }
func (d *Driver) PeekPending() (int, error) { return 0, ErrUnsupported }
func (d *Driver) Drain(int) ([]console.Record, error) { return nil, ErrUnsupported }
func (d *Driver) WriteRune(rune) error { return ErrUnsupported }
func (d *Driver) Size() (width, height int) { return 80, 24 }
func (d *Driver) Close() error { return nil }
