package console

// Driver is the terminal capability the console reads from.
//
// Implementations are used by one read at a time and need not be safe for
// concurrent use, except that WriteRune may be called from the consumer
// while the poller is inside PeekPending or Drain.
type Driver interface {
	// ConfigureRawMode turns off the terminal's line buffering and echo.
	// It is called before every poll loop and must be idempotent.
	// Failure is not fatal to reading.
	ConfigureRawMode() error

	// PeekPending reports how many records are available without
	// consuming them.
	PeekPending() (int, error)

	// Drain removes and returns up to limit pending records. It must not
	// block waiting for input that has not arrived.
	Drain(limit int) ([]Record, error)

	// WriteRune echoes r to the terminal.
	WriteRune(r rune) error
}
