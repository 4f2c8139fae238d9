package tty

import "errors"

var (
	// ErrNotTerminal is returned by Open when stdin is not a terminal.
	ErrNotTerminal = errors.New("stdin is not a terminal")

	// ErrUnsupported is returned on platforms without POSIX terminals.
	ErrUnsupported = errors.New("tty driver not supported on this platform")
)
