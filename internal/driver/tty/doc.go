// Package tty implements a console driver over a POSIX terminal.
//
// ConfigureRawMode puts the input terminal into raw mode, PeekPending polls
// the descriptor with a zero timeout and decodes whatever bytes are ready,
// and Close restores the saved terminal state. Window size changes are
// delivered as resize records.
package tty
