package console

import (
	"errors"
	"fmt"
)

var (
	// ErrCanceled is returned when the caller's context ends before a read
	// completes. It is joined with the context's error.
	ErrCanceled = errors.New("read canceled")

	// ErrBusy is returned when a read is started while another is in
	// flight on the same Reader.
	ErrBusy = errors.New("read already in progress")

	// ErrPollerStopped is returned by the consumer when the event channel
	// closes before its policy was satisfied and the context is still live.
	ErrPollerStopped = errors.New("poller stopped")
)

// TaskError reports the failure of one half of a read.
type TaskError struct {
	// Task is "poller" or "consumer".
	Task string
	Err  error
}

// Error implements the error interface.
func (e *TaskError) Error() string {
	return fmt.Sprintf("%s: %v", e.Task, e.Err)
}

// Unwrap returns the underlying error.
func (e *TaskError) Unwrap() error {
	return e.Err
}

// PanicError is a recovered panic from the poller or a consumer hook.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value if it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func canceled(cause error) error {
	return fmt.Errorf("%w: %w", ErrCanceled, cause)
}
