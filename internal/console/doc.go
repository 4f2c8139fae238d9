// Package console reads keystrokes from a terminal without blocking the
// caller's goroutine and without outliving the caller's context.
//
// A Reader owns nothing but a Driver. Each call to ReadChar or ReadLine
// starts its own Poller goroutine, which drains raw input records from the
// driver and publishes key-down events on a bounded channel, and runs a
// consumer loop over that channel that applies the read's policy:
//
//	caller ─ ReadLine ─┬─ Poller ── chan key.Event ──┐
//	                   └─ consumer (filter, progress, echo) ─ result
//
// Both halves share one context derived from the caller's. The consumer
// cancels it when its policy is satisfied; the caller cancels it to abandon
// the read. The read returns only after both goroutines have stopped.
//
// Drivers are not safe for concurrent reads and a Reader enforces a single
// read in flight; a second concurrent call fails with ErrBusy.
package console
