package console

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/keyread/internal/input/key"
	"github.com/dshills/keyread/internal/logging"
)

// Reader performs cancellable character and line reads over a Driver.
type Reader struct {
	driver       Driver
	logger       *logging.Logger
	batchSize    int
	lineCapacity int
	pollMin      time.Duration
	pollMax      time.Duration
	metrics      *Metrics

	busy atomic.Bool
}

// New creates a Reader over d.
func New(d Driver, opts ...Option) *Reader {
	r := &Reader{
		driver:       d,
		logger:       logging.Null(),
		batchSize:    DefaultBatchSize,
		lineCapacity: DefaultLineCapacity,
		pollMin:      DefaultPollMin,
		pollMax:      DefaultPollMax,
		metrics:      NewMetrics(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Metrics returns the reader's activity counters.
func (r *Reader) Metrics() *Metrics {
	return r.metrics
}

// ReadChar returns the first key press that carries a character. Presses
// without one, such as arrow keys, are skipped. When echo is set the
// character is written back through the driver.
//
// Input after the returned character is left in the driver for the next
// read.
func (r *Reader) ReadChar(ctx context.Context, echo bool) (rune, error) {
	var result rune
	err := r.run(ctx, "char", 1, true, func(ctx context.Context, events <-chan key.Event, demand chan<- struct{}) error {
		for {
			select {
			case demand <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}

			var ev key.Event
			select {
			case <-ctx.Done():
				return ctx.Err()
			case e, ok := <-events:
				if !ok {
					return closedErr(ctx)
				}
				ev = e
			}

			if ev.Rune == 0 {
				continue
			}
			if echo {
				if err := r.driver.WriteRune(ev.Rune); err != nil {
					return &TaskError{Task: "consumer", Err: fmt.Errorf("echo: %w", err)}
				}
			}
			result = ev.Rune
			return nil
		}
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}

// ReadLine accumulates characters until carriage return and returns them
// without the terminator.
//
// Each event first goes through the filter, if any; discarded events have
// no further effect. Surviving events are reported to the progress hook,
// then their character, if they have one, is appended and optionally
// echoed. A canceled read returns ErrCanceled and never a partial line.
//
// The poller drains the driver in batches, so input typed after the
// carriage return may be consumed by this call and lost.
func (r *Reader) ReadLine(ctx context.Context, echo bool, opts ...LineOption) (string, error) {
	var lo lineOptions
	for _, opt := range opts {
		opt(&lo)
	}

	var result string
	err := r.run(ctx, "line", r.lineCapacity, false, func(ctx context.Context, events <-chan key.Event, _ chan<- struct{}) error {
		var line strings.Builder
		for {
			var ev key.Event
			select {
			case <-ctx.Done():
				return ctx.Err()
			case e, ok := <-events:
				if !ok {
					return closedErr(ctx)
				}
				ev = e
			}

			if lo.filter != nil && lo.filter(ev) {
				continue
			}
			if lo.progress != nil {
				lo.progress.Report(ev)
			}
			if ev.Rune == 0 {
				continue
			}
			if ev.Rune == '\r' {
				result = line.String()
				return nil
			}

			line.WriteRune(ev.Rune)
			if echo {
				if err := r.driver.WriteRune(ev.Rune); err != nil {
					return &TaskError{Task: "consumer", Err: fmt.Errorf("echo: %w", err)}
				}
			}
		}
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

type consumeFunc func(ctx context.Context, events <-chan key.Event, demand chan<- struct{}) error

// run wires one poller and one consumer together and waits for both.
func (r *Reader) run(ctx context.Context, op string, capacity int, paced bool, consume consumeFunc) error {
	if err := ctx.Err(); err != nil {
		return canceled(err)
	}
	if !r.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer r.busy.Store(false)

	log := r.logger.WithFields(map[string]any{"read": uuid.NewString(), "op": op})
	log.Debug("read started")
	start := time.Now()

	linked, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(linked)

	events := make(chan key.Event, capacity)
	var demand chan struct{}
	if paced {
		demand = make(chan struct{}, 1)
	}

	poller := &Poller{
		driver:  r.driver,
		logger:  log.WithComponent("poller"),
		metrics: r.metrics,
		batch:   r.batchSize,
		pollMin: r.pollMin,
		pollMax: r.pollMax,
	}

	// The poller's own failure wins over the consumer noticing the closed
	// channel first.
	var pollErr error
	g.Go(func() (err error) {
		defer func() { pollErr = err }()
		defer close(events)
		defer recoverTask("poller", &err)
		return poller.Run(gctx, events, demand)
	})
	g.Go(func() (err error) {
		defer stop()
		defer recoverTask("consumer", &err)
		return consume(gctx, events, demand)
	})

	err := g.Wait()
	if pollErr != nil {
		err = pollErr
	}
	elapsed := time.Since(start)

	var taskErr *TaskError
	switch {
	case err == nil:
		log.Debug("read finished in %s", elapsed)
		r.metrics.recordRead(elapsed, readOK)
		return nil
	case errors.As(err, &taskErr):
		log.Debug("read failed after %s: %v", elapsed, err)
		r.metrics.recordRead(elapsed, readFailed)
		return err
	case ctx.Err() != nil:
		log.Debug("read canceled after %s", elapsed)
		r.metrics.recordRead(elapsed, readCanceled)
		return canceled(ctx.Err())
	default:
		log.Debug("read failed after %s: %v", elapsed, err)
		r.metrics.recordRead(elapsed, readFailed)
		return err
	}
}

// recoverTask converts a panic in a read task into a TaskError.
func recoverTask(task string, errp *error) {
	if v := recover(); v != nil {
		*errp = &TaskError{Task: task, Err: &PanicError{Value: v, Stack: debug.Stack()}}
	}
}

// closedErr is the consumer's error when the poller has gone away.
func closedErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return &TaskError{Task: "consumer", Err: ErrPollerStopped}
}
