package console

import (
	"context"
	"time"

	"github.com/dshills/keyread/internal/input/key"
	"github.com/dshills/keyread/internal/logging"
)

const (
	// DefaultBatchSize is the maximum number of records drained per poll.
	DefaultBatchSize = 128

	// DefaultPollMin is the first idle wait after an empty poll.
	DefaultPollMin = time.Millisecond

	// DefaultPollMax caps the idle wait.
	DefaultPollMax = 16 * time.Millisecond
)

// Poller drains a Driver and publishes key-down events.
type Poller struct {
	driver  Driver
	logger  *logging.Logger
	metrics *Metrics
	batch   int
	pollMin time.Duration
	pollMax time.Duration
}

// NewPoller creates a poller with default batch size and idle backoff.
func NewPoller(d Driver, logger *logging.Logger) *Poller {
	if logger == nil {
		logger = logging.Null()
	}
	return &Poller{
		driver:  d,
		logger:  logger,
		batch:   DefaultBatchSize,
		pollMin: DefaultPollMin,
		pollMax: DefaultPollMax,
	}
}

// Run polls until ctx is done, then returns nil.
//
// Every key-down record becomes one event on out, in driver order. Sends
// block while out is full but never past cancellation.
//
// When demand is non-nil the poller is paced: it takes one token from
// demand, then drains one record at a time until it has published one
// event, and only then waits for the next token. Records the consumer never
// asked for stay in the driver.
func (p *Poller) Run(ctx context.Context, out chan<- key.Event, demand <-chan struct{}) error {
	if err := p.driver.ConfigureRawMode(); err != nil {
		p.logger.Warn("configure raw mode: %v", err)
	}

	idle := newBackoff(p.pollMin, p.pollMax)
	limit := p.batch
	if demand != nil {
		limit = 1
	}

	for {
		if demand != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-demand:
			}
		}
		if !p.pump(ctx, out, limit, idle) {
			return nil
		}
	}
}

// pump polls until one iteration publishes at least one event. It returns
// false once ctx is done.
func (p *Poller) pump(ctx context.Context, out chan<- key.Event, limit int, idle *backoff) bool {
	for {
		if ctx.Err() != nil {
			return false
		}

		records := p.poll(limit)
		if len(records) == 0 {
			if !idle.wait(ctx) {
				return false
			}
			continue
		}
		idle.reset()

		published := false
		for _, rec := range records {
			ev, ok := rec.KeyEvent()
			if !ok {
				continue
			}
			select {
			case out <- ev:
				p.metrics.recordEvent()
				published = true
			case <-ctx.Done():
				return false
			}
		}
		if published {
			return true
		}
	}
}

// poll performs one peek and drain. Driver errors count as an empty poll.
func (p *Poller) poll(limit int) []Record {
	n, err := p.driver.PeekPending()
	if err != nil {
		p.logger.Debug("peek: %v", err)
		p.metrics.recordPoll(0, err)
		return nil
	}
	if n <= 0 {
		p.metrics.recordPoll(0, nil)
		return nil
	}
	if n > limit {
		n = limit
	}

	records, err := p.driver.Drain(n)
	if err != nil {
		p.logger.Debug("drain: %v", err)
		p.metrics.recordPoll(0, err)
		return nil
	}
	p.metrics.recordPoll(len(records), nil)
	return records
}

// backoff doubles the idle wait from lo up to hi.
type backoff struct {
	lo, hi, cur time.Duration
	timer       *time.Timer
}

func newBackoff(lo, hi time.Duration) *backoff {
	if lo <= 0 {
		lo = DefaultPollMin
	}
	if hi < lo {
		hi = lo
	}
	return &backoff{lo: lo, hi: hi, cur: lo}
}

func (b *backoff) reset() {
	b.cur = b.lo
}

// wait sleeps for the current interval and grows it. It returns false if
// ctx ends first.
func (b *backoff) wait(ctx context.Context) bool {
	if b.timer == nil {
		b.timer = time.NewTimer(b.cur)
	} else {
		b.timer.Reset(b.cur)
	}

	select {
	case <-ctx.Done():
		b.timer.Stop()
		return false
	case <-b.timer.C:
	}

	if b.cur < b.hi {
		b.cur *= 2
		if b.cur > b.hi {
			b.cur = b.hi
		}
	}
	return true
}
