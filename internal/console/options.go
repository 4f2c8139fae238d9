package console

import (
	"time"

	"github.com/dshills/keyread/internal/input/key"
	"github.com/dshills/keyread/internal/logging"
)

// DefaultLineCapacity is the event channel capacity of a line read.
const DefaultLineCapacity = 128

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger. Reads log at debug level with a read id.
func WithLogger(l *logging.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithBatchSize sets how many records the poller drains at most per poll.
func WithBatchSize(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithLineCapacity sets the event channel capacity used by ReadLine.
func WithLineCapacity(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.lineCapacity = n
		}
	}
}

// WithPollInterval sets the idle backoff range of the poller.
func WithPollInterval(lo, hi time.Duration) Option {
	return func(r *Reader) {
		if lo > 0 {
			r.pollMin = lo
		}
		if hi > 0 {
			r.pollMax = hi
		}
		if r.pollMax < r.pollMin {
			r.pollMax = r.pollMin
		}
	}
}

// WithMetrics records activity into m, so several readers can share one
// tracker. A nil m disables recording.
func WithMetrics(m *Metrics) Option {
	return func(r *Reader) {
		r.metrics = m
	}
}

// Progress observes every event of a line read that was not filtered out.
type Progress interface {
	Report(ev key.Event)
}

// ProgressFunc adapts a function to Progress.
type ProgressFunc func(ev key.Event)

// Report calls f(ev).
func (f ProgressFunc) Report(ev key.Event) {
	f(ev)
}

// LineOption configures a single ReadLine call.
type LineOption func(*lineOptions)

type lineOptions struct {
	filter   Filter
	progress Progress
}

// WithFilter discards events for which f returns true.
func WithFilter(f Filter) LineOption {
	return func(o *lineOptions) {
		o.filter = f
	}
}

// WithProgress reports every event that passes the filter to p.
func WithProgress(p Progress) LineOption {
	return func(o *lineOptions) {
		o.progress = p
	}
}
