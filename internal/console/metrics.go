package console

import (
	"math"
	"sync/atomic"
	"time"
)

// Metrics counts reader and poller activity. All methods are safe for
// concurrent use and a nil *Metrics records nothing.
type Metrics struct {
	reads    atomic.Uint64
	canceled atomic.Uint64
	failed   atomic.Uint64

	readTotalNs atomic.Int64
	readMinNs   atomic.Int64
	readMaxNs   atomic.Int64

	polls        atomic.Uint64
	emptyPolls   atomic.Uint64
	driverErrors atomic.Uint64
	records      atomic.Uint64
	events       atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	// Reads counts completed reads of any outcome.
	Reads    uint64
	Canceled uint64
	Failed   uint64

	AvgRead time.Duration
	MinRead time.Duration
	MaxRead time.Duration

	Polls        uint64
	EmptyPolls   uint64
	DriverErrors uint64

	// Records counts drained records, Events the key events published.
	Records uint64
	Events  uint64
}

// NewMetrics creates an empty tracker.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.readMinNs.Store(math.MaxInt64)
	return m
}

type readOutcome uint8

const (
	readOK readOutcome = iota
	readCanceled
	readFailed
)

func (m *Metrics) recordRead(d time.Duration, outcome readOutcome) {
	if m == nil {
		return
	}
	ns := d.Nanoseconds()
	m.reads.Add(1)
	m.readTotalNs.Add(ns)
	switch outcome {
	case readCanceled:
		m.canceled.Add(1)
	case readFailed:
		m.failed.Add(1)
	}

	for {
		old := m.readMinNs.Load()
		if ns >= old || m.readMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.readMaxNs.Load()
		if ns <= old || m.readMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

func (m *Metrics) recordPoll(records int, err error) {
	if m == nil {
		return
	}
	m.polls.Add(1)
	switch {
	case err != nil:
		m.driverErrors.Add(1)
		m.emptyPolls.Add(1)
	case records == 0:
		m.emptyPolls.Add(1)
	default:
		m.records.Add(uint64(records))
	}
}

func (m *Metrics) recordEvent() {
	if m == nil {
		return
	}
	m.events.Add(1)
}

// Snapshot returns the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	s := MetricsSnapshot{
		Reads:        m.reads.Load(),
		Canceled:     m.canceled.Load(),
		Failed:       m.failed.Load(),
		MaxRead:      time.Duration(m.readMaxNs.Load()),
		Polls:        m.polls.Load(),
		EmptyPolls:   m.emptyPolls.Load(),
		DriverErrors: m.driverErrors.Load(),
		Records:      m.records.Load(),
		Events:       m.events.Load(),
	}
	if s.Reads > 0 {
		s.AvgRead = time.Duration(m.readTotalNs.Load() / int64(s.Reads))
		s.MinRead = time.Duration(m.readMinNs.Load())
	}
	return s
}

// Reset zeroes all counters.
func (m *Metrics) Reset() {
	if m == nil {
		return
	}
	for _, c := range []*atomic.Uint64{&m.reads, &m.canceled, &m.failed, &m.polls, &m.emptyPolls, &m.driverErrors, &m.records, &m.events} {
		c.Store(0)
	}
	m.readTotalNs.Store(0)
	m.readMaxNs.Store(0)
	m.readMinNs.Store(math.MaxInt64)
}
