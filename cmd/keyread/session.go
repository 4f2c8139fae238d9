package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/keyread/internal/config"
	"github.com/dshills/keyread/internal/console"
	"github.com/dshills/keyread/internal/driver/screen"
	"github.com/dshills/keyread/internal/driver/stream"
	"github.com/dshills/keyread/internal/driver/tty"
	"github.com/dshills/keyread/internal/logging"
	"github.com/dshills/keyread/internal/script"
)

// eofGrace is how long a read may keep consuming already decoded input
// after the stream ends.
const eofGrace = 100 * time.Millisecond

// session is one opened input source with its reader.
type session struct {
	cfg    config.Config
	log    *logging.Logger
	reader *console.Reader
	driver string
	stream *stream.Driver
	out    io.Writer

	closers []func() error
	closed  bool
}

func openSession(cmd *cobra.Command, opts *globalOptions) (*session, error) {
	overrides, err := flagOverrides(cmd.Flags())
	if err != nil {
		return nil, err
	}

	loadOpts := []config.Option{config.WithOverrides(overrides)}
	if opts.configPath != "" {
		loadOpts = append(loadOpts, config.WithFile(opts.configPath))
	}
	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	s := &session{cfg: cfg, out: cmd.OutOrStdout()}

	logOut := cmd.ErrOrStderr()
	if cfg.Logging.File != "" {
		f, err := logging.OpenFile(cfg.Logging.File)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, f.Close)
		logOut = f
	}
	s.log = logging.New(logging.Config{Level: cfg.LogLevel(), Output: logOut, Prefix: "keyread"})

	d, err := s.openDriver(cmd.InOrStdin())
	if err != nil {
		s.Close()
		return nil, err
	}

	s.reader = console.New(d,
		console.WithLogger(s.log),
		console.WithBatchSize(cfg.Input.BatchSize),
		console.WithLineCapacity(cfg.Input.LineCapacity),
		console.WithPollInterval(cfg.Input.PollMin, cfg.Input.PollMax),
	)
	s.log.Debug("using %s driver", s.driver)
	return s, nil
}

// openDriver picks the input driver. auto uses the terminal when both
// ends are one and a byte stream otherwise.
func (s *session) openDriver(in io.Reader) (console.Driver, error) {
	kind := s.cfg.Input.Driver
	inFile, inIsFile := in.(*os.File)
	outFile, outIsFile := s.out.(*os.File)

	if kind == config.DriverAuto {
		kind = config.DriverStream
		if inIsFile && outIsFile && term.IsTerminal(int(inFile.Fd())) {
			kind = config.DriverTTY
		}
	}
	s.driver = kind

	switch kind {
	case config.DriverTTY:
		if !inIsFile || !outIsFile {
			return nil, fmt.Errorf("tty driver: %w", tty.ErrNotTerminal)
		}
		d := tty.New(inFile, outFile, tty.WithTranslateNewline(s.cfg.Input.TranslateNewline))
		s.closers = append(s.closers, d.Close)
		return d, nil

	case config.DriverScreen:
		var opts []screen.Option
		if s.cfg.Echo.Color != "" {
			c, err := screen.ParseColor(s.cfg.Echo.Color)
			if err != nil {
				return nil, err
			}
			opts = append(opts, screen.WithEchoColor(c))
		}
		d, err := screen.Open(opts...)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, d.Close)
		return d, nil

	default:
		d, err := stream.New(in, s.out, stream.WithTranslateNewline(s.cfg.Input.TranslateNewline))
		if err != nil {
			return nil, err
		}
		s.stream = d
		s.closers = append(s.closers, d.Close)
		return d, nil
	}
}

// context derives the read context: the timeout flag applies, and a
// stream that ends cancels the read with stream.ErrClosed as the cause
// once its decoded input has been consumed.
func (s *session) context(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancelCause := context.WithCancelCause(parent)
	cancel := func() { cancelCause(context.Canceled) }

	if timeout > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, timeout)
		inner := cancel
		cancel = func() { stop(); inner() }
	}

	if s.stream != nil {
		go func() {
			select {
			case <-s.stream.Done():
			case <-ctx.Done():
				return
			}
			for s.stream.Buffered() > 0 {
				select {
				case <-time.After(time.Millisecond):
				case <-ctx.Done():
					return
				}
			}
			select {
			case <-time.After(eofGrace):
				cancelCause(stream.ErrClosed)
			case <-ctx.Done():
			}
		}()
	}
	return ctx, cancel
}

// readErr replaces a cancellation caused by the end of the input with
// stream.ErrClosed.
func readErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, console.ErrCanceled) && errors.Is(context.Cause(ctx), stream.ErrClosed) {
		return fmt.Errorf("input ended before the read completed: %w", stream.ErrClosed)
	}
	return err
}

// lineFilter builds the filter described by the configuration, or nil
// when it discards nothing.
func (s *session) lineFilter() (console.Filter, error) {
	fc := s.cfg.Filter
	var filters []console.Filter

	if len(fc.Reject) > 0 {
		set, err := s.cfg.RejectSet()
		if err != nil {
			return nil, err
		}
		filters = append(filters, console.RejectKeys(set))
	}
	if fc.Control {
		filters = append(filters, console.RejectControl())
	}
	if fc.MaxLength > 0 {
		filters = append(filters, console.LimitLength(fc.MaxLength))
	}
	if fc.Script != "" {
		sc, err := script.Load(fc.Script)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() error { sc.Close(); return nil })
		filters = append(filters, sc.Filter())
	}

	if len(filters) == 0 {
		return nil, nil
	}
	return console.AnyOf(filters...), nil
}

// resultWriter returns where results and progress lines go. The terminal
// is in raw mode while a tty read runs, so newlines need a carriage return.
func (s *session) resultWriter() io.Writer {
	if s.driver == config.DriverTTY {
		return crlfWriter{s.out}
	}
	return s.out
}

// Close logs the read counters, then releases the driver and the log
// file, newest first.
func (s *session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.reader != nil {
		m := s.reader.Metrics().Snapshot()
		s.log.WithFields(map[string]any{
			"polls":   m.Polls,
			"records": m.Records,
			"events":  m.Events,
			"errors":  m.DriverErrors,
		}).Debug("input stats")
	}

	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	return errors.Join(errs...)
}

type crlfWriter struct{ w io.Writer }

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := io.WriteString(c.w, strings.ReplaceAll(string(p), "\n", "\r\n")); err != nil {
		return 0, err
	}
	return len(p), nil
}
