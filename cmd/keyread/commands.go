package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/keyread/internal/console"
	"github.com/dshills/keyread/internal/keylog"
)

func newCharCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "char",
		Short: "Read one character and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := s.context(cmd.Context(), opts.timeout)
			defer cancel()

			r, err := s.reader.ReadChar(ctx, s.cfg.Echo.Enabled)
			if err := readErr(ctx, err); err != nil {
				return err
			}
			if err := s.Close(); err != nil {
				s.log.Warn("closing input: %v", err)
			}

			w := s.resultWriter()
			if s.cfg.Echo.Enabled {
				fmt.Fprintln(w)
			}
			_, err = fmt.Fprintf(w, "%c\n", r)
			return err
		},
	}
	cmd.Flags().Bool("echo", false, "Echo the character as it is read")
	return cmd
}

func newLineCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "line",
		Short: "Read a line terminated by Enter and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			filter, err := s.lineFilter()
			if err != nil {
				return err
			}

			ctx, cancel := s.context(cmd.Context(), opts.timeout)
			defer cancel()

			line, err := s.reader.ReadLine(ctx, s.cfg.Echo.Enabled, console.WithFilter(filter))
			if err := readErr(ctx, err); err != nil {
				return err
			}
			if err := s.Close(); err != nil {
				s.log.Warn("closing input: %v", err)
			}

			w := s.resultWriter()
			if s.cfg.Echo.Enabled {
				fmt.Fprintln(w)
			}
			_, err = fmt.Fprintln(w, line)
			return err
		},
	}

	f := cmd.Flags()
	f.Bool("echo", false, "Echo accepted characters as they are read")
	f.StringArray("reject", nil, "Discard this key (repeatable, e.g. Ctrl+C, Escape, <Tab>)")
	f.Bool("no-control", false, "Discard control characters other than Enter")
	f.Int("max", 0, "Discard characters beyond this many (0 means no limit)")
	f.String("script", "", "Lua script defining filter(ev); a true result discards the key")
	return cmd
}

func newWatchCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Describe every key until Enter is pressed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := s.context(cmd.Context(), opts.timeout)
			defer cancel()

			lw := keylog.NewWriter(s.resultWriter(), asJSON)
			_, err = s.reader.ReadLine(ctx, false, console.WithProgress(lw))
			if err := readErr(ctx, err); err != nil {
				return err
			}
			s.log.Debug("watched %d keys", lw.Count())
			return lw.Err()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print each key as a JSON object")
	return cmd
}
