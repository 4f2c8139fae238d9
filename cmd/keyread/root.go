package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// globalOptions holds the flags shared by every subcommand.
type globalOptions struct {
	configPath string
	driver     string
	logLevel   string
	logFile    string
	timeout    time.Duration
}

// settingFlags maps flag names to the configuration paths they override.
var settingFlags = map[string]string{
	"driver":     "input.driver",
	"log-level":  "logging.level",
	"log-file":   "logging.file",
	"echo":       "echo.enabled",
	"reject":     "filter.reject",
	"no-control": "filter.control",
	"max":        "filter.max_length",
	"script":     "filter.script",
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "keyread",
		Short:         "Read keys and lines from the terminal",
		Long:          "keyread reads single keys or whole lines from the terminal, a byte stream or a full-screen terminal, and can be interrupted at any time.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(fmt.Sprintf("keyread %s\nCommit: %s\nBuilt: %s\n", version, commit, date))

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Path to a TOML or YAML configuration file")
	pf.StringVar(&opts.driver, "driver", "", "Input driver (auto, tty, stream, screen)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&opts.logFile, "log-file", "", "Write the log to this file instead of stderr")
	pf.DurationVar(&opts.timeout, "timeout", 0, "Cancel the read after this long (0 waits forever)")

	root.AddCommand(
		newCharCmd(opts),
		newLineCmd(opts),
		newWatchCmd(opts),
	)
	return root
}

// flagOverrides collects the configuration overrides of every flag set on
// the command line.
func flagOverrides(flags *pflag.FlagSet) (map[string]any, error) {
	out := make(map[string]any)
	var err error
	flags.Visit(func(f *pflag.Flag) {
		path, ok := settingFlags[f.Name]
		if !ok || err != nil {
			return
		}
		var v any
		switch f.Value.Type() {
		case "bool":
			v, err = strconv.ParseBool(f.Value.String())
		case "int":
			v, err = strconv.Atoi(f.Value.String())
		case "stringArray":
			v, err = flags.GetStringArray(f.Name)
		default:
			v = f.Value.String()
		}
		if err != nil {
			err = fmt.Errorf("flag --%s: %w", f.Name, err)
			return
		}
		out[path] = v
	})
	return out, err
}
