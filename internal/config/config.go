package config

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/keyread/internal/input/key"
	"github.com/dshills/keyread/internal/logging"
)

// Driver names accepted by input.driver.
const (
	DriverAuto   = "auto"
	DriverTTY    = "tty"
	DriverStream = "stream"
	DriverScreen = "screen"
)

// Config is the decoded keyread configuration.
type Config struct {
	Input   InputConfig
	Echo    EchoConfig
	Filter  FilterConfig
	Logging LoggingConfig
}

// InputConfig selects and tunes the input source.
type InputConfig struct {
	// Driver is one of auto, tty, stream or screen.
	Driver string

	// BatchSize caps records drained per poll.
	BatchSize int

	// LineCapacity is the event channel capacity used by line reads.
	LineCapacity int

	// PollMin and PollMax bound the idle backoff of the poller.
	PollMin time.Duration
	PollMax time.Duration

	// TranslateNewline makes a bare LF read as Enter on byte streams.
	TranslateNewline bool
}

// EchoConfig controls echoing of accepted characters.
type EchoConfig struct {
	Enabled bool

	// Color is a #rrggbb hex color used by the screen driver. Empty keeps
	// the terminal default.
	Color string
}

// FilterConfig describes the line filter built by the CLI.
type FilterConfig struct {
	// Reject lists key specs (see key.Parse) that are discarded.
	Reject []string

	// Control discards C0 control characters other than Enter.
	Control bool

	// MaxLength discards characters once the line holds that many. Zero
	// means no limit.
	MaxLength int

	// Script is a Lua file defining filter(ev).
	Script string
}

// LoggingConfig configures the diagnostic log.
type LoggingConfig struct {
	Level string
	File  string
}

// DefaultMap returns the built-in defaults as a settings layer.
func DefaultMap() map[string]any {
	return map[string]any{
		"input": map[string]any{
			"driver":            DriverAuto,
			"batch_size":        128,
			"line_capacity":     128,
			"poll_min":          time.Millisecond,
			"poll_max":          16 * time.Millisecond,
			"translate_newline": true,
		},
		"echo": map[string]any{
			"enabled": false,
			"color":   "",
		},
		"filter": map[string]any{
			"reject":     []any{},
			"control":    false,
			"max_length": 0,
			"script":     "",
		},
		"logging": map[string]any{
			"level": "warn",
			"file":  "",
		},
	}
}

// Default returns the built-in configuration.
func Default() Config {
	c, err := Decode(DefaultMap())
	if err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return c
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	fs        FileSystem
	path      string
	env       Loader
	overrides map[string]any
}

// WithFile adds a settings file layer. The format follows the extension.
func WithFile(path string) Option {
	return func(o *loadOptions) { o.path = path }
}

// WithFS reads the settings file through fsys.
func WithFS(fsys FileSystem) Option {
	return func(o *loadOptions) { o.fs = fsys }
}

// WithEnv replaces the environment layer. Pass nil to skip it.
func WithEnv(l Loader) Option {
	return func(o *loadOptions) { o.env = l }
}

// WithOverrides adds a final layer, keyed by dotted path.
func WithOverrides(values map[string]any) Option {
	return func(o *loadOptions) { o.overrides = values }
}

// Load merges all layers, decodes and validates the result.
func Load(opts ...Option) (Config, error) {
	o := loadOptions{
		fs:  DefaultFS(),
		env: NewEnvLoader(DefaultEnvPrefix),
	}
	for _, opt := range opts {
		opt(&o)
	}

	merged := DefaultMap()

	if o.path != "" {
		fl, err := NewFileLoaderWithFS(o.fs, o.path)
		if err != nil {
			return Config{}, err
		}
		layer, err := fl.Load()
		if err != nil {
			return Config{}, err
		}
		merged = DeepMerge(merged, layer)
	}

	if o.env != nil {
		layer, err := o.env.Load()
		if err != nil {
			return Config{}, fmt.Errorf("loading environment: %w", err)
		}
		merged = DeepMerge(merged, layer)
	}

	if len(o.overrides) > 0 {
		layer := make(map[string]any)
		for path, v := range o.overrides {
			if err := SetPath(layer, path, v); err != nil {
				return Config{}, fmt.Errorf("override %q: %w", path, err)
			}
		}
		merged = DeepMerge(merged, layer)
	}

	c, err := Decode(merged)
	if err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

var knownSettings = map[string]map[string]bool{
	"input": {
		"driver": true, "batch_size": true, "line_capacity": true,
		"poll_min": true, "poll_max": true, "translate_newline": true,
	},
	"echo":    {"enabled": true, "color": true},
	"filter":  {"reject": true, "control": true, "max_length": true, "script": true},
	"logging": {"level": true, "file": true},
}

// Decode converts a settings map into a Config. Settings absent from m
// keep their default value. Unknown settings are rejected.
func Decode(m map[string]any) (Config, error) {
	var errs []error
	for _, section := range sortedKeys(m) {
		settings, known := knownSettings[section]
		if !known {
			errs = append(errs, &ValidationError{Path: section, Message: "unknown section", Code: ErrCodeUnknownSetting})
			continue
		}
		sm, ok := m[section].(map[string]any)
		if !ok {
			errs = append(errs, &TypeError{Path: section, Expected: "table", Actual: typeName(m[section])})
			continue
		}
		for _, name := range sortedKeys(sm) {
			if !settings[name] {
				errs = append(errs, &ValidationError{Path: section + "." + name, Message: "unknown setting", Code: ErrCodeUnknownSetting})
			}
		}
	}

	d := decoder{m: m}
	var c Config
	c.Input.Driver = d.getString("input.driver", DriverAuto)
	c.Input.BatchSize = d.getInt("input.batch_size", 128)
	c.Input.LineCapacity = d.getInt("input.line_capacity", 128)
	c.Input.PollMin = d.getDuration("input.poll_min", time.Millisecond)
	c.Input.PollMax = d.getDuration("input.poll_max", 16*time.Millisecond)
	c.Input.TranslateNewline = d.getBool("input.translate_newline", true)
	c.Echo.Enabled = d.getBool("echo.enabled", false)
	c.Echo.Color = d.getString("echo.color", "")
	c.Filter.Reject = d.getStrings("filter.reject")
	c.Filter.Control = d.getBool("filter.control", false)
	c.Filter.MaxLength = d.getInt("filter.max_length", 0)
	c.Filter.Script = d.getString("filter.script", "")
	c.Logging.Level = d.getString("logging.level", "warn")
	c.Logging.File = d.getString("logging.file", "")

	if err := errors.Join(append(errs, d.errs...)...); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks value ranges and names. All problems are reported.
func (c Config) Validate() error {
	var errs []error
	bad := func(path, msg string, v any, code ValidationErrorCode) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v, Code: code})
	}

	switch c.Input.Driver {
	case DriverAuto, DriverTTY, DriverStream, DriverScreen:
	default:
		bad("input.driver", "must be auto, tty, stream or screen", c.Input.Driver, ErrCodeInvalidEnum)
	}
	if c.Input.BatchSize < 1 {
		bad("input.batch_size", "must be at least 1", c.Input.BatchSize, ErrCodeOutOfRange)
	}
	if c.Input.LineCapacity < 1 {
		bad("input.line_capacity", "must be at least 1", c.Input.LineCapacity, ErrCodeOutOfRange)
	}
	if c.Input.PollMin <= 0 {
		bad("input.poll_min", "must be positive", c.Input.PollMin, ErrCodeOutOfRange)
	}
	if c.Input.PollMax < c.Input.PollMin {
		bad("input.poll_max", "must not be below input.poll_min", c.Input.PollMax, ErrCodeOutOfRange)
	}
	if c.Echo.Color != "" {
		if _, err := colorful.Hex(c.Echo.Color); err != nil {
			bad("echo.color", "must be a #rrggbb color", c.Echo.Color, ErrCodePatternMismatch)
		}
	}
	for i, spec := range c.Filter.Reject {
		if _, err := key.Parse(spec); err != nil {
			bad(fmt.Sprintf("filter.reject[%d]", i), err.Error(), spec, ErrCodePatternMismatch)
		}
	}
	if c.Filter.MaxLength < 0 {
		bad("filter.max_length", "must not be negative", c.Filter.MaxLength, ErrCodeOutOfRange)
	}
	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		bad("logging.level", "must be debug, info, warn or error", c.Logging.Level, ErrCodeInvalidEnum)
	}
	return errors.Join(errs...)
}

// RejectSet parses Filter.Reject.
func (c Config) RejectSet() (key.Set, error) {
	return key.NewSet(c.Filter.Reject...)
}

// LogLevel returns the parsed logging level.
func (c Config) LogLevel() logging.Level {
	lvl, _ := logging.ParseLevel(c.Logging.Level)
	return lvl
}

type decoder struct {
	m    map[string]any
	errs []error
}

func (d *decoder) get(path string) (any, bool) {
	v, ok := Lookup(d.m, path)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (d *decoder) fail(path, expected string, v any) {
	d.errs = append(d.errs, &TypeError{Path: path, Expected: expected, Actual: typeName(v)})
}

func (d *decoder) getString(path, def string) string {
	v, ok := d.get(path)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		d.fail(path, "string", v)
		return def
	}
	return s
}

func (d *decoder) getInt(path string, def int) int {
	v, ok := d.get(path)
	if !ok {
		return def
	}
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case uint64:
		if val <= math.MaxInt32 {
			return int(val)
		}
	case float64:
		if val == math.Trunc(val) {
			return int(val)
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return i
		}
	}
	d.fail(path, "int", v)
	return def
}

func (d *decoder) getBool(path string, def bool) bool {
	v, ok := d.get(path)
	if !ok {
		return def
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return b
		}
	}
	d.fail(path, "bool", v)
	return def
}

// getDuration accepts time.Duration, Go duration strings, or integer
// milliseconds.
func (d *decoder) getDuration(path string, def time.Duration) time.Duration {
	v, ok := d.get(path)
	if !ok {
		return def
	}
	switch val := v.(type) {
	case time.Duration:
		return val
	case string:
		if dur, err := time.ParseDuration(strings.TrimSpace(val)); err == nil {
			return dur
		}
	case int:
		return time.Duration(val) * time.Millisecond
	case int64:
		return time.Duration(val) * time.Millisecond
	}
	d.fail(path, "duration", v)
	return def
}

// getStrings accepts a list of strings or a single string.
func (d *decoder) getStrings(path string) []string {
	v, ok := d.get(path)
	if !ok {
		return nil
	}
	switch val := v.(type) {
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case []string:
		return append([]string(nil), val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				d.fail(path, "[]string", v)
				return nil
			}
			out = append(out, s)
		}
		return out
	}
	d.fail(path, "[]string", v)
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case string:
		return "string"
	case int, int64, uint64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case time.Duration:
		return "duration"
	case []string:
		return "[]string"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
