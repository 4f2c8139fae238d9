package config

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

func noEnv() Option {
	return WithEnv(NewEnvLoaderFrom(DefaultEnvPrefix, nil))
}

func TestDefault(t *testing.T) {
	c := Default()

	if c.Input.Driver != DriverAuto {
		t.Errorf("Input.Driver = %q, want %q", c.Input.Driver, DriverAuto)
	}
	if c.Input.BatchSize != 128 {
		t.Errorf("Input.BatchSize = %d, want 128", c.Input.BatchSize)
	}
	if c.Input.PollMin != time.Millisecond || c.Input.PollMax != 16*time.Millisecond {
		t.Errorf("poll = %v..%v, want 1ms..16ms", c.Input.PollMin, c.Input.PollMax)
	}
	if !c.Input.TranslateNewline {
		t.Error("Input.TranslateNewline should default to true")
	}
	if c.Echo.Enabled {
		t.Error("Echo.Enabled should default to false")
	}
	if len(c.Filter.Reject) != 0 {
		t.Errorf("Filter.Reject = %v, want empty", c.Filter.Reject)
	}
	if c.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", c.Logging.Level)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	fsys := fstest.MapFS{
		"keyread.toml": {Data: []byte(`
[input]
driver = "stream"
batch_size = 16
poll_max = "32ms"

[echo]
enabled = true
color = "#ff8800"

[filter]
reject = ["Ctrl+C", "Escape"]
max_length = 10
`)},
	}

	c, err := Load(WithFS(fsys), WithFile("keyread.toml"), noEnv())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.Input.Driver != DriverStream {
		t.Errorf("Input.Driver = %q, want stream", c.Input.Driver)
	}
	if c.Input.BatchSize != 16 {
		t.Errorf("Input.BatchSize = %d, want 16", c.Input.BatchSize)
	}
	if c.Input.PollMax != 32*time.Millisecond {
		t.Errorf("Input.PollMax = %v, want 32ms", c.Input.PollMax)
	}
	if c.Input.LineCapacity != 128 {
		t.Errorf("Input.LineCapacity = %d, want default 128", c.Input.LineCapacity)
	}
	if !c.Echo.Enabled || c.Echo.Color != "#ff8800" {
		t.Errorf("Echo = %+v", c.Echo)
	}
	if strings.Join(c.Filter.Reject, ",") != "Ctrl+C,Escape" {
		t.Errorf("Filter.Reject = %v", c.Filter.Reject)
	}
	if c.Filter.MaxLength != 10 {
		t.Errorf("Filter.MaxLength = %d, want 10", c.Filter.MaxLength)
	}

	set, err := c.RejectSet()
	if err != nil {
		t.Fatalf("RejectSet() error = %v", err)
	}
	if set.Len() != 2 {
		t.Errorf("RejectSet().Len() = %d, want 2", set.Len())
	}
}

func TestLoadYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"keyread.yml": {Data: []byte(`
input:
  driver: screen
  poll_min: 2ms
  poll_max: 4
filter:
  control: true
  reject: Tab
logging:
  level: debug
`)},
	}

	c, err := Load(WithFS(fsys), WithFile("keyread.yml"), noEnv())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Input.Driver != DriverScreen {
		t.Errorf("Input.Driver = %q, want screen", c.Input.Driver)
	}
	if c.Input.PollMin != 2*time.Millisecond {
		t.Errorf("Input.PollMin = %v, want 2ms", c.Input.PollMin)
	}
	if c.Input.PollMax != 4*time.Millisecond {
		t.Errorf("Input.PollMax = %v, want 4ms (integer milliseconds)", c.Input.PollMax)
	}
	if !c.Filter.Control {
		t.Error("Filter.Control = false, want true")
	}
	if len(c.Filter.Reject) != 1 || c.Filter.Reject[0] != "Tab" {
		t.Errorf("Filter.Reject = %v, want [Tab]", c.Filter.Reject)
	}
	if c.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", c.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(WithFS(fstest.MapFS{}), WithFile("absent.toml"), noEnv())
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for a missing file", err)
	}
	if c.Input.Driver != DriverAuto {
		t.Errorf("Input.Driver = %q, want default", c.Input.Driver)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load(WithFS(fstest.MapFS{}), WithFile("keyread.ini"), noEnv())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadParseError(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.toml": {Data: []byte("[input\ndriver = 1\n")},
	}
	_, err := Load(WithFS(fsys), WithFile("bad.toml"), noEnv())

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load() error = %v, want *ParseError", err)
	}
	if perr.Path != "bad.toml" {
		t.Errorf("ParseError.Path = %q, want bad.toml", perr.Path)
	}
	if perr.Line == 0 {
		t.Error("ParseError.Line = 0, want the failing line")
	}
}

func TestLoadLayering(t *testing.T) {
	fsys := fstest.MapFS{
		"keyread.toml": {Data: []byte("[input]\ndriver = \"stream\"\nbatch_size = 8\n\n[logging]\nlevel = \"info\"\n")},
	}
	env := NewEnvLoaderFrom(DefaultEnvPrefix, []string{
		"KEYREAD_INPUT_BATCH_SIZE=4",
		"KEYREAD_LOG_LEVEL=error",
		"PATH=/usr/bin",
	})

	c, err := Load(
		WithFS(fsys),
		WithFile("keyread.toml"),
		WithEnv(env),
		WithOverrides(map[string]any{"logging.level": "debug"}),
	)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.Input.Driver != DriverStream {
		t.Errorf("Input.Driver = %q, want stream from file", c.Input.Driver)
	}
	if c.Input.BatchSize != 4 {
		t.Errorf("Input.BatchSize = %d, want 4 from environment", c.Input.BatchSize)
	}
	if c.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug from override", c.Logging.Level)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		m    map[string]any
		want string
	}{
		{"unknown section", map[string]any{"editor": map[string]any{}}, "unknown section"},
		{"unknown setting", map[string]any{"input": map[string]any{"speed": 1}}, "input.speed"},
		{"section not a table", map[string]any{"input": "fast"}, "want table"},
		{"wrong int", map[string]any{"input": map[string]any{"batch_size": "many"}}, "input.batch_size"},
		{"wrong bool", map[string]any{"echo": map[string]any{"enabled": 3.5}}, "echo.enabled"},
		{"wrong duration", map[string]any{"input": map[string]any{"poll_min": true}}, "input.poll_min"},
		{"wrong list", map[string]any{"filter": map[string]any{"reject": []any{"a", 1}}}, "filter.reject"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.m)
			if err == nil {
				t.Fatal("Decode() error = nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Decode() error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestDecodeTypeError(t *testing.T) {
	_, err := Decode(map[string]any{"input": map[string]any{"driver": 7}})
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Decode() error = %v, want ErrTypeMismatch", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
		code   ValidationErrorCode
	}{
		{"driver", func(c *Config) { c.Input.Driver = "serial" }, "input.driver", ErrCodeInvalidEnum},
		{"batch", func(c *Config) { c.Input.BatchSize = 0 }, "input.batch_size", ErrCodeOutOfRange},
		{"capacity", func(c *Config) { c.Input.LineCapacity = -1 }, "input.line_capacity", ErrCodeOutOfRange},
		{"poll min", func(c *Config) { c.Input.PollMin = 0 }, "input.poll_min", ErrCodeOutOfRange},
		{"poll order", func(c *Config) { c.Input.PollMax = c.Input.PollMin / 2 }, "input.poll_max", ErrCodeOutOfRange},
		{"color", func(c *Config) { c.Echo.Color = "orange" }, "echo.color", ErrCodePatternMismatch},
		{"reject", func(c *Config) { c.Filter.Reject = []string{"Ctrl+Bogus+Key"} }, "filter.reject[0]", ErrCodePatternMismatch},
		{"max length", func(c *Config) { c.Filter.MaxLength = -2 }, "filter.max_length", ErrCodeOutOfRange},
		{"level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level", ErrCodeInvalidEnum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)

			err := c.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if verr.Path != tt.path {
				t.Errorf("ValidationError.Path = %q, want %q", verr.Path, tt.path)
			}
			if verr.Code != tt.code {
				t.Errorf("ValidationError.Code = %v, want %v", verr.Code, tt.code)
			}
		})
	}
}

func TestValidateReportsAll(t *testing.T) {
	c := Default()
	c.Input.Driver = "serial"
	c.Logging.Level = "loud"

	err := c.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil")
	}
	for _, want := range []string{"input.driver", "logging.level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error = %q, missing %q", err, want)
		}
	}
}
