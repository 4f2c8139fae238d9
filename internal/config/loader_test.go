package config

import (
	"strings"
	"testing"
	"time"
)

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"keyread.toml", FormatTOML, true},
		{"dir/keyread.TOML", FormatTOML, true},
		{"keyread.yaml", FormatYAML, true},
		{"keyread.yml", FormatYAML, true},
		{"keyread.json", 0, false},
		{"keyread", 0, false},
	}

	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if (err == nil) != tt.ok {
			t.Errorf("FormatOf(%q) error = %v, want ok=%v", tt.path, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("FormatOf(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLoadReader(t *testing.T) {
	m, err := LoadReader(FormatYAML, strings.NewReader("echo:\n  enabled: true\n"))
	if err != nil {
		t.Fatalf("LoadReader() error = %v", err)
	}
	v, ok := Lookup(m, "echo.enabled")
	if !ok || v != true {
		t.Errorf("echo.enabled = %v, %v; want true", v, ok)
	}

	m, err = LoadReader(FormatTOML, strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadReader(empty) error = %v", err)
	}
	if m == nil || len(m) != 0 {
		t.Errorf("LoadReader(empty) = %v, want empty map", m)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"input": map[string]any{"driver": "auto", "batch_size": 128},
		"echo":  map[string]any{"enabled": false},
	}
	src := map[string]any{
		"input":   map[string]any{"driver": "tty"},
		"logging": map[string]any{"level": "debug"},
		"echo":    "flat",
	}

	got := DeepMerge(dst, src)

	if v, _ := Lookup(got, "input.driver"); v != "tty" {
		t.Errorf("input.driver = %v, want tty", v)
	}
	if v, _ := Lookup(got, "input.batch_size"); v != 128 {
		t.Errorf("input.batch_size = %v, want 128", v)
	}
	if v, _ := Lookup(got, "logging.level"); v != "debug" {
		t.Errorf("logging.level = %v, want debug", v)
	}
	if got["echo"] != "flat" {
		t.Errorf("echo = %v, want src value to replace the table", got["echo"])
	}

	// Merged tables must not alias src.
	got["logging"].(map[string]any)["level"] = "error"
	if src["logging"].(map[string]any)["level"] != "debug" {
		t.Error("DeepMerge aliased a src table")
	}
}

func TestClone(t *testing.T) {
	src := map[string]any{
		"filter": map[string]any{"reject": []any{"Tab"}},
	}
	c := Clone(src)
	c["filter"].(map[string]any)["reject"].([]any)[0] = "Escape"

	if v, _ := Lookup(src, "filter.reject"); v.([]any)[0] != "Tab" {
		t.Errorf("Clone shared a slice with its source: %v", v)
	}
	if Clone(nil) != nil {
		t.Error("Clone(nil) should be nil")
	}
}

func TestSetPath(t *testing.T) {
	m := map[string]any{}
	if err := SetPath(m, "input.driver", "tty"); err != nil {
		t.Fatalf("SetPath() error = %v", err)
	}
	if v, ok := Lookup(m, "input.driver"); !ok || v != "tty" {
		t.Errorf("Lookup(input.driver) = %v, %v", v, ok)
	}
	if err := SetPath(m, "input.driver.name", "x"); err != ErrInvalidPath {
		t.Errorf("SetPath through a value = %v, want ErrInvalidPath", err)
	}
	if err := SetPath(m, "", "x"); err != ErrInvalidPath {
		t.Errorf("SetPath(\"\") = %v, want ErrInvalidPath", err)
	}
	if _, ok := Lookup(m, "input.missing"); ok {
		t.Error("Lookup(input.missing) found a value")
	}
}

func TestEnvLoader(t *testing.T) {
	l := NewEnvLoaderFrom("KEYREAD_", []string{
		"KEYREAD_INPUT_DRIVER=stream",
		"KEYREAD_INPUT_POLL_MAX=20ms",
		"KEYREAD_ECHO=yes",
		"KEYREAD_FILTER_REJECT=[\"Tab\",\"Escape\"]",
		"KEYREAD_FILTER_MAX_LENGTH=12",
		"KEYREAD_LOGGING_FILE=",
		"KEYREAD_NOSECTION=1",
		"HOME=/root",
	})
	l.AddMapping("KEYREAD_SCRIPT", "filter.script")

	m, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		path string
		want any
	}{
		{"input.driver", "stream"},
		{"input.poll_max", 20 * time.Millisecond},
		{"echo.enabled", true},
		{"filter.max_length", int64(12)},
		{"logging.file", ""},
	}
	for _, tt := range tests {
		got, ok := Lookup(m, tt.path)
		if !ok || got != tt.want {
			t.Errorf("%s = %#v, want %#v", tt.path, got, tt.want)
		}
	}

	reject, _ := Lookup(m, "filter.reject")
	list, ok := reject.([]any)
	if !ok || len(list) != 2 || list[0] != "Tab" {
		t.Errorf("filter.reject = %#v, want [Tab Escape]", reject)
	}
	if _, ok := m["nosection"]; ok {
		t.Error("variable without a setting name should be ignored")
	}
	if _, ok := m["home"]; ok {
		t.Error("unprefixed variable should be ignored")
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"Off", false},
		{"42", int64(42)},
		{"1.5", 1.5},
		{"5ms", 5 * time.Millisecond},
		{"tty", "tty"},
		{"[oops", "[oops"},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
