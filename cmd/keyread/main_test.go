package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/tidwall/gjson"
)

func runCLI(t *testing.T, stdin io.Reader, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, stdin, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestLine(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		input string
		want  string
	}{
		{"plain", nil, "hello\r", "hello\n"},
		{"newline ends line", nil, "hello\n", "hello\n"},
		{"echo", []string{"--echo"}, "hi\r", "hi\nhi\n"},
		{"reject", []string{"--reject", "x", "--reject", "Tab"}, "ax\tb\r", "ab\n"},
		{"max", []string{"--max", "2"}, "abcd\r", "ab\n"},
		{"no control", []string{"--no-control"}, "a\x01b\r", "ab\n"},
		{"stops at first line", nil, "one\rtwo\r", "one\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"line", "--driver", "stream"}, tt.args...)
			code, out, errOut := runCLI(t, strings.NewReader(tt.input), args...)
			if code != exitOK {
				t.Fatalf("exit code = %d, want 0 (stderr %q)", code, errOut)
			}
			if out != tt.want {
				t.Errorf("stdout = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestLineScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vowels.lua")
	src := `function filter(ev) return string.find("aeiou", ev.char, 1, true) ~= nil and ev.char ~= "" end`
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	code, out, errOut := runCLI(t, strings.NewReader("keyboard\r"), "line", "--driver", "stream", "--script", path)
	if code != exitOK {
		t.Fatalf("exit code = %d, want 0 (stderr %q)", code, errOut)
	}
	if out != "kybrd\n" {
		t.Errorf("stdout = %q, want %q", out, "kybrd\n")
	}
}

func TestLineScriptError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.lua")
	if err := os.WriteFile(path, []byte(`function filter(ev) error("broken") end`), 0o600); err != nil {
		t.Fatal(err)
	}

	code, _, errOut := runCLI(t, strings.NewReader("a\r"), "line", "--driver", "stream", "--script", path)
	if code != exitError {
		t.Fatalf("exit code = %d, want %d", code, exitError)
	}
	if !strings.Contains(errOut, "broken") {
		t.Errorf("stderr = %q, want the script error", errOut)
	}
}

func TestChar(t *testing.T) {
	code, out, errOut := runCLI(t, strings.NewReader("qrs"), "char", "--driver", "stream")
	if code != exitOK {
		t.Fatalf("exit code = %d, want 0 (stderr %q)", code, errOut)
	}
	if out != "q\n" {
		t.Errorf("stdout = %q, want %q", out, "q\n")
	}
}

func TestWatchJSON(t *testing.T) {
	code, out, errOut := runCLI(t, strings.NewReader("a\x1b[A\r"), "watch", "--driver", "stream", "--json")
	if code != exitOK {
		t.Fatalf("exit code = %d, want 0 (stderr %q)", code, errOut)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), out)
	}
	wantKeys := []string{"Rune", "Up", "Enter"}
	for i, want := range wantKeys {
		if got := gjson.Get(lines[i], "key").String(); got != want {
			t.Errorf("line %d key = %q, want %q", i, got, want)
		}
	}
	if got := gjson.Get(lines[0], "char").String(); got != "a" {
		t.Errorf("first char = %q, want a", got)
	}
}

func TestWatchText(t *testing.T) {
	code, out, _ := runCLI(t, strings.NewReader("a\r"), "watch", "--driver", "stream")
	if code != exitOK {
		t.Fatalf("exit code = %d, want 0", code)
	}
	want := "'a' U+0061 LATIN SMALL LETTER A\nEnter U+000D\n"
	if out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestInputEnds(t *testing.T) {
	code, out, errOut := runCLI(t, strings.NewReader("abc"), "line", "--driver", "stream")
	if code != exitError {
		t.Fatalf("exit code = %d, want %d", code, exitError)
	}
	if out != "" {
		t.Errorf("stdout = %q, want no partial line", out)
	}
	if !strings.Contains(errOut, "input ended") {
		t.Errorf("stderr = %q, want the end of input reported", errOut)
	}
}

func TestTimeout(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	code, out, _ := runCLI(t, pr, "line", "--driver", "stream", "--timeout", "50ms")
	if code != exitCanceled {
		t.Errorf("exit code = %d, want %d", code, exitCanceled)
	}
	if out != "" {
		t.Errorf("stdout = %q, want nothing", out)
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyread.toml")
	cfg := "[input]\ndriver = \"stream\"\n\n[filter]\nreject = [\"b\"]\n"
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}

	code, out, errOut := runCLI(t, strings.NewReader("abc\r"), "line", "--config", path)
	if code != exitOK {
		t.Fatalf("exit code = %d, want 0 (stderr %q)", code, errOut)
	}
	if out != "ac\n" {
		t.Errorf("stdout = %q, want %q", out, "ac\n")
	}
}

func TestInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"driver", []string{"line", "--driver", "serial"}, "input.driver"},
		{"log level", []string{"char", "--driver", "stream", "--log-level", "loud"}, "logging.level"},
		{"reject", []string{"line", "--driver", "stream", "--reject", "Hyper+Q"}, "filter.reject"},
		{"missing script", []string{"line", "--driver", "stream", "--script", "/nonexistent/f.lua"}, "script"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, strings.NewReader("a\r"), tt.args...)
			if code != exitError {
				t.Fatalf("exit code = %d, want %d", code, exitError)
			}
			if !strings.HasPrefix(errOut, "Error: ") || !strings.Contains(errOut, tt.want) {
				t.Errorf("stderr = %q, want an error mentioning %q", errOut, tt.want)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, strings.NewReader(""), "--version")
	if code != exitOK {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.HasPrefix(out, "keyread "+version) {
		t.Errorf("stdout = %q, want the version", out)
	}
}

func TestFlagOverrides(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("driver", "", "")
	fs.Bool("echo", false, "")
	fs.Int("max", 0, "")
	fs.StringArray("reject", nil, "")
	fs.String("log-file", "", "")
	fs.Bool("json", false, "")

	if err := fs.Parse([]string{"--driver", "tty", "--echo", "--max", "5", "--reject", "a", "--reject", "Ctrl+,", "--json"}); err != nil {
		t.Fatal(err)
	}

	got, err := flagOverrides(fs)
	if err != nil {
		t.Fatalf("flagOverrides() error = %v", err)
	}

	if got["input.driver"] != "tty" {
		t.Errorf("input.driver = %v, want tty", got["input.driver"])
	}
	if got["echo.enabled"] != true {
		t.Errorf("echo.enabled = %v, want true", got["echo.enabled"])
	}
	if got["filter.max_length"] != 5 {
		t.Errorf("filter.max_length = %v, want 5", got["filter.max_length"])
	}
	reject, _ := got["filter.reject"].([]string)
	if len(reject) != 2 || reject[1] != "Ctrl+," {
		t.Errorf("filter.reject = %v, want [a Ctrl+,]", got["filter.reject"])
	}
	if _, ok := got["logging.file"]; ok {
		t.Error("unset flag produced an override")
	}
	if len(got) != 4 {
		t.Errorf("got %d overrides, want 4: %v", len(got), got)
	}
}
