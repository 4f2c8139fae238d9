// Package script runs user-supplied Lua line filters.
//
// A script defines a global function filter(ev). It is called for every key
// event a line read sees; a truthy result discards the event. ev is a table:
//
//	ev.rune     code point, 0 for keys without one
//	ev.char     the character as a string, "" when rune is 0
//	ev.key      key name, e.g. "Rune", "Enter", "F5"
//	ev.ctrl, ev.alt, ev.shift, ev.meta
//	ev.matches  function(spec) reporting whether ev matches a key spec
//
// Scripts run in a sandbox with only the base, table, string and math
// libraries. dofile, loadfile, load, loadstring and require are removed.
package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keyread/internal/console"
	"github.com/dshills/keyread/internal/input/key"
)

// DefaultBudget bounds the run time of one filter call.
const DefaultBudget = 50 * time.Millisecond

// Errors returned by scripts.
var (
	// ErrNoFilter is returned when a script does not define filter(ev).
	ErrNoFilter = errors.New("script does not define a filter function")

	// ErrClosed is returned when calling a closed script.
	ErrClosed = errors.New("script is closed")

	// ErrBudgetExceeded is returned when a call runs past its budget.
	ErrBudgetExceeded = errors.New("script budget exceeded")
)

// Error wraps a Lua failure with the script name.
type Error struct {
	Script string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("script %s: %v", e.Script, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Option configures a Script.
type Option func(*Script)

// WithBudget sets the time budget of each call. Non-positive values
// disable the limit.
func WithBudget(d time.Duration) Option {
	return func(s *Script) { s.budget = d }
}

// Script is a compiled filter script. It is safe for concurrent use; calls
// are serialized.
type Script struct {
	mu     sync.Mutex
	L      *lua.LState
	name   string
	budget time.Duration
	fn     *lua.LFunction
	closed bool
}

// Load compiles the script at path.
func Load(path string, opts ...Option) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return compile(path, string(src), opts)
}

// LoadString compiles src.
func LoadString(src string, opts ...Option) (*Script, error) {
	return compile("<string>", src, opts)
}

func compile(name, src string, opts []Option) (*Script, error) {
	s := &Script{name: name, budget: DefaultBudget}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{
		SkipOpenLibs:        true,
		CallStackSize:       128,
		IncludeGoStackTrace: false,
	})
	openSafeLibraries(s.L)

	err := s.protect(func() error { return s.L.DoString(src) })
	if err != nil {
		s.L.Close()
		return nil, &Error{Script: name, Err: err}
	}

	fn, ok := s.L.GetGlobal("filter").(*lua.LFunction)
	if !ok {
		s.L.Close()
		return nil, &Error{Script: name, Err: ErrNoFilter}
	}
	s.fn = fn
	return s, nil
}

// openSafeLibraries opens base, table, string and math, then removes the
// loaders that reach the file system or compile code.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// Name returns the script path, or "<string>".
func (s *Script) Name() string {
	return s.name
}

// Match runs filter(ev) and reports whether ev should be discarded.
func (s *Script) Match(ev key.Event) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrClosed
	}

	var ret lua.LValue = lua.LNil
	err := s.protect(func() error {
		if err := s.L.CallByParam(lua.P{Fn: s.fn, NRet: 1, Protect: true}, eventTable(s.L, ev)); err != nil {
			return err
		}
		ret = s.L.Get(-1)
		s.L.Pop(1)
		return nil
	})
	if err != nil {
		return false, &Error{Script: s.name, Err: err}
	}
	return lua.LVAsBool(ret), nil
}

// protect runs fn under the call budget and converts Lua panics to errors.
func (s *Script) protect(fn func() error) (err error) {
	if s.budget > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.budget)
		defer cancel()
		s.L.SetContext(ctx)
		defer func() {
			s.L.RemoveContext()
			if err != nil && ctx.Err() != nil {
				err = fmt.Errorf("%w: %w", ErrBudgetExceeded, ctx.Err())
			}
		}()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Filter adapts the script to a console line filter. A failing script
// panics inside the read, which reports it as a *console.PanicError.
func (s *Script) Filter() console.Filter {
	return func(ev key.Event) bool {
		drop, err := s.Match(ev)
		if err != nil {
			panic(err)
		}
		return drop
	}
}

// Close releases the Lua state. It is safe to call more than once.
func (s *Script) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.L.Close()
}

func eventTable(L *lua.LState, ev key.Event) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("rune", lua.LNumber(ev.Rune))
	char := ""
	if ev.Rune != 0 {
		char = string(ev.Rune)
	}
	t.RawSetString("char", lua.LString(char))
	t.RawSetString("key", lua.LString(ev.Key.String()))
	t.RawSetString("ctrl", lua.LBool(ev.Modifiers.HasCtrl()))
	t.RawSetString("alt", lua.LBool(ev.Modifiers.HasAlt()))
	t.RawSetString("shift", lua.LBool(ev.Modifiers.HasShift()))
	t.RawSetString("meta", lua.LBool(ev.Modifiers.HasMeta()))
	t.RawSetString("matches", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(ev.Matches(L.CheckString(1))))
		return 1
	}))
	return t
}
