// Package script runs Lua scripts against an undo manager.
//
// Lua tables act as undo targets: a script changes a table and registers the
// method that reverts the change through the `undo` module.
//
//	local light = { on = false }
//	function light:switch_on()
//	  self.on = true
//	  undo.register(self, "switch_off")
//	end
//	function light:switch_off()
//	  self.on = false
//	  undo.register(self, "switch_on")
//	end
//
//	light:switch_on()
//	undo.undo()   -- light.on == false
//	undo.redo()   -- light.on == true
package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/undoredo/internal/engine/history"
)

// DefaultExecutionTimeout bounds a single DoString or DoFile call.
const DefaultExecutionTimeout = 5 * time.Second

// State is a sandboxed Lua state bound to an undo manager.
//
// gopher-lua's LState is not goroutine-safe and neither is the manager; a
// State must be used from one goroutine.
type State struct {
	L      *lua.LState
	source *Source

	manager *history.Manager
	logger  *zap.Logger
	out     io.Writer
	timeout time.Duration

	// Transactions opened with undo.begin, innermost last.
	txs []*history.Transaction

	closed bool
}

// Option configures a State.
type Option func(*State)

// WithOutput redirects the Lua print function. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(s *State) {
		if w != nil {
			s.out = w
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *State) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithExecutionTimeout bounds each DoString and DoFile call. Zero disables
// the limit.
func WithExecutionTimeout(d time.Duration) Option {
	return func(s *State) {
		s.timeout = d
	}
}

// NewState creates a sandboxed Lua state with the undo module preloaded as
// the global `undo`. A nil manager selects history.Default().
func NewState(m *history.Manager, opts ...Option) *State {
	if m == nil {
		m = history.Default()
	}

	s := &State{
		manager: m,
		logger:  zap.NewNop(),
		out:     os.Stdout,
		timeout: DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	s.L = L
	s.source = NewSource(L)

	L.SetGlobal("print", L.NewFunction(s.luaPrint))
	L.SetGlobal("undo", s.newModule())

	return s
}

// openSafeLibraries opens the base, table, string and math libraries and
// removes base functions that reach the file system.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// Manager returns the undo manager the state registers with.
func (s *State) Manager() *history.Manager {
	return s.manager
}

// Source returns the invocation source for tables of this state.
func (s *State) Source() *Source {
	return s.source
}

// DoString executes a Lua chunk.
func (s *State) DoString(code string) error {
	return s.run(func() error {
		return s.L.DoString(code)
	})
}

// DoFile executes a Lua file.
func (s *State) DoFile(path string) error {
	return s.run(func() error {
		return s.L.DoFile(path)
	})
}

// run executes fn with the configured timeout and panic recovery.
func (s *State) run(fn func() error) (err error) {
	if s.closed {
		return ErrStateClosed
	}

	if s.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	return fn()
}

// Close closes the Lua state. Transactions the script left open are
// committed first.
func (s *State) Close() error {
	if s.closed {
		return nil
	}

	var err error
	for len(s.txs) > 0 {
		tx := s.txs[len(s.txs)-1]
		s.txs = s.txs[:len(s.txs)-1]
		if cerr := tx.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	s.L.Close()
	s.closed = true
	return err
}

// luaPrint writes its arguments tab separated to the configured output.
func (s *State) luaPrint(L *lua.LState) int {
	top := L.GetTop()
	for i := 1; i <= top; i++ {
		if i > 1 {
			fmt.Fprint(s.out, "\t")
		}
		fmt.Fprint(s.out, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(s.out)
	return 0
}
