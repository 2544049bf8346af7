package lua

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// State wraps a sandboxed gopher-lua LState.
//
// gopher-lua's LState is not goroutine-safe. All access goes through the
// mutex, which matters because the dispatcher may invoke two of a plugin's
// command handlers from different goroutines.
type State struct {
	mu     sync.Mutex
	L      *lua.LState
	closed bool
}

// NewState creates a sandboxed Lua state. Only the base, table, string, and
// math libraries are opened.
func NewState() *State {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	openSafeLibraries(L)
	return &State{L: L}
}

// openSafeLibraries opens the Lua standard libraries safe for plugin code.
// io, os, debug, and package are intentionally left closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// DoFile executes a Lua file. The call blocks until the script completes.
func (s *State) DoFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	return s.withRecovery(func() error {
		return s.L.DoFile(path)
	})
}

// DoString executes a chunk of Lua source.
func (s *State) DoString(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	return s.withRecovery(func() error {
		return s.L.DoString(code)
	})
}

// Global returns the value of a global variable, or lua.LNil after Close.
func (s *State) Global(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// RegisterModule installs a module table with the given functions as a
// global.
func (s *State) RegisterModule(name string, funcs map[string]lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	mod := s.L.SetFuncs(s.L.NewTable(), funcs)
	s.L.SetGlobal(name, mod)
}

// CallFunction calls a Lua function value with the given arguments and
// returns up to one result. Errors raised inside Lua, including panics that
// escape gopher-lua, come back as Go errors.
func (s *State) CallFunction(fn *lua.LFunction, args ...lua.LValue) (lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil, ErrStateClosed
	}
	if fn == nil {
		return lua.LNil, ErrNotFunction
	}

	var result lua.LValue = lua.LNil
	err := s.withRecovery(func() error {
		s.L.Push(fn)
		for _, arg := range args {
			s.L.Push(arg)
		}
		if err := s.L.PCall(len(args), 1, nil); err != nil {
			return err
		}
		result = s.L.Get(-1)
		s.L.Pop(1)
		return nil
	})
	return result, err
}

// CallGlobal calls a global function by name.
func (s *State) CallGlobal(name string, args ...lua.LValue) (lua.LValue, error) {
	s.mu.Lock()
	fnVal := lua.LValue(lua.LNil)
	if !s.closed {
		fnVal = s.L.GetGlobal(name)
	}
	s.mu.Unlock()

	fn, ok := fnVal.(*lua.LFunction)
	if !ok {
		return lua.LNil, fmt.Errorf("%w: global %q", ErrNotFunction, name)
	}
	return s.CallFunction(fn, args...)
}

// Do runs fn with exclusive access to the underlying LState. Panics raised
// by gopher-lua are returned as errors.
func (s *State) Do(fn func(L *lua.LState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	return s.withRecovery(func() error {
		return fn(s.L)
	})
}

// Raw returns the underlying LState. The caller must hold no expectations of
// safety; it exists for installing userdata metatables at load time, before
// the state is shared.
func (s *State) Raw() *lua.LState {
	return s.L
}

func (s *State) withRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// IsClosed reports whether Close has been called.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases the underlying LState. Close is idempotent.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
