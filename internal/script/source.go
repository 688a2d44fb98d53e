package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/undoredo/internal/engine/history"
)

// Source is a history.Source for Lua objects. The target must be a Lua table
// and the operation names one of its methods, called as target:name(args...).
// Args may be lua.LValue or plain Go values; see ToLuaValue.
type Source struct {
	L *lua.LState
}

var _ history.Source = (*Source)(nil)

// NewSource creates a Source bound to L.
func NewSource(L *lua.LState) *Source {
	return &Source{L: L}
}

// Capture implements history.Source.
func (s *Source) Capture(target any, op history.Operation) (history.Invocation, error) {
	tbl, ok := target.(*lua.LTable)
	if !ok || tbl == nil {
		return nil, fmt.Errorf("%w: target must be a Lua table, got %T", ErrInvalidTarget, target)
	}
	if op.Name == "" {
		return nil, &history.ArgumentError{Name: "operation"}
	}

	// GetField honours __index so methods inherited through a metatable resolve.
	fn, ok := s.L.GetField(tbl, op.Name).(*lua.LFunction)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMethodNotFound, op.Name)
	}

	args := make([]lua.LValue, 0, len(op.Args)+1)
	args = append(args, tbl)
	for _, a := range op.Args {
		args = append(args, ToLuaValue(s.L, a))
	}

	return &methodCall{L: s.L, name: op.Name, fn: fn, args: args}, nil
}

// methodCall invokes a Lua method with a bound receiver and arguments.
type methodCall struct {
	L    *lua.LState
	name string
	fn   *lua.LFunction
	args []lua.LValue
}

// Invoke calls the Lua function in protected mode.
func (c *methodCall) Invoke() error {
	err := c.L.CallByParam(lua.P{
		Fn:      c.fn,
		NRet:    0,
		Protect: true,
	}, c.args...)
	if err != nil {
		return fmt.Errorf("lua method %s: %w", c.name, err)
	}
	return nil
}

// String returns the method name.
func (c *methodCall) String() string {
	return c.name
}

// ToLuaValue converts a Go value to a Lua value. Values that already are Lua
// values pass through unchanged; unsupported types become light userdata.
func ToLuaValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case int32:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case float32:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []any:
		tbl := L.NewTable()
		for _, item := range val {
			tbl.Append(ToLuaValue(L, item))
		}
		return tbl
	case map[string]any:
		tbl := L.NewTable()
		for k, item := range val {
			tbl.RawSetString(k, ToLuaValue(L, item))
		}
		return tbl
	default:
		ud := L.NewUserData()
		ud.Value = v
		return ud
	}
}
