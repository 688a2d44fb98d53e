// Package capture provides invocation sources that turn a target and an
// operation description into a history.Invocation.
//
// Methods resolves operations to exported methods by name using reflection,
// which suits callers that only know the operation at run time (a command
// palette, a macro player). Recorder is the statically typed alternative:
//
//	capture.For(m, light).Call((*Light).SwitchOff)
//	capture.For(m, light).Method("SetColor", "white")
package capture

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/dshills/undoredo/internal/engine/history"
)

// Capture errors.
var (
	ErrMethodNotFound   = errors.New("method not found")
	ErrArgumentMismatch = errors.New("argument mismatch")
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Methods is a history.Source that calls the exported method op.Name on the
// target with op.Args. The method is resolved and its arguments are checked
// when the invocation is captured, not when it runs.
//
// A method whose last result is an error has that error returned from
// Invoke; other results are discarded.
type Methods struct{}

var _ history.Source = Methods{}

// Capture implements history.Source.
func (Methods) Capture(target any, op history.Operation) (history.Invocation, error) {
	if target == nil {
		return nil, &history.ArgumentError{Name: "target"}
	}
	if op.Name == "" {
		return nil, &history.ArgumentError{Name: "operation"}
	}

	rv := reflect.ValueOf(target)
	method := rv.MethodByName(op.Name)
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: %s has no method %q", ErrMethodNotFound, rv.Type(), op.Name)
	}

	args, err := convertArgs(method.Type(), op.Args)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", rv.Type(), op.Name, err)
	}

	return &methodInvocation{
		name:   op.Name,
		method: method,
		args:   args,
	}, nil
}

// methodInvocation is a resolved method call with converted arguments.
type methodInvocation struct {
	name   string
	method reflect.Value
	args   []reflect.Value
}

// Invoke calls the method.
func (i *methodInvocation) Invoke() error {
	var out []reflect.Value
	if i.method.Type().IsVariadic() {
		out = i.method.CallSlice(i.args)
	} else {
		out = i.method.Call(i.args)
	}

	if len(out) == 0 {
		return nil
	}
	last := out[len(out)-1]
	if last.Type() != errorType || last.IsNil() {
		return nil
	}
	return last.Interface().(error)
}

// String returns the method name.
func (i *methodInvocation) String() string {
	return i.name
}

// convertArgs checks args against the method signature and converts them to
// reflect values. Variadic arguments are packed into the trailing slice so
// the result can be passed to CallSlice.
func convertArgs(mt reflect.Type, args []any) ([]reflect.Value, error) {
	numIn := mt.NumIn()
	variadic := mt.IsVariadic()

	fixed := numIn
	if variadic {
		fixed = numIn - 1
		if len(args) < fixed {
			return nil, fmt.Errorf("%w: want at least %d arguments, got %d", ErrArgumentMismatch, fixed, len(args))
		}
	} else if len(args) != numIn {
		return nil, fmt.Errorf("%w: want %d arguments, got %d", ErrArgumentMismatch, numIn, len(args))
	}

	out := make([]reflect.Value, 0, numIn)
	for i := 0; i < fixed; i++ {
		v, err := convertArg(mt.In(i), args[i], i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	if variadic {
		sliceType := mt.In(numIn - 1)
		rest := args[fixed:]
		slice := reflect.MakeSlice(sliceType, len(rest), len(rest))
		for j, a := range rest {
			v, err := convertArg(sliceType.Elem(), a, fixed+j)
			if err != nil {
				return nil, err
			}
			slice.Index(j).Set(v)
		}
		out = append(out, slice)
	}

	return out, nil
}

func convertArg(want reflect.Type, arg any, pos int) (reflect.Value, error) {
	if arg == nil {
		switch want.Kind() {
		case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
			return reflect.Zero(want), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: argument %d: nil is not a valid %s", ErrArgumentMismatch, pos, want)
	}

	v := reflect.ValueOf(arg)
	switch {
	case v.Type().AssignableTo(want):
		return v, nil
	case isNumeric(v.Kind()) && isNumeric(want.Kind()) && v.CanConvert(want):
		c, ok := convertNumber(v, want)
		if !ok {
			return reflect.Value{}, fmt.Errorf("%w: argument %d: %v does not fit %s", ErrArgumentMismatch, pos, arg, want)
		}
		return c, nil
	}
	return reflect.Value{}, fmt.Errorf("%w: argument %d: %s is not assignable to %s", ErrArgumentMismatch, pos, v.Type(), want)
}

// convertNumber converts v to want and reports whether the value survived:
// no truncated fraction, no overflow and no sign change. Narrowing between
// float types only has to stay in range.
func convertNumber(v reflect.Value, want reflect.Type) (reflect.Value, bool) {
	from, to := v.Kind(), want.Kind()

	if isFloat(from) && isFloat(to) {
		return v.Convert(want), !reflect.Zero(want).OverflowFloat(v.Float())
	}
	if isFloat(from) {
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return reflect.Value{}, false
		}
		if f < 0 && isUnsigned(to) {
			return reflect.Value{}, false
		}
		if f < math.MinInt64 || f >= math.MaxUint64 || (isSigned(to) && f >= math.MaxInt64) {
			return reflect.Value{}, false
		}
	}
	if isSigned(from) && v.Int() < 0 && isUnsigned(to) {
		return reflect.Value{}, false
	}

	c := v.Convert(want)
	if isUnsigned(from) && isSigned(to) && c.Int() < 0 {
		return reflect.Value{}, false
	}
	if !c.Convert(v.Type()).Equal(v) {
		return reflect.Value{}, false
	}
	return c, true
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
