package history

import "reflect"

// Invocation is a single deferred operation that can be replayed.
type Invocation interface {
	// Invoke runs the stored operation once.
	Invoke() error
}

// InvocationFunc adapts an ordinary function to the Invocation interface.
type InvocationFunc func() error

// Invoke calls f.
func (f InvocationFunc) Invoke() error {
	return f()
}

// Action is an invocation that calls fn with a bound argument.
type Action[A any] struct {
	fn  func(A) error
	arg A
}

// NewAction creates an Action. Both fn and arg must be non-nil.
func NewAction[A any](fn func(A) error, arg A) (*Action[A], error) {
	if fn == nil {
		return nil, newArgumentError("operation")
	}
	if isNil(arg) {
		return nil, newArgumentError("argument")
	}
	return &Action[A]{fn: fn, arg: arg}, nil
}

// Invoke calls the operation with the bound argument.
func (a *Action[A]) Invoke() error {
	return a.fn(a.arg)
}

// Expression is an invocation that evaluates fn against target at invoke
// time. Anything fn captures is captured when the expression is built.
type Expression[T any] struct {
	target T
	fn     func(T) error
}

// NewExpression creates an Expression. Both target and fn must be non-nil.
func NewExpression[T any](target T, fn func(T) error) (*Expression[T], error) {
	if isNil(target) {
		return nil, newArgumentError("target")
	}
	if fn == nil {
		return nil, newArgumentError("operation")
	}
	return &Expression[T]{target: target, fn: fn}, nil
}

// Invoke evaluates the expression against its target.
func (e *Expression[T]) Invoke() error {
	return e.fn(e.target)
}

// Target returns the expression's target.
func (e *Expression[T]) Target() T {
	return e.target
}

// Operation describes a call to make against a target.
type Operation struct {
	Name string // Method or function name
	Args []any  // Arguments, in call order
}

// Source produces invocations from a target and an operation description.
// Implementations decide how the description is resolved (reflection,
// scripting, a lookup table).
type Source interface {
	Capture(target any, op Operation) (Invocation, error)
}

// isNil reports whether v is nil or a nil value of a nillable kind.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
