package capture

import (
	"github.com/dshills/undoredo/internal/engine/history"
)

// Recorder registers operations against one target with a manager.
type Recorder[T any] struct {
	m      *history.Manager
	target T
}

// For returns a Recorder for target. A nil manager selects history.Default().
func For[T any](m *history.Manager, target T) *Recorder[T] {
	if m == nil {
		m = history.Default()
	}
	return &Recorder[T]{m: m, target: target}
}

// Call registers fn to be called with the target.
func (r *Recorder[T]) Call(fn func(T) error) error {
	return history.Register(r.m, r.target, fn)
}

// Method registers a call of the named exported method with args,
// resolved through Methods.
func (r *Recorder[T]) Method(name string, args ...any) error {
	return r.m.RegisterFrom(Methods{}, r.target, history.Operation{Name: name, Args: args})
}

// Target returns the recorder's target.
func (r *Recorder[T]) Target() T {
	return r.target
}
