package history

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by this package matches one of these
// with errors.Is, except *ActionInvocationError which wraps the failure of a
// user supplied operation.
var (
	// ErrInvalidArgument indicates a missing target, operation, invocation,
	// transaction or transaction manager.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState indicates an operation that cannot run in the
	// manager's current state.
	ErrInvalidState = errors.New("invalid state")
)

// State errors.
var (
	ErrNothingToUndo      = fmt.Errorf("%w: no undo operations recorded", ErrInvalidState)
	ErrNothingToRedo      = fmt.Errorf("%w: no redo operations recorded", ErrInvalidState)
	ErrNoOpenTransaction  = fmt.Errorf("%w: no open transaction", ErrInvalidState)
	ErrTransactionNotOpen = fmt.Errorf("%w: transaction is not open in this manager", ErrInvalidState)
)

// ArgumentError reports a missing or nil argument.
type ArgumentError struct {
	Name string // Parameter name (e.g., "target", "operation")
}

func newArgumentError(name string) *ArgumentError {
	return &ArgumentError{Name: name}
}

func (e *ArgumentError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%v: %s must not be nil", ErrInvalidArgument, e.Name)
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// ActionInvocationError wraps an error raised by a registered operation while
// the manager replays a transaction during Undo or Redo.
type ActionInvocationError struct {
	Action string // Action name of the transaction being replayed
	Err    error  // Underlying error
}

func (e *ActionInvocationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Action != "" {
		return fmt.Sprintf("an error occurred while performing the registered operation %q: %v", e.Action, e.Err)
	}
	return fmt.Sprintf("an error occurred while performing the registered operation: %v", e.Err)
}

func (e *ActionInvocationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PanicError wraps a value recovered from a panicking operation.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("panic: %v", e.Value)
}
