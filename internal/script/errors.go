package script

import "errors"

// Script errors.
var (
	// ErrStateClosed indicates the Lua state has been closed.
	ErrStateClosed = errors.New("lua state closed")

	// ErrInvalidTarget indicates a capture target that is not a Lua table.
	ErrInvalidTarget = errors.New("invalid lua target")

	// ErrMethodNotFound indicates the target has no function under that name.
	ErrMethodNotFound = errors.New("lua method not found")

	// ErrNoScriptTransaction indicates commit or rollback without a matching begin.
	ErrNoScriptTransaction = errors.New("no transaction opened by this script")
)
