// Package history provides an undo/redo engine built on nested transactions.
//
// Callers perform a change and register the operation that reverts it. The
// Manager collects registrations into transactions; a committed transaction
// becomes one undo entry. Key concepts:
//
// # Invocations
//
// An Invocation is a single deferred operation against a target:
//   - Action: a function plus one bound argument
//   - Expression: a target plus a function evaluated against it at invoke time
//   - Transaction: a group of invocations, replayed most recent first
//
// # Registering
//
//	func (l *Light) SwitchOn() error {
//	    l.on = true
//	    return history.Register(m, l, (*Light).SwitchOff)
//	}
//
// # Transactions
//
// Registrations made without an open transaction are committed on their own.
// Several changes can be grouped into one undo entry:
//
//	tx := m.CreateTransaction()
//	defer tx.Close() // commits unless Commit or Rollback was called
//
// Transactions nest; committing an inner transaction folds it into its parent.
// Rolling back invokes the recorded operations and discards them.
//
// # Undo and redo
//
// Undo replays the latest entry. Because replayed operations register their
// own inverses, the manager records them into a new transaction that lands in
// the redo history; Redo does the reverse.
//
//	m.Undo()
//	m.Redo()
//
// # Menu titles
//
// SetActionName labels the next undo entry. UndoMenuItemTitle and
// RedoMenuItemTitle format it for display, e.g. `Undo "Set Color"`.
package history
