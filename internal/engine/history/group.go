package history

import "fmt"

// Do runs fn inside a transaction labelled name, so everything fn registers
// undoes together. If fn returns an error the transaction is rolled back and
// the error returned; otherwise it is committed. If fn panics the
// transaction is committed before the panic continues.
func (m *Manager) Do(name string, fn func() error) error {
	if fn == nil {
		return newArgumentError("fn")
	}

	tx := m.createTransaction(name)
	defer func() {
		if !tx.IsFinished() {
			_ = tx.Close()
		}
	}()

	if err := fn(); err != nil {
		if tx.IsFinished() {
			return err
		}
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rerr)
		}
		return err
	}

	return tx.Close()
}

// Checkpoint represents a point in the undo history that can be returned to.
type Checkpoint struct {
	undoDepth int
}

// Checkpoint returns the current position in the undo history. Open
// transactions are not part of a checkpoint.
func (m *Manager) Checkpoint() Checkpoint {
	return Checkpoint{undoDepth: len(m.undoStack)}
}

// UndoTo undoes entries until the undo history is back at cp.
func (m *Manager) UndoTo(cp Checkpoint) error {
	if len(m.open) > 0 {
		if err := m.CommitTransactions(); err != nil {
			return err
		}
	}
	for len(m.undoStack) > cp.undoDepth {
		if err := m.Undo(); err != nil {
			return err
		}
	}
	return nil
}

// RedoTo redoes entries until the undo history reaches cp again or the redo
// history runs out.
func (m *Manager) RedoTo(cp Checkpoint) error {
	for len(m.undoStack) < cp.undoDepth && m.CanRedo() {
		if err := m.Redo(); err != nil {
			return err
		}
	}
	return nil
}
