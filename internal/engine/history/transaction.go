package history

import (
	"github.com/google/uuid"
)

// TransactionManager finalizes transactions on their behalf. A Transaction
// calls back into its owner from Commit and Rollback.
type TransactionManager interface {
	// CommitTransaction files or folds tx and every transaction nested in it.
	CommitTransaction(tx *Transaction) error

	// RollbackTransaction discards tx and every transaction nested in it,
	// invoking their recorded operations.
	RollbackTransaction(tx *Transaction) error
}

// Transaction is an ordered group of invocations that undo together. It is
// itself an Invocation, so transactions nest.
//
// Close commits the transaction unless it was already finished:
//
//	tx := m.CreateTransaction()
//	defer tx.Close()
type Transaction struct {
	id          uuid.UUID
	owner       TransactionManager
	invocations []Invocation
	actionName  string
	finished    bool
}

// NewTransaction creates an open transaction owned by owner.
func NewTransaction(owner TransactionManager) (*Transaction, error) {
	if owner == nil {
		return nil, newArgumentError("transaction manager")
	}
	return &Transaction{
		id:    uuid.New(),
		owner: owner,
	}, nil
}

// ID returns the transaction's unique id.
func (tx *Transaction) ID() uuid.UUID {
	return tx.id
}

// Register adds an invocation. The most recently registered invocation runs
// first when the transaction is invoked.
func (tx *Transaction) Register(inv Invocation) error {
	if isNil(inv) {
		return newArgumentError("invocation")
	}
	tx.invocations = append(tx.invocations, inv)
	return nil
}

// RegisterCall builds an Expression from target and fn and registers it with tx.
func RegisterCall[T any](tx *Transaction, target T, fn func(T) error) error {
	inv, err := NewExpression(target, fn)
	if err != nil {
		return err
	}
	return tx.Register(inv)
}

// Commit asks the owner to commit the transaction.
// Committing a transaction that is no longer open returns ErrTransactionNotOpen.
func (tx *Transaction) Commit() error {
	return tx.owner.CommitTransaction(tx)
}

// Rollback asks the owner to roll the transaction back.
func (tx *Transaction) Rollback() error {
	return tx.owner.RollbackTransaction(tx)
}

// Close commits the transaction if it has not been finished yet.
func (tx *Transaction) Close() error {
	if tx.finished {
		return nil
	}
	return tx.Commit()
}

// Invoke pops and invokes every registered invocation, most recent first.
// It stops at the first error; invocations not yet run stay registered.
func (tx *Transaction) Invoke() error {
	for len(tx.invocations) > 0 {
		last := len(tx.invocations) - 1
		inv := tx.invocations[last]
		tx.invocations[last] = nil
		tx.invocations = tx.invocations[:last]

		if err := inv.Invoke(); err != nil {
			return err
		}
	}
	return nil
}

// ActionName returns the human-readable label of the transaction.
func (tx *Transaction) ActionName() string {
	return tx.actionName
}

// SetActionName sets the human-readable label of the transaction.
func (tx *Transaction) SetActionName(name string) {
	tx.actionName = name
}

// Len returns the number of registered invocations.
func (tx *Transaction) Len() int {
	return len(tx.invocations)
}

// IsEmpty returns true if nothing has been registered.
func (tx *Transaction) IsEmpty() bool {
	return len(tx.invocations) == 0
}

// IsFinished returns true once the transaction was committed, folded into
// its parent or rolled back.
func (tx *Transaction) IsFinished() bool {
	return tx.finished
}

func (tx *Transaction) finish() {
	tx.finished = true
}
