package history

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// managerStub records the transactions it was asked to finalize.
type managerStub struct {
	committed  []*Transaction
	rolledBack []*Transaction
}

func (s *managerStub) CommitTransaction(tx *Transaction) error {
	s.committed = append(s.committed, tx)
	tx.finish()
	return nil
}

func (s *managerStub) RollbackTransaction(tx *Transaction) error {
	s.rolledBack = append(s.rolledBack, tx)
	tx.finish()
	return tx.Invoke()
}

func newStubTransaction(t *testing.T) (*Transaction, *managerStub) {
	t.Helper()
	stub := &managerStub{}
	tx, err := NewTransaction(stub)
	require.NoError(t, err)
	return tx, stub
}

// recordingInvocation appends its name to a shared log when invoked.
func recordingInvocation(log *[]string, name string) Invocation {
	return InvocationFunc(func() error {
		*log = append(*log, name)
		return nil
	})
}

func TestNewTransactionRequiresManager(t *testing.T) {
	_, err := NewTransaction(nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, "transaction manager", argErr.Name)
}

func TestTransactionDefaults(t *testing.T) {
	tx, _ := newStubTransaction(t)
	assert.Equal(t, "", tx.ActionName())
	assert.True(t, tx.IsEmpty())
	assert.False(t, tx.IsFinished())
	assert.NotEqual(t, tx.ID().String(), "00000000-0000-0000-0000-000000000000")
}

func TestTransactionActionName(t *testing.T) {
	tx, _ := newStubTransaction(t)
	tx.SetActionName("Typing")
	assert.Equal(t, "Typing", tx.ActionName())

	tx.SetActionName("")
	assert.Equal(t, "", tx.ActionName())
}

func TestTransactionRegisterNil(t *testing.T) {
	tx, _ := newStubTransaction(t)

	assert.ErrorIs(t, tx.Register(nil), ErrInvalidArgument)

	var fn InvocationFunc
	assert.ErrorIs(t, tx.Register(fn), ErrInvalidArgument)
	assert.True(t, tx.IsEmpty())
}

func TestRegisterCall(t *testing.T) {
	tx, _ := newStubTransaction(t)
	c := &counter{}

	require.NoError(t, RegisterCall(tx, c, (*counter).inc))
	assert.Equal(t, 1, tx.Len())

	var nilCounter *counter
	assert.ErrorIs(t, RegisterCall(tx, nilCounter, (*counter).inc), ErrInvalidArgument)
	assert.ErrorIs(t, RegisterCall[*counter](tx, c, nil), ErrInvalidArgument)
	assert.Equal(t, 1, tx.Len())

	require.NoError(t, tx.Invoke())
	assert.Equal(t, 1, c.n)
}

func TestTransactionInvokeReverseOrder(t *testing.T) {
	tx, _ := newStubTransaction(t)
	var log []string

	require.NoError(t, tx.Register(recordingInvocation(&log, "a")))
	require.NoError(t, tx.Register(recordingInvocation(&log, "b")))
	require.NoError(t, tx.Register(recordingInvocation(&log, "c")))

	require.NoError(t, tx.Invoke())
	assert.Equal(t, []string{"c", "b", "a"}, log)
	assert.True(t, tx.IsEmpty(), "invoke consumes the invocations")
}

func TestTransactionInvokeStopsAtError(t *testing.T) {
	tx, _ := newStubTransaction(t)
	var log []string
	boom := errors.New("boom")

	require.NoError(t, tx.Register(recordingInvocation(&log, "a")))
	require.NoError(t, tx.Register(InvocationFunc(func() error { return boom })))
	require.NoError(t, tx.Register(recordingInvocation(&log, "c")))

	err := tx.Invoke()
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"c"}, log)
	assert.Equal(t, 1, tx.Len(), "entries after the failure stay queued")
}

func TestTransactionNests(t *testing.T) {
	outer, _ := newStubTransaction(t)
	inner, _ := newStubTransaction(t)
	var log []string

	require.NoError(t, inner.Register(recordingInvocation(&log, "inner-1")))
	require.NoError(t, inner.Register(recordingInvocation(&log, "inner-2")))
	require.NoError(t, outer.Register(recordingInvocation(&log, "outer")))
	require.NoError(t, outer.Register(inner))

	require.NoError(t, outer.Invoke())
	assert.Equal(t, []string{"inner-2", "inner-1", "outer"}, log)
}

func TestTransactionCommitDelegates(t *testing.T) {
	tx, stub := newStubTransaction(t)

	require.NoError(t, tx.Commit())
	require.Len(t, stub.committed, 1)
	assert.Same(t, tx, stub.committed[0])
	assert.Empty(t, stub.rolledBack)
}

func TestTransactionRollbackDelegates(t *testing.T) {
	tx, stub := newStubTransaction(t)
	var log []string
	require.NoError(t, tx.Register(recordingInvocation(&log, "a")))

	require.NoError(t, tx.Rollback())
	require.Len(t, stub.rolledBack, 1)
	assert.Equal(t, []string{"a"}, log)
	assert.Empty(t, stub.committed)
}

func TestTransactionCloseCommitsOnce(t *testing.T) {
	tx, stub := newStubTransaction(t)

	require.NoError(t, tx.Close())
	require.NoError(t, tx.Close())
	assert.Len(t, stub.committed, 1)
}

func TestTransactionCloseAfterRollback(t *testing.T) {
	tx, stub := newStubTransaction(t)

	require.NoError(t, tx.Rollback())
	require.NoError(t, tx.Close())
	assert.Empty(t, stub.committed, "close must never commit a finished transaction")
}

func TestTransactionCloseOnDefer(t *testing.T) {
	stub := &managerStub{}

	func() {
		tx, err := NewTransaction(stub)
		require.NoError(t, err)
		defer tx.Close()
	}()

	assert.Len(t, stub.committed, 1)
}
