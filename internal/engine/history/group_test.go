package history

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoCommits(t *testing.T) {
	m := NewManager()
	l := newLight(m)

	err := m.Do("Switch On Red", func() error {
		if err := l.SwitchOn(); err != nil {
			return err
		}
		return l.SetColor("red")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, m.UndoCount())
	assert.Equal(t, "Switch On Red", m.UndoActionName())
	assert.Equal(t, "", m.ActionName(), "Do does not change the sticky name")

	require.NoError(t, m.Undo())
	assert.False(t, l.on)
	assert.Equal(t, "white", l.color)
}

func TestDoRollsBackOnError(t *testing.T) {
	m := NewManager()
	l := newLight(m)
	boom := errors.New("boom")

	err := m.Do("Broken", func() error {
		if err := l.SetColor("red"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "white", l.color, "rollback reverted the change")
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
	assert.Equal(t, 0, m.OpenCount())
}

func TestDoNested(t *testing.T) {
	m := NewManager()
	l := newLight(m)

	err := m.Do("Outer", func() error {
		if err := l.SetColor("red"); err != nil {
			return err
		}
		return m.Do("Inner", func() error {
			return l.SetColor("blue")
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, m.UndoCount())
	assert.Equal(t, "Outer", m.UndoActionName())

	require.NoError(t, m.Undo())
	assert.Equal(t, "white", l.color)
}

func TestDoCallbackFinishesTransaction(t *testing.T) {
	m := NewManager()
	boom := errors.New("boom")

	err := m.Do("Self", func() error {
		require.NoError(t, Register(m, &counter{}, (*counter).inc))
		require.NoError(t, m.CommitTransactions())
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, m.UndoCount(), "already committed work stays committed")
}

func TestDoCommitsWhenCallbackPanics(t *testing.T) {
	m := NewManager()
	l := newLight(m)

	assert.PanicsWithValue(t, "bulb blown", func() {
		_ = m.Do("Switch On", func() error {
			if err := l.SwitchOn(); err != nil {
				return err
			}
			panic("bulb blown")
		})
	})

	assert.Equal(t, 0, m.OpenCount())
	assert.Equal(t, 1, m.UndoCount())
	assert.Equal(t, "Switch On", m.UndoActionName())
	assert.Equal(t, StateIdle, m.State())

	// Later registrations are filed on their own.
	require.NoError(t, l.SetColor("red"))
	assert.Equal(t, 2, m.UndoCount())

	require.NoError(t, m.Undo())
	require.NoError(t, m.Undo())
	assert.False(t, l.on)
}

func TestDoNilFunc(t *testing.T) {
	m := NewManager()
	assert.ErrorIs(t, m.Do("x", nil), ErrInvalidArgument)
	assert.Equal(t, 0, m.OpenCount())
}

func TestCheckpoint(t *testing.T) {
	m := NewManager()
	l := newLight(m)

	require.NoError(t, l.SetColor("red"))
	cp := m.Checkpoint()

	require.NoError(t, l.SetColor("green"))
	require.NoError(t, l.SetColor("blue"))

	require.NoError(t, m.UndoTo(cp))
	assert.Equal(t, "red", l.color)
	assert.Equal(t, 1, m.UndoCount())
	assert.Equal(t, 2, m.RedoCount())

	end := Checkpoint{undoDepth: 3}
	require.NoError(t, m.RedoTo(end))
	assert.Equal(t, "blue", l.color)
	assert.Equal(t, 0, m.RedoCount())
}

func TestUndoToCommitsOpenTransactions(t *testing.T) {
	m := NewManager()
	l := newLight(m)
	cp := m.Checkpoint()

	m.CreateTransaction()
	require.NoError(t, l.SetColor("red"))

	require.NoError(t, m.UndoTo(cp))
	assert.Equal(t, "white", l.color)
	assert.Equal(t, 0, m.OpenCount())
}
