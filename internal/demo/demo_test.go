package demo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/dshills/undoredo/internal/engine/history"
)

func TestRunTranscript(t *testing.T) {
	var out bytes.Buffer
	m := history.NewManager()

	require.NoError(t, Run(m, &out))

	want := "====== WORKING WITHOUT TRANSACTIONS ======\n" +
		"Initial state\n" +
		"Switch on the light\n" +
		"Undo \"Switch On\"\n" +
		"Switch off the light\n" +
		"Redo \"Switch On\"\n" +
		"Switch on the light\n" +
		"====== WORKING WITH TRANSACTIONS ======\n" +
		"Initial state\n" +
		"Switch on the light\n" +
		"Set color red.\n" +
		"Undo \"Switch On Red\"\n" +
		"Set color white.\n" +
		"Switch off the light\n"
	assert.Equal(t, want, out.String())

	assert.Equal(t, 1, m.UndoCount())
	assert.Equal(t, 1, m.RedoCount())
	assert.Equal(t, "Switch On Red", m.RedoActionName())
}

func TestRunGerman(t *testing.T) {
	var out bytes.Buffer
	m := history.NewManager(history.WithLanguage(language.German))

	require.NoError(t, Run(m, &out))
	assert.Contains(t, out.String(), "Rückgängig „Switch On“")
	assert.Contains(t, out.String(), "Wiederholen „Switch On“")
}

func TestColoredLightSameColorNotRecorded(t *testing.T) {
	m := history.NewManager()
	l := NewColoredLight(m, &bytes.Buffer{})

	require.NoError(t, l.SetColor("white"))
	assert.False(t, m.CanUndo())

	require.NoError(t, l.SetColor("green"))
	require.NoError(t, m.Undo())
	assert.Equal(t, "white", l.Color())

	require.NoError(t, m.Redo())
	assert.Equal(t, "green", l.Color())
}

func TestColoredLightSwitchRoundTrip(t *testing.T) {
	m := history.NewManager()
	l := NewColoredLight(m, &bytes.Buffer{})

	require.NoError(t, l.SwitchOn())
	require.NoError(t, l.SwitchOff())
	assert.Equal(t, 2, m.UndoCount())

	require.NoError(t, m.Undo())
	assert.True(t, l.IsOn())
	require.NoError(t, m.Undo())
	assert.False(t, l.IsOn())
}
