package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMenuTitles(t *testing.T) {
	tests := []struct {
		name   string
		tag    language.Tag
		action string
		undo   string
		redo   string
	}{
		{"english", language.English, "Typing", `Undo "Typing"`, `Redo "Typing"`},
		{"english bare", language.English, "", "Undo", "Redo"},
		{"german", language.German, "Tippen", "Rückgängig „Tippen“", "Wiederholen „Tippen“"},
		{"german bare", language.German, "", "Rückgängig", "Wiederholen"},
		{"french", language.French, "Saisie", "Annuler « Saisie »", "Rétablir « Saisie »"},
		{"unsupported falls back", language.Japanese, "Typing", `Undo "Typing"`, `Redo "Typing"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.undo, UndoMenuTitle(tt.tag, tt.action))
			assert.Equal(t, tt.redo, RedoMenuTitle(tt.tag, tt.action))
		})
	}
}

func TestSupportedLanguages(t *testing.T) {
	langs := SupportedLanguages()
	assert.Contains(t, langs, language.English)
	assert.Contains(t, langs, language.German)
	assert.Contains(t, langs, language.French)
}

func TestManagerMenuTitles(t *testing.T) {
	m := NewManager(WithLanguage(language.German))
	l := newLight(m)

	assert.Equal(t, "Rückgängig", m.UndoMenuItemTitle())

	m.SetActionName("Einschalten")
	l.SwitchOn()
	assert.Equal(t, "Rückgängig „Einschalten“", m.UndoMenuItemTitle())

	m.Undo()
	assert.Equal(t, "Wiederholen „Einschalten“", m.RedoMenuItemTitle())
	assert.Equal(t, "Rückgängig", m.UndoMenuItemTitle())
}
