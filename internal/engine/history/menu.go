package history

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The English text doubles as the key.
const (
	undoVerb        = "Undo"
	redoVerb        = "Redo"
	menuItemPattern = "%s \"%s\""
)

var menuCatalog = newMenuCatalog()

func newMenuCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	set := func(tag language.Tag, key, msg string) {
		if err := b.SetString(tag, key, msg); err != nil {
			panic(err)
		}
	}

	set(language.English, undoVerb, "Undo")
	set(language.English, redoVerb, "Redo")
	set(language.English, menuItemPattern, "%s \"%s\"")

	set(language.German, undoVerb, "Rückgängig")
	set(language.German, redoVerb, "Wiederholen")
	set(language.German, menuItemPattern, "%s „%s“")

	set(language.French, undoVerb, "Annuler")
	set(language.French, redoVerb, "Rétablir")
	set(language.French, menuItemPattern, "%s « %s »")

	return b
}

// SupportedLanguages returns the languages menu titles are translated to.
func SupportedLanguages() []language.Tag {
	return menuCatalog.Languages()
}

// UndoMenuTitle returns the undo menu title for actionName in the given
// language, e.g. `Undo "Typing"`. The bare verb is returned when
// actionName is empty.
func UndoMenuTitle(tag language.Tag, actionName string) string {
	return menuTitle(tag, undoVerb, actionName)
}

// RedoMenuTitle returns the redo menu title for actionName in the given
// language, e.g. `Redo "Typing"`.
func RedoMenuTitle(tag language.Tag, actionName string) string {
	return menuTitle(tag, redoVerb, actionName)
}

func menuTitle(tag language.Tag, verb, actionName string) string {
	p := message.NewPrinter(tag, message.Catalog(menuCatalog))
	title := p.Sprintf(verb)
	if actionName == "" {
		return title
	}
	return p.Sprintf(menuItemPattern, title, actionName)
}
