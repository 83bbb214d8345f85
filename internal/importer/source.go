package importer

import "github.com/cory-johannsen/cardclash/internal/game/card"

// Source loads cards from a format-specific location and produces catalog
// files ready to be written as catalog YAML.
//
// Precondition: path must exist and hold content in the source's format.
// Postcondition: returns at least one catalog file, or a non-nil error.
// Warnings describe content that was imported with reduced fidelity.
type Source interface {
	Load(path string) ([]*card.File, []Warning, error)
}

// Warning reports a card imported with reduced fidelity, typically effect
// text that maps to no effect kind.
type Warning struct {
	Card    string
	Message string
}

// String renders "card: message".
func (w Warning) String() string {
	return w.Card + ": " + w.Message
}
