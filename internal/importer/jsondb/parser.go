package jsondb

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Parse decodes one database file.
//
// Precondition: data must be a JSON array of card objects.
// Postcondition: returns the cards in file order or a non-nil error.
func Parse(data []byte) ([]Card, error) {
	var cards []Card
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&cards); err != nil {
		return nil, fmt.Errorf("parsing card database: %w", err)
	}
	return cards, nil
}
