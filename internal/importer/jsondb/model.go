// Package jsondb reads the JSON card database layout: one JSON array of card
// objects per file, with numbers stored as strings and effects as card text.
package jsondb

// Card is one entry of the database.
type Card struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	CardType    string   `json:"card_type"` // e.g. "Pokémon - Stage 1", "Trainer - Supporter"
	Type        string   `json:"type"`      // element name
	HP          string   `json:"hp"`
	EX          string   `json:"ex"` // "Yes" or "No"
	EvolvesFrom string   `json:"evolves_from"`
	Weakness    string   `json:"weakness"`
	RetreatCost string   `json:"retreat_cost"`
	Ability     *Ability `json:"ability"`
	Attacks     []Attack `json:"attacks"`
	Effect      string   `json:"effect"` // trainer text
	Set         string   `json:"set"`
}

// Attack is one attack entry. Damage may carry a suffix such as "50x" or "30+".
type Attack struct {
	Name   string   `json:"name"`
	Damage string   `json:"damage"`
	Cost   []string `json:"cost"`
	Effect string   `json:"effect"`
}

// Ability is an ability entry.
type Ability struct {
	Name   string `json:"name"`
	Effect string `json:"effect"`
}
