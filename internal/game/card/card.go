package card

// Kind is the closed set of card kinds.
type Kind string

const (
	KindBasic     Kind = "basic"
	KindEvolution Kind = "evolution"
	KindSupporter Kind = "supporter"
	KindItem      Kind = "item"
	KindTool      Kind = "tool"
)

// IsCreature reports whether k is a creature kind.
func (k Kind) IsCreature() bool {
	return k == KindBasic || k == KindEvolution
}

// IsTrainer reports whether k is a trainer kind.
func (k Kind) IsTrainer() bool {
	return k == KindSupporter || k == KindItem || k == KindTool
}

// Card is any card that can sit in a deck, hand or discard pile.
type Card interface {
	// InstanceID is unique within a match.
	InstanceID() string
	DisplayName() string
	Kind() Kind
	// Copy returns an independent copy carrying instance ID id.
	Copy(id string) Card
}

// Trainer is a supporter, item or tool card.
type Trainer struct {
	ID          string
	Number      string
	Name        string
	TrainerKind Kind
	Effect      Effect
}

// InstanceID returns t.ID.
func (t *Trainer) InstanceID() string { return t.ID }

// DisplayName returns t.Name.
func (t *Trainer) DisplayName() string { return t.Name }

// Kind returns the trainer's kind.
func (t *Trainer) Kind() Kind { return t.TrainerKind }

// Copy returns a copy of t with instance ID id.
func (t *Trainer) Copy(id string) Card {
	cp := *t
	cp.ID = id
	return &cp
}
