package card

// Attack is a creature attack.
type Attack struct {
	Name   string
	Damage int
	Cost   Cost
	Effect Effect
}

// Ability is a once-per-turn creature power.
type Ability struct {
	Name   string
	Effect Effect
}

// Creature is a basic or evolution creature card together with its
// battlefield state.
//
// Invariant: 0 <= HP <= MaxHP; Energy is never nil.
type Creature struct {
	ID          string
	Number      string
	Name        string
	EvolvesFrom string
	HP          int
	MaxHP       int
	Element     Element
	Weakness    Element // empty when the creature has no weakness
	EX          bool
	RetreatCost int
	Attacks     []Attack
	Ability     *Ability

	Status          Status
	TurnPlayed      int
	EvolvedThisTurn bool
	AbilityUsed     bool
	Energy          Energy
	Tool            *Trainer
}

// NewCreature returns a creature at full HP with no status and no energy.
//
// Precondition: maxHP > 0.
func NewCreature(id, name string, maxHP int, el Element) *Creature {
	return &Creature{
		ID:          id,
		Name:        name,
		HP:          maxHP,
		MaxHP:       maxHP,
		Element:     el,
		RetreatCost: 1,
		Status:      StatusNone,
		Energy:      Energy{},
	}
}

// InstanceID returns c.ID.
func (c *Creature) InstanceID() string { return c.ID }

// DisplayName returns c.Name.
func (c *Creature) DisplayName() string { return c.Name }

// Kind returns KindEvolution when c evolves from another creature.
func (c *Creature) Kind() Kind {
	if c.EvolvesFrom != "" {
		return KindEvolution
	}
	return KindBasic
}

// IsBasic reports whether c can be played directly to the board.
func (c *Creature) IsBasic() bool {
	return c.EvolvesFrom == ""
}

// Copy returns a deep copy of c with instance ID id. Attacks, energy and the
// attached tool are not shared with c.
func (c *Creature) Copy(id string) Card {
	return c.Clone(id)
}

// Clone is Copy with a concrete return type.
func (c *Creature) Clone(id string) *Creature {
	cp := *c
	cp.ID = id
	cp.Attacks = append([]Attack(nil), c.Attacks...)
	for i := range cp.Attacks {
		cp.Attacks[i].Cost = append(Cost(nil), c.Attacks[i].Cost...)
	}
	if c.Ability != nil {
		a := *c.Ability
		cp.Ability = &a
	}
	cp.Energy = c.Energy.Clone()
	if c.Tool != nil {
		t := *c.Tool
		cp.Tool = &t
	}
	return &cp
}

// CanEvolve reports whether c may be evolved on turn: it entered play before
// turn and has not already evolved this turn.
func (c *Creature) CanEvolve(turn int) bool {
	return turn > c.TurnPlayed && !c.EvolvedThisTurn
}

// ApplyDamage reduces HP by amount, clamped at zero, and returns the damage
// actually taken.
//
// Precondition: amount >= 0.
func (c *Creature) ApplyDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount > c.HP {
		amount = c.HP
	}
	c.HP -= amount
	return amount
}

// Heal restores up to amount HP, clamped at MaxHP, and returns the HP restored.
func (c *Creature) Heal(amount int) int {
	if amount <= 0 || c.HP >= c.MaxHP {
		return 0
	}
	if c.HP+amount > c.MaxHP {
		amount = c.MaxHP - c.HP
	}
	c.HP += amount
	return amount
}

// IsKnockedOut reports whether HP has reached zero.
func (c *Creature) IsKnockedOut() bool {
	return c.HP <= 0
}

// AddEnergy attaches n energy of element el.
func (c *Creature) AddEnergy(el Element, n int) {
	if c.Energy == nil {
		c.Energy = Energy{}
	}
	c.Energy.Add(el, n)
}

// CanPay reports whether c's attached energy covers cost.
func (c *Creature) CanPay(cost Cost) bool {
	return c.Energy.CanPay(cost)
}

// KnockoutPoints is the score awarded for knocking c out.
func (c *Creature) KnockoutPoints() int {
	if c.EX {
		return 2
	}
	return 1
}

// HasStatus reports whether c carries a status other than none.
func (c *Creature) HasStatus() bool {
	return c.Status != "" && c.Status != StatusNone
}
