package effect

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/cardclash/internal/game/card"
	"github.com/cory-johannsen/cardclash/internal/game/condition"
	"github.com/cory-johannsen/cardclash/internal/game/dice"
	"github.com/cory-johannsen/cardclash/internal/game/player"
	"github.com/cory-johannsen/cardclash/internal/scripting"
)

// host adapts a resolving effect to scripting.Host.
type host struct {
	d      *Dispatcher
	actor  *card.Creature
	self   *player.Player
	opp    *player.Player
	damage int
	flips  *dice.FlipResult
	// acted is set once the script changes the board, hand or deck.
	acted bool
}

func (h *host) FlipCoins(n int) int {
	if n <= 0 {
		return 0
	}
	if n > scripting.MaxFlips {
		n = scripting.MaxFlips
	}
	r := dice.FlipN("script", n, h.d.src)
	if h.flips == nil {
		h.flips = &r
	} else {
		h.flips.Faces = append(h.flips.Faces, r.Faces...)
	}
	return r.Heads()
}

func (h *host) DamageDefender(n int) int {
	if h.opp.Active == nil {
		return 0
	}
	dealt := h.opp.Active.ApplyDamage(n)
	h.damage += dealt
	h.acted = h.acted || dealt > 0
	return dealt
}

func (h *host) HealAttacker(n int) int {
	if h.actor == nil {
		return 0
	}
	healed := h.actor.Heal(n)
	h.acted = h.acted || healed > 0
	return healed
}

func (h *host) ApplyStatus(name string) error {
	s, err := card.ParseStatus(name)
	if err != nil {
		return err
	}
	if !h.d.knownStatus(s) {
		return fmt.Errorf("no rules for status %q", s)
	}
	if h.opp.Active != nil {
		condition.Apply(h.opp.Active, s)
		h.acted = true
	}
	return nil
}

func (h *host) DrawCards(n int) int {
	drawn := len(h.self.Draw(n))
	h.acted = h.acted || drawn > 0
	return drawn
}

func (h *host) AttackerHP() int {
	if h.actor == nil {
		return 0
	}
	return h.actor.HP
}

func (h *host) DefenderHP() int {
	if h.opp.Active == nil {
		return 0
	}
	return h.opp.Active.HP
}

func (h *host) Log(msg string) {
	h.d.logger.Info("script", zap.String("message", msg))
}
