package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// MaxFlips bounds the coins a single engine.flip call may flip.
const MaxFlips = 32

// Host is the game-side view a script effect acts through. A Host is bound
// for the duration of one hook call.
type Host interface {
	// FlipCoins flips n coins and returns the number of heads. n never
	// exceeds MaxFlips when called from Lua.
	FlipCoins(n int) int
	// DamageDefender deals n damage to the opposing active creature and
	// returns the damage actually dealt.
	DamageDefender(n int) int
	// HealAttacker heals the acting creature by n and returns the HP restored.
	HealAttacker(n int) int
	// ApplyStatus gives the opposing active creature the named status.
	ApplyStatus(name string) error
	// DrawCards draws n cards for the acting player and returns how many were drawn.
	DrawCards(n int) int
	AttackerHP() int
	DefenderHP() int
	Log(msg string)
}

// RegisterModules registers the engine Lua table into L. Every function acts
// on the Host bound by the current RunEffect call.
//
//	engine.flip(n)        -> heads, n <= MaxFlips
//	engine.damage(n)      -> damage dealt
//	engine.heal(n)        -> hp restored
//	engine.status(name)   -> true, or false and a message
//	engine.draw(n)        -> cards drawn
//	engine.attacker_hp()  -> hp
//	engine.defender_hp()  -> hp
//	engine.log(msg)
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	intFn := func(f func(h Host, n int) int) lua.LGFunction {
		return func(L *lua.LState) int {
			h := m.boundHost(L)
			L.Push(lua.LNumber(f(h, L.CheckInt(1))))
			return 1
		}
	}
	L.SetField(engine, "flip", L.NewFunction(func(L *lua.LState) int {
		h := m.boundHost(L)
		n := L.CheckInt(1)
		if n > MaxFlips {
			L.ArgError(1, fmt.Sprintf("at most %d coins per flip", MaxFlips))
			return 0
		}
		L.Push(lua.LNumber(h.FlipCoins(n)))
		return 1
	}))
	L.SetField(engine, "damage", L.NewFunction(intFn(func(h Host, n int) int { return h.DamageDefender(n) })))
	L.SetField(engine, "heal", L.NewFunction(intFn(func(h Host, n int) int { return h.HealAttacker(n) })))
	L.SetField(engine, "draw", L.NewFunction(intFn(func(h Host, n int) int { return h.DrawCards(n) })))
	L.SetField(engine, "status", L.NewFunction(func(L *lua.LState) int {
		h := m.boundHost(L)
		if err := h.ApplyStatus(L.CheckString(1)); err != nil {
			L.Push(lua.LFalse)
			L.Push(lua.LString(err.Error()))
			return 2
		}
		L.Push(lua.LTrue)
		return 1
	}))
	L.SetField(engine, "attacker_hp", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(m.boundHost(L).AttackerHP()))
		return 1
	}))
	L.SetField(engine, "defender_hp", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(m.boundHost(L).DefenderHP()))
		return 1
	}))
	L.SetField(engine, "log", L.NewFunction(func(L *lua.LState) int {
		m.boundHost(L).Log(L.CheckString(1))
		return 0
	}))
	L.SetGlobal("engine", engine)
}

// boundHost returns the Host of the running call, raising a Lua error when
// engine functions are used outside RunEffect (e.g. at load time).
func (m *Manager) boundHost(L *lua.LState) Host {
	if m.host == nil {
		L.RaiseError("engine functions are only available inside an effect hook")
	}
	return m.host
}
