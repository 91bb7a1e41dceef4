package encounter

import (
	"fmt"

	"github.com/jwebster45206/encounter-engine/pkg/behavior"
	"github.com/jwebster45206/encounter-engine/pkg/keyword"
)

// ResolveEnemies resolves every live opponent's declared intent against the
// hero, in opponent order. Each intent is discharged exactly once. Advances
// to round end unless a resolution ended the encounter.
func (e *Engine) ResolveEnemies() ([]Event, error) {
	if e.phase.Terminal() {
		return nil, ErrEnded
	}
	if e.phase != PhaseEnemyResolution {
		return nil, fmt.Errorf("%w: resolve enemies during %s", ErrWrongPhase, e.phase)
	}

	var events []Event
	for i := range e.foes {
		foe := &e.foes[i]
		if !foe.Live() || foe.Intent == nil {
			continue
		}
		intent := *foe.Intent
		foe.Intent = nil

		if foe.Staggered {
			// A staggered opponent loses this intent entirely.
			foe.Staggered = false
			continue
		}

		e.resolveIntent(&events, foe, intent)
		if e.checkTerminal(&events) {
			return events, nil
		}
	}

	e.phase = PhaseRoundEnd
	return events, nil
}

// resolveIntent applies one declared intent from the opponent's side.
// Intents the hero has no stake in (wait, unknown kinds) are no-ops.
func (e *Engine) resolveIntent(batch *[]Event, foe *combatant, intent behavior.Intent) {
	switch intent.Kind {
	case behavior.IntentAttack:
		e.enemyAttack(batch, foe, intent.Value, false)
	case behavior.IntentSpiritAttack:
		if e.hero.HasWillpower {
			e.enemyAttack(batch, foe, intent.Value, true)
		}
	case behavior.IntentHeal:
		if delta := foe.heal(intent.Value); delta != 0 {
			e.emit(batch, Event{Kind: EventHealed, Entity: foe.ID, Amount: delta})
			e.emit(batch, Event{Kind: EventVitalityChange, Entity: foe.ID, Amount: delta})
		}
	case behavior.IntentRitual:
		e.shiftResonance(batch, foe.ID, float64(intent.Value))
	case behavior.IntentDefend:
		foe.Defending = true
		e.emit(batch, Event{Kind: EventDefendStance, Entity: foe.ID, Round: e.round})
	default:
		// wait and anything unrecognized: nothing happens to the hero.
	}
}

// enemyAttack resolves an opponent's attack against the hero. The hero
// makes a defensive fate draw; its value and any defensive keyword effect
// reduce the incoming damage.
func (e *Engine) enemyAttack(batch *[]Event, foe *combatant, value int, spiritual bool) {
	dr, eff, drew := e.fateDraw(batch, e.hero.ID, keyword.ContextDefense)

	attack := foe.effectivePower(e.res) + value
	defense := e.hero.Defense
	if spiritual {
		defense = e.hero.SpiritDefense
	}
	if e.hero.Defending {
		defense += defendStanceBonus
	}
	if drew {
		defense += dr.Value + eff.BonusValue
	}

	if drew && eff.Special != nil {
		switch *eff.Special {
		case keyword.SpecialFortify:
			// The stance holds into the coming round.
			e.hero.Defending = true
			e.hero.FortifiedRounds = 1
			e.emit(batch, Event{Kind: EventDefendStance, Entity: e.hero.ID, Round: e.round})
		case keyword.SpecialStagger:
			foe.Staggered = true
		case keyword.SpecialCleanse:
			for _, s := range e.hero.Statuses {
				e.emit(batch, Event{Kind: EventStatusExpired, Entity: e.hero.ID, Status: s.ID})
			}
			e.hero.Statuses = nil
		}
	}

	damage := attack - defense
	if damage < 0 {
		damage = 0
	}

	if spiritual {
		if delta := e.hero.applyWillpowerDamage(damage); delta != 0 {
			e.emit(batch, Event{Kind: EventWillpowerChange, Entity: e.hero.ID, Amount: delta})
		}
	} else {
		if delta := e.hero.applyVitalityDamage(damage); delta != 0 {
			e.emit(batch, Event{Kind: EventVitalityChange, Entity: e.hero.ID, Amount: delta})
		}
	}

	if drew {
		e.applyDrawEffects(batch, e.hero.ID, dr.Effects)
	}
}
