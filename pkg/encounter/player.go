package encounter

import (
	"errors"
	"fmt"

	"github.com/jwebster45206/encounter-engine/pkg/content"
	"github.com/jwebster45206/encounter-engine/pkg/fate"
	"github.com/jwebster45206/encounter-engine/pkg/keyword"
)

// ErrInsufficientResource is returned when a card's cost exceeds the
// hero's remaining willpower.
var ErrInsufficientResource = errors.New("not enough willpower to play card")

// Perform executes one player action. Mulligan is only legal in the intent
// phase; every other action is only legal in the player-action phase and
// consumes the turn, advancing to enemy resolution.
func (e *Engine) Perform(a Action) ([]Event, error) {
	if e.phase.Terminal() {
		return nil, ErrEnded
	}
	if a.Kind == ActionMulligan {
		return e.performMulligan(a)
	}
	if e.phase != PhasePlayerAction {
		return nil, fmt.Errorf("%w: %s during %s", ErrWrongPhase, a.Kind, e.phase)
	}

	var events []Event
	switch a.Kind {
	case ActionAttack:
		foe, err := e.foe(a.Target)
		if err != nil {
			return nil, err
		}
		if !foe.Live() {
			return nil, fmt.Errorf("%w: %q", ErrTargetDown, a.Target)
		}
		e.heroStrike(&events, foe, false)
	case ActionSpiritAttack:
		foe, err := e.foe(a.Target)
		if err != nil {
			return nil, err
		}
		if !foe.Live() {
			return nil, fmt.Errorf("%w: %q", ErrTargetDown, a.Target)
		}
		if !foe.HasWillpower {
			// No spiritual track to attack: a successful no-op. The turn
			// is not consumed and no events are produced.
			return []Event{}, nil
		}
		e.heroStrike(&events, foe, true)
	case ActionDefend:
		e.hero.Defending = true
		e.emit(&events, Event{Kind: EventDefendStance, Entity: e.hero.ID, Round: e.round})
	case ActionPlayCard:
		if err := e.playCard(&events, a); err != nil {
			return nil, err
		}
	case ActionWait:
		// Explicitly no fate draw.
		e.emit(&events, Event{Kind: EventWaited, Entity: e.hero.ID, Round: e.round})
	case ActionEscape:
		e.phase = PhaseEscaped
		e.emit(&events, Event{Kind: EventEscaped, Entity: e.hero.ID, Round: e.round})
		e.finish(OutcomeEscape)
		return events, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
	}

	if !e.checkTerminal(&events) {
		e.phase = PhaseEnemyResolution
	}
	return events, nil
}

// performMulligan handles the one-time mulligan. A second attempt fails
// with ErrMulliganUsed and has no side effect.
func (e *Engine) performMulligan(a Action) ([]Event, error) {
	if e.phase != PhaseIntent {
		return nil, fmt.Errorf("%w: mulligan during %s", ErrWrongPhase, e.phase)
	}
	if e.mulliganUsed {
		return nil, ErrMulliganUsed
	}
	drawn, ok := e.hand.mulligan(a.CardIDs, e.rng)
	if !ok {
		return nil, fmt.Errorf("%w: mulligan names a card not held", ErrUnknownCard)
	}
	e.mulliganUsed = true
	e.flags["mulligan_used"] = true

	var events []Event
	e.emit(&events, Event{Kind: EventMulliganTaken, Entity: e.hero.ID, Amount: len(a.CardIDs)})
	for _, id := range drawn {
		e.emit(&events, Event{Kind: EventHandDrawn, Entity: e.hero.ID, Card: id})
	}
	return events, nil
}

// fateDraw runs the deck pipeline for one action and emits the observable
// sequence in resolution order: draw, suit match check, keyword effect,
// zone adjustment. The returned effect is already doubled or suppressed
// per the match state.
func (e *Engine) fateDraw(batch *[]Event, actor string, ctx keyword.Context) (fate.DrawResult, keyword.Effect, bool) {
	dr, ok := e.deck.Draw(e.res)
	if !ok {
		// Both piles empty: the draw yields no result and the action
		// proceeds without fate.
		return fate.DrawResult{}, keyword.Effect{}, false
	}
	if dr.Reshuffled {
		e.emit(batch, Event{Kind: EventDeckReshuffled, Entity: actor})
	}
	e.emit(batch, Event{Kind: EventCardDrawn, Entity: actor, Card: dr.Card.ID, Amount: dr.Card.Modifier})

	var eff keyword.Effect
	switch {
	case dr.Card.Suit == fate.SuitNone:
		eff = keyword.Resolve(dr.Card.Keyword, ctx, false)
	case string(dr.Card.Suit) == string(ctx):
		e.emit(batch, Event{Kind: EventSuitMatched, Entity: actor, Card: dr.Card.ID})
		eff = keyword.Resolve(dr.Card.Keyword, ctx, true)
	default:
		// The fate is wasted: suppress the keyword entirely.
		e.emit(batch, Event{Kind: EventSuitMismatched, Entity: actor, Card: dr.Card.ID})
		eff = keyword.ResolveMismatch(dr.Card.Keyword, ctx)
	}
	if dr.Card.Keyword != "" {
		e.emit(batch, Event{Kind: EventKeywordEffect, Entity: actor, Card: dr.Card.ID,
			Amount: eff.BonusDamage + eff.BonusValue})
	}
	if dr.ZoneApplied != nil {
		e.emit(batch, Event{Kind: EventZoneAdjusted, Entity: actor, Card: dr.Card.ID,
			Amount: dr.Value - dr.Card.Modifier})
	}
	return dr, eff, true
}

// heroStrike resolves a physical or spiritual attack by the hero.
func (e *Engine) heroStrike(batch *[]Event, foe *combatant, spiritual bool) {
	// Track-switch mechanics, entity-scoped.
	if spiritual && foe.LastHeroTrack == trackPhysical {
		// De-escalation: the opponent braces behind a rage shield.
		foe.RageShieldRounds = rageShieldRounds
		e.emit(batch, Event{Kind: EventRageShield, Entity: foe.ID, Amount: rageShieldDefense, Round: e.round})
	}
	if !spiritual && foe.LastHeroTrack == trackSpiritual {
		// Escalation: catch the opponent off guard, and the world darkens.
		foe.SurpriseRounds = surpriseRounds
		e.emit(batch, Event{Kind: EventSurpriseBonus, Entity: foe.ID, Amount: surpriseDamage, Round: e.round})
		e.shiftResonance(batch, e.hero.ID, escalationShift)
	}
	if spiritual {
		foe.LastHeroTrack = trackSpiritual
	} else {
		foe.LastHeroTrack = trackPhysical
	}

	ctx := keyword.ContextStrike
	if spiritual {
		ctx = keyword.ContextSpirit
	}
	dr, eff, drew := e.fateDraw(batch, e.hero.ID, ctx)

	attack := e.hero.effectivePower(e.res)
	if drew {
		attack += dr.Value + eff.BonusDamage
	}
	if foe.SurpriseRounds > 0 {
		attack += surpriseDamage
	}
	if drew && dr.Card.Critical {
		attack *= 2
	}

	pierce := eff.Special != nil && *eff.Special == keyword.SpecialPierce
	defense := 0
	if !pierce {
		if spiritual {
			defense = foe.effectiveSpiritDefense(e.res)
		} else {
			defense = foe.effectiveDefense(e.res)
		}
	}

	damage := attack - defense
	if damage < 0 {
		damage = 0
	}
	if drew {
		damage = foe.weaknessAdjust(dr.Card.Keyword, damage)
	}

	if spiritual {
		if delta := foe.applyWillpowerDamage(damage); delta != 0 {
			e.emit(batch, Event{Kind: EventWillpowerChange, Entity: foe.ID, Amount: delta})
		}
		if eff.Special != nil && *eff.Special == keyword.SpecialDrain && e.hero.HasWillpower {
			drained := min(damage, e.hero.MaxWillpower-e.hero.Willpower)
			if drained > 0 {
				e.hero.Willpower += drained
				e.emit(batch, Event{Kind: EventWillpowerChange, Entity: e.hero.ID, Amount: drained})
			}
		}
	} else {
		if delta := foe.applyVitalityDamage(damage); delta != 0 {
			e.emit(batch, Event{Kind: EventVitalityChange, Entity: foe.ID, Amount: delta})
		}
	}
	if eff.Special != nil && *eff.Special == keyword.SpecialStagger {
		foe.Staggered = true
	}

	if drew {
		e.applyDrawEffects(batch, e.hero.ID, dr.Effects)
	}
	e.noteFoeDown(batch, foe)
}

// playCard applies a held card's declared effects. The card's cost is paid
// from the hero's willpower pool; exhaust cards leave the encounter.
func (e *Engine) playCard(batch *[]Event, a Action) error {
	def, known := e.cards[a.CardID]
	if !known || !e.hand.holds(a.CardID) {
		return fmt.Errorf("%w: %q", ErrUnknownCard, a.CardID)
	}
	if def.Cost > 0 {
		if e.hero.Willpower < def.Cost {
			return fmt.Errorf("%w: %q costs %d", ErrInsufficientResource, a.CardID, def.Cost)
		}
		e.hero.Willpower -= def.Cost
		e.emit(batch, Event{Kind: EventWillpowerChange, Entity: e.hero.ID, Amount: -def.Cost})
	}

	e.hand.play(a.CardID, def.Exhaust)
	e.emit(batch, Event{Kind: EventCardPlayed, Entity: e.hero.ID, Card: a.CardID, Round: e.round})
	if def.Exhaust {
		e.emit(batch, Event{Kind: EventCardExhausted, Entity: e.hero.ID, Card: a.CardID})
	}

	for _, eff := range def.Effects {
		switch eff.Kind {
		case content.CardEffectDamage:
			foe, err := e.foe(a.Target)
			if err != nil || !foe.Live() {
				continue
			}
			if delta := foe.applyVitalityDamage(eff.Amount); delta != 0 {
				e.emit(batch, Event{Kind: EventVitalityChange, Entity: foe.ID, Amount: delta})
			}
			e.noteFoeDown(batch, foe)
		case content.CardEffectHeal:
			if delta := e.hero.heal(eff.Amount); delta != 0 {
				e.emit(batch, Event{Kind: EventHealed, Entity: e.hero.ID, Amount: delta})
				e.emit(batch, Event{Kind: EventVitalityChange, Entity: e.hero.ID, Amount: delta})
			}
		case content.CardEffectDraw:
			for _, id := range e.hand.draw(eff.Amount) {
				e.emit(batch, Event{Kind: EventHandDrawn, Entity: e.hero.ID, Card: id})
			}
		case content.CardEffectResourceGain:
			if e.hero.HasWillpower {
				gain := min(eff.Amount, e.hero.MaxWillpower-e.hero.Willpower)
				if gain > 0 {
					e.hero.Willpower += gain
					e.emit(batch, Event{Kind: EventWillpowerChange, Entity: e.hero.ID, Amount: gain})
				}
			}
		case content.CardEffectStatusApply:
			foe, err := e.foe(a.Target)
			if err != nil || !foe.Live() {
				continue
			}
			foe.Statuses = append(foe.Statuses, status{ID: eff.Status, Damage: eff.Amount, Rounds: eff.Duration})
			e.emit(batch, Event{Kind: EventStatusApplied, Entity: foe.ID, Status: eff.Status,
				Amount: eff.Amount, Round: e.round})
		case content.CardEffectResonanceShift:
			e.shiftResonance(batch, e.hero.ID, float64(eff.Amount))
		case content.CardEffectTensionShift:
			e.shiftTension(batch, e.hero.ID, float64(eff.Amount))
		default:
			// Unhandled effect kinds are deliberate no-ops.
		}
	}
	return nil
}
