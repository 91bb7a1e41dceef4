// Package encounter implements the deterministic encounter resolution
// engine: a phase state machine over a hero and one or more opponents,
// driven by seeded fate draws and a per-opponent behavior evaluator.
// Every public operation runs to completion synchronously and returns the
// ordered list of state-change events it produced.
package encounter

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/jwebster45206/encounter-engine/pkg/behavior"
	"github.com/jwebster45206/encounter-engine/pkg/content"
	"github.com/jwebster45206/encounter-engine/pkg/fate"
	"github.com/jwebster45206/encounter-engine/pkg/resonance"
)

// Phase is a state of the encounter state machine.
type Phase string

const (
	PhaseIntent          Phase = "intent"
	PhasePlayerAction    Phase = "playerAction"
	PhaseEnemyResolution Phase = "enemyResolution"
	PhaseRoundEnd        Phase = "roundEnd"
	PhaseVictory         Phase = "victory"
	PhaseDefeat          Phase = "defeat"
	PhaseEscaped         Phase = "escaped"
)

// Terminal reports whether the phase ends the encounter.
func (p Phase) Terminal() bool {
	return p == PhaseVictory || p == PhaseDefeat || p == PhaseEscaped
}

// Tuning constants for the track-switch and stance mechanics.
const (
	rageShieldRounds  = 2
	rageShieldDefense = 2
	surpriseRounds    = 1
	surpriseDamage    = 3
	defendStanceBonus = 3
	weaknessBonus     = 2
	strengthPenalty   = 2

	// Escalating back to violence pushes the world toward discord.
	escalationShift = -1.0
)

// Expected runtime failures, reported as tagged errors rather than panics.
var (
	ErrWrongPhase    = errors.New("action not legal in current phase")
	ErrMulliganUsed  = errors.New("mulligan already used this encounter")
	ErrUnknownTarget = errors.New("unknown target entity")
	ErrTargetDown    = errors.New("target already killed or pacified")
	ErrUnknownCard   = errors.New("card not held")
	ErrUnknownAction = errors.New("unknown action kind")
	ErrEnded         = errors.New("encounter already ended")
)

// Engine owns all mutable encounter state. It is not safe for concurrent
// use; batch simulation runs one engine per goroutine instead of sharing.
type Engine struct {
	id    uuid.UUID
	phase Phase
	round int

	res     float64
	tension float64

	deck *fate.Deck
	hand *hand
	rng  *rand.Rand

	hero     combatant
	foes     []combatant
	foeIndex map[string]int

	cards map[string]content.PlayerCardDef

	mulliganUsed bool

	startResonance float64
	startVitality  int
	startWillpower int

	flags  map[string]bool
	loot   []string
	reward int
	log    []Event

	result *Result
}

// New derives the engine's working state from an immutable context. The
// context is validated first; irrecoverable inputs are rejected here,
// before any resolution begins.
func New(ctx Context) (*Engine, error) {
	if err := ctx.validate(); err != nil {
		return nil, err
	}

	deck, err := fate.NewDeck(ctx.DeckCards, ctx.Seed)
	if err != nil {
		return nil, fmt.Errorf("invalid fate deck: %w", err)
	}

	hero := heroCombatant(ctx.Hero)
	for _, m := range ctx.Modifiers {
		hero.Power += m.Power
		hero.Defense += m.Defense
	}

	e := &Engine{
		id:             uuid.New(),
		phase:          PhaseIntent,
		round:          1,
		res:            ctx.Resonance,
		deck:           deck,
		rng:            rand.New(rand.NewSource(ctx.Seed + 1)),
		hero:           hero,
		foeIndex:       make(map[string]int, len(ctx.Opponents)),
		cards:          make(map[string]content.PlayerCardDef, len(ctx.PlayerCards)),
		startResonance: ctx.Resonance,
		startVitality:  hero.Vitality,
		startWillpower: hero.Willpower,
		flags:          make(map[string]bool),
	}
	for i, def := range ctx.Opponents {
		e.foes = append(e.foes, enemyCombatant(def))
		e.foeIndex[def.ID] = i
	}
	for _, c := range ctx.PlayerCards {
		e.cards[c.ID] = c
	}

	handSize := ctx.HandSize
	if handSize <= 0 {
		handSize = defaultHandSize
	}
	e.hand = newHand(ctx.Hero.HandCards, handSize, e.rng)

	return e, nil
}

// ID returns the encounter's unique identifier.
func (e *Engine) ID() uuid.UUID { return e.id }

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.phase }

// Round returns the 1-based round counter. Hosts that want a round-count
// ceiling enforce it on this value; the engine itself never times out.
func (e *Engine) Round() int { return e.round }

// Resonance returns the current resonance value.
func (e *Engine) Resonance() float64 { return e.res }

// Held returns the hero's held card ids.
func (e *Engine) Held() []string { return e.hand.Held() }

// Events returns the full ordered event log since construction.
func (e *Engine) Events() []Event { return append([]Event(nil), e.log...) }

// Hero returns the hero's id, current and maximum vitality.
func (e *Engine) Hero() (id string, vitality, maxVitality int) {
	return e.hero.ID, e.hero.Vitality, e.hero.MaxVitality
}

// Opponent reports an opponent's current vitals and outcome tag.
func (e *Engine) Opponent(id string) (vitality, willpower int, tag OutcomeTag, ok bool) {
	i, found := e.foeIndex[id]
	if !found {
		return 0, 0, "", false
	}
	f := &e.foes[i]
	return f.Vitality, f.Willpower, f.Outcome, true
}

// Intents returns the currently declared opponent intents by entity id.
func (e *Engine) Intents() map[string]behavior.Intent {
	out := make(map[string]behavior.Intent)
	for i := range e.foes {
		if e.foes[i].Intent != nil {
			out[e.foes[i].ID] = *e.foes[i].Intent
		}
	}
	return out
}

// emit appends events to the engine log and the current operation's batch.
func (e *Engine) emit(batch *[]Event, events ...Event) {
	*batch = append(*batch, events...)
	e.log = append(e.log, events...)
}

// GenerateIntents runs the behavior evaluator for every live opponent that
// has no declared intent, then advances to the player-action phase. Intents
// are always re-evaluated from current state, never cached across rounds.
func (e *Engine) GenerateIntents() ([]Event, error) {
	if e.phase.Terminal() {
		return nil, ErrEnded
	}
	if e.phase != PhaseIntent {
		return nil, fmt.Errorf("%w: generate intents during %s", ErrWrongPhase, e.phase)
	}

	var events []Event
	for i := range e.foes {
		foe := &e.foes[i]
		if !foe.Live() || foe.Intent != nil {
			continue
		}
		bctx := behavior.Context{
			HealthPct:   float64(foe.Vitality) / float64(foe.MaxVitality),
			Round:       e.round,
			Power:       foe.effectivePower(e.res),
			Defense:     foe.effectiveDefense(e.res),
			Vitality:    foe.Vitality,
			MaxVitality: foe.MaxVitality,
		}
		intent := behavior.Evaluate(foe.Behavior, bctx)
		foe.Intent = &intent
		e.emit(&events, Event{
			Kind:   EventIntentDeclared,
			Entity: foe.ID,
			Intent: string(intent.Kind),
			Amount: intent.Value,
			Round:  e.round,
		})
	}

	e.phase = PhasePlayerAction
	return events, nil
}

// foe resolves a live opponent by id.
func (e *Engine) foe(id string) (*combatant, error) {
	i, ok := e.foeIndex[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, id)
	}
	return &e.foes[i], nil
}

// shiftResonance mutates the resonance value and emits the shift event.
func (e *Engine) shiftResonance(batch *[]Event, entity string, delta float64) {
	e.res = resonance.Shift(e.res, delta)
	e.emit(batch, Event{Kind: EventResonanceShift, Entity: entity, Delta: delta, Value: e.res})
}

// shiftTension mutates the external tension value and emits the event. The
// engine tracks the running value only so the result can report the net
// delta; tension belongs to the host.
func (e *Engine) shiftTension(batch *[]Event, entity string, delta float64) {
	e.tension += delta
	e.emit(batch, Event{Kind: EventTensionShift, Entity: entity, Delta: delta, Value: e.tension})
}

// applyDrawEffects applies a draw's reported side effects to engine state.
func (e *Engine) applyDrawEffects(batch *[]Event, entity string, effects []fate.DrawEffect) {
	for _, eff := range effects {
		switch eff.Kind {
		case fate.EffectResonanceShift:
			e.shiftResonance(batch, entity, eff.Amount)
		case fate.EffectTensionShift:
			e.shiftTension(batch, entity, eff.Amount)
		default:
			// Unhandled effect kinds pass through untouched.
		}
	}
}

// checkTerminal runs the victory/defeat check. It is idempotent: calling it
// when the state has not changed emits nothing. Defeat takes precedence.
func (e *Engine) checkTerminal(batch *[]Event) bool {
	if e.phase.Terminal() {
		return true
	}
	if e.hero.Vitality <= 0 {
		e.phase = PhaseDefeat
		e.emit(batch, Event{Kind: EventDefeat, Entity: e.hero.ID, Round: e.round})
		e.finish(OutcomeDefeat)
		return true
	}

	killed, pacified := 0, 0
	for i := range e.foes {
		switch e.foes[i].Outcome {
		case TagKilled:
			killed++
		case TagPacified:
			pacified++
		default:
			return false // someone still stands
		}
	}

	var outcome OutcomeKind
	switch {
	case pacified == 0:
		outcome = OutcomeVictoryKilled
	case killed == 0:
		outcome = OutcomeVictoryPacified
	default:
		outcome = OutcomeVictoryMixed
	}
	e.phase = PhaseVictory
	e.emit(batch, Event{Kind: EventVictory, Entity: e.hero.ID, Round: e.round})
	e.finish(outcome)
	return true
}

// EndRound closes the round: the counter advances, opponent intents clear,
// timed statuses tick (damage first, then duration), and the track-switch
// transients decay by one round. Returns to the intent phase unless a
// status tick ended the encounter.
func (e *Engine) EndRound() ([]Event, error) {
	if e.phase.Terminal() {
		return nil, ErrEnded
	}
	if e.phase != PhaseRoundEnd {
		return nil, fmt.Errorf("%w: end round during %s", ErrWrongPhase, e.phase)
	}

	var events []Event
	e.round++
	e.emit(&events, Event{Kind: EventRoundAdvanced, Round: e.round})

	for i := range e.foes {
		e.foes[i].Intent = nil
	}

	e.tickStatuses(&events, &e.hero)
	for i := range e.foes {
		if e.foes[i].Live() {
			e.tickStatuses(&events, &e.foes[i])
			e.noteFoeDown(&events, &e.foes[i])
		}
	}

	for i := range e.foes {
		foe := &e.foes[i]
		if foe.RageShieldRounds > 0 {
			foe.RageShieldRounds--
		}
		if foe.SurpriseRounds > 0 {
			foe.SurpriseRounds--
		}
		foe.Defending = false
	}
	if e.hero.FortifiedRounds > 0 {
		e.hero.FortifiedRounds--
	} else {
		e.hero.Defending = false
	}

	if e.checkTerminal(&events) {
		return events, nil
	}
	e.phase = PhaseIntent
	return events, nil
}

// tickStatuses applies damage-over-time, then decrements durations.
func (e *Engine) tickStatuses(batch *[]Event, c *combatant) {
	remaining := c.Statuses[:0]
	for _, s := range c.Statuses {
		if s.Damage > 0 {
			delta := c.applyVitalityDamage(s.Damage)
			e.emit(batch, Event{Kind: EventStatusTicked, Entity: c.ID, Status: s.ID, Amount: delta})
			e.emit(batch, Event{Kind: EventVitalityChange, Entity: c.ID, Amount: delta})
		}
		s.Rounds--
		if s.Rounds > 0 {
			remaining = append(remaining, s)
		} else {
			e.emit(batch, Event{Kind: EventStatusExpired, Entity: c.ID, Status: s.ID})
		}
	}
	c.Statuses = remaining
}

// noteFoeDown tags an opponent whose tracks were emptied outside direct
// attack resolution (status ticks). Vitality loss always means killed;
// willpower loss with vitality remaining means pacified.
func (e *Engine) noteFoeDown(batch *[]Event, foe *combatant) {
	if foe.Outcome != TagAlive {
		return
	}
	if foe.Vitality <= 0 {
		foe.Outcome = TagKilled
		e.emit(batch, Event{Kind: EventEntityKilled, Entity: foe.ID, Round: e.round})
		e.collectLoot(foe)
		return
	}
	if foe.HasWillpower && foe.Willpower <= 0 {
		foe.Outcome = TagPacified
		e.emit(batch, Event{Kind: EventEntityPacified, Entity: foe.ID, Round: e.round})
		e.collectLoot(foe)
	}
}
