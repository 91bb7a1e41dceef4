package encounter

import (
	"errors"

	"github.com/google/uuid"

	"github.com/jwebster45206/encounter-engine/pkg/fate"
)

// OutcomeKind is the encounter-level result.
type OutcomeKind string

const (
	OutcomeVictoryKilled   OutcomeKind = "victory_killed"
	OutcomeVictoryPacified OutcomeKind = "victory_pacified"
	OutcomeVictoryMixed    OutcomeKind = "victory_mixed"
	OutcomeDefeat          OutcomeKind = "defeat"
	OutcomeEscape          OutcomeKind = "escape"
)

// Victory reports whether the outcome is any victory type.
func (k OutcomeKind) Victory() bool {
	return k == OutcomeVictoryKilled || k == OutcomeVictoryPacified || k == OutcomeVictoryMixed
}

// Transaction aggregates the net state changes of the whole encounter.
type Transaction struct {
	VitalityDelta  int             `json:"vitality_delta"`
	ResourceDelta  int             `json:"resource_delta"`
	ResonanceDelta float64         `json:"resonance_delta"`
	TensionDelta   float64         `json:"tension_delta"`
	Flags          map[string]bool `json:"flags,omitempty"`
	Loot           []string        `json:"loot,omitempty"`
	Reward         int             `json:"reward,omitempty"`
}

// Result is the terminal record of an encounter, produced once when a
// terminal phase is reached and immutable thereafter.
type Result struct {
	EncounterID    uuid.UUID             `json:"encounter_id"`
	Outcome        OutcomeKind           `json:"outcome"`
	Rounds         int                   `json:"rounds"`
	EntityOutcomes map[string]OutcomeTag `json:"entity_outcomes"`
	Transaction    Transaction           `json:"transaction"`
	DeckDrawPile   []fate.Card           `json:"deck_draw_pile"`
	DeckDiscard    []fate.Card           `json:"deck_discard"`
	Seed           int64                 `json:"seed"`
	DeckDraws      int64                 `json:"deck_draws"`
	FinalResonance float64               `json:"final_resonance"`
}

// ErrNotEnded is returned by Result before a terminal phase is reached.
var ErrNotEnded = errors.New("encounter has not ended")

// Result returns the terminal record, or ErrNotEnded while the encounter
// is still running.
func (e *Engine) Result() (*Result, error) {
	if e.result == nil {
		return nil, ErrNotEnded
	}
	return e.result, nil
}

// collectLoot banks a downed opponent's loot and reward. The entity record
// itself persists; only its participation in resolution ends.
func (e *Engine) collectLoot(foe *combatant) {
	e.loot = append(e.loot, foe.LootCards...)
	e.reward += foe.Reward
}

// finish builds the immutable result. Called exactly once, by the terminal
// transition.
func (e *Engine) finish(kind OutcomeKind) {
	if e.result != nil {
		return
	}
	switch kind {
	case OutcomeVictoryPacified:
		e.flags["pacifist"] = true
	case OutcomeEscape:
		e.flags["fled"] = true
	}

	outcomes := make(map[string]OutcomeTag, len(e.foes)+1)
	outcomes[e.hero.ID] = TagAlive
	if kind == OutcomeDefeat {
		outcomes[e.hero.ID] = TagKilled
	}
	for i := range e.foes {
		outcomes[e.foes[i].ID] = e.foes[i].Outcome
	}

	drawPile, discard := e.deck.Snapshot()
	loot := e.loot
	reward := e.reward
	if !kind.Victory() {
		loot = nil
		reward = 0
	}

	e.result = &Result{
		EncounterID:    e.id,
		Outcome:        kind,
		Rounds:         e.round,
		EntityOutcomes: outcomes,
		Transaction: Transaction{
			VitalityDelta:  e.hero.Vitality - e.startVitality,
			ResourceDelta:  e.hero.Willpower - e.startWillpower,
			ResonanceDelta: e.res - e.startResonance,
			TensionDelta:   e.tension,
			Flags:          e.flags,
			Loot:           loot,
			Reward:         reward,
		},
		DeckDrawPile:   drawPile,
		DeckDiscard:    discard,
		Seed:           e.deck.Seed(),
		DeckDraws:      e.deck.Draws(),
		FinalResonance: e.res,
	}
}
