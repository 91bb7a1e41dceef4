// Package fate implements the fate deck: the shared card source whose draws
// inject controlled randomness into attack and defense resolution. Draws are
// fully deterministic for a given seed, which is what makes encounter replay
// and regression testing possible.
package fate

import (
	"github.com/jwebster45206/encounter-engine/pkg/keyword"
	"github.com/jwebster45206/encounter-engine/pkg/resonance"
)

// Suit is the optional alignment tag on a card, drawn from the same domain
// as action contexts. When a card's suit matches the context of the action
// it was drawn for, its keyword effect is doubled; when it explicitly
// mismatches, the keyword effect is wasted entirely. Suitless cards resolve
// their keyword at base strength.
type Suit string

const (
	SuitNone        Suit = ""
	SuitStrike      Suit = "strike"
	SuitSpirit      Suit = "spirit"
	SuitDefense     Suit = "defense"
	SuitExploration Suit = "exploration"
	SuitRitual      Suit = "ritual"
)

// DrawEffectKind discriminates the closed set of draw-time side effects.
type DrawEffectKind string

const (
	EffectResonanceShift DrawEffectKind = "resonance_shift"
	EffectTensionShift   DrawEffectKind = "tension_shift"
	// EffectUnhandled is the catch-all arm for effect kinds this engine
	// version does not resolve. Content packs may carry them; the deck
	// reports them untouched and the caller ignores them.
	EffectUnhandled DrawEffectKind = "unhandled"
)

// DrawEffect is a side effect that fires when its card is drawn. The deck
// reports effects as output; it never mutates state outside itself.
type DrawEffect struct {
	Kind   DrawEffectKind `json:"kind"`
	Amount float64        `json:"amount"`
}

// ZoneRule adjusts a card's value when the resonance sits in Zone at draw
// time. At most one rule applies per draw because zones are disjoint.
type ZoneRule struct {
	Zone  resonance.Zone `json:"zone"`
	Delta int            `json:"delta"`
}

// Card is a single fate card. Modifier is the signed base value; Keyword,
// Suit, ZoneRules and DrawEffects are all optional.
type Card struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Modifier    int             `json:"modifier"`
	Keyword     keyword.Keyword `json:"keyword,omitempty"`
	Suit        Suit            `json:"suit,omitempty"`
	Critical    bool            `json:"critical,omitempty"`
	ZoneRules   []ZoneRule      `json:"zone_rules,omitempty"`
	DrawEffects []DrawEffect    `json:"draw_effects,omitempty"`
}

// ValueAt returns the card's effective value for a draw made while the
// resonance value is res: base modifier plus the single matching zone
// adjustment, if any. A rule naming an unknown zone never matches, so
// malformed content degrades to "no adjustment" rather than failing.
func (c Card) ValueAt(res float64) (value int, applied *resonance.Zone) {
	value = c.Modifier
	zone := resonance.ZoneOf(res)
	for _, rule := range c.ZoneRules {
		if rule.Zone == zone {
			value += rule.Delta
			z := rule.Zone
			return value, &z
		}
	}
	return value, nil
}
