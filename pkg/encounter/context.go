package encounter

import (
	"errors"
	"fmt"

	"github.com/jwebster45206/encounter-engine/pkg/content"
	"github.com/jwebster45206/encounter-engine/pkg/fate"
	"github.com/jwebster45206/encounter-engine/pkg/resonance"
)

// Default hand size when the context does not set one.
const defaultHandSize = 3

// Modifier is an encounter-wide adjustment active from the start (terrain,
// blessings, story effects). Applied to the hero's stats at construction.
type Modifier struct {
	ID      string `json:"id"`
	Power   int    `json:"power,omitempty"`
	Defense int    `json:"defense,omitempty"`
}

// Context is the immutable input to one encounter. The engine copies what
// it needs at construction and never mutates the context.
type Context struct {
	Hero        content.HeroDef
	Opponents   []content.EnemyDef
	DeckCards   []fate.Card
	PlayerCards []content.PlayerCardDef
	Modifiers   []Modifier
	Seed        int64
	Resonance   float64 // starting resonance value
	HandSize    int
}

// Construction-time rejections. Everything else the engine degrades
// through; these would make the encounter meaningless.
var (
	ErrNoOpponents = errors.New("encounter requires at least one opponent")
	ErrHeroDown    = errors.New("hero must start with positive vitality")
	ErrNoDeck      = errors.New("encounter requires a fate deck")
)

// validate rejects irrecoverable inputs before any resolution begins.
func (ctx Context) validate() error {
	if len(ctx.Opponents) == 0 {
		return ErrNoOpponents
	}
	if ctx.Hero.Vitality <= 0 {
		return ErrHeroDown
	}
	if len(ctx.DeckCards) == 0 {
		return ErrNoDeck
	}
	seen := make(map[string]bool, len(ctx.Opponents)+1)
	seen[ctx.Hero.ID] = true
	for _, o := range ctx.Opponents {
		if o.ID == "" {
			return fmt.Errorf("opponent with empty id")
		}
		if seen[o.ID] {
			return fmt.Errorf("duplicate entity id %q", o.ID)
		}
		seen[o.ID] = true
		if o.Vitality <= 0 {
			return fmt.Errorf("opponent %q must start with positive vitality", o.ID)
		}
	}
	if ctx.Resonance < resonance.Min || ctx.Resonance > resonance.Max {
		return fmt.Errorf("starting resonance %v outside [%v, %v]", ctx.Resonance, resonance.Min, resonance.Max)
	}
	return nil
}
