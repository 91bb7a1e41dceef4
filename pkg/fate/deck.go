package fate

import (
	"fmt"
	"math/rand"

	"github.com/jwebster45206/encounter-engine/pkg/resonance"
)

// Deck holds the ordered draw and discard piles and the seeded RNG that
// shuffles them. The two piles are disjoint and together always hold the
// full card set the deck was built with.
type Deck struct {
	drawPile    []Card
	discardPile []Card
	seed        int64
	rng         *rand.Rand
	draws       int64
}

// DrawResult reports one resolved draw. Effects are reported for the caller
// to apply; the deck itself only moves the card to the discard pile.
type DrawResult struct {
	Card        Card
	Value       int
	ZoneApplied *resonance.Zone
	Effects     []DrawEffect
	Reshuffled  bool
}

// NewDeck builds a shuffled deck from the full card set. The initial order
// is a seeded shuffle of cards, so two decks built from the same inputs
// draw identical sequences.
func NewDeck(cards []Card, seed int64) (*Deck, error) {
	if len(cards) == 0 {
		return nil, fmt.Errorf("deck requires at least one card")
	}
	seen := make(map[string]bool, len(cards))
	for _, c := range cards {
		if c.ID == "" {
			return nil, fmt.Errorf("deck contains a card with no id")
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("duplicate card id %q", c.ID)
		}
		seen[c.ID] = true
	}

	d := &Deck{
		drawPile: append([]Card(nil), cards...),
		seed:     seed,
		rng:      rand.New(rand.NewSource(seed)),
	}
	d.shuffleDrawPile()
	return d, nil
}

// Restore rebuilds a deck from an explicit pile split, for replay from a
// snapshot. The piles must be disjoint.
func Restore(drawPile, discardPile []Card, seed int64) (*Deck, error) {
	seen := make(map[string]bool, len(drawPile)+len(discardPile))
	for _, c := range append(append([]Card(nil), drawPile...), discardPile...) {
		if seen[c.ID] {
			return nil, fmt.Errorf("card %q appears in both piles", c.ID)
		}
		seen[c.ID] = true
	}
	return &Deck{
		drawPile:    append([]Card(nil), drawPile...),
		discardPile: append([]Card(nil), discardPile...),
		seed:        seed,
		rng:         rand.New(rand.NewSource(seed)),
	}, nil
}

func (d *Deck) shuffleDrawPile() {
	d.rng.Shuffle(len(d.drawPile), func(i, j int) {
		d.drawPile[i], d.drawPile[j] = d.drawPile[j], d.drawPile[i]
	})
}

// Draw takes the top card and resolves its value against the current
// resonance. An empty draw pile reshuffles the discard pile back in first.
// ok is false only when both piles are empty.
func (d *Deck) Draw(res float64) (result DrawResult, ok bool) {
	reshuffled := false
	if len(d.drawPile) == 0 {
		if len(d.discardPile) == 0 {
			return DrawResult{}, false
		}
		d.drawPile = d.discardPile
		d.discardPile = nil
		d.shuffleDrawPile()
		reshuffled = true
	}

	card := d.drawPile[0]
	d.drawPile = d.drawPile[1:]
	d.discardPile = append(d.discardPile, card)
	d.draws++

	value, applied := card.ValueAt(res)
	return DrawResult{
		Card:        card,
		Value:       value,
		ZoneApplied: applied,
		Effects:     card.DrawEffects,
		Reshuffled:  reshuffled,
	}, true
}

// Remaining returns the number of cards left in the draw pile.
func (d *Deck) Remaining() int { return len(d.drawPile) }

// Discarded returns the number of cards in the discard pile.
func (d *Deck) Discarded() int { return len(d.discardPile) }

// Draws returns how many draws the deck has served. Together with the seed
// this identifies the RNG state for the encounter result.
func (d *Deck) Draws() int64 { return d.draws }

// Seed returns the seed the deck was built with.
func (d *Deck) Seed() int64 { return d.seed }

// Snapshot returns copies of both piles in order.
func (d *Deck) Snapshot() (drawPile, discardPile []Card) {
	return append([]Card(nil), d.drawPile...), append([]Card(nil), d.discardPile...)
}
