package encounter

import "math/rand"

// hand is the hero's playable-card bookkeeping: a draw pile and the held
// cards, both ordered. Shuffles use the engine's seeded RNG so hand state
// replays deterministically with the rest of the encounter.
type hand struct {
	drawPile []string
	held     []string
	removed  []string // exhausted cards, out of the encounter
}

func newHand(cards []string, handSize int, rng *rand.Rand) *hand {
	h := &hand{drawPile: append([]string(nil), cards...)}
	h.shuffle(rng)
	h.draw(handSize)
	return h
}

func (h *hand) shuffle(rng *rand.Rand) {
	rng.Shuffle(len(h.drawPile), func(i, j int) {
		h.drawPile[i], h.drawPile[j] = h.drawPile[j], h.drawPile[i]
	})
}

// draw moves up to n cards from the draw pile into the held cards and
// returns them.
func (h *hand) draw(n int) []string {
	if n > len(h.drawPile) {
		n = len(h.drawPile)
	}
	drawn := h.drawPile[:n]
	h.drawPile = h.drawPile[n:]
	h.held = append(h.held, drawn...)
	return drawn
}

// holds reports whether a card id is currently held.
func (h *hand) holds(id string) bool {
	for _, c := range h.held {
		if c == id {
			return true
		}
	}
	return false
}

// removeHeld takes one copy of id out of the held cards.
func (h *hand) removeHeld(id string) bool {
	for i, c := range h.held {
		if c == id {
			h.held = append(h.held[:i], h.held[i+1:]...)
			return true
		}
	}
	return false
}

// play discharges a held card. Exhausted cards leave the encounter; others
// go to the bottom of the draw pile.
func (h *hand) play(id string, exhaust bool) bool {
	if !h.removeHeld(id) {
		return false
	}
	if exhaust {
		h.removed = append(h.removed, id)
	} else {
		h.drawPile = append(h.drawPile, id)
	}
	return true
}

// mulligan returns the chosen held cards to the draw pile, reshuffles, and
// redraws the same count. Returns false without side effects if the ids are
// not all held, counting duplicates.
func (h *hand) mulligan(ids []string, rng *rand.Rand) ([]string, bool) {
	check := hand{held: append([]string(nil), h.held...)}
	for _, id := range ids {
		if !check.removeHeld(id) {
			return nil, false
		}
	}
	for _, id := range ids {
		h.removeHeld(id)
		h.drawPile = append(h.drawPile, id)
	}
	h.shuffle(rng)
	return h.draw(len(ids)), true
}

// Held returns a copy of the held card ids.
func (h *hand) Held() []string { return append([]string(nil), h.held...) }
