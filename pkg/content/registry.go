package content

import (
	"fmt"

	"github.com/jwebster45206/encounter-engine/pkg/fate"
)

// Registry is an explicitly constructed read-only lookup over a pack's
// definitions. It replaces any notion of a global content registry: build
// one, hand it to whatever needs it.
type Registry struct {
	pack        *Pack
	heroes      map[string]HeroDef
	enemies     map[string]EnemyDef
	playerCards map[string]PlayerCardDef
}

// NewRegistry indexes a validated pack.
func NewRegistry(p *Pack) *Registry {
	r := &Registry{
		pack:        p,
		heroes:      make(map[string]HeroDef, len(p.Data.Heroes)),
		enemies:     make(map[string]EnemyDef, len(p.Data.Enemies)),
		playerCards: make(map[string]PlayerCardDef, len(p.Data.PlayerCards)),
	}
	for _, h := range p.Data.Heroes {
		r.heroes[h.ID] = h
	}
	for _, e := range p.Data.Enemies {
		r.enemies[e.ID] = e
	}
	for _, c := range p.Data.PlayerCards {
		r.playerCards[c.ID] = c
	}
	return r
}

// Pack returns the underlying pack.
func (r *Registry) Pack() *Pack { return r.pack }

// Hero looks up a hero definition by id.
func (r *Registry) Hero(id string) (HeroDef, error) {
	h, ok := r.heroes[id]
	if !ok {
		return HeroDef{}, fmt.Errorf("unknown hero %q in pack %s", id, r.pack.Name)
	}
	return h, nil
}

// Enemy looks up an enemy definition by id.
func (r *Registry) Enemy(id string) (EnemyDef, error) {
	e, ok := r.enemies[id]
	if !ok {
		return EnemyDef{}, fmt.Errorf("unknown enemy %q in pack %s", id, r.pack.Name)
	}
	return e, nil
}

// PlayerCard looks up a playable card definition by id.
func (r *Registry) PlayerCard(id string) (PlayerCardDef, bool) {
	c, ok := r.playerCards[id]
	return c, ok
}

// PlayerCards returns the card definitions for a list of ids, skipping any
// that are not defined.
func (r *Registry) PlayerCards(ids []string) []PlayerCardDef {
	out := make([]PlayerCardDef, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.playerCards[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// FateCards returns a copy of the pack's fate card set.
func (r *Registry) FateCards() []fate.Card {
	return append([]fate.Card(nil), r.pack.Data.FateCards...)
}
