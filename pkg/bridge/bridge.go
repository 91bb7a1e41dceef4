// Package bridge maintains d20.Actor mirrors of encounter entities for
// callers still on the legacy d20 API. The bridge is a pure event consumer:
// it observes the engine's event stream and keeps its actors in sync. It
// never calls back into the engine.
package bridge

import (
	"fmt"

	"github.com/jwebster45206/d20"

	"github.com/jwebster45206/encounter-engine/pkg/content"
	"github.com/jwebster45206/encounter-engine/pkg/encounter"
)

// Bridge mirrors entity vitals into d20 actors.
type Bridge struct {
	actors map[string]*d20.Actor
}

// New builds one actor per entity from the same definitions the encounter
// was constructed with. Defense maps onto AC; power rides along as an
// attribute for legacy consumers.
func New(hero content.HeroDef, enemies []content.EnemyDef) (*Bridge, error) {
	b := &Bridge{actors: make(map[string]*d20.Actor, len(enemies)+1)}

	heroActor, err := d20.NewActor(hero.ID).
		WithHP(hero.Vitality).
		WithAC(hero.Defense).
		WithAttributes(map[string]int{
			"power":          hero.Power,
			"spirit_defense": hero.SpiritDefense,
			"willpower":      hero.Willpower,
		}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build hero actor: %w", err)
	}
	b.actors[hero.ID] = heroActor

	for _, e := range enemies {
		actor, err := d20.NewActor(e.ID).
			WithHP(e.Vitality).
			WithAC(e.Defense).
			WithAttributes(map[string]int{
				"power":          e.Power,
				"spirit_defense": e.SpiritDefense,
				"willpower":      e.Willpower,
			}).
			Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build actor %s: %w", e.ID, err)
		}
		b.actors[e.ID] = actor
	}
	return b, nil
}

// Actor returns the mirrored actor for an entity id.
func (b *Bridge) Actor(id string) (*d20.Actor, bool) {
	a, ok := b.actors[id]
	return a, ok
}

// Apply folds a batch of engine events into the mirrored actors. Unknown
// entities and event kinds are skipped; the bridge mirrors what it can.
func (b *Bridge) Apply(events []encounter.Event) error {
	for _, ev := range events {
		actor, ok := b.actors[ev.Entity]
		if !ok {
			continue
		}
		switch ev.Kind {
		case encounter.EventVitalityChange:
			hp := actor.HP() + ev.Amount
			if hp < 0 {
				hp = 0
			}
			if err := actor.SetHP(hp); err != nil {
				return fmt.Errorf("failed to mirror vitality for %s: %w", ev.Entity, err)
			}
		case encounter.EventHealed:
			// Already folded into the vitality_changed event that
			// accompanies every heal.
		}
	}
	return nil
}
