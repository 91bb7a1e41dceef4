package encounter

import (
	"github.com/jwebster45206/encounter-engine/pkg/behavior"
	"github.com/jwebster45206/encounter-engine/pkg/content"
	"github.com/jwebster45206/encounter-engine/pkg/keyword"
	"github.com/jwebster45206/encounter-engine/pkg/resonance"
)

// OutcomeTag is an entity's terminal state within the encounter.
type OutcomeTag string

const (
	TagAlive    OutcomeTag = "alive"
	TagKilled   OutcomeTag = "killed"
	TagPacified OutcomeTag = "pacified"
)

// track is the attack track the hero last used against an entity.
type track int

const (
	trackNone track = iota
	trackPhysical
	trackSpiritual
)

// status is a timed effect on an entity. Damage is applied at each round
// end, then Rounds decrements; the status expires at zero.
type status struct {
	ID     string
	Damage int
	Rounds int
}

// combatant is the engine-owned working state of one entity. Entities are
// value records addressed by id inside the engine; all mutation goes
// through the engine's action handling.
type combatant struct {
	ID            string
	Name          string
	Vitality      int
	MaxVitality   int
	Willpower     int
	MaxWillpower  int
	HasWillpower  bool
	Power         int
	Defense       int
	SpiritDefense int

	ZoneMods   map[resonance.Zone]content.ZoneMod
	LootCards  []string
	Reward     int
	Weaknesses []keyword.Keyword
	Strengths  []keyword.Keyword
	Abilities  []string
	Behavior   behavior.Definition

	Outcome OutcomeTag
	Intent  *behavior.Intent

	// Transients, entity-scoped. Rounds remaining; tick down at round end.
	RageShieldRounds int // bonus defense granted by a de-escalation
	SurpriseRounds   int // hero's bonus damage granted by an escalation
	FortifiedRounds  int // rounds the defend stance outlives its round end
	Defending        bool
	Staggered        bool // loses its next intent resolution

	LastHeroTrack track
	Statuses      []status
}

func newCombatant(id, name string, vitality, willpower, power, defense, spiritDefense int) combatant {
	return combatant{
		ID:            id,
		Name:          name,
		Vitality:      vitality,
		MaxVitality:   vitality,
		Willpower:     willpower,
		MaxWillpower:  willpower,
		HasWillpower:  willpower > 0,
		Power:         power,
		Defense:       defense,
		SpiritDefense: spiritDefense,
		Outcome:       TagAlive,
	}
}

func heroCombatant(def content.HeroDef) combatant {
	return newCombatant(def.ID, def.Name, def.Vitality, def.Willpower, def.Power, def.Defense, def.SpiritDefense)
}

func enemyCombatant(def content.EnemyDef) combatant {
	c := newCombatant(def.ID, def.Name, def.Vitality, def.Willpower, def.Power, def.Defense, def.SpiritDefense)
	c.ZoneMods = def.ZoneMods
	c.LootCards = def.LootCards
	c.Reward = def.Reward
	c.Weaknesses = def.Weaknesses
	c.Strengths = def.Strengths
	c.Abilities = def.Abilities
	c.Behavior = def.Behavior
	return c
}

// Live reports whether the entity still participates in resolution.
func (c *combatant) Live() bool { return c.Outcome == TagAlive }

// effectivePower is the entity's power adjusted by the zone modifier for
// the current resonance. The zone is looked up at the moment of use, never
// cached across rounds.
func (c *combatant) effectivePower(res float64) int {
	p := c.Power
	if m, ok := c.ZoneMods[resonance.ZoneOf(res)]; ok {
		p += m.Power
	}
	return p
}

// effectiveDefense is the physical defense including zone modifier, rage
// shield and defend stance.
func (c *combatant) effectiveDefense(res float64) int {
	d := c.Defense
	if m, ok := c.ZoneMods[resonance.ZoneOf(res)]; ok {
		d += m.Defense
	}
	if c.RageShieldRounds > 0 {
		d += rageShieldDefense
	}
	if c.Defending {
		d += defendStanceBonus
	}
	return d
}

// effectiveSpiritDefense mirrors effectiveDefense for the willpower track.
func (c *combatant) effectiveSpiritDefense(res float64) int {
	d := c.SpiritDefense
	if c.RageShieldRounds > 0 {
		d += rageShieldDefense
	}
	if c.Defending {
		d += defendStanceBonus
	}
	return d
}

// applyVitalityDamage clamps at zero and reports the signed change.
func (c *combatant) applyVitalityDamage(dmg int) int {
	before := c.Vitality
	c.Vitality -= dmg
	if c.Vitality < 0 {
		c.Vitality = 0
	}
	return c.Vitality - before
}

// applyWillpowerDamage clamps at zero and reports the signed change.
func (c *combatant) applyWillpowerDamage(dmg int) int {
	before := c.Willpower
	c.Willpower -= dmg
	if c.Willpower < 0 {
		c.Willpower = 0
	}
	return c.Willpower - before
}

// heal restores vitality up to the maximum and reports the signed change.
func (c *combatant) heal(amount int) int {
	before := c.Vitality
	c.Vitality += amount
	if c.Vitality > c.MaxVitality {
		c.Vitality = c.MaxVitality
	}
	return c.Vitality - before
}

// weaknessAdjust shifts damage for an entity weak or strong against the
// drawn keyword.
func (c *combatant) weaknessAdjust(kw keyword.Keyword, damage int) int {
	if kw == "" {
		return damage
	}
	for _, w := range c.Weaknesses {
		if w == kw {
			return damage + weaknessBonus
		}
	}
	for _, s := range c.Strengths {
		if s == kw {
			damage -= strengthPenalty
			if damage < 0 {
				damage = 0
			}
			return damage
		}
	}
	return damage
}
