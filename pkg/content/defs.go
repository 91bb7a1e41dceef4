// Package content defines the plain-record content definitions the engine
// consumes and the versioned pack format they ship in. The engine core never
// reads files; LoadPack is called by commands and services, which hand the
// resulting read-only Registry to the engine at construction.
package content

import (
	"github.com/jwebster45206/encounter-engine/pkg/behavior"
	"github.com/jwebster45206/encounter-engine/pkg/fate"
	"github.com/jwebster45206/encounter-engine/pkg/keyword"
	"github.com/jwebster45206/encounter-engine/pkg/resonance"
)

// ZoneMod adjusts an entity's effective power and defense while the
// resonance value sits in a given zone. Re-evaluated at the moment of use.
type ZoneMod struct {
	Power   int `json:"power,omitempty"`
	Defense int `json:"defense,omitempty"`
}

// HeroDef is the protagonist's stat block. Willpower 0 means the hero has
// no spiritual track.
type HeroDef struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Vitality      int      `json:"vitality"`
	Willpower     int      `json:"willpower,omitempty"`
	Power         int      `json:"power"`
	Defense       int      `json:"defense"`
	SpiritDefense int      `json:"spirit_defense,omitempty"`
	HandCards     []string `json:"hand_cards,omitempty"` // playable card ids in the starting draw pile
}

// EnemyDef is an opposing entity's stat block. Willpower 0 means the enemy
// cannot be pacified, only killed.
type EnemyDef struct {
	ID            string                     `json:"id"`
	Name          string                     `json:"name"`
	Vitality      int                        `json:"vitality"`
	Willpower     int                        `json:"willpower,omitempty"`
	Power         int                        `json:"power"`
	Defense       int                        `json:"defense"`
	SpiritDefense int                        `json:"spirit_defense,omitempty"`
	ZoneMods      map[resonance.Zone]ZoneMod `json:"zone_modifiers,omitempty"`
	LootCards     []string                   `json:"loot_cards,omitempty"`
	Reward        int                        `json:"reward,omitempty"`
	Weaknesses    []keyword.Keyword          `json:"weaknesses,omitempty"`
	Strengths     []keyword.Keyword          `json:"strengths,omitempty"`
	Abilities     []string                   `json:"abilities,omitempty"`
	Behavior      behavior.Definition        `json:"behavior"`
}

// CardEffectKind discriminates the closed set of playable-card effects.
type CardEffectKind string

const (
	CardEffectDamage         CardEffectKind = "damage"
	CardEffectHeal           CardEffectKind = "heal"
	CardEffectDraw           CardEffectKind = "draw"
	CardEffectResourceGain   CardEffectKind = "resource_gain"
	CardEffectStatusApply    CardEffectKind = "status_apply"
	CardEffectResonanceShift CardEffectKind = "resonance_shift"
	CardEffectTensionShift   CardEffectKind = "tension_shift"
	// CardEffectUnhandled marks effect kinds this engine version does not
	// resolve. They pass through resolution as no-ops.
	CardEffectUnhandled CardEffectKind = "unhandled"
)

// CardEffect is one declared effect of a playable card.
type CardEffect struct {
	Kind     CardEffectKind `json:"kind"`
	Amount   int            `json:"amount,omitempty"`
	Status   string         `json:"status,omitempty"`   // status_apply: status id
	Duration int            `json:"duration,omitempty"` // status_apply: rounds
}

// PlayerCardDef is a playable card in the hero's hand. Cost is paid from
// the hero's willpower pool. Exhaust cards are removed from the encounter
// permanently when played; others return to the bottom of the draw pile.
type PlayerCardDef struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Cost    int          `json:"cost,omitempty"`
	Exhaust bool         `json:"exhaust,omitempty"`
	Effects []CardEffect `json:"effects"`
}

// PackData is the payload of a content pack.
type PackData struct {
	Heroes      []HeroDef       `json:"heroes,omitempty"`
	Enemies     []EnemyDef      `json:"enemies,omitempty"`
	FateCards   []fate.Card     `json:"fate_cards,omitempty"`
	PlayerCards []PlayerCardDef `json:"player_cards,omitempty"`
}
