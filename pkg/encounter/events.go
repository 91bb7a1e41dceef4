package encounter

// EventKind discriminates engine state-change events.
type EventKind string

const (
	EventIntentDeclared  EventKind = "intent_declared"
	EventCardDrawn       EventKind = "card_drawn"
	EventDeckReshuffled  EventKind = "deck_reshuffled"
	EventSuitMatched     EventKind = "suit_matched"
	EventSuitMismatched  EventKind = "suit_mismatched"
	EventKeywordEffect   EventKind = "keyword_effect"
	EventZoneAdjusted    EventKind = "zone_adjusted"
	EventVitalityChange  EventKind = "vitality_changed"
	EventWillpowerChange EventKind = "willpower_changed"
	EventResonanceShift  EventKind = "resonance_shifted"
	EventTensionShift    EventKind = "tension_shifted"
	EventEntityKilled    EventKind = "entity_killed"
	EventEntityPacified  EventKind = "entity_pacified"
	EventRageShield      EventKind = "rage_shield_applied"
	EventSurpriseBonus   EventKind = "surprise_bonus_applied"
	EventDefendStance    EventKind = "defend_stance"
	EventCardPlayed      EventKind = "card_played"
	EventCardExhausted   EventKind = "card_exhausted"
	EventHandDrawn       EventKind = "hand_drawn"
	EventStatusApplied   EventKind = "status_applied"
	EventStatusTicked    EventKind = "status_ticked"
	EventStatusExpired   EventKind = "status_expired"
	EventMulliganTaken   EventKind = "mulligan_taken"
	EventWaited          EventKind = "waited"
	EventHealed          EventKind = "healed"
	EventRoundAdvanced   EventKind = "round_advanced"
	EventEscaped         EventKind = "escaped"
	EventVictory         EventKind = "victory"
	EventDefeat          EventKind = "defeat"
)

// Event is a single typed state change. The ordered event list returned by
// every engine operation is the sole channel through which callers observe
// engine activity. Fields are flat and JSON-tagged so that replay tests can
// compare sequences byte for byte.
type Event struct {
	Kind   EventKind `json:"kind"`
	Entity string    `json:"entity,omitempty"` // acting or affected entity id
	Target string    `json:"target,omitempty"` // other party, when distinct
	Card   string    `json:"card,omitempty"`   // fate or player card id
	Intent string    `json:"intent,omitempty"` // declared intent kind
	Status string    `json:"status,omitempty"` // status effect id
	Amount int       `json:"amount,omitempty"` // signed magnitude (damage is negative)
	Delta  float64   `json:"delta,omitempty"`  // resonance/tension shift
	Value  float64   `json:"value,omitempty"`  // resonance/tension value after the shift
	Round  int       `json:"round,omitempty"`
}
