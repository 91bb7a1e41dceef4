package encounter

// ActionKind discriminates the closed set of player actions.
type ActionKind string

const (
	ActionAttack       ActionKind = "attack"
	ActionSpiritAttack ActionKind = "spirit_attack"
	ActionDefend       ActionKind = "defend"
	ActionPlayCard     ActionKind = "play_card"
	ActionMulligan     ActionKind = "mulligan"
	ActionWait         ActionKind = "wait"
	ActionEscape       ActionKind = "escape"
)

// Action is one player action. Target is required for attack, spirit-attack
// and targeted card effects; CardID for play-card; CardIDs for mulligan.
type Action struct {
	Kind    ActionKind `json:"kind"`
	Target  string     `json:"target,omitempty"`
	CardID  string     `json:"card_id,omitempty"`
	CardIDs []string   `json:"card_ids,omitempty"`
}

// Attack targets an opponent's vitality.
func Attack(target string) Action { return Action{Kind: ActionAttack, Target: target} }

// SpiritAttack targets an opponent's willpower track.
func SpiritAttack(target string) Action { return Action{Kind: ActionSpiritAttack, Target: target} }

// Defend raises the hero's defenses until the end of the round.
func Defend() Action { return Action{Kind: ActionDefend} }

// PlayCard plays a held card by id, optionally against a target.
func PlayCard(cardID, target string) Action {
	return Action{Kind: ActionPlayCard, CardID: cardID, Target: target}
}

// Mulligan returns the chosen held cards to the draw pile and redraws the
// same count. Permitted once per encounter, during the intent phase.
func Mulligan(cardIDs ...string) Action { return Action{Kind: ActionMulligan, CardIDs: cardIDs} }

// Wait passes the turn without a fate draw.
func Wait() Action { return Action{Kind: ActionWait} }

// Escape ends the encounter early with the escape outcome.
func Escape() Action { return Action{Kind: ActionEscape} }
