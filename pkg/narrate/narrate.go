// Package narrate renders engine events as human-readable lines for the
// console client and verbose simulation output. It is presentation-side
// only: nothing in here feeds back into resolution.
package narrate

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/encounter-engine/pkg/encounter"
)

var titleCaser = cases.Title(language.English)

// name renders an entity or card id as a display name.
func name(id string) string {
	if id == "" {
		return "someone"
	}
	return titleCaser.String(strings.ReplaceAll(id, "_", " "))
}

// Line renders one event. Unknown kinds render as an empty string, which
// Lines filters out.
func Line(ev encounter.Event) string {
	switch ev.Kind {
	case encounter.EventIntentDeclared:
		return fmt.Sprintf("%s prepares to %s.", name(ev.Entity), strings.ReplaceAll(ev.Intent, "_", " "))
	case encounter.EventCardDrawn:
		return fmt.Sprintf("%s draws %s (%+d).", name(ev.Entity), name(ev.Card), ev.Amount)
	case encounter.EventDeckReshuffled:
		return "The fate deck is reshuffled."
	case encounter.EventSuitMatched:
		return fmt.Sprintf("%s aligns with the moment.", name(ev.Card))
	case encounter.EventSuitMismatched:
		return fmt.Sprintf("%s is wasted; the fate does not apply.", name(ev.Card))
	case encounter.EventKeywordEffect:
		return fmt.Sprintf("The word on %s takes hold (%+d).", name(ev.Card), ev.Amount)
	case encounter.EventZoneAdjusted:
		return fmt.Sprintf("The resonance bends the draw by %+d.", ev.Amount)
	case encounter.EventVitalityChange:
		if ev.Amount < 0 {
			return fmt.Sprintf("%s takes %d damage.", name(ev.Entity), -ev.Amount)
		}
		return fmt.Sprintf("%s recovers %d vitality.", name(ev.Entity), ev.Amount)
	case encounter.EventWillpowerChange:
		if ev.Amount < 0 {
			return fmt.Sprintf("%s's will erodes by %d.", name(ev.Entity), -ev.Amount)
		}
		return fmt.Sprintf("%s's will strengthens by %d.", name(ev.Entity), ev.Amount)
	case encounter.EventResonanceShift:
		return fmt.Sprintf("The resonance shifts %+.1f to %.1f.", ev.Delta, ev.Value)
	case encounter.EventTensionShift:
		return fmt.Sprintf("The tension shifts %+.1f.", ev.Delta)
	case encounter.EventEntityKilled:
		return fmt.Sprintf("%s falls.", name(ev.Entity))
	case encounter.EventEntityPacified:
		return fmt.Sprintf("%s yields, pacified.", name(ev.Entity))
	case encounter.EventRageShield:
		return fmt.Sprintf("%s braces behind a rage shield.", name(ev.Entity))
	case encounter.EventSurpriseBonus:
		return fmt.Sprintf("%s is caught off guard!", name(ev.Entity))
	case encounter.EventDefendStance:
		return fmt.Sprintf("%s takes a defensive stance.", name(ev.Entity))
	case encounter.EventCardPlayed:
		return fmt.Sprintf("%s plays %s.", name(ev.Entity), name(ev.Card))
	case encounter.EventCardExhausted:
		return fmt.Sprintf("%s crumbles to dust.", name(ev.Card))
	case encounter.EventHandDrawn:
		return fmt.Sprintf("%s draws %s into hand.", name(ev.Entity), name(ev.Card))
	case encounter.EventStatusApplied:
		return fmt.Sprintf("%s is afflicted by %s.", name(ev.Entity), name(ev.Status))
	case encounter.EventStatusTicked:
		return fmt.Sprintf("%s suffers from %s.", name(ev.Entity), name(ev.Status))
	case encounter.EventStatusExpired:
		return fmt.Sprintf("%s fades from %s.", name(ev.Status), name(ev.Entity))
	case encounter.EventMulliganTaken:
		return fmt.Sprintf("%s returns %d cards and redraws.", name(ev.Entity), ev.Amount)
	case encounter.EventWaited:
		return fmt.Sprintf("%s waits, letting fate pass.", name(ev.Entity))
	case encounter.EventHealed:
		return "" // folded into the vitality line
	case encounter.EventRoundAdvanced:
		return fmt.Sprintf("— Round %d —", ev.Round)
	case encounter.EventEscaped:
		return fmt.Sprintf("%s flees the encounter.", name(ev.Entity))
	case encounter.EventVictory:
		return "The encounter is won."
	case encounter.EventDefeat:
		return fmt.Sprintf("%s is defeated.", name(ev.Entity))
	}
	return ""
}

// Lines renders a batch of events, dropping empty lines.
func Lines(events []encounter.Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		if line := Line(ev); line != "" {
			out = append(out, line)
		}
	}
	return out
}
