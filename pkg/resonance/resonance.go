// Package resonance models the world-alignment value shared by fate draws
// and entity combat modifiers. The value is bounded, symmetric around a
// neutral midpoint, and partitioned into contiguous named zones. It only
// moves when an explicit shift effect is applied; it never decays on its own.
package resonance

// Min and Max bound the resonance value. Shifts past either end clamp.
const (
	Min = -10.0
	Max = 10.0
)

// Zone is a named band of the resonance range.
type Zone string

const (
	ZoneDeepDiscord Zone = "deep_discord"
	ZoneDiscord     Zone = "discord"
	ZoneBalance     Zone = "balance"
	ZoneHarmony     Zone = "harmony"
	ZoneDeepHarmony Zone = "deep_harmony"
)

// Zones lists every zone in ascending order of the band it covers.
var Zones = []Zone{ZoneDeepDiscord, ZoneDiscord, ZoneBalance, ZoneHarmony, ZoneDeepHarmony}

// Valid reports whether z names a defined zone.
func (z Zone) Valid() bool {
	switch z {
	case ZoneDeepDiscord, ZoneDiscord, ZoneBalance, ZoneHarmony, ZoneDeepHarmony:
		return true
	}
	return false
}

// ZoneOf returns the zone containing v. Values outside [Min, Max] are
// treated as clamped, so every float maps to a zone.
func ZoneOf(v float64) Zone {
	switch {
	case v < -6:
		return ZoneDeepDiscord
	case v < -2:
		return ZoneDiscord
	case v <= 2:
		return ZoneBalance
	case v <= 6:
		return ZoneHarmony
	default:
		return ZoneDeepHarmony
	}
}

// Clamp forces v into the legal resonance range.
func Clamp(v float64) float64 {
	if v < Min {
		return Min
	}
	if v > Max {
		return Max
	}
	return v
}

// Shift applies delta to v and clamps the result.
func Shift(v, delta float64) float64 {
	return Clamp(v + delta)
}
