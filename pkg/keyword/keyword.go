// Package keyword maps a fate card's keyword to a concrete bonus effect,
// reinterpreted per action context. The same keyword means different things
// in different contexts: the tables below are independent interpretations,
// not a ranking. Effects are pure values recomputed on every resolution.
package keyword

// Keyword is a tag carried by a fate card.
type Keyword string

const (
	Surge Keyword = "surge"
	Ward  Keyword = "ward"
	Echo  Keyword = "echo"
	Ruin  Keyword = "ruin"
	Grace Keyword = "grace"
)

// Keywords lists every keyword.
var Keywords = []Keyword{Surge, Ward, Echo, Ruin, Grace}

// Context is the action context a keyword is interpreted in.
type Context string

const (
	ContextStrike      Context = "strike"
	ContextSpirit      Context = "spirit"
	ContextDefense     Context = "defense"
	ContextExploration Context = "exploration"
	ContextRitual      Context = "ritual"
)

// Contexts lists every action context.
var Contexts = []Context{ContextStrike, ContextSpirit, ContextDefense, ContextExploration, ContextRitual}

// Special is a non-numeric effect tag an interpretation may carry.
type Special string

const (
	SpecialPierce   Special = "pierce"   // ignore physical defense
	SpecialStagger  Special = "stagger"  // target loses next intent
	SpecialReveal   Special = "reveal"   // reveal a hidden path or item
	SpecialCleanse  Special = "cleanse"  // clear a timed status
	SpecialAttune   Special = "attune"   // strengthen the next ritual
	SpecialBackfire Special = "backfire" // ritual turns on the caster
	SpecialFortify  Special = "fortify"  // extend defensive stance
	SpecialDrain    Special = "drain"    // siphon willpower
	SpecialOmen     Special = "omen"     // peek at the top fate card
	SpecialResurge  Special = "resurge"  // refund the action's cost
)

// Effect is the resolved interpretation of a keyword in a context.
// Zero-valued fields are meaningful: mismatch suppression returns an
// all-zero Effect on purpose.
type Effect struct {
	BonusDamage int
	BonusValue  int
	Special     *Special
}

func special(s Special) *Special { return &s }

// table holds the base interpretation for every keyword x context cell.
// Every cell is non-trivial: at least one field is non-zero or non-nil.
var table = map[Keyword]map[Context]Effect{
	Surge: {
		ContextStrike:      {BonusDamage: 4},
		ContextSpirit:      {BonusDamage: 2, BonusValue: 1},
		ContextDefense:     {BonusValue: 2},
		ContextExploration: {Special: special(SpecialReveal)},
		ContextRitual:      {BonusValue: 3},
	},
	Ward: {
		ContextStrike:      {BonusDamage: 1, BonusValue: 1},
		ContextSpirit:      {BonusValue: 2},
		ContextDefense:     {BonusValue: 3, Special: special(SpecialFortify)},
		ContextExploration: {BonusValue: 1},
		ContextRitual:      {Special: special(SpecialAttune)},
	},
	Echo: {
		ContextStrike:      {BonusDamage: 2},
		ContextSpirit:      {BonusValue: 2, Special: special(SpecialDrain)},
		ContextDefense:     {BonusValue: 1},
		ContextExploration: {BonusValue: 2, Special: special(SpecialOmen)},
		ContextRitual:      {BonusValue: 2},
	},
	Ruin: {
		ContextStrike:      {BonusDamage: 3, Special: special(SpecialPierce)},
		ContextSpirit:      {BonusDamage: 3},
		ContextDefense:     {BonusValue: 1, Special: special(SpecialStagger)},
		ContextExploration: {BonusValue: 1},
		ContextRitual:      {BonusValue: 1, Special: special(SpecialBackfire)},
	},
	Grace: {
		ContextStrike:      {BonusDamage: 1, BonusValue: 2},
		ContextSpirit:      {BonusDamage: 1, BonusValue: 2},
		ContextDefense:     {BonusValue: 2, Special: special(SpecialCleanse)},
		ContextExploration: {BonusValue: 3},
		ContextRitual:      {BonusValue: 2, Special: special(SpecialResurge)},
	},
}

// Resolve returns the effect for kw interpreted in ctx. When matched is
// true (the drawn card's suit matches the action context) both bonus fields
// are doubled. Unknown keywords or contexts resolve to an empty effect so
// malformed content degrades instead of halting resolution.
func Resolve(kw Keyword, ctx Context, matched bool) Effect {
	row, ok := table[kw]
	if !ok {
		return Effect{}
	}
	eff, ok := row[ctx]
	if !ok {
		return Effect{}
	}
	if matched {
		eff.BonusDamage *= 2
		eff.BonusValue *= 2
	}
	return eff
}

// ResolveMismatch is the explicit mismatch path: the drawn card's suit
// contradicts the action context, so the fate is wasted. Both bonuses are
// forced to zero and any special effect is suppressed, regardless of
// keyword or context.
func ResolveMismatch(Keyword, Context) Effect {
	return Effect{}
}
