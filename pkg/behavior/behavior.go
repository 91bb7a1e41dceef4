// Package behavior converts an opponent's combat context into a declared
// intent. Rules are evaluated top-to-bottom with AND semantics and the
// first full match wins, so intents visibly react to mid-encounter state.
package behavior

// IntentKind is the closed set of actions an opponent can declare.
type IntentKind string

const (
	IntentAttack       IntentKind = "attack"
	IntentSpiritAttack IntentKind = "spirit_attack"
	IntentDefend       IntentKind = "defend"
	IntentHeal         IntentKind = "heal"
	IntentRitual       IntentKind = "ritual"
	IntentWait         IntentKind = "wait"
)

// Op is a comparison operator in a rule condition.
type Op string

const (
	OpLT  Op = "lt"
	OpLTE Op = "lte"
	OpGT  Op = "gt"
	OpGTE Op = "gte"
	OpEQ  Op = "eq"
)

// Condition compares a named context field against a literal value.
type Condition struct {
	Field string  `json:"field"`
	Op    Op      `json:"op"`
	Value float64 `json:"value"`
}

// Rule declares an intent when all of its conditions hold. Value is a
// formula string evaluated against the same context (see Eval).
type Rule struct {
	When    []Condition `json:"when,omitempty"`
	Intent  IntentKind  `json:"intent"`
	Formula string      `json:"formula,omitempty"`
}

// Definition is an ordered rule list plus the fallback used when no rule
// matches.
type Definition struct {
	ID           string     `json:"id"`
	Rules        []Rule     `json:"rules,omitempty"`
	DefaultKind  IntentKind `json:"default_intent"`
	DefaultValue int        `json:"default_value"`
}

// Context carries the numeric fields rules and formulas can reference.
type Context struct {
	HealthPct   float64
	Round       int
	Power       int
	Defense     int
	Vitality    int
	MaxVitality int
}

// Field resolves a named field. Unknown names report ok=false; callers
// treat them as zero so malformed content degrades instead of failing.
func (c Context) Field(name string) (float64, bool) {
	switch name {
	case "health_pct":
		return c.HealthPct, true
	case "round":
		return float64(c.Round), true
	case "power":
		return float64(c.Power), true
	case "defense":
		return float64(c.Defense), true
	case "vitality":
		return float64(c.Vitality), true
	case "max_vitality":
		return float64(c.MaxVitality), true
	}
	return 0, false
}

// KnownField reports whether name is a field rules and formulas can
// reference. Authoring tools use this to warn about typos the evaluator
// would silently treat as zero.
func KnownField(name string) bool {
	_, ok := Context{}.Field(name)
	return ok
}

// Intent is a declared next action with its magnitude.
type Intent struct {
	Kind  IntentKind
	Value int
}

// Evaluate walks the rule list top-to-bottom and returns the first rule
// whose conditions all hold, with its formula evaluated against ctx. When
// no rule matches, the definition's default intent and value are used.
// Evaluate is pure and must be re-run whenever an intent is regenerated.
func Evaluate(def Definition, ctx Context) Intent {
	for _, rule := range def.Rules {
		if !matches(rule.When, ctx) {
			continue
		}
		return Intent{Kind: rule.Intent, Value: Eval(rule.Formula, ctx)}
	}
	return Intent{Kind: def.DefaultKind, Value: def.DefaultValue}
}

// matches reports whether every condition holds. An empty list is
// vacuously true.
func matches(conditions []Condition, ctx Context) bool {
	for _, c := range conditions {
		actual, _ := ctx.Field(c.Field)
		if !compare(actual, c.Op, c.Value) {
			return false
		}
	}
	return true
}

func compare(actual float64, op Op, value float64) bool {
	switch op {
	case OpLT:
		return actual < value
	case OpLTE:
		return actual <= value
	case OpGT:
		return actual > value
	case OpGTE:
		return actual >= value
	case OpEQ:
		return actual == value
	}
	return false
}
