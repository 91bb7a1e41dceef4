package encounter

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/jwebster45206/encounter-engine/pkg/behavior"
	"github.com/jwebster45206/encounter-engine/pkg/content"
	"github.com/jwebster45206/encounter-engine/pkg/fate"
	"github.com/jwebster45206/encounter-engine/pkg/keyword"
)

// flatDeck builds n cards with identical stats so tests stay independent
// of shuffle order.
func flatDeck(n, modifier int) []fate.Card {
	cards := make([]fate.Card, n)
	for i := range cards {
		cards[i] = fate.Card{ID: string(rune('a' + i)), Name: "Plain", Modifier: modifier}
	}
	return cards
}

func passiveBehavior() behavior.Definition {
	return behavior.Definition{DefaultKind: behavior.IntentWait}
}

func testHero() content.HeroDef {
	return content.HeroDef{ID: "hero", Name: "Wanderer", Vitality: 30, Willpower: 10, Power: 4, Defense: 2, SpiritDefense: 1}
}

func testEnemy(id string) content.EnemyDef {
	return content.EnemyDef{
		ID: id, Name: "Husk", Vitality: 20, Willpower: 8,
		Power: 3, Defense: 1, SpiritDefense: 1,
		Behavior: passiveBehavior(),
	}
}

func testContext(enemies ...content.EnemyDef) Context {
	return Context{
		Hero:      testHero(),
		Opponents: enemies,
		DeckCards: flatDeck(6, 2),
		Seed:      42,
	}
}

// advanceToPlayerAction runs the intent phase.
func advanceToPlayerAction(t *testing.T, e *Engine) {
	t.Helper()
	if _, err := e.GenerateIntents(); err != nil {
		t.Fatalf("GenerateIntents: %v", err)
	}
}

// finishRound runs enemy resolution and round end.
func finishRound(t *testing.T, e *Engine) {
	t.Helper()
	if _, err := e.ResolveEnemies(); err != nil {
		t.Fatalf("ResolveEnemies: %v", err)
	}
	if e.Phase().Terminal() {
		return
	}
	if _, err := e.EndRound(); err != nil {
		t.Fatalf("EndRound: %v", err)
	}
}

func hasEvent(events []Event, kind EventKind) bool {
	for _, ev := range events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}

func TestNewRejectsIrrecoverableInput(t *testing.T) {
	tests := []struct {
		name string
		ctx  Context
		want error
	}{
		{"no opponents", Context{Hero: testHero(), DeckCards: flatDeck(3, 1)}, ErrNoOpponents},
		{"hero down", func() Context {
			ctx := testContext(testEnemy("e1"))
			ctx.Hero.Vitality = 0
			return ctx
		}(), ErrHeroDown},
		{"no deck", func() Context {
			ctx := testContext(testEnemy("e1"))
			ctx.DeckCards = nil
			return ctx
		}(), ErrNoDeck},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.ctx); !errors.Is(err, tt.want) {
				t.Errorf("New error = %v, want %v", err, tt.want)
			}
		})
	}

	t.Run("duplicate entity ids", func(t *testing.T) {
		if _, err := New(testContext(testEnemy("e1"), testEnemy("e1"))); err == nil {
			t.Error("expected error for duplicate ids")
		}
	})
}

func TestPhaseEnforcement(t *testing.T) {
	e, err := New(testContext(testEnemy("e1")))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// intent phase: no attacks, no enemy resolution, no round end.
	if _, err := e.Perform(Attack("e1")); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("attack in intent phase: %v, want ErrWrongPhase", err)
	}
	if _, err := e.ResolveEnemies(); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("resolve in intent phase: %v, want ErrWrongPhase", err)
	}
	if _, err := e.EndRound(); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("end round in intent phase: %v, want ErrWrongPhase", err)
	}

	advanceToPlayerAction(t, e)
	if _, err := e.GenerateIntents(); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("generate intents in player phase: %v, want ErrWrongPhase", err)
	}
	if _, err := e.Perform(Mulligan()); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("mulligan outside intent phase: %v, want ErrWrongPhase", err)
	}
}

func TestIntentsReactToState(t *testing.T) {
	enemy := testEnemy("e1")
	enemy.Behavior = behavior.Definition{
		Rules: []behavior.Rule{
			{
				When:    []behavior.Condition{{Field: "health_pct", Op: behavior.OpLT, Value: 0.5}},
				Intent:  behavior.IntentHeal,
				Formula: "4",
			},
		},
		DefaultKind:  behavior.IntentAttack,
		DefaultValue: 2,
	}
	e, err := New(testContext(enemy))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	events, err := e.GenerateIntents()
	if err != nil {
		t.Fatalf("GenerateIntents: %v", err)
	}
	if len(events) != 1 || events[0].Kind != EventIntentDeclared || events[0].Intent != "attack" {
		t.Fatalf("round 1 intent events = %+v, want one attack declaration", events)
	}

	// Beat the enemy below half health, then check the regenerated intent.
	for e.Phase() == PhasePlayerAction || e.Phase() == PhaseIntent {
		vit, _, _, _ := e.Opponent("e1")
		if vit < 10 {
			break
		}
		if e.Phase() == PhaseIntent {
			advanceToPlayerAction(t, e)
		}
		if _, err := e.Perform(Attack("e1")); err != nil {
			t.Fatalf("Perform: %v", err)
		}
		finishRound(t, e)
	}

	vit, _, _, _ := e.Opponent("e1")
	if vit >= 10 || vit <= 0 {
		t.Fatalf("setup failed: enemy vitality %d, want in (0, 10)", vit)
	}
	events, err = e.GenerateIntents()
	if err != nil {
		t.Fatalf("GenerateIntents: %v", err)
	}
	if len(events) != 1 || events[0].Intent != "heal" {
		t.Fatalf("low-health intent = %+v, want heal", events)
	}
}

func TestMulliganBoundary(t *testing.T) {
	hero := testHero()
	hero.HandCards = []string{"c1", "c2", "c3", "c4"}
	ctx := testContext(testEnemy("e1"))
	ctx.Hero = hero
	ctx.PlayerCards = []content.PlayerCardDef{
		{ID: "c1", Effects: []content.CardEffect{{Kind: content.CardEffectHeal, Amount: 1}}},
		{ID: "c2", Effects: []content.CardEffect{{Kind: content.CardEffectHeal, Amount: 1}}},
		{ID: "c3", Effects: []content.CardEffect{{Kind: content.CardEffectHeal, Amount: 1}}},
		{ID: "c4", Effects: []content.CardEffect{{Kind: content.CardEffectHeal, Amount: 1}}},
	}
	e, err := New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	held := e.Held()
	if len(held) != 3 {
		t.Fatalf("held = %v, want 3 cards", held)
	}

	events, err := e.Perform(Mulligan(held[0]))
	if err != nil {
		t.Fatalf("first mulligan: %v", err)
	}
	if !hasEvent(events, EventMulliganTaken) {
		t.Error("first mulligan emitted no mulligan event")
	}
	if len(e.Held()) != 3 {
		t.Errorf("held after mulligan = %v, want 3 cards", e.Held())
	}

	logBefore := len(e.Events())
	_, err = e.Perform(Mulligan(e.Held()[0]))
	if !errors.Is(err, ErrMulliganUsed) {
		t.Errorf("second mulligan error = %v, want ErrMulliganUsed", err)
	}
	if len(e.Events()) != logBefore {
		t.Error("failed mulligan produced events")
	}
}

func TestWaitHasNoDraw(t *testing.T) {
	e, err := New(testContext(testEnemy("e1")))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	advanceToPlayerAction(t, e)

	events, err := e.Perform(Wait())
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if hasEvent(events, EventCardDrawn) {
		t.Error("wait produced a fate draw")
	}
	if !hasEvent(events, EventWaited) {
		t.Error("wait produced no waited event")
	}
}

func TestSpiritAttackWithoutWillpowerIsNoOp(t *testing.T) {
	enemy := testEnemy("e1")
	enemy.Willpower = 0
	e, err := New(testContext(enemy))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	advanceToPlayerAction(t, e)

	events, err := e.Perform(SpiritAttack("e1"))
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("events = %+v, want empty", events)
	}
	if e.Phase() != PhasePlayerAction {
		t.Errorf("phase = %s, want playerAction (turn not consumed)", e.Phase())
	}
	vit, _, tag, _ := e.Opponent("e1")
	if vit != 20 || tag != TagAlive {
		t.Errorf("target changed: vitality %d tag %s", vit, tag)
	}
}

func TestDualTrackPacify(t *testing.T) {
	enemy := testEnemy("brute")
	enemy.Vitality = 100
	enemy.Willpower = 1
	enemy.SpiritDefense = 0
	e, err := New(testContext(enemy))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	advanceToPlayerAction(t, e)

	// hero power 4 + draw 2 - spirit defense 0 = 6 willpower damage.
	events, err := e.Perform(SpiritAttack("brute"))
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}

	vit, wp, tag, _ := e.Opponent("brute")
	if wp != 0 {
		t.Errorf("willpower = %d, want 0", wp)
	}
	if vit != 100 {
		t.Errorf("vitality = %d, want untouched 100", vit)
	}
	if tag != TagPacified {
		t.Errorf("tag = %s, want pacified", tag)
	}
	if !hasEvent(events, EventEntityPacified) {
		t.Error("no entity_pacified event")
	}
	if hasEvent(events, EventEntityKilled) {
		t.Error("entity_killed emitted for a pacification")
	}

	res, err := e.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if res.Outcome != OutcomeVictoryPacified {
		t.Errorf("outcome = %s, want victory_pacified", res.Outcome)
	}
	if !res.Transaction.Flags["pacifist"] {
		t.Error("pacifist flag not set")
	}
}

func TestKilledTakesPrecedenceOverWillpower(t *testing.T) {
	enemy := testEnemy("husk")
	enemy.Vitality = 1
	enemy.Willpower = 1
	enemy.Defense = 0
	e, err := New(testContext(enemy))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	advanceToPlayerAction(t, e)

	events, err := e.Perform(Attack("husk"))
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if !hasEvent(events, EventEntityKilled) {
		t.Error("no entity_killed event")
	}
	if hasEvent(events, EventEntityPacified) {
		t.Error("pacified emitted for a kill")
	}
	res, err := e.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if res.Outcome != OutcomeVictoryKilled {
		t.Errorf("outcome = %s, want victory_killed", res.Outcome)
	}
}

func TestEscalationBonus(t *testing.T) {
	// Baseline: plain physical attack on a fresh engine.
	e1, err := New(testContext(testEnemy("e1")))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	advanceToPlayerAction(t, e1)
	events, err := e1.Perform(Attack("e1"))
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}
	baseline := 0
	for _, ev := range events {
		if ev.Kind == EventVitalityChange && ev.Entity == "e1" {
			baseline = -ev.Amount
		}
	}
	if baseline <= 0 {
		t.Fatalf("baseline damage = %d, want positive", baseline)
	}

	// Escalation: spirit-attack first, then the same physical attack.
	e2, err := New(testContext(testEnemy("e1")))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	advanceToPlayerAction(t, e2)
	if _, err := e2.Perform(SpiritAttack("e1")); err != nil {
		t.Fatalf("spirit attack: %v", err)
	}
	finishRound(t, e2)
	advanceToPlayerAction(t, e2)

	events, err = e2.Perform(Attack("e1"))
	if err != nil {
		t.Fatalf("escalated attack: %v", err)
	}
	if !hasEvent(events, EventSurpriseBonus) {
		t.Error("no surprise_bonus_applied event")
	}
	if !hasEvent(events, EventResonanceShift) {
		t.Error("escalation did not shift resonance")
	}
	escalated := 0
	for _, ev := range events {
		if ev.Kind == EventVitalityChange && ev.Entity == "e1" {
			escalated = -ev.Amount
		}
	}
	if escalated <= baseline {
		t.Errorf("escalated damage %d not greater than baseline %d", escalated, baseline)
	}
}

func TestDeEscalationGrantsRageShield(t *testing.T) {
	e, err := New(testContext(testEnemy("e1")))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	advanceToPlayerAction(t, e)
	if _, err := e.Perform(Attack("e1")); err != nil {
		t.Fatalf("physical attack: %v", err)
	}
	finishRound(t, e)
	advanceToPlayerAction(t, e)

	events, err := e.Perform(SpiritAttack("e1"))
	if err != nil {
		t.Fatalf("spirit attack: %v", err)
	}
	if !hasEvent(events, EventRageShield) {
		t.Error("physical-to-spiritual switch did not apply a rage shield")
	}
}

func TestSurpriseBonusExpiresNextRound(t *testing.T) {
	foeDamage := func(events []Event) int {
		for _, ev := range events {
			if ev.Kind == EventVitalityChange && ev.Entity == "e1" {
				return -ev.Amount
			}
		}
		return 0
	}

	// Baseline physical damage on a fresh engine.
	e1, err := New(testContext(testEnemy("e1")))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	advanceToPlayerAction(t, e1)
	events, err := e1.Perform(Attack("e1"))
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}
	baseline := foeDamage(events)

	// Escalate, then attack again one full round after the escalating attack.
	e2, err := New(testContext(testEnemy("e1")))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	advanceToPlayerAction(t, e2)
	if _, err := e2.Perform(SpiritAttack("e1")); err != nil {
		t.Fatalf("spirit attack: %v", err)
	}
	finishRound(t, e2)
	advanceToPlayerAction(t, e2)
	if _, err := e2.Perform(Attack("e1")); err != nil {
		t.Fatalf("escalated attack: %v", err)
	}
	finishRound(t, e2)
	advanceToPlayerAction(t, e2)

	events, err = e2.Perform(Attack("e1"))
	if err != nil {
		t.Fatalf("follow-up attack: %v", err)
	}
	if hasEvent(events, EventSurpriseBonus) {
		t.Error("follow-up attack re-declared a surprise bonus without a track switch")
	}
	if got := foeDamage(events); got != baseline {
		t.Errorf("damage one round after escalation = %d, want baseline %d", got, baseline)
	}
}

func TestFortifiedStanceCarriesIntoNextRound(t *testing.T) {
	enemy := testEnemy("e1")
	enemy.Behavior = behavior.Definition{DefaultKind: behavior.IntentAttack, DefaultValue: 6}
	ctx := testContext(enemy)
	// Every defensive draw resolves ward in the defense context, which
	// fortifies the hero's stance.
	deck := flatDeck(6, 0)
	for i := range deck {
		deck[i].Keyword = keyword.Ward
	}
	ctx.DeckCards = deck

	e, err := New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	heroHit := func(events []Event) int {
		for _, ev := range events {
			if ev.Kind == EventVitalityChange && ev.Entity == "hero" {
				return -ev.Amount
			}
		}
		return 0
	}

	advanceToPlayerAction(t, e)
	if _, err := e.Perform(Wait()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	events, err := e.ResolveEnemies()
	if err != nil {
		t.Fatalf("ResolveEnemies: %v", err)
	}
	if !hasEvent(events, EventDefendStance) {
		t.Fatal("ward defensive draw did not fortify the stance")
	}
	first := heroHit(events)
	if _, err := e.EndRound(); err != nil {
		t.Fatalf("EndRound: %v", err)
	}

	advanceToPlayerAction(t, e)
	if _, err := e.Perform(Wait()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	events, err = e.ResolveEnemies()
	if err != nil {
		t.Fatalf("ResolveEnemies: %v", err)
	}
	second := heroHit(events)
	if first-second != defendStanceBonus {
		t.Errorf("fortified round took %d damage after %d, want a reduction of %d", second, first, defendStanceBonus)
	}
}

func TestConservationVitalityNeverNegative(t *testing.T) {
	enemy := testEnemy("e1")
	enemy.Vitality = 3
	enemy.Defense = 0
	e, err := New(testContext(enemy))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	advanceToPlayerAction(t, e)
	if _, err := e.Perform(Attack("e1")); err != nil {
		t.Fatalf("Perform: %v", err)
	}
	vit, _, _, _ := e.Opponent("e1")
	if vit != 0 {
		t.Errorf("overkill vitality = %d, want clamped 0", vit)
	}
}

func TestResolutionOrderObservable(t *testing.T) {
	// Single-card deck with suit, keyword and a zone rule; draw while the
	// rule's zone is active so every pipeline stage emits.
	ctx := testContext(testEnemy("e1"))
	ctx.DeckCards = []fate.Card{{
		ID: "blade", Modifier: 2, Keyword: "surge", Suit: fate.SuitStrike,
		ZoneRules: []fate.ZoneRule{{Zone: "balance", Delta: 1}},
	}}
	e, err := New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	advanceToPlayerAction(t, e)
	events, err := e.Perform(Attack("e1"))
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}

	order := map[EventKind]int{}
	for i, ev := range events {
		if _, seen := order[ev.Kind]; !seen {
			order[ev.Kind] = i
		}
	}
	drawn, okD := order[EventCardDrawn]
	matched, okM := order[EventSuitMatched]
	kwEff, okK := order[EventKeywordEffect]
	zone, okZ := order[EventZoneAdjusted]
	dmg, okV := order[EventVitalityChange]
	if !okD || !okM || !okK || !okZ || !okV {
		t.Fatalf("missing pipeline events, got %+v", events)
	}
	if !(drawn < matched && matched < kwEff && kwEff < zone && zone < dmg) {
		t.Errorf("pipeline order violated: drawn=%d matched=%d keyword=%d zone=%d damage=%d",
			drawn, matched, kwEff, zone, dmg)
	}
}

func TestEscape(t *testing.T) {
	e, err := New(testContext(testEnemy("e1")))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	advanceToPlayerAction(t, e)
	events, err := e.Perform(Escape())
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if !hasEvent(events, EventEscaped) {
		t.Error("no escaped event")
	}
	if e.Phase() != PhaseEscaped {
		t.Errorf("phase = %s, want escaped", e.Phase())
	}
	res, err := e.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if res.Outcome != OutcomeEscape || !res.Transaction.Flags["fled"] {
		t.Errorf("result = %+v, want escape with fled flag", res)
	}
	if _, err := e.Perform(Attack("e1")); !errors.Is(err, ErrEnded) {
		t.Errorf("action after escape: %v, want ErrEnded", err)
	}
}

func TestDeterministicReplay(t *testing.T) {
	script := func(e *Engine) error {
		actions := []Action{SpiritAttack("e1"), Attack("e1"), Attack("e2"), Wait(), Attack("e1")}
		for _, a := range actions {
			if e.Phase().Terminal() {
				return nil
			}
			if _, err := e.GenerateIntents(); err != nil {
				return err
			}
			if _, err := e.Perform(a); err != nil {
				return err
			}
			if e.Phase().Terminal() {
				return nil
			}
			if _, err := e.ResolveEnemies(); err != nil {
				return err
			}
			if e.Phase().Terminal() {
				return nil
			}
			if _, err := e.EndRound(); err != nil {
				return err
			}
		}
		return nil
	}

	aggressive := testEnemy("e1")
	aggressive.Behavior = behavior.Definition{DefaultKind: behavior.IntentAttack, DefaultValue: 2}

	run := func() ([]byte, *Result) {
		ctx := testContext(aggressive, testEnemy("e2"))
		ctx.Resonance = 1.5
		e, err := New(ctx)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if err := script(e); err != nil {
			t.Fatalf("script: %v", err)
		}
		data, err := json.Marshal(e.Events())
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		res, _ := e.Result()
		return data, res
	}

	eventsA, resA := run()
	eventsB, resB := run()
	if string(eventsA) != string(eventsB) {
		t.Error("event sequences differ between identical replays")
	}
	if (resA == nil) != (resB == nil) {
		t.Fatal("one replay ended, the other did not")
	}
	if resA != nil {
		// EncounterID is random per instance; everything else must match.
		resB.EncounterID = resA.EncounterID
		a, _ := json.Marshal(resA)
		b, _ := json.Marshal(resB)
		if string(a) != string(b) {
			t.Errorf("results differ:\n%s\n%s", a, b)
		}
	}
}

func TestVictoryMixedType(t *testing.T) {
	killable := testEnemy("k")
	killable.Vitality = 1
	killable.Defense = 0
	pacifiable := testEnemy("p")
	pacifiable.Vitality = 100
	pacifiable.Willpower = 1
	pacifiable.SpiritDefense = 0

	e, err := New(testContext(killable, pacifiable))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	advanceToPlayerAction(t, e)
	if _, err := e.Perform(Attack("k")); err != nil {
		t.Fatalf("attack: %v", err)
	}
	finishRound(t, e)
	advanceToPlayerAction(t, e)
	if _, err := e.Perform(SpiritAttack("p")); err != nil {
		t.Fatalf("spirit attack: %v", err)
	}

	res, err := e.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if res.Outcome != OutcomeVictoryMixed {
		t.Errorf("outcome = %s, want victory_mixed", res.Outcome)
	}
	if res.EntityOutcomes["k"] != TagKilled || res.EntityOutcomes["p"] != TagPacified {
		t.Errorf("entity outcomes = %+v", res.EntityOutcomes)
	}
}

func TestDefeat(t *testing.T) {
	brute := testEnemy("brute")
	brute.Power = 50
	brute.Behavior = behavior.Definition{DefaultKind: behavior.IntentAttack, DefaultValue: 10}
	ctx := testContext(brute)
	ctx.Hero.Vitality = 5
	e, err := New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	advanceToPlayerAction(t, e)
	if _, err := e.Perform(Defend()); err != nil {
		t.Fatalf("defend: %v", err)
	}
	events, err := e.ResolveEnemies()
	if err != nil {
		t.Fatalf("ResolveEnemies: %v", err)
	}
	if !hasEvent(events, EventDefeat) {
		t.Error("no defeat event")
	}
	res, err := e.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if res.Outcome != OutcomeDefeat {
		t.Errorf("outcome = %s, want defeat", res.Outcome)
	}
	if res.EntityOutcomes["hero"] != TagKilled {
		t.Errorf("hero outcome = %s, want killed", res.EntityOutcomes["hero"])
	}
	if len(res.Transaction.Loot) != 0 || res.Transaction.Reward != 0 {
		t.Error("defeat granted loot")
	}
}

func TestReshuffleMidEncounter(t *testing.T) {
	ctx := testContext(testEnemy("e1"))
	ctx.DeckCards = flatDeck(2, 1)
	e, err := New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	sawReshuffle := false
	for round := 0; round < 3 && !e.Phase().Terminal(); round++ {
		advanceToPlayerAction(t, e)
		events, err := e.Perform(Attack("e1"))
		if err != nil {
			t.Fatalf("attack: %v", err)
		}
		if hasEvent(events, EventDeckReshuffled) {
			sawReshuffle = true
		}
		if e.Phase().Terminal() {
			break
		}
		finishRound(t, e)
	}
	if !sawReshuffle {
		t.Error("a 2-card deck drawn 3 times never reshuffled")
	}
}

func TestRoundEndTicksStatusesAndTransients(t *testing.T) {
	hero := testHero()
	hero.HandCards = []string{"poison"}
	ctx := testContext(testEnemy("e1"))
	ctx.Hero = hero
	ctx.PlayerCards = []content.PlayerCardDef{{
		ID: "poison", Cost: 1,
		Effects: []content.CardEffect{{Kind: content.CardEffectStatusApply, Status: "venom", Amount: 2, Duration: 2}},
	}}
	e, err := New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	advanceToPlayerAction(t, e)
	if _, err := e.Perform(PlayCard("poison", "e1")); err != nil {
		t.Fatalf("play card: %v", err)
	}
	if _, err := e.ResolveEnemies(); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	vitBefore, _, _, _ := e.Opponent("e1")
	events, err := e.EndRound()
	if err != nil {
		t.Fatalf("EndRound: %v", err)
	}
	if !hasEvent(events, EventStatusTicked) {
		t.Error("status did not tick at round end")
	}
	vitAfter, _, _, _ := e.Opponent("e1")
	if vitAfter != vitBefore-2 {
		t.Errorf("venom tick: vitality %d -> %d, want -2", vitBefore, vitAfter)
	}

	// Second tick expires the status.
	advanceToPlayerAction(t, e)
	if _, err := e.Perform(Wait()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if _, err := e.ResolveEnemies(); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	events, err = e.EndRound()
	if err != nil {
		t.Fatalf("EndRound: %v", err)
	}
	if !hasEvent(events, EventStatusExpired) {
		t.Error("status did not expire after its duration")
	}
}

func TestPlayCardCostAndExhaust(t *testing.T) {
	hero := testHero()
	hero.Willpower = 2
	hero.HandCards = []string{"ritual", "ritual2"}
	ctx := testContext(testEnemy("e1"))
	ctx.Hero = hero
	ctx.PlayerCards = []content.PlayerCardDef{
		{ID: "ritual", Cost: 2, Exhaust: true,
			Effects: []content.CardEffect{{Kind: content.CardEffectResonanceShift, Amount: 2}}},
		{ID: "ritual2", Cost: 2,
			Effects: []content.CardEffect{{Kind: content.CardEffectResonanceShift, Amount: 2}}},
	}
	e, err := New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	advanceToPlayerAction(t, e)

	events, err := e.Perform(PlayCard("ritual", ""))
	if err != nil {
		t.Fatalf("play card: %v", err)
	}
	if !hasEvent(events, EventCardExhausted) {
		t.Error("exhaust card not exhausted")
	}
	if !hasEvent(events, EventResonanceShift) {
		t.Error("card effect did not shift resonance")
	}
	if e.Resonance() != 2 {
		t.Errorf("resonance = %v, want 2", e.Resonance())
	}

	// Willpower is spent; the second card is unaffordable.
	finishRound(t, e)
	advanceToPlayerAction(t, e)
	if _, err := e.Perform(PlayCard("ritual2", "")); !errors.Is(err, ErrInsufficientResource) {
		t.Errorf("unaffordable card error = %v, want ErrInsufficientResource", err)
	}
	if _, err := e.Perform(PlayCard("nonsense", "")); !errors.Is(err, ErrUnknownCard) {
		t.Errorf("unknown card error = %v, want ErrUnknownCard", err)
	}
}

func TestUnknownTarget(t *testing.T) {
	e, err := New(testContext(testEnemy("e1")))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	advanceToPlayerAction(t, e)
	if _, err := e.Perform(Attack("ghost")); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("attack on unknown target: %v, want ErrUnknownTarget", err)
	}
}
