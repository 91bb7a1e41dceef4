// Package simulation runs batches of independent encounters for balance
// analysis. Each run gets its own engine and a seed derived from the batch
// seed, so a batch is fully reproducible and runs can execute in parallel.
package simulation

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/jwebster45206/encounter-engine/pkg/content"
	"github.com/jwebster45206/encounter-engine/pkg/encounter"
	"github.com/jwebster45206/encounter-engine/pkg/fate"
)

// DefaultMaxRounds bounds a single run. The engine itself never times out;
// the batch runner enforces the ceiling and counts the run as a stall.
const DefaultMaxRounds = 100

// Policy chooses the player action for the current round. Opponents lists
// all opponent ids in encounter order; the policy is expected to consult
// the engine for their current state.
type Policy interface {
	Choose(e *encounter.Engine, opponents []string) encounter.Action
}

// AttackPolicy always attacks the first opponent still standing.
type AttackPolicy struct{}

func (AttackPolicy) Choose(e *encounter.Engine, opponents []string) encounter.Action {
	for _, id := range opponents {
		if _, _, tag, ok := e.Opponent(id); ok && tag == encounter.TagAlive {
			return encounter.Attack(id)
		}
	}
	return encounter.Wait()
}

// PacifyPolicy drains willpower where an opponent has it, falling back to
// physical attacks against soulless opponents.
type PacifyPolicy struct{}

func (PacifyPolicy) Choose(e *encounter.Engine, opponents []string) encounter.Action {
	fallback := encounter.Wait()
	for _, id := range opponents {
		_, wp, tag, ok := e.Opponent(id)
		if !ok || tag != encounter.TagAlive {
			continue
		}
		if wp > 0 {
			return encounter.SpiritAttack(id)
		}
		if fallback.Kind == encounter.ActionWait {
			fallback = encounter.Attack(id)
		}
	}
	return fallback
}

// Config describes one batch.
type Config struct {
	Hero        content.HeroDef
	Opponents   []content.EnemyDef
	DeckCards   []fate.Card
	PlayerCards []content.PlayerCardDef
	Modifiers   []encounter.Modifier

	Runs      int
	Seed      int64
	Resonance float64
	HandSize  int

	MaxRounds int    // 0 means DefaultMaxRounds
	Workers   int    // 0 means runtime.NumCPU()
	Policy    Policy // nil means AttackPolicy
}

// Report aggregates a batch.
type Report struct {
	Runs      int `json:"runs"`
	Victories int `json:"victories"`
	Defeats   int `json:"defeats"`
	Escapes   int `json:"escapes"`
	Stalled   int `json:"stalled"` // hit the round ceiling

	WinRate            float64     `json:"win_rate"`
	AvgRounds          float64     `json:"avg_rounds"`
	AvgVictoryVitality float64     `json:"avg_victory_vitality"`
	AvgResonanceDelta  float64     `json:"avg_resonance_delta"`
	RoundHistogram     map[int]int `json:"round_histogram"`

	Outcomes map[encounter.OutcomeKind]int `json:"outcomes"`
}

type runOutcome struct {
	result  *encounter.Result
	stalled bool
	rounds  int
	err     error
}

// Run executes the batch. Runs are distributed over a worker pool; the
// report is identical for identical configs regardless of worker count.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if cfg.Runs <= 0 {
		return nil, fmt.Errorf("run count must be positive, got %d", cfg.Runs)
	}
	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > cfg.Runs {
		workers = cfg.Runs
	}
	policy := cfg.Policy
	if policy == nil {
		policy = AttackPolicy{}
	}

	opponents := make([]string, len(cfg.Opponents))
	for i, o := range cfg.Opponents {
		opponents[i] = o.ID
	}

	outcomes := make([]runOutcome, cfg.Runs)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = runOne(cfg, opponents, policy, cfg.Seed+int64(i), maxRounds)
			}
		}()
	}

	for i := 0; i < cfg.Runs; i++ {
		if err := ctx.Err(); err != nil {
			close(jobs)
			wg.Wait()
			return nil, err
		}
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return aggregate(cfg.Runs, cfg.Hero.Vitality, outcomes)
}

// runOne plays a single encounter to completion under the policy.
func runOne(cfg Config, opponents []string, policy Policy, seed int64, maxRounds int) runOutcome {
	ectx := encounter.Context{
		Hero:        cfg.Hero,
		Opponents:   cfg.Opponents,
		DeckCards:   cfg.DeckCards,
		PlayerCards: cfg.PlayerCards,
		Modifiers:   cfg.Modifiers,
		Seed:        seed,
		Resonance:   cfg.Resonance,
		HandSize:    cfg.HandSize,
	}
	e, err := encounter.New(ectx)
	if err != nil {
		return runOutcome{err: err}
	}

	for !e.Phase().Terminal() {
		if e.Round() > maxRounds {
			return runOutcome{stalled: true, rounds: e.Round()}
		}
		if _, err := e.GenerateIntents(); err != nil {
			return runOutcome{err: err}
		}
		if _, err := e.Perform(policy.Choose(e, opponents)); err != nil {
			return runOutcome{err: err}
		}
		if e.Phase().Terminal() {
			break
		}
		if _, err := e.ResolveEnemies(); err != nil {
			return runOutcome{err: err}
		}
		if e.Phase().Terminal() {
			break
		}
		if _, err := e.EndRound(); err != nil {
			return runOutcome{err: err}
		}
	}

	res, err := e.Result()
	if err != nil {
		return runOutcome{err: err}
	}
	return runOutcome{result: res, rounds: res.Rounds}
}

// aggregate folds run outcomes into the batch report. startVitality is the
// hero's starting vitality, used to recover the remaining value from the
// net delta in each result.
func aggregate(runs, startVitality int, outcomes []runOutcome) (*Report, error) {
	r := &Report{
		Runs:           runs,
		RoundHistogram: make(map[int]int),
		Outcomes:       make(map[encounter.OutcomeKind]int),
	}

	var roundSum int
	var victoryVitalitySum int
	var resonanceDeltaSum float64
	completed := 0

	for i, o := range outcomes {
		if o.err != nil {
			return nil, fmt.Errorf("run %d: %w", i, o.err)
		}
		if o.stalled {
			r.Stalled++
			r.RoundHistogram[o.rounds]++
			continue
		}
		res := o.result
		completed++
		roundSum += res.Rounds
		r.RoundHistogram[res.Rounds]++
		r.Outcomes[res.Outcome]++
		resonanceDeltaSum += res.Transaction.ResonanceDelta

		switch {
		case res.Outcome.Victory():
			r.Victories++
			victoryVitalitySum += startVitality + res.Transaction.VitalityDelta
		case res.Outcome == encounter.OutcomeDefeat:
			r.Defeats++
		case res.Outcome == encounter.OutcomeEscape:
			r.Escapes++
		}
	}

	if completed > 0 {
		r.WinRate = float64(r.Victories) / float64(runs)
		r.AvgRounds = float64(roundSum) / float64(completed)
		r.AvgResonanceDelta = resonanceDeltaSum / float64(completed)
	}
	if r.Victories > 0 {
		r.AvgVictoryVitality = float64(victoryVitalitySum) / float64(r.Victories)
	}
	return r, nil
}
