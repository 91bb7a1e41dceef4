package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/jwebster45206/encounter-engine/internal/config"
	"github.com/jwebster45206/encounter-engine/internal/logger"
	"github.com/jwebster45206/encounter-engine/internal/services"
	"github.com/jwebster45206/encounter-engine/pkg/content"
	"github.com/jwebster45206/encounter-engine/pkg/encounter"
	"github.com/jwebster45206/encounter-engine/pkg/narrate"
	"github.com/jwebster45206/encounter-engine/pkg/simulation"
)

func main() {
	var (
		packFile  = flag.String("pack", "", "content pack filename (relative to DATA_DIR)")
		heroID    = flag.String("hero", "", "hero id from the pack")
		enemyIDs  = flag.String("enemies", "", "comma-separated enemy ids from the pack")
		runs      = flag.Int("runs", 1000, "number of encounters to simulate")
		seed      = flag.Int64("seed", 1, "batch seed")
		res       = flag.Float64("resonance", 0, "starting resonance value")
		policy    = flag.String("policy", "attack", "player policy: attack or pacify")
		workers   = flag.Int("workers", 0, "worker goroutines (0 = NumCPU)")
		maxRounds = flag.Int("max-rounds", simulation.DefaultMaxRounds, "round ceiling per run")
		persist   = flag.Bool("persist", false, "save the report to Redis (REDIS_URL)")
		label     = flag.String("label", "", "label for the persisted report")
		asJSON    = flag.Bool("json", false, "print the report as JSON")
		trace     = flag.Bool("trace", false, "narrate a single run instead of a batch")
	)
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg)

	if *packFile == "" || *heroID == "" || *enemyIDs == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -pack <pack.json> -hero <id> -enemies <id,...>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cache services.Cache
	if *persist {
		if cfg.RedisURL == "" {
			log.Error("Persisting a report requires REDIS_URL")
			os.Exit(1)
		}
		redisService, err := services.NewRedisService(cfg.RedisURL, log)
		if err != nil {
			log.Error("Failed to create Redis service", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisService.Close(); err != nil {
				log.Error("Error closing Redis service", "error", err)
			}
		}()
		if err := redisService.Ping(ctx); err != nil {
			log.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		cache = redisService
	}

	packSvc := services.NewPackService(cache, cfg.DataDir, log)
	pack, err := packSvc.Load(ctx, *packFile)
	if err != nil {
		log.Error("Failed to load content pack", "error", err)
		os.Exit(1)
	}
	registry := content.NewRegistry(pack)

	hero, err := registry.Hero(*heroID)
	if err != nil {
		log.Error("Unknown hero", "error", err)
		os.Exit(1)
	}
	var enemies []content.EnemyDef
	for _, id := range strings.Split(*enemyIDs, ",") {
		enemy, err := registry.Enemy(strings.TrimSpace(id))
		if err != nil {
			log.Error("Unknown enemy", "error", err)
			os.Exit(1)
		}
		enemies = append(enemies, enemy)
	}

	simCfg := simulation.Config{
		Hero:        hero,
		Opponents:   enemies,
		DeckCards:   registry.FateCards(),
		PlayerCards: registry.PlayerCards(hero.HandCards),
		Runs:        *runs,
		Seed:        *seed,
		Resonance:   *res,
		MaxRounds:   *maxRounds,
		Workers:     *workers,
	}
	switch *policy {
	case "attack":
		simCfg.Policy = simulation.AttackPolicy{}
	case "pacify":
		simCfg.Policy = simulation.PacifyPolicy{}
	default:
		log.Error("Unknown policy", "policy", *policy, "supported", []string{"attack", "pacify"})
		os.Exit(1)
	}

	if *trace {
		if err := traceRun(simCfg, *maxRounds); err != nil {
			log.Error("Trace run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	log.Info("Starting simulation batch",
		"pack", pack.Name,
		"hero", hero.ID,
		"enemies", *enemyIDs,
		"runs", *runs,
		"seed", *seed)

	report, err := simulation.Run(ctx, simCfg)
	if err != nil {
		log.Error("Simulation failed", "error", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Error("Failed to encode report", "error", err)
			os.Exit(1)
		}
	} else {
		printReport(report)
	}

	if *persist {
		reportSvc := services.NewReportService(cache, log)
		id, err := reportSvc.Save(ctx, *label, *seed, report)
		if err != nil {
			log.Error("Failed to persist report", "error", err)
			os.Exit(1)
		}
		log.Info("Report persisted", "report_id", id)
	}
}

// traceRun plays one encounter under the configured policy and prints the
// narrated event stream, for eyeballing a matchup before a full batch.
func traceRun(cfg simulation.Config, maxRounds int) error {
	opponents := make([]string, len(cfg.Opponents))
	for i, o := range cfg.Opponents {
		opponents[i] = o.ID
	}

	e, err := encounter.New(encounter.Context{
		Hero:        cfg.Hero,
		Opponents:   cfg.Opponents,
		DeckCards:   cfg.DeckCards,
		PlayerCards: cfg.PlayerCards,
		Modifiers:   cfg.Modifiers,
		Seed:        cfg.Seed,
		Resonance:   cfg.Resonance,
		HandSize:    cfg.HandSize,
	})
	if err != nil {
		return err
	}

	print := func(events []encounter.Event) {
		for _, line := range narrate.Lines(events) {
			fmt.Println(line)
		}
	}

	for !e.Phase().Terminal() {
		if e.Round() > maxRounds {
			fmt.Printf("Stalled after %d rounds.\n", maxRounds)
			return nil
		}
		fmt.Printf("--- Round %d ---\n", e.Round())
		events, err := e.GenerateIntents()
		if err != nil {
			return err
		}
		print(events)
		if events, err = e.Perform(cfg.Policy.Choose(e, opponents)); err != nil {
			return err
		}
		print(events)
		if e.Phase().Terminal() {
			break
		}
		if events, err = e.ResolveEnemies(); err != nil {
			return err
		}
		print(events)
		if e.Phase().Terminal() {
			break
		}
		if events, err = e.EndRound(); err != nil {
			return err
		}
		print(events)
	}

	res, err := e.Result()
	if err != nil {
		return err
	}
	fmt.Printf("Outcome: %s after %d rounds (resonance %+.1f)\n",
		res.Outcome, res.Rounds, res.Transaction.ResonanceDelta)
	return nil
}

func printReport(r *simulation.Report) {
	fmt.Printf("Runs:                 %d\n", r.Runs)
	fmt.Printf("Victories:            %d\n", r.Victories)
	fmt.Printf("Defeats:              %d\n", r.Defeats)
	fmt.Printf("Escapes:              %d\n", r.Escapes)
	fmt.Printf("Stalled:              %d\n", r.Stalled)
	fmt.Printf("Win rate:             %.1f%%\n", r.WinRate*100)
	fmt.Printf("Avg rounds:           %.2f\n", r.AvgRounds)
	fmt.Printf("Avg victory vitality: %.2f\n", r.AvgVictoryVitality)
	fmt.Printf("Avg resonance delta:  %+.2f\n", r.AvgResonanceDelta)

	rounds := make([]int, 0, len(r.RoundHistogram))
	for n := range r.RoundHistogram {
		rounds = append(rounds, n)
	}
	sort.Ints(rounds)
	fmt.Println("Round histogram:")
	for _, n := range rounds {
		fmt.Printf("  %3d: %d\n", n, r.RoundHistogram[n])
	}
}
