package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/encounter-engine/internal/config"
	"github.com/jwebster45206/encounter-engine/pkg/content"
)

func main() {
	var (
		packFile = flag.String("pack", "pack.json", "content pack filename (relative to DATA_DIR)")
		heroID   = flag.String("hero", "", "hero id from the pack (default: first hero)")
		seed     = flag.Int64("seed", 0, "encounter seed (0 = random)")
		res      = flag.Float64("resonance", 0, "starting resonance value")
	)
	flag.Parse()

	cfg := config.Load()

	pack, err := content.LoadPack(filepath.Join(cfg.DataDir, *packFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load content pack: %v\n", err)
		os.Exit(1)
	}
	registry := content.NewRegistry(pack)

	hero, err := pickHero(pack, registry, *heroID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if len(pack.Data.Enemies) == 0 {
		fmt.Fprintf(os.Stderr, "Content pack %s defines no enemies\n", pack.Name)
		os.Exit(1)
	}

	ui := NewConsoleUI(registry, hero, *seed, *res)
	p := tea.NewProgram(ui, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func pickHero(pack *content.Pack, registry *content.Registry, heroID string) (content.HeroDef, error) {
	if heroID != "" {
		hero, err := registry.Hero(heroID)
		if err != nil {
			return content.HeroDef{}, err
		}
		return hero, nil
	}
	if len(pack.Data.Heroes) == 0 {
		return content.HeroDef{}, fmt.Errorf("content pack %s defines no heroes", pack.Name)
	}
	return pack.Data.Heroes[0], nil
}
