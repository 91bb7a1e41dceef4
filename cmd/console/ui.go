package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/encounter-engine/pkg/content"
	"github.com/jwebster45206/encounter-engine/pkg/encounter"
	"github.com/jwebster45206/encounter-engine/pkg/narrate"
	"github.com/jwebster45206/encounter-engine/pkg/resonance"
)

const PlaceHolderText = "attack, spirit, defend, play <card>, mulligan, wait, escape..."

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	registry *content.Registry
	hero     content.HeroDef
	seed     int64
	startRes float64

	engine    *encounter.Engine
	opponents []string
	lines     []string

	logViewport  viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error

	// Enemy selection state
	showEnemyModal bool
	enemies        []content.EnemyDef
	selectedEnemy  int

	// Quit confirmation state
	showQuitModal bool
}

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	narrationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	playerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(registry *content.Registry, hero content.HeroDef, seed int64, startRes float64) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		registry:       registry,
		hero:           hero,
		seed:           seed,
		startRes:       startRes,
		textarea:       ta,
		logViewport:    logVp,
		metaViewport:   metaVp,
		enemies:        registry.Pack().Data.Enemies,
		showEnemyModal: true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showEnemyModal {
		return m.updateEnemyModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.logViewport, vpCmd = m.logViewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.writeLogContent()
		m.writeMetaContent()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			m.handleInput(input)
			m.writeLogContent()
			m.writeMetaContent()
			return m, nil
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.logViewport, vpCmd = m.logViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) resize() {
	logWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - logWidth - 6

	m.logViewport.Width = logWidth - 2
	m.logViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(logWidth - 4)
}

// startEncounter builds a fresh engine against the chosen opponents.
func (m *ConsoleUI) startEncounter(defs []content.EnemyDef) {
	seed := m.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	m.opponents = nil
	for _, d := range defs {
		m.opponents = append(m.opponents, d.ID)
	}

	engine, err := encounter.New(encounter.Context{
		Hero:        m.hero,
		Opponents:   defs,
		DeckCards:   m.registry.FateCards(),
		PlayerCards: m.registry.PlayerCards(m.hero.HandCards),
		Seed:        seed,
		Resonance:   m.startRes,
	})
	if err != nil {
		m.err = err
		return
	}
	m.engine = engine
	m.lines = nil
	m.appendNarration(fmt.Sprintf("The encounter begins. Resonance sits at %.1f (%s).",
		engine.Resonance(), resonance.ZoneOf(engine.Resonance())))
	m.appendNarration("Foes gather their intent. You may mulligan now, or act.")
}

// handleInput parses one command line and advances the encounter.
func (m *ConsoleUI) handleInput(input string) {
	m.lines = append(m.lines, playerStyle.Render("You: ")+input)

	fields := strings.Fields(strings.ToLower(input))
	switch fields[0] {
	case "help", "/help":
		m.appendHelp()
		return
	case "quit", "/quit":
		m.showQuitModal = true
		return
	}

	if m.engine == nil || m.engine.Phase().Terminal() {
		m.appendNarration("The encounter is over. Press Ctrl+C to leave.")
		return
	}

	action, err := m.parseAction(fields)
	if err != nil {
		m.appendError(err)
		return
	}
	m.step(action)
}

// parseAction maps a command line to an engine action. Attack-like actions
// default to the first standing opponent when no target is named.
func (m *ConsoleUI) parseAction(fields []string) (encounter.Action, error) {
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case "attack", "a":
		return encounter.Attack(m.resolveTarget(arg)), nil
	case "spirit", "s":
		return encounter.SpiritAttack(m.resolveTarget(arg)), nil
	case "defend", "d":
		return encounter.Defend(), nil
	case "play", "p":
		if arg == "" {
			return encounter.Action{}, fmt.Errorf("play needs a card id (held: %s)", strings.Join(m.engine.Held(), ", "))
		}
		target := ""
		if len(fields) > 2 {
			target = fields[2]
		} else {
			target = m.resolveTarget("")
		}
		return encounter.PlayCard(arg, target), nil
	case "mulligan", "m":
		if len(fields) > 1 {
			return encounter.Mulligan(fields[1:]...), nil
		}
		return encounter.Mulligan(m.engine.Held()...), nil
	case "wait", "w":
		return encounter.Wait(), nil
	case "escape", "flee":
		return encounter.Escape(), nil
	}
	return encounter.Action{}, fmt.Errorf("unknown command %q (try help)", fields[0])
}

// resolveTarget returns the named opponent id, or the first one still
// standing when the name is empty.
func (m *ConsoleUI) resolveTarget(name string) string {
	if name != "" {
		return name
	}
	for _, id := range m.opponents {
		if _, _, tag, ok := m.engine.Opponent(id); ok && tag == encounter.TagAlive {
			return id
		}
	}
	return ""
}

// step drives the engine through a full round: intents (unless the action
// is a mulligan), the player action, enemy resolution, round end.
func (m *ConsoleUI) step(action encounter.Action) {
	e := m.engine

	if e.Phase() == encounter.PhaseIntent && action.Kind != encounter.ActionMulligan {
		events, err := e.GenerateIntents()
		if err != nil {
			m.appendError(err)
			return
		}
		m.appendEvents(events)
	}

	events, err := e.Perform(action)
	if err != nil {
		m.appendError(err)
		return
	}
	if len(events) == 0 && action.Kind == encounter.ActionSpiritAttack {
		m.appendNarration("That foe has no will to break. Your turn is not spent.")
		return
	}
	m.appendEvents(events)

	if e.Phase() == encounter.PhaseEnemyResolution {
		events, err := e.ResolveEnemies()
		if err != nil {
			m.appendError(err)
			return
		}
		m.appendEvents(events)
	}

	if e.Phase() == encounter.PhaseRoundEnd {
		events, err := e.EndRound()
		if err != nil {
			m.appendError(err)
			return
		}
		m.appendEvents(events)
	}

	if e.Phase().Terminal() {
		m.appendResult()
	}
}

func (m *ConsoleUI) appendEvents(events []encounter.Event) {
	for _, line := range narrate.Lines(events) {
		m.appendNarration(line)
	}
}

func (m *ConsoleUI) appendNarration(line string) {
	m.lines = append(m.lines, narrationStyle.Render(line))
}

func (m *ConsoleUI) appendError(err error) {
	m.lines = append(m.lines, errorStyle.Render("! "+err.Error()))
}

func (m *ConsoleUI) appendResult() {
	result, err := m.engine.Result()
	if err != nil {
		m.appendError(err)
		return
	}
	m.lines = append(m.lines, "")
	m.lines = append(m.lines, titleStyle.Render(fmt.Sprintf("Outcome: %s after %d rounds", result.Outcome, result.Rounds)))
	if len(result.Transaction.Loot) > 0 {
		m.appendNarration("Loot: " + strings.Join(result.Transaction.Loot, ", "))
	}
	if result.Transaction.Reward > 0 {
		m.appendNarration(fmt.Sprintf("Reward: %d", result.Transaction.Reward))
	}
	m.appendNarration(fmt.Sprintf("Resonance ended at %.1f (%+.1f).",
		result.FinalResonance, result.Transaction.ResonanceDelta))
}

func (m *ConsoleUI) appendHelp() {
	help := []string{
		"Commands:",
		"  attack [target]    strike at a foe's body",
		"  spirit [target]    strike at a foe's will",
		"  defend             raise your guard this round",
		"  play <card> [t]    play a held card",
		"  mulligan [ids...]  redraw your hand (once, before acting)",
		"  wait               pass the turn without a fate draw",
		"  escape             flee the encounter",
	}
	for _, line := range help {
		m.lines = append(m.lines, promptStyle.Render(line))
	}
}

func (m *ConsoleUI) writeLogContent() {
	logWidth := m.logViewport.Width - 6
	if logWidth < 10 {
		logWidth = 10
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("ENCOUNTER ENGINE") + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", logWidth)) + "\n\n")
	for _, line := range m.lines {
		content.WriteString(wordwrap.String(line, logWidth) + "\n")
	}

	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetaContent() {
	var content strings.Builder
	content.WriteString(titleStyle.Render("STATE") + "\n\n")

	if m.engine == nil {
		content.WriteString("No encounter running.\n")
		m.metaViewport.SetContent(content.String())
		return
	}

	heroID, vit, maxVit := m.engine.Hero()
	content.WriteString(fmt.Sprintf("%s\n", heroID))
	content.WriteString(fmt.Sprintf("Vitality: %d/%d\n\n", vit, maxVit))

	content.WriteString(fmt.Sprintf("Round: %d\n", m.engine.Round()))
	content.WriteString(fmt.Sprintf("Resonance: %.1f\n", m.engine.Resonance()))
	content.WriteString(fmt.Sprintf("Zone: %s\n\n", resonance.ZoneOf(m.engine.Resonance())))

	content.WriteString("Foes:\n")
	intents := m.engine.Intents()
	for _, id := range m.opponents {
		foeVit, foeWP, tag, ok := m.engine.Opponent(id)
		if !ok {
			continue
		}
		content.WriteString(fmt.Sprintf("• %s [%s]\n", id, tag))
		content.WriteString(fmt.Sprintf("  vit %d  will %d\n", foeVit, foeWP))
		if intent, declared := intents[id]; declared {
			content.WriteString(fmt.Sprintf("  intent: %s %d\n", intent.Kind, intent.Value))
		}
	}

	if held := m.engine.Held(); len(held) > 0 {
		content.WriteString("\nHand:\n")
		for _, id := range held {
			content.WriteString("• " + id + "\n")
		}
	}

	content.WriteString("\nCommands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Act\n")
	content.WriteString("• help: Commands\n")

	m.metaViewport.SetContent(content.String())
}

func (m ConsoleUI) updateEnemyModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedEnemy > 0 {
				m.selectedEnemy--
			}
		case tea.KeyDown:
			if m.selectedEnemy < len(m.enemies)-1 {
				m.selectedEnemy++
			}
		case tea.KeyEnter:
			if len(m.enemies) > 0 {
				m.startEncounter([]content.EnemyDef{m.enemies[m.selectedEnemy]})
				m.showEnemyModal = false
				m.writeLogContent()
				m.writeMetaContent()
				m.textarea.Focus()
				return m, textarea.Blink
			}
		default:
			if msg.String() == "a" || msg.String() == "A" {
				m.startEncounter(m.enemies)
				m.showEnemyModal = false
				m.writeLogContent()
				m.writeMetaContent()
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if !m.showEnemyModal {
					m.textarea.Focus()
					return m, textarea.Blink
				}
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Leave the Encounter?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to quit?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderEnemyModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Choose Your Opponent"))
	content.WriteString("\n\n")

	for i, enemy := range m.enemies {
		label := fmt.Sprintf("%s (vit %d", enemy.Name, enemy.Vitality)
		if enemy.Willpower > 0 {
			label += fmt.Sprintf(", will %d", enemy.Willpower)
		}
		label += ")"
		if i == m.selectedEnemy {
			content.WriteString(modalSelectedItemStyle.Render("▶ " + label))
		} else {
			content.WriteString(modalItemStyle.Render("  " + label))
		}
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(promptStyle.Render("↑/↓ to navigate, Enter to fight, A to fight all, Ctrl+C to exit"))

	modal := modalStyle.Width(60).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if m.showEnemyModal {
		return m.renderEnemyModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	logWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - logWidth - 6

	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.logViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", logWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, metaPanel)
}
