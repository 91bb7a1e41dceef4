package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/encounter-engine/pkg/behavior"
	"github.com/jwebster45206/encounter-engine/pkg/content"
	"github.com/jwebster45206/encounter-engine/pkg/fate"
	"github.com/jwebster45206/encounter-engine/pkg/keyword"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <pack.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &PackValidator{}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	if len(validator.warnings) > 0 {
		fmt.Println("Pack is valid, with warnings:")
		fmt.Println(strings.Join(validator.warnings, "\n"))
		return
	}
	fmt.Println("Content pack is valid!")
}

// PackValidator layers authoring-time checks on top of pack verification.
// Hard failures are the ones content.ParsePack rejects; everything the
// engine degrades through at resolution time (unknown zones, keywords,
// formula fields) surfaces here as a warning instead.
type PackValidator struct {
	errors   []string
	warnings []string
}

func (v *PackValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("pack file must have .json extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ".json")
	if !isValidPackFilename(nameWithoutExt) {
		return fmt.Errorf("pack filename '%s' must be lowercase snake_case (e.g., forest_depths.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil
	v.warnings = nil

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	pack, err := content.ParsePack(data)
	if err != nil {
		return err
	}

	v.validatePack(pack)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	return nil
}

func (v *PackValidator) validatePack(p *content.Pack) {
	for _, h := range p.Data.Heroes {
		v.validateIDFormat("hero ID", h.ID)
	}
	for _, e := range p.Data.Enemies {
		v.validateIDFormat("enemy ID", e.ID)
		v.validateEnemy(&e)
	}
	for _, c := range p.Data.FateCards {
		v.validateIDFormat("fate card ID", c.ID)
		v.validateFateCard(&c)
	}
	for _, c := range p.Data.PlayerCards {
		v.validateIDFormat("player card ID", c.ID)
		v.validatePlayerCard(&c)
	}
}

func (v *PackValidator) validateEnemy(e *content.EnemyDef) {
	for zone := range e.ZoneMods {
		if !zone.Valid() {
			v.addWarning(fmt.Sprintf("enemy %q declares zone modifier for unknown zone %q - it will never apply", e.ID, zone))
		}
	}
	for _, kw := range e.Weaknesses {
		v.validateKeyword(fmt.Sprintf("enemy %q weakness", e.ID), kw)
	}
	for _, kw := range e.Strengths {
		v.validateKeyword(fmt.Sprintf("enemy %q strength", e.ID), kw)
	}
	v.validateBehavior(e.ID, &e.Behavior)
}

func (v *PackValidator) validateBehavior(enemyID string, def *behavior.Definition) {
	if def.DefaultKind == "" {
		v.addError(fmt.Sprintf("enemy %q behavior has no default intent", enemyID))
	}
	for i, rule := range def.Rules {
		if rule.Intent == "" {
			v.addError(fmt.Sprintf("enemy %q behavior rule %d has no intent", enemyID, i))
		}
		for _, cond := range rule.When {
			if !behavior.KnownField(cond.Field) {
				v.addWarning(fmt.Sprintf("enemy %q behavior rule %d tests unknown field %q - it evaluates as zero", enemyID, i, cond.Field))
			}
		}
		for _, term := range strings.Split(rule.Formula, "*") {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			if _, err := fmt.Sscanf(term, "%f", new(float64)); err == nil {
				continue
			}
			if !behavior.KnownField(term) {
				v.addWarning(fmt.Sprintf("enemy %q behavior rule %d formula references unknown field %q - it evaluates as zero", enemyID, i, term))
			}
		}
	}
}

func (v *PackValidator) validateFateCard(c *fate.Card) {
	if c.Keyword != "" && !knownKeyword(c.Keyword) {
		v.addWarning(fmt.Sprintf("fate card %q has unknown keyword %q - it resolves to no effect", c.ID, c.Keyword))
	}
	if c.Suit != fate.SuitNone && !knownSuit(c.Suit) {
		v.addWarning(fmt.Sprintf("fate card %q has unknown suit %q - it will mismatch every context", c.ID, c.Suit))
	}
	for _, rule := range c.ZoneRules {
		if !rule.Zone.Valid() {
			v.addWarning(fmt.Sprintf("fate card %q has zone rule for unknown zone %q - it will never apply", c.ID, rule.Zone))
		}
	}
}

func (v *PackValidator) validatePlayerCard(c *content.PlayerCardDef) {
	if len(c.Effects) == 0 {
		v.addWarning(fmt.Sprintf("player card %q has no effects", c.ID))
	}
	for _, eff := range c.Effects {
		if !knownCardEffect(eff.Kind) {
			v.addWarning(fmt.Sprintf("player card %q has unhandled effect kind %q - it resolves as a no-op", c.ID, eff.Kind))
		}
		if eff.Kind == content.CardEffectStatusApply && eff.Status == "" {
			v.addError(fmt.Sprintf("player card %q applies a status with no id", c.ID))
		}
	}
}

func (v *PackValidator) validateKeyword(context string, kw keyword.Keyword) {
	if !knownKeyword(kw) {
		v.addWarning(fmt.Sprintf("%s names unknown keyword %q - it will never trigger", context, kw))
	}
}

func (v *PackValidator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}

	if !isValidID(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *PackValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

func (v *PackValidator) addWarning(msg string) {
	v.warnings = append(v.warnings, "  ~ "+msg)
}

func knownKeyword(kw keyword.Keyword) bool {
	for _, k := range keyword.Keywords {
		if k == kw {
			return true
		}
	}
	return false
}

func knownSuit(s fate.Suit) bool {
	switch s {
	case fate.SuitStrike, fate.SuitSpirit, fate.SuitDefense, fate.SuitExploration, fate.SuitRitual:
		return true
	}
	return false
}

func knownCardEffect(k content.CardEffectKind) bool {
	switch k {
	case content.CardEffectDamage, content.CardEffectHeal, content.CardEffectDraw,
		content.CardEffectResourceGain, content.CardEffectStatusApply,
		content.CardEffectResonanceShift, content.CardEffectTensionShift:
		return true
	}
	return false
}

var (
	validIDRegex       = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)
	validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)
)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}

func isValidPackFilename(name string) bool {
	// Allow 'x.' prefix for experimental packs
	name = strings.TrimPrefix(name, "x.")
	return validFilenameRegex.MatchString(name)
}
