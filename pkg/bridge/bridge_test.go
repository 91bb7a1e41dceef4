package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/encounter-engine/pkg/content"
	"github.com/jwebster45206/encounter-engine/pkg/encounter"
)

func TestBridgeMirrorsVitality(t *testing.T) {
	hero := content.HeroDef{ID: "hero", Vitality: 30, Power: 4, Defense: 2}
	enemy := content.EnemyDef{ID: "husk", Vitality: 20, Power: 3, Defense: 1}

	b, err := New(hero, []content.EnemyDef{enemy})
	require.NoError(t, err)

	actor, ok := b.Actor("husk")
	require.True(t, ok)
	assert.Equal(t, 20, actor.HP())

	err = b.Apply([]encounter.Event{
		{Kind: encounter.EventVitalityChange, Entity: "husk", Amount: -6},
		{Kind: encounter.EventVitalityChange, Entity: "hero", Amount: -2},
		{Kind: encounter.EventWaited, Entity: "hero"},                      // ignored
		{Kind: encounter.EventVitalityChange, Entity: "ghost", Amount: -5}, // unknown entity
	})
	require.NoError(t, err)

	assert.Equal(t, 14, actor.HP())
	heroActor, ok := b.Actor("hero")
	require.True(t, ok)
	assert.Equal(t, 28, heroActor.HP())
}

func TestBridgeClampsAtZero(t *testing.T) {
	hero := content.HeroDef{ID: "hero", Vitality: 5}
	b, err := New(hero, []content.EnemyDef{{ID: "e", Vitality: 3}})
	require.NoError(t, err)

	err = b.Apply([]encounter.Event{
		{Kind: encounter.EventVitalityChange, Entity: "e", Amount: -3},
	})
	require.NoError(t, err)
	actor, _ := b.Actor("e")
	assert.Equal(t, 0, actor.HP())
}
