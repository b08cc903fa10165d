package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"duel-engine/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultActionCatalog(t *testing.T) {
	catalog, err := DefaultActionCatalog()
	require.NoError(t, err)

	assert.Equal(t, 6, catalog.Len())
	assert.Equal(t, []string{"defend", "focus", "heal", "heavy_attack", "light_attack", "power_up"}, catalog.IDs())

	heavy, ok := catalog.Get("heavy_attack")
	require.True(t, ok)
	assert.Equal(t, "Crushing Blow", heavy.Name)
	assert.Equal(t, core.ActionTypeAttack, heavy.Type)
	assert.Equal(t, 30, heavy.EnergyCost)
	assert.Equal(t, 35, heavy.Power)
	assert.Equal(t, 2, heavy.Cooldown)
	assert.Equal(t, []core.EffectTag{core.EffectDamage}, heavy.Effects)

	boost, ok := catalog.Get("power_up")
	require.True(t, ok)
	assert.Equal(t, 3, boost.BoostDuration())
}

func TestLoadActionCatalog(t *testing.T) {
	t.Run("Unknown effect tag", func(t *testing.T) {
		src := `
actions:
  - id: zap
    name: Zap
    type: attack
    effects: [lightning]
`
		_, err := LoadActionCatalog(strings.NewReader(src))
		assert.Error(t, err)
	})

	t.Run("Unknown type", func(t *testing.T) {
		src := `
actions:
  - id: zap
    name: Zap
    type: magic
    effects: [damage]
`
		_, err := LoadActionCatalog(strings.NewReader(src))
		assert.ErrorContains(t, err, "unknown type")
	})

	t.Run("Missing id", func(t *testing.T) {
		src := `
actions:
  - name: Nameless
    type: attack
`
		_, err := LoadActionCatalog(strings.NewReader(src))
		assert.ErrorContains(t, err, "id is required")
	})

	t.Run("Effect tags are case insensitive", func(t *testing.T) {
		src := `
actions:
  - id: guard
    name: Guard
    type: defense
    effects: [Block_Next_Attack]
`
		catalog, err := LoadActionCatalog(strings.NewReader(src))
		require.NoError(t, err)
		def, ok := catalog.Get("guard")
		require.True(t, ok)
		assert.True(t, def.HasEffect(core.EffectBlockNextAttack))
	})
}

func TestActionCatalogReturnsCopies(t *testing.T) {
	catalog := NewActionCatalog()
	require.NoError(t, catalog.Register("hit", core.ActionDefinition{
		Name:    "Hit",
		Type:    core.ActionTypeAttack,
		Effects: []core.EffectTag{core.EffectDamage},
	}))

	def, ok := catalog.Get("hit")
	require.True(t, ok)
	assert.Equal(t, "hit", def.ID)
	def.Effects[0] = core.EffectRestoreHP
	def.Name = "Changed"

	again, _ := catalog.Get("hit")
	assert.Equal(t, "Hit", again.Name)
	assert.Equal(t, []core.EffectTag{core.EffectDamage}, again.Effects)

	assert.Error(t, catalog.Register("", core.ActionDefinition{}))
}

func TestLoadFighterTemplates(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		templates, err := DefaultFighterTemplates()
		require.NoError(t, err)
		require.Len(t, templates, 3)

		tide, ok := FindTemplate(templates, "Tide")
		require.True(t, ok)
		assert.Equal(t, "tide", tide.ID)
		require.NotNil(t, tide.MaxHP)
		assert.Equal(t, 120, *tide.MaxHP)
		assert.Nil(t, tide.HP)
		assert.Equal(t, "Tidal Mend", tide.ActionOverrides["heal"].Name)
		require.NotNil(t, tide.ActionOverrides["heal"].EnergyCost)
		assert.Equal(t, 15, *tide.ActionOverrides["heal"].EnergyCost)
		assert.Nil(t, tide.ActionOverrides["heal"].Duration)

		_, ok = FindTemplate(templates, "nobody")
		assert.False(t, ok)
	})

	t.Run("Mistyped number", func(t *testing.T) {
		src := `
fighters:
  - name: Broken
    max_hp: lots
`
		_, err := LoadFighterTemplates(strings.NewReader(src))
		var invalid *core.InvalidFighterError
		assert.ErrorAs(t, err, &invalid)
	})
}

func TestLoadActionCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
actions:
  - id: poke
    name: Poke
    type: attack
    energy_cost: 1
    power: 1
    effects: [damage]
`), 0o644))

	catalog, err := LoadActionCatalogFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"poke"}, catalog.IDs())

	_, err = LoadActionCatalogFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
