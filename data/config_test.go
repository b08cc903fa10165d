package data

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"duel-engine/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, core.DefaultMaxActionsPerTurn, cfg.Battle.MaxActionsPerTurn)
	assert.Equal(t, "standard", cfg.Policy.Name)
	assert.Equal(t, 800, cfg.UI.Screen.Width)
	assert.Equal(t, "ja", cfg.UI.Language)
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"negative max actions": func(c *Config) { c.Battle.MaxActionsPerTurn = -1 },
		"negative pacing":      func(c *Config) { c.Battle.TurnPacingMs = -5 },
		"negative max turns":   func(c *Config) { c.Battle.MaxTurns = -1 },
		"zero screen":          func(c *Config) { c.UI.Screen.Width = 0 },
		"short color":          func(c *Config) { c.UI.Colors.HP = "fff" },
		"non-hex color":        func(c *Config) { c.UI.Colors.Gauge = "zzzzzz" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := applyEnv(&cfg, map[string]string{
		"DUEL_BATTLE_MAX_TURNS":      "20",
		"DUEL_BATTLE_TURN_PACING_MS": "250",
		"DUEL_POLICY_NAME":           "random",
		"DUEL_POLICY_SEED":           "42",
		"DUEL_ASSET_ACTIONS":         "/tmp/actions.yaml",
		"DUEL_UI_SCREEN_WIDTH":       "1024",
		"DUEL_UI_FONT_SIZE":          "18.5",
	})
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Battle.MaxTurns)
	assert.Equal(t, 250, cfg.Battle.TurnPacingMs)
	assert.Equal(t, core.DefaultMaxActionsPerTurn, cfg.Battle.MaxActionsPerTurn)
	assert.Equal(t, "random", cfg.Policy.Name)
	assert.Equal(t, int64(42), cfg.Policy.Seed)
	assert.Equal(t, "/tmp/actions.yaml", cfg.AssetPaths.Actions)
	assert.Equal(t, 1024, cfg.UI.Screen.Width)
	assert.Equal(t, 600, cfg.UI.Screen.Height)
	assert.Equal(t, 18.5, cfg.UI.FontSize)

	t.Run("Malformed number", func(t *testing.T) {
		cfg := DefaultConfig()
		err := applyEnv(&cfg, map[string]string{"DUEL_BATTLE_MAX_TURNS": "many"})
		assert.Error(t, err)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("Missing file uses defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().Policy.Name, cfg.Policy.Name)
	})

	t.Run("File then environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
battle:
  max_turns: 5
  turn_pacing_ms: 10
policy:
  name: scripted
  rules:
    - when: "self.hp_pct < 30.0"
      action: heal
ui:
  colors:
    background: "000000"
`), 0o644))
		t.Setenv("DUEL_BATTLE_MAX_TURNS", "7")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.Battle.MaxTurns)
		assert.Equal(t, 10, cfg.Battle.TurnPacingMs)
		assert.Equal(t, core.DefaultMaxActionsPerTurn, cfg.Battle.MaxActionsPerTurn)
		assert.Equal(t, "scripted", cfg.Policy.Name)
		require.Len(t, cfg.Policy.Rules, 1)
		assert.Equal(t, "heal", cfg.Policy.Rules[0].Action)
		assert.Equal(t, "000000", cfg.UI.Colors.Background)
		assert.Equal(t, "f0f0f0", cfg.UI.Colors.Text)
	})

	t.Run("Broken YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("battle: [unclosed"), 0o644))
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestColorStringsParse(t *testing.T) {
	colors := ColorStrings{Background: "ff8000", Text: "bad"}.Parse()
	assert.Equal(t, color.RGBA{R: 255, G: 128, B: 0, A: 255}, colors.Background)
	assert.Equal(t, color.White, colors.Text)
}
