package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageManager(t *testing.T) {
	mm, err := NewMessageManager([]byte(`
- id: greet
  text: "{name} has {hp} HP"
`))
	require.NoError(t, err)

	t.Run("Placeholders are replaced", func(t *testing.T) {
		assert.Equal(t, "Blaze has 40 HP", mm.FormatMessage("greet", map[string]any{"name": "Blaze", "hp": 40}))
	})

	t.Run("Missing params keep the placeholder", func(t *testing.T) {
		assert.Equal(t, "Blaze has {hp} HP", mm.FormatMessage("greet", map[string]any{"name": "Blaze"}))
	})

	t.Run("Unknown id returns the id", func(t *testing.T) {
		assert.Equal(t, "nope", mm.FormatMessage("nope", nil))
	})

	t.Run("Raw message", func(t *testing.T) {
		raw, ok := mm.GetRawMessage("greet")
		assert.True(t, ok)
		assert.Equal(t, "{name} has {hp} HP", raw)
	})

	_, err = NewMessageManager(nil)
	assert.Error(t, err)
}

func TestLoadMessageManager(t *testing.T) {
	en, err := LoadMessageManager("", "en")
	require.NoError(t, err)
	assert.Equal(t, "--- Turn 3 ---", en.FormatMessage("turn_start", map[string]any{"turn": 3}))

	ja, err := DefaultMessageManager()
	require.NoError(t, err)
	for _, id := range []string{
		"turn_start", "action_selected", "action_damage", "action_damage_blocked", "action_heal",
		"action_energy", "action_block", "action_boost", "action_generic", "turn_end",
		"battle_end_winner", "battle_end_draw", "battle_aborted",
		"ui_action_button", "ui_action_cooldown", "ui_waiting", "ui_turn", "ui_quit_hint",
	} {
		_, ok := ja.GetRawMessage(id)
		assert.True(t, ok, "ja: %s", id)
		_, ok = en.GetRawMessage(id)
		assert.True(t, ok, "en: %s", id)
	}
}
