package battle

import (
	"context"
	"testing"
	"time"

	"duel-engine/core"
	"duel-engine/event"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextUpdate(t *testing.T, r *Runner) RunnerUpdate {
	t.Helper()
	select {
	case u, ok := <-r.Updates():
		require.True(t, ok, "updates closed")
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("no update from runner")
	}
	return RunnerUpdate{}
}

func waitDone(t *testing.T, r *Runner) {
	t.Helper()
	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunner(t *testing.T) {
	engine := newEngine(t, WithPolicy(fixedPolicy("defend")))
	events, cancelEvents := engine.Bus().Channel(64)
	defer cancelEvents()

	bt, err := engine.StartBattle(striker("Blaze", 100, 30), striker("Tide", 40, 0), core.Options{})
	require.NoError(t, err)
	runner := NewRunner(bt, core.SideA)
	go runner.Run(context.Background())

	first := nextUpdate(t, runner)
	assert.Equal(t, core.StateSelect, first.State)
	assert.Equal(t, 1, first.Turn)
	assert.Equal(t, core.SideA, first.Side)
	assert.Equal(t, "Blaze", first.Self.Name)
	assert.Equal(t, []string{"light_attack", "defend", "heal"}, first.Available)
	require.Len(t, first.Actions, 3)
	assert.Equal(t, "light_attack", first.Actions[0].ID)

	require.True(t, runner.Request("fireball"))
	rejected := nextUpdate(t, runner)
	var notFound *core.ActionNotFoundError
	assert.ErrorAs(t, rejected.Err, &notFound)
	assert.Equal(t, 1, rejected.Turn)

	require.True(t, runner.Request("light_attack"))
	second := nextUpdate(t, runner)
	assert.NoError(t, second.Err)
	assert.Equal(t, 2, second.Turn)

	require.True(t, runner.Request("light_attack"))
	last := nextUpdate(t, runner)
	assert.Equal(t, core.StateEnded, last.State)
	waitDone(t, runner)
	_, open := <-runner.Updates()
	assert.False(t, open)

	result, ok := bt.Result()
	require.True(t, ok)
	assert.Equal(t, core.WinnerA, result.Winner)

	var sawEnd bool
	for len(events) > 0 {
		if _, ok := (<-events).(event.BattleEndGameEvent); ok {
			sawEnd = true
		}
	}
	assert.True(t, sawEnd)
}

func TestRunnerAbort(t *testing.T) {
	engine := newEngine(t)
	bt, err := engine.StartBattle(striker("Blaze", 100, 10), striker("Tide", 100, 10), core.Options{})
	require.NoError(t, err)
	runner := NewRunner(bt, core.SideA)
	go runner.Run(context.Background())

	nextUpdate(t, runner)
	runner.Abort()
	runner.Abort()

	u := nextUpdate(t, runner)
	assert.Equal(t, core.StateEnded, u.State)
	assert.NoError(t, u.Err)
	waitDone(t, runner)
	assert.True(t, bt.Aborted())
}

func TestRunnerStopsOnContextCancel(t *testing.T) {
	engine := newEngine(t)
	bt, err := engine.StartBattle(striker("Blaze", 100, 10), striker("Tide", 100, 10), core.Options{})
	require.NoError(t, err)
	runner := NewRunner(bt, core.SideA)

	ctx, cancel := context.WithCancel(context.Background())
	go runner.Run(ctx)
	nextUpdate(t, runner)
	cancel()

	waitDone(t, runner)
	assert.True(t, bt.Aborted())
}
