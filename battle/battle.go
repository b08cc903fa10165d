package battle

import (
	"context"
	"fmt"

	"duel-engine/core"
	"duel-engine/data"
	"duel-engine/ecs/component"
	"duel-engine/ecs/entity"
	"duel-engine/ecs/system"
	"duel-engine/event"

	"github.com/looplab/fsm"
	"github.com/yohamta/donburi"
)

const (
	eventResolve  = "resolve"
	eventNextTurn = "next_turn"
	eventFinish   = "finish"
	eventAbort    = "abort"
)

// Battle は進行中の1戦闘です。状態は select → resolving → ended と遷移し、ended は終端です。
// 並行利用には対応しません。呼び出しは1つのゴルーチンから行ってください。
type Battle struct {
	id     string
	world  donburi.World
	opts   core.Options
	fsm    *fsm.FSM
	bus    *event.Bus
	logger data.BattleLogger
	policy system.OpponentPolicy

	fallback system.OpponentPolicy
	effects  *system.StatusEffectSystem
	selector *system.ActionSelector
	resolver *system.TurnResolver

	fighterA *donburi.Entry
	fighterB *donburi.Entry

	result      *core.BattleResult
	aborted     bool
	dispatching bool
}

// ID は戦闘ごとに振られる一意なIDです。
func (b *Battle) ID() string { return b.id }

// Options は既定値を補った戦闘設定です。
func (b *Battle) Options() core.Options { return b.opts }

// State は現在の状態です。
func (b *Battle) State() core.BattleState {
	return core.BattleState(b.fsm.Current())
}

// Turn は現在のターン番号です。終了後は最後のターン番号を返します。
func (b *Battle) Turn() int {
	if b.result != nil {
		return b.result.Turns
	}
	if b.aborted {
		return 0
	}
	return entity.GetTurnState(b.world).Turn
}

// Result は戦闘結果を返します。決着前、または中断された場合は false です。
func (b *Battle) Result() (core.BattleResult, bool) {
	if b.result == nil {
		return core.BattleResult{}, false
	}
	return *b.result, true
}

// Aborted は戦闘が中断されたかどうかを返します。
func (b *Battle) Aborted() bool { return b.aborted }

// Fighter はファイターの読み取り専用コピーを返します。決着後は最終状態を返します。
func (b *Battle) Fighter(side core.Side) (core.FighterSnapshot, bool) {
	if !side.Valid() {
		return core.FighterSnapshot{}, false
	}
	if b.result != nil {
		snap, ok := b.result.FinalStats[side]
		return snap, ok
	}
	entry := b.entryFor(side)
	if entry == nil || !entry.Valid() {
		return core.FighterSnapshot{}, false
	}
	return entity.Snapshot(entry), true
}

// AvailableActions は今そのサイドが選択できるアクションIDを返します。選択フェーズ以外では空です。
func (b *Battle) AvailableActions(side core.Side) []string {
	if !b.fsm.Is(string(core.StateSelect)) || !side.Valid() {
		return nil
	}
	return b.selector.Available(side)
}

// Action はそのサイドのファイターが持つアクション定義のコピーを返します。
func (b *Battle) Action(side core.Side, actionID string) (core.ActionDefinition, bool) {
	entry := b.entryFor(side)
	if entry == nil || !entry.Valid() {
		return core.ActionDefinition{}, false
	}
	return component.LoadoutComponent.Get(entry).Action(actionID)
}

// SelectAction はアクションを選択します。両サイドの選択が揃うと、その場でターンを解決します。
// 方針が設定されている場合、side A の選択後に side B の選択を方針で決めます。
// 却下された選択はエラーとして返し、戦闘の状態は変わりません。
func (b *Battle) SelectAction(ctx context.Context, side core.Side, actionID string) error {
	if b.dispatching {
		return core.ErrReentrantCall
	}
	if b.fsm.Is(string(core.StateEnded)) {
		return core.ErrBattleEnded
	}
	if !b.fsm.Is(string(core.StateSelect)) {
		return core.ErrNotSelecting
	}
	if !side.Valid() {
		return core.ErrUnknownSide
	}

	sel, count, err := b.selector.Select(side, actionID)
	if err != nil {
		return err
	}
	b.publish(event.ActionSelectedGameEvent{
		BattleID:      b.id,
		Side:          side,
		Action:        sel.Action,
		SelectedCount: count,
	})

	return b.advance(ctx)
}

// Abort は決着前の戦闘を中断します。結果は作られず、ファイターは破棄されます。
func (b *Battle) Abort() error {
	if b.dispatching {
		return core.ErrReentrantCall
	}
	if b.fsm.Is(string(core.StateEnded)) {
		return core.ErrBattleEnded
	}
	turn := b.Turn()
	b.aborted = true
	if err := b.fsm.Event(context.Background(), eventAbort); err != nil {
		return fmt.Errorf("abort battle %s: %w", b.id, err)
	}
	b.publish(event.BattleAbortedGameEvent{BattleID: b.id, Turn: turn})
	return nil
}

// advance は両サイドの選択が揃っていればターンを解決します。
func (b *Battle) advance(ctx context.Context) error {
	if len(b.selector.Pending(core.SideA)) == 0 {
		return nil
	}
	if len(b.selector.Pending(core.SideB)) == 0 {
		if b.policy == nil {
			return nil
		}
		b.decideOpponent()
	}

	fsmCtx := context.WithoutCancel(ctx)
	if err := b.fsm.Event(fsmCtx, eventResolve); err != nil {
		return fmt.Errorf("start resolving turn %d: %w", b.Turn(), err)
	}
	return b.resolveTurn(ctx, fsmCtx)
}

// PolicyInputFor は方針に渡す入力を side の視点で組み立てます。
func (b *Battle) PolicyInputFor(side core.Side) system.PolicyInput {
	self, _ := b.Fighter(side)
	opponent, _ := b.Fighter(side.Opponent())
	in := system.PolicyInput{
		Turn:      b.Turn(),
		Self:      self,
		Opponent:  opponent,
		Actions:   make(map[string]core.ActionDefinition, len(self.ActionIDs)),
		Available: b.AvailableActions(side),
	}
	for _, id := range self.ActionIDs {
		if def, ok := b.Action(side, id); ok {
			in.Actions[id] = def
		}
	}
	return in
}

// decideOpponent は方針で side B のアクションを選びます。選べるものがなければ何も選択しません。
// 方針の選んだアクションが却下された場合は、選択可能なアクションから一様ランダムに選び直します。
func (b *Battle) decideOpponent() {
	in := b.PolicyInputFor(core.SideB)
	actionID, ok := b.policy.Decide(in)
	if !ok {
		return
	}
	sel, count, err := b.selector.Select(core.SideB, actionID)
	if err != nil {
		actionID, ok = b.fallback.Decide(in)
		if !ok {
			return
		}
		if sel, count, err = b.selector.Select(core.SideB, actionID); err != nil {
			return
		}
	}
	b.publish(event.ActionSelectedGameEvent{
		BattleID:      b.id,
		Side:          core.SideB,
		Action:        sel.Action,
		SelectedCount: count,
	})
}

func (b *Battle) resolveTurn(ctx, fsmCtx context.Context) error {
	turn := b.Turn()
	selections := b.selector.Drain()

	if _, result := b.resolver.Resolve(ctx, turn, selections); result != nil {
		return b.finish(fsmCtx, *result)
	}

	b.effects.TickTurnEnd(b.fighterA)
	b.effects.TickTurnEnd(b.fighterB)
	b.publish(event.TurnEndGameEvent{
		BattleID: b.id,
		Turn:     turn,
		FighterA: entity.Snapshot(b.fighterA),
		FighterB: entity.Snapshot(b.fighterB),
	})

	if result := system.CheckTurnLimit(b.fighterA, b.fighterB, turn, b.opts.MaxTurns); result != nil {
		return b.finish(fsmCtx, *result)
	}

	entity.GetTurnState(b.world).Turn++
	if err := b.fsm.Event(fsmCtx, eventNextTurn); err != nil {
		return fmt.Errorf("start turn %d: %w", turn+1, err)
	}
	b.publishTurnStart()
	return nil
}

func (b *Battle) finish(ctx context.Context, result core.BattleResult) error {
	b.result = &result
	if err := b.fsm.Event(ctx, eventFinish); err != nil {
		return fmt.Errorf("finish battle %s: %w", b.id, err)
	}
	b.logger.LogBattleEnd(result)
	b.publish(event.BattleEndGameEvent{
		BattleID:   b.id,
		Winner:     result.Winner,
		Reason:     result.Reason,
		Turns:      result.Turns,
		FinalStats: copyStats(result.FinalStats),
	})
	return nil
}

func (b *Battle) entryFor(side core.Side) *donburi.Entry {
	switch side {
	case core.SideA:
		return b.fighterA
	case core.SideB:
		return b.fighterB
	}
	return nil
}

// publish はイベントを配信します。配信中の SelectAction / Abort は ErrReentrantCall になります。
func (b *Battle) publish(e event.GameEvent) {
	b.dispatching = true
	defer func() { b.dispatching = false }()
	b.bus.Publish(e)
}

func (b *Battle) publishTurnStart() {
	b.publish(event.TurnStartGameEvent{
		BattleID: b.id,
		Turn:     b.Turn(),
		FighterA: entity.Snapshot(b.fighterA),
		FighterB: entity.Snapshot(b.fighterB),
	})
}

func (b *Battle) publishExecuted(sel core.SelectedAction, outcome core.ActionOutcome) {
	b.publish(event.ActionExecutedGameEvent{
		BattleID: b.id,
		Action:   sel.Action.Clone(),
		Outcome:  outcome,
		Actor:    entity.Snapshot(b.entryFor(outcome.Actor)),
		Target:   entity.Snapshot(b.entryFor(outcome.Target)),
	})
}

func copyStats(m map[core.Side]core.FighterSnapshot) map[core.Side]core.FighterSnapshot {
	out := make(map[core.Side]core.FighterSnapshot, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
