package battle

import (
	"context"
	"math/rand"
	"time"

	"duel-engine/core"
	"duel-engine/data"
	"duel-engine/ecs/entity"
	"duel-engine/ecs/system"
	"duel-engine/event"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/yohamta/donburi"
)

// Engine は戦闘を開始するための入口です。カタログ・相手の方針・ロガー・イベントバスを共有します。
type Engine struct {
	catalog *data.ActionCatalog
	policy  system.OpponentPolicy
	logger  data.BattleLogger
	bus     *event.Bus
	rng     *rand.Rand
}

// EngineOption は Engine の設定を変更します。
type EngineOption func(*Engine)

// WithPolicy は side B の行動を決める方針を設定します。nil なら両サイドとも SelectAction で選択します。
func WithPolicy(p system.OpponentPolicy) EngineOption {
	return func(e *Engine) { e.policy = p }
}

func WithLogger(l data.BattleLogger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithRand は方針の選択が却下されたときの選び直しに使う乱数源を設定します。
func WithRand(rng *rand.Rand) EngineOption {
	return func(e *Engine) { e.rng = rng }
}

// WithBus はイベントの配信先を設定します。
func WithBus(b *event.Bus) EngineOption {
	return func(e *Engine) { e.bus = b }
}

// NewEngine は新しい Engine を生成します。
func NewEngine(catalog *data.ActionCatalog, opts ...EngineOption) *Engine {
	e := &Engine{catalog: catalog}
	for _, opt := range opts {
		opt(e)
	}
	if e.catalog == nil {
		e.catalog = data.NewActionCatalog()
	}
	if e.logger == nil {
		e.logger = data.NewBattleLogger(nil)
	}
	if e.bus == nil {
		e.bus = event.NewBus()
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e
}

// Bus はイベントバスを返します。購読は戦闘開始前に行います。
func (e *Engine) Bus() *event.Bus {
	return e.bus
}

// StartBattle は2体の雛形から戦闘を開始します。
// 雛形が不正なら *core.InvalidFighterError を返し、戦闘は始まりません。
// 開始時点でHPが0のファイターがいれば、ターンを進めずに決着します（Turns は0）。
func (e *Engine) StartBattle(a, b core.FighterTemplate, opts core.Options) (*Battle, error) {
	opts = opts.WithDefaults()

	world := donburi.NewWorld()
	entryA, entryB, err := entity.InitializeBattleWorld(world, a, b, e.catalog, e.logger)
	if err != nil {
		return nil, err
	}

	effects := system.NewStatusEffectSystem(world, e.logger)
	bt := &Battle{
		id:       uuid.New().String(),
		world:    world,
		opts:     opts,
		bus:      e.bus,
		logger:   e.logger,
		policy:   e.policy,
		fallback: system.NewRandomPolicy(e.rng),
		effects:  effects,
		selector: system.NewActionSelector(world, effects, opts.MaxActionsPerTurn, e.logger),
		resolver: system.NewTurnResolver(world, effects, time.Duration(opts.TurnPacingMs)*time.Millisecond, e.logger),
		fighterA: entryA,
		fighterB: entryB,
	}
	bt.resolver.OnExecuted = bt.publishExecuted
	bt.resolver.CheckEnd = func() *core.BattleResult {
		return system.CheckBattleEnd(bt.fighterA, bt.fighterB, bt.Turn())
	}
	bt.fsm = fsm.NewFSM(
		string(core.StateSelect),
		fsm.Events{
			{Name: eventResolve, Src: []string{string(core.StateSelect)}, Dst: string(core.StateResolving)},
			{Name: eventNextTurn, Src: []string{string(core.StateResolving)}, Dst: string(core.StateSelect)},
			{Name: eventFinish, Src: []string{string(core.StateSelect), string(core.StateResolving)}, Dst: string(core.StateEnded)},
			{Name: eventAbort, Src: []string{string(core.StateSelect), string(core.StateResolving)}, Dst: string(core.StateEnded)},
		},
		fsm.Callbacks{
			"enter_" + string(core.StateEnded): func(_ context.Context, _ *fsm.Event) {
				entity.DisposeBattleWorld(bt.world)
			},
		},
	)

	e.logger.LogBattleStart(bt.id, entity.Snapshot(entryA), entity.Snapshot(entryB))
	if result := system.CheckBattleEnd(entryA, entryB, 0); result != nil {
		if err := bt.finish(context.Background(), *result); err != nil {
			return nil, err
		}
		return bt, nil
	}
	bt.publishTurnStart()
	return bt, nil
}
