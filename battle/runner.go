package battle

import (
	"context"
	"sync"

	"duel-engine/core"
)

// RunnerUpdate は Runner が選択を処理するたびに送る、操作側サイドの状態です。
type RunnerUpdate struct {
	State     core.BattleState
	Turn      int
	Side      core.Side
	Self      core.FighterSnapshot
	Actions   []core.ActionDefinition
	Available []string
	Err       error
}

// Runner は1つの戦闘を専用のゴルーチンで進めます。
// Battle は並行呼び出しに対応していないため、Run の開始後は Request / Abort 経由でのみ操作します。
// イベントは Run を実行しているゴルーチン上で配信されます。
type Runner struct {
	battle *Battle
	side   core.Side

	requests  chan string
	aborts    chan struct{}
	abortOnce sync.Once
	updates   chan RunnerUpdate
	done      chan struct{}
}

// NewRunner は side を操作する Runner を作ります。
func NewRunner(b *Battle, side core.Side) *Runner {
	return &Runner{
		battle:   b,
		side:     side,
		requests: make(chan string, 1),
		aborts:   make(chan struct{}),
		updates:  make(chan RunnerUpdate, 1),
		done:     make(chan struct{}),
	}
}

// Updates は状態更新を受け取るチャネルです。Run の終了時に閉じられます。
func (r *Runner) Updates() <-chan RunnerUpdate { return r.updates }

// Done は Run の終了時に閉じられます。
func (r *Runner) Done() <-chan struct{} { return r.done }

// Request はアクションの選択を要求します。前の要求が処理待ちなら false を返します。
func (r *Runner) Request(actionID string) bool {
	select {
	case r.requests <- actionID:
		return true
	default:
		return false
	}
}

// Abort は戦闘の中断を要求します。複数回呼んでも構いません。
func (r *Runner) Abort() {
	r.abortOnce.Do(func() { close(r.aborts) })
}

// Run は戦闘が終わるか ctx がキャンセルされるまで要求を処理します。
// ctx のキャンセル時に戦闘が続いていれば中断します。
func (r *Runner) Run(ctx context.Context) {
	defer close(r.done)
	defer close(r.updates)

	r.send(ctx, r.snapshot(nil))
	for r.battle.State() != core.StateEnded {
		select {
		case <-ctx.Done():
			_ = r.battle.Abort()
			return
		case <-r.aborts:
			err := r.battle.Abort()
			r.send(ctx, r.snapshot(err))
			return
		case id := <-r.requests:
			err := r.battle.SelectAction(ctx, r.side, id)
			r.send(ctx, r.snapshot(err))
		}
	}
}

func (r *Runner) send(ctx context.Context, u RunnerUpdate) {
	select {
	case r.updates <- u:
	case <-ctx.Done():
	}
}

func (r *Runner) snapshot(err error) RunnerUpdate {
	self, _ := r.battle.Fighter(r.side)
	u := RunnerUpdate{
		State:     r.battle.State(),
		Turn:      r.battle.Turn(),
		Side:      r.side,
		Self:      self,
		Available: r.battle.AvailableActions(r.side),
		Err:       err,
	}
	for _, id := range self.ActionIDs {
		if def, ok := r.battle.Action(r.side, id); ok {
			u.Actions = append(u.Actions, def)
		}
	}
	return u
}
