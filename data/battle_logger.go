package data

import (
	"duel-engine/core"

	"go.uber.org/zap"
)

// BattleLogger は戦闘中の判定や計算結果をデバッグ目的で出力するためのインターフェースです。
// 表示用の文章はイベント購読側（シミュレータ・ビューア）が MessageManager で作ります。
type BattleLogger interface {
	LogBattleStart(battleID string, a, b core.FighterSnapshot)
	LogSelection(side core.Side, actionID string, selectedCount int)
	LogRejection(side core.Side, actionID string, err error)
	LogActionExecuted(outcome core.ActionOutcome)
	LogEffectExpired(side core.Side, effect core.StatusEffectID)
	LogCooldownReady(side core.Side, actionID string)
	LogUnknownAction(fighter, actionID string)
	LogBattleEnd(result core.BattleResult)
}

// BattleLoggerImpl は BattleLogger インターフェースの zap 実装です。
type BattleLoggerImpl struct {
	logger *zap.Logger
}

// NewBattleLogger は新しい BattleLoggerImpl のインスタンスを生成します。nil なら何も出力しません。
func NewBattleLogger(logger *zap.Logger) BattleLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BattleLoggerImpl{logger: logger.Named("battle")}
}

func (l *BattleLoggerImpl) LogBattleStart(battleID string, a, b core.FighterSnapshot) {
	l.logger.Info("戦闘開始",
		zap.String("battle_id", battleID),
		zap.String("fighter_a", a.Name),
		zap.String("fighter_b", b.Name),
	)
}

// LogSelection は受理された行動選択を出力します。
func (l *BattleLoggerImpl) LogSelection(side core.Side, actionID string, selectedCount int) {
	l.logger.Debug("行動を選択",
		zap.String("side", string(side)),
		zap.String("action", actionID),
		zap.Int("selected_count", selectedCount),
	)
}

// LogRejection は却下された行動選択を出力します。
func (l *BattleLoggerImpl) LogRejection(side core.Side, actionID string, err error) {
	l.logger.Info("行動選択を却下",
		zap.String("side", string(side)),
		zap.String("action", actionID),
		zap.Error(err),
	)
}

// LogActionExecuted はアクションの実行結果（ダメージ・回復量など）を出力します。
func (l *BattleLoggerImpl) LogActionExecuted(o core.ActionOutcome) {
	l.logger.Debug("アクション実行",
		zap.String("actor", string(o.Actor)),
		zap.String("target", string(o.Target)),
		zap.String("action", o.ActionID),
		zap.Int("energy_spent", o.EnergySpent),
		zap.Int("damage", o.Damage),
		zap.Int("healed", o.Healed),
		zap.Int("energy_restored", o.EnergyRestored),
		zap.Bool("blocked", o.Blocked),
		zap.Bool("boosted", o.Boosted),
	)
}

func (l *BattleLoggerImpl) LogEffectExpired(side core.Side, effect core.StatusEffectID) {
	l.logger.Debug("ステータス効果が切れました",
		zap.String("side", string(side)),
		zap.String("effect", string(effect)),
	)
}

func (l *BattleLoggerImpl) LogCooldownReady(side core.Side, actionID string) {
	l.logger.Debug("クールダウン終了",
		zap.String("side", string(side)),
		zap.String("action", actionID),
	)
}

// LogUnknownAction はカタログにないアクションIDを持つファイターを警告します。
func (l *BattleLoggerImpl) LogUnknownAction(fighter, actionID string) {
	l.logger.Warn("カタログに存在しないアクションIDです",
		zap.String("fighter", fighter),
		zap.String("action", actionID),
	)
}

func (l *BattleLoggerImpl) LogBattleEnd(result core.BattleResult) {
	l.logger.Info("戦闘終了",
		zap.String("winner", string(result.Winner)),
		zap.String("reason", result.Reason),
		zap.Int("turns", result.Turns),
	)
}
