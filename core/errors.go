package core

import (
	"errors"
	"fmt"
)

var (
	// ErrBattleEnded は終了済みの戦闘に操作しようとしたときに返されます。
	ErrBattleEnded = errors.New("battle has ended")
	// ErrNotSelecting は行動選択フェーズ以外で選択しようとしたときに返されます。
	ErrNotSelecting = errors.New("battle is not accepting selections")
	ErrUnknownSide  = errors.New("unknown side")
	// ErrReentrantCall はイベントハンドラ内から戦闘を操作しようとしたときに返されます。
	ErrReentrantCall = errors.New("battle called from inside an event handler")
)

// InvalidFighterError はファイターの必須項目が欠けている、または不正な場合のエラーです。
type InvalidFighterError struct {
	Fighter string
	Field   string
	Reason  string
}

func (e *InvalidFighterError) Error() string {
	name := e.Fighter
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("invalid fighter %s: field %q %s", name, e.Field, e.Reason)
}

// ActionNotFoundError はファイターが持たないアクションIDを指定した場合のエラーです。
type ActionNotFoundError struct {
	Side     Side
	ActionID string
}

func (e *ActionNotFoundError) Error() string {
	return fmt.Sprintf("%s: action %q not found", e.Side, e.ActionID)
}

type InsufficientEnergyError struct {
	Side      Side
	ActionID  string
	Required  int
	Available int
}

func (e *InsufficientEnergyError) Error() string {
	return fmt.Sprintf("%s: action %q needs %d energy, %d available", e.Side, e.ActionID, e.Required, e.Available)
}

type ActionOnCooldownError struct {
	Side      Side
	ActionID  string
	Remaining int
}

func (e *ActionOnCooldownError) Error() string {
	return fmt.Sprintf("%s: action %q on cooldown for %d more turn(s)", e.Side, e.ActionID, e.Remaining)
}

type SelectionLimitReachedError struct {
	Side  Side
	Limit int
}

func (e *SelectionLimitReachedError) Error() string {
	return fmt.Sprintf("%s: selection limit of %d reached for this turn", e.Side, e.Limit)
}

// IsRejection は err が選択の却下（状態を変えずに呼び出し元へ返すエラー）かどうかを判定します。
func IsRejection(err error) bool {
	var (
		notFound *ActionNotFoundError
		energy   *InsufficientEnergyError
		cooldown *ActionOnCooldownError
		limit    *SelectionLimitReachedError
	)
	return errors.As(err, &notFound) || errors.As(err, &energy) ||
		errors.As(err, &cooldown) || errors.As(err, &limit)
}
