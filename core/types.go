package core

import (
	"fmt"
	"strings"
)

// --- Enums and Constants ---

type Side string
type ActionType string
type StatusEffectID string
type Winner string
type BattleState string

const (
	SideA Side = "fighterA"
	SideB Side = "fighterB"
)

// Opponent は反対側のサイドを返します。
func (s Side) Opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// Valid はサイドが既知の値かどうかを返します。
func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

const (
	ActionTypeAttack   ActionType = "attack"
	ActionTypeDefense  ActionType = "defense"
	ActionTypeBuff     ActionType = "buff"
	ActionTypeRecovery ActionType = "recovery"
	ActionTypeUtility  ActionType = "utility"
)

// Priority は解決順の優先度を返します。小さいほど先に実行されます。
// utility は優先度表に含まれないため、攻撃の後に回します。
func (t ActionType) Priority() int {
	switch t {
	case ActionTypeDefense:
		return 0
	case ActionTypeBuff:
		return 1
	case ActionTypeRecovery:
		return 2
	case ActionTypeAttack:
		return 3
	default:
		return 4
	}
}

func (t ActionType) Valid() bool {
	switch t {
	case ActionTypeAttack, ActionTypeDefense, ActionTypeBuff, ActionTypeRecovery, ActionTypeUtility:
		return true
	}
	return false
}

const (
	StatusBlockNextAttack StatusEffectID = "block_next_attack"
	StatusBoostDamage     StatusEffectID = "boost_damage"
)

const (
	WinnerA    Winner = "fighterA"
	WinnerB    Winner = "fighterB"
	WinnerDraw Winner = "draw"
)

const (
	StateSelect    BattleState = "select"
	StateResolving BattleState = "resolving"
	StateEnded     BattleState = "ended"
)

const (
	ReasonKnockout       = "knockout"
	ReasonDoubleKnockout = "double_knockout"
	ReasonTurnLimit      = "turn_limit"
)

const (
	DefaultMaxActionsPerTurn = 4
	DefaultBoostDuration     = 3
	BlockDuration            = 1
)

// --- Effect tags ---

// EffectTag はアクション実行時に起きることを表す列挙型です。
// 文字列との相互変換は UnmarshalText / String で行います。
type EffectTag int

const (
	EffectDamage EffectTag = iota
	EffectRestoreHP
	EffectRestoreEnergy
	EffectBlockNextAttack
	EffectBoostDamage

	EffectTagCount
)

var effectTagNames = [EffectTagCount]string{
	EffectDamage:          "damage",
	EffectRestoreHP:       "restore_hp",
	EffectRestoreEnergy:   "restore_energy",
	EffectBlockNextAttack: "block_next_attack",
	EffectBoostDamage:     "boost_damage",
}

func (e EffectTag) String() string {
	if e < 0 || e >= EffectTagCount {
		return fmt.Sprintf("EffectTag(%d)", int(e))
	}
	return effectTagNames[e]
}

// ParseEffectTag はタグ名から EffectTag を求めます。
func ParseEffectTag(s string) (EffectTag, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range effectTagNames {
		if n == name {
			return EffectTag(i), nil
		}
	}
	return 0, fmt.Errorf("unknown effect tag %q", s)
}

func (e EffectTag) MarshalText() ([]byte, error) {
	if e < 0 || e >= EffectTagCount {
		return nil, fmt.Errorf("unknown effect tag %d", int(e))
	}
	return []byte(effectTagNames[e]), nil
}

func (e *EffectTag) UnmarshalText(b []byte) error {
	tag, err := ParseEffectTag(string(b))
	if err != nil {
		return err
	}
	*e = tag
	return nil
}

// --- Data Structures ---

// ActionDefinition はアクションの静的な定義です。
// 一度カタログに登録されたら変更せず、戦闘開始時にファイターごとにコピーします。
type ActionDefinition struct {
	ID         string      `yaml:"id" json:"id"`
	Name       string      `yaml:"name" json:"name"`
	Type       ActionType  `yaml:"type" json:"type"`
	EnergyCost int         `yaml:"energy_cost" json:"energyCost"`
	Power      int         `yaml:"power" json:"power"`
	Effects    []EffectTag `yaml:"effects" json:"effects"`
	Cooldown   int         `yaml:"cooldown" json:"cooldown"`
	Duration   int         `yaml:"duration,omitempty" json:"duration,omitempty"`
}

// Clone はスライスを含めて定義を複製します。
func (a ActionDefinition) Clone() ActionDefinition {
	c := a
	if a.Effects != nil {
		c.Effects = append([]EffectTag(nil), a.Effects...)
	}
	return c
}

// HasEffect はアクションが指定のタグを持つかどうかを返します。
func (a ActionDefinition) HasEffect(tag EffectTag) bool {
	for _, e := range a.Effects {
		if e == tag {
			return true
		}
	}
	return false
}

// BoostDuration は boost_damage 効果の持続ターン数を返します。
func (a ActionDefinition) BoostDuration() int {
	if a.Duration > 0 {
		return a.Duration
	}
	return DefaultBoostDuration
}

// FighterTemplate は外部から渡されるファイターの雛形です。
// 必須項目の欠落を検出できるよう、数値はポインタで受け取ります。
type FighterTemplate struct {
	ID              string                    `yaml:"id"`
	Name            string                    `yaml:"name"`
	MaxHP           *int                      `yaml:"max_hp"`
	HP              *int                      `yaml:"hp"`
	MaxEnergy       *int                      `yaml:"max_energy"`
	Energy          *int                      `yaml:"energy"`
	Attack          *int                      `yaml:"attack"`
	Defense         *int                      `yaml:"defense"`
	Actions         []string                  `yaml:"actions"`
	ActionOverrides map[string]ActionOverride `yaml:"action_overrides"`
}

// ActionOverride はファイター固有のアクション設定です。指定した項目だけをカタログの定義に重ねます。
// 0 を明示的に指定できるよう、数値はポインタで受け取ります。
type ActionOverride struct {
	Name       string      `yaml:"name"`
	Type       ActionType  `yaml:"type"`
	EnergyCost *int        `yaml:"energy_cost"`
	Power      *int        `yaml:"power"`
	Effects    []EffectTag `yaml:"effects"`
	Cooldown   *int        `yaml:"cooldown"`
	Duration   *int        `yaml:"duration"`
}

// ApplyTo は base に指定済みの項目を上書きしたコピーを返します。
func (o ActionOverride) ApplyTo(base ActionDefinition) ActionDefinition {
	merged := base.Clone()
	if o.Name != "" {
		merged.Name = o.Name
	}
	if o.Type != "" {
		merged.Type = o.Type
	}
	if o.EnergyCost != nil {
		merged.EnergyCost = *o.EnergyCost
	}
	if o.Power != nil {
		merged.Power = *o.Power
	}
	if o.Effects != nil {
		merged.Effects = append([]EffectTag(nil), o.Effects...)
	}
	if o.Cooldown != nil {
		merged.Cooldown = *o.Cooldown
	}
	if o.Duration != nil {
		merged.Duration = *o.Duration
	}
	return merged
}

// ActiveEffect はファイターに付与中のステータス効果です。
type ActiveEffect struct {
	Duration    int
	Value       int
	HasValue    bool
	StartedTurn int
}

// SelectedAction は選択時点のアクション定義のコピーとその持ち主です。
type SelectedAction struct {
	Side     Side
	Action   ActionDefinition
	Sequence int
}

// ActionOutcome は1アクションの実行結果です。
type ActionOutcome struct {
	Actor          Side
	Target         Side
	ActionID       string
	ActionType     ActionType
	EnergySpent    int
	Damage         int
	Healed         int
	EnergyRestored int
	Blocked        bool
	Boosted        bool
	Applied        []StatusEffectID
}

// FighterSnapshot はイベント購読者や結果に渡す読み取り専用のコピーです。
type FighterSnapshot struct {
	ID        string
	Name      string
	Side      Side
	HP        int
	MaxHP     int
	Energy    int
	MaxEnergy int
	Attack    int
	Defense   int
	ActionIDs []string
	Effects   map[StatusEffectID]ActiveEffect
	Cooldowns map[string]int
}

// BattleResult は戦闘終了時に一度だけ作られる最終結果です。
type BattleResult struct {
	Winner     Winner
	Reason     string
	Turns      int
	FinalStats map[Side]FighterSnapshot
}

// Options は戦闘ごとの設定です。
type Options struct {
	MaxActionsPerTurn int `yaml:"max_actions_per_turn" env:"MAX_ACTIONS_PER_TURN"`
	TurnPacingMs      int `yaml:"turn_pacing_ms" env:"TURN_PACING_MS"`
	MaxTurns          int `yaml:"max_turns" env:"MAX_TURNS"`
}

// WithDefaults は未設定の値を既定値で埋めた Options を返します。
func (o Options) WithDefaults() Options {
	if o.MaxActionsPerTurn <= 0 {
		o.MaxActionsPerTurn = DefaultMaxActionsPerTurn
	}
	if o.TurnPacingMs < 0 {
		o.TurnPacingMs = 0
	}
	if o.MaxTurns < 0 {
		o.MaxTurns = 0
	}
	return o
}

// IntPtr はテンプレート組み立て用の小さなヘルパーです。
func IntPtr(v int) *int { return &v }
