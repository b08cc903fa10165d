package data

import (
	"fmt"
	"image/color"

	"duel-engine/core"
)

// Config は戦闘エンジンを組み込むツール（シミュレータ・ビューア）全体の設定を保持します。
// YAMLファイルから読み込み、環境変数（DUEL_ 接頭辞）で上書きします。
type Config struct {
	Battle     core.Options `yaml:"battle" envPrefix:"BATTLE_"`
	Policy     PolicyConfig `yaml:"policy" envPrefix:"POLICY_"`
	AssetPaths AssetPaths   `yaml:"asset_paths" envPrefix:"ASSET_"`
	UI         UIConfig     `yaml:"ui" envPrefix:"UI_"`
}

// AssetPaths は各種データファイルへのパスを保持します。
// 空のままなら組み込みの既定データを使います。
type AssetPaths struct {
	Actions  string `yaml:"actions" env:"ACTIONS"`
	Fighters string `yaml:"fighters" env:"FIGHTERS"`
	Messages string `yaml:"messages" env:"MESSAGES"`
}

// PolicyConfig は相手側の行動方針の設定です。
type PolicyConfig struct {
	Name  string       `yaml:"name" env:"NAME"`
	Seed  int64        `yaml:"seed" env:"SEED"`
	Roles PolicyRoles  `yaml:"roles" env:"-"`
	Rules []ScriptRule `yaml:"rules" env:"-"`
}

// PolicyRoles は標準方針が使うアクションの役割とIDの対応です。
// 空の役割はファイターのアクション構成から推定されます。
type PolicyRoles struct {
	Heal   string `yaml:"heal"`
	Energy string `yaml:"energy"`
	Heavy  string `yaml:"heavy"`
	Light  string `yaml:"light"`
	Defend string `yaml:"defend"`
}

// ScriptRule はスクリプト方針の1ルールです。When はCEL式です。
type ScriptRule struct {
	When   string `yaml:"when"`
	Action string `yaml:"action"`
}

// UIConfig はビューアの表示設定です。色は16進数文字列で受け取り、Colors で変換します。
type UIConfig struct {
	Screen struct {
		Width  int `yaml:"width" env:"WIDTH"`
		Height int `yaml:"height" env:"HEIGHT"`
	} `yaml:"screen" envPrefix:"SCREEN_"`
	LogLines int     `yaml:"log_lines" env:"LOG_LINES"`
	// Language は組み込みメッセージの言語（"ja" / "en"）です。
	Language string  `yaml:"language" env:"LANGUAGE"`
	// FontPath は日本語表示用のTTFです。空ならビューアは英語メッセージと組み込みフォントを使います。
	FontPath string  `yaml:"font_path" env:"FONT_PATH"`
	FontSize float64 `yaml:"font_size" env:"FONT_SIZE"`

	Colors ColorStrings `yaml:"colors" env:"-"`
}

// ColorStrings は "UI.colors" セクションの生の値です。
type ColorStrings struct {
	Background string `yaml:"background"`
	Text       string `yaml:"text"`
	FighterA   string `yaml:"fighter_a"`
	FighterB   string `yaml:"fighter_b"`
	HP         string `yaml:"hp"`
	HPCritical string `yaml:"hp_critical"`
	Energy     string `yaml:"energy"`
	Gauge      string `yaml:"gauge"`
}

// ParsedColors はパース済みの色情報を保持します。
type ParsedColors struct {
	Background color.Color
	Text       color.Color
	FighterA   color.Color
	FighterB   color.Color
	HP         color.Color
	HPCritical color.Color
	Energy     color.Color
	Gauge      color.Color
}

// Parse は16進数文字列を color.Color に変換します。
func (c ColorStrings) Parse() ParsedColors {
	return ParsedColors{
		Background: parseHexColor(c.Background),
		Text:       parseHexColor(c.Text),
		FighterA:   parseHexColor(c.FighterA),
		FighterB:   parseHexColor(c.FighterB),
		HP:         parseHexColor(c.HP),
		HPCritical: parseHexColor(c.HPCritical),
		Energy:     parseHexColor(c.Energy),
		Gauge:      parseHexColor(c.Gauge),
	}
}

// DefaultConfig は設定ファイルがない場合の既定値です。
func DefaultConfig() Config {
	var cfg Config
	cfg.Battle = core.Options{}.WithDefaults()
	cfg.Policy.Name = "standard"
	cfg.UI.Screen.Width = 800
	cfg.UI.Screen.Height = 600
	cfg.UI.LogLines = 8
	cfg.UI.Language = "ja"
	cfg.UI.FontSize = 14
	cfg.UI.Colors = ColorStrings{
		Background: "1a1a2e",
		Text:       "f0f0f0",
		FighterA:   "4e9af1",
		FighterB:   "f15a4e",
		HP:         "4ef16a",
		HPCritical: "f1c84e",
		Energy:     "4ed8f1",
		Gauge:      "3a3a4a",
	}
	return cfg
}

// Validate は読み込み後の設定値を検査します。
func (c Config) Validate() error {
	if c.Battle.MaxActionsPerTurn < 0 {
		return fmt.Errorf("battle.max_actions_per_turn must not be negative: %d", c.Battle.MaxActionsPerTurn)
	}
	if c.Battle.TurnPacingMs < 0 {
		return fmt.Errorf("battle.turn_pacing_ms must not be negative: %d", c.Battle.TurnPacingMs)
	}
	if c.Battle.MaxTurns < 0 {
		return fmt.Errorf("battle.max_turns must not be negative: %d", c.Battle.MaxTurns)
	}
	if c.UI.Screen.Width <= 0 || c.UI.Screen.Height <= 0 {
		return fmt.Errorf("ui.screen must be positive: %dx%d", c.UI.Screen.Width, c.UI.Screen.Height)
	}
	return c.UI.Colors.Validate()
}

// Validate は全色が6桁の16進数であることを検査します。
func (c ColorStrings) Validate() error {
	fields := []struct {
		name, value string
	}{
		{"background", c.Background},
		{"text", c.Text},
		{"fighter_a", c.FighterA},
		{"fighter_b", c.FighterB},
		{"hp", c.HP},
		{"hp_critical", c.HPCritical},
		{"energy", c.Energy},
		{"gauge", c.Gauge},
	}
	for _, f := range fields {
		if _, err := decodeHexColor(f.value); err != nil {
			return fmt.Errorf("ui.colors.%s: %w", f.name, err)
		}
	}
	return nil
}

// parseHexColor は16進数文字列からcolor.Colorをパースします。不正な値は白になります。
func parseHexColor(s string) color.Color {
	c, err := decodeHexColor(s)
	if err != nil {
		return color.White
	}
	return c
}

func decodeHexColor(s string) (color.RGBA, error) {
	var r, g, b uint8
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("parse hex color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
