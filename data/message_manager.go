package data

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var placeholderRegex = regexp.MustCompile(`{(\w+)}`)

// MessageTemplate はメッセージファイルの1件分です。
type MessageTemplate struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
}

// MessageManager は表示用メッセージのテンプレートを保持し、整形します。
// 戦闘エンジン本体は使いません。シミュレータやビューアがイベントを文章にするために使います。
type MessageManager struct {
	messages map[string]string
}

// NewMessageManager は、YAML形式のメッセージデータを受け取り、新しいMessageManagerを初期化して返します。
// ファイルパスではなくバイトデータを受け取ることで、このマネージャーはファイルI/Oから独立します。
func NewMessageManager(yamlData []byte) (*MessageManager, error) {
	if yamlData == nil {
		return nil, fmt.Errorf("メッセージデータがnilです")
	}

	var templates []MessageTemplate
	if err := yaml.Unmarshal(yamlData, &templates); err != nil {
		return nil, fmt.Errorf("メッセージデータのYAMLパースに失敗しました: %w", err)
	}

	messages := make(map[string]string, len(templates))
	for _, t := range templates {
		messages[t.ID] = t.Text
	}
	return &MessageManager{messages: messages}, nil
}

// DefaultMessageManager は組み込みのメッセージ（日本語）を読み込みます。
func DefaultMessageManager() (*MessageManager, error) {
	return LoadMessageManager("", "ja")
}

// LoadMessageManager は path のメッセージを読み込みます。path が空なら lang に応じた組み込みのメッセージを使います。
// 組み込みは "ja" と "en" で、それ以外は "ja" 扱いです。
func LoadMessageManager(path, lang string) (*MessageManager, error) {
	fallback := defaultMessagesPath
	if lang == "en" {
		fallback = defaultMessagesEnPath
	}
	b, err := readAsset(path, fallback)
	if err != nil {
		return nil, err
	}
	return NewMessageManager(b)
}

// GetRawMessage はIDに対応する未整形のテンプレートを返します。
func (mm *MessageManager) GetRawMessage(id string) (string, bool) {
	msg, found := mm.messages[id]
	return msg, found
}

// FormatMessage は {key} 形式のプレースホルダを params の値で置き換えます。
// 見つからないIDはそのまま返し、足りないキーはプレースホルダを残します。
func (mm *MessageManager) FormatMessage(id string, params map[string]any) string {
	template, ok := mm.messages[id]
	if !ok {
		return id
	}
	return placeholderRegex.ReplaceAllStringFunc(template, func(match string) string {
		key := strings.Trim(match, "{}")
		if val, pOk := params[key]; pOk {
			return fmt.Sprintf("%v", val)
		}
		return match
	})
}
