package data

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"

	"duel-engine/core"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaultAssets embed.FS

const (
	defaultActionsPath  = "defaults/actions.yaml"
	defaultFightersPath = "defaults/fighters.yaml"
	defaultMessagesPath = "defaults/messages.yaml"

	defaultMessagesEnPath = "defaults/messages_en.yaml"
)

type actionsFile struct {
	Actions []core.ActionDefinition `yaml:"actions"`
}

type fightersFile struct {
	Fighters []core.FighterTemplate `yaml:"fighters"`
}

// LoadActionCatalog はYAMLからアクションカタログを読み込みます。
func LoadActionCatalog(r io.Reader) (*ActionCatalog, error) {
	var file actionsFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("アクション定義のYAMLパースに失敗しました: %w", err)
	}
	catalog := NewActionCatalog()
	for i, def := range file.Actions {
		if def.ID == "" {
			return nil, fmt.Errorf("actions[%d]: id is required", i)
		}
		if !def.Type.Valid() {
			return nil, fmt.Errorf("action %q: unknown type %q", def.ID, def.Type)
		}
		if err := catalog.Register(def.ID, def); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

// LoadFighterTemplates はYAMLからファイターの雛形一覧を読み込みます。
// 型の合わない値（数値欄の文字列など）はここで InvalidFighterError になります。
func LoadFighterTemplates(r io.Reader) ([]core.FighterTemplate, error) {
	var file fightersFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, &core.InvalidFighterError{Field: "fighters", Reason: fmt.Sprintf("could not be decoded: %v", err)}
	}
	return file.Fighters, nil
}

// LoadActionCatalogFile はファイルパスからカタログを読み込みます。空のパスなら組み込みの既定値を使います。
func LoadActionCatalogFile(path string) (*ActionCatalog, error) {
	b, err := readAsset(path, defaultActionsPath)
	if err != nil {
		return nil, err
	}
	return LoadActionCatalog(bytes.NewReader(b))
}

// LoadFighterTemplatesFile はファイルパスから雛形を読み込みます。空のパスなら組み込みの既定値を使います。
func LoadFighterTemplatesFile(path string) ([]core.FighterTemplate, error) {
	b, err := readAsset(path, defaultFightersPath)
	if err != nil {
		return nil, err
	}
	return LoadFighterTemplates(bytes.NewReader(b))
}

// DefaultActionCatalog は組み込みのアクション定義を返します。
func DefaultActionCatalog() (*ActionCatalog, error) {
	return LoadActionCatalogFile("")
}

// DefaultFighterTemplates は組み込みのファイター雛形を返します。
func DefaultFighterTemplates() ([]core.FighterTemplate, error) {
	return LoadFighterTemplatesFile("")
}

// FindTemplate は名前またはIDで雛形を探します。
func FindTemplate(templates []core.FighterTemplate, key string) (core.FighterTemplate, bool) {
	for _, t := range templates {
		if t.ID == key || t.Name == key {
			return t, true
		}
	}
	return core.FighterTemplate{}, false
}

func readAsset(path, fallback string) ([]byte, error) {
	if path == "" {
		b, err := defaultAssets.ReadFile(fallback)
		if err != nil {
			return nil, fmt.Errorf("組み込みアセット %s の読み込みに失敗しました: %w", fallback, err)
		}
		return b, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s の読み込みに失敗しました: %w", path, err)
	}
	return b, nil
}
