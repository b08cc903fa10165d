package data

import (
	"fmt"
	"math/rand"
	"time"

	"duel-engine/core"

	"go.uber.org/zap"
)

// SharedResources はシミュレータ・ビューアで共有されるリソースを保持します。
type SharedResources struct {
	Config       Config
	Catalog      *ActionCatalog
	Templates    []core.FighterTemplate
	Messages     *MessageManager
	Logger       *zap.Logger
	BattleLogger BattleLogger
	Rand         *rand.Rand
}

// NewSharedResources は設定に従ってカタログ・雛形・メッセージを読み込み、SharedResourcesを初期化して返します。
func NewSharedResources(config Config, logger *zap.Logger) (*SharedResources, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	catalog, err := LoadActionCatalogFile(config.AssetPaths.Actions)
	if err != nil {
		return nil, fmt.Errorf("アクションカタログの読み込みに失敗しました: %w", err)
	}
	templates, err := LoadFighterTemplatesFile(config.AssetPaths.Fighters)
	if err != nil {
		return nil, fmt.Errorf("ファイター雛形の読み込みに失敗しました: %w", err)
	}
	messages, err := LoadMessageManager(config.AssetPaths.Messages, config.UI.Language)
	if err != nil {
		return nil, err
	}

	seed := config.Policy.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger.Debug("共有リソースを読み込みました",
		zap.Int("actions", catalog.Len()),
		zap.Int("fighters", len(templates)),
		zap.Int64("seed", seed),
	)

	return &SharedResources{
		Config:       config,
		Catalog:      catalog,
		Templates:    templates,
		Messages:     messages,
		Logger:       logger,
		BattleLogger: NewBattleLogger(logger),
		Rand:         rand.New(rand.NewSource(seed)),
	}, nil
}

// Template は名前またはIDで雛形を探します。
func (r *SharedResources) Template(key string) (core.FighterTemplate, error) {
	t, ok := FindTemplate(r.Templates, key)
	if !ok {
		return core.FighterTemplate{}, fmt.Errorf("fighter template %q not found", key)
	}
	return t, nil
}
