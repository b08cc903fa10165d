package data

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix は設定を上書きする環境変数の接頭辞です。
const EnvPrefix = "DUEL_"

// LoadConfig は設定を 既定値 → YAMLファイル → 環境変数 の順に重ねて読み込みます。
// path が空、またはファイルが存在しない場合は既定値と環境変数のみを使います。
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("設定ファイル %s の読み込みに失敗しました: %w", path, err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("設定ファイル %s のYAMLパースに失敗しました: %w", path, err)
			}
		}
	}

	if err := applyEnv(&cfg, nil); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.Battle = cfg.Battle.WithDefaults()
	return cfg, nil
}

// applyEnv は環境変数で cfg を上書きします。environ が nil ならプロセスの環境を使います。
func applyEnv(cfg *Config, environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("環境変数からの設定読み込みに失敗しました: %w", err)
	}
	return nil
}
