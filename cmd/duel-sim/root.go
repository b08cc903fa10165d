package main

import (
	"fmt"

	"duel-engine/data"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "duel-sim",
	Short: "Headless simulator for the duel battle engine",
	Long: `Runs AI-vs-AI battles with the duel battle engine using the
bundled (or user supplied) action catalog and fighter templates.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (YAML)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log engine decisions")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.SetEnvPrefix("DUEL")
	viper.AutomaticEnv()
}

// loadResources は設定ファイルを読み込み、共有リソースを準備します。
func loadResources() (*data.SharedResources, error) {
	cfg, err := data.LoadConfig(viper.GetString("config"))
	if err != nil {
		return nil, err
	}
	if viper.IsSet("policy") {
		cfg.Policy.Name = viper.GetString("policy")
	}
	if viper.IsSet("seed") {
		cfg.Policy.Seed = viper.GetInt64("seed")
	}
	if viper.IsSet("max_turns") {
		cfg.Battle.MaxTurns = viper.GetInt("max_turns")
	}

	logger, err := newLogger(viper.GetBool("verbose"))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return data.NewSharedResources(cfg, logger)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}
