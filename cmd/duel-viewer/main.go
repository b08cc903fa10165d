package main

import (
	"fmt"
	"os"

	"duel-engine/battle"
	"duel-engine/data"
	"duel-engine/ecs/system"
	"duel-engine/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "duel-viewer [fighterA] [fighterB]",
	Short: "Play a duel against the engine policy in a window",
	Long: `Opens a window where side A is chosen with buttons and side B is
played by the configured opponent policy. Press Esc to quit.`,
	Args:         cobra.MaximumNArgs(2),
	SilenceUsage: true,
	RunE:         runViewer,
}

func init() {
	rootCmd.Flags().String("config", "", "config file (YAML)")
	rootCmd.Flags().BoolP("verbose", "v", false, "log engine decisions")
	rootCmd.Flags().String("policy", "", "opponent (side B) policy: "+fmt.Sprint(system.PolicyNames()))
	rootCmd.Flags().String("font", "", "TTF/OTF font for Japanese text")
	_ = viper.BindPFlag("config", rootCmd.Flags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))
	_ = viper.BindPFlag("policy", rootCmd.Flags().Lookup("policy"))
	_ = viper.BindPFlag("font", rootCmd.Flags().Lookup("font"))
	viper.SetEnvPrefix("DUEL")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runViewer(cmd *cobra.Command, args []string) error {
	cfg, err := data.LoadConfig(viper.GetString("config"))
	if err != nil {
		return err
	}
	if viper.IsSet("policy") {
		cfg.Policy.Name = viper.GetString("policy")
	}
	if viper.IsSet("font") {
		cfg.UI.FontPath = viper.GetString("font")
	}

	face, fallback, err := ui.LoadFace(cfg.UI.FontPath, cfg.UI.FontSize)
	if err != nil {
		return err
	}
	// 組み込みフォントは日本語を表示できないため、英語のメッセージに切り替える
	if fallback && cfg.AssetPaths.Messages == "" {
		cfg.UI.Language = "en"
	}

	var logger *zap.Logger
	if viper.GetBool("verbose") {
		if logger, err = zap.NewDevelopment(); err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
	}
	res, err := data.NewSharedResources(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = res.Logger.Sync() }()

	nameA, nameB := "blaze", "tide"
	if len(args) >= 1 {
		nameA = args[0]
	}
	if len(args) >= 2 {
		nameB = args[1]
	}
	a, err := res.Template(nameA)
	if err != nil {
		return err
	}
	b, err := res.Template(nameB)
	if err != nil {
		return err
	}

	opponent, err := system.NewPolicy(res.Config.Policy, res.Rand)
	if err != nil {
		return err
	}
	engine := battle.NewEngine(res.Catalog,
		battle.WithPolicy(opponent),
		battle.WithLogger(res.BattleLogger),
		battle.WithRand(res.Rand),
	)

	factory := ui.NewUIFactory(&res.Config, face, res.Messages)
	scene, err := ui.NewBattleScene(res, factory, engine, a, b)
	if err != nil {
		return err
	}
	defer scene.Close()

	ebiten.SetWindowSize(cfg.UI.Screen.Width, cfg.UI.Screen.Height)
	ebiten.SetWindowTitle(fmt.Sprintf("duel: %s vs %s", a.Name, b.Name))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(scene); err != nil {
		return err
	}
	return nil
}
