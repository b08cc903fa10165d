package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"duel-engine/battle"
	"duel-engine/core"
	"duel-engine/data"
	"duel-engine/ecs/system"
	"duel-engine/event"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run [fighterA] [fighterB]",
	Short: "Run AI-vs-AI battles and print a summary",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadResources()
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

		count, _ := cmd.Flags().GetInt("battles")
		quiet, _ := cmd.Flags().GetBool("quiet")
		policyA, _ := cmd.Flags().GetString("policy-a")

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sim, err := newSimulator(res, policyA, cmd.OutOrStdout(), quiet)
		if err != nil {
			return err
		}
		summary := sim.runMany(ctx, a, b, count)
		summary.print(cmd.OutOrStdout(), a.Name, b.Name)
		return nil
	},
}

func init() {
	runCmd.Flags().IntP("battles", "n", 1, "number of battles to run")
	runCmd.Flags().String("policy", "", "opponent (side B) policy: "+fmt.Sprint(system.PolicyNames()))
	runCmd.Flags().String("policy-a", "standard", "policy that plays side A")
	runCmd.Flags().Int64("seed", 0, "random seed (0 = time based)")
	runCmd.Flags().Int("max-turns", 0, "turn limit per battle (0 = config value)")
	runCmd.Flags().BoolP("quiet", "q", false, "print only the summary")
	_ = viper.BindPFlag("policy", runCmd.Flags().Lookup("policy"))
	_ = viper.BindPFlag("seed", runCmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("max_turns", runCmd.Flags().Lookup("max-turns"))
	rootCmd.AddCommand(runCmd)
}

// simulator は両サイドを方針で操作して戦闘を進めます。
type simulator struct {
	res      *data.SharedResources
	engine   *battle.Engine
	playerA  system.OpponentPolicy
	narrator *event.Narrator
	out      io.Writer
	quiet    bool
}

func newSimulator(res *data.SharedResources, policyA string, out io.Writer, quiet bool) (*simulator, error) {
	opponent, err := system.NewPolicy(res.Config.Policy, res.Rand)
	if err != nil {
		return nil, err
	}
	cfgA := res.Config.Policy
	cfgA.Name = policyA
	playerA, err := system.NewPolicy(cfgA, res.Rand)
	if err != nil {
		return nil, err
	}

	engine := battle.NewEngine(res.Catalog,
		battle.WithPolicy(opponent),
		battle.WithLogger(res.BattleLogger),
		battle.WithRand(res.Rand),
	)
	s := &simulator{
		res:      res,
		engine:   engine,
		playerA:  playerA,
		narrator: event.NewNarrator(res.Messages),
		out:      out,
		quiet:    quiet,
	}
	if !quiet {
		engine.Bus().Subscribe(s.narrate)
	}
	return s, nil
}

type summary struct {
	battles, winsA, winsB, draws, aborted, turns int
}

func (s *simulator) runMany(ctx context.Context, a, b core.FighterTemplate, n int) summary {
	var sum summary
	for i := 0; i < n && ctx.Err() == nil; i++ {
		result, ok, err := s.runOne(ctx, a, b)
		sum.battles++
		if err != nil || !ok {
			if err != nil {
				fmt.Fprintf(s.out, "battle %d: %v\n", i+1, err)
			}
			sum.aborted++
			continue
		}
		sum.turns += result.Turns
		switch result.Winner {
		case core.WinnerA:
			sum.winsA++
		case core.WinnerB:
			sum.winsB++
		default:
			sum.draws++
		}
	}
	return sum
}

// runOne は1戦を最後まで進めます。side A が何も選べなくなった場合は中断します。
func (s *simulator) runOne(ctx context.Context, a, b core.FighterTemplate) (core.BattleResult, bool, error) {
	opts := s.res.Config.Battle
	opts.TurnPacingMs = 0
	bt, err := s.engine.StartBattle(a, b, opts)
	if err != nil {
		return core.BattleResult{}, false, err
	}

	for bt.State() != core.StateEnded {
		if ctx.Err() != nil {
			_ = bt.Abort()
			break
		}
		actionID, ok := s.playerA.Decide(bt.PolicyInputFor(core.SideA))
		if !ok {
			_ = bt.Abort()
			break
		}
		if err := bt.SelectAction(ctx, core.SideA, actionID); err != nil {
			_ = bt.Abort()
			return core.BattleResult{}, false, err
		}
	}
	result, ok := bt.Result()
	return result, ok, nil
}

// narrate はイベントを文章にして出力します。選択イベントは省きます。
func (s *simulator) narrate(e event.GameEvent) {
	switch e.(type) {
	case event.ActionSelectedGameEvent:
		return
	case event.ActionExecutedGameEvent, event.TurnEndGameEvent:
		if line, ok := s.narrator.Line(e); ok {
			fmt.Fprintln(s.out, "  "+line)
		}
		return
	}
	if line, ok := s.narrator.Line(e); ok {
		fmt.Fprintln(s.out, line)
	}
}

func (s summary) print(w io.Writer, nameA, nameB string) {
	fmt.Fprintf(w, "\n%d battle(s): %s %d / %s %d / draw %d / aborted %d\n",
		s.battles, nameA, s.winsA, nameB, s.winsB, s.draws, s.aborted)
	if finished := s.battles - s.aborted; finished > 0 {
		fmt.Fprintf(w, "average turns: %.1f\n", float64(s.turns)/float64(finished))
	}
}
