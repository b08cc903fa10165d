package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the actions and fighter templates that are loaded",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadResources()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Actions:")
		for _, id := range res.Catalog.IDs() {
			def, _ := res.Catalog.Get(id)
			tags := make([]string, len(def.Effects))
			for i, t := range def.Effects {
				tags[i] = t.String()
			}
			fmt.Fprintf(out, "  %-14s %-9s cost=%-3d power=%-3d cd=%d [%s]\n",
				id, def.Type, def.EnergyCost, def.Power, def.Cooldown, strings.Join(tags, ","))
		}

		fmt.Fprintln(out, "Fighters:")
		for _, t := range res.Templates {
			fmt.Fprintf(out, "  %-10s %-10s actions=%s\n", t.ID, t.Name, strings.Join(t.Actions, ","))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
