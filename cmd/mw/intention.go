package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mindweek/mw/internal/types"
)

var intentionCmd = &cobra.Command{
	Use:   "intention [day|week|month|year] [text]",
	Short: "Show or set intentions",
	Long: `Intentions are four free-text horizons (day, week, month, year),
always present and replaced in place.

Examples:
  mw intention                       # show all four
  mw intention day "Einen Schritt nach dem anderen"`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			in := engine.Intention()
			gray := color.New(color.FgHiBlack).SprintFunc()
			fmt.Printf("%s %s\n", gray("Tag:  "), in.Day)
			fmt.Printf("%s %s\n", gray("Woche:"), in.Week)
			fmt.Printf("%s %s\n", gray("Monat:"), in.Month)
			fmt.Printf("%s %s\n", gray("Jahr: "), in.Year)
			return nil
		}
		if len(args) < 2 {
			return fmt.Errorf("usage: mw intention <day|week|month|year> <text>")
		}
		key := types.IntentionKey(args[0])
		if err := engine.UpdateIntention(cmd.Context(), key, strings.Join(args[1:], " ")); err != nil {
			return err
		}
		fmt.Printf("Intention (%s) updated\n", key)
		return nil
	},
}

var goalsCmd = &cobra.Command{
	Use:   "goals [monthly|yearly] [text]",
	Short: "Show or set long-term goals",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			g := engine.Goals()
			gray := color.New(color.FgHiBlack).SprintFunc()
			fmt.Printf("%s %s\n", gray("Monat:"), g.Monthly)
			fmt.Printf("%s %s\n", gray("Jahr: "), g.Yearly)
			return nil
		}
		if len(args) < 2 {
			return fmt.Errorf("usage: mw goals <monthly|yearly> <text>")
		}
		key := types.GoalsKey(args[0])
		if err := engine.UpdateGoals(cmd.Context(), key, strings.Join(args[1:], " ")); err != nil {
			return err
		}
		fmt.Printf("Goals (%s) updated\n", key)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(intentionCmd)
	rootCmd.AddCommand(goalsCmd)
}
