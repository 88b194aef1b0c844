package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mindweek/mw/internal/types"
)

var (
	reflectDate        string
	reflectMood        string
	reflectGratitude   string
	reflectImprovement string
)

var reflectCmd = &cobra.Command{
	Use:   "reflect",
	Short: "Write or show daily reflections",
	Long: `Each day carries one mood/gratitude/improvement triple. Setting a
field creates the day's reflection if it does not exist yet. Live
reflections are swept into the journal by 'mw week end'.

Examples:
  mw reflect --mood "zufrieden" --gratitude "Sonne am Morgen"
  mw reflect --date 2025-06-10 --improvement "früher schlafen"
  mw reflect show`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date := today()
		if reflectDate != "" {
			var err error
			if date, err = parseDate(reflectDate); err != nil {
				return err
			}
		}

		set := false
		for field, value := range map[types.ReflectionField]string{
			types.FieldMood:        reflectMood,
			types.FieldGratitude:   reflectGratitude,
			types.FieldImprovement: reflectImprovement,
		} {
			if !cmd.Flags().Changed(string(field)) {
				continue
			}
			if err := engine.UpdateDailyReflection(cmd.Context(), date, field, value); err != nil {
				return err
			}
			set = true
		}
		if !set {
			return fmt.Errorf("nothing to set; pass --mood, --gratitude, or --improvement (or use 'mw reflect show')")
		}
		fmt.Printf("Reflection for %s updated\n", date)
		return nil
	},
}

var reflectShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current week's reflections",
	RunE: func(cmd *cobra.Command, args []string) error {
		refs := engine.DailyReflections()
		if len(refs) == 0 {
			fmt.Println("No reflections this week.")
			return nil
		}
		dates := make([]string, 0, len(refs))
		for d := range refs {
			dates = append(dates, d)
		}
		sort.Strings(dates)

		gray := color.New(color.FgHiBlack).SprintFunc()
		bold := color.New(color.Bold).SprintFunc()
		for _, d := range dates {
			printReflection(bold(d), refs[d], gray)
		}
		return nil
	},
}

func printReflection(heading string, r types.DailyReflection, gray func(a ...interface{}) string) {
	fmt.Println(heading)
	if r.Mood != "" {
		fmt.Printf("  %s %s\n", gray("Stimmung:"), r.Mood)
	}
	if r.Gratitude != "" {
		fmt.Printf("  %s %s\n", gray("Dankbar:"), r.Gratitude)
	}
	if r.Improvement != "" {
		fmt.Printf("  %s %s\n", gray("Besser:"), r.Improvement)
	}
}

func init() {
	rootCmd.AddCommand(reflectCmd)
	reflectCmd.AddCommand(reflectShowCmd)

	reflectCmd.Flags().StringVar(&reflectDate, "date", "", "Reflection date (YYYY-MM-DD, default today)")
	reflectCmd.Flags().StringVar(&reflectMood, "mood", "", "How the day felt")
	reflectCmd.Flags().StringVar(&reflectGratitude, "gratitude", "", "What you are grateful for")
	reflectCmd.Flags().StringVar(&reflectImprovement, "improvement", "", "What to do better")
}
