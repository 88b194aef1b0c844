package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mindweek/mw/internal/state"
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the current week or archive it",
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		bold := color.New(color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()
		fmt.Printf("%s\n\n", bold(state.WeekLabel(now)))

		todayStr := today()
		for i, day := range state.WeekDays(now) {
			date := day.Format(state.ISODate)
			marker := " "
			if date == todayStr {
				marker = color.New(color.FgCyan).Sprint("▸")
			}
			fmt.Printf("%s %s %s\n", marker, bold(state.WeekdayName(i)), gray(date))
			for _, t := range engine.TasksForDate(date) {
				printTaskLine(t, gray)
			}
		}
		return nil
	},
}

var weekEndCmd = &cobra.Command{
	Use:   "end",
	Short: "Archive the week into the journal",
	Long: `Archive the current week: all live tasks (whatever their date) and
every daily reflection are snapshotted into a new journal entry
labeled with the current ISO week ("KW {n}"), and the live
collections are cleared. Habits, workouts, and people carry over.

This can be run at any time; running it twice simply archives an
empty second week.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		entry := engine.EndWeek(cmd.Context(), time.Now())
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Archived %s (%d tasks, %d reflections)\n",
			green("✓"), entry.WeekLabel, len(entry.Tasks), len(entry.Reflections))
		fmt.Println("Fresh week. Plan it with 'mw task add'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(weekCmd)
	weekCmd.AddCommand(weekEndCmd)
}
