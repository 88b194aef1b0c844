package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mindweek/mw/internal/state"
)

var (
	workoutAddDesc string
	workoutAddDays []int
)

var workoutCmd = &cobra.Command{
	Use:   "workout",
	Short: "Manage workout templates",
	Long: `Workouts are reusable training-plan templates. They never appear on
the calendar themselves; 'mw workout schedule' materializes a
"Training: ..." task for a concrete date.`,
}

var workoutAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a workout template",
	Long: `Create a workout template.

--days takes Monday-first weekday indices (0=Montag ... 6=Sonntag)
expressing a recurring intention; it does not generate tasks.

Example:
  mw workout add "Push Day" --desc "Bankdrücken 3x8, Dips 3x10" --days 0,3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := engine.AddWorkout(cmd.Context(), args[0], workoutAddDesc, workoutAddDays)
		fmt.Printf("Added workout %s %s\n", w.Name, color.New(color.FgHiBlack).Sprint(shortID(w.ID)))
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workout templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		workouts := engine.Workouts()
		if len(workouts) == 0 {
			fmt.Println("No workouts yet.")
			return nil
		}
		gray := color.New(color.FgHiBlack).SprintFunc()
		for _, w := range workouts {
			days := make([]string, 0, len(w.ScheduledDays))
			for _, d := range w.ScheduledDays {
				days = append(days, state.WeekdayName(d))
			}
			line := w.Name
			if len(days) > 0 {
				line += gray(" (" + strings.Join(days, ", ") + ")")
			}
			fmt.Printf("%s  %s\n", line, gray(shortID(w.ID)))
			if w.Description != "" {
				fmt.Printf("  %s\n", gray(w.Description))
			}
		}
		return nil
	},
}

var workoutScheduleCmd = &cobra.Command{
	Use:   "schedule <id> [date]",
	Short: "Put a workout on the calendar as a task",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		workout, err := resolveWorkout(args[0])
		if err != nil {
			return err
		}
		date := today()
		if len(args) == 2 {
			if date, err = parseDate(args[1]); err != nil {
				return err
			}
		}
		task, err := engine.ScheduleWorkout(cmd.Context(), workout.ID, date)
		if err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s %s on %s %s\n", green("✓"), task.Text, date,
			color.New(color.FgHiBlack).Sprint(shortID(task.ID)))
		return nil
	},
}

var workoutRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a workout template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workout, err := resolveWorkout(args[0])
		if err != nil {
			return err
		}
		engine.DeleteWorkout(cmd.Context(), workout.ID)
		fmt.Printf("Deleted workout %s (already scheduled tasks stay)\n", workout.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workoutCmd)
	workoutCmd.AddCommand(workoutAddCmd, workoutListCmd, workoutScheduleCmd, workoutRmCmd)

	workoutAddCmd.Flags().StringVar(&workoutAddDesc, "desc", "", "Exercise notes")
	workoutAddCmd.Flags().IntSliceVar(&workoutAddDays, "days", nil, "Recurring weekday indices, Monday-first (0-6)")
}
