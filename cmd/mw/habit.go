package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mindweek/mw/internal/types"
)

var habitAddCategory string

var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Manage habits",
	Long: `Track recurring habits. Toggling a habit on for a date creates a
completed task linked to it and bumps the streak; every 7 toggles is
one level. Toggling off removes the task but keeps the streak.`,
}

var habitAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category := types.CategoryUnassigned
		if habitAddCategory != "" {
			category = types.Category(habitAddCategory)
			if !category.IsValid() {
				return fmt.Errorf("invalid category %q (one of: %v)", habitAddCategory, types.AllCategories)
			}
		}
		h := engine.AddHabit(cmd.Context(), args[0], category)
		theme := h.Category.Theme()
		fmt.Printf("Added habit %s %s %s\n", theme.Color.Sprint(theme.Icon), h.Title,
			color.New(color.FgHiBlack).Sprint(shortID(h.ID)))
		return nil
	},
}

var habitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits with streak and level",
	RunE: func(cmd *cobra.Command, args []string) error {
		habits := engine.Habits()
		if len(habits) == 0 {
			fmt.Println("No habits yet. Create one with 'mw habit add'.")
			return nil
		}
		gray := color.New(color.FgHiBlack).SprintFunc()
		for _, h := range habits {
			theme := h.Category.Theme()
			fmt.Printf("%s %-30s streak %-4d level %-3d %s\n",
				theme.Color.Sprint(theme.Icon), h.Title, h.Streak, h.Level, gray(shortID(h.ID)))
		}
		return nil
	},
}

var habitToggleCmd = &cobra.Command{
	Use:   "toggle <id> [date]",
	Short: "Toggle a habit for a date (default today)",
	Long: `Toggle a habit on or off for a date.

On: creates a completed task linked to the habit and increments the
streak. Off: removes that task again. The streak is not decremented
on toggle-off; it counts total completions, not consecutive days.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		habit, err := resolveHabit(args[0])
		if err != nil {
			return err
		}
		date := today()
		if len(args) == 2 {
			if date, err = parseDate(args[1]); err != nil {
				return err
			}
		}
		on, err := engine.ToggleHabitForDate(cmd.Context(), habit.ID, date)
		if err != nil {
			return err
		}
		updated, _ := engine.FindHabit(habit.ID)
		if on {
			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s %s on %s (streak %d, level %d)\n",
				green("✓"), habit.Title, date, updated.Streak, updated.Level)
		} else {
			fmt.Printf("○ %s off on %s (streak stays at %d)\n", habit.Title, date, updated.Streak)
		}
		return nil
	},
}

var habitRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a habit and all tasks generated by it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		habit, err := resolveHabit(args[0])
		if err != nil {
			return err
		}
		engine.DeleteHabit(cmd.Context(), habit.ID)
		fmt.Printf("Deleted habit %s and its linked tasks\n", habit.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(habitCmd)
	habitCmd.AddCommand(habitAddCmd, habitListCmd, habitToggleCmd, habitRmCmd)

	habitAddCmd.Flags().StringVar(&habitAddCategory, "category", "", "Habit category (default Allgemein)")
}
