package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mindweek/mw/internal/types"
)

var (
	taskAddDate     string
	taskAddCategory string
	taskAddInfo     string
	taskAddPeople   []string

	taskListDate string
	taskListAll  bool

	taskEditText     string
	taskEditDate     string
	taskEditCategory string
	taskEditInfo     string
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a task",
	Long: `Add a task for a date (default today).

Without --category the description is sent to the classifier, which
picks one of Fokus, Kreativ, Körper, Mental, Freizeit. If the
classifier is unavailable or unsure, the task lands in "Allgemein"
and can be re-categorized with 'mw task edit'.

Examples:
  mw task add "Steuererklärung fertig machen"
  mw task add "Laufen gehen" --date 2025-06-10 --category Körper`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")

		date := today()
		if taskAddDate != "" {
			var err error
			if date, err = parseDate(taskAddDate); err != nil {
				return err
			}
		}

		var category types.Category
		if taskAddCategory != "" {
			category = types.Category(taskAddCategory)
			if !category.IsValid() {
				return fmt.Errorf("invalid category %q (one of: %v)", taskAddCategory, types.AllCategories)
			}
		} else {
			// Best-effort enrichment; the add proceeds either way.
			category = newClassifier().Classify(cmd.Context(), text)
		}

		people := taskAddPeople
		if people == nil {
			people = []string{}
		}

		task := types.Task{
			ID:             types.NewID(),
			Text:           text,
			Completed:      false,
			Date:           date,
			Category:       category,
			PeopleIDs:      people,
			AdditionalInfo: taskAddInfo,
			CreatedAt:      types.NowMillis(),
		}
		engine.AddTask(cmd.Context(), task)

		theme := category.Theme()
		fmt.Printf("Added %s %s %s (%s)\n", theme.Color.Sprint(theme.Icon),
			task.Text, color.New(color.FgHiBlack).Sprint(shortID(task.ID)), category)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List live tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks := engine.Tasks()
		if taskListDate != "" {
			date, err := parseDate(taskListDate)
			if err != nil {
				return err
			}
			tasks = engine.TasksForDate(date)
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks.")
			return nil
		}

		sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Date < tasks[j].Date })

		gray := color.New(color.FgHiBlack).SprintFunc()
		lastDate := ""
		for _, t := range tasks {
			if !taskListAll && t.HabitID != "" {
				continue
			}
			if t.Date != lastDate {
				fmt.Printf("%s\n", color.New(color.Bold).Sprint(t.Date))
				lastDate = t.Date
			}
			printTaskLine(t, gray)
		}
		return nil
	},
}

func printTaskLine(t types.Task, gray func(a ...interface{}) string) {
	theme := t.Category.Theme()
	check := "○"
	if t.Completed {
		check = color.New(color.FgGreen).Sprint("✓")
	}
	line := fmt.Sprintf("  %s %s %s", check, theme.Color.Sprint(theme.Icon), t.Text)
	if len(t.PeopleIDs) > 0 {
		names := make([]string, 0, len(t.PeopleIDs))
		for _, pid := range t.PeopleIDs {
			// Dangling person references render as absent.
			if name := engine.PersonName(pid); name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			line += gray(" mit " + strings.Join(names, ", "))
		}
	}
	fmt.Printf("%s  %s\n", line, gray(shortID(t.ID)))
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle a task's completion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := resolveTask(args[0])
		if err != nil {
			return err
		}
		task.Completed = !task.Completed
		engine.UpdateTask(cmd.Context(), task)
		status := "open"
		if task.Completed {
			status = "done"
		}
		fmt.Printf("%s is now %s\n", task.Text, status)
		return nil
	},
}

var taskEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a task's text, date, category, or notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := resolveTask(args[0])
		if err != nil {
			return err
		}
		if taskEditText != "" {
			task.Text = taskEditText
		}
		if taskEditDate != "" {
			if task.Date, err = parseDate(taskEditDate); err != nil {
				return err
			}
		}
		if taskEditCategory != "" {
			c := types.Category(taskEditCategory)
			if !c.IsValid() {
				return fmt.Errorf("invalid category %q (one of: %v)", taskEditCategory, types.AllCategories)
			}
			task.Category = c
		}
		if cmd.Flags().Changed("info") {
			task.AdditionalInfo = taskEditInfo
		}
		engine.UpdateTask(cmd.Context(), task)
		fmt.Printf("Updated %s\n", shortID(task.ID))
		return nil
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := resolveTask(args[0])
		if err != nil {
			return err
		}
		engine.DeleteTask(cmd.Context(), task.ID)
		fmt.Printf("Deleted %s\n", task.Text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskDoneCmd, taskEditCmd, taskRmCmd)

	taskAddCmd.Flags().StringVar(&taskAddDate, "date", "", "Task date (YYYY-MM-DD, default today)")
	taskAddCmd.Flags().StringVar(&taskAddCategory, "category", "", "Category (skips the classifier)")
	taskAddCmd.Flags().StringVar(&taskAddInfo, "info", "", "Additional free-text info")
	taskAddCmd.Flags().StringSliceVar(&taskAddPeople, "people", nil, "Person ids to link")

	taskListCmd.Flags().StringVar(&taskListDate, "date", "", "Only tasks on this date")
	taskListCmd.Flags().BoolVar(&taskListAll, "all", false, "Include habit-generated tasks")

	taskEditCmd.Flags().StringVar(&taskEditText, "text", "", "New description")
	taskEditCmd.Flags().StringVar(&taskEditDate, "date", "", "New date (YYYY-MM-DD)")
	taskEditCmd.Flags().StringVar(&taskEditCategory, "category", "", "New category")
	taskEditCmd.Flags().StringVar(&taskEditInfo, "info", "", "New additional info")
}
