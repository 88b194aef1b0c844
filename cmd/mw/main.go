// Command mw is a weekly planner and journal for the terminal: tasks,
// habits with streaks, workouts, daily reflections, and a week-end
// archive, all stored locally.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mindweek/mw/internal/classifier"
	"github.com/mindweek/mw/internal/config"
	"github.com/mindweek/mw/internal/state"
	"github.com/mindweek/mw/internal/storage"
	"github.com/mindweek/mw/internal/types"
)

var (
	cfg    *config.Config
	store  *storage.SQLiteStore
	engine *state.Engine

	dbPath string
)

var rootCmd = &cobra.Command{
	Use:   "mw",
	Short: "Weekly planning, habits, and journaling in the terminal",
	Long: `mw is a local-first weekly planner: plan tasks, track habits with
streaks and levels, schedule workouts, write daily reflections, and
archive finished weeks into an immutable journal.

All data lives in a local SQLite file. Task categorization uses the
Anthropic API when ANTHROPIC_API_KEY is set and degrades to the
"Allgemein" category when it is not.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DBPath = dbPath
		}

		store, err = storage.New(&storage.Config{Path: cfg.DBPath})
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		engine = state.NewEngine(cmd.Context(), store)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			_ = store.Close()
		}
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (overrides config)")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newClassifier builds the task classifier from config. Without an
// API key everything lands in "Allgemein" and the user categorizes by
// editing.
func newClassifier() classifier.Classifier {
	if cfg.APIKey == "" && os.Getenv("ANTHROPIC_API_KEY") == "" {
		return classifier.Unassigned
	}
	return classifier.NewAnthropic(classifier.Config{
		APIKey:            cfg.APIKey,
		Model:             cfg.Model,
		Timeout:           cfg.ClassifyTimeout(),
		RequestsPerMinute: cfg.RequestsPerMinute,
	})
}

// today returns the current date in task-date form.
func today() string {
	return time.Now().Format(state.ISODate)
}

// parseDate validates a YYYY-MM-DD argument.
func parseDate(s string) (string, error) {
	if _, err := time.Parse(state.ISODate, s); err != nil {
		return "", fmt.Errorf("date must be YYYY-MM-DD (got %q)", s)
	}
	return s, nil
}

// shortID abbreviates an entity id for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveTask matches a full id or unique id prefix against live tasks.
func resolveTask(idOrPrefix string) (types.Task, error) {
	if t, ok := engine.FindTask(idOrPrefix); ok {
		return t, nil
	}
	var match types.Task
	count := 0
	for _, t := range engine.Tasks() {
		if strings.HasPrefix(t.ID, idOrPrefix) {
			match = t
			count++
		}
	}
	switch count {
	case 1:
		return match, nil
	case 0:
		return types.Task{}, fmt.Errorf("task not found: %s", idOrPrefix)
	default:
		return types.Task{}, fmt.Errorf("ambiguous task id prefix: %s (%d matches)", idOrPrefix, count)
	}
}

func resolveHabit(idOrPrefix string) (types.Habit, error) {
	if h, ok := engine.FindHabit(idOrPrefix); ok {
		return h, nil
	}
	var match types.Habit
	count := 0
	for _, h := range engine.Habits() {
		if strings.HasPrefix(h.ID, idOrPrefix) {
			match = h
			count++
		}
	}
	switch count {
	case 1:
		return match, nil
	case 0:
		return types.Habit{}, fmt.Errorf("habit not found: %s", idOrPrefix)
	default:
		return types.Habit{}, fmt.Errorf("ambiguous habit id prefix: %s (%d matches)", idOrPrefix, count)
	}
}

func resolveWorkout(idOrPrefix string) (types.Workout, error) {
	if w, ok := engine.FindWorkout(idOrPrefix); ok {
		return w, nil
	}
	var match types.Workout
	count := 0
	for _, w := range engine.Workouts() {
		if strings.HasPrefix(w.ID, idOrPrefix) {
			match = w
			count++
		}
	}
	switch count {
	case 1:
		return match, nil
	case 0:
		return types.Workout{}, fmt.Errorf("workout not found: %s", idOrPrefix)
	default:
		return types.Workout{}, fmt.Errorf("ambiguous workout id prefix: %s (%d matches)", idOrPrefix, count)
	}
}

func resolveJournalEntry(idOrPrefix string) (types.JournalEntry, error) {
	if e, ok := engine.FindJournalEntry(idOrPrefix); ok {
		return e, nil
	}
	var match types.JournalEntry
	count := 0
	for _, e := range engine.Journal() {
		if strings.HasPrefix(e.ID, idOrPrefix) {
			match = e
			count++
		}
	}
	switch count {
	case 1:
		return match, nil
	case 0:
		return types.JournalEntry{}, fmt.Errorf("journal entry not found: %s", idOrPrefix)
	default:
		return types.JournalEntry{}, fmt.Errorf("ambiguous journal id prefix: %s (%d matches)", idOrPrefix, count)
	}
}
