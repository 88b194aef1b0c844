// Package repl implements the interactive shell: a thin dispatcher
// over the state engine's mutation operations.
package repl

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/mindweek/mw/internal/classifier"
	"github.com/mindweek/mw/internal/state"
	"github.com/mindweek/mw/internal/types"
)

// REPL represents the interactive shell
type REPL struct {
	engine     *state.Engine
	classifier classifier.Classifier
	rl         *readline.Instance
	ctx        context.Context
	commands   map[string]CommandHandler
}

// CommandHandler handles a specific command
type CommandHandler func(args []string) error

// Config holds REPL configuration
type Config struct {
	Engine     *state.Engine
	Classifier classifier.Classifier
}

// New creates a new REPL instance
func New(cfg *Config) (*REPL, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	cls := cfg.Classifier
	if cls == nil {
		cls = classifier.Unassigned
	}

	r := &REPL{
		engine:     cfg.Engine,
		classifier: cls,
		commands:   make(map[string]CommandHandler),
	}
	r.registerCommands()
	return r, nil
}

// Run starts the REPL loop
func (r *REPL) Run(ctx context.Context) error {
	r.ctx = ctx

	cyan := color.New(color.FgCyan).SprintFunc()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan("mw> "),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	r.rl = rl

	r.printWelcome()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			} else if err == io.EOF {
				fmt.Println("\nBis bald!")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := r.processInput(line); err != nil {
			if err == io.EOF {
				return nil
			}
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("%s %v\n", red("Error:"), err)
		}
	}
}

func (r *REPL) processInput(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	cmd := strings.ToLower(parts[0])
	handler, ok := r.commands[cmd]
	if !ok {
		return fmt.Errorf("unknown command: %s (type 'help')", cmd)
	}
	return handler(parts[1:])
}

func (r *REPL) printWelcome() {
	bold := color.New(color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()
	fmt.Printf("\n%s %s\n", bold("mindweek"), state.WeekLabel(time.Now()))
	fmt.Printf("%s\n\n", gray("Type 'help' for commands, Ctrl+D to exit."))
}

func (r *REPL) registerCommands() {
	r.commands["help"] = r.cmdHelp
	r.commands["week"] = r.cmdWeek
	r.commands["tasks"] = r.cmdTasks
	r.commands["add"] = r.cmdAdd
	r.commands["done"] = r.cmdDone
	r.commands["rm"] = r.cmdRemove
	r.commands["habits"] = r.cmdHabits
	r.commands["toggle"] = r.cmdToggle
	r.commands["end-week"] = r.cmdEndWeek
	r.commands["journal"] = r.cmdJournal
	r.commands["exit"] = r.cmdExit
	r.commands["quit"] = r.cmdExit
}

func (r *REPL) cmdHelp(args []string) error {
	gray := color.New(color.FgHiBlack).SprintFunc()
	fmt.Println("Commands:")
	fmt.Printf("  week               %s\n", gray("show the current week"))
	fmt.Printf("  tasks              %s\n", gray("list live tasks"))
	fmt.Printf("  add <text>         %s\n", gray("add a task for today (auto-categorized)"))
	fmt.Printf("  done <id>          %s\n", gray("toggle a task's completion"))
	fmt.Printf("  rm <id>            %s\n", gray("delete a task"))
	fmt.Printf("  habits             %s\n", gray("list habits with streak and level"))
	fmt.Printf("  toggle <id> [date] %s\n", gray("toggle a habit for a date (default today)"))
	fmt.Printf("  end-week           %s\n", gray("archive the week into the journal"))
	fmt.Printf("  journal            %s\n", gray("list archived weeks"))
	fmt.Printf("  exit               %s\n", gray("leave the shell"))
	return nil
}

func (r *REPL) cmdWeek(args []string) error {
	bold := color.New(color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()
	for i, day := range state.WeekDays(time.Now()) {
		date := day.Format(state.ISODate)
		fmt.Printf("%s %s\n", bold(state.WeekdayName(i)), gray(date))
		for _, t := range r.engine.TasksForDate(date) {
			printTask(t)
		}
	}
	return nil
}

func (r *REPL) cmdTasks(args []string) error {
	tasks := r.engine.Tasks()
	if len(tasks) == 0 {
		fmt.Println("No live tasks.")
		return nil
	}
	for _, t := range tasks {
		printTask(t)
	}
	return nil
}

func (r *REPL) cmdAdd(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: add <text>")
	}
	text := strings.Join(args, " ")
	category := r.classifier.Classify(r.ctx, text)
	task := types.Task{
		ID:        types.NewID(),
		Text:      text,
		Date:      time.Now().Format(state.ISODate),
		Category:  category,
		PeopleIDs: []string{},
		CreatedAt: types.NowMillis(),
	}
	r.engine.AddTask(r.ctx, task)
	theme := category.Theme()
	fmt.Printf("Added %s %s\n", theme.Color.Sprint(string(category)), task.Text)
	return nil
}

func (r *REPL) cmdDone(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: done <id>")
	}
	task, ok := r.findTask(args[0])
	if !ok {
		return fmt.Errorf("task not found: %s", args[0])
	}
	task.Completed = !task.Completed
	r.engine.UpdateTask(r.ctx, task)
	printTask(task)
	return nil
}

func (r *REPL) cmdRemove(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: rm <id>")
	}
	task, ok := r.findTask(args[0])
	if !ok {
		return fmt.Errorf("task not found: %s", args[0])
	}
	r.engine.DeleteTask(r.ctx, task.ID)
	fmt.Printf("Deleted %s\n", task.Text)
	return nil
}

func (r *REPL) cmdHabits(args []string) error {
	habits := r.engine.Habits()
	if len(habits) == 0 {
		fmt.Println("No habits yet.")
		return nil
	}
	gray := color.New(color.FgHiBlack).SprintFunc()
	for _, h := range habits {
		theme := h.Category.Theme()
		fmt.Printf("%s %s  %s\n", theme.Color.Sprint(theme.Icon), h.Title,
			gray(fmt.Sprintf("streak %d, level %d  %s", h.Streak, h.Level, shortID(h.ID))))
	}
	return nil
}

func (r *REPL) cmdToggle(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: toggle <habit-id> [date]")
	}
	habit, ok := r.findHabit(args[0])
	if !ok {
		return fmt.Errorf("habit not found: %s", args[0])
	}
	date := time.Now().Format(state.ISODate)
	if len(args) == 2 {
		if _, err := time.Parse(state.ISODate, args[1]); err != nil {
			return fmt.Errorf("date must be YYYY-MM-DD (got %q)", args[1])
		}
		date = args[1]
	}
	on, err := r.engine.ToggleHabitForDate(r.ctx, habit.ID, date)
	if err != nil {
		return err
	}
	updated, _ := r.engine.FindHabit(habit.ID)
	if on {
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s %s on %s (streak %d, level %d)\n", green("✓"), habit.Title, date, updated.Streak, updated.Level)
	} else {
		fmt.Printf("○ %s off on %s\n", habit.Title, date)
	}
	return nil
}

func (r *REPL) cmdEndWeek(args []string) error {
	entry := r.engine.EndWeek(r.ctx, time.Now())
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Archived %s (%d tasks, %d reflections)\n",
		green("✓"), entry.WeekLabel, len(entry.Tasks), len(entry.Reflections))
	return nil
}

func (r *REPL) cmdJournal(args []string) error {
	entries := r.engine.Journal()
	if len(entries) == 0 {
		fmt.Println("Archive is empty.")
		return nil
	}
	gray := color.New(color.FgHiBlack).SprintFunc()
	for _, e := range entries {
		fmt.Printf("%s  %s  %s\n", e.WeekLabel, e.Date, gray(fmt.Sprintf("%d tasks  %s", len(e.Tasks), shortID(e.ID))))
	}
	return nil
}

func (r *REPL) cmdExit(args []string) error {
	fmt.Println("Bis bald!")
	return io.EOF
}

// findTask resolves a full id or unique id prefix to a live task.
func (r *REPL) findTask(idOrPrefix string) (types.Task, bool) {
	if t, ok := r.engine.FindTask(idOrPrefix); ok {
		return t, true
	}
	var match types.Task
	count := 0
	for _, t := range r.engine.Tasks() {
		if strings.HasPrefix(t.ID, idOrPrefix) {
			match = t
			count++
		}
	}
	return match, count == 1
}

func (r *REPL) findHabit(idOrPrefix string) (types.Habit, bool) {
	if h, ok := r.engine.FindHabit(idOrPrefix); ok {
		return h, true
	}
	var match types.Habit
	count := 0
	for _, h := range r.engine.Habits() {
		if strings.HasPrefix(h.ID, idOrPrefix) {
			match = h
			count++
		}
	}
	return match, count == 1
}

func printTask(t types.Task) {
	theme := t.Category.Theme()
	check := "○"
	if t.Completed {
		check = color.New(color.FgGreen).Sprint("✓")
	}
	gray := color.New(color.FgHiBlack).SprintFunc()
	fmt.Printf("  %s %s %s  %s\n", check, theme.Color.Sprint(theme.Icon), t.Text, gray(shortID(t.ID)))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
