package state

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mindweek/mw/internal/storage"
	"github.com/mindweek/mw/internal/types"
)

// Engine owns the application state and exposes the full mutation
// API. Every operation runs under one mutex as a single atomic update,
// and schedules a full-state write through the store before returning.
// A failed write is logged and swallowed: the in-memory state stays
// authoritative for the rest of the session.
//
// Read accessors hand out detached copies, so a caller holding a
// slice or map from before a mutation never observes a torn update.
type Engine struct {
	mu    sync.Mutex
	state *AppState
	store storage.Store
}

// NewEngine loads the persisted blob from the store and reconstructs
// the initial state. Missing or unreadable data yields the default
// empty state; load problems are logged, never fatal.
func NewEngine(ctx context.Context, store storage.Store) *Engine {
	data, ok, err := store.Load(ctx)
	if err != nil {
		slog.Warn("failed to load saved state, starting empty", "error", err)
		return &Engine{state: DefaultState(), store: store}
	}
	if !ok {
		return &Engine{state: DefaultState(), store: store}
	}
	return &Engine{state: DecodeState(data), store: store}
}

// persistLocked serializes the current state and writes it through
// the store. Callers must hold e.mu. Write failures are logged and
// otherwise ignored (storage full, file locked, ...): the user keeps
// working against the in-memory state.
func (e *Engine) persistLocked(ctx context.Context) {
	data, err := e.state.Encode()
	if err != nil {
		slog.Warn("failed to encode state", "error", err)
		return
	}
	if err := e.store.Save(ctx, data); err != nil {
		slog.Warn("failed to save state", "error", err)
	}
}

// Reload discards the in-memory state and reconstructs it from the
// store. Used after an import replaces the persisted blob wholesale.
func (e *Engine) Reload(ctx context.Context) {
	data, ok, err := e.store.Load(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case err != nil:
		slog.Warn("failed to reload state", "error", err)
		e.state = DefaultState()
	case !ok:
		e.state = DefaultState()
	default:
		e.state = DecodeState(data)
	}
}

// --- Tasks ---

// AddTask appends the task to the live collection. Ids are assumed
// unique by construction; no duplicate check is made here.
func (e *Engine) AddTask(ctx context.Context, task types.Task) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if task.PeopleIDs == nil {
		task.PeopleIDs = []string{}
	}
	e.state.Tasks = append(e.state.Tasks, task)
	e.persistLocked(ctx)
}

// UpdateTask replaces the task with a matching id in place. Identity
// match only, no merge: the caller supplies the complete desired
// task. With a duplicate id only the first positional match changes.
// A no-op if the id is unknown.
func (e *Engine) UpdateTask(ctx context.Context, task types.Task) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.state.Tasks {
		if e.state.Tasks[i].ID == task.ID {
			if task.PeopleIDs == nil {
				task.PeopleIDs = []string{}
			}
			e.state.Tasks[i] = task
			break
		}
	}
	e.persistLocked(ctx)
}

// DeleteTask removes the task with the given id; a no-op if not found.
func (e *Engine) DeleteTask(ctx context.Context, id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	kept := e.state.Tasks[:0]
	for _, t := range e.state.Tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	e.state.Tasks = kept
	e.persistLocked(ctx)
}

// --- People ---

// AddPerson appends a new person with a fresh id. Names are not
// required to be unique.
func (e *Engine) AddPerson(ctx context.Context, name string) types.Person {
	p := types.Person{ID: types.NewID(), Name: name}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.People = append(e.state.People, p)
	e.persistLocked(ctx)
	return p
}

// --- Habits ---

// AddHabit creates a habit with streak 0 and level 1.
func (e *Engine) AddHabit(ctx context.Context, title string, category types.Category) types.Habit {
	h := types.Habit{
		ID:        types.NewID(),
		Title:     title,
		Category:  category,
		Streak:    0,
		Level:     1,
		CreatedAt: types.NowMillis(),
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Habits = append(e.state.Habits, h)
	e.persistLocked(ctx)
	return h
}

// DeleteHabit removes the habit and cascades: every task linked to it
// via HabitID is removed too, across all dates.
func (e *Engine) DeleteHabit(ctx context.Context, id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	habits := e.state.Habits[:0]
	for _, h := range e.state.Habits {
		if h.ID != id {
			habits = append(habits, h)
		}
	}
	e.state.Habits = habits

	tasks := e.state.Tasks[:0]
	for _, t := range e.state.Tasks {
		if t.HabitID != id {
			tasks = append(tasks, t)
		}
	}
	e.state.Tasks = tasks

	e.persistLocked(ctx)
}

// ToggleHabitForDate toggles a habit on or off for one date and
// returns whether it is now on.
//
// Toggling on creates a completed task linked to the habit, bumps the
// streak by one, and recomputes the level. Toggling off removes that
// task but leaves streak and level alone: progression is one-way by
// design. The streak is a toggle-on counter, not a consecutive-day
// tracker; there is deliberately no calendar-gap detection.
func (e *Engine) ToggleHabitForDate(ctx context.Context, habitID, date string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var habit *types.Habit
	for i := range e.state.Habits {
		if e.state.Habits[i].ID == habitID {
			habit = &e.state.Habits[i]
			break
		}
	}
	if habit == nil {
		return false, fmt.Errorf("habit not found: %s", habitID)
	}

	// At most one habit-generated task exists per (habit, date).
	for i, t := range e.state.Tasks {
		if t.HabitID == habitID && t.Date == date {
			e.state.Tasks = append(e.state.Tasks[:i], e.state.Tasks[i+1:]...)
			e.persistLocked(ctx)
			return false, nil
		}
	}

	category := habit.Category
	if !category.IsValid() {
		category = types.CategoryUnassigned
	}
	task := types.Task{
		ID:        types.NewID(),
		Text:      habit.Title,
		Completed: true,
		Date:      date,
		Category:  category,
		PeopleIDs: []string{},
		HabitID:   habitID,
		CreatedAt: types.NowMillis(),
	}

	habit.Streak++
	habit.Level = types.LevelForStreak(habit.Streak)
	e.state.Tasks = append(e.state.Tasks, task)

	e.persistLocked(ctx)
	return true, nil
}

// --- Workouts ---

// AddWorkout creates a workout template. ScheduledDays are stored
// as-is, without range validation.
func (e *Engine) AddWorkout(ctx context.Context, name, description string, scheduledDays []int) types.Workout {
	if scheduledDays == nil {
		scheduledDays = []int{}
	}
	w := types.Workout{
		ID:            types.NewID(),
		Name:          name,
		Description:   description,
		ScheduledDays: scheduledDays,
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Workouts = append(e.state.Workouts, w)
	e.persistLocked(ctx)
	return w
}

// DeleteWorkout removes the workout template; a no-op if not found.
func (e *Engine) DeleteWorkout(ctx context.Context, id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	kept := e.state.Workouts[:0]
	for _, w := range e.state.Workouts {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	e.state.Workouts = kept
	e.persistLocked(ctx)
}

// ScheduleWorkout materializes a concrete task for the workout on the
// given date. The task carries the workout's name and description;
// the workout itself is not marked or linked in any way.
func (e *Engine) ScheduleWorkout(ctx context.Context, workoutID, date string) (types.Task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var workout *types.Workout
	for i := range e.state.Workouts {
		if e.state.Workouts[i].ID == workoutID {
			workout = &e.state.Workouts[i]
			break
		}
	}
	if workout == nil {
		return types.Task{}, fmt.Errorf("workout not found: %s", workoutID)
	}

	task := types.Task{
		ID:             types.NewID(),
		Text:           "Training: " + workout.Name,
		AdditionalInfo: workout.Description,
		Completed:      false,
		Date:           date,
		Category:       types.CategoryBody,
		PeopleIDs:      []string{},
		CreatedAt:      types.NowMillis(),
	}
	e.state.Tasks = append(e.state.Tasks, task)
	e.persistLocked(ctx)
	return task, nil
}

// --- Singletons ---

// UpdateIntention replaces one intention field.
func (e *Engine) UpdateIntention(ctx context.Context, key types.IntentionKey, value string) error {
	if !key.IsValid() {
		return fmt.Errorf("invalid intention key: %s", key)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	switch key {
	case types.IntentionDay:
		e.state.Intention.Day = value
	case types.IntentionWeek:
		e.state.Intention.Week = value
	case types.IntentionMonth:
		e.state.Intention.Month = value
	case types.IntentionYear:
		e.state.Intention.Year = value
	}
	e.persistLocked(ctx)
	return nil
}

// UpdateGoals replaces one goals field.
func (e *Engine) UpdateGoals(ctx context.Context, key types.GoalsKey, value string) error {
	if !key.IsValid() {
		return fmt.Errorf("invalid goals key: %s", key)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if key == types.GoalsMonthly {
		e.state.Goals.Monthly = value
	} else {
		e.state.Goals.Yearly = value
	}
	e.persistLocked(ctx)
	return nil
}

// --- Journal & reflections ---

// UpdateJournalEntry replaces the notes of the matching journal entry.
// Every other field of an archived entry is immutable.
func (e *Engine) UpdateJournalEntry(ctx context.Context, id, notes string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.state.Journal {
		if e.state.Journal[i].ID == id {
			e.state.Journal[i].Notes = notes
			break
		}
	}
	e.persistLocked(ctx)
}

// UpdateDailyReflection upserts one field of the live reflection for
// the given date, creating the empty triple if absent.
func (e *Engine) UpdateDailyReflection(ctx context.Context, date string, field types.ReflectionField, value string) error {
	if !field.IsValid() {
		return fmt.Errorf("invalid reflection field: %s", field)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	ref := e.state.DailyReflections[date]
	ref.Set(field, value)
	e.state.DailyReflections[date] = ref
	e.persistLocked(ctx)
	return nil
}

// UpdateJournalReflection performs the same field upsert inside one
// archived journal entry's reflection map, allowing retroactive edits
// to an archived week.
func (e *Engine) UpdateJournalReflection(ctx context.Context, journalID, date string, field types.ReflectionField, value string) error {
	if !field.IsValid() {
		return fmt.Errorf("invalid reflection field: %s", field)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.state.Journal {
		if e.state.Journal[i].ID != journalID {
			continue
		}
		if e.state.Journal[i].Reflections == nil {
			e.state.Journal[i].Reflections = map[string]types.DailyReflection{}
		}
		ref := e.state.Journal[i].Reflections[date]
		ref.Set(field, value)
		e.state.Journal[i].Reflections[date] = ref
		break
	}
	e.persistLocked(ctx)
	return nil
}

// --- Week-end archival ---

// EndWeek archives the current week: every live task (across all
// dates, stale ones included) and the live reflection map are
// deep-copied into a new journal entry labeled with the ISO week of
// the archival date, the entry is prepended to the journal, and the
// live collections are cleared. Habits, workouts, and people persist
// across the boundary.
//
// The transition is atomic under the engine mutex and can be invoked
// at any time, any number of times.
func (e *Engine) EndWeek(ctx context.Context, now time.Time) types.JournalEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	dateStr := ArchiveDate(now)
	entry := types.JournalEntry{
		ID:           types.NewID(),
		Date:         dateStr,
		ArchivedDate: dateStr,
		WeekLabel:    WeekLabel(now),
		Tasks:        types.CloneTasks(e.state.Tasks),
		Reflections:  types.CloneReflections(e.state.DailyReflections),
		Notes:        "",
	}

	// Most-recent-first ordering is an invariant of the journal.
	e.state.Journal = append([]types.JournalEntry{entry}, e.state.Journal...)
	e.state.Tasks = []types.Task{}
	e.state.DailyReflections = map[string]types.DailyReflection{}

	e.persistLocked(ctx)
	return entry.Clone()
}

// --- Read accessors (all return detached copies) ---

// State returns a deep copy of the whole application state.
func (e *Engine) State() *AppState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Tasks returns a copy of the live task collection.
func (e *Engine) Tasks() []types.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return types.CloneTasks(e.state.Tasks)
}

// TasksForDate returns copies of the live tasks on one date.
func (e *Engine) TasksForDate(date string) []types.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := []types.Task{}
	for _, t := range e.state.Tasks {
		if t.Date == date {
			out = append(out, t.Clone())
		}
	}
	return out
}

// FindTask returns a copy of the task with the given id.
func (e *Engine) FindTask(id string) (types.Task, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range e.state.Tasks {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return types.Task{}, false
}

// Habits returns a copy of the habit collection.
func (e *Engine) Habits() []types.Habit {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]types.Habit{}, e.state.Habits...)
}

// FindHabit returns the habit with the given id.
func (e *Engine) FindHabit(id string) (types.Habit, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, h := range e.state.Habits {
		if h.ID == id {
			return h, true
		}
	}
	return types.Habit{}, false
}

// Workouts returns a copy of the workout collection.
func (e *Engine) Workouts() []types.Workout {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]types.Workout, 0, len(e.state.Workouts))
	for _, w := range e.state.Workouts {
		w.ScheduledDays = append([]int{}, w.ScheduledDays...)
		out = append(out, w)
	}
	return out
}

// FindWorkout returns the workout with the given id.
func (e *Engine) FindWorkout(id string) (types.Workout, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, w := range e.state.Workouts {
		if w.ID == id {
			w.ScheduledDays = append([]int{}, w.ScheduledDays...)
			return w, true
		}
	}
	return types.Workout{}, false
}

// People returns a copy of the people collection.
func (e *Engine) People() []types.Person {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]types.Person{}, e.state.People...)
}

// PersonName resolves a person id to a name. A dangling reference is
// not an error; it resolves to the empty string and the caller renders
// it as absent.
func (e *Engine) PersonName(id string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, p := range e.state.People {
		if p.ID == id {
			return p.Name
		}
	}
	return ""
}

// Journal returns a deep copy of the journal, most recent first.
func (e *Engine) Journal() []types.JournalEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]types.JournalEntry, 0, len(e.state.Journal))
	for _, entry := range e.state.Journal {
		out = append(out, entry.Clone())
	}
	return out
}

// FindJournalEntry returns a deep copy of the journal entry with the
// given id.
func (e *Engine) FindJournalEntry(id string) (types.JournalEntry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, entry := range e.state.Journal {
		if entry.ID == id {
			return entry.Clone(), true
		}
	}
	return types.JournalEntry{}, false
}

// Intention returns the intention singleton.
func (e *Engine) Intention() types.Intention {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Intention
}

// Goals returns the goals singleton.
func (e *Engine) Goals() types.Goals {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Goals
}

// DailyReflections returns a copy of the live reflection map.
func (e *Engine) DailyReflections() map[string]types.DailyReflection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return types.CloneReflections(e.state.DailyReflections)
}
