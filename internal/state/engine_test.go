package state

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mindweek/mw/internal/types"
)

// memStore is an in-memory Store for engine tests.
type memStore struct {
	mu       sync.Mutex
	data     []byte
	ok       bool
	saves    int
	failSave bool
}

func (m *memStore) Load(ctx context.Context) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data, m.ok, nil
}

func (m *memStore) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.failSave {
		return errors.New("disk full")
	}
	m.data = append([]byte(nil), data...)
	m.ok = true
	return nil
}

func (m *memStore) Close() error { return nil }

func newTestEngine(t *testing.T) (*Engine, *memStore) {
	t.Helper()
	store := &memStore{}
	return NewEngine(context.Background(), store), store
}

func TestAddUpdateDeleteTask(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)

	task := types.Task{ID: "t1", Text: "Einkaufen", Date: "2025-06-10", Category: types.CategoryUnassigned, CreatedAt: types.NowMillis()}
	e.AddTask(ctx, task)

	got, ok := e.FindTask("t1")
	if !ok {
		t.Fatalf("task not found after add")
	}
	if got.PeopleIDs == nil {
		t.Errorf("nil peopleIds should be normalized to empty")
	}

	// Full replacement, no merge
	got.Text = "Einkaufen + Post"
	got.Completed = true
	e.UpdateTask(ctx, got)
	updated, _ := e.FindTask("t1")
	if updated.Text != "Einkaufen + Post" || !updated.Completed {
		t.Errorf("update not applied: %+v", updated)
	}

	// Unknown id is a no-op, not an error
	e.UpdateTask(ctx, types.Task{ID: "ghost", Text: "x"})
	e.DeleteTask(ctx, "ghost")

	e.DeleteTask(ctx, "t1")
	if _, ok := e.FindTask("t1"); ok {
		t.Errorf("task still present after delete")
	}

	if store.saves == 0 {
		t.Errorf("mutations should persist through the store")
	}
}

// With a duplicate id, updates hit the first positional match only.
func TestUpdateTaskFirstPositionalMatch(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	e.AddTask(ctx, types.Task{ID: "dup", Text: "first", Date: "2025-06-10"})
	e.AddTask(ctx, types.Task{ID: "dup", Text: "second", Date: "2025-06-11"})

	e.UpdateTask(ctx, types.Task{ID: "dup", Text: "patched", Date: "2025-06-10"})

	tasks := e.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Text != "patched" || tasks[1].Text != "second" {
		t.Errorf("expected first match patched only: %q / %q", tasks[0].Text, tasks[1].Text)
	}
}

func TestToggleHabitAsymmetry(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	h := e.AddHabit(ctx, "Meditieren", types.CategoryMental)
	if h.Streak != 0 || h.Level != 1 {
		t.Fatalf("new habit should start at streak 0, level 1: %+v", h)
	}

	on, err := e.ToggleHabitForDate(ctx, h.ID, "2025-06-10")
	if err != nil || !on {
		t.Fatalf("first toggle should turn on: on=%v err=%v", on, err)
	}

	tasks := e.TasksForDate("2025-06-10")
	if len(tasks) != 1 {
		t.Fatalf("expected 1 habit task, got %d", len(tasks))
	}
	task := tasks[0]
	if task.HabitID != h.ID || !task.Completed || task.Text != "Meditieren" || task.Category != types.CategoryMental {
		t.Errorf("habit task malformed: %+v", task)
	}

	got, _ := e.FindHabit(h.ID)
	if got.Streak != 1 || got.Level != 1 {
		t.Errorf("streak should be 1 after toggle on: %+v", got)
	}

	// Toggle off: task removed, but streak stays. Progression is
	// one-way; the counter never reverts.
	on, err = e.ToggleHabitForDate(ctx, h.ID, "2025-06-10")
	if err != nil || on {
		t.Fatalf("second toggle should turn off: on=%v err=%v", on, err)
	}
	if len(e.TasksForDate("2025-06-10")) != 0 {
		t.Errorf("habit task should be removed on toggle off")
	}
	got, _ = e.FindHabit(h.ID)
	if got.Streak != 1 {
		t.Errorf("streak must not be decremented on toggle off, got %d", got.Streak)
	}
}

func TestToggleHabitLevelProgression(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	h := e.AddHabit(ctx, "Lesen", types.CategoryFocus)
	dates := []string{
		"2025-06-02", "2025-06-03", "2025-06-04", "2025-06-05",
		"2025-06-06", "2025-06-07", "2025-06-08",
	}
	for _, d := range dates {
		if _, err := e.ToggleHabitForDate(ctx, h.ID, d); err != nil {
			t.Fatalf("toggle %s: %v", d, err)
		}
	}

	got, _ := e.FindHabit(h.ID)
	if got.Streak != 7 {
		t.Errorf("expected streak 7, got %d", got.Streak)
	}
	if got.Level != 2 {
		t.Errorf("expected level 2 at streak 7, got %d", got.Level)
	}
}

func TestToggleHabitUnknown(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, err := e.ToggleHabitForDate(context.Background(), "nope", "2025-06-10"); err == nil {
		t.Errorf("expected error for unknown habit")
	}
}

func TestDeleteHabitCascades(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	h := e.AddHabit(ctx, "Laufen", types.CategoryBody)
	for _, d := range []string{"2025-06-02", "2025-06-04", "2025-06-06"} {
		if _, err := e.ToggleHabitForDate(ctx, h.ID, d); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}
	e.AddTask(ctx, types.Task{ID: "keep", Text: "Unrelated", Date: "2025-06-02"})

	e.DeleteHabit(ctx, h.ID)

	if _, ok := e.FindHabit(h.ID); ok {
		t.Errorf("habit still present after delete")
	}
	for _, task := range e.Tasks() {
		if task.HabitID == h.ID {
			t.Errorf("task %s still references deleted habit", task.ID)
		}
	}
	if _, ok := e.FindTask("keep"); !ok {
		t.Errorf("unrelated task should survive the cascade")
	}
}

func TestScheduleWorkoutMaterializesTask(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	w := e.AddWorkout(ctx, "Push Day", "Bankdrücken 3x8, Dips 3x10", []int{0, 3})
	task, err := e.ScheduleWorkout(ctx, w.ID, "2025-06-10")
	if err != nil {
		t.Fatalf("ScheduleWorkout failed: %v", err)
	}

	if task.Text != "Training: Push Day" {
		t.Errorf("unexpected task text: %q", task.Text)
	}
	if task.AdditionalInfo != w.Description {
		t.Errorf("task should carry the workout description")
	}
	if task.Date != "2025-06-10" || task.Completed || task.Category != types.CategoryBody {
		t.Errorf("task malformed: %+v", task)
	}
	if task.HabitID != "" {
		t.Errorf("workout tasks carry no habit link")
	}

	// The workout collection is untouched and unlinked.
	workouts := e.Workouts()
	if len(workouts) != 1 || workouts[0].ID != w.ID {
		t.Errorf("workout collection changed: %+v", workouts)
	}
	if len(e.TasksForDate("2025-06-10")) != 1 {
		t.Errorf("expected exactly one materialized task")
	}
}

func TestEndWeekArchivalAndOrdering(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	t1 := types.Task{ID: "t1", Text: "A", Date: "2025-06-09", Category: types.CategoryFocus, PeopleIDs: []string{}}
	t2 := types.Task{ID: "t2", Text: "B", Date: "2025-06-11", Category: types.CategoryLeisure, PeopleIDs: []string{}}
	e.AddTask(ctx, t1)
	e.AddTask(ctx, t2)
	if err := e.UpdateDailyReflection(ctx, "2025-06-09", types.FieldMood, "gut"); err != nil {
		t.Fatalf("reflection: %v", err)
	}
	h := e.AddHabit(ctx, "Lesen", types.CategoryFocus)
	w := e.AddWorkout(ctx, "Legs", "", nil)
	p := e.AddPerson(ctx, "Anna")

	now := time.Date(2025, 6, 13, 12, 0, 0, 0, time.UTC)
	entry := e.EndWeek(ctx, now)

	if entry.WeekLabel != "KW 24" {
		t.Errorf("expected KW 24 for 2025-06-13, got %s", entry.WeekLabel)
	}
	if entry.Date != "13.06.25" || entry.ArchivedDate != "13.06.25" {
		t.Errorf("unexpected archive date: %q / %q", entry.Date, entry.ArchivedDate)
	}
	if len(entry.Tasks) != 2 || entry.Tasks[0].ID != "t1" || entry.Tasks[1].ID != "t2" {
		t.Errorf("archived tasks wrong or out of order: %+v", entry.Tasks)
	}
	if entry.Reflections["2025-06-09"].Mood != "gut" {
		t.Errorf("reflections not archived: %+v", entry.Reflections)
	}

	// Live collections cleared; habits/workouts/people untouched.
	if len(e.Tasks()) != 0 {
		t.Errorf("live tasks should be empty after archival")
	}
	if len(e.DailyReflections()) != 0 {
		t.Errorf("live reflections should be empty after archival")
	}
	if _, ok := e.FindHabit(h.ID); !ok {
		t.Errorf("habits must survive archival")
	}
	if _, ok := e.FindWorkout(w.ID); !ok {
		t.Errorf("workouts must survive archival")
	}
	if e.PersonName(p.ID) != "Anna" {
		t.Errorf("people must survive archival")
	}

	// A second end-week immediately after archives an empty week and
	// pushes the first entry down: most-recent-first always.
	second := e.EndWeek(ctx, now)
	journal := e.Journal()
	if len(journal) != 2 {
		t.Fatalf("expected 2 journal entries, got %d", len(journal))
	}
	if journal[0].ID != second.ID || len(journal[0].Tasks) != 0 {
		t.Errorf("newest entry should be first and empty")
	}
	if journal[1].ID != entry.ID {
		t.Errorf("first entry should have been pushed to index 1")
	}
}

// Archival snapshots are deep copies: later live mutations never
// rewrite history.
func TestEndWeekSnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	e.AddTask(ctx, types.Task{ID: "t1", Text: "original", Date: "2025-06-09", PeopleIDs: []string{"p1"}})
	entry := e.EndWeek(ctx, time.Now())

	// New live task with the same id, then mutate it.
	e.AddTask(ctx, types.Task{ID: "t1", Text: "new life", Date: "2025-06-16"})
	e.UpdateTask(ctx, types.Task{ID: "t1", Text: "mutated", Date: "2025-06-16"})

	archived, ok := e.FindJournalEntry(entry.ID)
	if !ok {
		t.Fatalf("journal entry missing")
	}
	if archived.Tasks[0].Text != "original" {
		t.Errorf("archived task was retroactively altered: %q", archived.Tasks[0].Text)
	}

	// Mutating the returned copy must not touch the archive either.
	archived.Tasks[0].Text = "vandalized"
	again, _ := e.FindJournalEntry(entry.ID)
	if again.Tasks[0].Text != "original" {
		t.Errorf("journal accessor leaked engine-owned memory")
	}
}

func TestJournalNotesAndRetroReflections(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	e.AddTask(ctx, types.Task{ID: "t1", Text: "A", Date: "2025-06-09"})
	entry := e.EndWeek(ctx, time.Now())

	e.UpdateJournalEntry(ctx, entry.ID, "war eine gute Woche")
	got, _ := e.FindJournalEntry(entry.ID)
	if got.Notes != "war eine gute Woche" {
		t.Errorf("notes not updated: %q", got.Notes)
	}
	// Only notes change; the snapshot itself is immutable.
	if len(got.Tasks) != 1 || got.WeekLabel != entry.WeekLabel {
		t.Errorf("notes update must not touch other fields")
	}

	if err := e.UpdateJournalReflection(ctx, entry.ID, "2025-06-09", types.FieldGratitude, "Regen"); err != nil {
		t.Fatalf("retro reflection: %v", err)
	}
	got, _ = e.FindJournalEntry(entry.ID)
	if got.Reflections["2025-06-09"].Gratitude != "Regen" {
		t.Errorf("retroactive reflection edit missing: %+v", got.Reflections)
	}

	if err := e.UpdateJournalReflection(ctx, entry.ID, "2025-06-09", "bogus", "x"); err == nil {
		t.Errorf("invalid reflection field should error")
	}
}

func TestUpdateDailyReflectionUpserts(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	if err := e.UpdateDailyReflection(ctx, "2025-06-10", types.FieldMood, "gut"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := e.UpdateDailyReflection(ctx, "2025-06-10", types.FieldImprovement, "weniger Kaffee"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	refs := e.DailyReflections()
	got := refs["2025-06-10"]
	if got.Mood != "gut" || got.Improvement != "weniger Kaffee" || got.Gratitude != "" {
		t.Errorf("field upserts wrong: %+v", got)
	}
}

func TestIntentionAndGoals(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	if err := e.UpdateIntention(ctx, types.IntentionWeek, "Fokus halten"); err != nil {
		t.Fatalf("intention: %v", err)
	}
	if e.Intention().Week != "Fokus halten" {
		t.Errorf("intention not updated")
	}
	if err := e.UpdateIntention(ctx, "decade", "x"); err == nil {
		t.Errorf("invalid intention key should error")
	}

	if err := e.UpdateGoals(ctx, types.GoalsYearly, "Marathon"); err != nil {
		t.Fatalf("goals: %v", err)
	}
	if e.Goals().Yearly != "Marathon" {
		t.Errorf("goals not updated")
	}
	if err := e.UpdateGoals(ctx, "weekly", "x"); err == nil {
		t.Errorf("invalid goals key should error")
	}
}

// A failing store never blocks mutations; the in-memory state stays
// authoritative for the session.
func TestSaveFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	store := &memStore{failSave: true}
	e := NewEngine(ctx, store)

	e.AddTask(ctx, types.Task{ID: "t1", Text: "A", Date: "2025-06-09"})
	if _, ok := e.FindTask("t1"); !ok {
		t.Errorf("mutation should succeed in memory despite save failure")
	}
	if store.saves == 0 {
		t.Errorf("save should still have been attempted")
	}
}

func TestEnginePersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}

	e := NewEngine(ctx, store)
	e.AddTask(ctx, types.Task{ID: "t1", Text: "A", Date: "2025-06-09"})
	e.AddPerson(ctx, "Anna")

	// A fresh engine over the same store sees the saved state.
	e2 := NewEngine(ctx, store)
	if _, ok := e2.FindTask("t1"); !ok {
		t.Errorf("persisted task missing after reload")
	}
	if len(e2.People()) != 1 {
		t.Errorf("persisted people missing after reload")
	}
}
