// Package types defines the domain model for the weekly planner:
// tasks, habits, workouts, people, reflections, and the journal archive.
package types

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Category classifies a task or habit. The labels are the user-facing
// German names and double as the wire values in the persisted blob, so
// backups created by older clients stay importable.
type Category string

const (
	CategoryFocus      Category = "Fokus"
	CategoryCreative   Category = "Kreativ"
	CategoryBody       Category = "Körper"
	CategoryMental     Category = "Mental"
	CategoryLeisure    Category = "Freizeit"
	CategoryUnassigned Category = "Allgemein"
)

// AllCategories lists every category in display order.
var AllCategories = []Category{
	CategoryFocus,
	CategoryCreative,
	CategoryBody,
	CategoryMental,
	CategoryLeisure,
	CategoryUnassigned,
}

// ClassifiableCategories are the labels the classifier may choose from.
// "Allgemein" is the fallback, never a classification result.
var ClassifiableCategories = []Category{
	CategoryFocus,
	CategoryCreative,
	CategoryBody,
	CategoryMental,
	CategoryLeisure,
}

// IsValid checks if the category value is valid
func (c Category) IsValid() bool {
	switch c {
	case CategoryFocus, CategoryCreative, CategoryBody, CategoryMental, CategoryLeisure, CategoryUnassigned:
		return true
	}
	return false
}

// ParseCategory maps a label to its Category, falling back to
// CategoryUnassigned for anything it does not recognize.
func ParseCategory(label string) Category {
	c := Category(label)
	if c.IsValid() {
		return c
	}
	return CategoryUnassigned
}

// CategoryTheme holds the terminal display metadata for a category.
type CategoryTheme struct {
	Color *color.Color
	Icon  string
}

var categoryThemes = map[Category]CategoryTheme{
	CategoryFocus:      {Color: color.New(color.FgBlue), Icon: "◆"},
	CategoryCreative:   {Color: color.New(color.FgMagenta), Icon: "✦"},
	CategoryBody:       {Color: color.New(color.FgGreen), Icon: "▲"},
	CategoryMental:     {Color: color.New(color.FgYellow), Icon: "●"},
	CategoryLeisure:    {Color: color.New(color.FgHiMagenta), Icon: "♥"},
	CategoryUnassigned: {Color: color.New(color.FgHiBlack), Icon: "○"},
}

// Theme returns the display metadata for the category. Unknown
// categories get the unassigned theme.
func (c Category) Theme() CategoryTheme {
	if t, ok := categoryThemes[c]; ok {
		return t
	}
	return categoryThemes[CategoryUnassigned]
}

// NewID generates an opaque unique identifier for any entity.
func NewID() string {
	return uuid.NewString()
}

// NowMillis returns the current time as Unix milliseconds, the
// timestamp representation used throughout the persisted blob.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// Task is a unit of plannable work, pinned to a calendar date.
//
// HabitID is set iff the task was generated by toggling a habit on for
// its date; such tasks are created and removed as a unit with that
// (habit, date) pair and never duplicated.
type Task struct {
	ID             string   `json:"id"`
	Text           string   `json:"text"`
	Completed      bool     `json:"completed"`
	Date           string   `json:"date"` // ISO date, YYYY-MM-DD, no time component
	Category       Category `json:"category"`
	PeopleIDs      []string `json:"peopleIds"`
	AdditionalInfo string   `json:"additionalInfo,omitempty"`
	HabitID        string   `json:"habitId,omitempty"`
	CreatedAt      int64    `json:"createdAt"` // Unix milliseconds
}

// Validate checks if the task has valid field values
func (t *Task) Validate() error {
	if t.Text == "" {
		return fmt.Errorf("text is required")
	}
	if _, err := time.Parse("2006-01-02", t.Date); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD (got %q)", t.Date)
	}
	if !t.Category.IsValid() {
		return fmt.Errorf("invalid category: %s", t.Category)
	}
	return nil
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	if t.PeopleIDs != nil {
		c.PeopleIDs = append([]string(nil), t.PeopleIDs...)
	}
	return c
}

// Habit is a recurring intention tracked daily.
//
// Streak counts toggle-on events, not consecutive calendar days: the
// engine never decrements it and never checks for gaps. Level is
// derived as streak/7 + 1.
type Habit struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Category  Category `json:"category"`
	Streak    int      `json:"streak"`
	Level     int      `json:"level"`
	CreatedAt int64    `json:"createdAt"`
}

// LevelForStreak computes the habit level for a given streak count.
func LevelForStreak(streak int) int {
	return streak/7 + 1
}

// Workout is a reusable training-plan template. It never appears on
// the calendar itself; scheduling it for a date materializes a task.
type Workout struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// ScheduledDays holds weekday indices relative to a Monday-first
	// week (0 = Monday). Out-of-range values are stored as-is; range
	// checks are a presentation concern.
	ScheduledDays []int `json:"scheduledDays"`
}

// Person is a named contact referenced by tasks via PeopleIDs. A
// dangling reference is not an error; lookups simply come back empty.
type Person struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DailyReflection is the mood/gratitude/improvement triple for one day.
type DailyReflection struct {
	Mood        string `json:"mood"`
	Gratitude   string `json:"gratitude"`
	Improvement string `json:"improvement"`
}

// ReflectionField names one of the three reflection fields for the
// field-level upsert operations.
type ReflectionField string

const (
	FieldMood        ReflectionField = "mood"
	FieldGratitude   ReflectionField = "gratitude"
	FieldImprovement ReflectionField = "improvement"
)

// IsValid checks if the reflection field name is valid
func (f ReflectionField) IsValid() bool {
	switch f {
	case FieldMood, FieldGratitude, FieldImprovement:
		return true
	}
	return false
}

// Set writes the named field on the reflection.
func (r *DailyReflection) Set(field ReflectionField, value string) {
	switch field {
	case FieldMood:
		r.Mood = value
	case FieldGratitude:
		r.Gratitude = value
	case FieldImprovement:
		r.Improvement = value
	}
}

// JournalEntry is the archival snapshot of one completed week. Every
// field except Notes is immutable after creation; the reflection map
// additionally accepts retroactive field edits via the engine.
type JournalEntry struct {
	ID           string                     `json:"id"`
	Date         string                     `json:"date"` // the date the week ended, dd.mm.yy
	ArchivedDate string                     `json:"archivedDate"`
	WeekLabel    string                     `json:"weekLabel"` // e.g. "KW 42"
	Tasks        []Task                     `json:"tasks"`
	Reflections  map[string]DailyReflection `json:"reflections"` // keyed by ISO date
	Notes        string                     `json:"notes"`
}

// Clone returns a deep copy of the journal entry.
func (e JournalEntry) Clone() JournalEntry {
	c := e
	c.Tasks = CloneTasks(e.Tasks)
	c.Reflections = CloneReflections(e.Reflections)
	return c
}

// CloneTasks deep-copies a task slice. A nil input yields an empty,
// non-nil slice so archived collections marshal as [] rather than null.
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Clone())
	}
	return out
}

// CloneReflections deep-copies a reflection map, never returning nil.
func CloneReflections(refs map[string]DailyReflection) map[string]DailyReflection {
	out := make(map[string]DailyReflection, len(refs))
	for k, v := range refs {
		out[k] = v
	}
	return out
}

// Intention holds the four free-text intention horizons. Singleton,
// always present, updated field by field.
type Intention struct {
	Day   string `json:"day"`
	Week  string `json:"week"`
	Month string `json:"month"`
	Year  string `json:"year"`
}

// IntentionKey names one of the intention horizons.
type IntentionKey string

const (
	IntentionDay   IntentionKey = "day"
	IntentionWeek  IntentionKey = "week"
	IntentionMonth IntentionKey = "month"
	IntentionYear  IntentionKey = "year"
)

// IsValid checks if the intention key is valid
func (k IntentionKey) IsValid() bool {
	switch k {
	case IntentionDay, IntentionWeek, IntentionMonth, IntentionYear:
		return true
	}
	return false
}

// Goals holds the two long-term goal texts. Singleton, always present.
type Goals struct {
	Monthly string `json:"monthly"`
	Yearly  string `json:"yearly"`
}

// GoalsKey names one of the goal horizons.
type GoalsKey string

const (
	GoalsMonthly GoalsKey = "monthly"
	GoalsYearly  GoalsKey = "yearly"
)

// IsValid checks if the goals key is valid
func (k GoalsKey) IsValid() bool {
	return k == GoalsMonthly || k == GoalsYearly
}
