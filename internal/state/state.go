// Package state holds the authoritative in-memory application state
// and the mutation operations that keep it consistent. All mutation is
// funneled through the Engine; no other component touches the
// collections directly.
package state

import (
	"encoding/json"

	"github.com/mindweek/mw/internal/types"
)

// AppState is the aggregate root: every collection and singleton the
// application owns, serialized as one blob. Exactly one instance
// exists per running session, owned by the Engine.
type AppState struct {
	Tasks            []types.Task                     `json:"tasks"`
	Journal          []types.JournalEntry             `json:"journal"` // most-recent-first
	People           []types.Person                   `json:"people"`
	Habits           []types.Habit                    `json:"habits"`
	Workouts         []types.Workout                  `json:"workouts"`
	Intention        types.Intention                  `json:"intention"`
	Goals            types.Goals                      `json:"goals"`
	DailyReflections map[string]types.DailyReflection `json:"dailyReflections"` // keyed by ISO date
}

// DefaultState returns the empty state applied when no persisted data
// exists or the blob is unreadable.
func DefaultState() *AppState {
	return &AppState{
		Tasks:            []types.Task{},
		Journal:          []types.JournalEntry{},
		People:           []types.Person{},
		Habits:           []types.Habit{},
		Workouts:         []types.Workout{},
		DailyReflections: map[string]types.DailyReflection{},
	}
}

// DecodeState parses a persisted blob with per-field fallback: each
// top-level field is validated independently and replaced by its
// default when missing or of the wrong shape, so one malformed field
// never invalidates the rest of the user's data. A blob that does not
// parse as a JSON object at all yields the full default state.
// DecodeState never fails.
func DecodeState(data []byte) *AppState {
	st := DefaultState()

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return st
	}

	decodeField(raw, "tasks", &st.Tasks)
	decodeField(raw, "journal", &st.Journal)
	decodeField(raw, "people", &st.People)
	decodeField(raw, "habits", &st.Habits)
	decodeField(raw, "workouts", &st.Workouts)
	decodeField(raw, "intention", &st.Intention)
	decodeField(raw, "goals", &st.Goals)
	decodeField(raw, "dailyReflections", &st.DailyReflections)

	st.normalize()
	return st
}

// decodeField unmarshals one top-level field into dst, leaving dst
// untouched (the default) on absence or shape mismatch.
func decodeField(raw map[string]json.RawMessage, key string, dst interface{}) {
	msg, ok := raw[key]
	if !ok {
		return
	}
	if err := json.Unmarshal(msg, dst); err != nil {
		// A partial decode may have written into dst before the
		// shape mismatch surfaced; restore the default.
		resetField(dst)
	}
}

// resetField restores a field to its default after a failed decode.
func resetField(dst interface{}) {
	switch v := dst.(type) {
	case *[]types.Task:
		*v = []types.Task{}
	case *[]types.JournalEntry:
		*v = []types.JournalEntry{}
	case *[]types.Person:
		*v = []types.Person{}
	case *[]types.Habit:
		*v = []types.Habit{}
	case *[]types.Workout:
		*v = []types.Workout{}
	case *types.Intention:
		*v = types.Intention{}
	case *types.Goals:
		*v = types.Goals{}
	case *map[string]types.DailyReflection:
		*v = map[string]types.DailyReflection{}
	}
}

// normalize repairs nil sub-collections so every slice and map in the
// state marshals as [] / {} and is safe to append to. Workouts saved
// by older clients may lack scheduledDays entirely.
func (s *AppState) normalize() {
	if s.Tasks == nil {
		s.Tasks = []types.Task{}
	}
	if s.Journal == nil {
		s.Journal = []types.JournalEntry{}
	}
	if s.People == nil {
		s.People = []types.Person{}
	}
	if s.Habits == nil {
		s.Habits = []types.Habit{}
	}
	if s.Workouts == nil {
		s.Workouts = []types.Workout{}
	}
	if s.DailyReflections == nil {
		s.DailyReflections = map[string]types.DailyReflection{}
	}
	for i := range s.Tasks {
		if s.Tasks[i].PeopleIDs == nil {
			s.Tasks[i].PeopleIDs = []string{}
		}
	}
	for i := range s.Workouts {
		if s.Workouts[i].ScheduledDays == nil {
			s.Workouts[i].ScheduledDays = []int{}
		}
	}
	for i := range s.Journal {
		if s.Journal[i].Tasks == nil {
			s.Journal[i].Tasks = []types.Task{}
		}
		if s.Journal[i].Reflections == nil {
			s.Journal[i].Reflections = map[string]types.DailyReflection{}
		}
	}
}

// Encode serializes the state to the persisted blob format.
func (s *AppState) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// Clone returns a deep copy of the whole state.
func (s *AppState) Clone() *AppState {
	c := &AppState{
		Tasks:            types.CloneTasks(s.Tasks),
		Journal:          make([]types.JournalEntry, 0, len(s.Journal)),
		People:           append([]types.Person{}, s.People...),
		Habits:           append([]types.Habit{}, s.Habits...),
		Workouts:         make([]types.Workout, 0, len(s.Workouts)),
		Intention:        s.Intention,
		Goals:            s.Goals,
		DailyReflections: types.CloneReflections(s.DailyReflections),
	}
	for _, e := range s.Journal {
		c.Journal = append(c.Journal, e.Clone())
	}
	for _, w := range s.Workouts {
		w.ScheduledDays = append([]int{}, w.ScheduledDays...)
		c.Workouts = append(c.Workouts, w)
	}
	return c
}
