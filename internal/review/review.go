// Package review aggregates journal history into the year-in-review
// summary: completed task totals, category distribution, and the
// people who showed up most.
package review

import (
	"sort"

	"github.com/mindweek/mw/internal/state"
	"github.com/mindweek/mw/internal/types"
)

// PersonCount pairs a person's name with how many completed archived
// tasks they shared.
type PersonCount struct {
	Name  string
	Count int
}

// Summary is the aggregation over all archived weeks. Only completed
// tasks count; live (un-archived) tasks are excluded.
type Summary struct {
	WeeksDocumented int
	TotalCompleted  int
	CategoryCounts  map[types.Category]int
	TopPeople       []PersonCount // descending, at most five
}

// Summarize walks the journal and tallies the summary. A person id
// with no matching Person entry renders as "?" rather than being
// dropped, so the counts stay honest across deleted contacts.
func Summarize(st *state.AppState) Summary {
	s := Summary{
		WeeksDocumented: len(st.Journal),
		CategoryCounts:  map[types.Category]int{},
	}

	peopleCounts := map[string]int{}
	for _, entry := range st.Journal {
		for _, t := range entry.Tasks {
			if !t.Completed {
				continue
			}
			s.TotalCompleted++
			s.CategoryCounts[t.Category]++
			for _, pid := range t.PeopleIDs {
				peopleCounts[pid]++
			}
		}
	}

	names := map[string]string{}
	for _, p := range st.People {
		names[p.ID] = p.Name
	}

	for pid, count := range peopleCounts {
		name := names[pid]
		if name == "" {
			name = "?"
		}
		s.TopPeople = append(s.TopPeople, PersonCount{Name: name, Count: count})
	}
	sort.Slice(s.TopPeople, func(i, j int) bool {
		if s.TopPeople[i].Count != s.TopPeople[j].Count {
			return s.TopPeople[i].Count > s.TopPeople[j].Count
		}
		return s.TopPeople[i].Name < s.TopPeople[j].Name
	})
	if len(s.TopPeople) > 5 {
		s.TopPeople = s.TopPeople[:5]
	}

	return s
}
