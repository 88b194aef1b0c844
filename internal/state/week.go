package state

import (
	"fmt"
	"time"
)

// ISODate is the calendar-date format used for task dates and
// reflection keys.
const ISODate = "2006-01-02"

// archiveDateFormat is the short German date format stamped on
// journal entries (dd.mm.yy).
const archiveDateFormat = "02.01.06"

// WeekLabel returns the "KW {n}" label for the ISO-8601 week
// containing t. Week 1 is the week containing the year's first
// Thursday; weeks run Monday through Sunday.
func WeekLabel(t time.Time) string {
	_, week := t.ISOWeek()
	return fmt.Sprintf("KW %d", week)
}

// ArchiveDate formats t as the journal entry date string.
func ArchiveDate(t time.Time) string {
	return t.Format(archiveDateFormat)
}

// WeekDays returns the seven days of the Monday-first week containing
// t, in order.
func WeekDays(t time.Time) []time.Time {
	// time.Weekday has Sunday = 0; shift to Monday = 0.
	offset := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -offset)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}
	return days
}

// WeekdayName returns the German weekday name for a Monday-first
// weekday index, or "?" when the index is out of range.
func WeekdayName(idx int) string {
	names := []string{"Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag", "Sonntag"}
	if idx < 0 || idx >= len(names) {
		return "?"
	}
	return names[idx]
}
