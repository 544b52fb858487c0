package feed

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	appLog "holidaycal/internal/log"
	"holidaycal/internal/model"
)

// maxOccurrencesPerEvent caps recurrence expansion; one occurrence per
// day of the window is more than any sane holiday rule produces.
const maxOccurrencesPerEvent = 366

// ExpandRecurrences replaces every event carrying a recurrence rule
// with its concrete occurrences inside the [startYear, endYear] window.
// Events without a rule pass through unchanged. A rule that cannot be
// parsed falls back to the literal event.
func ExpandRecurrences(events []model.CalendarEvent, startYear, endYear int) []model.CalendarEvent {
	windowStart := time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(endYear, time.December, 31, 0, 0, 0, 0, time.UTC)

	out := make([]model.CalendarEvent, 0, len(events))
	for _, ev := range events {
		if ev.RecurrenceRule == "" {
			out = append(out, ev)
			continue
		}
		out = append(out, expandEvent(ev, windowStart, windowEnd)...)
	}
	return out
}

func expandEvent(ev model.CalendarEvent, windowStart, windowEnd time.Time) []model.CalendarEvent {
	rule := ev.RecurrenceRule
	ev.RecurrenceRule = ""

	start, err := model.ParseDate(ev.Date)
	if err != nil {
		return []model.CalendarEvent{ev}
	}

	r, err := rrule.StrToRRule(rule)
	if err != nil {
		appLog.Error("unparseable recurrence rule, keeping literal event", err, "id", ev.ID, "rrule", rule)
		return []model.CalendarEvent{ev}
	}
	r.DTStart(start)

	occTimes := r.Between(windowStart, windowEnd, true)
	if len(occTimes) > maxOccurrencesPerEvent {
		occTimes = occTimes[:maxOccurrencesPerEvent]
		appLog.Error("recurrence expansion truncated", fmt.Errorf("max occurrences reached"), "id", ev.ID, "cap", maxOccurrencesPerEvent)
	}

	// Preserve the span length of multi-day events across occurrences.
	spanDays := 0
	if ev.EndDate != "" {
		if end, err := model.ParseDate(ev.EndDate); err == nil && end.After(start) {
			spanDays = int(end.Sub(start).Hours() / 24)
		}
	}

	out := make([]model.CalendarEvent, 0, len(occTimes))
	for i, occStart := range occTimes {
		occ := ev
		occ.ID = fmt.Sprintf("%s-r%d", ev.ID, i)
		occ.Date = model.FormatDate(occStart)
		if spanDays > 0 {
			occ.EndDate = model.FormatDate(occStart.AddDate(0, 0, spanDays))
		} else {
			occ.EndDate = ""
		}
		out = append(out, occ)
	}
	return out
}
