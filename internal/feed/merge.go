package feed

import (
	"fmt"
	"sort"

	"holidaycal/internal/holiday"
	"holidaycal/internal/model"
)

// Split turns a multi-day event into one event per covered day. The
// feed convention is a half-open range: an event with date=10 and
// endDate=13 covers days 10, 11 and 12. Events without an end date, or
// whose end date equals the start, come back unchanged apart from the
// end date being cleared. Each split day carries the parent id plus a
// zero-based day index.
func Split(ev model.CalendarEvent) []model.CalendarEvent {
	if ev.EndDate == "" || ev.EndDate == ev.Date {
		ev.EndDate = ""
		return []model.CalendarEvent{ev}
	}

	start, err := model.ParseDate(ev.Date)
	if err != nil {
		ev.EndDate = ""
		return []model.CalendarEvent{ev}
	}
	end, err := model.ParseDate(ev.EndDate)
	if err != nil || !end.After(start) {
		ev.EndDate = ""
		return []model.CalendarEvent{ev}
	}

	var out []model.CalendarEvent
	for i, d := 0, start; d.Before(end); i, d = i+1, d.AddDate(0, 0, 1) {
		day := ev
		day.ID = fmt.Sprintf("%s-%d", ev.ID, i)
		day.Date = model.FormatDate(d)
		day.EndDate = ""
		out = append(out, day)
	}
	return out
}

// eventMap is an insertion-ordered mapping keyed by (date, title).
// Overwriting an existing key keeps the entry's original position, so
// the merge tie-break is a visible two-phase build rather than an
// accident of map iteration.
type eventMap struct {
	index  map[string]int
	events []model.CalendarEvent
}

func newEventMap() *eventMap {
	return &eventMap{index: make(map[string]int)}
}

func (m *eventMap) put(ev model.CalendarEvent) {
	key := ev.Date + "\x00" + ev.Title
	if i, ok := m.index[key]; ok {
		m.events[i] = ev
		return
	}
	m.index[key] = len(m.events)
	m.events = append(m.events, ev)
}

// Merge combines split upstream events with the supplementary holiday
// catalog for [startYear, endYear], deduplicates by (date, title) and
// sorts ascending by date with stable tie order.
//
// Phase one inserts every supplementary record; phase two expands,
// splits and inserts every upstream event, overwriting same-key
// supplementary entries; the upstream feed is the more trusted
// source. Two distinct upstream events that happen to share a date and
// title also collide on this key; the last insertion wins, which is
// the documented behavior of the merge.
func Merge(upstream []model.CalendarEvent, startYear, endYear int) []model.CalendarEvent {
	m := newEventMap()

	for _, def := range holiday.AllForRange(startYear, endYear) {
		m.put(model.CalendarEvent{
			ID:          fmt.Sprintf("supp-%s-%s", def.Date, def.Name),
			Title:       def.Name,
			Date:        def.Date,
			Description: def.Description,
			Category:    def.Category,
			Origin:      model.OriginSupplementary,
		})
	}

	for _, ev := range ExpandRecurrences(upstream, startYear, endYear) {
		for _, day := range Split(ev) {
			day.Origin = model.OriginUpstream
			m.put(day)
		}
	}

	merged := m.events
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date < merged[j].Date
	})
	return merged
}

// FilterByYears retains only the events whose date falls in one of the
// given years.
func FilterByYears(events []model.CalendarEvent, years []int) []model.CalendarEvent {
	keep := make(map[int]struct{}, len(years))
	for _, y := range years {
		keep[y] = struct{}{}
	}

	out := make([]model.CalendarEvent, 0, len(events))
	for _, ev := range events {
		if _, ok := keep[model.Year(ev.Date)]; ok {
			out = append(out, ev)
		}
	}
	return out
}
