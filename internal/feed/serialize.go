package feed

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"holidaycal/internal/model"
)

// Serialize renders events into the wire calendar format, one block
// per event in input order; callers pass already-sorted input. Every
// block carries a generation timestamp taken once at call time.
func Serialize(events []model.CalendarEvent, calendarTitle string) []byte {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//holidaycal//holiday feed//CN")
	cal.SetXWRCalName(calendarTitle)

	now := time.Now().UTC()
	for _, ev := range events {
		id := ev.ID
		if id == "" {
			id = uuid.NewString()
		}

		ve := cal.AddEvent(id)
		ve.SetDtStampTime(now)
		ve.SetProperty(ical.ComponentPropertyDtStart, compactDate(ev.Date),
			&ical.KeyValues{Key: "VALUE", Value: []string{"DATE"}})
		if ev.EndDate != "" {
			ve.SetProperty(ical.ComponentPropertyDtEnd, compactDate(ev.EndDate),
				&ical.KeyValues{Key: "VALUE", Value: []string{"DATE"}})
		}
		ve.SetSummary(ev.Title, &ical.KeyValues{Key: "LANGUAGE", Value: []string{"zh-CN"}})
		if ev.Description != "" {
			ve.SetDescription(ev.Description)
		}
		ve.SetProperty(ical.ComponentProperty("CLASS"), "PUBLIC")
		ve.SetProperty(ical.ComponentProperty("TRANSP"), "TRANSPARENT")

		// Day-off takes precedence if both flags were somehow set.
		switch {
		case ev.IsDayOff:
			ve.SetProperty(ical.ComponentProperty(propDayType), dayTypeOff)
		case ev.IsMakeupWorkday:
			ve.SetProperty(ical.ComponentProperty(propDayType), dayTypeMakeup)
		}
	}

	return []byte(cal.Serialize())
}

func compactDate(date string) string {
	t, err := model.ParseDate(date)
	if err != nil {
		return strings.ReplaceAll(date, "-", "")
	}
	return t.Format(model.CompactDateLayout)
}
