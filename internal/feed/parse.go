// Package feed decodes, merges and re-encodes the wire calendar
// format (iCalendar) used by the upstream holiday feed.
package feed

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	appLog "holidaycal/internal/log"
	"holidaycal/internal/model"
)

// Day-type markers. Upstream summaries follow the 休/班 convention of
// public Chinese holiday feeds; the explicit property is what our own
// serializer emits so round-trips do not depend on title text.
const (
	propDayType   = "X-DAY-TYPE"
	dayTypeOff    = "DAYOFF"
	dayTypeMakeup = "MAKEUP"

	markerDayOff = "休"
	markerMakeup = "班"
)

// Parse decodes raw iCalendar content into normalized events tagged
// with the upstream origin. Blocks lacking a start date, or carrying
// one that cannot be normalized, are skipped; malformed upstream
// entries are tolerated rather than failing the whole feed.
func Parse(raw []byte) ([]model.CalendarEvent, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty feed body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	events := make([]model.CalendarEvent, 0, len(cal.Events()))
	for _, ve := range cal.Events() {
		ev, ok := parseVEvent(ve)
		if !ok {
			continue
		}
		events = append(events, ev)
	}

	appLog.Debug("feed parse completed", "event_count", len(events))
	return events, nil
}

func parseVEvent(ve *ical.VEvent) (model.CalendarEvent, bool) {
	var ev model.CalendarEvent

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil || dtStart.Value == "" {
		return ev, false
	}
	date, err := normalizeDate(dtStart.Value)
	if err != nil {
		appLog.Debug("skipping block with malformed start date", "value", dtStart.Value)
		return ev, false
	}
	ev.Date = date

	if p := ve.GetProperty(ical.ComponentPropertyDtEnd); p != nil && p.Value != "" {
		if end, err := normalizeDate(p.Value); err == nil {
			ev.EndDate = end
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil && p.Value != "" {
		ev.ID = p.Value
	} else {
		ev.ID = uuid.NewString()
	}

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		ev.Title = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		ev.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		ev.RecurrenceRule = p.Value
	}

	if p := ve.GetProperty(ical.ComponentProperty(propDayType)); p != nil {
		switch strings.ToUpper(strings.TrimSpace(p.Value)) {
		case dayTypeOff:
			ev.IsDayOff = true
		case dayTypeMakeup:
			ev.IsMakeupWorkday = true
		}
	}
	if strings.Contains(ev.Title, markerDayOff) {
		ev.IsDayOff = true
	}
	if strings.Contains(ev.Title, markerMakeup) {
		ev.IsMakeupWorkday = true
	}

	ev.Origin = model.OriginUpstream
	return ev, true
}

// normalizeDate accepts the feed's date representations (the 8-digit
// compact form, the compact date-time form, or an already canonical
// dashed date) and normalizes them to YYYY-MM-DD.
func normalizeDate(v string) (string, error) {
	v = strings.TrimSpace(v)
	if i := strings.IndexByte(v, 'T'); i >= 0 {
		v = v[:i]
	}

	switch len(v) {
	case len(model.CompactDateLayout):
		t, err := time.Parse(model.CompactDateLayout, v)
		if err != nil {
			return "", err
		}
		return model.FormatDate(t), nil
	case len(model.DateLayout):
		t, err := model.ParseDate(v)
		if err != nil {
			return "", err
		}
		return model.FormatDate(t), nil
	default:
		return "", fmt.Errorf("unrecognized date value %q", v)
	}
}
