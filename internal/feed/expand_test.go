package feed_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"holidaycal/internal/feed"
	"holidaycal/internal/model"
)

func TestExpandRecurrencesYearlyRule(t *testing.T) {
	events := []model.CalendarEvent{
		{ID: "ann", Title: "周年纪念", Date: "2024-05-01", RecurrenceRule: "FREQ=YEARLY"},
	}

	out := feed.ExpandRecurrences(events, 2024, 2026)
	require.Len(t, out, 3)

	wantDates := []string{"2024-05-01", "2025-05-01", "2026-05-01"}
	wantIDs := []string{"ann-r0", "ann-r1", "ann-r2"}
	for i, occ := range out {
		require.Equal(t, wantDates[i], occ.Date)
		require.Equal(t, wantIDs[i], occ.ID)
		require.Empty(t, occ.RecurrenceRule)
	}
}

func TestExpandRecurrencesPassthrough(t *testing.T) {
	events := []model.CalendarEvent{
		{ID: "plain", Title: "单次", Date: "2024-06-01"},
	}

	out := feed.ExpandRecurrences(events, 2024, 2026)
	require.Equal(t, events, out)
}

func TestExpandRecurrencesBadRuleKeepsLiteralEvent(t *testing.T) {
	events := []model.CalendarEvent{
		{ID: "bad", Title: "坏规则", Date: "2024-06-01", RecurrenceRule: "FREQ=NOPE"},
	}

	out := feed.ExpandRecurrences(events, 2024, 2026)
	require.Len(t, out, 1)
	require.Equal(t, "bad", out[0].ID)
	require.Equal(t, "2024-06-01", out[0].Date)
	require.Empty(t, out[0].RecurrenceRule)
}

func TestExpandRecurrencesPreservesSpan(t *testing.T) {
	events := []model.CalendarEvent{
		{ID: "span", Title: "连休", Date: "2024-10-01", EndDate: "2024-10-03", RecurrenceRule: "FREQ=YEARLY"},
	}

	out := feed.ExpandRecurrences(events, 2024, 2025)
	require.Len(t, out, 2)
	require.Equal(t, "2024-10-01", out[0].Date)
	require.Equal(t, "2024-10-03", out[0].EndDate)
	require.Equal(t, "2025-10-01", out[1].Date)
	require.Equal(t, "2025-10-03", out[1].EndDate)
}
