package feed_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"holidaycal/internal/feed"
	"holidaycal/internal/model"
)

func TestSplitMultiDayEvent(t *testing.T) {
	ev := model.CalendarEvent{
		ID:       "natl",
		Title:    "国庆节",
		Date:     "2024-10-01",
		EndDate:  "2024-10-04",
		IsDayOff: true,
	}

	days := feed.Split(ev)
	require.Len(t, days, 3)

	wantDates := []string{"2024-10-01", "2024-10-02", "2024-10-03"}
	wantIDs := []string{"natl-0", "natl-1", "natl-2"}
	for i, day := range days {
		require.Equal(t, wantDates[i], day.Date)
		require.Equal(t, wantIDs[i], day.ID)
		require.Empty(t, day.EndDate)
		require.True(t, day.IsDayOff)
		require.Equal(t, "国庆节", day.Title)
	}
}

func TestSplitSingleDayEvent(t *testing.T) {
	ev := model.CalendarEvent{ID: "v", Title: "情人节", Date: "2024-02-14"}

	out := feed.Split(ev)
	require.Len(t, out, 1)
	require.Equal(t, ev, out[0])
}

func TestSplitEndDateEqualsDate(t *testing.T) {
	ev := model.CalendarEvent{ID: "one", Title: "单日", Date: "2024-03-01", EndDate: "2024-03-01"}

	out := feed.Split(ev)
	require.Len(t, out, 1)
	require.Empty(t, out[0].EndDate)
	require.Equal(t, "one", out[0].ID)
	require.Equal(t, "2024-03-01", out[0].Date)
}

func TestMergeUpstreamWinsOnSameDateAndTitle(t *testing.T) {
	upstream := []model.CalendarEvent{
		{ID: "up-1", Title: "情人节", Date: "2024-02-14", IsDayOff: false},
	}

	merged := feed.Merge(upstream, 2024, 2024)

	var matches []model.CalendarEvent
	for _, ev := range merged {
		if ev.Date == "2024-02-14" && ev.Title == "情人节" {
			matches = append(matches, ev)
		}
	}
	require.Len(t, matches, 1)
	require.Equal(t, model.OriginUpstream, matches[0].Origin)
	require.Equal(t, "up-1", matches[0].ID)
}

func TestMergeKeepsDistinctSupplementary(t *testing.T) {
	merged := feed.Merge(nil, 2024, 2024)
	require.NotEmpty(t, merged)

	for _, ev := range merged {
		require.Equal(t, model.OriginSupplementary, ev.Origin)
		require.Empty(t, ev.EndDate)
		require.Equal(t, 2024, model.Year(ev.Date))
	}
}

func TestMergeSortedAscendingByDate(t *testing.T) {
	upstream := []model.CalendarEvent{
		{ID: "b", Title: "乙", Date: "2024-12-30"},
		{ID: "a", Title: "甲", Date: "2024-01-02"},
	}

	merged := feed.Merge(upstream, 2024, 2024)
	require.True(t, sort.SliceIsSorted(merged, func(i, j int) bool {
		return merged[i].Date < merged[j].Date
	}))
}

func TestMergeSplitsMultiDayUpstream(t *testing.T) {
	upstream := []model.CalendarEvent{
		{ID: "span", Title: "连休", Date: "2024-10-01", EndDate: "2024-10-03"},
	}

	merged := feed.Merge(upstream, 2024, 2024)

	var dates []string
	for _, ev := range merged {
		if ev.Title == "连休" {
			dates = append(dates, ev.Date)
			require.Empty(t, ev.EndDate)
		}
	}
	require.Equal(t, []string{"2024-10-01", "2024-10-02"}, dates)
}

func TestMergeIDsUnique(t *testing.T) {
	upstream := []model.CalendarEvent{
		{ID: "span", Title: "连休", Date: "2024-10-01", EndDate: "2024-10-05"},
		{ID: "solo", Title: "单日", Date: "2024-03-03"},
	}

	merged := feed.Merge(upstream, 2023, 2025)

	seen := make(map[string]bool, len(merged))
	for _, ev := range merged {
		require.False(t, seen[ev.ID], "duplicate id %s", ev.ID)
		seen[ev.ID] = true
	}
}

func TestFilterByYears(t *testing.T) {
	events := []model.CalendarEvent{
		{ID: "a", Date: "2023-05-01"},
		{ID: "b", Date: "2024-05-01"},
		{ID: "c", Date: "2025-05-01"},
	}

	out := feed.FilterByYears(events, []int{2024})
	require.Len(t, out, 1)
	require.Equal(t, "b", out[0].ID)
}
