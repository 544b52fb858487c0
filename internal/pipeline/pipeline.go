// Package pipeline composes fetch, parse, merge and filter into the
// single calendar-computation entry point shared by the feed-download
// and display boundaries.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"holidaycal/internal/feed"
	"holidaycal/internal/model"
)

// Service runs the calendar pipeline. All state lives in the fetcher's
// cache; the computation itself is pure.
type Service struct {
	fetcher *feed.Fetcher
}

// New creates a pipeline Service on top of fetcher.
func New(fetcher *feed.Fetcher) *Service {
	return &Service{fetcher: fetcher}
}

// ComputeCalendar fetches and parses the upstream feed, merges it with
// the supplementary holiday catalog for the three-year window around
// the current year, and returns the deduplicated, date-sorted events
// filtered to that same window.
//
// Both boundaries call this one function, so for the same moment in
// time (modulo cache staleness) they observe identical event sets.
func (s *Service) ComputeCalendar(ctx context.Context, upstreamURL string) ([]model.CalendarEvent, error) {
	raw, err := s.fetcher.Fetch(ctx, upstreamURL)
	if err != nil {
		return nil, err
	}

	upstream, err := feed.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse upstream feed: %w", err)
	}

	year := time.Now().Year()
	merged := feed.Merge(upstream, year-1, year+1)
	return feed.FilterByYears(merged, []int{year - 1, year, year + 1}), nil
}
