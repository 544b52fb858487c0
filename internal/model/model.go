package model

import "time"

// Date layouts used throughout the pipeline. Dates are carried as
// canonical YYYY-MM-DD strings; the compact form is the iCalendar
// DATE value representation.
const (
	DateLayout        = "2006-01-02"
	CompactDateLayout = "20060102"
)

// Origin records which source produced an event. The merge step uses
// it as a tie-breaker: upstream entries win over supplementary ones.
type Origin string

const (
	OriginUpstream      Origin = "upstream"
	OriginSupplementary Origin = "supplementary"
)

// Category classifies supplementary observances.
type Category string

const (
	CategoryWestern      Category = "western"
	CategoryInternet     Category = "internet"
	CategoryProfessional Category = "professional"
	CategoryTraditional  Category = "traditional"
)

// CalendarEvent is the normalized unit flowing through the pipeline.
//
// Before the split step an event may span multiple days: EndDate is the
// exclusive upper bound of the span (feed convention). After splitting,
// EndDate is always empty and every event occupies exactly one day.
type CalendarEvent struct {
	// ID is unique within one merge output. Split multi-day events carry
	// the parent id plus a zero-based day index.
	ID    string
	Title string

	// Date is a canonical YYYY-MM-DD string.
	Date string
	// EndDate, when present, means "spans through EndDate, exclusive".
	EndDate string

	Description string

	IsDayOff        bool
	IsMakeupWorkday bool

	Category Category
	Origin   Origin

	// RecurrenceRule holds the raw RRULE value captured by the parser.
	// Recurrence expansion consumes it before splitting; it never
	// survives into merge output.
	RecurrenceRule string
}

// ParseDate parses a canonical YYYY-MM-DD date string into a UTC time.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders t as a canonical YYYY-MM-DD date string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Year extracts the calendar year of a canonical date string. It
// returns 0 for malformed input.
func Year(date string) int {
	t, err := ParseDate(date)
	if err != nil {
		return 0
	}
	return t.Year()
}
