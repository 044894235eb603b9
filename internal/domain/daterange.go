package domain

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// DateRange is a closed interval of calendar dates. Start <= End is the
// caller's responsibility.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Date returns midnight UTC for the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date.
func Today() time.Time {
	return TruncateToDate(time.Now())
}

// TruncateToDate drops the clock part of t, keeping its calendar day.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: TruncateToDate(start), End: TruncateToDate(end)}
}

// ParseDateRange parses two yyyy-mm-dd strings and rejects ranges that end
// before they start.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, ValidationError{Field: "start", Msg: "expected yyyy-mm-dd", Err: ErrInvalidDateRange}
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, ValidationError{Field: "end", Msg: "expected yyyy-mm-dd", Err: ErrInvalidDateRange}
	}
	if e.Before(s) {
		return DateRange{}, ValidationError{Field: "end", Msg: "end date must be >= start date", Err: ErrInvalidDateRange}
	}
	return NewDateRange(s, e), nil
}

// Overlaps reports whether either range's start lies inside the other's
// closed interval. Touching endpoints overlap and a range overlaps itself.
func (r DateRange) Overlaps(other DateRange) bool {
	return within(r.Start, other) || within(other.Start, r)
}

func within(t time.Time, r DateRange) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// DurationDays is the number of whole days between Start and End.
func (r DateRange) DurationDays() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// DurationYears is the number of complete years between Start and End.
func (r DateRange) DurationYears() int {
	years := r.End.Year() - r.Start.Year()
	if r.End.Month() < r.Start.Month() ||
		(r.End.Month() == r.Start.Month() && r.End.Day() < r.Start.Day()) {
		years--
	}
	return years
}

func (r DateRange) Equal(other DateRange) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format(DateLayout), r.End.Format(DateLayout))
}
