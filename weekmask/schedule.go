package weekmask

import (
	"iter"
	"slices"
	"time"
)

// DateRange is an interval of calendar days. End is included unless Exclusive is set.
type DateRange struct {
	Start     time.Time
	End       time.Time
	Exclusive bool
}

// Closed returns the range [start, end].
func Closed(start, end time.Time) DateRange {
	return DateRange{Start: start, End: end}
}

// HalfOpen returns the range [start, end).
func HalfOpen(start, end time.Time) DateRange {
	return DateRange{Start: start, End: end, Exclusive: true}
}

// Contains reports whether the calendar day of t lies within r.
func (r DateRange) Contains(t time.Time) bool {
	day := truncateDay(t)
	start, end := truncateDay(r.Start), truncateDay(r.End.In(r.Start.Location()))
	if day.Before(start) {
		return false
	}
	if r.Exclusive {
		return day.Before(end)
	}
	return !day.After(end)
}

// truncateDay returns midnight of t's calendar day in t's location.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// NextDate returns the first day on or after from that is part of the mask, as
// midnight in from's location. ok is false when the mask is blank.
func (w WeekMask) NextDate(from time.Time) (time.Time, bool) {
	if w.Blank() {
		return time.Time{}, false
	}
	day := truncateDay(from)
	for offset := 0; offset < len(Week); offset++ {
		candidate := day.AddDate(0, 0, offset)
		if w.Get(candidate.Weekday()) {
			return candidate, true
		}
	}
	return time.Time{}, false
}

// NextDateFromToday is NextDate starting from the current local day.
func (w WeekMask) NextDateFromToday() (time.Time, bool) {
	return w.NextDate(time.Now())
}

// Dates yields every day of r that is part of the mask, in ascending order.
// The sequence is recomputed on each iteration.
func (w WeekMask) Dates(r DateRange) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if w.Blank() {
			return
		}
		current, ok := w.NextDate(r.Start)
		for ok && r.Contains(current) {
			if !yield(current) {
				return
			}
			current, ok = w.NextDate(current.AddDate(0, 0, 1))
		}
	}
}

// DatesIn collects Dates into a slice. The result is empty, never nil, when the mask is blank.
func (w WeekMask) DatesIn(r DateRange) []time.Time {
	dates := slices.Collect(w.Dates(r))
	if dates == nil {
		return []time.Time{}
	}
	return dates
}
