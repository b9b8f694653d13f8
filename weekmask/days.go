package weekmask

import (
	"strings"
	"time"
)

// Week lists the seven days in canonical order, Sunday first, matching time.Weekday.
var Week = [7]time.Weekday{
	time.Sunday,
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
}

// dayNames holds the lowercase canonical names indexed by weekday.
var dayNames = [7]string{
	"sunday",
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
}

// DayName returns the lowercase canonical name of day, or "" if day is out of range.
func DayName(day time.Weekday) string {
	if !validDay(int(day)) {
		return ""
	}
	return dayNames[day]
}

// dayByName performs a case-insensitive exact match against the canonical names.
func dayByName(name string) (time.Weekday, bool) {
	for i, n := range dayNames {
		if strings.EqualFold(n, name) {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

func validDay(i int) bool {
	return i >= 0 && i < len(dayNames)
}

// Has reports whether day is part of the mask.
func (w WeekMask) Has(day time.Weekday) bool {
	return w.Get(day)
}

// SetDay includes or excludes day.
func (w *WeekMask) SetDay(day time.Weekday, v bool) *WeekMask {
	return w.SetBit(day, v)
}

// Is looks a day up by name. ok is false when name is not a day.
func (w WeekMask) Is(name string) (set bool, ok bool) {
	day, ok := dayByName(name)
	if !ok {
		return false, false
	}
	return w.Get(day), true
}
