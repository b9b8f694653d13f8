package scheduler

import (
	"time"

	"github.com/belphemur/week-routine/weekmask"
	"github.com/robfig/cron/v3"
)

// DaySchedule fires at midnight on every day set in a week mask
type DaySchedule struct {
	Days weekmask.WeekMask
}

var _ cron.Schedule = DaySchedule{}

// Next returns the first matching midnight strictly after t, in t's location.
// A blank mask never fires and yields the zero time.
func (s DaySchedule) Next(t time.Time) time.Time {
	y, m, d := t.Date()
	tomorrow := time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
	next, ok := s.Days.NextDate(tomorrow)
	if !ok {
		return time.Time{}
	}
	return next
}
