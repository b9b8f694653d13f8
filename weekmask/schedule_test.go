package weekmask

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDate(t *testing.T) {
	monday := date(2013, 4, 1)

	t.Run("finds the next matching day", func(t *testing.T) {
		got, ok := New(8).NextDate(monday) // Wednesday
		require.True(t, ok)
		assert.Equal(t, date(2013, 4, 3), got)
	})

	t.Run("returns the starting day when it matches", func(t *testing.T) {
		got, ok := New(3).NextDate(monday) // Sunday, Monday
		require.True(t, ok)
		assert.True(t, got.Equal(monday))
	})

	t.Run("wraps into the following week", func(t *testing.T) {
		got, ok := New(1).NextDate(monday) // Sunday
		require.True(t, ok)
		assert.Equal(t, date(2013, 4, 7), got)
	})

	t.Run("drops the time of day", func(t *testing.T) {
		got, ok := New(8).NextDate(time.Date(2013, 4, 1, 18, 30, 0, 0, time.UTC))
		require.True(t, ok)
		assert.Equal(t, date(2013, 4, 3), got)
	})

	t.Run("keeps the location of from", func(t *testing.T) {
		loc := time.FixedZone("UTC+2", 2*60*60)
		from := time.Date(2013, 4, 1, 1, 0, 0, 0, loc)
		got, ok := New(2).NextDate(from)
		require.True(t, ok)
		assert.Equal(t, loc, got.Location())
		assert.Equal(t, 1, got.Day())
	})

	t.Run("blank mask has no next date", func(t *testing.T) {
		_, ok := new(WeekMask).NextDate(monday)
		assert.False(t, ok)
		_, ok = new(WeekMask).NextDateFromToday()
		assert.False(t, ok)
	})

	t.Run("from today", func(t *testing.T) {
		today := truncateDay(time.Now())
		w := new(WeekMask).SetBit(time.Wednesday, true)
		offset := int(time.Wednesday) - int(today.Weekday())
		if offset < 0 {
			offset += 7
		}
		got, ok := w.NextDateFromToday()
		require.True(t, ok)
		assert.Equal(t, today.AddDate(0, 0, offset), got)
	})
}

func TestDatesIn(t *testing.T) {
	start := date(2013, 4, 1)
	end := start.AddDate(0, 0, 21)

	t.Run("closed range includes both ends", func(t *testing.T) {
		w := new(WeekMask).SetAt(start, true)
		dates := w.DatesIn(Closed(start, end))
		require.Len(t, dates, 4)
		assert.Equal(t, start, dates[0])
		assert.Equal(t, start.AddDate(0, 0, 7), dates[1])
		assert.Equal(t, start.AddDate(0, 0, 14), dates[2])
		assert.Equal(t, end, dates[3])
	})

	t.Run("half open range excludes the end", func(t *testing.T) {
		w := new(WeekMask).SetAt(start, true)
		dates := w.DatesIn(HalfOpen(start, end))
		require.Len(t, dates, 3)
		assert.Equal(t, start.AddDate(0, 0, 14), dates[2])
	})

	t.Run("multiple days in ascending order", func(t *testing.T) {
		dates := New(42).DatesIn(Closed(start, start.AddDate(0, 0, 6)))
		assert.Equal(t, []time.Time{date(2013, 4, 1), date(2013, 4, 3), date(2013, 4, 5)}, dates)
	})

	t.Run("blank mask yields nothing", func(t *testing.T) {
		dates := new(WeekMask).DatesIn(HalfOpen(start, end))
		assert.NotNil(t, dates)
		assert.Empty(t, dates)
	})

	t.Run("inverted range yields nothing", func(t *testing.T) {
		assert.Empty(t, New(MaxValue).DatesIn(Closed(end, start)))
	})

	t.Run("sequence is restartable", func(t *testing.T) {
		seq := New(MaxValue).Dates(Closed(start, start.AddDate(0, 0, 2)))
		var first, second []time.Time
		for d := range seq {
			first = append(first, d)
		}
		for d := range seq {
			second = append(second, d)
		}
		assert.Len(t, first, 3)
		assert.Equal(t, first, second)
	})

	t.Run("early break stops iteration", func(t *testing.T) {
		count := 0
		for range New(MaxValue).Dates(Closed(start, end)) {
			count++
			if count == 2 {
				break
			}
		}
		assert.Equal(t, 2, count)
	})
}

func TestDateRange_Contains(t *testing.T) {
	r := Closed(date(2024, 1, 1), date(2024, 1, 3))
	assert.True(t, r.Contains(date(2024, 1, 1)))
	assert.True(t, r.Contains(time.Date(2024, 1, 3, 23, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(date(2024, 1, 4)))
	assert.False(t, r.Contains(date(2023, 12, 31)))
	assert.False(t, HalfOpen(date(2024, 1, 1), date(2024, 1, 3)).Contains(date(2024, 1, 3)))
}
