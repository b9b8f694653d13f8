// Package weekmask provides WeekMask, a compact value type describing which days of
// the week a recurring event happens on.
//
// Bit i of the mask stands for time.Weekday(i), so Sunday is bit 0 and Saturday is
// bit 6. Values are always kept inside [0, 127]: construction clamps, writes with an
// unknown day reference are ignored, and reads with an unknown reference report it
// explicitly instead of returning false.
package weekmask

import (
	"math/bits"
	"strconv"
	"strings"
	"time"
)

const (
	// MinValue is the value of a mask with no days set.
	MinValue = 0
	// MaxValue is the value of a mask with all seven days set.
	MaxValue = 1<<7 - 1
)

// WeekMask is a set of weekdays. The zero value has no days set.
type WeekMask struct {
	value uint8
}

// New returns a mask for raw, clamped into [MinValue, MaxValue].
func New(raw int) *WeekMask {
	return &WeekMask{value: clamp(raw)}
}

// Of returns a mask with exactly the resolvable refs set.
func Of(refs ...any) *WeekMask {
	return new(WeekMask).Set(refs...)
}

func clamp(raw int) uint8 {
	switch {
	case raw < MinValue:
		return MinValue
	case raw > MaxValue:
		return MaxValue
	default:
		return uint8(raw)
	}
}

// Int returns the raw bit value.
func (w WeekMask) Int() int {
	return int(w.value)
}

// Get reports whether the bit for day is set. Out-of-range days are never set.
func (w WeekMask) Get(day time.Weekday) bool {
	if !validDay(int(day)) {
		return false
	}
	return w.value&(1<<uint(day)) != 0
}

// SetBit sets or clears the bit for day. Setting an already set bit is a no-op.
func (w *WeekMask) SetBit(day time.Weekday, v bool) *WeekMask {
	if !validDay(int(day)) {
		return w
	}
	if v {
		w.value |= 1 << uint(day)
	} else {
		w.value &^= 1 << uint(day)
	}
	return w
}

func (w WeekMask) Blank() bool { return w.value == MinValue }
func (w WeekMask) Any() bool   { return !w.Blank() }
func (w WeekMask) All() bool   { return w.value == MaxValue }
func (w WeekMask) One() bool   { return w.Count() == 1 }
func (w WeekMask) Many() bool  { return w.Count() > 1 }

// Count returns the number of days set.
func (w WeekMask) Count() int {
	return bits.OnesCount8(w.value)
}

// Days returns the set days in canonical order.
func (w WeekMask) Days() []time.Weekday {
	days := make([]time.Weekday, 0, w.Count())
	for _, d := range Week {
		if w.Get(d) {
			days = append(days, d)
		}
	}
	return days
}

// DayNames returns the lowercase names of the set days in canonical order.
func (w WeekMask) DayNames() []string {
	names := make([]string, 0, w.Count())
	for _, d := range w.Days() {
		names = append(names, dayNames[d])
	}
	return names
}

// ToMap returns the state of every day. All seven days are present as keys;
// iterate Week for canonical order.
func (w WeekMask) ToMap() map[time.Weekday]bool {
	m := make(map[time.Weekday]bool, len(Week))
	for _, d := range Week {
		m[d] = w.Get(d)
	}
	return m
}

// Equal reports whether both masks hold the same days.
func (w WeekMask) Equal(other WeekMask) bool {
	return w.value == other.value
}

// EqualInt compares the mask against a raw value without clamping it.
func (w WeekMask) EqualInt(v int) bool {
	return int(w.value) == v
}

// String renders the value followed by the set day names, e.g. "42: Monday, Wednesday, Friday".
func (w WeekMask) String() string {
	prefix := strconv.Itoa(w.Int()) + ": "
	switch {
	case w.Blank():
		return prefix + "No days set"
	case w.All():
		return prefix + "All days set"
	}
	days := w.Days()
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()
	}
	return prefix + strings.Join(names, ", ")
}

// Duplicate returns an independent copy of w.
func (w *WeekMask) Duplicate() *WeekMask {
	c := *w
	return &c
}

// Set includes every resolvable ref. Other days are left untouched.
func (w *WeekMask) Set(refs ...any) *WeekMask {
	return w.apply(true, refs)
}

// Unset excludes every resolvable ref. Other days are left untouched.
func (w *WeekMask) Unset(refs ...any) *WeekMask {
	return w.apply(false, refs)
}

// SetExactly replaces the mask so that only the resolvable refs are set.
func (w *WeekMask) SetExactly(refs ...any) *WeekMask {
	w.value = MinValue
	return w.apply(true, refs)
}

// UnsetExactly replaces the mask so that every day except the resolvable refs is set.
func (w *WeekMask) UnsetExactly(refs ...any) *WeekMask {
	w.value = MaxValue
	return w.apply(false, refs)
}

// Clear removes every day.
func (w *WeekMask) Clear() *WeekMask {
	w.value = MinValue
	return w
}

// SetAll includes every day.
func (w *WeekMask) SetAll() *WeekMask {
	w.value = MaxValue
	return w
}

func (w *WeekMask) apply(v bool, refs []any) *WeekMask {
	for _, ref := range refs {
		w.SetAt(ref, v)
	}
	return w
}
