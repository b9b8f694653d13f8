package weekmask

import (
	"reflect"
	"strconv"
	"time"
)

// Weekdayer is implemented by date-like values that know their day of the week.
// time.Time satisfies it.
type Weekdayer interface {
	Weekday() time.Weekday
}

// Resolve maps a day reference to a weekday. Accepted references are integer
// indexes in [0, 6] (including time.Weekday), numeric strings, case-insensitive day
// names and Weekdayer values. Anything else reports ok == false, including nil
// pointers; out-of-range indexes are rejected rather than clamped.
func Resolve(ref any) (day time.Weekday, ok bool) {
	switch v := ref.(type) {
	case Weekdayer:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return 0, false
		}
		return resolveIndex(int64(v.Weekday()))
	case time.Weekday:
		return resolveIndex(int64(v))
	case int:
		return resolveIndex(int64(v))
	case int8:
		return resolveIndex(int64(v))
	case int16:
		return resolveIndex(int64(v))
	case int32:
		return resolveIndex(int64(v))
	case int64:
		return resolveIndex(v)
	case uint:
		return resolveUnsigned(uint64(v))
	case uint8:
		return resolveUnsigned(uint64(v))
	case uint16:
		return resolveUnsigned(uint64(v))
	case uint32:
		return resolveUnsigned(uint64(v))
	case uint64:
		return resolveUnsigned(v)
	case string:
		return resolveString(v)
	case []byte:
		return resolveString(string(v))
	default:
		return 0, false
	}
}

func resolveIndex(i int64) (time.Weekday, bool) {
	if i < 0 || i > int64(time.Saturday) {
		return 0, false
	}
	return time.Weekday(i), true
}

func resolveUnsigned(u uint64) (time.Weekday, bool) {
	if u > uint64(time.Saturday) {
		return 0, false
	}
	return time.Weekday(u), true
}

func resolveString(s string) (time.Weekday, bool) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return resolveIndex(i)
	}
	return dayByName(s)
}

// At reads the day referenced by ref. ok is false when ref does not resolve to a
// day, which is distinct from a resolved day that is not set.
func (w WeekMask) At(ref any) (set bool, ok bool) {
	day, ok := Resolve(ref)
	if !ok {
		return false, false
	}
	return w.Get(day), true
}

// SetAt writes the day referenced by ref. Unresolvable references are ignored.
func (w *WeekMask) SetAt(ref any, v bool) *WeekMask {
	if day, ok := Resolve(ref); ok {
		w.SetBit(day, v)
	}
	return w
}
