package weekmask

import (
	"database/sql/driver"
	"errors"
	"strconv"
	"strings"
)

// Load converts a stored representation back into a mask. Integers and decimal
// strings are clamped into range; nil, unparsable strings, floats and any other
// type yield a blank mask. Load never fails.
func Load(input any) *WeekMask {
	switch v := input.(type) {
	case nil:
		return new(WeekMask)
	case string:
		return loadString(v)
	case []byte:
		return loadString(string(v))
	case int:
		return New(v)
	case int8:
		return New(int(v))
	case int16:
		return New(int(v))
	case int32:
		return New(int(v))
	case int64:
		return New(clampInt64(v))
	case uint:
		return New(clampUint64(uint64(v)))
	case uint8:
		return New(int(v))
	case uint16:
		return New(int(v))
	case uint32:
		return New(clampUint64(uint64(v)))
	case uint64:
		return New(clampUint64(v))
	default:
		return new(WeekMask)
	}
}

func loadString(s string) *WeekMask {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		// ParseInt reports range errors with the saturated value.
		if errors.Is(err, strconv.ErrRange) {
			return New(clampInt64(i))
		}
		return new(WeekMask)
	}
	return New(clampInt64(i))
}

func clampInt64(v int64) int {
	switch {
	case v < MinValue:
		return MinValue
	case v > MaxValue:
		return MaxValue
	default:
		return int(v)
	}
}

func clampUint64(v uint64) int {
	if v > MaxValue {
		return MaxValue
	}
	return int(v)
}

// Dump renders anything exposing Int() as its decimal value and everything else,
// including nil masks, as "0".
func Dump(input any) string {
	switch v := input.(type) {
	case *WeekMask:
		if v == nil {
			return "0"
		}
		return strconv.Itoa(v.Int())
	case interface{ Int() int }:
		return strconv.Itoa(v.Int())
	default:
		return "0"
	}
}

// Scan implements sql.Scanner using Load semantics, so a malformed column reads as a blank mask.
func (w *WeekMask) Scan(src any) error {
	*w = *Load(src)
	return nil
}

// Value implements driver.Valuer.
func (w WeekMask) Value() (driver.Value, error) {
	return int64(w.value), nil
}

// MarshalText emits the decimal value.
func (w WeekMask) MarshalText() ([]byte, error) {
	return []byte(Dump(w)), nil
}

// UnmarshalText accepts a decimal value or a comma separated list of day references
// such as "monday, wednesday,5". Unknown entries are ignored.
func (w *WeekMask) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if _, err := strconv.ParseInt(s, 10, 64); err == nil || s == "" {
		*w = *Load(s)
		return nil
	}
	w.Clear()
	for _, part := range strings.Split(s, ",") {
		w.SetAt(strings.TrimSpace(part), true)
	}
	return nil
}
