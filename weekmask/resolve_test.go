package weekmask

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeDate struct{ day time.Weekday }

func (f fakeDate) Weekday() time.Weekday { return f.day }

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		ref    any
		want   time.Weekday
		wantOK bool
	}{
		{"int zero", 0, time.Sunday, true},
		{"int six", 6, time.Saturday, true},
		{"int negative", -1, 0, false},
		{"int seven", 7, 0, false},
		{"int64", int64(3), time.Wednesday, true},
		{"uint8", uint8(5), time.Friday, true},
		{"uint out of range", uint(200), 0, false},
		{"weekday constant", time.Thursday, time.Thursday, true},
		{"numeric string", "5", time.Friday, true},
		{"numeric string out of range", "9", 0, false},
		{"negative numeric string", "-1", 0, false},
		{"lowercase name", "sunday", time.Sunday, true},
		{"uppercase name", "THURSDAY", time.Thursday, true},
		{"mixed case name", "MoNdAy", time.Monday, true},
		{"byte slice name", []byte("friday"), time.Friday, true},
		{"abbreviation is not a name", "mon", 0, false},
		{"nonsense string", "bacon", 0, false},
		{"empty string", "", 0, false},
		{"time value", time.Date(2013, 4, 3, 12, 0, 0, 0, time.UTC), time.Wednesday, true},
		{"weekday capability", fakeDate{time.Saturday}, time.Saturday, true},
		{"weekday capability out of range", fakeDate{time.Weekday(9)}, 0, false},
		{"nil time pointer", (*time.Time)(nil), 0, false},
		{"nil weekday capability pointer", (*fakeDate)(nil), 0, false},
		{"float", 3.0, 0, false},
		{"nil", nil, 0, false},
		{"struct", struct{}{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.ref)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestAt(t *testing.T) {
	w := New(42) // Monday, Wednesday, Friday

	t.Run("integers", func(t *testing.T) {
		for i, want := range []bool{false, true, false, true, false, true, false} {
			set, ok := w.At(i)
			assert.True(t, ok)
			assert.Equal(t, want, set, "index %d", i)
		}
	})

	t.Run("numeric strings", func(t *testing.T) {
		set, ok := w.At("3")
		assert.True(t, ok)
		assert.True(t, set)
		set, ok = w.At("4")
		assert.True(t, ok)
		assert.False(t, set)
	})

	t.Run("names in any case", func(t *testing.T) {
		set, ok := w.At("WeDnEsDaY")
		assert.True(t, ok)
		assert.True(t, set)
		set, ok = w.At("SATURday")
		assert.True(t, ok)
		assert.False(t, set)
	})

	t.Run("dates", func(t *testing.T) {
		wednesday := time.Date(2013, 4, 3, 0, 0, 0, 0, time.UTC)
		set, ok := w.At(wednesday)
		assert.True(t, ok)
		assert.True(t, set)
		set, ok = w.At(wednesday.AddDate(0, 0, 1))
		assert.True(t, ok)
		assert.False(t, set)
	})

	t.Run("unknown references are reported", func(t *testing.T) {
		for _, ref := range []any{-1, 7, "bacon", "monkey", "string", 1.5, nil} {
			set, ok := w.At(ref)
			assert.False(t, ok, "ref %v", ref)
			assert.False(t, set)
		}
	})
}

func TestSetAt(t *testing.T) {
	t.Run("nil pointers are ignored", func(t *testing.T) {
		var tp *time.Time
		w := New(42)
		assert.NotPanics(t, func() {
			w.SetAt(tp, true)
			w.Set(tp)
			w.Unset(tp)
			w.SetExactly(tp, 1)
		})
		assert.Equal(t, 2, w.Int())
		assert.NotPanics(t, func() { Of(tp) })

		set, ok := w.At(tp)
		assert.False(t, ok)
		assert.False(t, set)
	})

	t.Run("out of range weekday capability is unknown", func(t *testing.T) {
		w := New(MaxValue)
		set, ok := w.At(fakeDate{time.Weekday(-1)})
		assert.False(t, ok)
		assert.False(t, set)
		w.SetAt(fakeDate{time.Weekday(7)}, false)
		assert.Equal(t, MaxValue, w.Int())
	})

	t.Run("integers", func(t *testing.T) {
		w := new(WeekMask)
		w.SetAt(0, true)
		w.SetAt(0, true)
		assert.Equal(t, 1, w.Int())
		w.SetAt(6, true)
		assert.Equal(t, 65, w.Int())
	})

	t.Run("integer strings", func(t *testing.T) {
		w := new(WeekMask)
		w.SetAt("0", true)
		assert.Equal(t, 1, w.Int())
		w.SetAt("5", true)
		assert.Equal(t, 33, w.Int())
	})

	t.Run("names", func(t *testing.T) {
		w := new(WeekMask)
		w.SetAt("sunday", true)
		assert.Equal(t, 1, w.Int())
		w.SetAt("THURSDAY", true)
		assert.Equal(t, 17, w.Int())
		w.SetAt("MoNdAy", true)
		assert.Equal(t, 19, w.Int())
	})

	t.Run("time values", func(t *testing.T) {
		now := time.Now()
		w := new(WeekMask)
		w.SetAt(now, true)
		assert.Equal(t, 1<<uint(now.Weekday()), w.Int())

		copenhagen, err := time.LoadLocation("Europe/Copenhagen")
		if err == nil {
			zoned := now.In(copenhagen)
			w.Clear().SetAt(zoned, true)
			assert.Equal(t, 1<<uint(zoned.Weekday()), w.Int())
		}
	})

	t.Run("ignores out of range and unhandled references", func(t *testing.T) {
		w := new(WeekMask)
		for _, ref := range []any{-1, 7, "7", "-1", "foo", "string", 2.0, []int{1}} {
			w.SetAt(ref, true)
		}
		assert.Equal(t, 0, w.Int())
	})

	t.Run("clears bits", func(t *testing.T) {
		w := New(MaxValue)
		w.SetAt("monday", false)
		assert.Equal(t, MaxValue-2, w.Int())
	})
}
