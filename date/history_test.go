package date

import (
	"slices"
	"testing"
)

func TestSet(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	// Setting two values in reverse order, checking the order at every step of the way.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Set(d1, v1)
	if h.Len() != 1 {
		t.Errorf("Set(d1, v1).Len() = %v want 1", h.Len())
	}

	h.Set(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Set(d2, v2).Len() = %v want 2", h.Len())
	}

	if on, v := h.First(); on != d2 || v != v2 {
		t.Errorf("First() = %v, %v want %v, %v", on, v, d2, v2)
	}
	if on, v := h.Latest(); on != d1 || v != v1 {
		t.Errorf("Latest() = %v, %v want %v, %v", on, v, d1, v1)
	}

	h.Set(d1, "replaced")
	if got, _ := h.Get(d1); got != "replaced" || h.Len() != 2 {
		t.Errorf("Set(d1) twice: Get(d1) = %v, Len() = %d want replaced, 2", got, h.Len())
	}
}

func TestValueAsOf(t *testing.T) {
	h := new(History[float64])
	h.Set(MustParse("2025-01-02"), 10).Set(MustParse("2025-01-06"), 12)

	testCases := []struct {
		on     string
		want   float64
		wantOk bool
	}{
		{on: "2025-01-01", want: 0, wantOk: false},
		{on: "2025-01-02", want: 10, wantOk: true},
		{on: "2025-01-04", want: 10, wantOk: true},
		{on: "2025-01-06", want: 12, wantOk: true},
		{on: "2025-02-01", want: 12, wantOk: true},
	}
	for _, tc := range testCases {
		t.Run(tc.on, func(t *testing.T) {
			got, ok := h.ValueAsOf(MustParse(tc.on))
			if got != tc.want || ok != tc.wantOk {
				t.Errorf("ValueAsOf(%s) = %v, %v want %v, %v", tc.on, got, ok, tc.want, tc.wantOk)
			}
		})
	}
}

func TestUnion(t *testing.T) {
	a := []Date{MustParse("2025-01-03"), MustParse("2025-01-01")}
	b := []Date{MustParse("2025-01-02"), MustParse("2025-01-03")}
	got := Union(a, b)
	want := []Date{MustParse("2025-01-01"), MustParse("2025-01-02"), MustParse("2025-01-03")}
	if !slices.Equal(got, want) {
		t.Errorf("Union() = %v, want %v", got, want)
	}
}
