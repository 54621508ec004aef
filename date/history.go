package date

import (
	"iter"
	"slices"
)

// History stores a chronological series of values, each associated with a specific date.
// Dates are unique and the series is always sorted.
type History[T any] struct {
	points []point[T]
}

type point[T any] struct {
	on Date
	v  T
}

// search returns the index of day, or where it would be inserted.
func (h *History[T]) search(day Date) (int, bool) {
	return slices.BinarySearchFunc(h.points, day, func(p point[T], d Date) int { return p.on.Compare(d) })
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int { return len(h.points) }

// Set records v on day, replacing any value already stored that day.
func (h *History[T]) Set(day Date, v T) *History[T] {
	i, found := h.search(day)
	if found {
		h.points[i].v = v
		return h
	}
	h.points = slices.Insert(h.points, i, point[T]{day, v})
	return h
}

// Get returns the value at 'day' and true or zero value and false.
func (h *History[T]) Get(day Date) (T, bool) {
	if i, found := h.search(day); found {
		return h.points[i].v, true
	}
	var zero T
	return zero, false
}

// ValueAsOf returns the value on a given day, or the most recent value before it.
// It returns the value and true if found, otherwise it returns the zero value and false.
func (h *History[T]) ValueAsOf(day Date) (T, bool) {
	i, found := h.search(day)
	if found {
		return h.points[i].v, true
	}
	if i == 0 {
		var zero T
		return zero, false
	}
	return h.points[i-1].v, true
}

// First returns the earliest date and value, or zero values if the history is empty.
func (h *History[T]) First() (Date, T) {
	if len(h.points) == 0 {
		var zero T
		return Date{}, zero
	}
	return h.points[0].on, h.points[0].v
}

// Latest returns the latest date and value in the history.
// If the history is empty, it returns zero value.
func (h *History[T]) Latest() (Date, T) {
	if len(h.points) == 0 {
		var zero T
		return Date{}, zero
	}
	p := h.points[len(h.points)-1]
	return p.on, p.v
}

// Values returns an iterator over all date/value pairs in the history, in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for _, p := range h.points {
			if !yield(p.on, p.v) {
				return
			}
		}
	}
}

// Union returns the sorted, de-duplicated dates of all the given date slices.
func Union(series ...[]Date) []Date {
	var all []Date
	for _, s := range series {
		all = append(all, s...)
	}
	slices.SortFunc(all, Date.Compare)
	return slices.Compact(all)
}
