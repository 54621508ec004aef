package date

// Range represents a range of dates, boundaries included.
//
// A zero From means the range is open on the left.
type Range struct{ From, To Date }

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(d Date) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	return !d.After(r.To)
}

// Extend returns the range with From moved days earlier.
func (r Range) Extend(days int) Range {
	if r.From.IsZero() {
		return r
	}
	return Range{From: r.From.Add(-days), To: r.To}
}

// String returns a human readable representation of the range.
func (r Range) String() string {
	if r.From.IsZero() {
		return "..." + r.To.String()
	}
	return r.From.String() + "..." + r.To.String()
}
