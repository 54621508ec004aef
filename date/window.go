package date

import (
	"fmt"
	"strings"
	"time"
)

// Window is a lookback period ending on an anchor date.
type Window int

const (
	OneDay Window = iota
	OneWeek
	ThreeMonths
	SixMonths
	YearToDate
	OneYear
	All
)

// Windows lists every window in display order.
var Windows = []Window{OneDay, OneWeek, ThreeMonths, SixMonths, YearToDate, OneYear, All}

func (w Window) String() string {
	switch w {
	case OneDay:
		return "1d"
	case OneWeek:
		return "1w"
	case ThreeMonths:
		return "3m"
	case SixMonths:
		return "6m"
	case YearToDate:
		return "ytd"
	case OneYear:
		return "1y"
	case All:
		return "all"
	default:
		panic(fmt.Sprintf("unknown window %d", w))
	}
}

// ParseWindow parses a window name, case insensitive.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1d":
		return OneDay, nil
	case "1w":
		return OneWeek, nil
	case "3m":
		return ThreeMonths, nil
	case "6m":
		return SixMonths, nil
	case "ytd":
		return YearToDate, nil
	case "1y":
		return OneYear, nil
	case "all", "":
		return All, nil
	default:
		return All, fmt.Errorf("unknown window %q want one of 1d, 1w, 3m, 6m, ytd, 1y, all", s)
	}
}

// Range returns the range covered by the window when it ends on anchor.
// All returns a range open on the left.
func (w Window) Range(anchor Date) Range {
	switch w {
	case OneDay:
		return Range{From: anchor.Add(-1), To: anchor}
	case OneWeek:
		return Range{From: anchor.Add(-7), To: anchor}
	case ThreeMonths:
		return Range{From: anchor.Add(-90), To: anchor}
	case SixMonths:
		return Range{From: anchor.Add(-180), To: anchor}
	case YearToDate:
		return Range{From: New(anchor.Year(), time.January, 1), To: anchor}
	case OneYear:
		return Range{From: anchor.Add(-365), To: anchor}
	default:
		return Range{To: anchor}
	}
}
