package folio

import (
	"math"

	"github.com/etnz/folio/date"
)

// minTWRPoints is the shortest time-weighted series worth showing.
const minTWRPoints = 5

// Method tells how a performance series was computed.
type Method string

const (
	MethodTWR    Method = "twr"
	MethodStatic Method = "static"
	MethodNone   Method = "none"
)

// Point is one value of a series.
type Point struct {
	Date  date.Date `json:"date"`
	Value float64   `json:"value"`
}

// Series is a chronological list of points.
type Series []Point

// Last returns the last value, 0 for an empty series.
func (s Series) Last() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Value
}

// Dates returns the date axis of s.
func (s Series) Dates() []date.Date {
	dates := make([]date.Date, len(s))
	for i, p := range s {
		dates[i] = p.Date
	}
	return dates
}

// TWR computes the time-weighted return index of a portfolio.
//
// p must be gap free (see Interpolate) and qty aligned on it (see QuantityPanel). The
// return of day t is the sum of each instrument's simple return weighted by its holding
// value on t-1. The series starts at 100 on the day before the first day with a positive
// holding value, and compounds from there.
func TWR(p *Panel, qty [][]float64) Series {
	n := p.Len()
	if n < 2 {
		return nil
	}
	start := -1
	var index float64
	var s Series
	for t := 1; t < n; t++ {
		prev, cur := p.Values[t-1], p.Values[t]

		total := 0.0
		hold := make([]float64, len(p.Tickers))
		for j := range p.Tickers {
			hold[j] = finite(qty[t-1][j] * prev[j])
			total += hold[j]
		}
		if start < 0 {
			if !(total > 0) {
				continue
			}
			start = t
			index = 100
			s = append(s, Point{Date: p.Dates[t-1], Value: index})
		}

		ret := 0.0
		for j := range p.Tickers {
			w := 0.0
			if total != 0 {
				w = hold[j] / total
			}
			ret += finite(w * simpleReturn(prev[j], cur[j]))
		}
		index *= 1 + ret
		s = append(s, Point{Date: p.Dates[t], Value: index})
	}
	return s
}

// simpleReturn is cur/prev - 1, with infinite or undefined results counted as 0.
func simpleReturn(prev, cur float64) float64 { return finite(cur/prev - 1) }

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// StaticBasket values fixed quantities across the whole panel and normalizes the result.
func StaticBasket(p *Panel, quantities map[string]float64) Series {
	s := make(Series, 0, p.Len())
	for i, on := range p.Dates {
		v := 0.0
		for j, ticker := range p.Tickers {
			v += finite(quantities[ticker] * p.Values[i][j])
		}
		s = append(s, Point{Date: on, Value: v})
	}
	return Normalize(s)
}

// Normalize rescales s so that its first positive value is exactly 100. Earlier points
// are dropped. An all non-positive series normalizes to nil.
func Normalize(s Series) Series {
	for i, p := range s {
		if !(p.Value > 0) || math.IsInf(p.Value, 0) {
			continue
		}
		base := p.Value
		out := make(Series, 0, len(s)-i)
		for _, q := range s[i:] {
			out = append(out, Point{Date: q.Date, Value: q.Value / base * 100})
		}
		out[0].Value = 100
		return out
	}
	return nil
}

// Align forward fills quotes onto dates: each date takes the last close on or before it.
// Dates before the first close are skipped.
func Align(quotes []Quote, dates []date.Date) Series {
	h := new(date.History[float64])
	for _, q := range quotes {
		h.Set(q.Date, q.Close)
	}
	s := make(Series, 0, len(dates))
	for _, on := range dates {
		if v, ok := h.ValueAsOf(on); ok {
			s = append(s, Point{Date: on, Value: v})
		}
	}
	return s
}

// Portfolio computes the performance index of p, falling back to a static basket of
// current quantities when the time-weighted series is shorter than minTWRPoints.
func Portfolio(p *Panel, trades []Trade, current map[string]float64) (Series, Method) {
	if s := TWR(p, QuantityPanel(p, trades)); len(s) >= minTWRPoints {
		return s, MethodTWR
	}
	if s := StaticBasket(p, current); len(s) > 0 {
		return s, MethodStatic
	}
	return nil, MethodNone
}
