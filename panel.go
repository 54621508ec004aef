package folio

import (
	"math"
	"slices"

	"github.com/etnz/folio/date"
)

// Panel is a dates × tickers matrix of closes. Missing values are NaN.
type Panel struct {
	Dates   []date.Date
	Tickers []string
	Values  [][]float64 // Values[i][j] is the close of Tickers[j] on Dates[i]
}

// NewPanel pivots quotes into a panel. Its date axis is the union of the quote dates and
// its columns the tickers with at least one quote, sorted.
func NewPanel(quotes []Quote) *Panel {
	p := new(Panel)
	dates := make([]date.Date, 0, len(quotes))
	for _, q := range quotes {
		dates = append(dates, q.Date)
		if !slices.Contains(p.Tickers, q.Ticker) {
			p.Tickers = append(p.Tickers, q.Ticker)
		}
	}
	slices.Sort(p.Tickers)
	p.Dates = date.Union(dates)

	p.Values = make([][]float64, len(p.Dates))
	for i := range p.Values {
		p.Values[i] = make([]float64, len(p.Tickers))
		for j := range p.Values[i] {
			p.Values[i][j] = math.NaN()
		}
	}
	for _, q := range quotes {
		i, _ := slices.BinarySearchFunc(p.Dates, q.Date, date.Date.Compare)
		j := slices.Index(p.Tickers, q.Ticker)
		p.Values[i][j] = q.Close
	}
	return p
}

// Len returns the number of dates.
func (p *Panel) Len() int { return len(p.Dates) }

// Column returns the values of ticker, nil if it is not a column.
func (p *Panel) Column(ticker string) []float64 {
	j := slices.Index(p.Tickers, ticker)
	if j < 0 {
		return nil
	}
	col := make([]float64, len(p.Dates))
	for i := range p.Dates {
		col[i] = p.Values[i][j]
	}
	return col
}

// Interpolate fills the gaps of every column in place.
//
// Inner gaps are linearly interpolated by position, the dates being treated as equally
// spaced. Leading gaps take the first known value and trailing gaps the last one.
func (p *Panel) Interpolate() *Panel {
	for j := range p.Tickers {
		col := p.Column(p.Tickers[j])
		interpolate(col)
		for i := range p.Dates {
			p.Values[i][j] = col[i]
		}
	}
	return p
}

func interpolate(col []float64) {
	prev := -1 // index of the last known value
	for i, v := range col {
		if math.IsNaN(v) {
			continue
		}
		switch {
		case prev < 0:
			for k := 0; k < i; k++ {
				col[k] = v
			}
		case i-prev > 1:
			step := (v - col[prev]) / float64(i-prev)
			for k := prev + 1; k < i; k++ {
				col[k] = col[prev] + step*float64(k-prev)
			}
		}
		prev = i
	}
	if prev < 0 {
		return
	}
	for k := prev + 1; k < len(col); k++ {
		col[k] = col[prev]
	}
}

// QuantityPanel returns the quantity held of every panel ticker on every panel date: the
// signed sum of the trades dated on or before that day.
func QuantityPanel(p *Panel, trades []Trade) [][]float64 {
	ordered := slices.Clone(trades)
	slices.SortStableFunc(ordered, func(a, b Trade) int { return a.Date.Compare(b.Date) })

	qty := make([][]float64, len(p.Dates))
	held := make([]float64, len(p.Tickers))
	next := 0
	for i, on := range p.Dates {
		for ; next < len(ordered) && !ordered[next].Date.After(on); next++ {
			if j := slices.Index(p.Tickers, ordered[next].Ticker); j >= 0 {
				held[j] += ordered[next].Signed()
			}
		}
		qty[i] = slices.Clone(held)
	}
	return qty
}
