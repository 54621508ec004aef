package folio

import (
	"maps"
	"slices"
)

// Holding is the replayed state of one instrument.
type Holding struct {
	Ticker   string
	Quantity float64
	AvgCost  float64
	Realized float64
}

// Replay is the result of replaying a trade history with the average-cost method.
type Replay struct {
	holdings map[string]*Holding
	realized float64
}

// ReplayTrades replays trades in (date, id) order, per ticker.
//
// A BUY blends its price and fee into the average cost. A SELL realizes
// (price - avg) × qty and leaves the average cost unchanged.
//
// A SELL larger than the replayed quantity is clamped to it. The ledger never records such
// a trade, but replay tolerates it in history written by other means.
func ReplayTrades(trades []Trade) *Replay {
	ordered := slices.Clone(trades)
	slices.SortStableFunc(ordered, compareTrades)

	r := &Replay{holdings: make(map[string]*Holding)}
	for _, t := range ordered {
		h, ok := r.holdings[t.Ticker]
		if !ok {
			h = &Holding{Ticker: t.Ticker}
			r.holdings[t.Ticker] = h
		}
		switch t.Side {
		case Buy:
			total := h.Quantity + t.Quantity
			if total > 0 {
				h.AvgCost = (h.Quantity*h.AvgCost + t.Quantity*t.Price + t.Fee) / total
			} else {
				h.AvgCost = 0
			}
			h.Quantity = total
		case Sell:
			q := min(t.Quantity, h.Quantity)
			if q <= 0 {
				continue
			}
			pnl := (t.Price - h.AvgCost) * q
			h.Realized += pnl
			r.realized += pnl
			h.Quantity -= q
		}
	}
	return r
}

// compareTrades orders trades by (ticker, date, id).
func compareTrades(a, b Trade) int {
	if a.Ticker != b.Ticker {
		if a.Ticker < b.Ticker {
			return -1
		}
		return 1
	}
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

// AvgCost returns the average cost of ticker, only when some quantity is still held.
func (r *Replay) AvgCost(ticker string) (float64, bool) {
	h, ok := r.holdings[ticker]
	if !ok || h.Quantity <= 0 {
		return 0, false
	}
	return h.AvgCost, true
}

// Quantity returns the replayed quantity of ticker.
func (r *Replay) Quantity(ticker string) float64 {
	if h, ok := r.holdings[ticker]; ok {
		return h.Quantity
	}
	return 0
}

// Realized returns the realized profit summed over all tickers.
func (r *Replay) Realized() float64 { return r.realized }

// Holdings returns the replayed state of every ticker traded, sorted by ticker.
func (r *Replay) Holdings() []Holding {
	hs := make([]Holding, 0, len(r.holdings))
	for _, ticker := range slices.Sorted(maps.Keys(r.holdings)) {
		hs = append(hs, *r.holdings[ticker])
	}
	return hs
}

// SignedQuantities returns the signed sum of quantities per ticker, zero sums excluded.
// It is what the ledger reports as positions.
func SignedQuantities(trades []Trade) map[string]float64 {
	m := make(map[string]float64)
	for _, t := range trades {
		m[t.Ticker] += t.Signed()
	}
	for ticker, q := range m {
		if q == 0 {
			delete(m, ticker)
		}
	}
	return m
}
