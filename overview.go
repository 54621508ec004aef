package folio

import (
	"database/sql"
	"encoding/json"

	"github.com/etnz/folio/date"
)

// Row is one open position valued at the anchor date.
//
// Fields depending on a price or an average cost are absent (Valid == false) when the
// data is missing; the row is still reported.
type Row struct {
	Ticker      string
	Quantity    float64
	AvgCost     sql.NullFloat64
	LastClose   sql.NullFloat64
	PriceDate   date.Date // zero when LastClose is absent
	MarketValue sql.NullFloat64
	Invested    sql.NullFloat64
	Unrealized  sql.NullFloat64
	ReturnPct   sql.NullFloat64
}

// Overview is a point-in-time snapshot of a user's portfolio.
type Overview struct {
	User     string
	Anchor   date.Date
	Currency string
	Rows     []Row

	Cash        float64
	MarketValue float64 // rows without a price are excluded from the valuation totals
	Invested    float64
	Unrealized  float64
	ReturnPct   sql.NullFloat64
	Realized    float64
	TotalValue  float64 // Cash + MarketValue
}

// Missing returns the tickers whose close could not be found.
func (o *Overview) Missing() []string {
	var tickers []string
	for _, r := range o.Rows {
		if !r.LastClose.Valid {
			tickers = append(tickers, r.Ticker)
		}
	}
	return tickers
}

// buildRows values positions with quotes and the replayed average costs.
func buildRows(positions []Position, replay *Replay, quotes map[string]Quote) []Row {
	rows := make([]Row, 0, len(positions))
	for _, p := range positions {
		r := Row{Ticker: p.Ticker, Quantity: p.Quantity}
		if avg, ok := replay.AvgCost(p.Ticker); ok {
			r.AvgCost = valid(avg)
			r.Invested = valid(p.Quantity * avg)
		}
		if q, ok := quotes[p.Ticker]; ok {
			r.LastClose = valid(q.Close)
			r.PriceDate = q.Date
			r.MarketValue = valid(p.Quantity * q.Close)
		}
		if r.MarketValue.Valid && r.Invested.Valid {
			r.Unrealized = valid(r.MarketValue.Float64 - r.Invested.Float64)
			r.ReturnPct = percentOf(r.Unrealized.Float64, r.Invested.Float64)
		}
		rows = append(rows, r)
	}
	return rows
}

// totals aggregates the rows into o. Percentages are computed from the summed amounts.
func (o *Overview) totals() {
	o.MarketValue, o.Invested, o.Unrealized = 0, 0, 0
	for _, r := range o.Rows {
		if !r.MarketValue.Valid {
			continue
		}
		o.MarketValue += r.MarketValue.Float64
		if r.Invested.Valid {
			o.Invested += r.Invested.Float64
			o.Unrealized += r.Unrealized.Float64
		}
	}
	o.ReturnPct = percentOf(o.Unrealized, o.Invested)
	o.TotalValue = o.Cash + o.MarketValue
}

func valid(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }

// percentOf returns part/whole × 100, absent unless whole > 0.
func percentOf(part, whole float64) sql.NullFloat64 {
	if whole > 0 {
		return valid(part / whole * 100)
	}
	return sql.NullFloat64{}
}

func nullable(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	return &n.Float64
}

// MarshalJSON writes absent fields as null.
func (r Row) MarshalJSON() ([]byte, error) {
	var on *date.Date
	if !r.PriceDate.IsZero() {
		on = &r.PriceDate
	}
	return json.Marshal(struct {
		Ticker      string     `json:"ticker"`
		Quantity    float64    `json:"quantity"`
		AvgCost     *float64   `json:"avg_cost"`
		LastClose   *float64   `json:"last_close"`
		PriceDate   *date.Date `json:"price_date"`
		MarketValue *float64   `json:"market_value"`
		Invested    *float64   `json:"invested"`
		Unrealized  *float64   `json:"unrealized_pnl"`
		ReturnPct   *float64   `json:"return_pct"`
	}{r.Ticker, r.Quantity, nullable(r.AvgCost), nullable(r.LastClose), on,
		nullable(r.MarketValue), nullable(r.Invested), nullable(r.Unrealized), nullable(r.ReturnPct)})
}

// MarshalJSON writes absent fields as null.
func (o *Overview) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		User        string    `json:"user"`
		Anchor      date.Date `json:"anchor"`
		Currency    string    `json:"currency"`
		Rows        []Row     `json:"rows"`
		Cash        float64   `json:"cash"`
		MarketValue float64   `json:"market_value"`
		Invested    float64   `json:"invested"`
		Unrealized  float64   `json:"unrealized_pnl"`
		ReturnPct   *float64  `json:"return_pct"`
		Realized    float64   `json:"realized_pnl"`
		TotalValue  float64   `json:"total_value"`
	}{o.User, o.Anchor, o.Currency, o.Rows, o.Cash, o.MarketValue, o.Invested, o.Unrealized,
		nullable(o.ReturnPct), o.Realized, o.TotalValue})
}
