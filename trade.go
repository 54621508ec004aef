package folio

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/etnz/folio/date"
)

// MaxDecimals is the number of decimals stored for quantities, prices and fees.
const MaxDecimals = 8

// Side is the direction of a trade.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// ParseSide parses a side, case insensitive.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(s))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	default:
		return "", invalid("side", "%q is neither BUY nor SELL", s)
	}
}

// Sign returns +1 for a BUY and -1 for a SELL.
func (s Side) Sign() float64 {
	if s == Sell {
		return -1
	}
	return 1
}

// Trade is an executed trade. Once recorded it is never updated.
type Trade struct {
	ID       int64     `json:"id"`
	User     string    `json:"user"`
	Ticker   string    `json:"ticker"`
	Date     date.Date `json:"date"`
	Side     Side      `json:"side"`
	Quantity float64   `json:"quantity"`
	Price    float64   `json:"price"`
	Fee      float64   `json:"fee"`
}

// Signed returns the quantity, negative for a SELL.
func (t Trade) Signed() float64 { return t.Side.Sign() * t.Quantity }

// Amount returns quantity × price, fee excluded.
func (t Trade) Amount() float64 { return t.Quantity * t.Price }

// Order is a trade as submitted, before validation.
type Order struct {
	User     string  `json:"user"`
	Ticker   string  `json:"ticker"`
	Side     string  `json:"side"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Date     string  `json:"date"`
	Fee      float64 `json:"fee"`
}

// Validate checks the order and returns the trade to record, without an ID.
// User and ticker are trimmed, side is normalized to upper case.
func (o Order) Validate() (Trade, error) {
	t := Trade{
		User:     strings.TrimSpace(o.User),
		Ticker:   strings.TrimSpace(o.Ticker),
		Quantity: o.Quantity,
		Price:    o.Price,
		Fee:      o.Fee,
	}
	if t.User == "" {
		return Trade{}, invalid("user", "must not be empty")
	}
	if t.Ticker == "" {
		return Trade{}, invalid("ticker", "must not be empty")
	}
	side, err := ParseSide(o.Side)
	if err != nil {
		return Trade{}, err
	}
	t.Side = side
	if !(o.Quantity > 0) || math.IsInf(o.Quantity, 0) {
		return Trade{}, invalid("quantity", "%v must be a positive number", o.Quantity)
	}
	if !(o.Price > 0) || math.IsInf(o.Price, 0) {
		return Trade{}, invalid("price", "%v must be a positive number", o.Price)
	}
	if !(o.Fee >= 0) || math.IsInf(o.Fee, 0) {
		return Trade{}, invalid("fee", "%v must not be negative", o.Fee)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{{"quantity", o.Quantity}, {"price", o.Price}, {"fee", o.Fee}} {
		if tooPrecise(f.v) {
			return Trade{}, invalid(f.name, "%v has more than %d decimals", f.v, MaxDecimals)
		}
	}
	on, err := date.Parse(strings.TrimSpace(o.Date))
	if err != nil {
		return Trade{}, invalid("date", "%v", err)
	}
	t.Date = on
	return t, nil
}

// tooPrecise reports whether v, in its shortest decimal form, has more than MaxDecimals
// decimals. The store would round it.
func tooPrecise(v float64) bool {
	return decimal.NewFromFloat(v).Exponent() < -MaxDecimals
}
