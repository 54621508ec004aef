package folio

import (
	"context"

	"github.com/etnz/folio/date"
)

// TradeFilter narrows a trade listing. Zero fields do not filter.
type TradeFilter struct {
	Ticker string
	Until  date.Date
}

// TradeStore is the persisted ledger.
//
// Listings are ordered by (date, id) ascending.
type TradeStore interface {
	ListTrades(ctx context.Context, user string, f TradeFilter) ([]Trade, error)
	CurrentQuantity(ctx context.Context, user, ticker string) (float64, error)
	// Positions returns the signed quantity per ticker, closed positions excluded.
	Positions(ctx context.Context, user string) (map[string]float64, error)
	// LastTradeID returns the highest id recorded for user, 0 when there is none.
	LastTradeID(ctx context.Context, user string) (int64, error)
	// Tickers returns every ticker ever traded, by any user.
	Tickers(ctx context.Context) ([]string, error)
	// WithinTx runs fn in a single transaction, serialized with any other
	// transaction on the same (user, ticker).
	WithinTx(ctx context.Context, user, ticker string, fn func(TradeTx) error) error
}

// TradeTx is the part of the ledger reachable inside a transaction.
type TradeTx interface {
	CurrentQuantity(ctx context.Context, user, ticker string) (float64, error)
	// InsertTrade stores t and sets its ID.
	InsertTrade(ctx context.Context, t *Trade) error
}

// Quote is a daily close.
type Quote struct {
	Ticker string    `json:"ticker"`
	Date   date.Date `json:"date"`
	Close  float64   `json:"close"`
}

// PriceStore reads daily closes. Missing data is absent from the results, not an error.
type PriceStore interface {
	// Latest returns, per ticker, the last close on or before asOf.
	Latest(ctx context.Context, tickers []string, asOf date.Date) (map[string]Quote, error)
	// Closes returns the closes within r, ordered by date then ticker.
	Closes(ctx context.Context, tickers []string, r date.Range) ([]Quote, error)
	// MaxDate returns the latest date with a close for any of tickers, zero if none.
	MaxDate(ctx context.Context, tickers []string) (date.Date, error)
}

// PriceWriter is implemented by price stores fed by an ingestion job.
type PriceWriter interface {
	// UpsertPrices stores quotes, replacing any close already known for (ticker, date).
	UpsertPrices(ctx context.Context, quotes []Quote) (int, error)
}

// Quoter fetches daily closes from a live market data provider.
type Quoter interface {
	Closes(ctx context.Context, ticker string, r date.Range) ([]Quote, error)
}

// Cache holds immutable values by key.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, v any)
}
