package folio

import (
	"context"
	"errors"
	"math"
	"slices"
	"sync"

	"github.com/etnz/folio/date"
)

// memStore is an in-memory TradeStore and PriceStore.
type memStore struct {
	mu     sync.Mutex
	trades []Trade
	prices []Quote
	lastID int64

	failInsert error // returned by InsertTrade when set
}

func (m *memStore) ListTrades(_ context.Context, user string, f TradeFilter) ([]Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []Trade
	for _, t := range m.trades {
		if t.User != user || (f.Ticker != "" && t.Ticker != f.Ticker) || (!f.Until.IsZero() && t.Date.After(f.Until)) {
			continue
		}
		res = append(res, t)
	}
	slices.SortStableFunc(res, func(a, b Trade) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return int(a.ID - b.ID)
	})
	return res, nil
}

func (m *memStore) currentQuantity(user, ticker string) float64 {
	q := 0.0
	for _, t := range m.trades {
		if t.User == user && t.Ticker == ticker {
			q += t.Signed()
		}
	}
	return q
}

func (m *memStore) CurrentQuantity(_ context.Context, user, ticker string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentQuantity(user, ticker), nil
}

func (m *memStore) Positions(_ context.Context, user string) (map[string]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var mine []Trade
	for _, t := range m.trades {
		if t.User == user {
			mine = append(mine, t)
		}
	}
	return SignedQuantities(mine), nil
}

func (m *memStore) LastTradeID(_ context.Context, user string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var id int64
	for _, t := range m.trades {
		if t.User == user {
			id = max(id, t.ID)
		}
	}
	return id, nil
}

func (m *memStore) Tickers(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var tickers []string
	for _, t := range m.trades {
		if !slices.Contains(tickers, t.Ticker) {
			tickers = append(tickers, t.Ticker)
		}
	}
	slices.Sort(tickers)
	return tickers, nil
}

// WithinTx holds the store lock for the whole transaction.
func (m *memStore) WithinTx(ctx context.Context, _, _ string, fn func(TradeTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(memTx{m})
}

type memTx struct{ m *memStore }

func (tx memTx) CurrentQuantity(_ context.Context, user, ticker string) (float64, error) {
	return tx.m.currentQuantity(user, ticker), nil
}

func (tx memTx) InsertTrade(_ context.Context, t *Trade) error {
	if tx.m.failInsert != nil {
		return tx.m.failInsert
	}
	tx.m.lastID++
	t.ID = tx.m.lastID
	tx.m.trades = append(tx.m.trades, *t)
	return nil
}

func (m *memStore) Latest(_ context.Context, tickers []string, asOf date.Date) (map[string]Quote, error) {
	res := make(map[string]Quote)
	for _, q := range m.prices {
		if !slices.Contains(tickers, q.Ticker) || q.Date.After(asOf) {
			continue
		}
		if cur, ok := res[q.Ticker]; !ok || q.Date.After(cur.Date) {
			res[q.Ticker] = q
		}
	}
	return res, nil
}

func (m *memStore) Closes(_ context.Context, tickers []string, r date.Range) ([]Quote, error) {
	var res []Quote
	for _, q := range m.prices {
		if slices.Contains(tickers, q.Ticker) && r.Contains(q.Date) {
			res = append(res, q)
		}
	}
	slices.SortFunc(res, func(a, b Quote) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		if a.Ticker < b.Ticker {
			return -1
		}
		if a.Ticker > b.Ticker {
			return 1
		}
		return 0
	})
	return res, nil
}

func (m *memStore) MaxDate(_ context.Context, tickers []string) (date.Date, error) {
	var on date.Date
	for _, q := range m.prices {
		if slices.Contains(tickers, q.Ticker) {
			on = date.Max(on, q.Date)
		}
	}
	return on, nil
}

// addCloses stores consecutive daily closes of ticker starting on from.
func (m *memStore) addCloses(ticker, from string, closes ...float64) {
	on := date.MustParse(from)
	for i, c := range closes {
		m.prices = append(m.prices, Quote{Ticker: ticker, Date: on.Add(i), Close: c})
	}
}

// fakeQuoter is a live provider serving fixed closes.
type fakeQuoter struct {
	closes map[string][]Quote
	err    error
	calls  int
}

func (f *fakeQuoter) Closes(_ context.Context, ticker string, r date.Range) ([]Quote, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var res []Quote
	for _, q := range f.closes[ticker] {
		if r.Contains(q.Date) {
			res = append(res, q)
		}
	}
	return res, nil
}

// mapCache is a Cache that never evicts.
type mapCache struct {
	m    map[string]any
	hits int
}

func (c *mapCache) Get(key string) (any, bool) {
	v, ok := c.m[key]
	if ok {
		c.hits++
	}
	return v, ok
}

func (c *mapCache) Set(key string, v any) {
	if c.m == nil {
		c.m = make(map[string]any)
	}
	c.m[key] = v
}

var errBoom = errors.New("boom")

func trade(id int64, on, ticker string, side Side, qty, price, fee float64) Trade {
	return Trade{ID: id, User: "demo", Ticker: ticker, Date: date.MustParse(on), Side: side, Quantity: qty, Price: price, Fee: fee}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func nearSeries(got Series, want []float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if !near(got[i].Value, want[i]) {
			return false
		}
	}
	return true
}
