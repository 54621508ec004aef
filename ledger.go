package folio

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// overSellTolerance absorbs floating point drift in the held quantity.
const overSellTolerance = 1e-12

// Ledger records trades and answers quantity queries.
//
// The ledger is append-only: Record is the only write and it never touches existing trades.
type Ledger struct {
	store TradeStore
	log   *zap.Logger

	mu    sync.Mutex
	locks map[string]*keyLock // per user/ticker, serializes Record in this process
}

// keyLock is a mutex shared by the records waiting on the same key.
type keyLock struct {
	sync.Mutex
	refs int
}

// NewLedger creates a ledger on top of store. A nil logger discards logs.
func NewLedger(store TradeStore, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{store: store, log: log, locks: make(map[string]*keyLock)}
}

// lock acquires the user/ticker lock and returns its release. The entry is dropped when
// its last holder releases it.
func (l *Ledger) lock(user, ticker string) func() {
	key := user + "\x00" + ticker
	l.mu.Lock()
	k, ok := l.locks[key]
	if !ok {
		k = new(keyLock)
		l.locks[key] = k
	}
	k.refs++
	l.mu.Unlock()

	k.Lock()
	return func() {
		k.Unlock()
		l.mu.Lock()
		if k.refs--; k.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

// Record validates o and appends it to the ledger, returning the new trade id.
//
// A SELL of more than the quantity held fails with an *OverSellError. The held quantity is
// read in the same transaction as the insert, so two concurrent sells cannot both pass.
func (l *Ledger) Record(ctx context.Context, o Order) (int64, error) {
	t, err := o.Validate()
	if err != nil {
		l.log.Warn("trade rejected", zap.String("user", o.User), zap.String("ticker", o.Ticker), zap.Error(err))
		return 0, err
	}

	defer l.lock(t.User, t.Ticker)()

	err = l.store.WithinTx(ctx, t.User, t.Ticker, func(tx TradeTx) error {
		if t.Side == Sell {
			held, err := tx.CurrentQuantity(ctx, t.User, t.Ticker)
			if err != nil {
				return storeErr("current quantity", err)
			}
			if t.Quantity > held+overSellTolerance {
				return &OverSellError{User: t.User, Ticker: t.Ticker, Held: held, Requested: t.Quantity}
			}
		}
		return storeErr("insert trade", tx.InsertTrade(ctx, &t))
	})
	if err != nil {
		if !errors.Is(err, ErrOverSell) {
			err = storeErr("record", err)
		}
		l.log.Warn("trade rejected", zap.String("user", t.User), zap.String("ticker", t.Ticker), zap.Error(err))
		return 0, err
	}
	l.log.Info("trade recorded",
		zap.Int64("id", t.ID),
		zap.String("user", t.User),
		zap.String("ticker", t.Ticker),
		zap.String("side", string(t.Side)),
		zap.Float64("quantity", t.Quantity),
		zap.Float64("price", t.Price),
		zap.Stringer("date", t.Date),
	)
	return t.ID, nil
}

// CurrentQuantity returns the signed sum of the quantities traded by user on ticker, 0 if none.
func (l *Ledger) CurrentQuantity(ctx context.Context, user, ticker string) (float64, error) {
	q, err := l.store.CurrentQuantity(ctx, strings.TrimSpace(user), strings.TrimSpace(ticker))
	return q, storeErr("current quantity", err)
}

// ListTrades returns the trades of user, optionally limited to ticker, ordered by (date, id).
func (l *Ledger) ListTrades(ctx context.Context, user, ticker string) ([]Trade, error) {
	trades, err := l.store.ListTrades(ctx, strings.TrimSpace(user), TradeFilter{Ticker: strings.TrimSpace(ticker)})
	return trades, storeErr("list trades", err)
}

// Position is the quantity held of an instrument.
type Position struct {
	Ticker   string  `json:"ticker"`
	Quantity float64 `json:"quantity"`
}

// Positions returns the open positions of user, sorted by ticker.
func (l *Ledger) Positions(ctx context.Context, user string) ([]Position, error) {
	m, err := l.store.Positions(ctx, strings.TrimSpace(user))
	if err != nil {
		return nil, storeErr("positions", err)
	}
	return sortedPositions(m), nil
}

func sortedPositions(m map[string]float64) []Position {
	positions := make([]Position, 0, len(m))
	for _, ticker := range slices.Sorted(maps.Keys(m)) {
		if q := m[ticker]; q != 0 {
			positions = append(positions, Position{Ticker: ticker, Quantity: q})
		}
	}
	return positions
}
