package store

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
)

// signedQuantity is the SQL expression of a trade's quantity, negative for a SELL.
const signedQuantity = "CASE WHEN side = 'BUY' THEN quantity ELSE -quantity END"

// Store implements the trade and price ports of folio on a gorm database.
type Store struct {
	db *gorm.DB
}

// New returns a store on db. The caller owns db and closes it.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

var (
	_ folio.TradeStore  = (*Store)(nil)
	_ folio.PriceStore  = (*Store)(nil)
	_ folio.PriceWriter = (*Store)(nil)
)

// ListTrades returns the trades of user matching f, ordered by date then id.
func (s *Store) ListTrades(ctx context.Context, user string, f folio.TradeFilter) ([]folio.Trade, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", user)
	if f.Ticker != "" {
		query = query.Where("ticker = ?", f.Ticker)
	}
	if !f.Until.IsZero() {
		query = query.Where("ts <= ?", f.Until)
	}
	var rows []TradeRecord
	if err := query.Order("ts asc").Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	trades := make([]folio.Trade, len(rows))
	for i, r := range rows {
		trades[i] = r.trade()
	}
	return trades, nil
}

// CurrentQuantity returns the signed sum of the quantities of user in ticker.
func (s *Store) CurrentQuantity(ctx context.Context, user, ticker string) (float64, error) {
	return currentQuantity(s.db.WithContext(ctx), user, ticker)
}

func currentQuantity(db *gorm.DB, user, ticker string) (float64, error) {
	var q decimal.Decimal
	err := db.Model(&TradeRecord{}).
		Select("COALESCE(SUM("+signedQuantity+"), 0)").
		Where("user_id = ? AND ticker = ?", user, ticker).
		Row().Scan(&q)
	if err != nil {
		return 0, err
	}
	return q.InexactFloat64(), nil
}

// Positions returns the non zero quantity of user per ticker.
func (s *Store) Positions(ctx context.Context, user string) (map[string]float64, error) {
	var rows []struct {
		Ticker   string
		Quantity decimal.Decimal
	}
	err := s.db.WithContext(ctx).Model(&TradeRecord{}).
		Select("ticker, SUM("+signedQuantity+") AS quantity").
		Where("user_id = ?", user).
		Group("ticker").
		Having("SUM(" + signedQuantity + ") <> 0").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	positions := make(map[string]float64, len(rows))
	for _, r := range rows {
		positions[r.Ticker] = r.Quantity.InexactFloat64()
	}
	return positions, nil
}

// LastTradeID returns the highest trade id of user, 0 when there is none.
func (s *Store) LastTradeID(ctx context.Context, user string) (int64, error) {
	var id int64
	err := s.db.WithContext(ctx).Model(&TradeRecord{}).
		Select("COALESCE(MAX(id), 0)").
		Where("user_id = ?", user).
		Row().Scan(&id)
	return id, err
}

// Tickers returns every traded ticker, sorted.
func (s *Store) Tickers(ctx context.Context) ([]string, error) {
	var tickers []string
	err := s.db.WithContext(ctx).Model(&TradeRecord{}).Distinct("ticker").Order("ticker").Pluck("ticker", &tickers).Error
	return tickers, err
}

// WithinTx runs fn in a transaction. On postgres the transaction first takes an advisory
// lock on (user, ticker), released at commit or rollback.
func (s *Store) WithinTx(ctx context.Context, user, ticker string, fn func(folio.TradeTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", user+"/"+ticker).Error; err != nil {
				return err
			}
		}
		return fn(txStore{tx})
	})
}

type txStore struct{ tx *gorm.DB }

func (t txStore) CurrentQuantity(_ context.Context, user, ticker string) (float64, error) {
	return currentQuantity(t.tx, user, ticker)
}

func (t txStore) InsertTrade(_ context.Context, trade *folio.Trade) error {
	rec := newTradeRecord(*trade)
	if err := t.tx.Create(&rec).Error; err != nil {
		return err
	}
	trade.ID = rec.ID
	return nil
}

// Latest returns, per ticker, the last close on or before asOf. Tickers without one are absent.
func (s *Store) Latest(ctx context.Context, tickers []string, asOf date.Date) (map[string]folio.Quote, error) {
	if len(tickers) == 0 {
		return map[string]folio.Quote{}, nil
	}
	db := s.db.WithContext(ctx)
	last := db.Model(&PriceRecord{}).
		Select("ticker, MAX(ts) AS ts").
		Where("ticker IN ? AND ts <= ?", tickers, asOf).
		Group("ticker")
	var rows []PriceRecord
	err := db.Table("prices AS p").
		Select("p.ticker, p.ts, p.close").
		Joins("JOIN (?) AS m ON p.ticker = m.ticker AND p.ts = m.ts", last).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	quotes := make(map[string]folio.Quote, len(rows))
	for _, r := range rows {
		quotes[r.Ticker] = r.quote()
	}
	return quotes, nil
}

// Closes returns the closes of tickers within r, ordered by date then ticker.
func (s *Store) Closes(ctx context.Context, tickers []string, r date.Range) ([]folio.Quote, error) {
	if len(tickers) == 0 {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Where("ticker IN ? AND ts <= ?", tickers, r.To)
	if !r.From.IsZero() {
		query = query.Where("ts >= ?", r.From)
	}
	var rows []PriceRecord
	if err := query.Order("ts asc").Order("ticker asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	quotes := make([]folio.Quote, len(rows))
	for i, row := range rows {
		quotes[i] = row.quote()
	}
	return quotes, nil
}

// MaxDate returns the latest close date of any of tickers, zero when there is none.
func (s *Store) MaxDate(ctx context.Context, tickers []string) (date.Date, error) {
	var on date.Date
	if len(tickers) == 0 {
		return on, nil
	}
	err := s.db.WithContext(ctx).Model(&PriceRecord{}).
		Select("MAX(ts)").
		Where("ticker IN ?", tickers).
		Row().Scan(&on)
	return on, err
}

// UpsertPrices stores quotes, replacing the close of an existing (ticker, ts).
func (s *Store) UpsertPrices(ctx context.Context, quotes []folio.Quote) (int, error) {
	if len(quotes) == 0 {
		return 0, nil
	}
	rows := make([]PriceRecord, len(quotes))
	for i, q := range quotes {
		rows[i] = PriceRecord{Ticker: q.Ticker, TS: q.Date, Close: decimal.NewFromFloat(q.Close)}
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}, {Name: "ts"}},
		DoUpdates: clause.AssignmentColumns([]string{"close"}),
	}).CreateInBatches(rows, 500)
	return len(rows), res.Error
}
