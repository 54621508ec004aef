package store

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
)

// TradeRecord is a row of the trades table.
type TradeRecord struct {
	ID       int64           `gorm:"primaryKey;autoIncrement"`
	UserID   string          `gorm:"type:varchar(128);not null;index:idx_trades_user_ticker,priority:1"`
	Ticker   string          `gorm:"type:varchar(32);not null;index:idx_trades_user_ticker,priority:2"`
	TS       date.Date       `gorm:"column:ts;type:date;not null"`
	Side     string          `gorm:"type:varchar(4);not null"`
	// scale 8 is folio.MaxDecimals
	Quantity decimal.Decimal `gorm:"type:numeric(24,8);not null"`
	Price    decimal.Decimal `gorm:"type:numeric(24,8);not null"`
	Fee      decimal.Decimal `gorm:"type:numeric(24,8);not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (TradeRecord) TableName() string {
	return "trades"
}

func newTradeRecord(t folio.Trade) TradeRecord {
	return TradeRecord{
		UserID:   t.User,
		Ticker:   t.Ticker,
		TS:       t.Date,
		Side:     string(t.Side),
		Quantity: decimal.NewFromFloat(t.Quantity),
		Price:    decimal.NewFromFloat(t.Price),
		Fee:      decimal.NewFromFloat(t.Fee),
	}
}

func (r TradeRecord) trade() folio.Trade {
	return folio.Trade{
		ID:       r.ID,
		User:     r.UserID,
		Ticker:   r.Ticker,
		Date:     r.TS,
		Side:     folio.Side(r.Side),
		Quantity: r.Quantity.InexactFloat64(),
		Price:    r.Price.InexactFloat64(),
		Fee:      r.Fee.InexactFloat64(),
	}
}

// PriceRecord is a row of the prices table: at most one close per (ticker, ts).
type PriceRecord struct {
	Ticker string          `gorm:"primaryKey;type:varchar(32)"`
	TS     date.Date       `gorm:"primaryKey;column:ts;type:date"`
	Close  decimal.Decimal `gorm:"type:numeric(24,8);not null"`
}

func (PriceRecord) TableName() string {
	return "prices"
}

func (r PriceRecord) quote() folio.Quote {
	return folio.Quote{Ticker: r.Ticker, Date: r.TS, Close: r.Close.InexactFloat64()}
}
