package folio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func order(side string, qty, price float64, on string) Order {
	return Order{User: "demo", Ticker: "ABB.ST", Side: side, Quantity: qty, Price: price, Date: on}
}

func TestLedger_Record(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(&memStore{}, nil)

	id1, err := l.Record(ctx, order("BUY", 10, 200, "2025-01-10"))
	if err != nil {
		t.Fatalf("Record(buy) unexpected error: %v", err)
	}
	id2, err := l.Record(ctx, order("sell", 4, 220, "2025-01-12"))
	if err != nil {
		t.Fatalf("Record(sell) unexpected error: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("Record() ids = %d, %d want increasing", id1, id2)
	}

	if got, err := l.CurrentQuantity(ctx, "demo", "ABB.ST"); err != nil || got != 6 {
		t.Errorf("CurrentQuantity() = %v, %v want 6", got, err)
	}
	if got, err := l.CurrentQuantity(ctx, "demo", "UNKNOWN"); err != nil || got != 0 {
		t.Errorf("CurrentQuantity(unknown) = %v, %v want 0", got, err)
	}

	trades, err := l.ListTrades(ctx, "demo", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(trades) != 2 || trades[0].ID != id1 || trades[1].Side != Sell {
		t.Errorf("ListTrades() = %+v, want the buy then the sell", trades)
	}
}

func TestLedger_RecordOverSell(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	l := NewLedger(store, nil)
	if _, err := l.Record(ctx, order("BUY", 10, 200, "2025-01-10")); err != nil {
		t.Fatal(err)
	}

	_, err := l.Record(ctx, order("SELL", 15, 220, "2025-01-12"))
	var ose *OverSellError
	if !errors.As(err, &ose) || !errors.Is(err, ErrOverSell) {
		t.Fatalf("Record(sell 15) error = %v, want an OverSellError", err)
	}
	if ose.Held != 10 || ose.Requested != 15 {
		t.Errorf("OverSellError = %+v, want held 10 requested 15", ose)
	}
	if got, _ := l.CurrentQuantity(ctx, "demo", "ABB.ST"); got != 10 {
		t.Errorf("CurrentQuantity() after oversell = %v, want 10", got)
	}
	if len(store.trades) != 1 {
		t.Errorf("ledger has %d trades after oversell, want 1", len(store.trades))
	}

	// Selling everything is fine, even with floating point drift.
	if _, err := l.Record(ctx, order("BUY", 0.1, 200, "2025-01-13")); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Record(ctx, order("BUY", 0.2, 200, "2025-01-13")); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Record(ctx, order("SELL", 10.3, 200, "2025-01-14")); err != nil {
		t.Errorf("Record(sell all) unexpected error: %v", err)
	}
}

func TestLedger_RecordValidation(t *testing.T) {
	store := &memStore{}
	l := NewLedger(store, nil)
	_, err := l.Record(context.Background(), order("SHORT", 1, 1, "2025-01-10"))
	if !IsValidation(err) {
		t.Errorf("Record(bad side) error = %v, want a validation error", err)
	}
	if len(store.trades) != 0 {
		t.Errorf("invalid trade was written")
	}
}

func TestLedger_RecordStoreError(t *testing.T) {
	l := NewLedger(&memStore{failInsert: errBoom}, nil)
	_, err := l.Record(context.Background(), order("BUY", 1, 1, "2025-01-10"))
	var se *StoreError
	if !errors.As(err, &se) || !errors.Is(err, errBoom) {
		t.Errorf("Record() error = %v, want a StoreError wrapping boom", err)
	}
}

func TestLedger_ConcurrentSells(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(&memStore{}, nil)
	if _, err := l.Record(ctx, order("BUY", 10, 100, "2025-01-10")); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Record(ctx, order("SELL", 3, 100, "2025-01-11")); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if accepted != 3 {
		t.Errorf("%d concurrent sells of 3 accepted out of 10 held, want 3", accepted)
	}
	if got, _ := l.CurrentQuantity(ctx, "demo", "ABB.ST"); got != 1 {
		t.Errorf("CurrentQuantity() = %v, want 1", got)
	}
	if n := len(l.locks); n != 0 {
		t.Errorf("%d locks left after all records returned, want 0", n)
	}
}

func TestLedger_LocksReleased(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(&memStore{}, nil)
	for _, ticker := range []string{"A", "B", "C"} {
		o := order("BUY", 1, 100, "2025-01-10")
		o.Ticker = ticker
		if _, err := l.Record(ctx, o); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := l.Record(ctx, order("SELL", 5, 100, "2025-01-11")); err == nil {
		t.Fatalf("Record(oversell) succeeded, want an error")
	}
	if n := len(l.locks); n != 0 {
		t.Errorf("len(locks) = %d, want 0", n)
	}

	release := l.lock("demo", "A")
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.lock("demo", "A")()
	}()
	select {
	case <-done:
		t.Fatalf("second lock acquired while the first is held")
	case <-time.After(50 * time.Millisecond):
	}
	release()
	<-done
	if n := len(l.locks); n != 0 {
		t.Errorf("len(locks) = %d after both releases, want 0", n)
	}
}

func TestLedger_Positions(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(&memStore{}, nil)
	for _, o := range []Order{
		{User: "demo", Ticker: "B", Side: "BUY", Quantity: 2, Price: 1, Date: "2025-01-10"},
		{User: "demo", Ticker: "A", Side: "BUY", Quantity: 1, Price: 1, Date: "2025-01-10"},
		{User: "demo", Ticker: "C", Side: "BUY", Quantity: 1, Price: 1, Date: "2025-01-10"},
		{User: "demo", Ticker: "C", Side: "SELL", Quantity: 1, Price: 1, Date: "2025-01-11"},
		{User: "other", Ticker: "D", Side: "BUY", Quantity: 1, Price: 1, Date: "2025-01-11"},
	} {
		if _, err := l.Record(ctx, o); err != nil {
			t.Fatal(err)
		}
	}
	got, err := l.Positions(ctx, "demo")
	if err != nil {
		t.Fatal(err)
	}
	want := []Position{{Ticker: "A", Quantity: 1}, {Ticker: "B", Quantity: 2}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Positions() = %v, want %v", got, want)
	}
}
