package folio

import (
	"maps"
	"testing"
)

func TestReplayTrades(t *testing.T) {
	trades := []Trade{
		trade(1, "2025-01-10", "ABB.ST", Buy, 10, 200, 0),
		trade(2, "2025-01-12", "ABB.ST", Sell, 4, 220, 0),
		trade(3, "2025-01-15", "ABB.ST", Buy, 6, 210, 0),
	}

	testCases := []struct {
		name         string
		n            int // number of trades replayed
		wantQty      float64
		wantAvg      float64
		wantRealized float64
	}{
		{name: "first buy", n: 1, wantQty: 10, wantAvg: 200, wantRealized: 0},
		{name: "sell keeps average cost", n: 2, wantQty: 6, wantAvg: 200, wantRealized: 80},
		{name: "second buy blends", n: 3, wantQty: 12, wantAvg: 205, wantRealized: 80},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := ReplayTrades(trades[:tc.n])
			if got := r.Quantity("ABB.ST"); !near(got, tc.wantQty) {
				t.Errorf("Quantity() = %v, want %v", got, tc.wantQty)
			}
			if got, ok := r.AvgCost("ABB.ST"); !ok || !near(got, tc.wantAvg) {
				t.Errorf("AvgCost() = %v, %v want %v, true", got, ok, tc.wantAvg)
			}
			if got := r.Realized(); !near(got, tc.wantRealized) {
				t.Errorf("Realized() = %v, want %v", got, tc.wantRealized)
			}
		})
	}
}

func TestReplayTrades_FeeOnBuyOnly(t *testing.T) {
	r := ReplayTrades([]Trade{
		trade(1, "2025-01-10", "ERIC-B.ST", Buy, 10, 100, 10),
		trade(2, "2025-01-11", "ERIC-B.ST", Sell, 5, 120, 10),
	})
	// (10×100 + 10) / 10 = 101; the sell fee does not touch the cost basis nor the gain.
	if got, _ := r.AvgCost("ERIC-B.ST"); !near(got, 101) {
		t.Errorf("AvgCost() = %v, want 101", got)
	}
	if got := r.Realized(); !near(got, 95) {
		t.Errorf("Realized() = %v, want 95", got)
	}
}

func TestReplayTrades_Order(t *testing.T) {
	// Same day trades replay by id, whatever the input order.
	r := ReplayTrades([]Trade{
		trade(2, "2025-01-10", "SAND.ST", Sell, 5, 150, 0),
		trade(1, "2025-01-10", "SAND.ST", Buy, 5, 100, 0),
	})
	if got := r.Realized(); !near(got, 250) {
		t.Errorf("Realized() = %v, want 250", got)
	}
	if _, ok := r.AvgCost("SAND.ST"); ok {
		t.Errorf("AvgCost() of a closed position should be absent")
	}
}

func TestReplayTrades_ClampsOverSell(t *testing.T) {
	r := ReplayTrades([]Trade{
		trade(1, "2025-01-10", "HM-B.ST", Buy, 3, 100, 0),
		trade(2, "2025-01-11", "HM-B.ST", Sell, 5, 110, 0),
		trade(3, "2025-01-12", "HM-B.ST", Sell, 1, 110, 0),
	})
	if got := r.Quantity("HM-B.ST"); got != 0 {
		t.Errorf("Quantity() = %v, want 0", got)
	}
	if got := r.Realized(); !near(got, 30) {
		t.Errorf("Realized() = %v, want 30 (sell clamped to 3, then nothing to sell)", got)
	}
}

func TestReplayTrades_MatchesSignedSum(t *testing.T) {
	trades := []Trade{
		trade(1, "2025-01-10", "A", Buy, 10, 10, 1),
		trade(2, "2025-01-11", "B", Buy, 3, 50, 0),
		trade(3, "2025-01-12", "A", Sell, 2.5, 12, 0),
		trade(4, "2025-01-13", "B", Sell, 3, 40, 0),
		trade(5, "2025-01-14", "A", Buy, 0.5, 11, 0),
	}
	r := ReplayTrades(trades)
	signed := SignedQuantities(trades)
	want := map[string]float64{"A": 8}
	if !maps.Equal(signed, want) {
		t.Errorf("SignedQuantities() = %v, want %v", signed, want)
	}
	for _, h := range r.Holdings() {
		if !near(h.Quantity, signed[h.Ticker]) {
			t.Errorf("replayed quantity of %s = %v, want %v", h.Ticker, h.Quantity, signed[h.Ticker])
		}
	}
}

func TestCashBalance(t *testing.T) {
	trades := []Trade{
		trade(1, "2025-01-10", "ABB.ST", Buy, 10, 200, 5),
		trade(2, "2025-01-12", "ABB.ST", Sell, 4, 220, 5),
	}
	want := 1_000_000 - 2000 + 880 - 10.0
	for range 2 {
		if got := CashBalance(DefaultStartCash, trades); !near(got, want) {
			t.Errorf("CashBalance() = %v, want %v", got, want)
		}
	}
	if got := CashBalance(500, nil); got != 500 {
		t.Errorf("CashBalance(no trades) = %v, want 500", got)
	}
}
