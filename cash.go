package folio

// CashBalance returns start + Σ sells - Σ buys - Σ fees.
//
// Cash is never stored, it is always derived from the full trade history.
func CashBalance(start float64, trades []Trade) float64 {
	cash := start
	for _, t := range trades {
		switch t.Side {
		case Buy:
			cash -= t.Amount()
		case Sell:
			cash += t.Amount()
		}
		cash -= t.Fee
	}
	return cash
}
