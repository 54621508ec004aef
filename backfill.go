package folio

import (
	"context"
	"errors"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/etnz/folio/date"
)

// Backfill downloads the daily closes of every traded ticker, plus extra ones such as the
// benchmark, over r and stores them. It returns the number of closes stored.
//
// A ticker that fails does not stop the others: the failures are joined in the error.
func Backfill(ctx context.Context, trades TradeStore, q Quoter, w PriceWriter, extra []string, r date.Range, log *zap.Logger) (int, error) {
	if log == nil {
		log = zap.NewNop()
	}
	tickers, err := trades.Tickers(ctx)
	if err != nil {
		return 0, storeErr("tickers", err)
	}
	for _, t := range extra {
		if t = strings.TrimSpace(t); t != "" {
			tickers = append(tickers, t)
		}
	}
	slices.Sort(tickers)
	tickers = slices.Compact(tickers)

	var errs []error
	stored := 0
	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		quotes, err := q.Closes(ctx, ticker, r)
		if err != nil {
			log.Warn("backfill fetch failed", zap.String("ticker", ticker), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if len(quotes) == 0 {
			log.Info("backfill: no data", zap.String("ticker", ticker), zap.Stringer("range", r))
			continue
		}
		n, err := w.UpsertPrices(ctx, quotes)
		if err != nil {
			errs = append(errs, storeErr("upsert prices", err))
			continue
		}
		log.Info("backfill", zap.String("ticker", ticker), zap.Int("closes", n))
		stored += n
	}
	return stored, errors.Join(errs...)
}
