package folio

import (
	"context"
	"errors"
	"fmt"

	"github.com/etnz/folio/date"
)

// Resolver looks up the close of one ticker as of a date.
//
// An absent price is (Quote{}, false, nil). An error means the strategy could not answer.
type Resolver interface {
	Resolve(ctx context.Context, ticker string, asOf date.Date) (Quote, bool, error)
}

// ResolverFunc adapts a function to a Resolver.
type ResolverFunc func(ctx context.Context, ticker string, asOf date.Date) (Quote, bool, error)

func (f ResolverFunc) Resolve(ctx context.Context, ticker string, asOf date.Date) (Quote, bool, error) {
	return f(ctx, ticker, asOf)
}

// FirstOf tries resolvers in order and returns the first price found.
//
// Failing strategies do not stop the chain. Their errors are only returned, joined, when
// no strategy found a price.
func FirstOf(resolvers ...Resolver) Resolver {
	return ResolverFunc(func(ctx context.Context, ticker string, asOf date.Date) (Quote, bool, error) {
		var errs []error
		for _, r := range resolvers {
			q, ok, err := r.Resolve(ctx, ticker, asOf)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if ok {
				return q, true, nil
			}
		}
		return Quote{}, false, errors.Join(errs...)
	})
}

// StoreAsOf resolves the last close on or before the date from the price store.
func StoreAsOf(ps PriceStore) Resolver {
	return ResolverFunc(func(ctx context.Context, ticker string, asOf date.Date) (Quote, bool, error) {
		quotes, err := ps.Latest(ctx, []string{ticker}, asOf)
		if err != nil {
			return Quote{}, false, storeErr("latest price", err)
		}
		q, ok := quotes[ticker]
		return q, ok, nil
	})
}

// LiveWindow resolves the last close a live provider reports within the given number of
// days before the date.
func LiveWindow(q Quoter, days int) Resolver {
	return ResolverFunc(func(ctx context.Context, ticker string, asOf date.Date) (Quote, bool, error) {
		closes, err := q.Closes(ctx, ticker, date.Range{From: asOf.Add(-days), To: asOf})
		if err != nil {
			return Quote{}, false, fmt.Errorf("live close of %s: %w", ticker, err)
		}
		for i := len(closes) - 1; i >= 0; i-- {
			if c := closes[i]; c.Close > 0 && !c.Date.After(asOf) {
				return c, true, nil
			}
		}
		return Quote{}, false, nil
	})
}
