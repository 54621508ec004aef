package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
)

// recordTrade records an order, pricing it at the last close when price is 0.
func recordTrade(ctx context.Context, o folio.Order) subcommands.ExitStatus {
	a, ok := open()
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.close()
	o.User = a.cfg.App.User

	if o.Price == 0 {
		on, err := date.Parse(o.Date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
		q, found := a.service.LastClose(ctx, o.Ticker, on)
		if !found {
			fmt.Fprintf(os.Stderr, "Error: no close known for %s on %s, use -p to set the price\n", o.Ticker, on)
			return subcommands.ExitFailure
		}
		o.Price = q.Close
		fmt.Printf("Using the close of %s on %s: %g\n", q.Ticker, q.Date, q.Close)
	}

	id, err := a.ledger.Record(ctx, o)
	var over *folio.OverSellError
	switch {
	case folio.IsValidation(err):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	case errors.As(err, &over):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error recording trade: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded trade #%d: %s %g %s @ %g\n", id, o.Side, o.Quantity, o.Ticker, o.Price)
	return subcommands.ExitSuccess
}

// --- Buy Command ---

type buyCmd struct {
	date     string
	ticker   string
	quantity float64
	price    float64
	fee      float64
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy shares to open or add to a position" }
func (*buyCmd) Usage() string {
	return `pft buy -s <ticker> -q <quantity> [-p <price>] [-f <fee>] [-d <date>]

  Records a purchase. The cost and the fee are debited from the cash balance.
  Without -p the last known close is used.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Trade date (YYYY-MM-DD)")
	f.StringVar(&c.ticker, "s", "", "Security ticker, e.g. ABB.ST")
	f.Float64Var(&c.quantity, "q", 0, "Number of shares")
	f.Float64Var(&c.price, "p", 0, "Price per share, defaults to the last close")
	f.Float64Var(&c.fee, "f", 0, "Brokerage fee")
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.quantity <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return recordTrade(ctx, folio.Order{
		Ticker:   c.ticker,
		Side:     string(folio.Buy),
		Quantity: c.quantity,
		Price:    c.price,
		Fee:      c.fee,
		Date:     c.date,
	})
}

// --- Sell Command ---

type sellCmd struct {
	date     string
	ticker   string
	quantity float64
	price    float64
	fee      float64
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares to trim or close a position" }
func (*sellCmd) Usage() string {
	return `pft sell -s <ticker> -q <quantity> [-p <price>] [-f <fee>] [-d <date>]

  Records a sale. The proceeds are credited to the cash balance, the fee debited.
  Selling more than the quantity held is refused.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Trade date (YYYY-MM-DD)")
	f.StringVar(&c.ticker, "s", "", "Security ticker, e.g. ABB.ST")
	f.Float64Var(&c.quantity, "q", 0, "Number of shares")
	f.Float64Var(&c.price, "p", 0, "Price per share, defaults to the last close")
	f.Float64Var(&c.fee, "f", 0, "Brokerage fee")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.quantity <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return recordTrade(ctx, folio.Order{
		Ticker:   c.ticker,
		Side:     string(folio.Sell),
		Quantity: c.quantity,
		Price:    c.price,
		Fee:      c.fee,
		Date:     c.date,
	})
}
