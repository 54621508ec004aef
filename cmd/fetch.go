package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
)

type fetchCmd struct {
	days int
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetches daily closes from the market data provider" }
func (*fetchCmd) Usage() string {
	return `pft fetch [-days <n>]

Fetches the daily closes of every ticker ever traded, and of the benchmark,
over the last days and stores them. A close already stored for the same
ticker and date is replaced.

The number of days defaults to fetch.lookback_days from the configuration.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 0, "Number of days to fetch, overrides fetch.lookback_days.")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, ok := open()
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.close()

	days := c.days
	if days <= 0 {
		days = a.cfg.Fetch.LookbackDays
	}
	n, err := a.backfill(ctx, days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: some closes could not be fetched:\n%v\n", err)
		if n == 0 {
			return subcommands.ExitFailure
		}
	}
	fmt.Printf("Stored %d closes.\n", n)
	return subcommands.ExitSuccess
}

// backfill fetches the closes of the last days into the price store.
func (a *app) backfill(ctx context.Context, days int) (int, error) {
	today := date.Today()
	r := date.Range{From: today.Add(-days), To: today}
	return folio.Backfill(ctx, a.store, a.live, a.store, []string{a.cfg.Benchmark.Ticker}, r, a.log.Named("fetch"))
}
