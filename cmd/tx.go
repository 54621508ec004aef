package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/folio/renderer"
)

type tradesCmd struct {
	ticker string
	head   int
	tail   int
}

func (*tradesCmd) Name() string     { return "trades" }
func (*tradesCmd) Synopsis() string { return "list the trades in the ledger" }
func (*tradesCmd) Usage() string {
	return `pft trades [-s <ticker>] [-head <n>] [-tail <n>]

  Lists the trades of the user by date, with options for filtering and limiting the output.
`
}

func (c *tradesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "s", "", "Only list the trades of this ticker.")
	f.IntVar(&c.head, "head", 0, "Show only the first N trades.")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N trades.")
}

func (c *tradesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}
	a, ok := open()
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.close()

	trades, err := a.ledger.ListTrades(ctx, a.cfg.App.User, c.ticker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing trades: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.head > 0 && len(trades) > c.head {
		trades = trades[:c.head]
	}
	if c.tail > 0 && len(trades) > c.tail {
		trades = trades[len(trades)-c.tail:]
	}

	printMarkdown(renderer.TradesMarkdown(a.cfg.App.User, trades, a.service.Currency()))
	return subcommands.ExitSuccess
}

type positionsCmd struct{}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "list the open positions" }
func (*positionsCmd) Usage() string {
	return `pft positions

  Lists the quantity held of every ticker with an open position.
`
}

func (*positionsCmd) SetFlags(*flag.FlagSet) {}

func (*positionsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, ok := open()
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.close()

	positions, err := a.ledger.Positions(ctx, a.cfg.App.User)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing positions: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PositionsMarkdown(a.cfg.App.User, positions))
	return subcommands.ExitSuccess
}
