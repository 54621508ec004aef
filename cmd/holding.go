package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/folio/date"
	"github.com/etnz/folio/renderer"
)

// overviewCmd holds the flags for the 'overview' subcommand.
type overviewCmd struct {
	date string
}

func (*overviewCmd) Name() string     { return "overview" }
func (*overviewCmd) Synopsis() string { return "display the open positions valued at a date" }
func (*overviewCmd) Usage() string {
	return `pft overview [-d <date>]

  Displays the open positions with their average cost, last close, market value and
  unrealized result, then the totals including cash and realized result.
  Without -d the latest date with a close for a held ticker is used.
`
}

func (c *overviewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the overview (YYYY-MM-DD)")
}

func (c *overviewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var on date.Date
	if c.date != "" {
		var err error
		if on, err = date.Parse(c.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	a, ok := open()
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.close()

	o, err := a.service.Overview(ctx, a.cfg.App.User, on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating overview: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.OverviewMarkdown(o))
	return subcommands.ExitSuccess
}
