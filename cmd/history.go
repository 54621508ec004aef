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

type performanceCmd struct {
	period    string
	benchmark string
	none      bool
}

func (*performanceCmd) Name() string     { return "performance" }
func (*performanceCmd) Synopsis() string { return "display the time-weighted performance over a period" }
func (*performanceCmd) Usage() string {
	return `pft performance [-p <period>] [-b <ticker> | -no-benchmark]

  Displays the performance index of the portfolio, 100 on the first day of the period,
  next to a benchmark index normalized the same way.

  Periods: 1d, 1w, 3m, 6m, ytd, 1y, all.
`
}

func (c *performanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "1y", "Period ending on the latest close (1d, 1w, 3m, 6m, ytd, 1y, all)")
	f.StringVar(&c.benchmark, "b", "", "Benchmark ticker, defaults to benchmark.ticker from the configuration")
	f.BoolVar(&c.none, "no-benchmark", false, "Do not compare to a benchmark")
}

func (c *performanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	w, err := date.ParseWindow(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, ok := open()
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.close()

	benchmark := c.benchmark
	if benchmark == "" {
		benchmark = a.cfg.Benchmark.Ticker
	}
	if c.none {
		benchmark = ""
	}
	perf, err := a.service.PerformanceSeries(ctx, a.cfg.App.User, w, benchmark)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing performance: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PerformanceMarkdown(perf))
	return subcommands.ExitSuccess
}
