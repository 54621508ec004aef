package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/folio/renderer"
)

type cashCmd struct{}

func (*cashCmd) Name() string     { return "cash" }
func (*cashCmd) Synopsis() string { return "display the cash balance" }
func (*cashCmd) Usage() string {
	return `pft cash

  Displays the cash balance: the starting capital plus the sales, minus the purchases
  and the fees. The realized result of the sales is shown too.
`
}

func (*cashCmd) SetFlags(*flag.FlagSet) {}

func (*cashCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, ok := open()
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.close()

	user := a.cfg.App.User
	cash, err := a.service.CashBalance(ctx, user)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing cash: %v\n", err)
		return subcommands.ExitFailure
	}
	realized, err := a.service.RealizedPnL(ctx, user)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing realized result: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.CashMarkdown(user, cash, realized, a.service.Currency()))
	return subcommands.ExitSuccess
}
