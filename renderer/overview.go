package renderer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/folio"
	md "github.com/nao1215/markdown"
)

// OverviewMarkdown renders a portfolio snapshot: the positions then the totals.
func OverviewMarkdown(o *folio.Overview) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	cur := o.Currency

	doc.H1(fmt.Sprintf("Portfolio of %s on %s", o.User, o.Anchor))

	doc.H2("Positions")
	if len(o.Rows) == 0 {
		doc.PlainText("No open position.")
	} else {
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
			},
			Header: []string{"Ticker", "Quantity", "Avg Cost", "Last Close", "Market Value", "Invested", "Unrealized", "Return"},
			Rows:   [][]string{},
		}
		for _, r := range o.Rows {
			table.Rows = append(table.Rows, []string{
				r.Ticker,
				quantity(r.Quantity),
				nullMoney(r.AvgCost, cur),
				nullMoney(r.LastClose, cur),
				nullMoney(r.MarketValue, cur),
				nullMoney(r.Invested, cur),
				nullSignedMoney(r.Unrealized, cur),
				nullPercent(r.ReturnPct),
			})
		}
		doc.Table(table)
	}

	doc.H2("Totals")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Total", "Value"},
		Rows: [][]string{
			{"Market Value", money(o.MarketValue, cur)},
			{"Invested", money(o.Invested, cur)},
			{"Unrealized", signedMoney(o.Unrealized, cur)},
			{"Return", nullPercent(o.ReturnPct)},
			{"Realized", signedMoney(o.Realized, cur)},
			{"Cash", money(o.Cash, cur)},
			{"Total Value", money(o.TotalValue, cur)},
		},
	})

	var note bytes.Buffer
	ConditionalBlock(&note, func(w io.Writer) bool {
		tickers := o.Missing()
		fmt.Fprintf(w, "## Missing Closes\n\nNo close known for %s, excluded from the totals.", strings.Join(tickers, ", "))
		return len(tickers) > 0
	})
	if note.Len() > 0 {
		doc.PlainText(note.String())
	}
	return doc.String()
}

// CashMarkdown renders the cash balance and the realized profit of user.
func CashMarkdown(user string, cash, realized float64, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Cash of %s", user))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Account", "Value"},
		Rows: [][]string{
			{"Cash", money(cash, currency)},
			{"Realized", signedMoney(realized, currency)},
		},
	})
	return doc.String()
}
