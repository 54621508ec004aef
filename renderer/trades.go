package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/folio"
	md "github.com/nao1215/markdown"
)

// TradesMarkdown renders the trades of user, in the order given.
func TradesMarkdown(user string, trades []folio.Trade, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Trades of %s", user))
	if len(trades) == 0 {
		doc.PlainText("No trades recorded.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"#", "Date", "Side", "Ticker", "Quantity", "Price", "Fee", "Amount"},
		Rows:   [][]string{},
	}
	for _, t := range trades {
		table.Rows = append(table.Rows, []string{
			fmt.Sprint(t.ID),
			t.Date.String(),
			string(t.Side),
			t.Ticker,
			quantity(t.Quantity),
			money(t.Price, currency),
			money(t.Fee, currency),
			money(t.Amount(), currency),
		})
	}
	doc.Table(table)
	return doc.String()
}

// PositionsMarkdown renders the open positions of user.
func PositionsMarkdown(user string, positions []folio.Position) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Positions of %s", user))
	if len(positions) == 0 {
		doc.PlainText("No open position.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Ticker", "Quantity"},
		Rows:      [][]string{},
	}
	for _, p := range positions {
		table.Rows = append(table.Rows, []string{p.Ticker, quantity(p.Quantity)})
	}
	doc.Table(table)
	return doc.String()
}
