package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/folio"
	md "github.com/nao1215/markdown"
)

// PerformanceMarkdown renders a performance series, one row per date, with the benchmark
// column when there is one.
func PerformanceMarkdown(p *folio.Performance) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Performance of %s over %s", p.User, p.Window))
	if len(p.Portfolio) == 0 {
		doc.PlainText(fmt.Sprintf("No price history up to %s.", p.Anchor))
		return doc.String()
	}

	doc.H2("Summary")
	summary := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Metric", "Value"},
		Rows: [][]string{
			{"Period", fmt.Sprintf("%s to %s", p.Portfolio[0].Date, p.Anchor)},
			{"Method", string(p.Method)},
			{"Return", percent(p.ReturnPct)},
			{"Change", signedMoney(p.Change, p.Currency)},
		},
	}
	if len(p.Benchmark) > 0 {
		summary.Rows = append(summary.Rows, []string{p.BenchmarkTicker, percent(p.Benchmark.Last() - 100)})
	}
	doc.Table(summary)

	doc.H2("Series")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Date", "Index", "Value"},
		Rows:      [][]string{},
	}
	bench := len(p.Benchmark) == len(p.Portfolio)
	if bench {
		table.Alignment = append(table.Alignment, md.AlignRight)
		table.Header = append(table.Header, p.BenchmarkTicker)
	}
	for i, pt := range p.Portfolio {
		row := []string{pt.Date.String(), fmt.Sprintf("%.2f", pt.Value), money(p.Value[i].Value, p.Currency)}
		if bench {
			row = append(row, fmt.Sprintf("%.2f", p.Benchmark[i].Value))
		}
		table.Rows = append(table.Rows, row)
	}
	doc.Table(table)
	return doc.String()
}
