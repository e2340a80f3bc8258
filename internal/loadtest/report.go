package loadtest

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Render writes the report as a table.
func Render(w io.Writer, r *Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Sell load test, product %d", r.ProductID)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"requests", r.Requests},
		{"accepted (200)", r.Accepted},
		{"rejected (400)", r.Rejected},
		{"not found (404)", r.NotFound},
		{"failed", r.Failed},
		{"initial stock", r.InitialStock},
		{"final stock", r.FinalStock},
		{"elapsed", r.Elapsed.Round(1e6)},
	})
	t.AppendSeparator()
	t.AppendRow(table.Row{"final == initial - accepted", verdict(r.StockConserved())})
	t.AppendRow(table.Row{"accepted + failed >= min(requests, initial)", verdict(r.NoLostSales())})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.Render()
}

func verdict(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}
