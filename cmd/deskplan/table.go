package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"deskplan/internal/executor"
)

func renderTable(headers []string, rows [][]string) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

// printReport writes the per-line results and totals for a run.
func printReport(out io.Writer, rep *executor.Report) {
	if len(rep.Results) == 0 {
		fmt.Fprintln(out, "Plan contained no operations.")
		return
	}

	rows := make([][]string, 0, len(rep.Results))
	for _, res := range rep.Results {
		rows = append(rows, []string{
			strconv.Itoa(res.Line),
			string(res.Kind),
			string(res.Outcome),
			res.Detail,
		})
	}
	fmt.Fprintln(out, renderTable([]string{"Line", "Command", "Outcome", "Detail"}, rows))
	fmt.Fprintf(out, "%d applied, %d skipped as no-ops, %d failed\n",
		rep.Applied(), rep.Noops(), rep.Failed())
}
