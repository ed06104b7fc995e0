package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/mgpai22/shabd/internal/pipeline"
)

// printSummary writes the batch outcome followed by one row per failed file.
func printSummary(w io.Writer, s pipeline.Summary) {
	fmt.Fprintln(w, renderSummary(s, isTerminal(w)))
	if len(s.Failures) == 0 {
		return
	}
	rows := make([][]string, 0, len(s.Failures))
	for _, f := range s.Failures {
		rows = append(rows, []string{f.Input, f.Err.Error()})
	}
	fmt.Fprintln(w, renderTable([]string{"Failed file", "Error"}, rows, nil, isTerminal(w)))
}

func renderSummary(s pipeline.Summary, fancy bool) string {
	rows := [][]string{
		{"Succeeded", fmt.Sprint(s.Succeeded)},
		{"Skipped", fmt.Sprint(s.Skipped)},
		{"Failed", fmt.Sprint(s.Failed)},
		{"Total", fmt.Sprint(s.Total())},
		{"Elapsed", s.Elapsed.Round(time.Millisecond).String()},
		{"Run ID", s.RunID},
	}
	return renderTable([]string{"Batch", ""}, rows, []text.Align{text.AlignLeft, text.AlignRight}, fancy)
}

func renderTable(headers []string, rows [][]string, aligns []text.Align, fancy bool) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	if fancy {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) {
			align = aligns[i]
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
