package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"QuoteAdjuster/internal/model"
	"QuoteAdjuster/internal/recorder"
)

// FormatExportReport formats a scheduled export run into a Telegram message.
// table may be nil when the run failed.
func FormatExportReport(job string, req model.Request, table *model.Table, output string, runErr error) string {
	var b strings.Builder

	if runErr != nil {
		b.WriteString(fmt.Sprintf("❌ <b>Export failed</b> | %s\n\n", html.EscapeString(job)))
	} else {
		b.WriteString(fmt.Sprintf("📊 <b>Export done</b> | %s\n\n", html.EscapeString(job)))
	}
	b.WriteString(fmt.Sprintf("Range: %s → %s\n", req.Start.Format(time.DateOnly), req.End.Format(time.DateOnly)))

	if runErr != nil {
		b.WriteString(fmt.Sprintf("Error: %s\n", html.EscapeString(runErr.Error())))
		return b.String()
	}

	for _, blk := range table.Blocks {
		mark := ""
		if blk.Rows == 0 {
			mark = " ⚠️"
		}
		b.WriteString(fmt.Sprintf("  %s: %d rows%s\n", html.EscapeString(blk.Ticker), blk.Rows, mark))
	}
	b.WriteString(fmt.Sprintf("Total: %d rows\n", table.Len()))
	if output != "" {
		b.WriteString(fmt.Sprintf("File: <code>%s</code>\n", html.EscapeString(output)))
	}
	return b.String()
}

// FormatHistory formats recent export runs for display.
func FormatHistory(runs []recorder.ExportEvent) string {
	if len(runs) == 0 {
		return "No export runs recorded."
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent exports</b>\n\n")
	for _, r := range runs {
		status := "✅"
		if r.Err != "" {
			status = "❌"
		}
		name := r.Source
		if r.Job != "" {
			name += "/" + r.Job
		}
		b.WriteString(fmt.Sprintf("%s %s %s [%s] %s→%s %d rows\n",
			status, r.At.Format("2006-01-02 15:04"), html.EscapeString(name),
			html.EscapeString(strings.Join(r.Tickers, ",")),
			r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly), r.Rows))
	}
	return b.String()
}
