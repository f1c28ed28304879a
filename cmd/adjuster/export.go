package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"QuoteAdjuster/internal/export"
	"QuoteAdjuster/internal/model"
	"QuoteAdjuster/internal/recorder"

	"github.com/spf13/cobra"
)

func newExportCmd(cfgPath *string) *cobra.Command {
	var tickers, start, end, output, format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download adjusted prices once and write them to a file or stdout",
		RunE: func(c *cobra.Command, args []string) error {
			req, err := buildRequest(tickers, start, end)
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			rt, err := loadRuntime(*cfgPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			began := time.Now()
			table, err := rt.Collector.Collect(c.Context(), req)
			evt := &recorder.ExportEvent{
				Source:   recorder.SourceCLI,
				Tickers:  req.Tickers,
				Start:    req.Start,
				End:      req.End,
				Duration: time.Since(began),
				Output:   output,
			}
			if err != nil {
				evt.Err = err.Error()
			} else {
				evt.Rows = table.Len()
			}
			if rerr := rt.Recorder.RecordExport(evt); rerr != nil {
				log.Printf("[ERROR] record export: %v", rerr)
			}
			if err != nil {
				return err
			}

			if err := writeOutput(c.OutOrStdout(), output, f, table.Rows); err != nil {
				return err
			}
			for _, b := range table.Blocks {
				if b.Rows == 0 {
					log.Printf("[WARN] %s: no rows in range", b.Ticker)
				}
			}
			log.Printf("[INFO] exported %d rows for %s", table.Len(), strings.Join(req.Tickers, ","))
			return nil
		},
	}
	cmd.Flags().StringVar(&tickers, "tickers", "", "comma separated ticker symbols (required)")
	cmd.Flags().StringVar(&start, "start", "", "start date YYYY-MM-DD, inclusive (default today)")
	cmd.Flags().StringVar(&end, "end", "", "end date YYYY-MM-DD, inclusive (default today)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&format, "format", "csv", "csv or parquet")
	cmd.MarkFlagRequired("tickers")
	return cmd
}

// writeOutput writes rows to the named file, or to stdout when name is empty.
// A failed close is reported like a failed write.
func writeOutput(stdout io.Writer, name string, f export.Format, rows []model.AdjustedBar) error {
	if name == "" {
		return export.Write(stdout, f, rows)
	}
	file, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := export.Write(file, f, rows); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

// buildRequest turns raw flag values into a validated request.
func buildRequest(tickers, start, end string) (model.Request, error) {
	req := model.Request{Tickers: model.ParseTickers(tickers)}
	today := time.Now().UTC().Format(time.DateOnly)
	if start == "" {
		start = today
	}
	if end == "" {
		end = today
	}
	var err error
	if req.Start, err = model.ParseDate(start); err != nil {
		return req, fmt.Errorf("invalid --start: %w", err)
	}
	if req.End, err = model.ParseDate(end); err != nil {
		return req, fmt.Errorf("invalid --end: %w", err)
	}
	return req, req.Validate()
}
