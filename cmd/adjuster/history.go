package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(cfgPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent export runs from the journal",
		RunE: func(c *cobra.Command, args []string) error {
			rt, err := loadRuntime(*cfgPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			runs, err := rt.Recorder.Recent(limit)
			if err != nil {
				return err
			}
			out := c.OutOrStdout()
			for _, r := range runs {
				status := "ok"
				if r.Err != "" {
					status = "error: " + r.Err
				}
				fmt.Fprintf(out, "%s  %-8s %-12s %-24s %s..%s  %5d rows  %s\n",
					r.At.Format("2006-01-02 15:04:05"), r.Source, r.Job,
					strings.Join(r.Tickers, ","),
					r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly),
					r.Rows, status)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	return cmd
}
