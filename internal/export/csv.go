package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"

	"QuoteAdjuster/internal/model"
)

// Header returns the export column labels, read from the col tags of
// model.AdjustedBar in field order.
func Header() []string {
	typ := reflect.TypeOf(model.AdjustedBar{})
	cols := make([]string, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		name := field.Tag.Get("col")
		if name == "" {
			name = field.Name
		}
		cols = append(cols, name)
	}
	return cols
}

// WriteCSV writes the header row followed by one record per row. No index
// column is written.
func WriteCSV(w io.Writer, rows []model.AdjustedBar) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(Record(r)); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}
	return nil
}

// Record renders one row as CSV fields.
func Record(r model.AdjustedBar) []string {
	return []string{
		r.Ticker,
		r.Period,
		r.Date,
		FormatFloat(r.Open),
		FormatFloat(r.High),
		FormatFloat(r.Low),
		FormatFloat(r.Close),
		strconv.FormatInt(r.Volume, 10),
	}
}

// FormatFloat prints v with the fewest digits that round-trip, always with a
// decimal point. NaN is empty, infinities are inf and -inf.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
