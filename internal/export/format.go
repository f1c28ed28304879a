package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"QuoteAdjuster/internal/model"
)

// Format is an export file format.
type Format string

const (
	CSV     Format = "csv"
	Parquet Format = "parquet"
)

// ErrUnknownFormat is returned for a format name that is not supported.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat maps a user supplied name to a Format; empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return CSV, nil
	case "parquet":
		return Parquet, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	if f == Parquet {
		return "application/vnd.apache.parquet"
	}
	return "text/csv"
}

// FileName returns the download file name for the format.
func (f Format) FileName() string {
	return "data." + string(f)
}

// Write serializes rows in the given format.
func Write(w io.Writer, f Format, rows []model.AdjustedBar) error {
	switch f {
	case CSV:
		return WriteCSV(w, rows)
	case Parquet:
		return WriteParquet(w, rows)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}
