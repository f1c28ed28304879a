package export

import (
	"fmt"
	"io"

	"QuoteAdjuster/internal/model"

	"github.com/parquet-go/parquet-go"
)

// WriteParquet writes rows as a Snappy compressed parquet file whose column
// names are the export labels.
func WriteParquet(w io.Writer, rows []model.AdjustedBar) error {
	pw := parquet.NewGenericWriter[model.AdjustedBar](w,
		parquet.Compression(&parquet.Snappy),
		parquet.PageBufferSize(64*1024),
	)
	if _, err := pw.Write(rows); err != nil {
		pw.Close()
		return fmt.Errorf("failed to write rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
