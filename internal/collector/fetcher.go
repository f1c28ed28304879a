package collector

import (
	"context"
	"time"

	"QuoteAdjuster/internal/model"
)

//go:generate mockgen -package=collector_test -destination=mock_fetcher_test.go -source=fetcher.go Fetcher

// Query describes one batched history download.
type Query struct {
	Symbols []string
	// Start and End are inclusive calendar dates.
	Start time.Time
	End   time.Time
	// AutoAdjust asks the provider to return already adjusted OHLC instead
	// of raw fields plus an adjusted close.
	AutoAdjust bool
	// Threads bounds how many symbols are fetched in parallel; <= 1 is sequential.
	Threads int
}

// Fetcher downloads daily bars for a set of symbols in one call. The result
// is grouped by symbol.
type Fetcher interface {
	FetchDaily(ctx context.Context, q Query) (map[string][]model.RawBar, error)
	Name() string
}
