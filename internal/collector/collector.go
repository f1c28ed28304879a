package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"QuoteAdjuster/internal/calculator"
	"QuoteAdjuster/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	// Bars holds fixed bars per symbol; symbols absent here get generated bars.
	Bars map[string][]model.RawBar
	Err  error

	mu      sync.Mutex
	Queries []Query
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDaily(_ context.Context, q Query) (map[string][]model.RawBar, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, q)
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make(map[string][]model.RawBar, len(q.Symbols))
	for _, s := range q.Symbols {
		if bars, ok := m.Bars[s]; ok {
			out[s] = bars
			continue
		}
		out[s] = generateMockBars(m.Price, q.Start, q.End)
	}
	return out, nil
}

// generateMockBars produces one bar per weekday in [start, end] with a
// constant 0.98 adjustment factor.
func generateMockBars(basePrice float64, start, end time.Time) []model.RawBar {
	var bars []model.RawBar
	i := 0
	for d := dayStart(start); !d.After(dayStart(end)); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i)*0.001)
		bars = append(bars, model.RawBar{
			Date:     d,
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			AdjClose: p * 0.98,
			Volume:   1000000,
		})
		i++
	}
	return bars
}

// Collector turns a Request into the adjusted export table.
type Collector struct {
	Fetcher Fetcher
	Threads int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, threads int) *Collector {
	return &Collector{Fetcher: fetcher, Threads: threads}
}

// Collect downloads raw history for every ticker in one provider call,
// adjusts each ticker's bars and concatenates the blocks in ticker order.
// Duplicate tickers produce independent blocks. Provider errors abort the
// whole collection.
func (c *Collector) Collect(ctx context.Context, req model.Request) (*model.Table, error) {
	raw, err := c.Fetcher.FetchDaily(ctx, Query{
		Symbols:    req.Tickers,
		Start:      req.Start,
		End:        req.End,
		AutoAdjust: false,
		Threads:    c.Threads,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}

	table := &model.Table{}
	for _, ticker := range req.Tickers {
		table.Append(ticker, calculator.Adjust(ticker, raw[ticker]))
	}
	calculator.RoundBars(table.Rows, calculator.OutputPlaces)
	return table, nil
}
