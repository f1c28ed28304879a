package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sync"
	"time"

	"QuoteAdjuster/internal/model"

	"golang.org/x/sync/errgroup"
)

// DefaultYahooBaseURL is the public Yahoo Finance chart endpoint.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// ErrNoData is returned when Yahoo answers with an API error, typically an
// unknown or delisted symbol.
var ErrNoData = errors.New("yahoo: no data")

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=collector_test -destination=mock_http_client_test.go -source=yahoo.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	BaseURL   string
	UserAgent string
	Client    HTTPClient
	SymbolMap map[string]string // maps user symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string, timeout time.Duration) *YahooFetcher {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &YahooFetcher{
		BaseURL:   DefaultYahooBaseURL,
		UserAgent: "Mozilla/5.0",
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
// Every series is nullable per element.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				GMTOffset int64 `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// at returns the i-th element of a nullable series, NaN when absent.
func at(series []*float64, i int) float64 {
	if i >= len(series) || series[i] == nil {
		return math.NaN()
	}
	return *series[i]
}

// FetchDaily downloads the daily history of every distinct symbol of q.
// Symbols are fetched concurrently up to q.Threads; the first failure cancels
// the others and is returned.
func (f *YahooFetcher) FetchDaily(ctx context.Context, q Query) (map[string][]model.RawBar, error) {
	symbols := distinct(q.Symbols)
	out := make(map[string][]model.RawBar, len(symbols))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	if q.Threads > 1 {
		g.SetLimit(q.Threads)
	} else {
		g.SetLimit(1)
	}
	for _, s := range symbols {
		g.Go(func() error {
			bars, err := f.fetchChart(gctx, s, q.Start, q.End)
			if err != nil {
				return fmt.Errorf("%s: %w", s, err)
			}
			if q.AutoAdjust {
				autoAdjust(bars)
			}
			mu.Lock()
			out[s] = bars
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol string, start, end time.Time) ([]model.RawBar, error) {
	v := url.Values{}
	v.Set("period1", fmt.Sprint(dayStart(start).Unix()))
	// period2 is exclusive on Yahoo's side
	v.Set("period2", fmt.Sprint(dayStart(end).AddDate(0, 0, 1).Unix()))
	v.Set("interval", "1d")
	v.Set("events", "div,splits")
	v.Set("includeAdjustedClose", "true")
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), v.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoData, chart.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	if len(chart.Chart.Result) == 0 {
		return []model.RawBar{}, nil
	}

	result := chart.Chart.Result[0]
	bars := make([]model.RawBar, 0, len(result.Timestamp))
	if len(result.Indicators.Quote) == 0 {
		return bars, nil
	}
	quote := result.Indicators.Quote[0]
	var adj []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adj = result.Indicators.AdjClose[0].AdjClose
	}

	for i, ts := range result.Timestamp {
		local := time.Unix(ts+result.Meta.GMTOffset, 0).UTC()
		bars = append(bars, model.RawBar{
			Date:     dayStart(local),
			Open:     at(quote.Open, i),
			High:     at(quote.High, i),
			Low:      at(quote.Low, i),
			Close:    at(quote.Close, i),
			AdjClose: at(adj, i),
			Volume:   at(quote.Volume, i),
		})
	}
	return bars, nil
}

// autoAdjust rescales open/high/low/close by the adjustment factor in place.
func autoAdjust(bars []model.RawBar) {
	for i := range bars {
		b := &bars[i]
		f := b.AdjClose / b.Close
		b.Open *= f
		b.High *= f
		b.Low *= f
		b.Close = b.AdjClose
	}
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func distinct(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
