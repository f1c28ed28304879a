package web_test

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"QuoteAdjuster/internal/model"
	"QuoteAdjuster/internal/recorder"
	"QuoteAdjuster/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func sampleTable() *model.Table {
	table := &model.Table{}
	table.Append("AAPL", []model.AdjustedBar{{
		Ticker: "AAPL", Period: model.PeriodDaily, Date: "20240304",
		Open: 170.5, High: 172, Low: 169, Close: 171.1234, Volume: 1000,
	}})
	return table
}

func newApp(t *testing.T, col web.Collector) *fiber.App {
	t.Helper()
	h := web.NewHandler(col, recorder.NewNoopRecorder())
	h.Today = func() time.Time { return time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC) }
	return web.NewApp(h)
}

func postForm(t *testing.T, app *fiber.App, form url.Values) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func get(t *testing.T, app *fiber.App, target string) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestForm_DefaultsToToday(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	app := newApp(t, NewMockCollector(ctrl))

	resp, body := get(t, app, "/")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	require.Contains(t, body, `name="start" value="2024-03-05"`)
	require.Contains(t, body, `name="end" value="2024-03-05"`)
	require.Contains(t, body, "Download Data")
}

func TestSubmit_EmptyTickersNeverCallsCollector(t *testing.T) {
	t.Parallel()

	// Arrange: no Collect expectation, so any call fails the test.
	ctrl := gomock.NewController(t)
	app := newApp(t, NewMockCollector(ctrl))

	// Act
	status, body := postForm(t, app, url.Values{"tickers": {" , ,"}, "start": {"2024-03-01"}, "end": {"2024-03-05"}})

	// Assert
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, body, "Please enter at least one ticker symbol.")
}

func TestSubmit_RendersTable(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	col := NewMockCollector(ctrl)
	col.EXPECT().
		Collect(gomock.Any(), model.Request{
			Tickers: []string{"AAPL", "MSFT"},
			Start:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			End:     time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		}).
		Return(sampleTable(), nil).
		Times(1)
	app := newApp(t, col)

	status, body := postForm(t, app, url.Values{"tickers": {"aapl, msft"}, "start": {"2024-03-01"}, "end": {"2024-03-05"}})

	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, "Data downloaded and adjusted successfully!")
	require.Contains(t, body, "&lt;TICKER&gt;")
	require.Contains(t, body, "<td>20240304</td>")
	require.Contains(t, body, "<td>171.1234</td>")
	require.Contains(t, body, "<td>172.0</td>")
	require.Contains(t, body, "Download CSV")
	require.Contains(t, body, "Download Parquet")
	require.NotContains(t, body, "/download?")
}

// embedded returns the decoded data URL of the link saving name.
func embedded(t *testing.T, body, mime, name string) []byte {
	t.Helper()
	prefix := `href="data:` + mime + `;base64,`
	i := strings.Index(body, prefix)
	require.NotEqual(t, -1, i, "no %s link in page", mime)
	rest := body[i+len(prefix):]
	end := strings.IndexByte(rest, '"')
	require.NotEqual(t, -1, end)
	require.True(t, strings.HasPrefix(rest[end:], `" download="`+name+`"`))
	data, err := base64.StdEncoding.DecodeString(rest[:end])
	require.NoError(t, err)
	return data
}

func TestSubmit_DownloadsEmbedTheDisplayedTable(t *testing.T) {
	t.Parallel()

	// Arrange: the provider may be reached once for the whole display and save cycle.
	ctrl := gomock.NewController(t)
	col := NewMockCollector(ctrl)
	col.EXPECT().Collect(gomock.Any(), gomock.Any()).Return(sampleTable(), nil).Times(1)
	app := newApp(t, col)

	// Act
	status, body := postForm(t, app, url.Values{"tickers": {"AAPL"}, "start": {"2024-03-01"}, "end": {"2024-03-05"}})

	// Assert: both files are already in the page.
	require.Equal(t, http.StatusOK, status)
	require.Equal(t,
		"<TICKER>,<PER>,<DTYYYYMMDD>,<OPEN>,<HIGH>,<LOW>,<CLOSE>,<VOL>\n"+
			"AAPL,D,20240304,170.5,172.0,169.0,171.1234,1000\n",
		string(embedded(t, body, "text/csv", "data.csv")))

	file := embedded(t, body, "application/vnd.apache.parquet", "data.parquet")
	rows, err := parquet.Read[model.AdjustedBar](bytes.NewReader(file), int64(len(file)))
	require.NoError(t, err)
	require.Equal(t, sampleTable().Rows, rows)
}

func TestSubmit_InvertedRangeRejected(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	app := newApp(t, NewMockCollector(ctrl))

	status, body := postForm(t, app, url.Values{"tickers": {"AAPL"}, "start": {"2024-03-05"}, "end": {"2024-03-01"}})

	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, body, model.ErrInvertedRange.Error())
}

func TestSubmit_ProviderErrorIsBadGateway(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	col := NewMockCollector(ctrl)
	col.EXPECT().Collect(gomock.Any(), gomock.Any()).Return(nil, errors.New("fetch daily bars: NOPE: no data")).Times(1)
	app := newApp(t, col)

	status, body := postForm(t, app, url.Values{"tickers": {"NOPE"}, "start": {"2024-03-01"}, "end": {"2024-03-05"}})

	require.Equal(t, http.StatusBadGateway, status)
	require.Contains(t, body, "NOPE: no data")
}

func TestDownload_CSVAttachment(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	col := NewMockCollector(ctrl)
	col.EXPECT().Collect(gomock.Any(), gomock.Any()).Return(sampleTable(), nil).Times(1)
	app := newApp(t, col)

	resp, body := get(t, app, "/download?tickers=AAPL&start=2024-03-01&end=2024-03-05")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	require.Equal(t, `attachment; filename="data.csv"`, resp.Header.Get("Content-Disposition"))
	require.Equal(t,
		"<TICKER>,<PER>,<DTYYYYMMDD>,<OPEN>,<HIGH>,<LOW>,<CLOSE>,<VOL>\n"+
			"AAPL,D,20240304,170.5,172.0,169.0,171.1234,1000\n",
		body)
}

func TestDownload_Parquet(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	col := NewMockCollector(ctrl)
	col.EXPECT().Collect(gomock.Any(), gomock.Any()).Return(sampleTable(), nil).Times(1)
	app := newApp(t, col)

	resp, body := get(t, app, "/download?tickers=AAPL&start=2024-03-01&end=2024-03-05&format=parquet")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, `attachment; filename="data.parquet"`, resp.Header.Get("Content-Disposition"))
	require.True(t, strings.HasPrefix(body, "PAR1"))
}

func TestDownload_BadInput(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	app := newApp(t, NewMockCollector(ctrl))

	resp, _ := get(t, app, "/download?tickers=&start=2024-03-01&end=2024-03-05")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = get(t, app, "/download?tickers=AAPL&start=2024-03-01&end=2024-03-05&format=xlsx")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = get(t, app, "/download?tickers=AAPL&start=yesterday&end=2024-03-05")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	resp, body := get(t, newApp(t, NewMockCollector(ctrl)), "/healthz")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body)
}
