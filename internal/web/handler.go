package web

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"QuoteAdjuster/internal/export"
	"QuoteAdjuster/internal/model"
	"QuoteAdjuster/internal/recorder"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

//go:generate mockgen -package=web_test -destination=mock_collector_test.go -source=handler.go Collector

// Collector is the transform the form drives.
type Collector interface {
	Collect(ctx context.Context, req model.Request) (*model.Table, error)
}

// Handler serves the download form.
type Handler struct {
	Collector Collector
	Recorder  recorder.Recorder
	Today     func() time.Time
}

// NewHandler creates a new Handler.
func NewHandler(col Collector, rec recorder.Recorder) *Handler {
	return &Handler{Collector: col, Recorder: rec, Today: time.Now}
}

type page struct {
	Tickers   string
	Start     string
	End       string
	Error     string
	Header    []string
	Table     *model.Table
	Downloads []download
}

// download is a file built from the table on display, embedded in the page
// as a data URL so saving it never goes back to the provider.
type download struct {
	Label string
	Name  string
	Href  template.URL
}

// NewApp builds the fiber app with all routes.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "QuoteAdjuster",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/", h.Form)
	app.Post("/", h.Submit)
	app.Get("/download", h.Download)
	return app
}

// Form renders the empty form with today's date in both date inputs.
func (h *Handler) Form(c *fiber.Ctx) error {
	today := h.Today().Format(time.DateOnly)
	return render(c, fiber.StatusOK, page{Start: today, End: today})
}

// Submit computes the table for the posted form and renders it.
func (h *Handler) Submit(c *fiber.Ctx) error {
	p := page{
		Tickers: c.FormValue("tickers"),
		Start:   c.FormValue("start"),
		End:     c.FormValue("end"),
	}
	req, err := parseRequest(p.Tickers, p.Start, p.End)
	if err != nil {
		p.Error = errorMessage(err)
		return render(c, fiber.StatusBadRequest, p)
	}

	table, err := h.collect(c.UserContext(), req)
	if err != nil {
		p.Error = err.Error()
		return render(c, fiber.StatusBadGateway, p)
	}

	p.Header = export.Header()
	p.Table = table
	for _, f := range []export.Format{export.CSV, export.Parquet} {
		d, err := embed(f, table)
		if err != nil {
			return err
		}
		p.Downloads = append(p.Downloads, d)
	}
	return render(c, fiber.StatusOK, p)
}

func embed(f export.Format, table *model.Table) (download, error) {
	var buf bytes.Buffer
	if err := export.Write(&buf, f, table.Rows); err != nil {
		return download{}, fmt.Errorf("encode %s: %w", f, err)
	}
	label := "Download CSV"
	if f == export.Parquet {
		label = "Download Parquet"
	}
	return download{
		Label: label,
		Name:  f.FileName(),
		Href:  template.URL("data:" + f.ContentType() + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes())),
	}, nil
}

// Download is the stateless file endpoint: it computes the table for the
// query parameters and sends it as an attachment. The form page does not
// link here.
func (h *Handler) Download(c *fiber.Ctx) error {
	req, err := parseRequest(c.Query("tickers"), c.Query("start"), c.Query("end"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, errorMessage(err))
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	table, err := h.collect(c.UserContext(), req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, table.Rows); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, format.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", format.FileName()))
	return c.Send(buf.Bytes())
}

func (h *Handler) collect(ctx context.Context, req model.Request) (*model.Table, error) {
	began := time.Now()
	table, err := h.Collector.Collect(ctx, req)
	evt := &recorder.ExportEvent{
		Source:   recorder.SourceWeb,
		Tickers:  req.Tickers,
		Start:    req.Start,
		End:      req.End,
		Duration: time.Since(began),
	}
	if err != nil {
		log.Printf("[ERROR] collect %s: %v", strings.Join(req.Tickers, ","), err)
		evt.Err = err.Error()
	} else {
		evt.Rows = table.Len()
	}
	if h.Recorder != nil {
		if rerr := h.Recorder.RecordExport(evt); rerr != nil {
			log.Printf("[ERROR] record export: %v", rerr)
		}
	}
	return table, err
}

func parseRequest(tickers, start, end string) (model.Request, error) {
	req := model.Request{Tickers: model.ParseTickers(tickers)}
	if len(req.Tickers) == 0 {
		return req, model.ErrNoTickers
	}
	var err error
	if req.Start, err = model.ParseDate(start); err != nil {
		return req, fmt.Errorf("invalid start date %q", start)
	}
	if req.End, err = model.ParseDate(end); err != nil {
		return req, fmt.Errorf("invalid end date %q", end)
	}
	return req, req.Validate()
}

func errorMessage(err error) string {
	if errors.Is(err, model.ErrNoTickers) {
		return "Please enter at least one ticker symbol."
	}
	return err.Error()
}

func render(c *fiber.Ctx, status int, p page) error {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, p); err != nil {
		return err
	}
	c.Status(status)
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
