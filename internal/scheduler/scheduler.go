package scheduler

import (
	"context"
	"fmt"
	"html"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"QuoteAdjuster/internal/collector"
	"QuoteAdjuster/internal/config"
	"QuoteAdjuster/internal/export"
	"QuoteAdjuster/internal/model"
	"QuoteAdjuster/internal/notifier"
	"QuoteAdjuster/internal/recorder"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the configured export jobs on their cron specs.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  *notifier.TelegramNotifier
	Recorder  recorder.Recorder
	Jobs      map[string]config.Job
	Ctx       context.Context
	Now       func() time.Time
}

// NewScheduler creates a new Scheduler. tn may be nil.
func NewScheduler(ctx context.Context, col *collector.Collector, tn *notifier.TelegramNotifier, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  tn,
		Recorder:  rec,
		Jobs:      map[string]config.Job{},
		Ctx:       ctx,
		Now:       time.Now,
	}
}

// RegisterAll registers one cron entry per job.
func (s *Scheduler) RegisterAll(jobs []config.Job) error {
	for _, j := range jobs {
		if _, err := export.ParseFormat(j.Format); err != nil {
			return fmt.Errorf("job %s: %w", j.Name, err)
		}
		s.Jobs[j.Name] = j
		name := j.Name
		if _, err := s.Cron.AddFunc(j.Cron, func() {
			if _, err := s.RunJob(name); err != nil {
				log.Printf("[ERROR] job %s: %v", name, err)
			}
		}); err != nil {
			return fmt.Errorf("register job %s: %w", j.Name, err)
		}
		log.Printf("[INFO] registered job %s (%s) for %s", j.Name, j.Cron, strings.Join(j.Tickers, ","))
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// JobRequest builds the request a job runs for: the last LookbackDays days up to today.
func (s *Scheduler) JobRequest(j config.Job) model.Request {
	now := s.Now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return model.Request{
		Tickers: j.Tickers,
		Start:   end.AddDate(0, 0, -j.LookbackDays),
		End:     end,
	}
}

// RunJob executes the named job immediately and returns the written file.
func (s *Scheduler) RunJob(name string) (string, error) {
	j, ok := s.Jobs[name]
	if !ok {
		return "", fmt.Errorf("unknown job %q", name)
	}
	log.Printf("[INFO] running job %s", name)

	began := time.Now()
	req := s.JobRequest(j)
	table, output, err := s.export(j, req)

	evt := &recorder.ExportEvent{
		Source:   recorder.SourceSchedule,
		Job:      name,
		Tickers:  req.Tickers,
		Start:    req.Start,
		End:      req.End,
		Duration: time.Since(began),
		Output:   output,
	}
	if table != nil {
		evt.Rows = table.Len()
	}
	if err != nil {
		evt.Err = err.Error()
	}
	if rerr := s.Recorder.RecordExport(evt); rerr != nil {
		log.Printf("[ERROR] record export: %v", rerr)
	}
	s.trySend(notifier.FormatExportReport(name, req, table, output, err))

	if err != nil {
		return "", err
	}
	log.Printf("[INFO] job %s wrote %d rows to %s", name, table.Len(), output)
	return output, nil
}

func (s *Scheduler) export(j config.Job, req model.Request) (*model.Table, string, error) {
	if err := req.Validate(); err != nil {
		return nil, "", err
	}
	format, err := export.ParseFormat(j.Format)
	if err != nil {
		return nil, "", err
	}
	table, err := s.Collector.Collect(s.Ctx, req)
	if err != nil {
		return nil, "", err
	}
	if err := os.MkdirAll(j.OutputDir, 0o755); err != nil {
		return table, "", fmt.Errorf("create output dir: %w", err)
	}
	output := filepath.Join(j.OutputDir, fmt.Sprintf("%s_%s.%s", j.Name, req.End.Format(model.DateLayout), format))
	f, err := os.Create(output)
	if err != nil {
		return table, "", fmt.Errorf("create output: %w", err)
	}
	if err := export.Write(f, format, table.Rows); err != nil {
		f.Close()
		return table, "", err
	}
	if err := f.Close(); err != nil {
		return table, "", fmt.Errorf("close output: %w", err)
	}
	return table, output, nil
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	switch fields[0] {
	case "/jobs":
		if len(s.Jobs) == 0 {
			return "No jobs configured."
		}
		names := make([]string, 0, len(s.Jobs))
		for name := range s.Jobs {
			names = append(names, name)
		}
		sort.Strings(names)
		var b strings.Builder
		for _, name := range names {
			j := s.Jobs[name]
			b.WriteString(fmt.Sprintf("• %s (%s): %s\n",
				html.EscapeString(j.Name), html.EscapeString(j.Cron), html.EscapeString(strings.Join(j.Tickers, ","))))
		}
		return b.String()
	case "/run":
		if len(fields) < 2 {
			return "Usage: /run &lt;job&gt;"
		}
		name := fields[1]
		if _, ok := s.Jobs[name]; !ok {
			return fmt.Sprintf("Unknown job %s", html.EscapeString(name))
		}
		go func() {
			if _, err := s.RunJob(name); err != nil {
				log.Printf("[ERROR] job %s: %v", name, err)
			}
		}()
		return fmt.Sprintf("Running %s...", html.EscapeString(name))
	case "/history":
		runs, err := s.Recorder.Recent(10)
		if err != nil {
			return fmt.Sprintf("history unavailable: %v", err)
		}
		return notifier.FormatHistory(runs)
	default:
		return "Commands:\n• /jobs\n• /run &lt;job&gt;\n• /history"
	}
}

func (s *Scheduler) trySend(text string) {
	if !s.Notifier.Enabled() {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
