package recorder

import "time"

// Run sources.
const (
	SourceWeb      = "web"
	SourceCLI      = "cli"
	SourceSchedule = "schedule"
)

// ExportEvent is the metadata of one export run. The exported rows
// themselves are never stored.
type ExportEvent struct {
	At       time.Time
	Source   string // "web", "cli" or "schedule"
	Job      string // scheduled job name, empty otherwise
	Tickers  []string
	Start    time.Time
	End      time.Time
	Rows     int
	Duration time.Duration
	Output   string // written file, if any
	Err      string
}

// Recorder keeps a journal of export runs.
type Recorder interface {
	RecordExport(evt *ExportEvent) error
	Recent(limit int) ([]ExportEvent, error)
	Close() error
}
