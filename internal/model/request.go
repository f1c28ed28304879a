package model

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNoTickers is returned when a request carries no ticker symbol.
	ErrNoTickers = errors.New("please enter at least one ticker symbol")
	// ErrInvertedRange is returned when the start date is after the end date.
	ErrInvertedRange = errors.New("start date must not be after end date")
)

// Request is everything one export needs: the ordered ticker list and an
// inclusive calendar range.
type Request struct {
	Tickers []string
	Start   time.Time
	End     time.Time
}

// ParseTickers splits a comma separated list, trimming and upper-casing each
// symbol. Empty entries are dropped; order and duplicates are kept.
func ParseTickers(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, strings.TrimSpace(s))
}

// Validate checks what the input shells check before computing.
func (r Request) Validate() error {
	if len(r.Tickers) == 0 {
		return ErrNoTickers
	}
	if r.Start.After(r.End) {
		return ErrInvertedRange
	}
	return nil
}
