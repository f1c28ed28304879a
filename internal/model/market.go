package model

import (
	"math"
	"time"
)

// PeriodDaily is the <PER> code written for daily bars.
const PeriodDaily = "D"

// DateLayout is the layout of the <DTYYYYMMDD> column.
const DateLayout = "20060102"

// RawBar is one unadjusted daily bar as returned by the quote provider.
// Missing provider values are NaN.
type RawBar struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   float64
}

// Complete reports whether every field of the bar carries a value.
func (b RawBar) Complete() bool {
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close, b.AdjClose, b.Volume} {
		if math.IsNaN(v) {
			return false
		}
	}
	return !b.Date.IsZero()
}

// AdjustedBar is one row of the export table. The col tags are the external
// column labels, in output order.
type AdjustedBar struct {
	Ticker string  `col:"<TICKER>" parquet:"<TICKER>"`
	Period string  `col:"<PER>" parquet:"<PER>"`
	Date   string  `col:"<DTYYYYMMDD>" parquet:"<DTYYYYMMDD>"`
	Open   float64 `col:"<OPEN>" parquet:"<OPEN>"`
	High   float64 `col:"<HIGH>" parquet:"<HIGH>"`
	Low    float64 `col:"<LOW>" parquet:"<LOW>"`
	Close  float64 `col:"<CLOSE>" parquet:"<CLOSE>"`
	Volume int64   `col:"<VOL>" parquet:"<VOL>"`
}
