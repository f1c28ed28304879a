package calculator

import (
	"math"

	"QuoteAdjuster/internal/model"

	"github.com/shopspring/decimal"
)

// OutputPlaces is the number of decimals kept in every float column of the export.
const OutputPlaces = 4

// Factor returns the split/dividend adjustment factor of a bar. A zero close
// yields an infinite or NaN factor; callers get the degenerate value as is.
func Factor(close, adjClose float64) float64 {
	return adjClose / close
}

// Adjust converts one ticker's raw bars into export rows. Incomplete bars are
// dropped; the remaining rows keep provider order.
func Adjust(ticker string, raw []model.RawBar) []model.AdjustedBar {
	out := make([]model.AdjustedBar, 0, len(raw))
	for _, b := range raw {
		if !b.Complete() {
			continue
		}
		f := Factor(b.Close, b.AdjClose)
		out = append(out, model.AdjustedBar{
			Ticker: ticker,
			Period: model.PeriodDaily,
			Date:   b.Date.Format(model.DateLayout),
			Open:   b.Open * f,
			High:   b.High * f,
			Low:    b.Low * f,
			Close:  b.AdjClose, // taken as is, not re-derived through the factor
			Volume: int64(b.Volume),
		})
	}
	return out
}

// Round rounds v to the given decimal places the way numpy does: v is scaled
// by 10^places in float64 and the scaled value is rounded half to even
// (0.00125 rounds to 0.0012, 0.00135 to 0.0014).
// NaN and infinities are returned unchanged.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	scaled := v * math.Pow10(int(places))
	if math.IsInf(scaled, 0) {
		return v
	}
	return decimal.NewFromFloat(scaled).RoundBank(0).Shift(-places).InexactFloat64()
}

// RoundBars rounds every float column of rows in place.
func RoundBars(rows []model.AdjustedBar, places int32) {
	for i := range rows {
		r := &rows[i]
		r.Open = Round(r.Open, places)
		r.High = Round(r.High, places)
		r.Low = Round(r.Low, places)
		r.Close = Round(r.Close, places)
	}
}
