package indicators

import (
	"time"

	"sweepscan/internal/model"
)

// SessionVWAP computes a volume weighted average price that resets at each
// calendar-day boundary in loc. Price is the close, matching intraday
// session VWAP rather than typical-price VWAP.
func SessionVWAP(bars []model.Bar, loc *time.Location) []float64 {
	length := len(bars)
	vwap := make([]float64, length)

	var cumulativePV float64
	var cumulativeVol float64
	var day int
	var year int

	for i := 0; i < length; i++ {
		t := time.UnixMilli(bars[i].Timestamp).In(loc)
		if i == 0 || t.YearDay() != day || t.Year() != year {
			cumulativePV = 0
			cumulativeVol = 0
			day = t.YearDay()
			year = t.Year()
		}

		v := float64(bars[i].Volume)
		cumulativePV += bars[i].Close * v
		cumulativeVol += v

		if cumulativeVol > 0 {
			vwap[i] = cumulativePV / cumulativeVol
		}
	}

	return vwap
}
