package indicators

import (
	"math"

	"sweepscan/internal/model"
)

// ATR computes the Average True Range as a rolling mean of true ranges.
// Values before the window is full are 0 (undefined); consumers must
// treat atr[i] <= 0 as "no reading" for position i.
func ATR(bars []model.Bar, period int) []float64 {
	length := len(bars)
	atr := make([]float64, length)
	if length == 0 || period <= 0 {
		return atr
	}

	trs := make([]float64, length)

	// TR calculation. trs[0] is just H-L (no previous close).
	trs[0] = bars[0].High - bars[0].Low

	for i := 1; i < length; i++ {
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)

		maxVal := hl
		if hc > maxVal {
			maxVal = hc
		}
		if lc > maxVal {
			maxVal = lc
		}
		trs[i] = maxVal
	}

	// Rolling mean over the last period TRs.
	var sum float64
	for i := 0; i < length; i++ {
		sum += trs[i]
		if i >= period {
			sum -= trs[i-period]
		}
		if i >= period-1 {
			atr[i] = sum / float64(period)
		}
	}

	return atr
}
