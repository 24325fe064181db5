package indicators

import "sweepscan/internal/model"

// RVol computes relative volume: volume divided by its rolling mean.
// Values before the window is full are 0 (undefined).
func RVol(bars []model.Bar, period int) []float64 {
	length := len(bars)
	rvol := make([]float64, length)
	if length == 0 || period <= 0 {
		return rvol
	}

	var sum int64
	for i := 0; i < length; i++ {
		sum += bars[i].Volume
		if i >= period {
			sum -= bars[i-period].Volume
		}
		if i >= period-1 {
			mean := float64(sum) / float64(period)
			if mean > 0 {
				rvol[i] = float64(bars[i].Volume) / mean
			}
		}
	}

	return rvol
}
