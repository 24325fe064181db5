package indicators

import (
	"time"

	"sweepscan/internal/model"
)

// Enrich attaches ATR, relative volume, session VWAP and session labels to bars.
func Enrich(bars []model.Bar, atrPeriod, rvolPeriod int, loc *time.Location) []model.EnrichedBar {
	atr := ATR(bars, atrPeriod)
	rvol := RVol(bars, rvolPeriod)
	vwap := SessionVWAP(bars, loc)

	out := make([]model.EnrichedBar, len(bars))
	for i, b := range bars {
		out[i] = model.EnrichedBar{
			Bar:         b,
			ATR:         atr[i],
			RVol:        rvol[i],
			SessionVWAP: vwap[i],
			Session:     SessionLabel(b.Timestamp, loc),
		}
	}
	return out
}
