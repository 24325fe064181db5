package patterns

import "sweepscan/internal/model"

// Break is a decisive close beyond the most recent pivot of Kind.
// Kind "high" means a bullish break, "low" a bearish one.
type Break struct {
	Index int       `json:"index"`
	Kind  PivotKind `json:"kind"`
}

// Direction maps the broken pivot kind to the break direction.
func (b Break) Direction() string {
	if b.Kind == PivotHigh {
		return DirectionBullish
	}
	return DirectionBearish
}

// DetectBreaks scans every bar for a close beyond the last pivot of each
// kind by more than atr[i] * buffer. The two armed pivots are fixed up
// front and each fires at most once; there is no re-arming mid-scan. Bars
// without an ATR reading (atr <= 0) are skipped. Both sides can fire on
// the same bar, bullish first.
func DetectBreaks(bars []model.Bar, pivots []Pivot, atr []float64, buffer float64) []Break {
	var armedHigh, armedLow *Pivot
	for i := range pivots {
		switch pivots[i].Kind {
		case PivotHigh:
			armedHigh = &pivots[i]
		case PivotLow:
			armedLow = &pivots[i]
		}
	}

	var breaks []Break
	for i := range bars {
		if i >= len(atr) || atr[i] <= 0 {
			continue
		}
		buff := atr[i] * buffer
		if armedHigh != nil && bars[i].Close > armedHigh.Price+buff {
			breaks = append(breaks, Break{Index: i, Kind: PivotHigh})
			armedHigh = nil
		}
		if armedLow != nil && bars[i].Close < armedLow.Price-buff {
			breaks = append(breaks, Break{Index: i, Kind: PivotLow})
			armedLow = nil
		}
	}
	return breaks
}
