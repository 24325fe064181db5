package patterns

import "sweepscan/internal/model"

// Direction values reported on breaks and gaps.
const (
	DirectionBullish = "bullish"
	DirectionBearish = "bearish"
)

// PivotKind marks whether a pivot is a swing high or a swing low.
type PivotKind string

const (
	PivotHigh PivotKind = "high"
	PivotLow  PivotKind = "low"
)

// Pivot is a local price extreme confirmed by two bars on each side.
type Pivot struct {
	Index int       `json:"index"`
	Price float64   `json:"price"`
	Kind  PivotKind `json:"kind"`
}

// DetectPivots finds swing highs and lows over a symmetric 5-bar window.
// The extreme must be strict against all four neighbors. A single bar can
// yield both kinds when highs and lows move in lockstep; the high entry
// comes first. Fewer than 5 bars yields no pivots.
func DetectPivots(bars []model.Bar) []Pivot {
	var pivots []Pivot
	for i := 2; i < len(bars)-2; i++ {
		high := bars[i].High
		low := bars[i].Low
		if high > bars[i-1].High && high > bars[i-2].High && high > bars[i+1].High && high > bars[i+2].High {
			pivots = append(pivots, Pivot{Index: i, Price: high, Kind: PivotHigh})
		}
		if low < bars[i-1].Low && low < bars[i-2].Low && low < bars[i+1].Low && low < bars[i+2].Low {
			pivots = append(pivots, Pivot{Index: i, Price: low, Kind: PivotLow})
		}
	}
	return pivots
}
