package patterns

import "sweepscan/internal/model"

// Gap is a 3-bar fair value gap. Index is the third bar of the pattern;
// the untraded band is [Low, High] with Low < High for both directions.
// Clean and Score are filled in by MarkClean and ScoreGaps after detection.
type Gap struct {
	Index     int     `json:"index"`
	Direction string  `json:"direction"`
	Low       float64 `json:"low"`
	High      float64 `json:"high"`
	SizeATR   float64 `json:"size_atr"`
	Clean     bool    `json:"clean"`
	Score     int     `json:"score"`
}

// DetectGaps finds strict 3-candle imbalances. All three candles must close
// in the same direction and the middle candle must stay clear of the band
// between the first and third. Size is the band width in units of the
// middle bar's ATR; windows where that ATR is missing are skipped rather
// than emitted unsized. At most one gap per ending position.
func DetectGaps(bars []model.Bar, atr []float64) []Gap {
	var gaps []Gap
	for i := 2; i < len(bars); i++ {
		c1, c2, c3 := bars[i-2], bars[i-1], bars[i]
		up := c1.Close > c1.Open && c2.Close > c2.Open && c3.Close > c3.Open
		down := c1.Close < c1.Open && c2.Close < c2.Open && c3.Close < c3.Open
		if !up && !down {
			continue
		}

		var gapLow, gapHigh float64
		var direction string
		if up && c1.High < c3.Low && c2.Low > c1.High && c2.High < c3.Low {
			gapLow, gapHigh, direction = c1.High, c3.Low, DirectionBullish
		} else if down && c1.Low > c3.High && c2.High < c1.Low && c2.Low > c3.High {
			gapLow, gapHigh, direction = c3.High, c1.Low, DirectionBearish
		} else {
			continue
		}

		if i-1 >= len(atr) || atr[i-1] <= 0 {
			continue
		}
		gaps = append(gaps, Gap{
			Index:     i,
			Direction: direction,
			Low:       gapLow,
			High:      gapHigh,
			SizeATR:   (gapHigh - gapLow) / atr[i-1],
		})
	}
	return gaps
}

// GapClean reports whether no bar after the gap's third candle re-entered
// the [Low, High] band. A bar overlaps when bar.Low <= High and
// bar.High >= Low; scanning stops at the first overlap.
func GapClean(bars []model.Bar, gap Gap) bool {
	for i := gap.Index + 1; i < len(bars); i++ {
		if bars[i].Low <= gap.High && bars[i].High >= gap.Low {
			return false
		}
	}
	return true
}

// MarkClean fills the Clean flag on each gap in place. Only valid against
// a finished batch: cleanliness is a property of the whole suffix.
func MarkClean(gaps []Gap, bars []model.Bar) {
	for i := range gaps {
		gaps[i].Clean = GapClean(bars, gaps[i])
	}
}
