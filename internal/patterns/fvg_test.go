package patterns

import (
	"math"
	"testing"
)

func TestFVGDetectionAndClean(t *testing.T) {
	bars := barsFrom(
		[]float64{1.0, 2.2, 3.2, 3.5},
		[]float64{2.0, 3.0, 4.0, 3.8},
		[]float64{1.0, 2.2, 3.2, 3.4},
		[]float64{2.0, 3.0, 4.0, 3.6},
	)
	gaps := DetectGaps(bars, flatATR(len(bars), 1.0))
	if len(gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(gaps))
	}
	g := gaps[0]
	if g.Direction != DirectionBullish {
		t.Errorf("direction = %s, want bullish", g.Direction)
	}
	if g.Index != 2 {
		t.Errorf("index = %d, want 2", g.Index)
	}
	if g.Low != 2.0 || g.High != 3.2 {
		t.Errorf("band = [%v, %v], want [2.0, 3.2]", g.Low, g.High)
	}
	if math.Abs(g.SizeATR-1.2) > 1e-9 {
		t.Errorf("size = %v, want 1.2", g.SizeATR)
	}
	if !GapClean(bars, g) {
		t.Error("gap should be clean, no later bar re-enters the band")
	}
}

func TestFVGTouchedInvalidatesCleanFlag(t *testing.T) {
	bars := barsFrom(
		[]float64{1.0, 2.2, 3.2, 3.5, 3.0},
		[]float64{2.0, 3.0, 4.0, 3.8, 4.5},
		[]float64{1.0, 2.2, 3.2, 3.4, 2.0},
		[]float64{2.0, 3.0, 4.0, 3.6, 3.1},
	)
	gaps := DetectGaps(bars, flatATR(len(bars), 1.0))
	if len(gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(gaps))
	}
	MarkClean(gaps, bars)
	if gaps[0].Clean {
		t.Error("gap should not be clean after bar 4 trades through the band")
	}
}

func TestFVGBearish(t *testing.T) {
	bars := barsFrom(
		[]float64{5.0, 3.8, 2.8},
		[]float64{5.0, 3.8, 2.8},
		[]float64{4.0, 3.0, 2.0},
		[]float64{4.0, 3.0, 2.0},
	)
	gaps := DetectGaps(bars, flatATR(len(bars), 1.0))
	if len(gaps) != 1 {
		t.Fatalf("expected 1 bearish gap, got %d", len(gaps))
	}
	g := gaps[0]
	if g.Direction != DirectionBearish {
		t.Errorf("direction = %s, want bearish", g.Direction)
	}
	if g.Low != 2.8 || g.High != 4.0 {
		t.Errorf("band = [%v, %v], want [2.8, 4.0]", g.Low, g.High)
	}
	if g.Low >= g.High {
		t.Errorf("band must keep Low < High, got [%v, %v]", g.Low, g.High)
	}
}

func TestFVGSkipsMissingATR(t *testing.T) {
	bars := barsFrom(
		[]float64{1.0, 2.2, 3.2, 3.5},
		[]float64{2.0, 3.0, 4.0, 3.8},
		[]float64{1.0, 2.2, 3.2, 3.4},
		[]float64{2.0, 3.0, 4.0, 3.6},
	)
	atr := []float64{1.0, 0, 1.0, 1.0}
	if gaps := DetectGaps(bars, atr); len(gaps) != 0 {
		t.Errorf("expected no gaps when the middle bar has no ATR reading, got %d", len(gaps))
	}
}

func TestFVGRequiresSameColour(t *testing.T) {
	// Middle candle closes red; the imbalance alone is not enough.
	bars := barsFrom(
		[]float64{1.0, 3.0, 3.2, 3.5},
		[]float64{2.0, 3.0, 4.0, 3.8},
		[]float64{1.0, 2.2, 3.2, 3.4},
		[]float64{2.0, 2.5, 4.0, 3.6},
	)
	if gaps := DetectGaps(bars, flatATR(len(bars), 1.0)); len(gaps) != 0 {
		t.Errorf("expected no gaps with a mixed-colour middle candle, got %d", len(gaps))
	}
}

func TestFVGShortInput(t *testing.T) {
	bars := barsFrom(
		[]float64{1.0, 2.2},
		[]float64{2.0, 3.0},
		[]float64{1.0, 2.2},
		[]float64{2.0, 3.0},
	)
	if gaps := DetectGaps(bars, flatATR(len(bars), 1.0)); len(gaps) != 0 {
		t.Errorf("expected no gaps for 2 bars, got %d", len(gaps))
	}
}
