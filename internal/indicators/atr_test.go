package indicators

import (
	"math"
	"testing"

	"sweepscan/internal/model"
)

func constantRangeBars(n int) []model.Bar {
	bars := make([]model.Bar, n)
	for i := range bars {
		bars[i] = model.Bar{
			Timestamp: int64(i) * 60_000,
			Open:      1.5, High: 2.0, Low: 1.0, Close: 1.5,
			Volume: 100,
		}
	}
	return bars
}

func TestATRWarmupIsZero(t *testing.T) {
	bars := constantRangeBars(20)
	atr := ATR(bars, 14)
	if len(atr) != 20 {
		t.Fatalf("expected 20 values, got %d", len(atr))
	}
	for i := 0; i < 13; i++ {
		if atr[i] != 0 {
			t.Errorf("atr[%d] = %v, want 0 during warmup", i, atr[i])
		}
	}
	for i := 13; i < 20; i++ {
		if math.Abs(atr[i]-1.0) > 1e-9 {
			t.Errorf("atr[%d] = %v, want 1.0", i, atr[i])
		}
	}
}

func TestATRShortInput(t *testing.T) {
	bars := constantRangeBars(5)
	atr := ATR(bars, 14)
	for i, v := range atr {
		if v != 0 {
			t.Errorf("atr[%d] = %v, want 0 for input shorter than period", i, v)
		}
	}
}

func TestATRUsesPreviousClose(t *testing.T) {
	// Second bar gaps up: TR = |high - prev close| dominates plain range.
	bars := []model.Bar{
		{Open: 1.5, High: 2.0, Low: 1.0, Close: 1.5},
		{Open: 5.0, High: 5.5, Low: 4.5, Close: 5.0},
	}
	atr := ATR(bars, 2)
	// tr[0] = 1.0, tr[1] = |5.5 - 1.5| = 4.0 => atr[1] = 2.5
	if math.Abs(atr[1]-2.5) > 1e-9 {
		t.Errorf("atr[1] = %v, want 2.5", atr[1])
	}
}

func TestRVolWarmupAndSpike(t *testing.T) {
	bars := constantRangeBars(10)
	bars[9].Volume = 200
	rvol := RVol(bars, 4)
	for i := 0; i < 3; i++ {
		if rvol[i] != 0 {
			t.Errorf("rvol[%d] = %v, want 0 during warmup", i, rvol[i])
		}
	}
	if math.Abs(rvol[8]-1.0) > 1e-9 {
		t.Errorf("rvol[8] = %v, want 1.0 for flat volume", rvol[8])
	}
	// Window at 9: mean(100,100,100,200) = 125 => 200/125 = 1.6
	if math.Abs(rvol[9]-1.6) > 1e-9 {
		t.Errorf("rvol[9] = %v, want 1.6 after spike", rvol[9])
	}
}
