package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sweepscan/internal/indicators"
	"sweepscan/internal/model"
	"sweepscan/internal/patterns"
	"sweepscan/internal/saver"
)

// Options configures one scan run. Zero values fall back to the
// standard ATR(14) / RVol(20) windows and UTC session labels.
type Options struct {
	From        time.Time
	To          time.Time
	SessionOnly bool
	Loc         *time.Location
	ATRPeriod   int
	RVolPeriod  int
	BOSBuffer   float64
	Weights     patterns.Weights

	// RawDir and CleanDir receive one file per symbol when set together
	// with Saver.
	RawDir   string
	CleanDir string
	Saver    saver.PacketSaver
}

func (o Options) withDefaults() Options {
	if o.ATRPeriod <= 0 {
		o.ATRPeriod = 14
	}
	if o.RVolPeriod <= 0 {
		o.RVolPeriod = 20
	}
	if o.Loc == nil {
		o.Loc = time.UTC
	}
	return o
}

// Result is the full detector output for one symbol.
type Result struct {
	Symbol  string
	Bars    int
	Pivots  []patterns.Pivot
	Sweeps  []int
	Breaks  []patterns.Break
	Gaps    []patterns.Gap
	Signals []model.SignalRow
}

// fetchFunc fetches bars for one symbol. Workers bind an API key in here.
type fetchFunc func(ticker string, from, to time.Time) ([]model.Bar, error)

// ProcessSymbol runs the full pipeline for one symbol: fetch, persist raw,
// session-filter, enrich, persist clean, detect and score.
func ProcessSymbol(symbol string, fetch fetchFunc, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	bars, err := fetch(symbol, opts.From, opts.To)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	if err := saveRaw(symbol, bars, opts); err != nil {
		return nil, err
	}

	if opts.SessionOnly {
		bars = indicators.FilterSession(bars, opts.Loc)
	}

	enriched := indicators.Enrich(bars, opts.ATRPeriod, opts.RVolPeriod, opts.Loc)
	if err := saveClean(symbol, enriched, opts); err != nil {
		return nil, err
	}

	atr := make([]float64, len(enriched))
	sessions := make([]model.Session, len(enriched))
	for i, b := range enriched {
		atr[i] = b.ATR
		sessions[i] = b.Session
	}

	pivots := patterns.DetectPivots(bars)
	sweeps := patterns.DetectSweeps(bars, pivots)
	breaks := patterns.DetectBreaks(bars, pivots, atr, opts.BOSBuffer)

	gaps := patterns.DetectGaps(bars, atr)
	patterns.MarkClean(gaps, bars)
	patterns.ScoreGaps(gaps, sessions, opts.Weights)

	signals := make([]model.SignalRow, len(gaps))
	for i, g := range gaps {
		signals[i] = model.SignalRow{
			Symbol:    symbol,
			Index:     g.Index,
			Direction: g.Direction,
			Low:       g.Low,
			High:      g.High,
			SizeATR:   g.SizeATR,
			Clean:     g.Clean,
			Score:     g.Score,
		}
	}

	return &Result{
		Symbol:  symbol,
		Bars:    len(bars),
		Pivots:  pivots,
		Sweeps:  sweeps,
		Breaks:  breaks,
		Gaps:    gaps,
		Signals: signals,
	}, nil
}

func saveRaw(symbol string, bars []model.Bar, opts Options) error {
	if opts.RawDir == "" || opts.Saver == nil || len(bars) == 0 {
		return nil
	}
	if err := os.MkdirAll(opts.RawDir, 0755); err != nil {
		return fmt.Errorf("create raw dir: %w", err)
	}
	path := filepath.Join(opts.RawDir, symbol+"."+opts.Saver.Extension())
	if err := opts.Saver.SaveBars(bars, path); err != nil {
		return fmt.Errorf("save raw %s: %w", symbol, err)
	}
	return nil
}

func saveClean(symbol string, bars []model.EnrichedBar, opts Options) error {
	if opts.CleanDir == "" || opts.Saver == nil || len(bars) == 0 {
		return nil
	}
	if err := os.MkdirAll(opts.CleanDir, 0755); err != nil {
		return fmt.Errorf("create clean dir: %w", err)
	}
	path := filepath.Join(opts.CleanDir, symbol+"."+opts.Saver.Extension())
	if err := opts.Saver.SaveEnriched(bars, path); err != nil {
		return fmt.Errorf("save clean %s: %w", symbol, err)
	}
	return nil
}
