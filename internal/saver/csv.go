package saver

import (
	"encoding/csv"
	"os"
	"strconv"

	"sweepscan/internal/model"
)

// CSVSaver writes packets as CSV (raw header: t,o,h,l,c,v,vw,n).
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) SaveBars(bars []model.Bar, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"t", "o", "h", "l", "c", "v", "vw", "n"}); err != nil {
		return err
	}
	for _, b := range bars {
		if err := w.Write(barRecord(b)); err != nil {
			return err
		}
	}
	return nil
}

func (CSVSaver) SaveEnriched(bars []model.EnrichedBar, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"t", "o", "h", "l", "c", "v", "vw", "n", "atr", "rvol", "svwap", "session"}); err != nil {
		return err
	}
	for _, b := range bars {
		rec := append(barRecord(b.Bar),
			floatStr(b.ATR),
			floatStr(b.RVol),
			floatStr(b.SessionVWAP),
			string(b.Session),
		)
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func barRecord(b model.Bar) []string {
	return []string{
		strconv.FormatInt(b.Timestamp, 10),
		floatStr(b.Open),
		floatStr(b.High),
		floatStr(b.Low),
		floatStr(b.Close),
		strconv.FormatInt(b.Volume, 10),
		floatStr(b.VWAP),
		strconv.FormatInt(b.Transactions, 10),
	}
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
