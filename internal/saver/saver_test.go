package saver

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"sweepscan/internal/model"
)

func testBars() []model.Bar {
	return []model.Bar{
		{Timestamp: 1700000000000, Open: 1.5, High: 2, Low: 1, Close: 1.8, Volume: 100, VWAP: 1.6, Transactions: 7},
		{Timestamp: 1700000060000, Open: 1.8, High: 2.2, Low: 1.7, Close: 2.1, Volume: 250},
	}
}

func TestNewPacketSaverFormats(t *testing.T) {
	for _, format := range []string{"csv", "CSV", " json ", "parquet"} {
		if NewPacketSaver(format) == nil {
			t.Errorf("NewPacketSaver(%q) = nil, want saver", format)
		}
	}
	if s := NewPacketSaver("xlsx"); s != nil {
		t.Errorf("NewPacketSaver(xlsx) = %T, want nil", s)
	}
}

func TestCSVSaverRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.csv")
	if err := (CSVSaver{}).SaveBars(testBars(), path); err != nil {
		t.Fatalf("SaveBars: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "t" || rows[0][7] != "n" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "1.5" || rows[2][5] != "250" {
		t.Errorf("data rows = %v / %v", rows[1], rows[2])
	}
}

func TestCSVSaverEnrichedColumns(t *testing.T) {
	bars := []model.EnrichedBar{
		{Bar: testBars()[0], ATR: 0.5, RVol: 1.2, SessionVWAP: 1.55, Session: model.SessionAM},
	}
	path := filepath.Join(t.TempDir(), "clean.csv")
	if err := (CSVSaver{}).SaveEnriched(bars, path); err != nil {
		t.Fatalf("SaveEnriched: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if got := rows[0][11]; got != "session" {
		t.Errorf("last header column = %q, want session", got)
	}
	if rows[1][8] != "0.5" || rows[1][11] != "AM" {
		t.Errorf("enriched row = %v", rows[1])
	}
}

func TestJSONSaverDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.json")
	if err := (JSONSaver{}).SaveBars(testBars(), path); err != nil {
		t.Fatalf("SaveBars: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got []model.Bar
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 || got[0].Close != 1.8 {
		t.Errorf("decoded = %+v", got)
	}
}
