package watchlist

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var today = time.Date(2025, 8, 10, 15, 30, 0, 0, time.UTC)

func TestComputeStatuses(t *testing.T) {
	cases := []struct {
		name   string
		fair   float64
		price  float64
		upside float64
		status string
	}{
		{"undervalued", 150, 120, 25, StatusUndervalued},
		{"boundary undervalued", 120, 100, 20, StatusUndervalued},
		{"fair", 105, 100, 5, StatusFair},
		{"boundary fair low", 90.001, 100, -9.999, StatusFair},
		{"overvalued", 80, 100, -20, StatusOvervalued},
		{"boundary overvalued", 90, 100, -10, StatusOvervalued},
	}
	for _, c := range cases {
		row := Compute(Entry{Symbol: "X", FairValue: c.fair, PriceClose: c.price}, today)
		if row.Status != c.status {
			t.Errorf("%s: status = %q, want %q", c.name, row.Status, c.status)
		}
		if row.UpsidePct == nil {
			t.Fatalf("%s: upside is nil", c.name)
		}
		if diff := *row.UpsidePct - c.upside; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("%s: upside = %v, want %v", c.name, *row.UpsidePct, c.upside)
		}
	}
}

func TestComputeIncomplete(t *testing.T) {
	for _, e := range []Entry{
		{Symbol: "A", FairValue: 0, PriceClose: 100},
		{Symbol: "B", FairValue: 100, PriceClose: 0},
	} {
		row := Compute(e, today)
		if row.Status != StatusIncomplete || row.UpsidePct != nil {
			t.Errorf("%s: row = %+v, want incomplete with nil upside", e.Symbol, row)
		}
	}
}

func TestComputeEarningsSoon(t *testing.T) {
	cases := []struct {
		date string
		soon bool
	}{
		{"2025-08-10", true},
		{"2025-08-31", true},
		{"2025-09-01", false},
		{"2025-08-09", false},
		{"", false},
	}
	for _, c := range cases {
		row := Compute(Entry{Symbol: "X", EarningsNext: c.date}, today)
		if row.EarningsSoon != c.soon {
			t.Errorf("earnings %q: soon = %v, want %v", c.date, row.EarningsSoon, c.soon)
		}
	}
}

func TestCSVRecord(t *testing.T) {
	row := Compute(Entry{
		Symbol: "MCD", Name: "McDonald's Corporation",
		FairValue: 150, FairAsOf: "2025-07-01",
		PriceClose: 120, PriceAsOf: "2025-08-10",
		EarningsNext: "2025-10-25",
	}, today)
	rec := CSVRecord(row)
	if len(rec) != len(CSVHeader) {
		t.Fatalf("record has %d fields, header %d", len(rec), len(CSVHeader))
	}
	if rec[0] != "MCD" || rec[2] != "150.00" || rec[7] != "25.00" || rec[8] != StatusUndervalued {
		t.Errorf("record = %v", rec)
	}

	incomplete := Compute(Entry{Symbol: "X"}, today)
	if rec := CSVRecord(incomplete); rec[7] != "" {
		t.Errorf("incomplete upside = %q, want empty", rec[7])
	}
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.json")
	s, err := OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	if len(s.List()) != 0 {
		t.Fatalf("new store not empty: %v", s.List())
	}

	if err := s.Upsert(Entry{Symbol: "mcd", Name: "McDonald's", FairValue: 150}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.Upsert(Entry{Symbol: "AAPL", Name: "Apple", FairValue: 180}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.Upsert(Entry{Symbol: "MCD", Name: "McDonald's", FairValue: 160}); err != nil {
		t.Fatalf("Upsert replace: %v", err)
	}

	entries := s.List()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2 (upsert replaces)", len(entries))
	}
	if entries[0].Symbol != "MCD" || entries[0].FairValue != 160 {
		t.Errorf("entries[0] = %+v", entries[0])
	}

	// The file has to survive a reopen.
	reopened, err := OpenStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got, ok := reopened.Get("aapl"); !ok || got.Name != "Apple" {
		t.Errorf("Get(aapl) = %+v, %v", got, ok)
	}

	if ok, err := reopened.Delete("MCD"); err != nil || !ok {
		t.Fatalf("Delete = %v, %v", ok, err)
	}
	if ok, _ := reopened.Delete("MCD"); ok {
		t.Error("second delete reported true")
	}
	if len(reopened.List()) != 1 {
		t.Errorf("entries after delete = %v", reopened.List())
	}
}

func TestOpenStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenStore(path); err == nil {
		t.Error("want parse error")
	}
}

func TestUpsertRequiresSymbol(t *testing.T) {
	s, err := OpenStore(filepath.Join(t.TempDir(), "w.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(Entry{Name: "No Symbol"}); err == nil {
		t.Error("want error for empty symbol")
	}
}
