package model

// Session is the time-of-day bucket of a bar in exchange time.
type Session string

const (
	SessionAM    Session = "AM"
	SessionLunch Session = "LUNCH"
	SessionPM    Session = "PM"
	SessionOther Session = "OTHER"
)

// EnrichedBar is a Bar with derived columns attached.
// ATR and RVol are 0 while the rolling window is still warming up;
// consumers must treat values <= 0 as undefined.
type EnrichedBar struct {
	Bar
	ATR         float64 `json:"atr" parquet:"atr"`
	RVol        float64 `json:"rvol" parquet:"rvol"`
	SessionVWAP float64 `json:"svwap" parquet:"svwap"`
	Session     Session `json:"session" parquet:"session"`
}
