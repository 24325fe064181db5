package indicators

import (
	"time"

	"sweepscan/internal/model"
)

// Minutes since midnight for the session boundaries (exchange time).
const (
	sessionOpenMin  = 9*60 + 30  // 09:30
	sessionCloseMin = 16 * 60    // 16:00
	amEndMin        = 11 * 60    // 11:00
	lunchStartMin   = 11*60 + 30 // 11:30
	lunchEndMin     = 13 * 60    // 13:00
	pmStartMin      = 13*60 + 30 // 13:30
	pmEndMin        = 15*60 + 30 // 15:30
)

func minuteOfDay(ts int64, loc *time.Location) int {
	t := time.UnixMilli(ts).In(loc)
	return t.Hour()*60 + t.Minute()
}

// SessionLabel buckets a timestamp into AM/LUNCH/PM/OTHER in loc.
// The gaps 11:00-11:30 and 13:00-13:30 deliberately fall into OTHER.
func SessionLabel(ts int64, loc *time.Location) model.Session {
	m := minuteOfDay(ts, loc)
	switch {
	case m >= sessionOpenMin && m < amEndMin:
		return model.SessionAM
	case m >= lunchStartMin && m < lunchEndMin:
		return model.SessionLunch
	case m >= pmStartMin && m < pmEndMin:
		return model.SessionPM
	default:
		return model.SessionOther
	}
}

// FilterSession keeps bars inside the regular session 09:30-16:00 in loc,
// both endpoints inclusive.
func FilterSession(bars []model.Bar, loc *time.Location) []model.Bar {
	out := make([]model.Bar, 0, len(bars))
	for _, b := range bars {
		m := minuteOfDay(b.Timestamp, loc)
		if m >= sessionOpenMin && m <= sessionCloseMin {
			out = append(out, b)
		}
	}
	return out
}
