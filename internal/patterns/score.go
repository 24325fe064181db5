package patterns

import "sweepscan/internal/model"

// Weights configures the additive gap score. A zero value is the same as
// an absent weight; any real values are accepted without validation.
type Weights struct {
	CleanFVG       float64 `yaml:"clean_fvg" json:"clean_fvg"`
	FVGSize        float64 `yaml:"fvg_size" json:"fvg_size"`
	SessionQuality float64 `yaml:"session_quality" json:"session_quality"`
}

// Size bands for the fvg_size weight, in ATR multiples.
const (
	sizeFullLow  = 0.2
	sizeFullHigh = 0.8
	sizeHalfLow  = 0.1
	sizeHalfHigh = 1.2
)

// ScoreGap sums the weight contributions for one gap and truncates the
// total toward zero (no rounding). Sizes in [0.2, 0.8] earn the full size
// weight, [0.1, 0.2) and (0.8, 1.2] half of it, anything else nothing.
// AM and PM sessions earn the session weight.
func ScoreGap(gap Gap, session model.Session, w Weights) int {
	var score float64
	if gap.Clean {
		score += w.CleanFVG
	}
	size := gap.SizeATR
	switch {
	case size >= sizeFullLow && size <= sizeFullHigh:
		score += w.FVGSize
	case (size >= sizeHalfLow && size < sizeFullLow) || (size > sizeFullHigh && size <= sizeHalfHigh):
		score += w.FVGSize / 2
	}
	if session == model.SessionAM || session == model.SessionPM {
		score += w.SessionQuality
	}
	return int(score)
}

// ScoreGaps fills Score on each gap using the session label at its index.
// Gaps indexed past the session slice score with no session contribution.
func ScoreGaps(gaps []Gap, sessions []model.Session, w Weights) {
	for i := range gaps {
		var s model.Session
		if gaps[i].Index >= 0 && gaps[i].Index < len(sessions) {
			s = sessions[gaps[i].Index]
		}
		gaps[i].Score = ScoreGap(gaps[i], s, w)
	}
}
