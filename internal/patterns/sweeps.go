package patterns

import "sweepscan/internal/model"

// DetectSweeps returns positions where a bar wicked beyond a prior pivot
// but closed back inside it. A bar sweeping several pivots of one kind is
// counted once against the earliest-created pivot; a bar can sweep a high
// and a low yet still appears once. Results are ascending, no duplicates.
func DetectSweeps(bars []model.Bar, pivots []Pivot) []int {
	var pivotHighs, pivotLows []Pivot
	for _, p := range pivots {
		if p.Kind == PivotHigh {
			pivotHighs = append(pivotHighs, p)
		} else {
			pivotLows = append(pivotLows, p)
		}
	}

	var indices []int
	for i := 1; i < len(bars); i++ {
		bar := bars[i]
		added := false
		for _, p := range pivotHighs {
			if i <= p.Index {
				continue
			}
			if bar.High > p.Price && bar.Close < p.Price {
				indices = append(indices, i)
				added = true
				break
			}
		}
		for _, p := range pivotLows {
			if i <= p.Index {
				continue
			}
			if bar.Low < p.Price && bar.Close > p.Price {
				if !added {
					indices = append(indices, i)
				}
				break
			}
		}
	}
	return indices
}
