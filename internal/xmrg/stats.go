package xmrg

// Summary aggregates the measured cells of a grid.
type Summary struct {
	Cells int     `json:"cells"`
	Valid int     `json:"valid"`
	Mean  float64 `json:"mean_mm"`
	Max   float64 `json:"max_mm"`
}

// Summarize computes the mean and maximum over cells with a measurement.
// A grid without measured cells reports NoData for both.
func Summarize(g *Grid) Summary {
	s := Summary{Mean: NoData, Max: NoData}
	var sum float64
	for v := range g.Values() {
		s.Cells++
		if v < 0 {
			continue
		}
		s.Valid++
		sum += v
		if v > s.Max {
			s.Max = v
		}
	}
	if s.Valid > 0 {
		s.Mean = sum / float64(s.Valid)
	}
	return s
}
