package analytics

// intensitySteps are the minimum daily counts for intensities 1 through 5.
var intensitySteps = []int{1, 3, 5, 7, 10}

// Intensity maps a day's session count to a 0-5 heatmap weight. Thresholds
// are checked in ascending order so the highest one met wins.
func Intensity(count int) int {
	level := 0
	for i, min := range intensitySteps {
		if count >= min {
			level = i + 1
		}
	}
	return level
}

// Percent returns part as a percentage of total, or 0 when total is zero.
func Percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}
