package analysis

import "math"

// neutralScore is substituted whenever a sub-check cannot complete.
// The engine never throws for "can't analyze" - it degrades to neutral.
const neutralScore = 5.0

// round1 rounds to one decimal place. Every score the engine emits goes
// through this so persisted values stay comparable across runs.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// clampScore bounds a score to the [0,10] scale and rounds it.
func clampScore(v float64) float64 {
	if v < 0 {
		v = 0
	}
	if v > 10 {
		v = 10
	}
	return round1(v)
}

// round2 rounds a ratio to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func mean(vs ...float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
