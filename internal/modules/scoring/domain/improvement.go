package domain

import "math"

const (
	baselineGrogginessMinutes = 45
	maxImprovementFactor      = 0.5
	dayMultiplierStep         = 0.05
	maxDayMultiplier          = 1.5
	maxMinutesSaved           = 30
)

type Improvement struct {
	Delta         int  `json:"delta"`
	PercentChange int  `json:"percent_change"`
	Improved      bool `json:"improved"`
}

// ComputeImprovement compares two scores. A zero pre score reports a zero
// percent change even when the post score is higher.
func ComputeImprovement(pre, post int) Improvement {
	delta := post - pre
	pct := 0
	if pre > 0 {
		pct = Round(float64(delta) / float64(pre) * 100)
	}
	return Improvement{Delta: delta, PercentChange: pct, Improved: delta > 0}
}

// EstimateMinutesSaved converts an improvement into minutes of morning
// grogginess avoided. Later days in the program weigh more, up to 1.5x.
func EstimateMinutesSaved(pre, post, dayIndex int) int {
	imp := ComputeImprovement(pre, post)
	if !imp.Improved {
		return 0
	}
	factor := math.Min(float64(imp.PercentChange)/100, maxImprovementFactor)
	multiplier := math.Min(1+float64(dayIndex)*dayMultiplierStep, maxDayMultiplier)
	minutes := Round(baselineGrogginessMinutes * factor * multiplier)
	if minutes < 0 {
		return 0
	}
	if minutes > maxMinutesSaved {
		return maxMinutesSaved
	}
	return minutes
}

// ScorePair is the pre/post score of one session; either side may be missing.
type ScorePair struct {
	Pre  *int
	Post *int
}

// RecentDeltas keeps the pairs with both scores and returns post minus pre in
// the order given.
func RecentDeltas(pairs []ScorePair) []int {
	deltas := make([]int, 0, len(pairs))
	for _, p := range pairs {
		if p.Pre == nil || p.Post == nil {
			continue
		}
		deltas = append(deltas, *p.Post-*p.Pre)
	}
	return deltas
}
