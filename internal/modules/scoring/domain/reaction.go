package domain

import (
	"math"
	"sort"
	"time"
)

// ReactionSample is one tap in a reaction test.
type ReactionSample struct {
	StimulusShownAt time.Time `json:"stimulus_shown_at"`
	RespondedAt     time.Time `json:"responded_at"`
}

// ReactionTimeMS is the stimulus-to-response latency in fractional milliseconds.
func (s ReactionSample) ReactionTimeMS() float64 {
	return float64(s.RespondedAt.Sub(s.StimulusShownAt)) / float64(time.Millisecond)
}

// SampleFromMS builds a sample shown at base whose latency is ms.
func SampleFromMS(base time.Time, ms float64) ReactionSample {
	return ReactionSample{
		StimulusShownAt: base,
		RespondedAt:     base.Add(time.Duration(ms * float64(time.Millisecond))),
	}
}

type ReactionTestResult struct {
	Score    int `json:"score"`
	MedianMS int `json:"median_ms"`
	MeanMS   int `json:"mean_ms"`
	BestMS   int `json:"best_ms"`
	WorstMS  int `json:"worst_ms"`
}

// ComputeReactionScore summarises a test. Non-positive latencies are dropped;
// with nothing left the result is all zeros. The median is the lower middle
// element and a 200ms median scores 1000.
func ComputeReactionScore(samples []ReactionSample) ReactionTestResult {
	times := make([]float64, 0, len(samples))
	for _, s := range samples {
		if ms := s.ReactionTimeMS(); ms > 0 {
			times = append(times, ms)
		}
	}
	if len(times) == 0 {
		return ReactionTestResult{}
	}
	sort.Float64s(times)

	median := times[len(times)/2]
	sum := 0.0
	for _, ms := range times {
		sum += ms
	}
	mean := sum / float64(len(times))

	return ReactionTestResult{
		Score:    Round(1000 / median * 200),
		MedianMS: Round(median),
		MeanMS:   Round(mean),
		BestMS:   Round(times[0]),
		WorstMS:  Round(times[len(times)-1]),
	}
}

// Round rounds half-way values toward positive infinity, so -2.5 becomes -2.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}
