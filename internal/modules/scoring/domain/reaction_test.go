package domain_test

import (
	"testing"
	"time"

	"dawn/internal/modules/scoring/domain"
)

var base = time.Date(2026, 3, 1, 6, 30, 0, 0, time.UTC)

func samples(ms ...float64) []domain.ReactionSample {
	out := make([]domain.ReactionSample, 0, len(ms))
	for i, v := range ms {
		out = append(out, domain.SampleFromMS(base.Add(time.Duration(i)*time.Second), v))
	}
	return out
}

func TestComputeReactionScoreEmpty(t *testing.T) {
	t.Parallel()
	if got := domain.ComputeReactionScore(nil); got != (domain.ReactionTestResult{}) {
		t.Fatalf("expected zero result, got %+v", got)
	}
	if got := domain.ComputeReactionScore(samples(0, -15)); got != (domain.ReactionTestResult{}) {
		t.Fatalf("expected zero result for invalid samples, got %+v", got)
	}
}

func TestComputeReactionScoreStats(t *testing.T) {
	t.Parallel()
	got := domain.ComputeReactionScore(samples(300, 200, 250, 0, 400))
	want := domain.ReactionTestResult{Score: 667, MedianMS: 300, MeanMS: 288, BestMS: 200, WorstMS: 400}
	if got != want {
		t.Fatalf("unexpected result: got %+v want %+v", got, want)
	}
}

func TestComputeReactionScoreLowerMedianForEvenCount(t *testing.T) {
	t.Parallel()
	got := domain.ComputeReactionScore(samples(400, 200, 250, 300))
	if got.MedianMS != 300 {
		t.Fatalf("expected sorted[n/2]=300, got %d", got.MedianMS)
	}
	if got.Score != 667 {
		t.Fatalf("expected score 667, got %d", got.Score)
	}
}

func TestComputeReactionScoreUsesUnroundedMedian(t *testing.T) {
	t.Parallel()
	got := domain.ComputeReactionScore(samples(200.4))
	if got.MedianMS != 200 {
		t.Fatalf("median should round to 200, got %d", got.MedianMS)
	}
	if got.Score != 998 {
		t.Fatalf("score should come from 200.4ms, got %d", got.Score)
	}
}

func TestComputeReactionScoreOrdering(t *testing.T) {
	t.Parallel()
	sets := [][]float64{
		{180},
		{220, 190, 510, 330, 275},
		{1200, 90, 300, 300},
		{250.5, 250.4, 249.6},
	}
	for _, set := range sets {
		got := domain.ComputeReactionScore(samples(set...))
		if got.BestMS > got.MedianMS || got.MedianMS > got.WorstMS {
			t.Fatalf("ordering broken for %v: %+v", set, got)
		}
		if got.Score == 0 {
			t.Fatalf("valid samples must score: %v", set)
		}
	}
}

func TestRoundHalfTowardPositiveInfinity(t *testing.T) {
	t.Parallel()
	cases := map[float64]int{2.5: 3, -2.5: -2, 0.49: 0, -0.5: 0, -0.51: -1, 22.5: 23}
	for in, want := range cases {
		if got := domain.Round(in); got != want {
			t.Fatalf("Round(%v) = %d, want %d", in, got, want)
		}
	}
}
