package domain_test

import (
	"testing"

	"dawn/internal/modules/scoring/domain"
)

func TestComputeImprovement(t *testing.T) {
	t.Parallel()
	cases := []struct {
		pre, post int
		want      domain.Improvement
	}{
		{100, 100, domain.Improvement{Delta: 0, PercentChange: 0, Improved: false}},
		{100, 150, domain.Improvement{Delta: 50, PercentChange: 50, Improved: true}},
		{800, 780, domain.Improvement{Delta: -20, PercentChange: -2, Improved: false}},
		{0, 500, domain.Improvement{Delta: 500, PercentChange: 0, Improved: true}},
	}
	for _, tc := range cases {
		if got := domain.ComputeImprovement(tc.pre, tc.post); got != tc.want {
			t.Fatalf("ComputeImprovement(%d, %d) = %+v, want %+v", tc.pre, tc.post, got, tc.want)
		}
	}
}

func TestEstimateMinutesSaved(t *testing.T) {
	t.Parallel()
	cases := []struct {
		pre, post, day int
		want           int
	}{
		{100, 150, 0, 23},
		{100, 150, 20, 30},
		{100, 100, 5, 0},
		{100, 90, 5, 0},
		{800, 880, 0, 5},
		{800, 880, 4, 5},
		{0, 500, 3, 0},
	}
	for _, tc := range cases {
		if got := domain.EstimateMinutesSaved(tc.pre, tc.post, tc.day); got != tc.want {
			t.Fatalf("EstimateMinutesSaved(%d, %d, %d) = %d, want %d", tc.pre, tc.post, tc.day, got, tc.want)
		}
	}
}

func TestEstimateMinutesSavedBounds(t *testing.T) {
	t.Parallel()
	for pre := 100; pre <= 1000; pre += 150 {
		for post := 50; post <= 1500; post += 175 {
			for day := 0; day < 30; day += 3 {
				got := domain.EstimateMinutesSaved(pre, post, day)
				if got < 0 || got > 30 {
					t.Fatalf("out of range for (%d,%d,%d): %d", pre, post, day, got)
				}
			}
		}
	}
}

func TestRecentDeltasSkipsIncompletePairs(t *testing.T) {
	t.Parallel()
	v := func(n int) *int { return &n }
	got := domain.RecentDeltas([]domain.ScorePair{
		{Pre: v(700), Post: v(760)},
		{Pre: v(700), Post: nil},
		{Pre: nil, Post: v(800)},
		{Pre: v(900), Post: v(850)},
	})
	if len(got) != 2 || got[0] != 60 || got[1] != -50 {
		t.Fatalf("unexpected deltas: %v", got)
	}
}
