package scoring

import (
	"math"
	"testing"
)

func TestNormalizeShapesAgainstOptimalRange(t *testing.T) {
	p := Population.Profile()
	m := Metrics{SleepHours: 8, Steps: 8000, Mood: 4, Energy: 4}

	n := Normalize(m, p)

	// (8-7)/(8.5-7)=0.667 → 8*0.667
	wantSleep := 8 * ((8 - 7.0) / 1.5)
	if math.Abs(n.ShapedSleepHours-wantSleep) > 1e-9 {
		t.Fatalf("expected shaped sleep %v, got %v", wantSleep, n.ShapedSleepHours)
	}

	// (8000-6000)/4000=0.5 → 8000*0.5
	if math.Abs(n.ShapedSteps-4000) > 1e-9 {
		t.Fatalf("expected shaped steps 4000, got %v", n.ShapedSteps)
	}
}

func TestNormalizeCompressesOutOfRangeTowardZero(t *testing.T) {
	p := Population.Profile()

	below := Normalize(Metrics{SleepHours: 5}, p)
	if below.ShapedSleepHours != 0 {
		t.Fatalf("expected below-range sleep compressed to 0, got %v", below.ShapedSleepHours)
	}

	above := Normalize(Metrics{SleepHours: 10}, p)
	if above.ShapedSleepHours != 10 {
		t.Fatalf("expected above-range ratio clamped to 1, got %v", above.ShapedSleepHours)
	}
}

func TestNormalizeBaselineRatios(t *testing.T) {
	p := Population.Profile()
	n := Normalize(Metrics{Mood: 4, Energy: 4}, p)

	if math.Abs(n.MoodRatio-4/3.5) > 1e-9 {
		t.Fatalf("unexpected mood ratio %v", n.MoodRatio)
	}
	if math.Abs(n.EnergyRatio-4/3.5) > 1e-9 {
		t.Fatalf("unexpected energy ratio %v", n.EnergyRatio)
	}
}

func TestNormalizeZeroBaselineIsNeutral(t *testing.T) {
	p := Population.Profile()
	p.BaselineMood = 0
	p.BaselineEnergy = 0

	n := Normalize(Metrics{Mood: 4, Energy: 2}, p)
	if n.MoodRatio != 1 || n.EnergyRatio != 1 {
		t.Fatalf("expected neutral ratios for zero baselines, got %v / %v", n.MoodRatio, n.EnergyRatio)
	}
}

func TestNormalizeDegenerateRangeIsNeutral(t *testing.T) {
	p := Population.Profile()
	p.OptimalSleepMin = 8
	p.OptimalSleepMax = 8

	n := Normalize(Metrics{SleepHours: 6}, p)
	if n.ShapedSleepHours != 6 {
		t.Fatalf("expected raw value preserved for degenerate range, got %v", n.ShapedSleepHours)
	}
}

func TestNormalizeStressPassesThrough(t *testing.T) {
	n := Normalize(Metrics{Stress: 4}, Population.Profile())
	if n.Stress != 4 {
		t.Fatalf("expected stress passthrough, got %v", n.Stress)
	}
}
