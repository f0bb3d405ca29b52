package scoring

import (
	"strings"
	"testing"
)

func TestEvaluateFlagsBalancedDay(t *testing.T) {
	m := Metrics{SleepHours: 8, SleepQuality: 5, Steps: 8000, ActiveMinutes: 30, Mood: 4, Stress: 2, Energy: 4}

	flags := EvaluateFlags(m, 0, 0)
	if len(flags) != 0 {
		t.Fatalf("expected no flags, got %v", flags)
	}

	reasons := Reasons(m, flags)
	if len(reasons) != 1 || reasons[0] != "balanced day" {
		t.Fatalf("expected default reason, got %v", reasons)
	}
}

func TestEvaluateFlagsBurnoutScenario(t *testing.T) {
	m := Metrics{SleepHours: 4, Stress: 5, Steps: 1000, Mood: 2, Energy: 2}

	flags := EvaluateFlags(m, 0.2, -18)
	for _, name := range []string{FlagLowSleep, FlagHighStress, FlagLowActivity, FlagDecliningTrend, FlagBurnoutRisk} {
		if !flags[name] {
			t.Fatalf("expected flag %s, got %v", name, flags)
		}
	}
	if flags[FlagImprovingTrend] || flags[FlagAnomalyDetected] {
		t.Fatalf("unexpected flags set: %v", flags)
	}

	reasons := Reasons(m, flags)
	if len(reasons) > 3 {
		t.Fatalf("expected at most 3 reasons, got %v", reasons)
	}
	if !strings.Contains(reasons[0], "insufficient sleep (4.0h)") {
		t.Fatalf("expected insufficient sleep reason first, got %v", reasons)
	}
}

func TestEvaluateFlagsBurnoutNeedsAllThree(t *testing.T) {
	m := Metrics{SleepHours: 4, Stress: 5, Steps: 9000}

	flags := EvaluateFlags(m, 0, 0)
	if flags[FlagBurnoutRisk] {
		t.Fatalf("burnout must require a declining trend, got %v", flags)
	}
}

func TestEvaluateFlagsTrendAndAnomaly(t *testing.T) {
	m := Metrics{SleepHours: 7, Stress: 2, Steps: 8000}

	flags := EvaluateFlags(m, 0.8, 16)
	if !flags[FlagImprovingTrend] || !flags[FlagAnomalyDetected] {
		t.Fatalf("expected improving_trend and anomaly_detected, got %v", flags)
	}

	// 0.7 是开区间边界
	flags = EvaluateFlags(m, 0.7, 0)
	if flags[FlagAnomalyDetected] {
		t.Fatalf("anomaly flag requires score > 0.7, got %v", flags)
	}
}

func TestSuggestionsDeficitsAndOrdering(t *testing.T) {
	p := Population.Profile()
	m := Metrics{SleepHours: 6, Steps: 4000, Stress: 4}
	flags := EvaluateFlags(m, 0, -20)

	items := Suggestions(m, p, flags)
	if len(items) != 3 {
		t.Fatalf("expected suggestions capped at 3, got %d", len(items))
	}
	if items[0].Key != SuggestionSleepDeficit {
		t.Fatalf("expected sleep deficit first, got %v", items[0])
	}
	if !strings.Contains(items[0].Text, "1.0 more hours") {
		t.Fatalf("expected 1.0h deficit phrasing, got %q", items[0].Text)
	}
	if items[1].Key != SuggestionActivityDeficit {
		t.Fatalf("expected activity deficit second, got %v", items[1])
	}
	if !strings.Contains(items[1].Text, "2000 steps") {
		t.Fatalf("expected 2000-step gap phrasing, got %q", items[1].Text)
	}
}

func TestSuggestionsStressReliefFollowsChronotype(t *testing.T) {
	m := Metrics{SleepHours: 8, Steps: 9000, Stress: 5}
	flags := EvaluateFlags(m, 0, 0)

	morning := Population.Profile()
	morning.Chronotype = ChronotypeMorning
	items := Suggestions(m, morning, flags)
	if len(items) != 1 || !strings.Contains(items[0].Text, "breathing") {
		t.Fatalf("expected breathing exercise for morning chronotype, got %v", items)
	}

	evening := Population.Profile()
	evening.Chronotype = ChronotypeEvening
	items = Suggestions(m, evening, flags)
	if len(items) != 1 || !strings.Contains(items[0].Text, "meditation") {
		t.Fatalf("expected evening meditation, got %v", items)
	}
}

func TestSuggestionsRoutineOnDecline(t *testing.T) {
	m := Metrics{SleepHours: 8, Steps: 9000, Stress: 1}
	flags := EvaluateFlags(m, 0, -15)

	items := Suggestions(m, Population.Profile(), flags)
	if len(items) != 1 || items[0].Key != SuggestionRoutine {
		t.Fatalf("expected routine consistency suggestion, got %v", items)
	}
}

func TestConfidenceAndPersonalBaseline(t *testing.T) {
	if got := Confidence(0); got != 0 {
		t.Fatalf("expected confidence 0, got %v", got)
	}
	if got := Confidence(15); got != 0.5 {
		t.Fatalf("expected confidence 0.5, got %v", got)
	}
	if got := Confidence(90); got != 1 {
		t.Fatalf("expected confidence capped at 1, got %v", got)
	}

	if got := PersonalBaseline(Population.Profile()); got != 70 {
		t.Fatalf("expected personal baseline 70, got %v", got)
	}
}
