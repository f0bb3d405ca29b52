package scoring

import "fmt"

// 条件标志键，与客户端约定
const (
	FlagLowSleep        = "low_sleep"
	FlagHighStress      = "high_stress"
	FlagLowActivity     = "low_activity"
	FlagDecliningTrend  = "declining_trend"
	FlagImprovingTrend  = "improving_trend"
	FlagAnomalyDetected = "anomaly_detected"
	FlagBurnoutRisk     = "burnout_risk"
)

// 标志判定阈值
const (
	lowSleepHours        = 6.0
	highStressLevel      = 4.0
	lowActivitySteps     = 3000.0
	trendSwingThreshold  = 15
	anomalyFlagThreshold = 0.7
	maxReasons           = 3
	maxSuggestions       = 3
)

// EvaluateFlags 依据当日原始指标、异常分与 7 天趋势判定条件标志。
// 只写入命中的条件；burnout_risk 在基础标志之后派生。
func EvaluateFlags(m Metrics, anomalyScore float64, trend7 int) map[string]bool {
	flags := make(map[string]bool)

	if m.SleepHours < lowSleepHours {
		flags[FlagLowSleep] = true
	}
	if m.Stress >= highStressLevel {
		flags[FlagHighStress] = true
	}
	if m.Steps < lowActivitySteps {
		flags[FlagLowActivity] = true
	}
	if trend7 <= -trendSwingThreshold {
		flags[FlagDecliningTrend] = true
	}
	if trend7 >= trendSwingThreshold {
		flags[FlagImprovingTrend] = true
	}
	if anomalyScore > anomalyFlagThreshold {
		flags[FlagAnomalyDetected] = true
	}

	if flags[FlagLowSleep] && flags[FlagHighStress] && flags[FlagDecliningTrend] {
		flags[FlagBurnoutRisk] = true
	}

	return flags
}

// Reasons 按固定优先级生成至多 3 条可读解释；无命中时返回 "balanced day"。
func Reasons(m Metrics, flags map[string]bool) []string {
	reasons := make([]string, 0, maxReasons)

	if flags[FlagLowSleep] {
		reasons = append(reasons, fmt.Sprintf("insufficient sleep (%.1fh)", m.SleepHours))
	}
	if flags[FlagHighStress] {
		reasons = append(reasons, "elevated stress level")
	}
	if flags[FlagLowActivity] {
		reasons = append(reasons, "low daily activity")
	}
	if flags[FlagImprovingTrend] {
		reasons = append(reasons, "scores trending upward this week")
	}
	if flags[FlagDecliningTrend] {
		reasons = append(reasons, "scores trending downward this week")
	}
	if flags[FlagBurnoutRisk] {
		reasons = append(reasons, "burnout risk: poor sleep with sustained stress")
	}

	if len(reasons) == 0 {
		return []string{"balanced day"}
	}
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	return reasons
}

// 建议键，作为 (user, date, key) 幂等 upsert 的稳定标识
const (
	SuggestionSleepDeficit    = "sleep_deficit"
	SuggestionActivityDeficit = "activity_deficit"
	SuggestionStressRelief    = "stress_relief"
	SuggestionRoutine         = "routine_consistency"
)

// SuggestionItem 是一条改善建议，Priority 即固定规则表中的次序。
type SuggestionItem struct {
	Key      string
	Priority int
	Text     string
}

// Suggestions 由当日指标、画像与标志生成至多 3 条改善建议。
// 减压方式按作息类型选择：晨型人推呼吸练习，其余推晚间冥想。
func Suggestions(m Metrics, p Profile, flags map[string]bool) []SuggestionItem {
	items := make([]SuggestionItem, 0, maxSuggestions)

	if m.SleepHours < p.OptimalSleepMin {
		deficit := p.OptimalSleepMin - m.SleepHours
		items = append(items, SuggestionItem{
			Key:      SuggestionSleepDeficit,
			Priority: 1,
			Text:     fmt.Sprintf("go to bed earlier: about %.1f more hours would reach your optimal sleep range", deficit),
		})
	}

	if m.Steps < p.OptimalActivityMin {
		gap := int(p.OptimalActivityMin - m.Steps)
		items = append(items, SuggestionItem{
			Key:      SuggestionActivityDeficit,
			Priority: 2,
			Text:     fmt.Sprintf("add roughly %d steps (a 20-30 minute walk) to reach your activity floor", gap),
		})
	}

	if flags[FlagHighStress] {
		text := "wind down with an evening meditation"
		if p.Chronotype == ChronotypeMorning {
			text = "start tomorrow with a short breathing exercise"
		}
		items = append(items, SuggestionItem{Key: SuggestionStressRelief, Priority: 3, Text: text})
	}

	if flags[FlagDecliningTrend] {
		items = append(items, SuggestionItem{
			Key:      SuggestionRoutine,
			Priority: 4,
			Text:     "focus on consistent routines this week",
		})
	}

	if len(items) > maxSuggestions {
		items = items[:maxSuggestions]
	}
	return items
}
