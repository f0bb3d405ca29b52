package scoring

import "math"

// 子评分均为纯函数，输出限制在 [0,100]。

// SleepScore 由睡眠时长与主观质量构成：时长封顶 1.2 倍占 70 分，质量占 30 分。
func SleepScore(m Metrics) float64 {
	hours := math.Min(m.SleepHours/8.0, 1.2) * 70
	quality := ((m.SleepQuality - 1) / 4) * 30
	return clampScore(hours + quality)
}

// ActivityScore 由步数与活跃分钟构成，均允许超额到 1.5 倍。
func ActivityScore(m Metrics) float64 {
	steps := math.Min(m.Steps/7000.0, 1.5) * 60
	active := math.Min(m.ActiveMinutes/30.0, 1.5) * 40
	return clampScore(steps + active)
}

// MentalScore 综合情绪、压力（反向）与精力。
func MentalScore(m Metrics) float64 {
	mood := ((m.Mood - 1) / 4) * 40
	stress := ((5 - m.Stress) / 4) * 30
	energy := ((m.Energy - 1) / 4) * 30
	return clampScore(mood + stress + energy)
}

// Overall 加权合成总分并应用昼夜因子，四舍五入后限制在 [0,100]。
func Overall(sleep, activity, mental float64, w Weights, circadianFactor float64) int {
	base := sleep*w.Sleep + activity*w.Activity + mental*w.Mental
	return int(math.Round(clampScore(base * circadianFactor)))
}
