package scoring

import "math"

const (
	// anomalyWindowDays 是离群检测的滚动窗口，数据不足时不判定
	anomalyWindowDays = 14
	// anomalySigmaCap 表示多少倍标准差映射为满分异常
	anomalySigmaCap = 3
)

// AnomalyScore 对今日睡眠时长与步数做 z-score 离群检测，
// 取两者较大的偏差并按 3σ 归一到 [0,1]。
// 历史不足 14 天视为数据不足，返回 0 而非错误。
func AnomalyScore(m Metrics, history []Metrics) float64 {
	if len(history) < anomalyWindowDays {
		return 0
	}

	window := history[len(history)-anomalyWindowDays:]
	sleepSeries := make([]float64, 0, len(window))
	stepSeries := make([]float64, 0, len(window))
	for _, h := range window {
		sleepSeries = append(sleepSeries, h.SleepHours)
		stepSeries = append(stepSeries, h.Steps)
	}

	sleepZ := zScore(m.SleepHours, sleepSeries)
	stepsZ := zScore(m.Steps, stepSeries)

	return math.Min(1, math.Max(sleepZ, stepsZ)/anomalySigmaCap)
}

// zScore 返回取值相对序列分布的绝对偏差倍数；标准差为 0 时取 0。
func zScore(value float64, series []float64) float64 {
	sd := popStdDev(series)
	if sd == 0 {
		return 0
	}
	return math.Abs(value-mean(series)) / sd
}
