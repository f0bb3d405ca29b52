package scoring

// NormalizedMetrics 在原始指标之上叠加基线归一视图。
// Shaped 系列是最优区间压缩变换的结果：落区间比例（限 [0,1]）
// 乘回原始值，区间外的取值被压向 0。Ratio 系列是相对个人基线的比值。
type NormalizedMetrics struct {
	Metrics

	ShapedSleepHours float64
	ShapedSteps      float64
	MoodRatio        float64
	EnergyRatio      float64
}

// Normalize 按用户画像归一化单日指标。纯函数。
func Normalize(m Metrics, p Profile) NormalizedMetrics {
	return NormalizedMetrics{
		Metrics:          m,
		ShapedSleepHours: m.SleepHours * rangeFraction(m.SleepHours, p.OptimalSleepMin, p.OptimalSleepMax),
		ShapedSteps:      m.Steps * rangeFraction(m.Steps, p.OptimalActivityMin, p.OptimalActivityMax),
		MoodRatio:        baselineRatio(m.Mood, p.BaselineMood),
		EnergyRatio:      baselineRatio(m.Energy, p.BaselineEnergy),
	}
}

// rangeFraction 返回取值落入 [min,max] 区间的比例，限制在 [0,1]。
// 区间退化（max<=min）时视为中性 1。
func rangeFraction(value, min, max float64) float64 {
	if max <= min {
		return 1
	}
	return clamp01((value - min) / (max - min))
}

// baselineRatio 计算相对基线的比值；基线为 0 时比值未定义，回退到中性 1。
func baselineRatio(value, baseline float64) float64 {
	if baseline == 0 {
		return 1
	}
	return value / baseline
}
