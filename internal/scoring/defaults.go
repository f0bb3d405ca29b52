package scoring

import "math"

// Chronotype 合法取值
const (
	ChronotypeMorning = "morning"
	ChronotypeEvening = "evening"
	ChronotypeNeutral = "neutral"
)

// PopulationDefaults 集中定义新用户的人群默认画像参数，
// 避免魔法数散落在各处。
type PopulationDefaults struct {
	BaselineSleep      float64
	BaselineActivity   float64
	BaselineMood       float64
	BaselineStress     float64
	BaselineEnergy     float64
	Sensitivity        float64
	OptimalSleepMin    float64
	OptimalSleepMax    float64
	OptimalActivityMin float64
	OptimalActivityMax float64
	Chronotype         string
}

// Population 是缺少画像时使用的人群默认值。
var Population = PopulationDefaults{
	BaselineSleep:      7.5,
	BaselineActivity:   7000,
	BaselineMood:       3.5,
	BaselineStress:     2.5,
	BaselineEnergy:     3.5,
	Sensitivity:        0.5,
	OptimalSleepMin:    7.0,
	OptimalSleepMax:    8.5,
	OptimalActivityMin: 6000,
	OptimalActivityMax: 10000,
	Chronotype:         ChronotypeNeutral,
}

// Profile 把人群默认值展开为一份画像。
func (d PopulationDefaults) Profile() Profile {
	return Profile{
		BaselineSleep:       d.BaselineSleep,
		BaselineActivity:    d.BaselineActivity,
		BaselineMood:        d.BaselineMood,
		BaselineStress:      d.BaselineStress,
		BaselineEnergy:      d.BaselineEnergy,
		SleepSensitivity:    d.Sensitivity,
		ActivitySensitivity: d.Sensitivity,
		MoodSensitivity:     d.Sensitivity,
		StressSensitivity:   d.Sensitivity,
		OptimalSleepMin:     d.OptimalSleepMin,
		OptimalSleepMax:     d.OptimalSleepMax,
		OptimalActivityMin:  d.OptimalActivityMin,
		OptimalActivityMax:  d.OptimalActivityMax,
		Chronotype:          d.Chronotype,
	}
}

// confidenceWindowDays 是置信度随数据量线性爬升的窗口。
const confidenceWindowDays = 30

// Confidence 按数据点数量计算置信度：min(1, points/30)。
func Confidence(dataPoints int) float64 {
	if dataPoints <= 0 {
		return 0
	}
	return math.Min(1, float64(dataPoints)/confidenceWindowDays)
}

// PersonalBaseline 沿用来源口径，把情绪基线映射到 0-100 刻度。
func PersonalBaseline(p Profile) float64 {
	return (p.BaselineMood / 5) * 100
}
