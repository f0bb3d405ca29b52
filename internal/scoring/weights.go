package scoring

import "math"

// Weights 是三个子评分的权重，约定相加恒为 1。
type Weights struct {
	Sleep    float64
	Activity float64
	Mental   float64
}

const (
	// minHistoryForPersonalWeights 之前一律使用人群默认权重
	minHistoryForPersonalWeights = 7
	// smoothingWindowDays 控制从默认权重到个性化权重的过渡速度
	smoothingWindowDays = 30
)

// DefaultWeights 返回人群默认权重。
func DefaultWeights() Weights {
	return Weights{Sleep: 0.35, Activity: 0.30, Mental: 0.35}
}

// ComputeWeights 从敏感度画像推导子评分权重。
// 数据不足或敏感度全零时回退默认值；否则按 min(history/30,1)
// 的平滑系数在默认权重与敏感度比例权重之间线性过渡，
// 避免新用户的权重大幅摆动。
func ComputeWeights(p Profile, historyLen int) Weights {
	defaults := DefaultWeights()
	if historyLen < minHistoryForPersonalWeights {
		return defaults
	}

	sum := p.SleepSensitivity + p.ActivitySensitivity + p.MoodSensitivity
	if sum == 0 {
		return defaults
	}

	base := Weights{
		Sleep:    p.SleepSensitivity / sum,
		Activity: p.ActivitySensitivity / sum,
		Mental:   p.MoodSensitivity / sum,
	}

	smoothing := math.Min(float64(historyLen)/smoothingWindowDays, 1)
	return Weights{
		Sleep:    defaults.Sleep*(1-smoothing) + base.Sleep*smoothing,
		Activity: defaults.Activity*(1-smoothing) + base.Activity*smoothing,
		Mental:   defaults.Mental*(1-smoothing) + base.Mental*smoothing,
	}
}
