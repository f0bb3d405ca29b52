package scoring

import "math"

const (
	// minHistoryForForecast 之前不做回归外推，直接使用近期均值
	minHistoryForForecast = 7
	// forecastFitWindow 是线性拟合使用的最大历史长度
	forecastFitWindow = 14
	// forecastFallback 是完全没有历史时的预测缺省值
	forecastFallback = 75
)

// TrendDelta 计算今日得分相对最近 window 天均值的增量（四舍五入）。
// 历史不足 window 天时用现有子集的均值；历史为空时趋势为 0。
func TrendDelta(todayScore float64, history []float64, window int) int {
	if len(history) == 0 {
		return 0
	}
	return int(math.Round(todayScore - mean(tail(history, window))))
}

// Predict 返回 3 天与 7 天的短期预测，限制在 [0,100]。
// 历史不足 7 条时预测退化为近 3 条均值（无历史时为 75）；
// 否则在最近 14 条得分上做最小二乘拟合并外推。
func Predict(history []float64) (pred3, pred7 int) {
	if len(history) == 0 {
		return forecastFallback, forecastFallback
	}

	base := mean(tail(history, 3))
	if len(history) < minHistoryForForecast {
		v := int(math.Round(clampScore(base)))
		return v, v
	}

	slope := olsSlope(tail(history, forecastFitWindow))
	pred3 = int(math.Round(clampScore(base + slope*3)))
	pred7 = int(math.Round(clampScore(base + slope*7)))
	return pred3, pred7
}

// olsSlope 对 序号→得分 做普通最小二乘拟合，返回斜率。
// 分母为 0（不足两点或序号退化）时斜率取 0。
func olsSlope(series []float64) float64 {
	n := float64(len(series))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range series {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	den := n*sumXX - sumX*sumX
	if den == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / den
}
