package scoring

import "math"

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func clampScore(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	var sum float64
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}

// popStdDev 计算总体标准差（分母 n）。
func popStdDev(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	m := mean(series)
	var sum float64
	for _, v := range series {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(series)))
}

// tail 返回序列末尾至多 n 个元素。
func tail(series []float64, n int) []float64 {
	if n <= 0 || len(series) <= n {
		return series
	}
	return series[len(series)-n:]
}
