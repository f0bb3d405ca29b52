package scoring

import (
	"strings"
	"time"
)

// 昼夜因子的边界与增量
const (
	circadianMin         = 0.8
	circadianMax         = 1.2
	weekendBonus         = 0.05
	stressWeekdayPenalty = 0.1
)

// CircadianFactor 计算当日的昼夜调整因子：周末小幅上调，
// 落在用户压力模式星期内则下调，结果限制在 [0.8, 1.2]。
func CircadianFactor(date time.Time, p Profile) float64 {
	factor := 1.0

	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		factor += weekendBonus
	}

	weekday := date.Weekday().String()
	for _, name := range p.StressPatternWeekdays {
		if strings.EqualFold(strings.TrimSpace(name), weekday) {
			factor -= stressWeekdayPenalty
			break
		}
	}

	if factor < circadianMin {
		return circadianMin
	}
	if factor > circadianMax {
		return circadianMax
	}
	return factor
}
