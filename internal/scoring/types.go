package scoring

// Metrics 是经过边界校验的单日原始健康指标，纯计算层只接受该类型。
// Energy 在进入本层之前已完成缺省回退（未上报时取 Mood）。
type Metrics struct {
	Date          string
	Steps         float64
	ActiveMinutes float64
	SleepHours    float64
	SleepQuality  float64
	HeartRateAvg  float64
	Mood          float64
	Stress        float64
	Energy        float64
}

// Profile 是评分所需的用户画像切片，与存储模型解耦。
type Profile struct {
	BaselineSleep    float64
	BaselineActivity float64
	BaselineMood     float64
	BaselineStress   float64
	BaselineEnergy   float64

	SleepSensitivity    float64
	ActivitySensitivity float64
	MoodSensitivity     float64
	StressSensitivity   float64

	OptimalSleepMin    float64
	OptimalSleepMax    float64
	OptimalActivityMin float64
	OptimalActivityMax float64

	Chronotype            string
	StressPatternWeekdays []string

	ConfidenceScore float64
	DataPointsCount int
}
