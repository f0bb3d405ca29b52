package db

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserProfile 保存用户的自适应画像：个人基线、敏感度、最优区间与作息类型
// 基线字段仅由画像学习逻辑改写；敏感度与最优区间由外部引导流程初始化。
// StressPatternWeekdays 存储历史上压力偏高的星期名（如 "Monday"）。
// 不变式：ConfidenceScore = min(1, DataPointsCount/30)
type UserProfile struct {
	gorm.Model
	UserID string `gorm:"size:36;uniqueIndex"`

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

	// Chronotype 取值 morning/evening/neutral
	Chronotype            string
	StressPatternWeekdays datatypes.JSONSlice[string]

	ConfidenceScore float64
	DataPointsCount int
	// LastLearningDate 为空表示从未学习过，格式 YYYY-MM-DD
	LastLearningDate string `gorm:"size:10"`
}

// TableName 指定表名
func (UserProfile) TableName() string {
	return "user_profiles"
}
