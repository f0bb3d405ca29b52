package db

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LifeScore 是每日汇总作业的产出：单用户单日一行
// UserID + Date 唯一索引，重算时整行覆盖（幂等 upsert）。
// Flags 仅记录命中的条件（值恒为 true），未命中的条件不落库。
type LifeScore struct {
	gorm.Model
	UserID string `gorm:"size:36;index;index:idx_life_score_user_date,unique"`
	Date   string `gorm:"size:10;index;index:idx_life_score_user_date,unique"`

	Score         int
	SleepScore    int
	ActivityScore int
	MentalScore   int

	Trend3d int `gorm:"column:trend_3d"`
	Trend7d int `gorm:"column:trend_7d"`

	Flags   datatypes.JSONType[map[string]bool]
	Reasons datatypes.JSONSlice[string]

	ConfidenceLevel float64
	Prediction3d    int `gorm:"column:prediction_3d"`
	Prediction7d    int `gorm:"column:prediction_7d"`
	AnomalyScore    float64
	CircadianFactor float64
	// PersonalBaseline 沿用来源口径：(baseline_mood/5)*100
	PersonalBaseline       float64
	ImprovementSuggestions datatypes.JSONSlice[string]
}

// TableName 指定表名
func (LifeScore) TableName() string {
	return "life_scores"
}
