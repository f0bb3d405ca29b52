package db

import "gorm.io/gorm"

// HealthMetrics 记录单个用户单日的原始健康指标
// UserID + Date 采用唯一索引；数据一经写入即视为不可变，
// 摄入侧通过 OnConflict DoNothing 保证重复上报不会覆盖首次记录。
// Energy 为可选项，0 表示未上报，读取时回退到 Mood。
type HealthMetrics struct {
	gorm.Model
	UserID        string `gorm:"size:36;index;index:idx_metrics_user_date,unique"`
	Date          string `gorm:"size:10;index;index:idx_metrics_user_date,unique"`
	Steps         int
	ActiveMinutes int
	SleepHours    float64
	SleepQuality  int
	HeartRateAvg  int
	Mood          float64
	Stress        float64
	Energy        float64
	Source        string
}

// TableName 重写确保唯一索引作用到 user_id + date
func (HealthMetrics) TableName() string {
	return "health_metrics"
}

// EnergyLevel 返回生效的精力值：未上报时回退到情绪值。
func (m HealthMetrics) EnergyLevel() float64 {
	if m.Energy <= 0 {
		return m.Mood
	}
	return m.Energy
}
