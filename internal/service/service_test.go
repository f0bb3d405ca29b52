package service

import (
	"testing"

	"github.com/vitalog/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupServiceTestDB 打开共享内存库并迁移全部模型，返回清理函数。
func setupServiceTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(
		&db.User{},
		&db.HealthMetrics{},
		&db.UserProfile{},
		&db.LifeScore{},
		&db.Suggestion{},
		&db.NotificationSchedule{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

// seedMetrics 构造一条有效的摄入输入，便于各测试微调。
func seedMetrics(userID, date string) MetricsInput {
	return MetricsInput{
		UserID:        userID,
		Date:          date,
		Steps:         8000,
		ActiveMinutes: 30,
		SleepHours:    8,
		SleepQuality:  5,
		HeartRateAvg:  62,
		Mood:          4,
		Stress:        2,
		Energy:        4,
		Source:        "healthkit",
	}
}
