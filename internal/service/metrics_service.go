package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vitalog/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrMetricsInvalid 在指标字段越界时返回
	ErrMetricsInvalid = errors.New("invalid health metrics")
	// ErrMetricsNotFound 在指定日期无记录时返回
	ErrMetricsNotFound = errors.New("health metrics not found")
)

// MetricsService 负责原始健康指标的摄入与历史读取
// 指标一经写入即不可变：重复摄入同一 (user, date) 不覆盖首次记录。
type MetricsService struct {
	db *gorm.DB
}

// MetricsInput 定义摄入单日指标时的可配置字段
type MetricsInput struct {
	UserID        string
	Date          string
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

// NewMetricsService 构造 MetricsService
func NewMetricsService(gdb *gorm.DB) *MetricsService {
	return &MetricsService{db: gdb}
}

// Ingest 摄入单日指标，幂等：已存在的 (user, date) 保持原样并原样返回。
func (s *MetricsService) Ingest(ctx context.Context, input MetricsInput) (*db.HealthMetrics, error) {
	if err := validateMetricsInput(input); err != nil {
		return nil, err
	}

	record := db.HealthMetrics{
		UserID:        strings.TrimSpace(input.UserID),
		Date:          strings.TrimSpace(input.Date),
		Steps:         input.Steps,
		ActiveMinutes: input.ActiveMinutes,
		SleepHours:    input.SleepHours,
		SleepQuality:  input.SleepQuality,
		HeartRateAvg:  input.HeartRateAvg,
		Mood:          input.Mood,
		Stress:        input.Stress,
		Energy:        input.Energy,
		Source:        strings.TrimSpace(input.Source),
	}

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("ingest metrics: %w", err)
	}

	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", record.UserID, record.Date).
		First(&record).Error; err != nil {
		return nil, fmt.Errorf("reload metrics: %w", err)
	}

	return &record, nil
}

// ForDate 返回某一天所有用户的指标，作为汇总作业的批次输入。
func (s *MetricsService) ForDate(ctx context.Context, date string) ([]db.HealthMetrics, error) {
	var rows []db.HealthMetrics
	if err := s.db.WithContext(ctx).
		Where("date = ?", date).
		Order("user_id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list metrics for date: %w", err)
	}
	return rows, nil
}

// History 返回用户截至 endDate（不含当天）最近 days 天的指标，按日期升序。
// 汇总流水线以此为滚动窗口，当日指标单独传入，避免自我污染。
// 空结果不是错误，下游各阶段自行按数据不足降级。
func (s *MetricsService) History(ctx context.Context, userID, endDate string, days int) ([]db.HealthMetrics, error) {
	since, err := windowStart(endDate, days)
	if err != nil {
		return nil, err
	}

	var rows []db.HealthMetrics
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, since, endDate).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list metrics history: %w", err)
	}
	return rows, nil
}

// Range 返回用户截至 endDate（含）最近 days 天的指标，按日期升序，供 API 使用。
func (s *MetricsService) Range(ctx context.Context, userID, endDate string, days int) ([]db.HealthMetrics, error) {
	since, err := windowStart(endDate, days)
	if err != nil {
		return nil, err
	}

	var rows []db.HealthMetrics
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date > ? AND date <= ?", userID, since, endDate).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}
	return rows, nil
}

// windowStart 返回回看窗口起点：endDate 往前推 days 天。
// History 以起点为含端下界（恰好 days 个历史日），Range 以其为不含端下界（含当天共 days 天）。
func windowStart(endDate string, days int) (string, error) {
	end, err := time.Parse(db.DateLayout, strings.TrimSpace(endDate))
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", endDate, err)
	}
	if days <= 0 {
		days = 1
	}
	return end.AddDate(0, 0, -days).Format(db.DateLayout), nil
}

func validateMetricsInput(input MetricsInput) error {
	if strings.TrimSpace(input.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrMetricsInvalid)
	}
	if _, err := time.Parse(db.DateLayout, strings.TrimSpace(input.Date)); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrMetricsInvalid)
	}
	if input.Steps < 0 || input.ActiveMinutes < 0 || input.HeartRateAvg < 0 {
		return fmt.Errorf("%w: counters must be non-negative", ErrMetricsInvalid)
	}
	if input.SleepHours < 0 || input.SleepHours > 24 {
		return fmt.Errorf("%w: sleep hours out of range", ErrMetricsInvalid)
	}
	if input.SleepQuality < 1 || input.SleepQuality > 5 {
		return fmt.Errorf("%w: sleep quality must be 1-5", ErrMetricsInvalid)
	}
	if input.Mood < 1 || input.Mood > 5 {
		return fmt.Errorf("%w: mood must be 1-5", ErrMetricsInvalid)
	}
	if input.Stress < 1 || input.Stress > 5 {
		return fmt.Errorf("%w: stress must be 1-5", ErrMetricsInvalid)
	}
	if input.Energy != 0 && (input.Energy < 1 || input.Energy > 5) {
		return fmt.Errorf("%w: energy must be 1-5 when provided", ErrMetricsInvalid)
	}
	return nil
}
