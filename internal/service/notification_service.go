package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vitalog/internal/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrScheduleNotFound 在指定提醒不存在时返回
	ErrScheduleNotFound = errors.New("notification schedule not found")
	// ErrScheduleInvalid 在提醒配置异常时返回
	ErrScheduleInvalid = errors.New("invalid notification schedule")
)

// 支持的提醒类型
var scheduleKinds = map[string]bool{
	"breathing":   true,
	"meditation":  true,
	"stretching":  true,
	"score_ready": true,
}

// NotificationService 负责客户端提醒规则表的增删改查
// 推送投递由外部协作方完成，这里只管规则存取。
type NotificationService struct {
	db *gorm.DB
}

// ScheduleInput 定义创建/更新提醒时的可配置字段
type ScheduleInput struct {
	UserID   string
	Kind     string
	Hour     int
	Minute   int
	Weekdays []string
	Enabled  bool
}

// NewNotificationService 构造 NotificationService
func NewNotificationService(gdb *gorm.DB) *NotificationService {
	return &NotificationService{db: gdb}
}

// List 返回用户的全部提醒规则。
func (s *NotificationService) List(ctx context.Context, userID string) ([]db.NotificationSchedule, error) {
	var rows []db.NotificationSchedule
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Order("kind ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return rows, nil
}

// Upsert 以 (user_id, kind) 为键写入提醒规则，重复提交幂等。
func (s *NotificationService) Upsert(ctx context.Context, input ScheduleInput) (*db.NotificationSchedule, error) {
	if err := validateScheduleInput(input); err != nil {
		return nil, err
	}

	record := db.NotificationSchedule{
		UserID:   strings.TrimSpace(input.UserID),
		Kind:     strings.TrimSpace(strings.ToLower(input.Kind)),
		Hour:     input.Hour,
		Minute:   input.Minute,
		Weekdays: datatypes.NewJSONSlice(input.Weekdays),
		Enabled:  input.Enabled,
	}

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"hour", "minute", "weekdays", "enabled", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("upsert schedule: %w", err)
	}

	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND kind = ?", record.UserID, record.Kind).
		First(&record).Error; err != nil {
		return nil, fmt.Errorf("reload schedule: %w", err)
	}
	return &record, nil
}

// Delete 删除指定提醒规则。
func (s *NotificationService) Delete(ctx context.Context, userID, kind string) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND kind = ?", strings.TrimSpace(userID), strings.TrimSpace(strings.ToLower(kind))).
		Delete(&db.NotificationSchedule{})
	if result.Error != nil {
		return fmt.Errorf("delete schedule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

func validateScheduleInput(input ScheduleInput) error {
	if strings.TrimSpace(input.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrScheduleInvalid)
	}
	if !scheduleKinds[strings.TrimSpace(strings.ToLower(input.Kind))] {
		return fmt.Errorf("%w: unsupported kind %s", ErrScheduleInvalid, input.Kind)
	}
	if input.Hour < 0 || input.Hour > 23 {
		return fmt.Errorf("%w: hour must be 0-23", ErrScheduleInvalid)
	}
	if input.Minute < 0 || input.Minute > 59 {
		return fmt.Errorf("%w: minute must be 0-59", ErrScheduleInvalid)
	}
	for _, name := range input.Weekdays {
		if !validWeekdayName(name) {
			return fmt.Errorf("%w: unknown weekday %s", ErrScheduleInvalid, name)
		}
	}
	return nil
}
