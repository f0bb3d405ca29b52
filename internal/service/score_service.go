package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vitalog/internal/db"
	"github.com/vitalog/internal/scoring"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrScoreNotFound 在指定日期没有得分记录时返回
var ErrScoreNotFound = errors.New("life score not found")

// ScoreService 负责每日得分与建议的持久化及历史读取
// 所有写入均为按自然键的幂等 upsert，重算天然可重试。
type ScoreService struct {
	db *gorm.DB
}

// NewScoreService 构造 ScoreService
func NewScoreService(gdb *gorm.DB) *ScoreService {
	return &ScoreService{db: gdb}
}

// History 返回用户截至 endDate（不含）最近 days 天的得分，按日期升序。
func (s *ScoreService) History(ctx context.Context, userID, endDate string, days int) ([]db.LifeScore, error) {
	since, err := windowStart(endDate, days)
	if err != nil {
		return nil, err
	}

	var rows []db.LifeScore
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, since, endDate).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list score history: %w", err)
	}
	return rows, nil
}

// Range 返回用户截至 endDate（含）最近 days 天的得分，按日期升序，供 API 使用。
func (s *ScoreService) Range(ctx context.Context, userID, endDate string, days int) ([]db.LifeScore, error) {
	since, err := windowStart(endDate, days)
	if err != nil {
		return nil, err
	}

	var rows []db.LifeScore
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date > ? AND date <= ?", userID, since, endDate).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return rows, nil
}

// ForDate 返回用户某一天的得分。
func (s *ScoreService) ForDate(ctx context.Context, userID, date string) (*db.LifeScore, error) {
	var row db.LifeScore
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", strings.TrimSpace(userID), date).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScoreNotFound
		}
		return nil, fmt.Errorf("get score: %w", err)
	}
	return &row, nil
}

// UpsertScore 以 (user_id, date) 为键写入得分，重算整行覆盖。
func (s *ScoreService) UpsertScore(ctx context.Context, record *db.LifeScore) error {
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"score", "sleep_score", "activity_score", "mental_score",
			"trend_3d", "trend_7d", "flags", "reasons",
			"confidence_level", "prediction_3d", "prediction_7d",
			"anomaly_score", "circadian_factor", "personal_baseline",
			"improvement_suggestions", "updated_at",
		}),
	}).Create(record).Error; err != nil {
		return fmt.Errorf("upsert life score: %w", err)
	}
	return nil
}

// UpsertSuggestions 以 (user_id, date, suggestion_key) 为键写入建议。
// Completed 列不在更新集内，客户端的打勾状态在重算时得以保留。
func (s *ScoreService) UpsertSuggestions(ctx context.Context, userID, date string, items []scoring.SuggestionItem) error {
	for _, item := range items {
		record := db.Suggestion{
			UserID:        userID,
			Date:          date,
			SuggestionKey: item.Key,
			Priority:      item.Priority,
			Reason:        item.Text,
		}
		if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}, {Name: "suggestion_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"priority", "reason", "updated_at"}),
		}).Create(&record).Error; err != nil {
			return fmt.Errorf("upsert suggestion %s: %w", item.Key, err)
		}
	}
	return nil
}

// SuggestionsForDate 返回用户某一天的建议，按优先级升序。
func (s *ScoreService) SuggestionsForDate(ctx context.Context, userID, date string) ([]db.Suggestion, error) {
	var rows []db.Suggestion
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", strings.TrimSpace(userID), date).
		Order("priority ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	return rows, nil
}

// CompleteSuggestion 标记建议完成，归客户端交互所有。
func (s *ScoreService) CompleteSuggestion(ctx context.Context, id uint, completed bool) error {
	result := s.db.WithContext(ctx).
		Model(&db.Suggestion{}).
		Where("id = ?", id).
		Update("completed", completed)
	if result.Error != nil {
		return fmt.Errorf("complete suggestion: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrScoreNotFound
	}
	return nil
}
