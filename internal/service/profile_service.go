package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vitalog/internal/db"
	"github.com/vitalog/internal/scoring"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrProfileNotFound 在指定画像不存在时返回
	ErrProfileNotFound = errors.New("user profile not found")
	// ErrPreferencesInvalid 在偏好字段越界时返回
	ErrPreferencesInvalid = errors.New("invalid profile preferences")
)

// 画像学习的触发条件：距上次学习至少 7 天，且至少 14 个数据点。
const (
	relearnIntervalDays = 7
	relearnMinHistory   = 14
	relearnWindowDays   = 30
)

// ProfileService 负责用户画像的懒创建、偏好更新与周期性基线学习
// 基线字段只由 Relearn 改写；敏感度与最优区间归外部引导流程所有。
type ProfileService struct {
	db *gorm.DB
}

// PreferencesInput 定义外部引导流程可写入的画像字段
type PreferencesInput struct {
	SleepSensitivity      *float64
	ActivitySensitivity   *float64
	MoodSensitivity       *float64
	StressSensitivity     *float64
	OptimalSleepMin       *float64
	OptimalSleepMax       *float64
	OptimalActivityMin    *float64
	OptimalActivityMax    *float64
	Chronotype            *string
	StressPatternWeekdays []string
}

// NewProfileService 构造 ProfileService
func NewProfileService(gdb *gorm.DB) *ProfileService {
	return &ProfileService{db: gdb}
}

// defaultProfile 按人群默认值生成新画像。
func defaultProfile(userID string) db.UserProfile {
	d := scoring.Population
	return db.UserProfile{
		UserID:              userID,
		BaselineSleep:       d.BaselineSleep,
		BaselineActivity:    d.BaselineActivity,
		BaselineMood:        d.BaselineMood,
		BaselineStress:      d.BaselineStress,
		BaselineEnergy:      d.BaselineEnergy,
		SleepSensitivity:    d.Sensitivity,
		ActivitySensitivity: d.Sensitivity,
		MoodSensitivity:     d.Sensitivity,
		StressSensitivity:   d.Sensitivity,
		OptimalSleepMin:     d.OptimalSleepMin,
		OptimalSleepMax:     d.OptimalSleepMax,
		OptimalActivityMin:  d.OptimalActivityMin,
		OptimalActivityMax:  d.OptimalActivityMax,
		Chronotype:          d.Chronotype,
	}
}

// GetOrCreate 读取画像，不存在时以人群默认值懒创建。
// 该调用不会让流水线失败：插入出错时回退到未落库的内存默认画像。
func (s *ProfileService) GetOrCreate(ctx context.Context, userID string) (*db.UserProfile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrProfileNotFound)
	}

	var profile db.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	profile = defaultProfile(userID)
	if createErr := s.db.WithContext(ctx).Create(&profile).Error; createErr != nil {
		// 插入失败降级为内存默认对象，保证评分继续
		fallback := defaultProfile(userID)
		return &fallback, nil
	}
	return &profile, nil
}

// Get 读取画像，不存在时返回 ErrProfileNotFound。
func (s *ProfileService) Get(ctx context.Context, userID string) (*db.UserProfile, error) {
	var profile db.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", strings.TrimSpace(userID)).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// UpdatePreferences 更新外部引导流程所有的画像字段，基线不受影响。
func (s *ProfileService) UpdatePreferences(ctx context.Context, userID string, input PreferencesInput) (*db.UserProfile, error) {
	if err := validatePreferences(input); err != nil {
		return nil, err
	}

	profile, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	applyFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	applyFloat(&profile.SleepSensitivity, input.SleepSensitivity)
	applyFloat(&profile.ActivitySensitivity, input.ActivitySensitivity)
	applyFloat(&profile.MoodSensitivity, input.MoodSensitivity)
	applyFloat(&profile.StressSensitivity, input.StressSensitivity)
	applyFloat(&profile.OptimalSleepMin, input.OptimalSleepMin)
	applyFloat(&profile.OptimalSleepMax, input.OptimalSleepMax)
	applyFloat(&profile.OptimalActivityMin, input.OptimalActivityMin)
	applyFloat(&profile.OptimalActivityMax, input.OptimalActivityMax)
	if input.Chronotype != nil {
		profile.Chronotype = strings.TrimSpace(strings.ToLower(*input.Chronotype))
	}
	if input.StressPatternWeekdays != nil {
		profile.StressPatternWeekdays = datatypes.NewJSONSlice(input.StressPatternWeekdays)
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, fmt.Errorf("update preferences: %w", err)
	}
	return profile, nil
}

// Relearn 在满足触发条件时用近 30 天历史重算基线，并推进学习时间戳。
// 返回是否发生了学习。敏感度与最优区间永不触碰。
func (s *ProfileService) Relearn(ctx context.Context, profile *db.UserProfile, history []db.HealthMetrics, today string) (bool, error) {
	if len(history) < relearnMinHistory {
		return false, nil
	}
	if !learningDue(profile.LastLearningDate, today) {
		return false, nil
	}

	window := history
	if len(window) > relearnWindowDays {
		window = window[len(window)-relearnWindowDays:]
	}

	var sleep, activity, mood, stress float64
	for _, m := range window {
		sleep += m.SleepHours
		activity += float64(m.Steps)
		mood += m.Mood
		stress += m.Stress
	}
	n := float64(len(window))

	profile.BaselineSleep = sleep / n
	profile.BaselineActivity = activity / n
	profile.BaselineMood = mood / n
	profile.BaselineStress = stress / n
	profile.DataPointsCount = len(history)
	profile.ConfidenceScore = scoring.Confidence(len(history))
	profile.LastLearningDate = today

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return false, fmt.Errorf("save relearned profile: %w", err)
	}
	return true, nil
}

// learningDue 判断是否到达学习周期；从未学习过时立即到期。
func learningDue(lastLearningDate, today string) bool {
	if strings.TrimSpace(lastLearningDate) == "" {
		return true
	}
	last, err := time.Parse(db.DateLayout, lastLearningDate)
	if err != nil {
		return true
	}
	now, err := time.Parse(db.DateLayout, today)
	if err != nil {
		return false
	}
	return now.Sub(last).Hours()/24 >= relearnIntervalDays
}

// ToScoringProfile 把存储画像展开为纯计算层使用的画像切片。
func ToScoringProfile(p *db.UserProfile) scoring.Profile {
	return scoring.Profile{
		BaselineSleep:         p.BaselineSleep,
		BaselineActivity:      p.BaselineActivity,
		BaselineMood:          p.BaselineMood,
		BaselineStress:        p.BaselineStress,
		BaselineEnergy:        p.BaselineEnergy,
		SleepSensitivity:      p.SleepSensitivity,
		ActivitySensitivity:   p.ActivitySensitivity,
		MoodSensitivity:       p.MoodSensitivity,
		StressSensitivity:     p.StressSensitivity,
		OptimalSleepMin:       p.OptimalSleepMin,
		OptimalSleepMax:       p.OptimalSleepMax,
		OptimalActivityMin:    p.OptimalActivityMin,
		OptimalActivityMax:    p.OptimalActivityMax,
		Chronotype:            p.Chronotype,
		StressPatternWeekdays: p.StressPatternWeekdays,
		ConfidenceScore:       p.ConfidenceScore,
		DataPointsCount:       p.DataPointsCount,
	}
}

func validatePreferences(input PreferencesInput) error {
	checkUnit := func(name string, v *float64) error {
		if v != nil && (*v < 0 || *v > 1) {
			return fmt.Errorf("%w: %s must be within [0,1]", ErrPreferencesInvalid, name)
		}
		return nil
	}
	for name, v := range map[string]*float64{
		"sleep sensitivity":    input.SleepSensitivity,
		"activity sensitivity": input.ActivitySensitivity,
		"mood sensitivity":     input.MoodSensitivity,
		"stress sensitivity":   input.StressSensitivity,
	} {
		if err := checkUnit(name, v); err != nil {
			return err
		}
	}

	if input.Chronotype != nil {
		switch strings.TrimSpace(strings.ToLower(*input.Chronotype)) {
		case scoring.ChronotypeMorning, scoring.ChronotypeEvening, scoring.ChronotypeNeutral:
		default:
			return fmt.Errorf("%w: unsupported chronotype %s", ErrPreferencesInvalid, *input.Chronotype)
		}
	}

	for _, name := range input.StressPatternWeekdays {
		if !validWeekdayName(name) {
			return fmt.Errorf("%w: unknown weekday %s", ErrPreferencesInvalid, name)
		}
	}

	if input.OptimalSleepMin != nil && input.OptimalSleepMax != nil && *input.OptimalSleepMax <= *input.OptimalSleepMin {
		return fmt.Errorf("%w: optimal sleep range is empty", ErrPreferencesInvalid)
	}
	if input.OptimalActivityMin != nil && input.OptimalActivityMax != nil && *input.OptimalActivityMax <= *input.OptimalActivityMin {
		return fmt.Errorf("%w: optimal activity range is empty", ErrPreferencesInvalid)
	}
	return nil
}

func validWeekdayName(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday":
		return true
	default:
		return false
	}
}
