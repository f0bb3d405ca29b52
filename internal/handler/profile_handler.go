package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vitalog/internal/db"
	"github.com/vitalog/internal/service"
)

type preferencesPayload struct {
	SleepSensitivity      *float64 `json:"sleep_sensitivity"`
	ActivitySensitivity   *float64 `json:"activity_sensitivity"`
	MoodSensitivity       *float64 `json:"mood_sensitivity"`
	StressSensitivity     *float64 `json:"stress_sensitivity"`
	OptimalSleepMin       *float64 `json:"optimal_sleep_min"`
	OptimalSleepMax       *float64 `json:"optimal_sleep_max"`
	OptimalActivityMin    *float64 `json:"optimal_activity_min"`
	OptimalActivityMax    *float64 `json:"optimal_activity_max"`
	Chronotype            *string  `json:"chronotype"`
	StressPatternWeekdays []string `json:"stress_pattern_weekdays"`
}

// GetProfile 返回用户画像，不存在时以人群默认值懒创建
func (a *API) GetProfile(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userID"))
	if userID == "" {
		respondError(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	profile, err := a.profiles.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取画像失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profileToPayload(profile)})
}

// UpdatePreferences 更新引导流程所有的画像字段，基线不受影响
func (a *API) UpdatePreferences(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userID"))
	if userID == "" {
		respondError(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	var payload preferencesPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	profile, err := a.profiles.UpdatePreferences(c.Request.Context(), userID, service.PreferencesInput{
		SleepSensitivity:      payload.SleepSensitivity,
		ActivitySensitivity:   payload.ActivitySensitivity,
		MoodSensitivity:       payload.MoodSensitivity,
		StressSensitivity:     payload.StressSensitivity,
		OptimalSleepMin:       payload.OptimalSleepMin,
		OptimalSleepMax:       payload.OptimalSleepMax,
		OptimalActivityMin:    payload.OptimalActivityMin,
		OptimalActivityMax:    payload.OptimalActivityMax,
		Chronotype:            payload.Chronotype,
		StressPatternWeekdays: payload.StressPatternWeekdays,
	})
	if err != nil {
		if errors.Is(err, service.ErrPreferencesInvalid) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "更新偏好失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profileToPayload(profile)})
}

func profileToPayload(p *db.UserProfile) gin.H {
	return gin.H{
		"user_id":                 p.UserID,
		"baseline_sleep":          p.BaselineSleep,
		"baseline_activity":       p.BaselineActivity,
		"baseline_mood":           p.BaselineMood,
		"baseline_stress":         p.BaselineStress,
		"baseline_energy":         p.BaselineEnergy,
		"sleep_sensitivity":       p.SleepSensitivity,
		"activity_sensitivity":    p.ActivitySensitivity,
		"mood_sensitivity":        p.MoodSensitivity,
		"stress_sensitivity":      p.StressSensitivity,
		"optimal_sleep_min":       p.OptimalSleepMin,
		"optimal_sleep_max":       p.OptimalSleepMax,
		"optimal_activity_min":    p.OptimalActivityMin,
		"optimal_activity_max":    p.OptimalActivityMax,
		"chronotype":              p.Chronotype,
		"stress_pattern_weekdays": []string(p.StressPatternWeekdays),
		"confidence_score":        p.ConfidenceScore,
		"data_points_count":       p.DataPointsCount,
		"last_learning_date":      p.LastLearningDate,
	}
}
