package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vitalog/internal/db"
	"github.com/vitalog/internal/service"
)

type metricsPayload struct {
	UserID        string  `json:"user_id"`
	Date          string  `json:"date"`
	Steps         int     `json:"steps"`
	ActiveMinutes int     `json:"active_minutes"`
	SleepHours    float64 `json:"sleep_hours"`
	SleepQuality  int     `json:"sleep_quality"`
	HeartRateAvg  int     `json:"heart_rate_avg"`
	Mood          float64 `json:"mood"`
	Stress        float64 `json:"stress"`
	Energy        float64 `json:"energy"`
	Source        string  `json:"source"`
}

// IngestMetrics 摄入单日指标，重复提交幂等返回首次记录
func (a *API) IngestMetrics(c *gin.Context) {
	var payload metricsPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	record, err := a.metrics.Ingest(c.Request.Context(), service.MetricsInput{
		UserID:        payload.UserID,
		Date:          payload.Date,
		Steps:         payload.Steps,
		ActiveMinutes: payload.ActiveMinutes,
		SleepHours:    payload.SleepHours,
		SleepQuality:  payload.SleepQuality,
		HeartRateAvg:  payload.HeartRateAvg,
		Mood:          payload.Mood,
		Stress:        payload.Stress,
		Energy:        payload.Energy,
		Source:        payload.Source,
	})
	if err != nil {
		if errors.Is(err, service.ErrMetricsInvalid) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "保存指标失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"metrics": metricsToPayload(*record)})
}

// GetMetricsHistory 返回用户最近 N 天的指标，含当天
func (a *API) GetMetricsHistory(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userID"))
	if userID == "" {
		respondError(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	endDate, ok := queryDate(c, "end")
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的结束日期")
		return
	}
	days := queryDays(c, 30, 90)

	rows, err := a.metrics.Range(c.Request.Context(), userID, endDate, days)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取指标历史失败")
		return
	}

	items := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		items = append(items, metricsToPayload(row))
	}
	c.JSON(http.StatusOK, gin.H{"metrics": items, "days": days, "end": endDate})
}

func metricsToPayload(m db.HealthMetrics) gin.H {
	return gin.H{
		"id":             m.ID,
		"user_id":        m.UserID,
		"date":           m.Date,
		"steps":          m.Steps,
		"active_minutes": m.ActiveMinutes,
		"sleep_hours":    m.SleepHours,
		"sleep_quality":  m.SleepQuality,
		"heart_rate_avg": m.HeartRateAvg,
		"mood":           m.Mood,
		"stress":         m.Stress,
		"energy":         m.EnergyLevel(),
		"source":         m.Source,
	}
}
