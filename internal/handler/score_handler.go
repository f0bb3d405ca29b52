package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vitalog/internal/db"
	"github.com/vitalog/internal/service"
)

// GetScores 返回用户最近 N 天的每日得分，含当天
func (a *API) GetScores(c *gin.Context) {
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
	days := queryDays(c, 7, 90)

	rows, err := a.scores.Range(c.Request.Context(), userID, endDate, days)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取得分历史失败")
		return
	}

	items := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		items = append(items, scoreToPayload(row))
	}
	c.JSON(http.StatusOK, gin.H{"scores": items, "days": days, "end": endDate})
}

// GetTodayScore 返回用户当天的得分
func (a *API) GetTodayScore(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userID"))
	if userID == "" {
		respondError(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	today := time.Now().Format(db.DateLayout)
	row, err := a.scores.ForDate(c.Request.Context(), userID, today)
	if err != nil {
		if errors.Is(err, service.ErrScoreNotFound) {
			respondError(c, http.StatusNotFound, "今日得分尚未生成")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取得分失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"score": scoreToPayload(*row)})
}

// RunRollup 手动触发一次批量汇总，供运维补算使用
func (a *API) RunRollup(c *gin.Context) {
	var payload struct {
		Date string `json:"date"`
	}
	if c.Request.ContentLength > 0 {
		if !bindJSON(c, &payload, "请求参数不合法") {
			return
		}
	}

	result, err := a.rollup.Run(c.Request.Context(), payload.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

func scoreToPayload(s db.LifeScore) gin.H {
	return gin.H{
		"user_id":                 s.UserID,
		"date":                    s.Date,
		"score":                   s.Score,
		"sleep_score":             s.SleepScore,
		"activity_score":          s.ActivityScore,
		"mental_score":            s.MentalScore,
		"trend_3d":                s.Trend3d,
		"trend_7d":                s.Trend7d,
		"flags":                   s.Flags.Data(),
		"reasons":                 []string(s.Reasons),
		"confidence_level":        s.ConfidenceLevel,
		"prediction_3d":           s.Prediction3d,
		"prediction_7d":           s.Prediction7d,
		"anomaly_score":           s.AnomalyScore,
		"circadian_factor":        s.CircadianFactor,
		"personal_baseline":       s.PersonalBaseline,
		"improvement_suggestions": []string(s.ImprovementSuggestions),
	}
}
