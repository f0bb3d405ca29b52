package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vitalog/internal/db"
	"github.com/vitalog/internal/service"
)

type schedulePayload struct {
	Kind     string   `json:"kind"`
	Hour     int      `json:"hour"`
	Minute   int      `json:"minute"`
	Weekdays []string `json:"weekdays"`
	Enabled  bool     `json:"enabled"`
}

// ListNotifications 返回用户的全部提醒规则
func (a *API) ListNotifications(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userID"))
	if userID == "" {
		respondError(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	rows, err := a.notifications.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取提醒规则失败")
		return
	}

	items := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		items = append(items, scheduleToPayload(row))
	}
	c.JSON(http.StatusOK, gin.H{"schedules": items})
}

// UpsertNotification 创建或更新提醒规则，重复提交幂等
func (a *API) UpsertNotification(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userID"))
	if userID == "" {
		respondError(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	var payload schedulePayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	record, err := a.notifications.Upsert(c.Request.Context(), service.ScheduleInput{
		UserID:   userID,
		Kind:     payload.Kind,
		Hour:     payload.Hour,
		Minute:   payload.Minute,
		Weekdays: payload.Weekdays,
		Enabled:  payload.Enabled,
	})
	if err != nil {
		if errors.Is(err, service.ErrScheduleInvalid) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "保存提醒规则失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedule": scheduleToPayload(*record)})
}

// DeleteNotification 删除指定类型的提醒规则
func (a *API) DeleteNotification(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userID"))
	kind := strings.TrimSpace(c.Param("kind"))
	if userID == "" || kind == "" {
		respondError(c, http.StatusBadRequest, "无效的提醒规则")
		return
	}

	if err := a.notifications.Delete(c.Request.Context(), userID, kind); err != nil {
		if errors.Is(err, service.ErrScheduleNotFound) {
			respondError(c, http.StatusNotFound, "提醒规则不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "删除提醒规则失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func scheduleToPayload(s db.NotificationSchedule) gin.H {
	return gin.H{
		"id":       s.ID,
		"user_id":  s.UserID,
		"kind":     s.Kind,
		"hour":     s.Hour,
		"minute":   s.Minute,
		"weekdays": []string(s.Weekdays),
		"enabled":  s.Enabled,
	}
}
