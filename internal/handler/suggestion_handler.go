package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vitalog/internal/db"
	"github.com/vitalog/internal/service"
)

// GetSuggestions 返回用户某一天的改善建议，按优先级升序
func (a *API) GetSuggestions(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userID"))
	if userID == "" {
		respondError(c, http.StatusBadRequest, "无效的用户ID")
		return
	}

	date, ok := queryDate(c, "date")
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的日期")
		return
	}

	rows, err := a.scores.SuggestionsForDate(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取建议失败")
		return
	}

	items := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		items = append(items, suggestionToPayload(row))
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": items, "date": date})
}

// CompleteSuggestion 标记建议完成或取消完成
func (a *API) CompleteSuggestion(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的建议ID")
		return
	}

	payload := struct {
		Completed bool `json:"completed"`
	}{Completed: true}
	if c.Request.ContentLength > 0 {
		if !bindJSON(c, &payload, "请求参数不合法") {
			return
		}
	}

	if err := a.scores.CompleteSuggestion(c.Request.Context(), id, payload.Completed); err != nil {
		if errors.Is(err, service.ErrScoreNotFound) {
			respondError(c, http.StatusNotFound, "建议不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "更新建议状态失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "completed": payload.Completed})
}

func suggestionToPayload(s db.Suggestion) gin.H {
	return gin.H{
		"id":        s.ID,
		"user_id":   s.UserID,
		"date":      s.Date,
		"key":       s.SuggestionKey,
		"priority":  s.Priority,
		"reason":    s.Reason,
		"completed": s.Completed,
	}
}
